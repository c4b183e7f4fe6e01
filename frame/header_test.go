package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		VersionMajor: format.FormatVersionMajor,
		VersionMinor: format.FormatVersionMinor,
		Typesize:     4,
		ChunkSize:    1024,
		BlockSize:    256,
		NChunks:      3,
		CodecID:      format.CodecZstd,
		CodecLevel:   5,
		Filters:      [maxChainLen]format.FilterID{format.FilterShuffle},
		TrailerOff:   4096,
	}

	buf := make([]byte, HeaderSize)
	require.NoError(t, h.Encode(buf))

	got, err := DecodeHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h.Typesize, got.Typesize)
	assert.Equal(t, h.ChunkSize, got.ChunkSize)
	assert.Equal(t, h.NChunks, got.NChunks)
	assert.Equal(t, h.CodecID, got.CodecID)
	assert.Equal(t, h.TrailerOff, got.TrailerOff)
	assert.Equal(t, h.Filters, got.Filters)
}

func TestDecodeHeader_RejectsBadMagic(t *testing.T) {
	buf := make([]byte, HeaderSize)
	_, err := DecodeHeader(buf)
	require.ErrorIs(t, err, errs.ErrInvalidFormat)
}

func TestDecodeHeader_RejectsUnknownMajorVersion(t *testing.T) {
	h := Header{VersionMajor: format.FormatVersionMajor + 1}
	buf := make([]byte, HeaderSize)
	require.NoError(t, h.Encode(buf))

	_, err := DecodeHeader(buf)
	require.ErrorIs(t, err, errs.ErrUnknownVersion)
}
