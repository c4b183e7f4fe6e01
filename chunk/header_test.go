package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncdata/ncdata/format"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		NBytes:    1024,
		BlockSize: 256,
		CBytes:    512,
		CodecID:   format.CodecZstd,
		Checksum:  true,
		Version:   format.FormatVersionMinor,
		Typesize:  4,
		Filters:   [maxChainLen]format.FilterID{format.FilterShuffle},
		Metas:     [maxChainLen]byte{0},
	}

	buf := make([]byte, HeaderSize)
	require.NoError(t, h.Encode(buf))

	got, err := DecodeHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, h.NBytes, got.NBytes)
	assert.Equal(t, h.BlockSize, got.BlockSize)
	assert.Equal(t, h.CBytes, got.CBytes)
	assert.Equal(t, h.CodecID, got.CodecID)
	assert.Equal(t, h.Checksum, got.Checksum)
	assert.Equal(t, h.Typesize, got.Typesize)
	assert.Equal(t, h.Filters, got.Filters)
}

func TestDecodeHeader_RejectsNewerMinorVersion(t *testing.T) {
	h := Header{Version: format.FormatVersionMinor + 1}
	buf := make([]byte, HeaderSize)
	require.NoError(t, h.Encode(buf))

	_, err := DecodeHeader(buf)
	require.Error(t, err)
}
