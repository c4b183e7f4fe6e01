package block

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncdata/ncdata/codec"
	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/filter"
)

func TestHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, HeaderSize)
	require.NoError(t, EncodeHeader(buf, 12345, FlagRaw))

	length, flags, err := DecodeHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, 12345, length)
	assert.Equal(t, FlagRaw, flags)
}

func TestEncodeHeader_RejectsOversizedLength(t *testing.T) {
	buf := make([]byte, HeaderSize)
	err := EncodeHeader(buf, 1<<24, 0)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestPipeline_CompressDecompress_Compressible(t *testing.T) {
	p := Pipeline{
		Chain: filter.DefaultChain(4),
		Codec: codec.NewZlibCodec(),
		Level: 5,
	}
	ctx := filter.Context{ItemWidth: 4}

	raw := bytes.Repeat([]byte{1, 2, 3, 4}, 256)
	scratchA := make([]byte, len(raw))
	scratchB := make([]byte, len(raw))
	dst := make([]byte, 0, HeaderSize+len(raw))

	stored, err := p.CompressBlock(ctx, raw, scratchA, scratchB, dst)
	require.NoError(t, err)

	_, flags, err := DecodeHeader(stored)
	require.NoError(t, err)
	assert.Equal(t, byte(0), flags&FlagRaw, "repeated payload should compress below raw size")

	decoded, err := p.DecompressBlock(ctx, stored, len(raw), make([]byte, len(raw)), make([]byte, len(raw)))
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestPipeline_FallsBackToRaw_OnIncompressibleData(t *testing.T) {
	p := Pipeline{
		Chain: filter.Chain{Steps: []filter.Step{{ID: 0}}}, // identity
		Codec: codec.NewLZ4Codec(),
		Level: 1,
	}
	ctx := filter.Context{ItemWidth: 1}

	// Random-looking, short, incompressible payload.
	raw := []byte{0x4e, 0x11, 0x9a, 0x02, 0xff, 0x3c, 0x77, 0x88}
	scratchA := make([]byte, len(raw))
	scratchB := make([]byte, len(raw))
	dst := make([]byte, 0, HeaderSize+len(raw))

	stored, err := p.CompressBlock(ctx, raw, scratchA, scratchB, dst)
	require.NoError(t, err)

	_, flags, err := DecodeHeader(stored)
	require.NoError(t, err)
	assert.Equal(t, FlagRaw, flags&FlagRaw, "incompressible payload should be stored raw")

	decoded, err := p.DecompressBlock(ctx, stored, len(raw), make([]byte, len(raw)), make([]byte, len(raw)))
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}
