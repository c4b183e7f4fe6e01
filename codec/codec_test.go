package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

func allCodecs() []Codec {
	return []Codec{
		NewNoneCodec(),
		NewBloscLZCodec(),
		NewLZ4Codec(),
		NewZstdCodec(),
		NewZlibCodec(),
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 200)

	for _, c := range allCodecs() {
		t.Run(c.ID().String(), func(t *testing.T) {
			compressed, err := c.Compress(payload, 5)
			require.NoError(t, err)

			decompressed, err := c.Decompress(compressed, len(payload))
			require.NoError(t, err)
			assert.Equal(t, payload, decompressed)
		})
	}
}

func TestCodecs_EmptyInput(t *testing.T) {
	for _, c := range allCodecs() {
		t.Run(c.ID().String(), func(t *testing.T) {
			compressed, err := c.Compress(nil, 1)
			require.NoError(t, err)
			if c.ID() == format.CodecNone {
				return
			}
			_, err = c.Decompress(compressed, 0)
			require.NoError(t, err)
		})
	}
}

func TestCreateCodec_AllBuiltins(t *testing.T) {
	ids := []format.CodecID{
		format.CodecNone, format.CodecBloscLZ, format.CodecLZ4, format.CodecZstd, format.CodecZlib,
	}
	for _, id := range ids {
		c, err := CreateCodec(id, "test")
		require.NoError(t, err)
		assert.Equal(t, id, c.ID())
	}
}

func TestCreateCodec_Graph_Unsupported(t *testing.T) {
	_, err := CreateCodec(format.CodecGraph, "test")
	require.ErrorIs(t, err, errs.ErrUnsupported)
}

func TestCreateCodec_UnknownID(t *testing.T) {
	_, err := CreateCodec(format.CodecID(0xFE), "test")
	require.ErrorIs(t, err, errs.ErrUnsupported)
}

type echoCodec struct{}

func (echoCodec) ID() format.CodecID                             { return format.CodecID(0x10) }
func (echoCodec) Compress(d []byte, _ int) ([]byte, error)       { return d, nil }
func (echoCodec) Decompress(d []byte, _ int) ([]byte, error)     { return d, nil }

func TestRegisterCodec(t *testing.T) {
	id := format.CodecID(0x11)
	require.NoError(t, RegisterCodec(id, echoCodec{}))

	c, err := GetCodec(id)
	require.NoError(t, err)
	assert.Equal(t, format.CodecID(0x10), c.ID())

	err = RegisterCodec(id, echoCodec{})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	err = RegisterCodec(format.CodecZstd, echoCodec{})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestNoneCodec_PassesThrough(t *testing.T) {
	c := NewNoneCodec()
	data := []byte("hello")
	out, err := c.Compress(data, 5)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	out2, err := c.Decompress(out, len(data))
	require.NoError(t, err)
	assert.Equal(t, data, out2)
}
