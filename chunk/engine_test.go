package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncdata/ncdata/ctx"
	"github.com/ncdata/ncdata/filter"
	"github.com/ncdata/ncdata/format"
	"github.com/ncdata/ncdata/ndim"
)

func newTestEngine(t *testing.T) (Engine, ctx.CParams) {
	t.Helper()
	g, err := ndim.NewGeometry([]int{8, 8}, []int{8, 8}, []int{4, 4})
	require.NoError(t, err)

	e := Engine{Geometry: g, ItemKind: format.ItemInt32}
	cparams := ctx.CParams{
		CodecID:   format.CodecZstd,
		Level:     3,
		ItemWidth: 4,
		ItemKind:  format.ItemInt32,
		NThreads:  1,
		Chain:     filter.DefaultChain(4),
	}
	return e, cparams
}

func TestEngine_CompressDecompress_RoundTrip_SingleThread(t *testing.T) {
	e, cparams := newTestEngine(t)

	buf := make([]byte, 8*8*4)
	for i := range buf {
		buf[i] = byte(i)
	}

	c, err := e.CompressChunk(buf, cparams)
	require.NoError(t, err)
	assert.NotEmpty(t, c.Bytes)

	out, err := e.DecompressChunk(c, ctx.DParams{NThreads: 1})
	require.NoError(t, err)
	assert.Equal(t, buf, out)
}

func TestEngine_CompressDecompress_RoundTrip_MultiThread(t *testing.T) {
	e, cparams := newTestEngine(t)
	cparams.NThreads = 4

	buf := make([]byte, 8*8*4)
	for i := range buf {
		buf[i] = byte(i * 3)
	}

	c, err := e.CompressChunk(buf, cparams)
	require.NoError(t, err)

	out, err := e.DecompressChunk(c, ctx.DParams{NThreads: 4})
	require.NoError(t, err)
	assert.Equal(t, buf, out)
}

func TestEngine_DifferentCodecsRoundTrip(t *testing.T) {
	codecs := []format.CodecID{format.CodecNone, format.CodecBloscLZ, format.CodecLZ4, format.CodecZstd, format.CodecZlib}
	for _, id := range codecs {
		t.Run(id.String(), func(t *testing.T) {
			e, cparams := newTestEngine(t)
			cparams.CodecID = id

			buf := make([]byte, 8*8*4)
			for i := range buf {
				buf[i] = byte((i * 37) % 251)
			}

			c, err := e.CompressChunk(buf, cparams)
			require.NoError(t, err)

			out, err := e.DecompressChunk(c, ctx.DParams{NThreads: 1})
			require.NoError(t, err)
			assert.Equal(t, buf, out)
		})
	}
}

func TestEngine_DeltaFilterRoundTrip(t *testing.T) {
	e, cparams := newTestEngine(t)
	cparams.Chain = filter.Chain{Steps: []filter.Step{{ID: format.FilterDelta}}}

	buf := make([]byte, 8*8*4)
	for i := range buf {
		buf[i] = byte(i * 7)
	}

	c, err := e.CompressChunk(buf, cparams)
	require.NoError(t, err)

	out, err := e.DecompressChunk(c, ctx.DParams{NThreads: 1})
	require.NoError(t, err)
	assert.Equal(t, buf, out)
}

func TestEngine_RejectsWrongBufferSize(t *testing.T) {
	e, cparams := newTestEngine(t)
	_, err := e.CompressChunk(make([]byte, 10), cparams)
	require.Error(t, err)
}

func TestEngine_ChecksumDetectsCorruption(t *testing.T) {
	e, cparams := newTestEngine(t)

	buf := make([]byte, 8*8*4)
	for i := range buf {
		buf[i] = byte(i)
	}

	c, err := e.CompressChunk(buf, cparams)
	require.NoError(t, err)

	// Flip a byte inside the block stream (after the header+offset table).
	c.Bytes[len(c.Bytes)-9] ^= 0xFF

	_, err = e.DecompressChunk(c, ctx.DParams{NThreads: 1})
	require.Error(t, err)
}
