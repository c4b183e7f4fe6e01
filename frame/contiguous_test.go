package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

func newTestFrame() *ContiguousFrame {
	return NewContiguousFrame(4, 1024, 256, format.CodecZstd, 5,
		[maxChainLen]format.FilterID{format.FilterShuffle}, [maxChainLen]byte{})
}

func TestContiguousFrame_AppendAndReadChunk(t *testing.T) {
	f := newTestFrame()
	require.NoError(t, f.AppendChunk([]byte("chunk-0")))
	require.NoError(t, f.AppendChunk([]byte("chunk-1")))
	assert.Equal(t, 2, f.NChunks())

	got, err := f.ReadChunk(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("chunk-1"), got)
}

func TestContiguousFrame_SerializeRoundTrip(t *testing.T) {
	f := newTestFrame()
	require.NoError(t, f.SetMeta("shape", []byte{1, 2, 3, 4}))
	require.NoError(t, f.AppendChunk([]byte("chunk-0")))
	require.NoError(t, f.AppendChunk([]byte("chunk-1-longer")))
	require.NoError(t, f.SetVLMeta("note", []byte("hello")))

	data, err := f.Bytes()
	require.NoError(t, err)

	reopened, err := OpenContiguousFrame(data)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.NChunks())

	c0, err := reopened.ReadChunk(0)
	require.NoError(t, err)
	assert.Equal(t, []byte("chunk-0"), c0)

	c1, err := reopened.ReadChunk(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("chunk-1-longer"), c1)

	meta, ok := reopened.GetMeta("shape")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4}, meta)

	vl, ok := reopened.GetVLMeta("note")
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), vl)
}

func TestContiguousFrame_InsertUpdateDelete(t *testing.T) {
	f := newTestFrame()
	require.NoError(t, f.AppendChunk([]byte("a")))
	require.NoError(t, f.AppendChunk([]byte("c")))
	require.NoError(t, f.InsertChunk(1, []byte("b")))

	for i, want := range []string{"a", "b", "c"} {
		got, err := f.ReadChunk(i)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}

	require.NoError(t, f.UpdateChunk(1, []byte("bb")))
	got, err := f.ReadChunk(1)
	require.NoError(t, err)
	assert.Equal(t, "bb", string(got))

	require.NoError(t, f.DeleteChunk(0))
	assert.Equal(t, 2, f.NChunks())
	got, err = f.ReadChunk(0)
	require.NoError(t, err)
	assert.Equal(t, "bb", string(got))
}

func TestContiguousFrame_FixedMetaFrozenAfterFirstChunk(t *testing.T) {
	f := newTestFrame()
	require.NoError(t, f.AppendChunk([]byte("a")))

	err := f.SetMeta("late", []byte{1})
	require.ErrorIs(t, err, errs.ErrAfterData)
}

func TestContiguousFrame_FixedMetaSizeFrozen(t *testing.T) {
	f := newTestFrame()
	require.NoError(t, f.SetMeta("shape", []byte{1, 2, 3, 4}))

	err := f.SetMeta("shape", []byte{1, 2})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestContiguousFrame_SetVLMeta_RejectsOverUserBudget(t *testing.T) {
	f := newTestFrame()
	err := f.SetVLMeta("huge", make([]byte, MaxUserTrailerSize+1))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestContiguousFrame_SetMeta_RejectsOverUserBudget(t *testing.T) {
	f := newTestFrame()
	err := f.SetMeta("huge", make([]byte, MaxUserTrailerSize+1))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestContiguousFrame_DelVLMeta_NotFound(t *testing.T) {
	f := newTestFrame()
	err := f.DelVLMeta("missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestContiguousFrame_OutOfRange(t *testing.T) {
	f := newTestFrame()
	_, err := f.ReadChunk(0)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}
