package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

func newTestSparseFrame(t *testing.T) *SparseFrame {
	t.Helper()
	dir := t.TempDir()
	f, err := CreateSparseFrame(dir, 4, 1024, 256, format.CodecLZ4, 1,
		[maxChainLen]format.FilterID{format.FilterShuffle}, [maxChainLen]byte{})
	require.NoError(t, err)
	return f
}

func TestSparseFrame_AppendAndReopen(t *testing.T) {
	f := newTestSparseFrame(t)
	require.NoError(t, f.AppendChunk([]byte("chunk-0")))
	require.NoError(t, f.AppendChunk([]byte("chunk-1")))
	require.NoError(t, f.SetVLMeta("note", []byte("hi")))

	reopened, err := OpenSparseFrame(f.dir)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.NChunks())

	c0, err := reopened.ReadChunk(0)
	require.NoError(t, err)
	assert.Equal(t, []byte("chunk-0"), c0)

	vl, ok := reopened.GetVLMeta("note")
	require.True(t, ok)
	assert.Equal(t, []byte("hi"), vl)
}

func TestSparseFrame_UpdateDeleteInsert(t *testing.T) {
	f := newTestSparseFrame(t)
	require.NoError(t, f.AppendChunk([]byte("a")))
	require.NoError(t, f.AppendChunk([]byte("c")))
	require.NoError(t, f.InsertChunk(1, []byte("b")))

	for i, want := range []string{"a", "b", "c"} {
		got, err := f.ReadChunk(i)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}

	require.NoError(t, f.UpdateChunk(0, []byte("aa")))
	got, err := f.ReadChunk(0)
	require.NoError(t, err)
	assert.Equal(t, "aa", string(got))

	require.NoError(t, f.DeleteChunk(2))
	assert.Equal(t, 2, f.NChunks())
}

func TestOpenSparseFrame_RejectsBadMagic(t *testing.T) {
	dir := t.TempDir()
	_, err := OpenSparseFrame(dir)
	require.Error(t, err)
}

func TestSparseFrame_OutOfRange(t *testing.T) {
	f := newTestSparseFrame(t)
	_, err := f.ReadChunk(0)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestSparseFrame_SetVLMeta_RejectsOverUserBudget(t *testing.T) {
	f := newTestSparseFrame(t)
	err := f.SetVLMeta("huge", make([]byte, MaxUserTrailerSize+1))
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}
