package array

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncdata/ncdata/ctx"
	"github.com/ncdata/ncdata/filter"
	"github.com/ncdata/ncdata/format"
)

func testParams() (ctx.CParams, ctx.DParams) {
	cp := ctx.CParams{
		CodecID:   format.CodecLZ4,
		Level:     3,
		ItemWidth: 4,
		ItemKind:  format.ItemInt32,
		NThreads:  1,
		Chain:     filter.DefaultChain(4),
	}
	return cp, ctx.DParams{NThreads: 1}
}

func seqBuf(n int) []byte {
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		v := uint32(i)
		buf[i*4] = byte(v)
		buf[i*4+1] = byte(v >> 8)
		buf[i*4+2] = byte(v >> 16)
		buf[i*4+3] = byte(v >> 24)
	}
	return buf
}

func TestArray_FromBufferToBufferRoundTrip(t *testing.T) {
	cp, dp := testParams()
	shape := []int{6, 5}
	buf := seqBuf(30)

	a, err := FromBuffer(buf, shape, []int{4, 3}, []int{2, 3}, format.ItemInt32, cp, dp)
	require.NoError(t, err)
	assert.Equal(t, shape, a.Shape())

	got, err := a.ToBuffer()
	require.NoError(t, err)
	assert.Equal(t, buf, got)
}

func TestArray_ZerosAndFull(t *testing.T) {
	cp, dp := testParams()
	z, err := Zeros([]int{4, 4}, []int{2, 2}, []int{2, 2}, format.ItemInt32, cp, dp)
	require.NoError(t, err)
	zb, err := z.ToBuffer()
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 16*4), zb)

	fv := []byte{7, 0, 0, 0}
	f, err := Full([]int{2, 2}, []int{2, 2}, []int{2, 2}, format.ItemInt32, fv, cp, dp)
	require.NoError(t, err)
	fb, err := f.ToBuffer()
	require.NoError(t, err)
	for i := 0; i < len(fb); i += 4 {
		assert.Equal(t, fv, fb[i:i+4])
	}
}

func TestArray_GetSliceSetSliceBuffer(t *testing.T) {
	cp, dp := testParams()
	shape := []int{6, 5}
	buf := seqBuf(30)
	a, err := FromBuffer(buf, shape, []int{4, 3}, []int{2, 3}, format.ItemInt32, cp, dp)
	require.NoError(t, err)

	slice, err := a.GetSlice([]int{1, 1}, []int{4, 3})
	require.NoError(t, err)
	assert.Equal(t, (4-1)*(3-1)*4, len(slice))

	zeros := make([]byte, len(slice))
	require.NoError(t, a.SetSliceBuffer([]int{1, 1}, []int{4, 3}, zeros))

	reread, err := a.GetSlice([]int{1, 1}, []int{4, 3})
	require.NoError(t, err)
	assert.Equal(t, zeros, reread)

	// untouched corner should be unchanged
	corner, err := a.GetSlice([]int{0, 0}, []int{1, 1})
	require.NoError(t, err)
	assert.Equal(t, buf[0:4], corner)
}

func TestArray_SaveOpenRoundTrip(t *testing.T) {
	cp, dp := testParams()
	shape := []int{4, 4}
	buf := seqBuf(16)
	a, err := FromBuffer(buf, shape, []int{2, 4}, []int{2, 2}, format.ItemInt32, cp, dp)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "arr.ncd")
	require.NoError(t, a.Save(path))

	reopened, err := Open(path, cp, dp)
	require.NoError(t, err)
	assert.Equal(t, shape, reopened.Shape())

	got, err := reopened.ToBuffer()
	require.NoError(t, err)
	assert.Equal(t, buf, got)
}

func TestArray_Squeeze(t *testing.T) {
	cp, dp := testParams()
	buf := seqBuf(5)
	a, err := FromBuffer(buf, []int{1, 5}, []int{1, 5}, []int{1, 5}, format.ItemInt32, cp, dp)
	require.NoError(t, err)

	require.NoError(t, a.Squeeze())
	assert.Equal(t, []int{5}, a.Shape())

	got, err := a.ToBuffer()
	require.NoError(t, err)
	assert.Equal(t, buf, got)
}

func TestArray_ResizeGrowAndShrink(t *testing.T) {
	cp, dp := testParams()
	buf := seqBuf(6)
	a, err := FromBuffer(buf, []int{6}, []int{3}, []int{3}, format.ItemInt32, cp, dp)
	require.NoError(t, err)

	require.NoError(t, a.Resize(0, 9))
	assert.Equal(t, []int{9}, a.Shape())
	got, err := a.ToBuffer()
	require.NoError(t, err)
	assert.Equal(t, buf, got[:len(buf)])
	assert.Equal(t, make([]byte, 12), got[len(buf):])

	require.NoError(t, a.Resize(0, 4))
	assert.Equal(t, []int{4}, a.Shape())
	got, err = a.ToBuffer()
	require.NoError(t, err)
	assert.Equal(t, buf[:16], got)
}

func TestArray_InsertAppendDelete(t *testing.T) {
	cp, dp := testParams()
	buf := seqBuf(4)
	a, err := FromBuffer(buf, []int{4}, []int{2}, []int{2}, format.ItemInt32, cp, dp)
	require.NoError(t, err)

	require.NoError(t, a.Append(seqBuf(2), 0))
	assert.Equal(t, []int{6}, a.Shape())

	require.NoError(t, a.Insert([]byte{9, 9, 9, 9}, 0, 0))
	assert.Equal(t, []int{7}, a.Shape())
	got, err := a.ToBuffer()
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9, 9, 9}, got[:4])

	require.NoError(t, a.Delete(0, 0, 1))
	assert.Equal(t, []int{6}, a.Shape())
	got, err = a.ToBuffer()
	require.NoError(t, err)
	assert.Equal(t, buf, got[:16])
}
