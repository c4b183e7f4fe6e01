package ndim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncdata/ncdata/errs"
)

func TestIntersectChunks_SingleChunk(t *testing.T) {
	g, err := NewGeometry([]int{10, 10}, []int{5, 5}, []int{5, 5})
	require.NoError(t, err)

	hits, err := g.IntersectChunks([]int{1, 1}, []int{3, 3})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].ChunkIndex)
	assert.Equal(t, []int{1, 1}, hits[0].LocalStart)
	assert.Equal(t, []int{3, 3}, hits[0].LocalStop)
}

func TestIntersectChunks_SpansMultipleChunks(t *testing.T) {
	g, err := NewGeometry([]int{10, 10}, []int{5, 5}, []int{5, 5})
	require.NoError(t, err)

	hits, err := g.IntersectChunks([]int{3, 3}, []int{8, 8})
	require.NoError(t, err)
	assert.Len(t, hits, 4) // spans all 4 chunks in the 2x2 chunk grid
}

func TestIntersectChunks_RejectsOutOfBounds(t *testing.T) {
	g, err := NewGeometry([]int{10}, []int{5}, []int{5})
	require.NoError(t, err)

	_, err = g.IntersectChunks([]int{0}, []int{11})
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestIntersectChunks_EmptyRange(t *testing.T) {
	g, err := NewGeometry([]int{10}, []int{5}, []int{5})
	require.NoError(t, err)

	hits, err := g.IntersectChunks([]int{2}, []int{2})
	require.NoError(t, err)
	assert.Empty(t, hits)
}
