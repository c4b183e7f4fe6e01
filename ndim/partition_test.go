package ndim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionAssemble_RoundTrip_NoPadding(t *testing.T) {
	g, err := NewGeometry([]int{4, 4}, []int{4, 4}, []int{2, 2})
	require.NoError(t, err)

	chunkBuf := make([]byte, 4*4*1)
	for i := range chunkBuf {
		chunkBuf[i] = byte(i + 1)
	}

	blocks, err := g.Partition(chunkBuf, 1, nil)
	require.NoError(t, err)
	assert.Len(t, blocks, 4) // 2x2 grid of 2x2 blocks

	restored, err := g.Assemble(blocks, 1)
	require.NoError(t, err)
	assert.Equal(t, chunkBuf, restored)
}

func TestPartition_PadsEdgeBlocksWithZero(t *testing.T) {
	// chunkshape 3, blockshape 2: extchunkshape rounds up to 4, so the
	// second block along each dim is half padding.
	g, err := NewGeometry([]int{3, 3}, []int{3, 3}, []int{2, 2})
	require.NoError(t, err)

	chunkBuf := make([]byte, 3*3)
	for i := range chunkBuf {
		chunkBuf[i] = byte(i + 1)
	}

	blocks, err := g.Partition(chunkBuf, 1, nil)
	require.NoError(t, err)
	assert.Len(t, blocks, 4)

	// The bottom-right block (grid position 1,1) should have padding zeros.
	last := blocks[len(blocks)-1]
	assert.Contains(t, last, byte(0))
}

func TestPartition_FillValue(t *testing.T) {
	g, err := NewGeometry([]int{3}, []int{3}, []int{2})
	require.NoError(t, err)

	chunkBuf := []byte{1, 2, 3}
	fill := []byte{0xFF}
	blocks, err := g.Partition(chunkBuf, 1, fill)
	require.NoError(t, err)

	last := blocks[len(blocks)-1]
	assert.Contains(t, last, byte(0xFF))
}

func TestPartition_RejectsWrongBufferLength(t *testing.T) {
	g, _ := NewGeometry([]int{4}, []int{4}, []int{2})
	_, err := g.Partition(make([]byte, 3), 1, nil)
	require.Error(t, err)
}
