package ndim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncdata/ncdata/errs"
)

func TestNewGeometry_ExtentRounding(t *testing.T) {
	g, err := NewGeometry([]int{10, 10}, []int{4, 4}, []int{2, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{12, 12}, g.ExtShape)
	assert.Equal(t, []int{4, 4}, g.ExtChunkShape)
}

func TestNewGeometry_RejectsBlockLargerThanChunk(t *testing.T) {
	_, err := NewGeometry([]int{10}, []int{4}, []int{8})
	require.ErrorIs(t, err, errs.ErrInvalidChunkShape)
}

func TestNewGeometry_RejectsRankMismatch(t *testing.T) {
	_, err := NewGeometry([]int{10, 10}, []int{4}, []int{2, 2})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)
}

func TestRavelUnravel_RoundTrip(t *testing.T) {
	shape := []int{3, 4, 5}
	for f := 0; f < 60; f++ {
		coord, err := UnravelIndex(f, shape)
		require.NoError(t, err)
		back, err := RavelIndex(coord, shape)
		require.NoError(t, err)
		assert.Equal(t, f, back)
	}
}

func TestRavelIndex_RejectsOutOfRange(t *testing.T) {
	_, err := RavelIndex([]int{0, 5}, []int{3, 4})
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}
