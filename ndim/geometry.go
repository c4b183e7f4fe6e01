// Package ndim implements n-dimensional partitioning (§4.7): the shape/
// chunkshape/blockshape math shared by the chunk engine and the array
// façade, including coordinate conversions and edge-block padding.
package ndim

import (
	"fmt"

	"github.com/ncdata/ncdata/errs"
)

// Geometry precomputes the derived extents and strides for one array's
// shape/chunkshape/blockshape triple (§4.7, §2 invariant 1).
type Geometry struct {
	Shape      []int
	ChunkShape []int
	BlockShape []int

	// ExtShape[d] = ceil(Shape[d]/ChunkShape[d]) * ChunkShape[d].
	ExtShape []int
	// ExtChunkShape[d] = ceil(ChunkShape[d]/BlockShape[d]) * BlockShape[d].
	ExtChunkShape []int

	// Strides, row-major (C-order), at the four levels named in §4.7.
	ItemInBlockStrides []int
	BlockInChunkStrides []int
	ItemInChunkStrides  []int
	ChunkInArrayStrides []int
}

// NewGeometry validates and precomputes a Geometry from shape,
// chunkshape, and blockshape. All three must share rank, and
// chunkshape[d] >= blockshape[d] >= 1 for every dimension.
func NewGeometry(shape, chunkShape, blockShape []int) (Geometry, error) {
	rank := len(shape)
	if len(chunkShape) != rank || len(blockShape) != rank {
		return Geometry{}, fmt.Errorf("%w: shape/chunkshape/blockshape must share rank (%d, %d, %d)",
			errs.ErrShapeMismatch, len(shape), len(chunkShape), len(blockShape))
	}

	for d := 0; d < rank; d++ {
		if blockShape[d] < 1 {
			return Geometry{}, fmt.Errorf("%w: blockshape[%d]=%d must be >= 1", errs.ErrInvalidBlockShape, d, blockShape[d])
		}
		if chunkShape[d] < blockShape[d] {
			return Geometry{}, fmt.Errorf("%w: chunkshape[%d]=%d must be >= blockshape[%d]=%d",
				errs.ErrInvalidChunkShape, d, chunkShape[d], d, blockShape[d])
		}
		if shape[d] < 0 {
			return Geometry{}, fmt.Errorf("%w: shape[%d]=%d must be >= 0", errs.ErrInvalidShape, d, shape[d])
		}
	}

	extShape := make([]int, rank)
	extChunkShape := make([]int, rank)
	for d := 0; d < rank; d++ {
		extShape[d] = ceilMultiple(shape[d], chunkShape[d])
		extChunkShape[d] = ceilMultiple(chunkShape[d], blockShape[d])
	}

	nChunksPerDim := make([]int, rank)
	for d := 0; d < rank; d++ {
		nChunksPerDim[d] = extShape[d] / chunkShape[d]
	}
	nBlocksPerDim := make([]int, rank)
	for d := 0; d < rank; d++ {
		nBlocksPerDim[d] = extChunkShape[d] / blockShape[d]
	}

	g := Geometry{
		Shape:               append([]int(nil), shape...),
		ChunkShape:          append([]int(nil), chunkShape...),
		BlockShape:          append([]int(nil), blockShape...),
		ExtShape:            extShape,
		ExtChunkShape:       extChunkShape,
		ItemInBlockStrides:  rowMajorStrides(blockShape),
		BlockInChunkStrides: rowMajorStrides(nBlocksPerDim),
		ItemInChunkStrides:  rowMajorStrides(chunkShape),
		ChunkInArrayStrides: rowMajorStrides(nChunksPerDim),
	}
	return g, nil
}

func ceilMultiple(n, m int) int {
	if m <= 0 {
		return n
	}
	if n == 0 {
		return 0
	}
	return ((n + m - 1) / m) * m
}

func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}

// UnravelIndex converts a flat index into multidimensional coordinates
// under shape, in row-major (C) order: f = Σ_d c[d] * Π_{e>d} s[e].
func UnravelIndex(f int, shape []int) ([]int, error) {
	if f < 0 {
		return nil, fmt.Errorf("%w: flat index %d must be >= 0", errs.ErrOutOfRange, f)
	}

	strides := rowMajorStrides(shape)
	coord := make([]int, len(shape))
	rem := f
	for d := range shape {
		if strides[d] == 0 {
			coord[d] = 0
			continue
		}
		coord[d] = rem / strides[d]
		rem -= coord[d] * strides[d]
	}
	return coord, nil
}

// RavelIndex converts multidimensional coordinates into a flat index
// under shape; the inverse of UnravelIndex.
func RavelIndex(coord, shape []int) (int, error) {
	if len(coord) != len(shape) {
		return 0, fmt.Errorf("%w: coord rank %d does not match shape rank %d", errs.ErrShapeMismatch, len(coord), len(shape))
	}

	strides := rowMajorStrides(shape)
	f := 0
	for d, c := range coord {
		if c < 0 || (shape[d] > 0 && c >= shape[d]) {
			return 0, fmt.Errorf("%w: coordinate %d out of range for dimension %d (extent %d)", errs.ErrOutOfRange, c, d, shape[d])
		}
		f += c * strides[d]
	}
	return f, nil
}
