package ndim

import (
	"fmt"

	"github.com/ncdata/ncdata/errs"
)

// Partition splits one chunk's decompressed buffer into blocks, per the
// chunk's blockshape. chunkBuf holds ChunkShape-extent data (C-order,
// itemWidth bytes per item); the returned blocks cover ExtChunkShape,
// zero-padded (or filled with fillValue, if non-nil and itemWidth bytes
// long) for positions beyond ChunkShape — §4.7's edge-block padding rule.
//
// Blocks are returned in C-order over the block grid (BlockInChunkStrides'
// iteration order), each exactly len(BlockShape items)*itemWidth bytes.
func (g Geometry) Partition(chunkBuf []byte, itemWidth int, fillValue []byte) ([][]byte, error) {
	if itemWidth <= 0 {
		return nil, fmt.Errorf("%w: itemWidth must be > 0", errs.ErrInvalidItemWidth)
	}

	wantLen := product(g.ChunkShape) * itemWidth
	if len(chunkBuf) != wantLen {
		return nil, fmt.Errorf("%w: chunk buffer is %d bytes, expected %d for chunkshape %v at width %d",
			errs.ErrShapeMismatch, len(chunkBuf), wantLen, g.ChunkShape, itemWidth)
	}
	if fillValue != nil && len(fillValue) != itemWidth {
		return nil, fmt.Errorf("%w: fill value is %d bytes, expected item width %d", errs.ErrInvalidArgument, len(fillValue), itemWidth)
	}

	rank := len(g.ChunkShape)
	nBlocksPerDim := make([]int, rank)
	for d := 0; d < rank; d++ {
		nBlocksPerDim[d] = g.ExtChunkShape[d] / g.BlockShape[d]
	}

	chunkItemStrides := rowMajorStrides(g.ChunkShape)
	blockItemCount := product(g.BlockShape)

	var blocks [][]byte
	var walk func(dim int, blockIdx []int)
	walk = func(dim int, blockIdx []int) {
		if dim == rank {
			block := make([]byte, blockItemCount*itemWidth)
			origin := make([]int, rank)
			for d := 0; d < rank; d++ {
				origin[d] = blockIdx[d] * g.BlockShape[d]
			}
			copyBlockFromChunk(block, chunkBuf, origin, g.BlockShape, g.ChunkShape, chunkItemStrides, itemWidth, fillValue)
			blocks = append(blocks, block)
			return
		}
		for i := 0; i < nBlocksPerDim[dim]; i++ {
			walk(dim+1, append(blockIdx, i))
		}
	}
	walk(0, make([]int, 0, rank))

	return blocks, nil
}

// Assemble is Partition's inverse: it writes the decompressed blocks
// (in the same C-order the block grid iterates) back into a single
// ChunkShape-extent buffer, dropping any padding beyond ChunkShape.
func (g Geometry) Assemble(blocks [][]byte, itemWidth int) ([]byte, error) {
	if itemWidth <= 0 {
		return nil, fmt.Errorf("%w: itemWidth must be > 0", errs.ErrInvalidItemWidth)
	}

	rank := len(g.ChunkShape)
	nBlocksPerDim := make([]int, rank)
	for d := 0; d < rank; d++ {
		nBlocksPerDim[d] = g.ExtChunkShape[d] / g.BlockShape[d]
	}

	chunkItemStrides := rowMajorStrides(g.ChunkShape)
	chunkBuf := make([]byte, product(g.ChunkShape)*itemWidth)

	idx := 0
	var walk func(dim int, blockIdx []int) error
	walk = func(dim int, blockIdx []int) error {
		if dim == rank {
			if idx >= len(blocks) {
				return fmt.Errorf("%w: expected at least %d blocks, got %d", errs.ErrInvalidArgument, idx+1, len(blocks))
			}
			block := blocks[idx]
			idx++

			origin := make([]int, rank)
			for d := 0; d < rank; d++ {
				origin[d] = blockIdx[d] * g.BlockShape[d]
			}
			copyBlockToChunk(chunkBuf, block, origin, g.BlockShape, g.ChunkShape, chunkItemStrides, itemWidth)
			return nil
		}
		for i := 0; i < nBlocksPerDim[dim]; i++ {
			if err := walk(dim+1, append(blockIdx, i)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0, make([]int, 0, rank)); err != nil {
		return nil, err
	}

	return chunkBuf, nil
}

func product(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// copyBlockFromChunk fills dst (one block, C-order over blockShape) from
// src (one chunk, C-order over chunkShape), treating positions at or
// beyond chunkShape as padding (fillValue, or zero if nil).
func copyBlockFromChunk(dst, src []byte, origin, blockShape, chunkShape, chunkItemStrides []int, itemWidth int, fillValue []byte) {
	rank := len(blockShape)
	blockItemStrides := rowMajorStrides(blockShape)

	var walk func(dim int, coord []int)
	walk = func(dim int, coord []int) {
		if dim == rank {
			blockFlat := 0
			for d, c := range coord {
				blockFlat += c * blockItemStrides[d]
			}
			dstOff := blockFlat * itemWidth

			inBounds := true
			chunkFlat := 0
			for d, c := range coord {
				global := origin[d] + c
				if global >= chunkShape[d] {
					inBounds = false
				}
				chunkFlat += global * chunkItemStrides[d]
			}

			if inBounds {
				srcOff := chunkFlat * itemWidth
				copy(dst[dstOff:dstOff+itemWidth], src[srcOff:srcOff+itemWidth])
			} else if fillValue != nil {
				copy(dst[dstOff:dstOff+itemWidth], fillValue)
			}
			// else: leave zero, matching make([]byte, ...)'s zero-fill.
			return
		}
		for i := 0; i < blockShape[dim]; i++ {
			walk(dim+1, append(coord, i))
		}
	}
	walk(0, make([]int, 0, rank))
}

// copyBlockToChunk is copyBlockFromChunk's inverse, writing a block's
// in-bounds portion back into the chunk buffer and discarding padding.
func copyBlockToChunk(dst, src []byte, origin, blockShape, chunkShape, chunkItemStrides []int, itemWidth int) {
	rank := len(blockShape)
	blockItemStrides := rowMajorStrides(blockShape)

	var walk func(dim int, coord []int)
	walk = func(dim int, coord []int) {
		if dim == rank {
			inBounds := true
			chunkFlat := 0
			for d, c := range coord {
				global := origin[d] + c
				if global >= chunkShape[d] {
					inBounds = false
				}
				chunkFlat += global * chunkItemStrides[d]
			}
			if !inBounds {
				return
			}

			blockFlat := 0
			for d, c := range coord {
				blockFlat += c * blockItemStrides[d]
			}
			srcOff := blockFlat * itemWidth
			dstOff := chunkFlat * itemWidth
			copy(dst[dstOff:dstOff+itemWidth], src[srcOff:srcOff+itemWidth])
			return
		}
		for i := 0; i < blockShape[dim]; i++ {
			walk(dim+1, append(coord, i))
		}
	}
	walk(0, make([]int, 0, rank))
}
