package ndim

import (
	"fmt"

	"github.com/ncdata/ncdata/errs"
)

// ChunkIntersection describes one chunk that overlaps a requested
// [start, stop) hyperrectangle: the chunk's flat index, and the
// intersection rectangle expressed in both chunk-local and global
// coordinates.
type ChunkIntersection struct {
	ChunkIndex int
	ChunkCoord []int // this chunk's position in the chunk grid

	// LocalStart/LocalStop bound the intersection in chunk-local item
	// coordinates (i.e. relative to this chunk's own origin).
	LocalStart []int
	LocalStop  []int

	// GlobalStart is LocalStart translated back into array coordinates,
	// i.e. the output buffer offset this intersection corresponds to.
	GlobalStart []int
}

// IntersectChunks implements §4.7's three-step slice-extraction algorithm
// step 1: given start/stop (half-open, start <= stop, stop[d] <= Shape[d]),
// compute every chunk intersecting the hyperrectangle and the
// intersection rectangle within each.
func (g Geometry) IntersectChunks(start, stop []int) ([]ChunkIntersection, error) {
	rank := len(g.Shape)
	if len(start) != rank || len(stop) != rank {
		return nil, fmt.Errorf("%w: start/stop rank must match shape rank %d", errs.ErrShapeMismatch, rank)
	}
	for d := 0; d < rank; d++ {
		if start[d] < 0 || stop[d] < start[d] {
			return nil, fmt.Errorf("%w: invalid range [%d, %d) on dimension %d", errs.ErrOutOfRange, start[d], stop[d], d)
		}
		if stop[d] > g.Shape[d] {
			return nil, fmt.Errorf("%w: stop[%d]=%d exceeds shape[%d]=%d", errs.ErrOutOfRange, d, stop[d], d, g.Shape[d])
		}
	}

	firstChunk := make([]int, rank)
	lastChunk := make([]int, rank) // inclusive
	nChunksPerDim := make([]int, rank)
	for d := 0; d < rank; d++ {
		nChunksPerDim[d] = g.ExtShape[d] / g.ChunkShape[d]
		if stop[d] == start[d] {
			// Empty range on this dimension: no chunks intersect at all.
			return nil, nil
		}
		firstChunk[d] = start[d] / g.ChunkShape[d]
		lastChunk[d] = (stop[d] - 1) / g.ChunkShape[d]
	}

	chunkInArrayStrides := rowMajorStrides(nChunksPerDim)

	var results []ChunkIntersection
	coord := make([]int, rank)
	copy(coord, firstChunk)

	for {
		idx := 0
		for d := 0; d < rank; d++ {
			idx += coord[d] * chunkInArrayStrides[d]
		}

		localStart := make([]int, rank)
		localStop := make([]int, rank)
		globalStart := make([]int, rank)
		for d := 0; d < rank; d++ {
			chunkOrigin := coord[d] * g.ChunkShape[d]
			lo := start[d]
			if lo < chunkOrigin {
				lo = chunkOrigin
			}
			hi := stop[d]
			chunkEnd := chunkOrigin + g.ChunkShape[d]
			if hi > chunkEnd {
				hi = chunkEnd
			}
			localStart[d] = lo - chunkOrigin
			localStop[d] = hi - chunkOrigin
			globalStart[d] = lo
		}

		results = append(results, ChunkIntersection{
			ChunkIndex:  idx,
			ChunkCoord:  append([]int(nil), coord...),
			LocalStart:  localStart,
			LocalStop:   localStop,
			GlobalStart: globalStart,
		})

		if !incrementCoord(coord, firstChunk, lastChunk) {
			break
		}
	}

	return results, nil
}

// incrementCoord advances coord (in [lo, hi] inclusive per dimension,
// row-major/C order) to the next position, reporting false once every
// position has been visited.
func incrementCoord(coord, lo, hi []int) bool {
	for d := len(coord) - 1; d >= 0; d-- {
		coord[d]++
		if coord[d] <= hi[d] {
			return true
		}
		coord[d] = lo[d]
	}
	return false
}
