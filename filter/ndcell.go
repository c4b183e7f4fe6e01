package filter

import (
	"fmt"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

// ndCellKernel reorders a multidimensional block into contiguous cells of
// a fixed shape, one dimension's extent given by one byte of meta (see
// cellShapeFromMeta). Cells are visited and stored in C-order; a boundary
// cell that runs past the block's shape is truncated to the available
// extent rather than padded, matching ndim.Partition's own edge-block
// convention. The transform is a pure index permutation, so it is
// reversible by construction.
type ndCellKernel struct{}

func (ndCellKernel) ID() format.FilterID { return format.FilterNdCell }

func (ndCellKernel) Forward(ctx Context, meta byte, src, dst []byte) error {
	return ndCellPermute(ctx, meta, src, dst, false)
}

func (ndCellKernel) Backward(ctx Context, meta byte, src, dst []byte) error {
	return ndCellPermute(ctx, meta, src, dst, true)
}

// cellShapeFromMeta derives a per-dimension cell extent from the single
// meta byte: every dimension shares the extent meta (0..255), clamped to
// that dimension's own block extent. A single shared extent keeps the
// filter's on-wire metadata to one byte while still letting callers tune
// cell granularity to their data's access pattern.
func cellShapeFromMeta(blockShape []int, meta byte) []int {
	extent := int(meta)
	cell := make([]int, len(blockShape))
	for i, d := range blockShape {
		if extent < d {
			cell[i] = extent
		} else {
			cell[i] = d
		}
	}
	return cell
}

func ndCellPermute(ctx Context, meta byte, src, dst []byte, inverse bool) error {
	if len(src) != len(dst) {
		return fmt.Errorf("%w: ndcell dst length mismatch", errs.ErrFilterFailure)
	}
	if len(ctx.BlockShape) == 0 {
		return fmt.Errorf("%w: ndcell requires a non-empty block shape", errs.ErrFilterFailure)
	}

	w := ctx.ItemWidth
	if w <= 0 {
		return fmt.Errorf("%w: ndcell requires item width > 0", errs.ErrFilterFailure)
	}

	shape := ctx.BlockShape
	cell := cellShapeFromMeta(shape, meta)

	n := ctx.NumItems()
	if n*w != len(src) {
		return fmt.Errorf("%w: ndcell block length %d does not match shape item count %d at width %d",
			errs.ErrFilterFailure, len(src), n, w)
	}

	strides := rowMajorStrides(shape)

	ngrid := make([]int, len(shape))
	for i, d := range shape {
		ngrid[i] = ceilDiv(d, cell[i])
	}

	cursor := 0 // position in the cell-ordered stream
	var walk func(dim int, cellIdx []int)
	walk = func(dim int, cellIdx []int) {
		if dim == len(shape) {
			// cellIdx now names one concrete cell; iterate its elements
			// in C-order and copy each item.
			origin := make([]int, len(shape))
			extent := make([]int, len(shape))
			for i := range shape {
				origin[i] = cellIdx[i] * cell[i]
				extent[i] = cell[i]
				if origin[i]+extent[i] > shape[i] {
					extent[i] = shape[i] - origin[i]
				}
			}
			forEachCellElement(origin, extent, func(coord []int) {
				flat := 0
				for i, c := range coord {
					flat += c * strides[i]
				}
				srcOff := flat * w
				dstOff := cursor * w
				if !inverse {
					copy(dst[dstOff:dstOff+w], src[srcOff:srcOff+w])
				} else {
					copy(dst[srcOff:srcOff+w], src[dstOff:dstOff+w])
				}
				cursor++
			})
			return
		}
		for i := 0; i < ngrid[dim]; i++ {
			walk(dim+1, append(cellIdx, i))
		}
	}
	walk(0, make([]int, 0, len(shape)))

	return nil
}

// rowMajorStrides returns C-order strides (in items) for shape.
func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// forEachCellElement visits every coordinate in the box [origin, origin+extent)
// in C-order, calling fn with a freshly allocated coordinate slice per call.
func forEachCellElement(origin, extent []int, fn func(coord []int)) {
	coord := make([]int, len(origin))
	copy(coord, origin)

	var rec func(dim int)
	rec = func(dim int) {
		if dim == len(origin) {
			out := make([]int, len(coord))
			copy(out, coord)
			fn(out)
			return
		}
		for c := origin[dim]; c < origin[dim]+extent[dim]; c++ {
			coord[dim] = c
			rec(dim + 1)
		}
	}
	rec(0)
}
