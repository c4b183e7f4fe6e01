package filter

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

// ndMeanKernel implements the lossy ndmean filter: every cell (same cell
// geometry as ndCellKernel, keyed off the same meta byte) is replaced by
// its arithmetic mean, broadcast across every item position in the cell.
// Only meaningful for floating point items; integer items have no well
// defined mean under the filter's reversible-length contract, so Forward
// rejects them.
type ndMeanKernel struct{}

func (ndMeanKernel) ID() format.FilterID { return format.FilterNdMean }

func (ndMeanKernel) Forward(ctx Context, meta byte, src, dst []byte) error {
	if !ctx.ItemKind.IsFloat() {
		return fmt.Errorf("%w: ndmean only supports floating point items, got %s", errs.ErrFilterFailure, itemKindName(ctx.ItemKind))
	}
	if len(src) != len(dst) {
		return fmt.Errorf("%w: ndmean dst length mismatch", errs.ErrFilterFailure)
	}
	if len(ctx.BlockShape) == 0 {
		return fmt.Errorf("%w: ndmean requires a non-empty block shape", errs.ErrFilterFailure)
	}

	w := ctx.ItemWidth
	shape := ctx.BlockShape
	cell := cellShapeFromMeta(shape, meta)
	strides := rowMajorStrides(shape)
	ngrid := make([]int, len(shape))
	for i, d := range shape {
		ngrid[i] = ceilDiv(d, cell[i])
	}

	var walk func(dim int, cellIdx []int)
	walk = func(dim int, cellIdx []int) {
		if dim == len(shape) {
			origin := make([]int, len(shape))
			extent := make([]int, len(shape))
			count := 1
			for i := range shape {
				origin[i] = cellIdx[i] * cell[i]
				extent[i] = cell[i]
				if origin[i]+extent[i] > shape[i] {
					extent[i] = shape[i] - origin[i]
				}
				count *= extent[i]
			}
			if count == 0 {
				return
			}

			var sum float64
			forEachCellElement(origin, extent, func(coord []int) {
				sum += readFloat(src, flatOffset(coord, strides)*w, w, ctx.ItemKind)
			})
			mean := sum / float64(count)

			forEachCellElement(origin, extent, func(coord []int) {
				off := flatOffset(coord, strides) * w
				writeFloat(dst, off, w, ctx.ItemKind, mean)
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

// Backward is a pass-through: ndmean is lossy (format.FilterNdMean.Reversible()
// is false), so decode simply carries forward the mean-filled values already
// produced by Forward.
func (ndMeanKernel) Backward(_ Context, _ byte, src, dst []byte) error {
	if len(src) != len(dst) {
		return fmt.Errorf("%w: ndmean dst length mismatch", errs.ErrFilterFailure)
	}
	copy(dst, src)
	return nil
}

func flatOffset(coord, strides []int) int {
	off := 0
	for i, c := range coord {
		off += c * strides[i]
	}
	return off
}

func readFloat(buf []byte, off, w int, kind format.ItemKind) float64 {
	switch w {
	case 4:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4])))
	case 8:
		return math.Float64frombits(binary.LittleEndian.Uint64(buf[off : off+8]))
	default:
		_ = kind
		return 0
	}
}

func writeFloat(buf []byte, off, w int, kind format.ItemKind, v float64) {
	switch w {
	case 4:
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(v)))
	case 8:
		binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(v))
	default:
		_ = kind
	}
}

func itemKindName(k format.ItemKind) string {
	if k.IsFloat() {
		return "float"
	}
	return "non-float"
}
