package filter

import (
	"fmt"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

// shuffleKernel implements byte-transpose at item granularity: output byte
// j*n + i equals input byte i*W + j, for n items of width W. Reversible by
// construction — applying the same transpose with roles of n and W
// swapped recovers the original layout.
type shuffleKernel struct{}

func (shuffleKernel) ID() format.FilterID { return format.FilterShuffle }

func (shuffleKernel) Forward(ctx Context, _ byte, src, dst []byte) error {
	return shuffleBytes(src, dst, ctx.ItemWidth)
}

func (shuffleKernel) Backward(ctx Context, _ byte, src, dst []byte) error {
	return unshuffleBytes(src, dst, ctx.ItemWidth)
}

func shuffleBytes(src, dst []byte, w int) error {
	if w <= 0 {
		return fmt.Errorf("%w: shuffle requires item width > 0", errs.ErrFilterFailure)
	}
	if len(src) != len(dst) {
		return fmt.Errorf("%w: shuffle dst length mismatch", errs.ErrFilterFailure)
	}
	if len(src)%w != 0 {
		return fmt.Errorf("%w: shuffle block length %d not a multiple of item width %d", errs.ErrFilterFailure, len(src), w)
	}

	n := len(src) / w
	for i := 0; i < n; i++ {
		for j := 0; j < w; j++ {
			dst[j*n+i] = src[i*w+j]
		}
	}

	return nil
}

func unshuffleBytes(src, dst []byte, w int) error {
	if w <= 0 {
		return fmt.Errorf("%w: shuffle requires item width > 0", errs.ErrFilterFailure)
	}
	if len(src) != len(dst) {
		return fmt.Errorf("%w: shuffle dst length mismatch", errs.ErrFilterFailure)
	}
	if len(src)%w != 0 {
		return fmt.Errorf("%w: shuffle block length %d not a multiple of item width %d", errs.ErrFilterFailure, len(src), w)
	}

	n := len(src) / w
	for i := 0; i < n; i++ {
		for j := 0; j < w; j++ {
			dst[i*w+j] = src[j*n+i]
		}
	}

	return nil
}
