package filter

import (
	"fmt"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

// byteDeltaKernel implements the fixed, item-width-aware byte-delta filter:
// for W-byte items laid out consecutively, each of the W byte lanes is
// delta-encoded independently (lane k holds src[k], src[W+k], src[2W+k], ...)
// with mod-256 wraparound. The first item in each lane is stored unchanged.
//
// byteDeltaLegacyKernel reproduces a historical variant of the same filter
// that ignored item-width interleaving entirely and delta-encoded the flat
// byte stream as a single lane. Frames tagged with FilterByteDeltaLegacy
// carry data produced by that era and must decode through this path, not
// the fixed one — the two are not bit-compatible for W > 1.
type byteDeltaKernel struct {
	legacy bool
}

func (k byteDeltaKernel) ID() format.FilterID {
	if k.legacy {
		return format.FilterByteDeltaLegacy
	}
	return format.FilterByteDelta
}

func (k byteDeltaKernel) Forward(ctx Context, _ byte, src, dst []byte) error {
	return byteDeltaForward(src, dst, laneWidth(ctx, k.legacy))
}

func (k byteDeltaKernel) Backward(ctx Context, _ byte, src, dst []byte) error {
	return byteDeltaBackward(src, dst, laneWidth(ctx, k.legacy))
}

// byteDeltaLegacyKernel is a distinct registry entry for FilterByteDeltaLegacy
// so Lookup can dispatch on id without the caller having to know which
// struct literal produces it.
type byteDeltaLegacyKernel struct{}

func (byteDeltaLegacyKernel) ID() format.FilterID { return format.FilterByteDeltaLegacy }

func (byteDeltaLegacyKernel) Forward(ctx Context, meta byte, src, dst []byte) error {
	return byteDeltaKernel{legacy: true}.Forward(ctx, meta, src, dst)
}

func (byteDeltaLegacyKernel) Backward(ctx Context, meta byte, src, dst []byte) error {
	return byteDeltaKernel{legacy: true}.Backward(ctx, meta, src, dst)
}

// laneWidth returns the delta stride: the item width for the fixed filter,
// always 1 (flat byte stream) for the legacy one.
func laneWidth(ctx Context, legacy bool) int {
	if legacy {
		return 1
	}
	if ctx.ItemWidth <= 0 {
		return 1
	}
	return ctx.ItemWidth
}

func byteDeltaForward(src, dst []byte, w int) error {
	if len(src) != len(dst) {
		return fmt.Errorf("%w: bytedelta dst length mismatch", errs.ErrFilterFailure)
	}
	if w <= 0 {
		return fmt.Errorf("%w: bytedelta requires lane width > 0", errs.ErrFilterFailure)
	}

	for lane := 0; lane < w; lane++ {
		var prev byte
		for i := lane; i < len(src); i += w {
			cur := src[i]
			dst[i] = cur - prev
			prev = cur
		}
	}

	return nil
}

func byteDeltaBackward(src, dst []byte, w int) error {
	if len(src) != len(dst) {
		return fmt.Errorf("%w: bytedelta dst length mismatch", errs.ErrFilterFailure)
	}
	if w <= 0 {
		return fmt.Errorf("%w: bytedelta requires lane width > 0", errs.ErrFilterFailure)
	}

	for lane := 0; lane < w; lane++ {
		var prev byte
		for i := lane; i < len(src); i += w {
			cur := src[i] + prev
			dst[i] = cur
			prev = cur
		}
	}

	return nil
}
