package filter

import (
	"encoding/binary"
	"fmt"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

// truncatePrecisionKernel implements the lossy truncate-precision filter:
// it zeroes the low meta significant bits of every item's mantissa,
// improving downstream codec ratio at the cost of precision. meta is
// interpreted as the number of low bits to drop, 0..width*8-1.
//
// It is not reversible (format.FilterTruncatePrec.Reversible() is false);
// Backward is a pass-through copy, since the truncated bits are already
// gone by the time decode reaches this filter in the chain.
type truncatePrecisionKernel struct{}

func (truncatePrecisionKernel) ID() format.FilterID { return format.FilterTruncatePrec }

func (truncatePrecisionKernel) Forward(ctx Context, meta byte, src, dst []byte) error {
	if len(src) != len(dst) {
		return fmt.Errorf("%w: truncate-precision dst length mismatch", errs.ErrFilterFailure)
	}

	w := ctx.ItemWidth
	if w != 4 && w != 8 {
		return fmt.Errorf("%w: truncate-precision requires a 4 or 8 byte item width, got %d", errs.ErrFilterFailure, w)
	}
	if len(src)%w != 0 {
		return fmt.Errorf("%w: truncate-precision block length %d not a multiple of item width %d", errs.ErrFilterFailure, len(src), w)
	}

	bits := int(meta)
	maxBits := w*8 - 1
	if bits > maxBits {
		bits = maxBits
	}
	if bits <= 0 {
		copy(dst, src)
		return nil
	}

	copy(dst, src)
	switch w {
	case 4:
		mask := ^uint32(0) << uint(bits)
		for i := 0; i+4 <= len(dst); i += 4 {
			v := binary.LittleEndian.Uint32(dst[i : i+4])
			binary.LittleEndian.PutUint32(dst[i:i+4], v&mask)
		}
	case 8:
		mask := ^uint64(0) << uint(bits)
		for i := 0; i+8 <= len(dst); i += 8 {
			v := binary.LittleEndian.Uint64(dst[i : i+8])
			binary.LittleEndian.PutUint64(dst[i:i+8], v&mask)
		}
	}

	return nil
}

func (truncatePrecisionKernel) Backward(_ Context, _ byte, src, dst []byte) error {
	if len(src) != len(dst) {
		return fmt.Errorf("%w: truncate-precision dst length mismatch", errs.ErrFilterFailure)
	}
	copy(dst, src)
	return nil
}
