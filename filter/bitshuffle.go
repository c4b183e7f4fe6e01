package filter

import (
	"fmt"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

// bitshuffleKernel implements bit-transpose at item granularity: for item
// width W, it gathers the k-th bit of each item into contiguous output
// positions, processing W*8 items per stripe (§4.1). The block must contain
// a whole number of stripes; callers that can't guarantee this (a ragged
// trailing edge block) should pad before invoking it — ndim.Partition
// always produces whole-stripe-aligned blocks for item widths that divide
// evenly, and the chunk engine rejects configurations that don't.
type bitshuffleKernel struct{}

func (bitshuffleKernel) ID() format.FilterID { return format.FilterBitshuffle }

func (bitshuffleKernel) Forward(ctx Context, _ byte, src, dst []byte) error {
	return bitTranspose(src, dst, ctx.ItemWidth, false)
}

func (bitshuffleKernel) Backward(ctx Context, _ byte, src, dst []byte) error {
	return bitTranspose(src, dst, ctx.ItemWidth, true)
}

// bitTranspose performs the stripe-wise bit transpose. When inverse is
// true it undoes a prior forward transpose; the operation is a strict
// involution per stripe so the same indexing logic serves both directions,
// only the source/destination bit roles swap.
func bitTranspose(src, dst []byte, itemWidth int, inverse bool) error {
	if itemWidth <= 0 {
		return fmt.Errorf("%w: bitshuffle requires item width > 0", errs.ErrFilterFailure)
	}
	if len(src) != len(dst) {
		return fmt.Errorf("%w: bitshuffle dst length mismatch", errs.ErrFilterFailure)
	}

	stripeItems := itemWidth * 8 // W*8 items per stripe
	stripeBytes := stripeItems * itemWidth
	if stripeBytes == 0 || len(src)%stripeBytes != 0 {
		return fmt.Errorf("%w: bitshuffle block of %d bytes is not a whole number of %d-byte stripes",
			errs.ErrFilterFailure, len(src), stripeBytes)
	}

	planeBytes := stripeItems / 8 // == itemWidth
	nStripes := len(src) / stripeBytes

	// Every output byte is built up with |= across several (item, bit)
	// pairs, so dst must start zeroed regardless of what the caller's
	// scratch buffer held before.
	for i := range dst {
		dst[i] = 0
	}

	for s := 0; s < nStripes; s++ {
		base := s * stripeBytes
		for bit := 0; bit < stripeItems; bit++ { // bit position within an item's W*8 bits
			planeBase := base + bit*planeBytes
			byteOff := bit / 8
			bitOff := uint(bit % 8)

			for item := 0; item < stripeItems; item++ {
				planeByte := item / 8
				planeBit := uint(item % 8)

				if !inverse {
					itemByte := src[base+item*itemWidth+byteOff]
					bitVal := (itemByte >> bitOff) & 1
					dst[planeBase+planeByte] |= bitVal << planeBit
				} else {
					planeByteVal := src[planeBase+planeByte]
					bitVal := (planeByteVal >> planeBit) & 1
					dst[base+item*itemWidth+byteOff] |= bitVal << bitOff
				}
			}
		}
	}

	return nil
}
