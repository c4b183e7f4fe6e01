package filter

import (
	"fmt"

	"github.com/ncdata/ncdata/errs"
)

// DeltaBlocks implements the chunk-relative delta filter (FilterDelta):
// unlike every other filter in this package it has no single-block Kernel
// because each block after the first is delta-encoded against the chunk's
// first block, not against itself. The chunk engine calls this directly
// after splitting a chunk into blocks and before running the per-block
// filter chain and codec.
//
// blocks[0] is left untouched; blocks[i] for i > 0 is overwritten in place
// with blocks[i] - blocks[0] (byte-wise, mod 256). All blocks must share
// the same length as blocks[0]; a short trailing block is the caller's
// responsibility to pad before calling this.
func DeltaBlocks(blocks [][]byte) error {
	if len(blocks) == 0 {
		return nil
	}

	ref := blocks[0]
	for i := 1; i < len(blocks); i++ {
		b := blocks[i]
		if len(b) != len(ref) {
			return fmt.Errorf("%w: delta block %d length %d does not match reference block length %d",
				errs.ErrFilterFailure, i, len(b), len(ref))
		}
		for j := range b {
			b[j] -= ref[j]
		}
	}

	return nil
}

// UndeltaBlocks inverts DeltaBlocks. blocks[0] (the reference) must already
// be in its final, decoded form before this runs.
func UndeltaBlocks(blocks [][]byte) error {
	if len(blocks) == 0 {
		return nil
	}

	ref := blocks[0]
	for i := 1; i < len(blocks); i++ {
		b := blocks[i]
		if len(b) != len(ref) {
			return fmt.Errorf("%w: delta block %d length %d does not match reference block length %d",
				errs.ErrFilterFailure, i, len(b), len(ref))
		}
		for j := range b {
			b[j] += ref[j]
		}
	}

	return nil
}
