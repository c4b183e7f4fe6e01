// Package filter implements the filter catalog (§4.1): reversible (and two
// explicitly lossy) byte-level transforms applied to a single block before
// the general-purpose codec runs.
//
// Every filter is a (forward, backward) pair operating on one block's raw
// bytes. Forward and backward always see the same length in and out, except
// where a filter's contract explicitly says otherwise (none currently do —
// truncate-precision and ndmean are lossy in content, not in length).
package filter

import (
	"fmt"
	"sync"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

// Context carries the per-block geometry a filter kernel needs: the item
// width in bytes, the scalar interpretation of items (needed by ndmean),
// and the block's multidimensional shape in C-order (needed by the cell
// filters; nil/empty for filters that only care about flat byte layout).
type Context struct {
	ItemWidth  int
	ItemKind   format.ItemKind
	BlockShape []int
}

// NumItems returns the number of items the context describes, computed
// from BlockShape when present, otherwise left to the caller to derive
// from a buffer length.
func (c Context) NumItems() int {
	if len(c.BlockShape) == 0 {
		return 0
	}

	n := 1
	for _, d := range c.BlockShape {
		n *= d
	}

	return n
}

// Kernel is the forward/backward pair for one filter id.
type Kernel interface {
	ID() format.FilterID
	// Forward writes the filtered form of src into dst. len(dst) must
	// equal len(src); callers pre-size dst accordingly.
	Forward(ctx Context, meta byte, src, dst []byte) error
	// Backward inverts Forward. Not implemented (returns errs.ErrFilterFailure)
	// for filters whose FilterID.Reversible() is false.
	Backward(ctx Context, meta byte, src, dst []byte) error
}

var registry = map[format.FilterID]Kernel{}

func register(k Kernel) {
	registry[k.ID()] = k
}

var (
	customMu sync.Mutex
	custom   = map[format.FilterID]Kernel{}
)

// RegisterKernel adds a user-supplied filter kernel under id. It rejects
// ids already claimed by either the built-in catalog or a prior
// registration, matching the append-only plugin-registry convention.
func RegisterKernel(id format.FilterID, k Kernel) error {
	customMu.Lock()
	defer customMu.Unlock()

	if _, ok := registry[id]; ok {
		return fmt.Errorf("%w: filter id %d is a built-in", errs.ErrAlreadyExists, id)
	}
	if _, ok := custom[id]; ok {
		return fmt.Errorf("%w: filter id %d already registered", errs.ErrAlreadyExists, id)
	}

	custom[id] = k
	return nil
}

// Lookup returns the kernel for a filter id, or an error if the id is
// FilterIdentity (callers should skip identity themselves, per §4.1) or
// otherwise unknown.
func Lookup(id format.FilterID) (Kernel, error) {
	if id == format.FilterIdentity {
		return nil, fmt.Errorf("%w: identity filter has no kernel", errs.ErrInvalidArgument)
	}

	if k, ok := registry[id]; ok {
		return k, nil
	}

	customMu.Lock()
	k, ok := custom[id]
	customMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: filter id %d", errs.ErrUnsupported, id)
	}

	return k, nil
}

func init() {
	register(shuffleKernel{})
	register(bitshuffleKernel{})
	register(byteDeltaKernel{legacy: false})
	register(byteDeltaLegacyKernel{})
	register(truncatePrecisionKernel{})
	register(ndCellKernel{})
	register(ndMeanKernel{})
	// FilterDelta (chunk-relative) is handled by the chunk engine directly
	// via DeltaBlocks/UndeltaBlocks (delta.go); it has no single-block kernel
	// because its reference data (the chunk's first block) lives outside
	// the block being transformed.
}
