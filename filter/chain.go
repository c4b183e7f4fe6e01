package filter

import (
	"fmt"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

// Step is one (filter id, meta) pair within a Chain.
type Step struct {
	ID   format.FilterID
	Meta byte
}

// Chain is an ordered list of up to format.MaxFilters steps, applied in
// order on encode and in reverse on decode (§4.1). FilterIdentity steps
// are no-ops and are skipped in both directions.
type Chain struct {
	Steps []Step
}

// Len reports the number of non-identity steps.
func (c Chain) Len() int {
	n := 0
	for _, s := range c.Steps {
		if s.ID != format.FilterIdentity {
			n++
		}
	}
	return n
}

// Has reports whether the chain includes a step with the given id.
func (c Chain) Has(id format.FilterID) bool {
	for _, s := range c.Steps {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Forward applies every step in order, ping-ponging between buf and
// scratch so each step reads the previous step's output; block itself is
// never written to. buf and scratch must both be at least len(block)
// long. Returns whichever of buf/scratch holds the final result (or
// block itself, unchanged, if every step was identity).
func (c Chain) Forward(ctx Context, block, buf, scratch []byte) ([]byte, error) {
	return c.run(ctx, block, buf, scratch, false)
}

// Backward applies every step in reverse order, inverting Forward.
func (c Chain) Backward(ctx Context, block, buf, scratch []byte) ([]byte, error) {
	return c.run(ctx, block, buf, scratch, true)
}

func (c Chain) run(ctx Context, block, buf, scratch []byte, backward bool) ([]byte, error) {
	if len(c.Steps) > format.MaxFilters {
		return nil, fmt.Errorf("%w: filter chain has %d steps, max is %d", errs.ErrInvalidArgument, len(c.Steps), format.MaxFilters)
	}

	n := len(block)
	ring := [2][]byte{buf[:n], scratch[:n]}
	next := 0

	src := block
	for i := range c.Steps {
		step := c.Steps[i]
		if backward {
			step = c.Steps[len(c.Steps)-1-i]
		}
		if step.ID == format.FilterIdentity {
			continue
		}
		if step.ID == format.FilterDelta {
			// Chunk-relative, not block-relative: the chunk engine applies
			// DeltaBlocks/UndeltaBlocks itself across the whole block set
			// before/after this per-block pipeline runs, so there is
			// nothing left for this step to do here.
			continue
		}

		k, err := Lookup(step.ID)
		if err != nil {
			return nil, err
		}

		dst := ring[next]
		next = 1 - next

		if backward {
			err = k.Backward(ctx, step.Meta, src, dst)
		} else {
			err = k.Forward(ctx, step.Meta, src, dst)
		}
		if err != nil {
			return nil, err
		}

		src = dst
	}

	return src, nil
}

// DefaultChain returns the filter catalog's typesize-aware default chain:
// Shuffle for multi-byte items, Identity (no filtering) for single-byte
// items, where shuffling can't help because there is nothing to transpose.
func DefaultChain(itemWidth int) Chain {
	if itemWidth > 1 {
		return Chain{Steps: []Step{{ID: format.FilterShuffle}}}
	}
	return Chain{Steps: []Step{{ID: format.FilterIdentity}}}
}
