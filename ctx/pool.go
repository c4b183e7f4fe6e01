package ctx

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Pool is the bounded worker pool a chunk engine dispatches blocks
// through (§4.4/§5). It wraps errgroup.Group with a semaphore sized from
// NThreads, so at most NThreads tasks run concurrently regardless of how
// many are submitted.
//
// Pool is not safe for reuse across unrelated operations that should
// fail independently: Wait returns the first error from any task and
// subsequent submissions after a failure are rejected (cooperative
// cancellation, matching §5's "shared atomic error flag" model).
type Pool struct {
	nThreads int
	sem      chan struct{}
	eg       *errgroup.Group
	ctx      context.Context
	failed   atomic.Bool
}

// NewPool creates a pool sized from nThreads (0 resolves to
// runtime.NumCPU()). Use the returned Pool's Go/Wait like errgroup.Group;
// Cancelled reports the cooperative cancellation flag workers should poll
// between blocks.
func NewPool(parent context.Context, nThreads int) *Pool {
	if nThreads <= 0 {
		nThreads = runtime.NumCPU()
	}
	if parent == nil {
		parent = context.Background()
	}

	eg, egCtx := errgroup.WithContext(parent)
	return &Pool{
		nThreads: nThreads,
		sem:      make(chan struct{}, nThreads),
		eg:       eg,
		ctx:      egCtx,
	}
}

// NThreads reports the pool's configured concurrency.
func (p *Pool) NThreads() int { return p.nThreads }

// Single reports whether the pool should take the nthreads==1 fast path
// (§4.4): callers of Go may instead invoke the task inline, skipping
// goroutine and semaphore overhead entirely.
func (p *Pool) Single() bool { return p.nThreads == 1 }

// Cancelled reports whether any previously submitted task has failed.
// Workers poll this between blocks to stop early without waiting for the
// errgroup context to propagate.
func (p *Pool) Cancelled() bool { return p.failed.Load() }

// Go submits fn to run on the pool, bounded by the semaphore. If Single
// returns true the caller should not use Go at all and should instead
// invoke fn directly; Go still works correctly (with nThreads==1 the
// semaphore simply admits one task at a time) but pays goroutine
// overhead the documented fast path is meant to avoid.
func (p *Pool) Go(fn func(ctx context.Context) error) {
	p.eg.Go(func() error {
		if err := p.ctx.Err(); err != nil {
			return err
		}
		select {
		case p.sem <- struct{}{}:
		case <-p.ctx.Done():
			return p.ctx.Err()
		}
		defer func() { <-p.sem }()

		if err := fn(p.ctx); err != nil {
			p.failed.Store(true)
			return err
		}
		return nil
	})
}

// Wait blocks until every submitted task has completed and returns the
// first error encountered, if any.
func (p *Pool) Wait() error {
	return p.eg.Wait()
}
