package ctx

import (
	"fmt"
	"sync"

	"github.com/ncdata/ncdata/codec"
	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/filter"
	"github.com/ncdata/ncdata/format"
)

// Runtime is a process-wide handle over the built-in codec/filter catalog
// plus the mutex-guarded tables for user-registered plugins (§4.9,
// "Supplemented features" — the plugin registry convention). Most callers
// never need to touch it directly: codec.CreateCodec and filter.Lookup
// already resolve both built-ins and registrations. Runtime exists as the
// single entry point for callers that want to register a custom
// codec/filter once, up front, before any compression runs.
type Runtime struct {
	mu      sync.Mutex
	started bool
}

// Init prepares the runtime for use. It is idempotent and safe to call
// more than once; only the first call has any effect.
func (r *Runtime) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.started = true
	return nil
}

// Close releases the runtime. Built-in catalogs are process-global and
// are not torn down; Close exists so Runtime has a symmetric lifecycle
// for callers that want one (e.g. defer rt.Close()).
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.started = false
	return nil
}

// RegisterCodec registers a user-supplied codec under id, delegating to
// the process-wide codec registry.
func (r *Runtime) RegisterCodec(id format.CodecID, c codec.Codec) error {
	if !r.isStarted() {
		return fmt.Errorf("%w: runtime not initialized", errs.ErrInvalidArgument)
	}
	return codec.RegisterCodec(id, c)
}

// RegisterFilter registers a user-supplied filter kernel under id,
// delegating to the process-wide filter registry.
func (r *Runtime) RegisterFilter(id format.FilterID, k filter.Kernel) error {
	if !r.isStarted() {
		return fmt.Errorf("%w: runtime not initialized", errs.ErrInvalidArgument)
	}
	return filter.RegisterKernel(id, k)
}

func (r *Runtime) isStarted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}
