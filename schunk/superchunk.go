// Package schunk implements the super-chunk layer (§4.6): a sequence of
// independently compressed chunks fronted by a single logical API that
// hides whether the underlying storage is a contiguous byte stream or a
// directory of per-chunk files.
package schunk

import (
	"iter"
	"sync"

	"github.com/ncdata/ncdata/chunk"
	"github.com/ncdata/ncdata/ctx"
	"github.com/ncdata/ncdata/frame"
)

// SuperChunk wraps a frame.Backend with the compress/decompress machinery
// needed to present []byte-in, []byte-out chunk semantics, guarded by a
// single readers-writer lock per §5's "Shared resources" guidance (many
// concurrent readers, exclusive writers).
type SuperChunk struct {
	mu sync.RWMutex

	backend frame.Backend
	engine  chunk.Engine
	cparams ctx.CParams
	dparams ctx.DParams
}

// New wires a backend to the engine and parameter set that every chunk
// passing through it will be compressed/decompressed with.
func New(backend frame.Backend, engine chunk.Engine, cparams ctx.CParams, dparams ctx.DParams) *SuperChunk {
	return &SuperChunk{backend: backend, engine: engine, cparams: cparams.Clamped(), dparams: dparams}
}

// NChunks reports the current number of logical chunks.
func (s *SuperChunk) NChunks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend.NChunks()
}

// AppendChunk compresses buf and appends it as the new last chunk.
func (s *SuperChunk) AppendChunk(buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.engine.CompressChunk(buf, s.cparams)
	if err != nil {
		return err
	}
	return s.backend.AppendChunk(c.Bytes)
}

// InsertChunk compresses buf and inserts it at logical position k,
// shifting chunks at or after k one position later.
func (s *SuperChunk) InsertChunk(k int, buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.engine.CompressChunk(buf, s.cparams)
	if err != nil {
		return err
	}
	return s.backend.InsertChunk(k, c.Bytes)
}

// UpdateChunk compresses buf and replaces the chunk at logical position k.
func (s *SuperChunk) UpdateChunk(k int, buf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.engine.CompressChunk(buf, s.cparams)
	if err != nil {
		return err
	}
	return s.backend.UpdateChunk(k, c.Bytes)
}

// DeleteChunk removes the chunk at logical position k, shifting later
// chunks one position earlier.
func (s *SuperChunk) DeleteChunk(k int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.DeleteChunk(k)
}

// GetChunk reads and decompresses the chunk at logical position k,
// returning its ChunkShape-extent logical buffer.
func (s *SuperChunk) GetChunk(k int) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := s.backend.ReadChunk(k)
	if err != nil {
		return nil, err
	}
	return s.engine.DecompressChunk(chunk.Chunk{Bytes: raw}, s.dparams)
}

// SetMeta registers or updates a fixed-size metalayer.
func (s *SuperChunk) SetMeta(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.SetMeta(name, data)
}

// GetMeta reads a fixed-size metalayer previously set with SetMeta.
func (s *SuperChunk) GetMeta(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend.GetMeta(name)
}

// SetVLMeta sets a variable-length metalayer, creating it if absent.
func (s *SuperChunk) SetVLMeta(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.SetVLMeta(name, data)
}

// GetVLMeta reads a variable-length metalayer.
func (s *SuperChunk) GetVLMeta(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend.GetVLMeta(name)
}

// DelVLMeta removes a variable-length metalayer.
func (s *SuperChunk) DelVLMeta(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.DelVLMeta(name)
}

// Iter yields (index, decompressed chunk) pairs in logical order, in the
// style of the teacher's columnar decoder iterators. The whole sequence
// is read under a single read-lock hold so a concurrent writer can never
// interleave a mutation mid-iteration; a decompression error stops the
// sequence early without a way to surface the error to the caller, so
// GetChunk should be preferred when error handling matters.
func (s *SuperChunk) Iter() iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		s.mu.RLock()
		defer s.mu.RUnlock()

		n := s.backend.NChunks()
		for i := 0; i < n; i++ {
			raw, err := s.backend.ReadChunk(i)
			if err != nil {
				return
			}
			buf, err := s.engine.DecompressChunk(chunk.Chunk{Bytes: raw}, s.dparams)
			if err != nil {
				return
			}
			if !yield(i, buf) {
				return
			}
		}
	}
}

// Backend exposes the underlying storage backend, e.g. for Bytes()
// on a ContiguousFrame or reopening a SparseFrame directory.
func (s *SuperChunk) Backend() frame.Backend {
	return s.backend
}
