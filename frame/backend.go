package frame

import "github.com/ncdata/ncdata/format"

// Backend is the storage-agnostic interface ContiguousFrame and
// SparseFrame both implement, so schunk.SuperChunk can drive either
// without knowing which one it holds (§4.5: "Both modes must present
// identical logical semantics").
type Backend interface {
	NChunks() int
	ReadChunk(i int) ([]byte, error)
	AppendChunk(chunkBytes []byte) error
	InsertChunk(i int, chunkBytes []byte) error
	UpdateChunk(i int, chunkBytes []byte) error
	DeleteChunk(i int) error

	SetMeta(name string, data []byte) error
	GetMeta(name string) ([]byte, bool)
	SetVLMeta(name string, data []byte) error
	GetVLMeta(name string) ([]byte, bool)
	DelVLMeta(name string) error

	// Typesize, ChunkSize, BlockSize, CodecID, and Filters describe the
	// configuration every chunk in this frame was written with; a fresh
	// frame has them set once by its constructor and they are immutable
	// afterward (§2 invariant 6: "Item width is global per super-chunk").
	Typesize() int
	ChunkSize() int
	BlockSize() int
	CodecID() format.CodecID
	CodecLevel() int
	Filters() [maxChainLen]format.FilterID
	Metas() [maxChainLen]byte
}
