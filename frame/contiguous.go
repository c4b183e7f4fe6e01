package frame

import (
	"fmt"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

// ContiguousFrame holds a super-chunk as a single byte stream (in-memory,
// or backed by a caller-managed file via Bytes/OpenContiguousFrame), per §4.5's
// "Contiguous mode writes to a single byte stream" rule.
type ContiguousFrame struct {
	header Header
	chunks [][]byte
	tr     *trailer

	// chunksWritten latches true on the first AppendChunk/InsertChunk,
	// after which SetMeta (fixed metalayers) is rejected per §4.6's
	// "registered before the first chunk is written" rule.
	chunksWritten bool
}

var _ Backend = (*ContiguousFrame)(nil)

// NewContiguousFrame creates an empty frame configured with the given
// item width, chunk/block sizes, codec, and filter chain. Every chunk
// later appended must share this configuration (§2 invariant 6).
func NewContiguousFrame(typesize, chunkSize, blockSize int, codecID format.CodecID, codecLevel int, filters [maxChainLen]format.FilterID, metas [maxChainLen]byte) *ContiguousFrame {
	return &ContiguousFrame{
		header: Header{
			VersionMajor: format.FormatVersionMajor,
			VersionMinor: format.FormatVersionMinor,
			Typesize:     uint32(typesize),
			ChunkSize:    uint32(chunkSize),
			BlockSize:    uint32(blockSize),
			CodecID:      codecID,
			CodecLevel:   uint8(codecLevel),
			Filters:      filters,
			Metas:        metas,
		},
		tr: newTrailer(),
	}
}

func (f *ContiguousFrame) NChunks() int { return len(f.chunks) }

func (f *ContiguousFrame) ReadChunk(i int) ([]byte, error) {
	if i < 0 || i >= len(f.chunks) {
		return nil, fmt.Errorf("%w: chunk index %d out of range [0,%d)", errs.ErrOutOfRange, i, len(f.chunks))
	}
	out := make([]byte, len(f.chunks[i]))
	copy(out, f.chunks[i])
	return out, nil
}

func (f *ContiguousFrame) AppendChunk(chunkBytes []byte) error {
	f.chunks = append(f.chunks, append([]byte(nil), chunkBytes...))
	f.chunksWritten = true
	return nil
}

func (f *ContiguousFrame) InsertChunk(i int, chunkBytes []byte) error {
	if i < 0 || i > len(f.chunks) {
		return fmt.Errorf("%w: insert index %d out of range [0,%d]", errs.ErrOutOfRange, i, len(f.chunks))
	}
	cp := append([]byte(nil), chunkBytes...)
	f.chunks = append(f.chunks, nil)
	copy(f.chunks[i+1:], f.chunks[i:])
	f.chunks[i] = cp
	f.chunksWritten = true
	return nil
}

func (f *ContiguousFrame) UpdateChunk(i int, chunkBytes []byte) error {
	if i < 0 || i >= len(f.chunks) {
		return fmt.Errorf("%w: chunk index %d out of range [0,%d)", errs.ErrOutOfRange, i, len(f.chunks))
	}
	f.chunks[i] = append([]byte(nil), chunkBytes...)
	return nil
}

func (f *ContiguousFrame) DeleteChunk(i int) error {
	if i < 0 || i >= len(f.chunks) {
		return fmt.Errorf("%w: chunk index %d out of range [0,%d)", errs.ErrOutOfRange, i, len(f.chunks))
	}
	f.chunks = append(f.chunks[:i], f.chunks[i+1:]...)
	return nil
}

func (f *ContiguousFrame) SetMeta(name string, data []byte) error {
	if f.tr.fixed.Has(name) {
		existing, _ := f.tr.fixed.Get(name)
		if len(existing) != len(data) {
			return fmt.Errorf("%w: fixed metalayer %q size is frozen at %d bytes", errs.ErrAlreadyExists, name, len(existing))
		}
		if err := f.tr.checkUserBudget(f.tr.fixed, name, data); err != nil {
			return err
		}
		f.tr.fixed.Set(name, data)
		return nil
	}
	if f.chunksWritten {
		return fmt.Errorf("%w: fixed metalayer %q must be registered before the first chunk", errs.ErrAfterData, name)
	}
	if err := f.tr.checkUserBudget(f.tr.fixed, name, data); err != nil {
		return err
	}
	f.tr.fixed.Set(name, data)
	return nil
}

func (f *ContiguousFrame) GetMeta(name string) ([]byte, bool) { return f.tr.fixed.Get(name) }

func (f *ContiguousFrame) SetVLMeta(name string, data []byte) error {
	if err := f.tr.checkUserBudget(f.tr.vlmeta, name, data); err != nil {
		return err
	}
	f.tr.vlmeta.Set(name, data)
	return nil
}

func (f *ContiguousFrame) GetVLMeta(name string) ([]byte, bool) { return f.tr.vlmeta.Get(name) }

func (f *ContiguousFrame) DelVLMeta(name string) error {
	if !f.tr.vlmeta.Delete(name) {
		return fmt.Errorf("%w: vlmeta %q", errs.ErrNotFound, name)
	}
	return nil
}

func (f *ContiguousFrame) Typesize() int  { return int(f.header.Typesize) }
func (f *ContiguousFrame) ChunkSize() int { return int(f.header.ChunkSize) }
func (f *ContiguousFrame) BlockSize() int { return int(f.header.BlockSize) }
func (f *ContiguousFrame) CodecID() format.CodecID { return f.header.CodecID }
func (f *ContiguousFrame) CodecLevel() int         { return int(f.header.CodecLevel) }
func (f *ContiguousFrame) Filters() [maxChainLen]format.FilterID { return f.header.Filters }
func (f *ContiguousFrame) Metas() [maxChainLen]byte              { return f.header.Metas }

// Bytes serializes the frame to its on-wire form (§4.5's full layout):
// header, chunk stream, trailer. Every call rebuilds the chunk index
// from the current chunk list, matching "resize operations rebuild the
// index."
func (f *ContiguousFrame) Bytes() ([]byte, error) {
	chunkIdx := make([]uint64, len(f.chunks))
	offset := uint64(HeaderSize)
	for i, c := range f.chunks {
		chunkIdx[i] = offset
		offset += uint64(len(c))
	}

	f.tr.chunkIdx = chunkIdx
	trailerOff := offset

	h := f.header
	h.NChunks = uint32(len(f.chunks))
	h.TrailerOff = trailerOff

	total := int(trailerOff) + f.tr.byteSize()
	out := make([]byte, total)

	if err := h.Encode(out[:HeaderSize]); err != nil {
		return nil, err
	}

	pos := HeaderSize
	for _, c := range f.chunks {
		pos += copy(out[pos:], c)
	}

	if _, err := f.tr.encode(out[pos:], uint64(total)); err != nil {
		return nil, err
	}

	return out, nil
}

// OpenContiguousFrame parses a frame previously produced by Bytes.
func OpenContiguousFrame(data []byte) (*ContiguousFrame, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}

	if int(h.TrailerOff) > len(data) {
		return nil, fmt.Errorf("%w: trailer offset %d beyond frame length %d", errs.ErrInvalidFormat, h.TrailerOff, len(data))
	}

	tr, err := decodeTrailer(data[h.TrailerOff:], int(h.NChunks))
	if err != nil {
		return nil, err
	}

	chunks := make([][]byte, h.NChunks)
	for i := 0; i < int(h.NChunks); i++ {
		start := tr.chunkIdx[i]
		var end uint64
		if i+1 < int(h.NChunks) {
			end = tr.chunkIdx[i+1]
		} else {
			end = h.TrailerOff
		}
		if start > end || end > uint64(len(data)) {
			return nil, fmt.Errorf("%w: chunk %d index range [%d,%d) invalid", errs.ErrInvalidFormat, i, start, end)
		}
		chunks[i] = append([]byte(nil), data[start:end]...)
	}

	return &ContiguousFrame{
		header:        h,
		chunks:        chunks,
		tr:            tr,
		chunksWritten: len(chunks) > 0,
	}, nil
}
