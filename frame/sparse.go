package frame

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

// sparseIndexMagic identifies a sparse frame's index file, distinct from
// the contiguous frame magic since the two are never interchangeable.
var sparseIndexMagic = [4]byte{'N', 'C', 'D', 'X'}

const sparseIndexFileName = "index.bin"

// SparseFrame stores a super-chunk as a directory containing one file per
// chunk (named by a monotonically increasing decimal identifier) plus a
// small index file recording the header, metalayers, and the current
// logical-to-physical chunk ordering (§4.5, §6's persisted-state layout).
type SparseFrame struct {
	dir    string
	header Header
	tr     *trailer

	// fileIDs[k] is the on-disk identifier of the chunk currently at
	// logical position k. IDs are never reused within a frame's
	// lifetime, so stale readers of a renamed/deleted slot fail loudly
	// instead of reading the wrong chunk.
	fileIDs []uint64
	nextID  uint64

	chunksWritten bool
}

var _ Backend = (*SparseFrame)(nil)

// CreateSparseFrame creates a new, empty sparse frame rooted at dir (the
// directory is created if missing).
func CreateSparseFrame(dir string, typesize, chunkSize, blockSize int, codecID format.CodecID, codecLevel int, filters [maxChainLen]format.FilterID, metas [maxChainLen]byte) (*SparseFrame, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidStorage, err)
	}

	f := &SparseFrame{
		dir: dir,
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
	if err := f.writeIndex(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *SparseFrame) chunkPath(id uint64) string {
	return filepath.Join(f.dir, fmt.Sprintf("chunk-%020d.bin", id))
}

func (f *SparseFrame) indexPath() string { return filepath.Join(f.dir, sparseIndexFileName) }

func (f *SparseFrame) NChunks() int { return len(f.fileIDs) }

func (f *SparseFrame) ReadChunk(i int) ([]byte, error) {
	if i < 0 || i >= len(f.fileIDs) {
		return nil, fmt.Errorf("%w: chunk index %d out of range [0,%d)", errs.ErrOutOfRange, i, len(f.fileIDs))
	}
	data, err := os.ReadFile(f.chunkPath(f.fileIDs[i]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidStorage, err)
	}
	return data, nil
}

func (f *SparseFrame) writeChunkFile(id uint64, data []byte) error {
	if err := os.WriteFile(f.chunkPath(id), data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidStorage, err)
	}
	return nil
}

func (f *SparseFrame) AppendChunk(chunkBytes []byte) error {
	id := f.nextID
	f.nextID++
	if err := f.writeChunkFile(id, chunkBytes); err != nil {
		return err
	}
	f.fileIDs = append(f.fileIDs, id)
	f.chunksWritten = true
	return f.writeIndex()
}

func (f *SparseFrame) InsertChunk(i int, chunkBytes []byte) error {
	if i < 0 || i > len(f.fileIDs) {
		return fmt.Errorf("%w: insert index %d out of range [0,%d]", errs.ErrOutOfRange, i, len(f.fileIDs))
	}
	id := f.nextID
	f.nextID++
	if err := f.writeChunkFile(id, chunkBytes); err != nil {
		return err
	}
	f.fileIDs = append(f.fileIDs, 0)
	copy(f.fileIDs[i+1:], f.fileIDs[i:])
	f.fileIDs[i] = id
	f.chunksWritten = true
	return f.writeIndex()
}

func (f *SparseFrame) UpdateChunk(i int, chunkBytes []byte) error {
	if i < 0 || i >= len(f.fileIDs) {
		return fmt.Errorf("%w: chunk index %d out of range [0,%d)", errs.ErrOutOfRange, i, len(f.fileIDs))
	}
	// A fresh file identifier keeps old readers of the previous file
	// from ever observing a partial overwrite.
	id := f.nextID
	f.nextID++
	oldID := f.fileIDs[i]
	if err := f.writeChunkFile(id, chunkBytes); err != nil {
		return err
	}
	f.fileIDs[i] = id
	_ = os.Remove(f.chunkPath(oldID))
	return f.writeIndex()
}

func (f *SparseFrame) DeleteChunk(i int) error {
	if i < 0 || i >= len(f.fileIDs) {
		return fmt.Errorf("%w: chunk index %d out of range [0,%d)", errs.ErrOutOfRange, i, len(f.fileIDs))
	}
	oldID := f.fileIDs[i]
	f.fileIDs = append(f.fileIDs[:i], f.fileIDs[i+1:]...)
	_ = os.Remove(f.chunkPath(oldID))
	return f.writeIndex()
}

func (f *SparseFrame) SetMeta(name string, data []byte) error {
	if f.tr.fixed.Has(name) {
		existing, _ := f.tr.fixed.Get(name)
		if len(existing) != len(data) {
			return fmt.Errorf("%w: fixed metalayer %q size is frozen at %d bytes", errs.ErrAlreadyExists, name, len(existing))
		}
		if err := f.tr.checkUserBudget(f.tr.fixed, name, data); err != nil {
			return err
		}
		f.tr.fixed.Set(name, data)
		return f.writeIndex()
	}
	if f.chunksWritten {
		return fmt.Errorf("%w: fixed metalayer %q must be registered before the first chunk", errs.ErrAfterData, name)
	}
	if err := f.tr.checkUserBudget(f.tr.fixed, name, data); err != nil {
		return err
	}
	f.tr.fixed.Set(name, data)
	return f.writeIndex()
}

func (f *SparseFrame) GetMeta(name string) ([]byte, bool) { return f.tr.fixed.Get(name) }

func (f *SparseFrame) SetVLMeta(name string, data []byte) error {
	if err := f.tr.checkUserBudget(f.tr.vlmeta, name, data); err != nil {
		return err
	}
	f.tr.vlmeta.Set(name, data)
	return f.writeIndex()
}

func (f *SparseFrame) GetVLMeta(name string) ([]byte, bool) { return f.tr.vlmeta.Get(name) }

func (f *SparseFrame) DelVLMeta(name string) error {
	if !f.tr.vlmeta.Delete(name) {
		return fmt.Errorf("%w: vlmeta %q", errs.ErrNotFound, name)
	}
	return f.writeIndex()
}

func (f *SparseFrame) Typesize() int                            { return int(f.header.Typesize) }
func (f *SparseFrame) ChunkSize() int                            { return int(f.header.ChunkSize) }
func (f *SparseFrame) BlockSize() int                            { return int(f.header.BlockSize) }
func (f *SparseFrame) CodecID() format.CodecID                   { return f.header.CodecID }
func (f *SparseFrame) CodecLevel() int                           { return int(f.header.CodecLevel) }
func (f *SparseFrame) Filters() [maxChainLen]format.FilterID     { return f.header.Filters }
func (f *SparseFrame) Metas() [maxChainLen]byte                  { return f.header.Metas }

// writeIndex persists the header, metalayer tables, chunk ordering, and
// next-id counter to the index file.
func (f *SparseFrame) writeIndex() error {
	h := f.header
	h.NChunks = uint32(len(f.fileIDs))

	metaSize := f.tr.vlmeta.byteSize() + f.tr.fixed.byteSize()
	total := 4 + HeaderSize + metaSize + 8 + 4 + 8*len(f.fileIDs)
	out := make([]byte, total)

	off := copy(out, sparseIndexMagic[:])
	if err := h.Encode(out[off : off+HeaderSize]); err != nil {
		return err
	}
	off += HeaderSize

	n, err := f.tr.vlmeta.encode(out[off:])
	if err != nil {
		return err
	}
	off += n

	n, err = f.tr.fixed.encode(out[off:])
	if err != nil {
		return err
	}
	off += n

	le.PutUint64(out[off:], f.nextID)
	off += 8
	le.PutUint32(out[off:], uint32(len(f.fileIDs)))
	off += 4
	for _, id := range f.fileIDs {
		le.PutUint64(out[off:], id)
		off += 8
	}

	if err := os.WriteFile(f.indexPath(), out[:off], 0o644); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidStorage, err)
	}
	return nil
}

// OpenSparseFrame reads back a sparse frame's index file and validates
// its magic; an unrecognized index schema is rejected rather than
// silently migrated, per the Open Question decision in DESIGN.md.
func OpenSparseFrame(dir string) (*SparseFrame, error) {
	data, err := os.ReadFile(filepath.Join(dir, sparseIndexFileName))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidStorage, err)
	}

	if len(data) < 4 || [4]byte{data[0], data[1], data[2], data[3]} != sparseIndexMagic {
		return nil, fmt.Errorf("%w: unrecognized sparse frame index schema", errs.ErrInvalidFormat)
	}
	off := 4

	h, err := DecodeHeader(data[off:])
	if err != nil {
		return nil, err
	}
	off += HeaderSize

	vlmeta, n, err := decodeMetalayerTable(data[off:])
	if err != nil {
		return nil, err
	}
	off += n

	fixed, n, err := decodeMetalayerTable(data[off:])
	if err != nil {
		return nil, err
	}
	off += n

	if off+12 > len(data) {
		return nil, fmt.Errorf("%w: sparse frame index truncated", errs.ErrInvalidFormat)
	}
	nextID := le.Uint64(data[off:])
	off += 8
	count := int(le.Uint32(data[off:]))
	off += 4

	if off+8*count > len(data) {
		return nil, fmt.Errorf("%w: sparse frame index truncated chunk list", errs.ErrInvalidFormat)
	}
	fileIDs := make([]uint64, count)
	for i := range fileIDs {
		fileIDs[i] = le.Uint64(data[off:])
		off += 8
	}

	return &SparseFrame{
		dir:           dir,
		header:        h,
		tr:            &trailer{vlmeta: vlmeta, fixed: fixed},
		fileIDs:       fileIDs,
		nextID:        nextID,
		chunksWritten: len(fileIDs) > 0,
	}, nil
}
