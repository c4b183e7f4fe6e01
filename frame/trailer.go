package frame

import (
	"fmt"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

// trailer is the frame's closing section (§4.5):
//
//	[ vlmeta table ][ fixed-metalayer table ][ chunk index: nchunks * u64 ]
//	[ footer magic (4 bytes) ][ total frame length (u64) ]
//
// The chunk index is the authoritative random-access structure: index[k]
// is the absolute byte offset of chunk k's first byte from the start of
// the frame (§4.5).
type trailer struct {
	vlmeta   *metalayerTable
	fixed    *metalayerTable
	chunkIdx []uint64
}

func newTrailer() *trailer {
	return &trailer{vlmeta: newMetalayerTable(), fixed: newMetalayerTable()}
}

func (t *trailer) byteSize() int {
	return t.vlmeta.byteSize() + t.fixed.byteSize() + 8*len(t.chunkIdx) + footerSize
}

// checkUserBudget reports an error if setting name=value on table would
// push the combined vlmeta+fixed metalayer payload past
// MaxUserTrailerSize (§4/DESIGN.md's resolved Open Question on the
// trailer's user-storage bound). The chunk index and footer are not
// user data and are excluded from the bound.
func (t *trailer) checkUserBudget(table *metalayerTable, name string, value []byte) error {
	delta := table.entrySize(name, value)
	if existing, ok := table.Get(name); ok {
		delta -= table.entrySize(name, existing)
	}

	combined := t.vlmeta.byteSize() + t.fixed.byteSize() + delta
	if combined > MaxUserTrailerSize {
		return fmt.Errorf("%w: metalayer %q would grow the trailer's user storage to %d bytes, max is %d",
			errs.ErrInvalidArgument, name, combined, MaxUserTrailerSize)
	}
	return nil
}

const footerSize = 4 + 8 // magic + total frame length

// encode writes the trailer at dst[:t.byteSize()]. frameTotalLen is the
// full frame length (header + chunks + trailer) to stamp into the
// footer, letting a reader validate the file wasn't truncated without
// having to first locate the trailer.
func (t *trailer) encode(dst []byte, frameTotalLen uint64) (int, error) {
	need := t.byteSize()
	if len(dst) < need {
		return 0, fmt.Errorf("%w: trailer needs %d bytes, got %d", errs.ErrInvalidArgument, need, len(dst))
	}

	off := 0
	n, err := t.vlmeta.encode(dst[off:])
	if err != nil {
		return 0, err
	}
	off += n

	n, err = t.fixed.encode(dst[off:])
	if err != nil {
		return 0, err
	}
	off += n

	for _, idx := range t.chunkIdx {
		le.PutUint64(dst[off:], idx)
		off += 8
	}

	dst[off+0] = format.FooterMagic0
	dst[off+1] = format.FooterMagic1
	dst[off+2] = format.FooterMagic2
	dst[off+3] = format.FooterMagic3
	off += 4

	le.PutUint64(dst[off:], frameTotalLen)
	off += 8

	return off, nil
}

// decodeTrailer parses a trailer out of src, which must hold exactly the
// trailer's bytes (the caller locates it via the header's TrailerOff).
// nchunks tells it how many chunk-index entries to expect.
func decodeTrailer(src []byte, nchunks int) (*trailer, error) {
	off := 0

	vlmeta, n, err := decodeMetalayerTable(src[off:])
	if err != nil {
		return nil, err
	}
	off += n

	fixed, n, err := decodeMetalayerTable(src[off:])
	if err != nil {
		return nil, err
	}
	off += n

	need := 8*nchunks + footerSize
	if off+need > len(src) {
		return nil, fmt.Errorf("%w: trailer truncated: need %d more bytes for chunk index and footer, have %d",
			errs.ErrInvalidFormat, need, len(src)-off)
	}

	chunkIdx := make([]uint64, nchunks)
	for i := 0; i < nchunks; i++ {
		chunkIdx[i] = le.Uint64(src[off:])
		off += 8
	}

	if src[off+0] != format.FooterMagic0 || src[off+1] != format.FooterMagic1 ||
		src[off+2] != format.FooterMagic2 || src[off+3] != format.FooterMagic3 {
		return nil, fmt.Errorf("%w: bad footer magic", errs.ErrInvalidFormat)
	}
	off += 4

	totalLen := le.Uint64(src[off:])
	off += 8

	t := &trailer{vlmeta: vlmeta, fixed: fixed, chunkIdx: chunkIdx}
	_ = totalLen // read but not compared with the actual frame length

	return t, nil
}
