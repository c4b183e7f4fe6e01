// Package frame implements the frame container (§4.5/§6): the fixed
// header, chunk stream, and trailer (vlmeta table, fixed-metalayer
// table, chunk index, footer) that make a super-chunk serializable, plus
// the two backends — ContiguousFrame (single byte stream) and
// SparseFrame (directory of per-chunk files) — that present identical
// logical semantics through a common Backend interface.
package frame

import (
	"fmt"

	"github.com/ncdata/ncdata/endian"
	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

// le is the byte order used for every on-disk integer in a frame, chunk,
// and block header (§6: "always little-endian on disk").
var le = endian.GetLittleEndianEngine()

// Fixed header byte offsets, bit-exact per §6.
const (
	offMagic       = 0  // 4 bytes
	offVersionMaj  = 4  // u8
	offVersionMin  = 5  // u8
	offFlags       = 6  // u8
	offReserved    = 7  // u8
	offTypesize    = 8  // u32
	offChunkSize   = 12 // u32, logical bytes per full chunk
	offBlockSize   = 16 // u32
	offNChunks     = 20 // u32
	offCodecID     = 24 // u8
	offCodecLevel  = 25 // u8
	offReserved2   = 26 // u8
	offReserved3   = 27 // u8
	offFilters     = 28 // 6 bytes
	offMetas       = 34 // 6 bytes
	offTrailerOff  = 40 // u64, byte offset of the trailer from frame start

	// HeaderSize is the fixed header length.
	HeaderSize = 48

	maxChainLen = 6
)

// MaxUserTrailerSize bounds the combined size of vlmeta + fixed-metalayer
// payload bytes a frame will accept, per the Open Question decision
// recorded in DESIGN.md: the format reference was unavailable to confirm
// a canonical figure, so this is a conservative, documented constant.
// Changing it is a frame minor-version bump.
const MaxUserTrailerSize = 4 * 1024

// Header is the decoded form of a frame's fixed header.
type Header struct {
	VersionMajor uint8
	VersionMinor uint8
	Typesize     uint32
	ChunkSize    uint32
	BlockSize    uint32
	NChunks      uint32
	CodecID      format.CodecID
	CodecLevel   uint8
	Filters      [maxChainLen]format.FilterID
	Metas        [maxChainLen]byte
	TrailerOff   uint64
}

// Encode writes h into dst[:HeaderSize], including the fixed magic.
func (h Header) Encode(dst []byte) error {
	if len(dst) < HeaderSize {
		return fmt.Errorf("%w: frame header needs %d bytes, got %d", errs.ErrInvalidArgument, HeaderSize, len(dst))
	}

	dst[offMagic+0] = format.FrameMagic0
	dst[offMagic+1] = format.FrameMagic1
	dst[offMagic+2] = format.FrameMagic2
	dst[offMagic+3] = format.FrameMagic3

	dst[offVersionMaj] = h.VersionMajor
	dst[offVersionMin] = h.VersionMinor
	dst[offFlags] = 0
	dst[offReserved] = 0

	le.PutUint32(dst[offTypesize:], h.Typesize)
	le.PutUint32(dst[offChunkSize:], h.ChunkSize)
	le.PutUint32(dst[offBlockSize:], h.BlockSize)
	le.PutUint32(dst[offNChunks:], h.NChunks)

	dst[offCodecID] = byte(h.CodecID)
	dst[offCodecLevel] = h.CodecLevel
	dst[offReserved2] = 0
	dst[offReserved3] = 0

	for i := 0; i < maxChainLen; i++ {
		dst[offFilters+i] = byte(h.Filters[i])
		dst[offMetas+i] = h.Metas[i]
	}

	le.PutUint64(dst[offTrailerOff:], h.TrailerOff)

	return nil
}

// DecodeHeader reads a Header from src[:HeaderSize], validating the magic
// and the forward-compatibility version rule from §6: an unknown major
// version is rejected outright; any minor version is accepted for
// recognized ids (minor-gated ids are checked by the caller, per chunk).
func DecodeHeader(src []byte) (Header, error) {
	if len(src) < HeaderSize {
		return Header{}, fmt.Errorf("%w: frame header needs %d bytes, got %d", errs.ErrInvalidFormat, HeaderSize, len(src))
	}
	if src[offMagic+0] != format.FrameMagic0 || src[offMagic+1] != format.FrameMagic1 ||
		src[offMagic+2] != format.FrameMagic2 || src[offMagic+3] != format.FrameMagic3 {
		return Header{}, fmt.Errorf("%w: bad frame magic", errs.ErrInvalidFormat)
	}

	h := Header{
		VersionMajor: src[offVersionMaj],
		VersionMinor: src[offVersionMin],
		Typesize:     le.Uint32(src[offTypesize:]),
		ChunkSize:    le.Uint32(src[offChunkSize:]),
		BlockSize:    le.Uint32(src[offBlockSize:]),
		NChunks:      le.Uint32(src[offNChunks:]),
		CodecID:      format.CodecID(src[offCodecID]),
		CodecLevel:   src[offCodecLevel],
		TrailerOff:   le.Uint64(src[offTrailerOff:]),
	}
	for i := 0; i < maxChainLen; i++ {
		h.Filters[i] = format.FilterID(src[offFilters+i])
		h.Metas[i] = src[offMetas+i]
	}

	if h.VersionMajor != format.FormatVersionMajor {
		return Header{}, fmt.Errorf("%w: frame major version %d unsupported (this build supports %d)",
			errs.ErrUnknownVersion, h.VersionMajor, format.FormatVersionMajor)
	}

	return h, nil
}
