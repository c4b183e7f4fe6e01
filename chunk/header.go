// Package chunk implements the chunk engine (§4.4): splitting a chunk
// buffer into blocks via ndim partitioning, dispatching block pipelines
// across a bounded worker pool, and the byte-exact chunk header (§6)
// that makes every chunk self-describing and copyable between frames.
package chunk

import (
	"fmt"

	"github.com/ncdata/ncdata/endian"
	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

// le is the byte order used for every on-disk integer in a chunk header
// and offset table (§6: "always little-endian on disk").
var le = endian.GetLittleEndianEngine()

// Header byte offsets, bit-exact per §6. Every chunk begins with this
// fixed-size header, whose last 12 bytes hold the filter-chain codes and
// metas, followed by the block offset table and the block stream.
const (
	offNBytes    = 0  // logical size after decompression, u32
	offBlockSize = 4  // u32
	offCBytes    = 8  // size of this chunk header + body, u32
	offFlags     = 12 // codec id (low nibble) + checksum-present bit
	offVersion   = 13 // chunk format minor version at write time
	offFlags2    = 14 // reserved for future flags
	offReserved  = 15 // reserved
	offTypesize  = 16 // u32
	offFilters   = 20 // 6 filter ids
	offMetas     = 26 // 6 filter metas
	// HeaderSize is the fixed header length; the filter-chain table ends
	// exactly here and the block-offset table follows immediately.
	HeaderSize = 32

	maxChainLen = 6

	// flagChecksum marks that an 8-byte xxhash64 checksum of the chunk's
	// decompressed bytes follows the block stream.
	flagChecksum byte = 1 << 4
)

// Header is the decoded form of a chunk's fixed header plus its
// filter-chain table.
type Header struct {
	NBytes    uint32
	BlockSize uint32
	CBytes    uint32
	CodecID   format.CodecID
	Checksum  bool
	Version   byte
	Typesize  uint32
	Filters   [maxChainLen]format.FilterID
	Metas     [maxChainLen]byte
}

// Encode writes h into dst[:HeaderSize]. dst must be at least HeaderSize
// bytes long.
func (h Header) Encode(dst []byte) error {
	if len(dst) < HeaderSize {
		return fmt.Errorf("%w: chunk header needs %d bytes, got %d", errs.ErrInvalidArgument, HeaderSize, len(dst))
	}

	le.PutUint32(dst[offNBytes:], h.NBytes)
	le.PutUint32(dst[offBlockSize:], h.BlockSize)
	le.PutUint32(dst[offCBytes:], h.CBytes)

	flags := byte(h.CodecID) & 0x0F
	if h.Checksum {
		flags |= flagChecksum
	}
	dst[offFlags] = flags
	dst[offVersion] = h.Version
	dst[offFlags2] = 0
	dst[offReserved] = 0
	le.PutUint32(dst[offTypesize:], h.Typesize)

	for i := 0; i < maxChainLen; i++ {
		dst[offFilters+i] = byte(h.Filters[i])
		dst[offMetas+i] = h.Metas[i]
	}

	return nil
}

// DecodeHeader reads a Header from src[:HeaderSize].
func DecodeHeader(src []byte) (Header, error) {
	if len(src) < HeaderSize {
		return Header{}, fmt.Errorf("%w: chunk header needs %d bytes, got %d", errs.ErrInvalidFormat, HeaderSize, len(src))
	}

	h := Header{
		NBytes:    le.Uint32(src[offNBytes:]),
		BlockSize: le.Uint32(src[offBlockSize:]),
		CBytes:    le.Uint32(src[offCBytes:]),
		CodecID:   format.CodecID(src[offFlags] & 0x0F),
		Checksum:  src[offFlags]&flagChecksum != 0,
		Version:   src[offVersion],
		Typesize:  le.Uint32(src[offTypesize:]),
	}
	for i := 0; i < maxChainLen; i++ {
		h.Filters[i] = format.FilterID(src[offFilters+i])
		h.Metas[i] = src[offMetas+i]
	}

	if h.Version > format.FormatVersionMinor {
		return Header{}, fmt.Errorf("%w: chunk minor version %d newer than supported %d",
			errs.ErrInvalidFormat, h.Version, format.FormatVersionMinor)
	}

	return h, nil
}

// offsetTableOffset is where the block-offset table begins: immediately
// after the fixed header and filter-chain table.
func offsetTableOffset() int { return HeaderSize }

// offsetTableSize returns the byte size of the block-offset table for
// nBlocks blocks (one u32 per block, offsets relative to the start of the
// block stream, i.e. right after the table itself).
func offsetTableSize(nBlocks int) int { return 4 * nBlocks }
