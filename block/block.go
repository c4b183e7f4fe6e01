// Package block implements the block pipeline (§4.3): the innermost unit
// of work in a chunk. A block is filtered forward, handed to a codec, and
// framed with a 4-byte header recording its stored length and whether it
// fell back to raw storage.
package block

import (
	"encoding/binary"
	"fmt"

	"github.com/ncdata/ncdata/codec"
	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/filter"
)

// HeaderSize is the fixed size of a block header: a 24-bit stored length
// packed with an 8-bit flag byte into one little-endian uint32.
const HeaderSize = 4

// Flag bits stored in a block header's high byte (bits 24-31 of the
// packed uint32).
const (
	// FlagRaw means the block body is stored verbatim — the filter chain
	// was never applied and the codec was never called (or it was called
	// and failed to beat the raw size).
	FlagRaw byte = 1 << 0
)

// Pipeline bundles a filter chain and a codec: the unit that knows how to
// turn one raw block into its on-wire form and back.
type Pipeline struct {
	Chain filter.Chain
	Codec codec.Codec
	Level int
}

// EncodeHeader packs a stored length and flag byte into HeaderSize bytes.
func EncodeHeader(dst []byte, length int, flags byte) error {
	if len(dst) < HeaderSize {
		return fmt.Errorf("%w: block header needs %d bytes, got %d", errs.ErrInvalidArgument, HeaderSize, len(dst))
	}
	if length < 0 || length > 0xFFFFFF {
		return fmt.Errorf("%w: block length %d does not fit in 24 bits", errs.ErrInvalidArgument, length)
	}

	packed := uint32(length) | uint32(flags)<<24
	binary.LittleEndian.PutUint32(dst[:HeaderSize], packed)
	return nil
}

// DecodeHeader reports the stored length and flag byte from a block header.
func DecodeHeader(src []byte) (length int, flags byte, err error) {
	if len(src) < HeaderSize {
		return 0, 0, fmt.Errorf("%w: block header needs %d bytes, got %d", errs.ErrInvalidArgument, HeaderSize, len(src))
	}

	packed := binary.LittleEndian.Uint32(src[:HeaderSize])
	return int(packed & 0xFFFFFF), byte(packed >> 24), nil
}

// CompressBlock implements §4.3's compression half. raw is the block's
// plain bytes; ctx carries the item geometry the filter chain needs;
// scratchA/scratchB are per-worker, thread-local buffers at least
// len(raw) long, reused across calls to avoid per-block allocation.
//
// dst receives the header followed by the stored body (filtered+coded, or
// raw verbatim on fallback) and must have capacity for at least
// HeaderSize+len(raw) bytes; it is returned resliced to the actual
// written length.
func (p Pipeline) CompressBlock(ctx filter.Context, raw []byte, scratchA, scratchB, dst []byte) ([]byte, error) {
	filtered, err := p.Chain.Forward(ctx, raw, scratchA, scratchB)
	if err != nil {
		return nil, err
	}

	compressed, err := p.Codec.Compress(filtered, p.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCompressionFailure, err)
	}

	useRaw := len(compressed) == 0 || len(compressed) >= len(raw)
	if useRaw {
		if cap(dst) < HeaderSize+len(raw) {
			dst = make([]byte, HeaderSize+len(raw))
		}
		dst = dst[:HeaderSize+len(raw)]
		if err := EncodeHeader(dst, len(raw), FlagRaw); err != nil {
			return nil, err
		}
		copy(dst[HeaderSize:], raw)
		return dst, nil
	}

	if cap(dst) < HeaderSize+len(compressed) {
		dst = make([]byte, HeaderSize+len(compressed))
	}
	dst = dst[:HeaderSize+len(compressed)]
	if err := EncodeHeader(dst, len(compressed), 0); err != nil {
		return nil, err
	}
	copy(dst[HeaderSize:], compressed)
	return dst, nil
}

// DecompressBlock implements §4.3's decompression half. stored is a
// single block's on-wire bytes (header + body). rawSize is the expected
// decompressed block size (the chunk's nominal block size, or less for a
// trailing edge block). scratchA/scratchB back the reverse filter chain.
func (p Pipeline) DecompressBlock(ctx filter.Context, stored []byte, rawSize int, scratchA, scratchB []byte) ([]byte, error) {
	length, flags, err := DecodeHeader(stored)
	if err != nil {
		return nil, err
	}
	if HeaderSize+length > len(stored) {
		return nil, fmt.Errorf("%w: block header claims %d bytes, only %d available", errs.ErrInvalidFormat, length, len(stored)-HeaderSize)
	}
	body := stored[HeaderSize : HeaderSize+length]

	if flags&FlagRaw != 0 {
		out := make([]byte, len(body))
		copy(out, body)
		return out, nil
	}

	decoded, err := p.Codec.Decompress(body, rawSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrDecompressionFailure, err)
	}

	out, err := p.Chain.Backward(ctx, decoded, scratchA, scratchB)
	if err != nil {
		return nil, err
	}

	// Backward may return one of the caller's scratch buffers; hand the
	// caller an owned copy so it survives scratch reuse.
	final := make([]byte, len(out))
	copy(final, out)
	return final, nil
}
