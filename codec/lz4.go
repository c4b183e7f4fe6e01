package codec

import (
	"errors"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/ncdata/ncdata/format"
)

// lz4CompressorPool pools lz4.Compressor instances for reuse.
// The lz4.Compressor maintains internal state that benefits from reuse.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Codec provides LZ4 block compression, favoring fast decompression over
// compression ratio. It is the recommended codec for read-heavy workloads
// where decode latency dominates.
type LZ4Codec struct{}

var _ Codec = LZ4Codec{}

// NewLZ4Codec creates a new LZ4 codec.
func NewLZ4Codec() LZ4Codec { return LZ4Codec{} }

func (c LZ4Codec) ID() format.CodecID { return format.CodecLZ4 }

// Compress compresses data using LZ4 block compression.
//
// Uses a pooled lz4.Compressor for better performance. level is currently
// ignored: LZ4's block compressor does not expose speed/ratio tiers.
func (c LZ4Codec) Compress(data []byte, _ int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// CompressBlock returns n == 0 when the input is incompressible.
		return nil, nil
	}

	return dst[:n], nil
}

// Decompress decompresses LZ4 block data. When dstSize is known (the
// common case: the block header records the logical size) it is used
// directly; otherwise an adaptive buffer sizing strategy is used:
//  1. Start with a buffer 4x the compressed size (common expansion ratio).
//  2. On ErrInvalidSourceShortBuffer, double the buffer size (up to maxSize).
//  3. Return an error if the buffer exceeds a reasonable limit.
func (c LZ4Codec) Decompress(data []byte, dstSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	if dstSize > 0 {
		buf := make([]byte, dstSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			return nil, err
		}

		return buf[:n], nil
	}

	bufSize := len(data) * 4
	const maxSize = 128 * 1024 * 1024 // 128MB safety limit

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err != nil {
			if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) && bufSize < maxSize {
				bufSize *= 2
				continue
			}

			return nil, err
		}

		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}
