package codec

import (
	"github.com/klauspost/compress/s2"

	"github.com/ncdata/ncdata/format"
)

// BloscLZCodec plays the fast, moderate-ratio role BloscLZ plays in the
// original C library: favor throughput, accept a smaller ratio than Zstd.
// Backed by klauspost/compress/s2, whose speed/ratio tradeoff matches that
// role closely enough to stand in for it.
type BloscLZCodec struct{}

var _ Codec = BloscLZCodec{}

// NewBloscLZCodec creates a new BloscLZ-analog codec.
func NewBloscLZCodec() BloscLZCodec { return BloscLZCodec{} }

func (c BloscLZCodec) ID() format.CodecID { return format.CodecBloscLZ }

// Compress compresses data using S2. level is ignored: S2's format does not
// expose a level knob comparable to BloscLZ's.
func (c BloscLZCodec) Compress(data []byte, _ int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

func (c BloscLZCodec) Decompress(data []byte, _ int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
