package codec

import "github.com/ncdata/ncdata/format"

// NoneCodec is a no-operation codec that bypasses data without compression.
//
// Useful for benchmarking baselines, CPU-constrained configurations, or
// blocks already known to be incompressible.
type NoneCodec struct{}

var _ Codec = NoneCodec{}

// NewNoneCodec creates a no-operation codec.
func NewNoneCodec() NoneCodec { return NoneCodec{} }

func (c NoneCodec) ID() format.CodecID { return format.CodecNone }

// Compress returns the input unchanged. Since len(out) always equals
// len(data), the block pipeline never prefers it over storing the block
// raw directly, but it is kept for explicit no-compression configurations.
func (c NoneCodec) Compress(data []byte, _ int) ([]byte, error) {
	return data, nil
}

func (c NoneCodec) Decompress(data []byte, _ int) ([]byte, error) {
	return data, nil
}
