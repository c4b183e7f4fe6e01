package codec

import "github.com/ncdata/ncdata/format"

// ZstdCodec provides Zstandard compression, the best-ratio choice among the
// built-in codecs. Suitable for cold storage and bandwidth-constrained
// transmission where decode frequency is low relative to encode.
//
// The actual Compress/Decompress methods live in zstd_pure.go (the default,
// cgo-free build) and zstd_cgo.go (an inert alternate path behind a build
// tag that is never enabled by default — see codec/doc.go).
type ZstdCodec struct{}

var _ Codec = ZstdCodec{}

// NewZstdCodec creates a new Zstd codec with default settings.
func NewZstdCodec() ZstdCodec { return ZstdCodec{} }

func (c ZstdCodec) ID() format.CodecID { return format.CodecZstd }
