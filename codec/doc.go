// Package codec provides the general-purpose compression adapters treated as
// black boxes by the block pipeline (§4.2 of the format specification).
//
// Every codec is wrapped behind the uniform Codec interface:
//
//	type Codec interface {
//	    ID() format.CodecID
//	    Compress(data []byte, level int) ([]byte, error)
//	    Decompress(data []byte, dstSize int) ([]byte, error)
//	}
//
// Compress returning a nil or empty slice signals "could not usefully
// compress this block"; the block pipeline then stores the block raw and
// sets the block's raw flag, exactly as §4.3 specifies. Adapters never
// decide the raw-vs-compressed tradeoff themselves — the pipeline compares
// the compressed length against the original block length.
//
// # Built-in codecs
//
//   - None: passthrough, zero overhead.
//   - BloscLZ: fast, moderate ratio. Backed by klauspost/compress/s2, which
//     plays the same "speed over ratio" role S2 plays in the teacher corpus.
//   - LZ4: very fast decompression, backed by pierrec/lz4/v4.
//   - Zstd: best ratio, backed by klauspost/compress/zstd (pure Go path).
//     A cgo path via valyala/gozstd exists but is disabled by a build tag,
//     matching the upstream project's own stance on optional cgo backends.
//   - Zlib: backed by klauspost/compress/zlib, for interop with frames
//     written by implementations that only support the zlib format.
//   - Graph: the experimental graph-based codec named in the specification
//     is a recognized CodecID (frames naming it still parse) but has no
//     built-in implementation; CreateCodec returns errs.ErrUnsupported.
//
// # Custom codecs
//
// RegisterCodec adds a user-supplied Codec to an append-only, mutex-guarded
// table, mirroring the "built-in tables are immutable, user registrations
// are append-only" guidance for global state in the design notes.
package codec
