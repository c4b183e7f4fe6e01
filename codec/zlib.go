package codec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/ncdata/ncdata/format"
)

// ZlibCodec provides zlib-compatible compression, used for interop with
// frames or tooling that only understands the zlib container format.
// Backed by klauspost/compress/zlib rather than the stdlib implementation
// to keep the whole codec stack on the same, faster compress fork.
type ZlibCodec struct{}

var _ Codec = ZlibCodec{}

// NewZlibCodec creates a new Zlib codec.
func NewZlibCodec() ZlibCodec { return ZlibCodec{} }

func (c ZlibCodec) ID() format.CodecID { return format.CodecZlib }

// Compress compresses data as a zlib stream at the given level (clamped to
// zlib's -1..9 range; 0 maps to the library default).
func (c ZlibCodec) Compress(data []byte, level int) ([]byte, error) {
	switch {
	case level <= 0:
		level = zlib.DefaultCompression
	case level > 9:
		level = 9
	}

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress decompresses a zlib stream. dstSize, if known, pre-sizes the
// output buffer to avoid reallocation.
func (c ZlibCodec) Decompress(data []byte, dstSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out := bytes.NewBuffer(make([]byte, 0, dstSize))
	if _, err := io.Copy(out, r); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
