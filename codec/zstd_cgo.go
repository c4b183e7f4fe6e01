//go:build nobuild

package codec

import "github.com/valyala/gozstd"

// Compress compresses data using cgo-backed Zstandard. Disabled by default
// (see the nobuild tag above); enable by building with -tags nobuild only
// after confirming a cgo toolchain and libzstd are available.
func (c ZstdCodec) Compress(data []byte, level int) ([]byte, error) {
	if level <= 0 {
		level = 3
	}

	return gozstd.CompressLevel(nil, data, level), nil
}

func (c ZstdCodec) Decompress(data []byte, _ int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
