package codec

import (
	"fmt"
	"sync"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/format"
)

// Codec combines compression and decompression for one general-purpose
// algorithm. Implementations must be deterministic for any format whose
// on-disk frames ncdata may re-read across versions (§4.2).
type Codec interface {
	// ID returns the CodecID this implementation answers to.
	ID() format.CodecID

	// Compress compresses data at the given level (1..9; implementations
	// that don't support levels may ignore it). A nil or empty result
	// (with a nil error) means "could not compress usefully" — the block
	// pipeline falls back to storing the block raw.
	Compress(data []byte, level int) ([]byte, error)

	// Decompress decompresses data. dstSize is the expected decompressed
	// length (the block's logical size from its header); implementations
	// that don't need it as a hint may ignore it.
	Decompress(data []byte, dstSize int) ([]byte, error)
}

// CreateCodec constructs a Codec for the given id. target names the caller
// for error messages (e.g. "timestamp payload", "value block").
func CreateCodec(id format.CodecID, target string) (Codec, error) {
	switch id {
	case format.CodecNone:
		return NewNoneCodec(), nil
	case format.CodecBloscLZ:
		return NewBloscLZCodec(), nil
	case format.CodecLZ4:
		return NewLZ4Codec(), nil
	case format.CodecZstd:
		return NewZstdCodec(), nil
	case format.CodecZlib:
		return NewZlibCodec(), nil
	case format.CodecGraph:
		return nil, fmt.Errorf("%w: graph codec for %s has no built-in implementation", errs.ErrUnsupported, target)
	default:
		if c, ok := lookupCustom(id); ok {
			return c, nil
		}

		return nil, fmt.Errorf("%w: unknown codec id %d for %s", errs.ErrUnsupported, id, target)
	}
}

var builtinCodecs = map[format.CodecID]Codec{
	format.CodecNone:    NewNoneCodec(),
	format.CodecBloscLZ: NewBloscLZCodec(),
	format.CodecLZ4:     NewLZ4Codec(),
	format.CodecZstd:    NewZstdCodec(),
	format.CodecZlib:    NewZlibCodec(),
}

// GetCodec retrieves a built-in or previously registered Codec by id.
func GetCodec(id format.CodecID) (Codec, error) {
	if c, ok := builtinCodecs[id]; ok {
		return c, nil
	}

	if c, ok := lookupCustom(id); ok {
		return c, nil
	}

	return nil, fmt.Errorf("%w: codec id %d", errs.ErrUnsupported, id)
}

var (
	customMu     sync.Mutex
	customCodecs = map[format.CodecID]Codec{}
)

// RegisterCodec adds a user-supplied codec under the given id. The table is
// append-only and guarded by a single mutex (§9 design notes); registering
// an id that already exists (built-in or custom) is an error.
func RegisterCodec(id format.CodecID, c Codec) error {
	customMu.Lock()
	defer customMu.Unlock()

	if _, ok := builtinCodecs[id]; ok {
		return fmt.Errorf("%w: codec id %d is built-in", errs.ErrAlreadyExists, id)
	}
	if _, ok := customCodecs[id]; ok {
		return fmt.Errorf("%w: codec id %d already registered", errs.ErrAlreadyExists, id)
	}

	customCodecs[id] = c

	return nil
}

func lookupCustom(id format.CodecID) (Codec, bool) {
	customMu.Lock()
	defer customMu.Unlock()

	c, ok := customCodecs[id]

	return c, ok
}
