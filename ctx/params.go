// Package ctx implements the context & config layer (§4.9): compression
// and decompression parameter bundles, the runtime catalog of built-in
// and user-registered codecs/filters, and the bounded worker pool a
// chunk engine dispatches blocks through.
package ctx

import (
	"fmt"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/filter"
	"github.com/ncdata/ncdata/format"
)

// MinCompressionLevel and MaxCompressionLevel bound CParams.Level.
const (
	MinCompressionLevel = 1
	MaxCompressionLevel = 9
)

// CParams bundles everything a compression operation needs (§4.9).
type CParams struct {
	CodecID    format.CodecID
	Level      int // 1..9, clamped
	ItemWidth  int
	ItemKind   format.ItemKind
	BlockSize  int // not read by the chunk engine, which takes block geometry from its ndim.Geometry
	NThreads   int // 0 = runtime.NumCPU()
	Chain      filter.Chain
	// MinStreamSize is a heuristic: streams shorter than this are stored
	// raw without attempting compression, since codec framing overhead
	// would dominate.
	MinStreamSize int
}

// Clamped returns a copy of c with Level clamped to
// [MinCompressionLevel, MaxCompressionLevel].
func (c CParams) Clamped() CParams {
	switch {
	case c.Level < MinCompressionLevel:
		c.Level = MinCompressionLevel
	case c.Level > MaxCompressionLevel:
		c.Level = MaxCompressionLevel
	}
	return c
}

// Validate reports whether c is usable: the item width must be positive
// and the thread count non-negative. An empty filter chain is accepted.
func (c CParams) Validate() error {
	if c.ItemWidth <= 0 {
		return fmt.Errorf("%w: CParams.ItemWidth must be > 0, got %d", errs.ErrInvalidArgument, c.ItemWidth)
	}
	if c.NThreads < 0 {
		return fmt.Errorf("%w: CParams.NThreads must be >= 0, got %d", errs.ErrInvalidArgument, c.NThreads)
	}
	return nil
}

// DParams bundles decompression parameters. It holds only a thread
// count and has no back-reference to the frame a chunk came from; every
// other parameter (codec, filter chain, item width) is recovered from the
// chunk/frame header on read.
type DParams struct {
	NThreads int // 0 = runtime.NumCPU()
}
