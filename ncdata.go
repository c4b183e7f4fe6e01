// Package ncdata provides a high-throughput, block-oriented binary
// compression format for homogeneous typed numerical data.
//
// Data is split into chunks, chunks into blocks, and each block runs
// through a configurable filter chain (shuffle, bitshuffle, delta, ...)
// before a general-purpose codec (Zstd, LZ4, BloscLZ, Zlib) compresses
// it. Blocks of one chunk compress in parallel on a bounded worker pool;
// chunks of one super-chunk are written serially by a single writer.
//
// # Basic usage
//
// Creating an n-dimensional array backed by a contiguous frame:
//
//	cparams := ncdata.DefaultCParams(format.ItemFloat64, format.CodecZstd)
//	arr, err := array.FromBuffer(buf, shape, chunkShape, blockShape, format.ItemFloat64, cparams, ncdata.DefaultDParams())
//
// For lower-level access — a flat sequence of chunks with no n-d view —
// use the schunk package directly against a frame.ContiguousFrame or
// frame.SparseFrame.
//
// # Package structure
//
// This file provides convenience defaults around the lower-level
// packages (filter, codec, block, chunk, frame, schunk, array, ctx). For
// fine-grained control, use those packages directly.
package ncdata

import (
	"github.com/ncdata/ncdata/ctx"
	"github.com/ncdata/ncdata/filter"
	"github.com/ncdata/ncdata/format"
)

// DefaultCParams returns a CompressionParams bundle using the given item
// kind and codec at a moderate compression level, with the typesize-aware
// default filter chain (shuffle for multi-byte items, none for single-byte
// items) and auto-detected thread count.
func DefaultCParams(itemKind format.ItemKind, codecID format.CodecID) ctx.CParams {
	itemWidth := itemKind.Width()
	return ctx.CParams{
		CodecID:   codecID,
		Level:     5,
		ItemWidth: itemWidth,
		ItemKind:  itemKind,
		NThreads:  0,
		Chain:     filter.DefaultChain(itemWidth),
	}
}

// DefaultDParams returns a DecompressionParams bundle with auto-detected
// thread count.
func DefaultDParams() ctx.DParams {
	return ctx.DParams{NThreads: 0}
}

// Version reports the on-wire frame format version this build writes.
func Version() (major, minor uint8) {
	return format.FormatVersionMajor, format.FormatVersionMinor
}

// NewCParams builds a CompressionParams bundle with explicit overrides
// (compression level, thread count, block size, filter chain, ...) on
// top of the same defaults as DefaultCParams. See ctx.CParamOption for
// the available With* options.
func NewCParams(itemKind format.ItemKind, codecID format.CodecID, opts ...ctx.CParamOption) (ctx.CParams, error) {
	return ctx.NewCParams(itemKind, codecID, opts...)
}
