// Package format defines the wire-level enums shared by every ncdata layer:
// filter ids, codec ids, and the magic/version constants that identify a
// serialized frame.
package format

type (
	// FilterID identifies a filter kernel within a filter chain.
	FilterID uint8
	// CodecID identifies a general-purpose compression codec.
	CodecID uint8
	// ItemKind identifies the scalar interpretation of a block's items,
	// used by filters that need to know whether items are floats (ndmean).
	ItemKind uint8
)

const (
	// FilterIdentity means "no-op", skipped during chain evaluation.
	FilterIdentity FilterID = 0x0
	FilterShuffle  FilterID = 0x1
	FilterBitshuffle FilterID = 0x2
	// FilterByteDeltaLegacy is the historical, known-buggy variant retained
	// for byte-for-byte compatibility with frames written by older versions.
	FilterByteDeltaLegacy FilterID = 0x3
	FilterByteDelta       FilterID = 0x4
	FilterDelta           FilterID = 0x5
	FilterTruncatePrec    FilterID = 0x6
	FilterNdCell          FilterID = 0x7
	FilterNdMean          FilterID = 0x8

	// MaxFilters is the maximum number of (id, meta) pairs in a chain.
	MaxFilters = 6
)

func (f FilterID) String() string {
	switch f {
	case FilterIdentity:
		return "Identity"
	case FilterShuffle:
		return "Shuffle"
	case FilterBitshuffle:
		return "Bitshuffle"
	case FilterByteDeltaLegacy:
		return "ByteDeltaLegacy"
	case FilterByteDelta:
		return "ByteDelta"
	case FilterDelta:
		return "Delta"
	case FilterTruncatePrec:
		return "TruncatePrecision"
	case FilterNdCell:
		return "NdCell"
	case FilterNdMean:
		return "NdMean"
	default:
		return "Unknown"
	}
}

// Reversible reports whether the filter has a well-defined inverse. Lossy
// filters (TruncatePrecision, NdMean) are not reversible.
func (f FilterID) Reversible() bool {
	switch f {
	case FilterTruncatePrec, FilterNdMean:
		return false
	default:
		return true
	}
}

const (
	CodecNone    CodecID = 0x0
	CodecBloscLZ CodecID = 0x1 // BloscLZ-analog, backed by S2.
	CodecLZ4     CodecID = 0x2
	CodecZstd    CodecID = 0x3
	CodecZlib    CodecID = 0x4
	// CodecGraph identifies the experimental graph-based codec. It is a
	// recognized id (so frames naming it round-trip their header) but has
	// no built-in implementation; see codec.CreateCodec.
	CodecGraph CodecID = 0x5
)

func (c CodecID) String() string {
	switch c {
	case CodecNone:
		return "None"
	case CodecBloscLZ:
		return "BloscLZ"
	case CodecLZ4:
		return "LZ4"
	case CodecZstd:
		return "Zstd"
	case CodecZlib:
		return "Zlib"
	case CodecGraph:
		return "Graph"
	default:
		return "Unknown"
	}
}

const (
	ItemInt8 ItemKind = iota
	ItemUint8
	ItemInt16
	ItemUint16
	ItemInt32
	ItemUint32
	ItemInt64
	ItemUint64
	ItemFloat32
	ItemFloat64
	ItemOpaque
)

// Width returns the byte width of the item kind, or 0 for ItemOpaque (whose
// width is carried separately as the super-chunk's typesize).
func (k ItemKind) Width() int {
	switch k {
	case ItemInt8, ItemUint8:
		return 1
	case ItemInt16, ItemUint16:
		return 2
	case ItemInt32, ItemUint32, ItemFloat32:
		return 4
	case ItemInt64, ItemUint64, ItemFloat64:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether the item kind is a floating point type. Only
// float kinds are accepted by the ndmean filter.
func (k ItemKind) IsFloat() bool {
	return k == ItemFloat32 || k == ItemFloat64
}

// Frame magic and version constants (§6 of the specification).
const (
	// FrameMagic is the fixed 4-byte sequence identifying a contiguous frame.
	FrameMagic0 = 'N'
	FrameMagic1 = 'C'
	FrameMagic2 = 'D'
	FrameMagic3 = '1'

	// FooterMagic closes the trailer.
	FooterMagic0 = '1'
	FooterMagic1 = 'D'
	FooterMagic2 = 'C'
	FooterMagic3 = 'N'

	FormatVersionMajor uint8 = 1
	FormatVersionMinor uint8 = 0

	// ShapeMetaName is the reserved fixed-metalayer name carrying the
	// array's shape/chunkshape/blockshape record (the b2nd-analog).
	ShapeMetaName = "ncd1"
)
