package ctx

import (
	"github.com/ncdata/ncdata/filter"
	"github.com/ncdata/ncdata/format"
	"github.com/ncdata/ncdata/internal/options"
)

// CParamOption configures a CParams built by NewCParams.
type CParamOption = options.Option[*CParams]

// WithLevel sets the compression level (clamped to [MinCompressionLevel,
// MaxCompressionLevel] by NewCParams).
func WithLevel(level int) CParamOption {
	return options.NoError(func(c *CParams) { c.Level = level })
}

// WithThreads sets the worker thread count (0 = runtime.NumCPU()).
func WithThreads(n int) CParamOption {
	return options.NoError(func(c *CParams) { c.NThreads = n })
}

// WithBlockSize sets CParams.BlockSize. The chunk engine does not read
// it; block geometry comes from the engine's ndim.Geometry.
func WithBlockSize(n int) CParamOption {
	return options.NoError(func(c *CParams) { c.BlockSize = n })
}

// WithMinStreamSize sets the below-which-store-raw threshold.
func WithMinStreamSize(n int) CParamOption {
	return options.NoError(func(c *CParams) { c.MinStreamSize = n })
}

// WithFilterChain overrides the default typesize-derived filter chain.
func WithFilterChain(chain filter.Chain) CParamOption {
	return options.NoError(func(c *CParams) { c.Chain = chain })
}

// NewCParams builds a CParams for itemKind/codecID at the package's
// default level, applying opts in order, then clamping and validating
// the result. The default filter chain is typesize-derived (shuffle for
// multi-byte items) unless overridden by WithFilterChain.
func NewCParams(itemKind format.ItemKind, codecID format.CodecID, opts ...CParamOption) (CParams, error) {
	itemWidth := itemKind.Width()
	c := &CParams{
		CodecID:   codecID,
		Level:     5,
		ItemWidth: itemWidth,
		ItemKind:  itemKind,
		Chain:     filter.DefaultChain(itemWidth),
	}

	if err := options.Apply(c, opts...); err != nil {
		return CParams{}, err
	}

	out := c.Clamped()
	if err := out.Validate(); err != nil {
		return CParams{}, err
	}
	return out, nil
}
