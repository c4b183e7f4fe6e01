package ctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncdata/ncdata/errs"
	"github.com/ncdata/ncdata/filter"
	"github.com/ncdata/ncdata/format"
)

func TestNewCParams_Defaults(t *testing.T) {
	c, err := NewCParams(format.ItemFloat32, format.CodecZstd)
	require.NoError(t, err)
	assert.Equal(t, 4, c.ItemWidth)
	assert.Equal(t, 5, c.Level)
	assert.Equal(t, 1, c.Chain.Len())
}

func TestNewCParams_Overrides(t *testing.T) {
	c, err := NewCParams(format.ItemUint8, format.CodecLZ4,
		WithLevel(99),
		WithThreads(4),
		WithBlockSize(1<<16),
		WithMinStreamSize(128),
		WithFilterChain(filter.Chain{}),
	)
	require.NoError(t, err)
	assert.Equal(t, MaxCompressionLevel, c.Level) // clamped by NewCParams
	assert.Equal(t, 4, c.NThreads)
	assert.Equal(t, 1<<16, c.BlockSize)
	assert.Equal(t, 128, c.MinStreamSize)
	assert.Equal(t, 0, c.Chain.Len())
}

func TestNewCParams_InvalidItemWidth(t *testing.T) {
	_, err := NewCParams(format.ItemOpaque, format.CodecZstd)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}
