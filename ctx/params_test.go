package ctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncdata/ncdata/errs"
)

func TestCParams_Clamped(t *testing.T) {
	assert.Equal(t, MinCompressionLevel, CParams{Level: -5}.Clamped().Level)
	assert.Equal(t, MaxCompressionLevel, CParams{Level: 99}.Clamped().Level)
	assert.Equal(t, 5, CParams{Level: 5}.Clamped().Level)
}

func TestCParams_Validate(t *testing.T) {
	require.Error(t, CParams{ItemWidth: 0}.Validate())

	err := CParams{ItemWidth: 4, NThreads: -1}.Validate()
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	require.NoError(t, CParams{ItemWidth: 4, NThreads: 2}.Validate())
}
