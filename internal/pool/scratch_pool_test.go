package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetScratch_Sizing(t *testing.T) {
	sp, done := GetScratch(1024)
	require.Len(t, sp.Raw, 1024)
	require.Len(t, sp.Filtered, 1024)
	done()

	sp2, done2 := GetScratch(256)
	assert.Len(t, sp2.Raw, 256)
	done2()
}

func TestGetScratch_ReusedAcrossCalls(t *testing.T) {
	sp, done := GetScratch(4096)
	sp.Raw[0] = 0xAB
	done()

	sp2, done2 := GetScratch(4096)
	defer done2()
	// Pooled buffer may be reused; content isn't guaranteed but size must match.
	assert.Len(t, sp2.Raw, 4096)
}
