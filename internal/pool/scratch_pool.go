package pool

import "sync"

// ScratchPair holds the two block-sized buffers a worker needs per §5:
// a raw staging buffer (copy of the input block) and a filtered staging
// buffer (output of the forward filter chain, input to the codec).
type ScratchPair struct {
	Raw      []byte
	Filtered []byte
}

var scratchPool = sync.Pool{
	New: func() any { return &ScratchPair{} },
}

// GetScratch retrieves a ScratchPair sized to hold at least blockSize bytes
// in each buffer, growing the pooled buffers if necessary. The caller must
// call the returned cleanup function (typically via defer) to return the
// pair to the pool.
func GetScratch(blockSize int) (*ScratchPair, func()) {
	sp, _ := scratchPool.Get().(*ScratchPair)

	sp.Raw = growTo(sp.Raw, blockSize)
	sp.Filtered = growTo(sp.Filtered, blockSize)

	return sp, func() { scratchPool.Put(sp) }
}

func growTo(buf []byte, size int) []byte {
	if cap(buf) < size {
		return make([]byte, size)
	}

	return buf[:size]
}
