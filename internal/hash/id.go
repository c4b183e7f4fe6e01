// Package hash provides xxHash64 helpers: a metalayer-name hash and the
// chunk checksum.
package hash

import "github.com/cespare/xxhash/v2"

// Name computes the xxHash64 of a metalayer name. The frame package's
// metalayer tables key their entries by the name string and do not call it.
func Name(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Checksum computes the xxHash64 of a chunk's decompressed bytes; the
// chunk engine appends it after the block stream and sets the chunk
// header's checksum flag.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
