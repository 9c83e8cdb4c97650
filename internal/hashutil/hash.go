// Package hashutil computes the fixed-size content hash stored on every
// block record. The original tool uses a non-cryptographic hash purely for
// change detection, never for collision resistance against an adversary, so
// this module follows suit with murmur3/128 rather than reaching for
// crypto/sha256.
package hashutil

import "github.com/spaolacci/murmur3"

// Size is the fixed length, in bytes, of a content hash.
const Size = 16

// Sum hashes a block's content into a fixed-size array suitable for
// BlockRecord.ContentHash.
func Sum(data []byte) [Size]byte {
	var out [Size]byte
	h1, h2 := murmur3.Sum128(data)
	putUint64(out[0:8], h1)
	putUint64(out[8:16], h2)
	return out
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}
