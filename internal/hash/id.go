// Package hash provides the xxHash64 primitives used for content-addressed
// diagnostics elsewhere in the module: Digest fingerprints block payloads
// for the collision tracker; ID hashes a string.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of a string, e.g. a table name.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Digest computes the xxHash64 of a byte payload, e.g. a block's content.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}
