// Package util contains internal helpers (hashing, sharding, padding).
package util

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Hash64 hashes common key types for shard routing. Strings go through
// xxh3; integer-like keys go through a 64-bit avalanche mix, which is both
// faster than hashing their bytes and good enough for modulo distribution.
// For other key types, convert the key to string or implement fmt.Stringer.
// Panicking on unsupported types is deliberate to avoid silently poor
// routing.
func Hash64[K comparable](k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return xxh3.HashString(v)

	case uint8:
		return mix64(uint64(v))
	case uint16:
		return mix64(uint64(v))
	case uint32:
		return mix64(uint64(v))
	case uint64:
		return mix64(v)
	case uint:
		return mix64(uint64(v))
	case uintptr:
		return mix64(uint64(v))
	case int8:
		return mix64(uint64(uint8(v)))
	case int16:
		return mix64(uint64(uint16(v)))
	case int32:
		return mix64(uint64(uint32(v)))
	case int64:
		return mix64(uint64(v))
	case int:
		return mix64(uint64(v))

	// Fallback for pseudo-keys via String() (avoid if you can).
	case fmt.Stringer:
		return xxh3.HashString(v.String())
	default:
		panic(fmt.Sprintf("util.Hash64: unsupported key type %T; convert key to string or implement fmt.Stringer", k))
	}
}

// mix64 is the splitmix64 finalizer: a cheap full-avalanche permutation of
// the input bits.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
