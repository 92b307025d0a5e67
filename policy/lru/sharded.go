package lru

import (
	"github.com/akozadaev/polycache/cache"
	"github.com/akozadaev/polycache/policy"
)

// NewSharded builds a sharded LRU cache: slices independent Cache instances
// behind hash routing, each holding ceil(capacity/slices) entries. A slice
// count ≤ 0 defaults to the hardware concurrency.
func NewSharded[K comparable, V any](capacity, slices int, opts ...Option) *cache.Sharded[K, V] {
	return cache.NewSharded(capacity, slices, func(shardCapacity int) policy.Strategy[K, V] {
		return New[K, V](shardCapacity, opts...)
	})
}
