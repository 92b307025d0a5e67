package lfu

import (
	"github.com/akozadaev/polycache/cache"
	"github.com/akozadaev/polycache/policy"
)

// NewSharded builds a sharded LFU cache: slices independent Cache instances
// behind hash routing, each holding ceil(capacity/slices) entries and aging
// on its own. A slice count ≤ 0 defaults to the hardware concurrency;
// Purge on the result clears every slice.
func NewSharded[K comparable, V any](capacity, slices int, opts ...Option) *cache.Sharded[K, V] {
	return cache.NewSharded(capacity, slices, func(shardCapacity int) policy.Strategy[K, V] {
		return New[K, V](shardCapacity, opts...)
	})
}
