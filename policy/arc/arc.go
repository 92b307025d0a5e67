// Package arc implements the Adaptive Replacement Cache.
//
// ARC maintains two partitions: a recency partition (LRU mechanics) and a
// frequency partition (LFU mechanics). Each partition couples its main
// cache with a bounded ghost list recording its recent evictions. A hit on
// a ghost list is evidence the partition was sized too small for the
// current workload, so the orchestrator transfers one slot of capacity from
// the other partition; the sum of the two capacities stays roughly
// constant while the split adapts.
//
// New or recency-pattern data enters through the recency partition; an
// entry read often enough there (the transform threshold) is additionally
// promoted into the frequency partition, after which the two copies live
// and die independently.
//
// Locking: each partition owns one mutex; the orchestrator holds none. A
// single Put or Get acquires the two partition locks separately and
// non-atomically, so a concurrent operation may interleave between them.
// That is a deliberate contention trade-off: a logical ARC operation is not
// linearizable across partitions.
package arc

import (
	"github.com/akozadaev/polycache/policy"
)

// DefaultTransformThreshold is the recency-partition access count that
// triggers promotion into the frequency partition.
const DefaultTransformThreshold = 3

// Option configures a Cache.
type Option func(*config)

type config struct {
	threshold int
	metrics   policy.Metrics
}

// WithTransformThreshold overrides the promotion threshold. Values ≤ 0 fall
// back to DefaultTransformThreshold.
func WithTransformThreshold(n int) Option {
	return func(c *config) { c.threshold = n }
}

// WithMetrics attaches an observability sink shared by both partitions.
// Default is NoopMetrics.
func WithMetrics(m policy.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// Cache is the ARC orchestrator over the two partitions.
type Cache[K comparable, V any] struct {
	lru *lruPart[K, V]
	lfu *lfuPart[K, V]
	met policy.Metrics
}

// New constructs an ARC cache. Each partition starts with the given
// capacity and with a ghost list fixed at that size; subsequent ghost hits
// shift capacity between the partitions one slot at a time.
func New[K comparable, V any](capacity int, opts ...Option) *Cache[K, V] {
	cfg := config{threshold: DefaultTransformThreshold, metrics: policy.NoopMetrics{}}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.threshold <= 0 {
		cfg.threshold = DefaultTransformThreshold
	}

	return &Cache[K, V]{
		lru: newLruPart[K, V](capacity, cfg.threshold, cfg.metrics),
		lfu: newLfuPart[K, V](capacity, cfg.metrics),
		met: cfg.metrics,
	}
}

// Put inserts or updates key→value.
//
// The ghost lists are consulted first; a ghost hit rebalances capacity and
// the key then re-enters through the recency partition as a fresh
// candidate. Otherwise the write goes to whichever partition already holds
// the key: the frequency partition if resident there (counting as an
// access), the recency partition in every other case.
func (c *Cache[K, V]) Put(key K, value V) {
	if c.checkGhostCaches(key) {
		c.lru.put(key, value)
	} else if c.lfu.contains(key) {
		c.lfu.put(key, value)
	} else {
		c.lru.put(key, value)
	}
	c.met.Size(c.Len())
}

// Get returns the stored value from whichever partition holds the key,
// preferring the recency partition. The ghost lists are always consulted
// first for their rebalancing side effect. A recency-partition hit that
// crosses the transform threshold additionally promotes the entry into the
// frequency partition; the recency copy stays where it is.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.checkGhostCaches(key)

	if v, ok, promote := c.lru.get(key); ok {
		if promote {
			c.lfu.put(key, v)
		}
		c.met.Hit()
		return v, true
	}
	if v, ok := c.lfu.get(key); ok {
		c.met.Hit()
		return v, true
	}
	c.met.Miss()
	var zero V
	return zero, false
}

// Len returns the combined resident entry count of both partitions. The two
// lengths are read under separate locks, so under concurrency the sum is a
// best-effort snapshot.
func (c *Cache[K, V]) Len() int {
	return c.lru.len() + c.lfu.len()
}

// checkGhostCaches looks the key up in both ghost lists and converts a hit
// into a one-slot capacity transfer toward the partition that evicted it.
// The transfer is skipped when the donating partition is already at 0; its
// refusal keeps the capacity sum intact.
func (c *Cache[K, V]) checkGhostCaches(key K) bool {
	if c.lru.checkGhost(key) {
		if c.lfu.decreaseCapacity() {
			c.lru.increaseCapacity()
		}
		return true
	}
	if c.lfu.checkGhost(key) {
		if c.lru.decreaseCapacity() {
			c.lfu.increaseCapacity()
		}
		return true
	}
	return false
}

var (
	_ policy.Strategy[string, int] = (*Cache[string, int])(nil)
	_ policy.Sizer                 = (*Cache[string, int])(nil)
)
