// Package lfu implements the Least-Frequently-Used strategy with
// frequency-bucketed eviction and counter aging.
//
// Every resident entry lives in the bucket matching its current access
// count; within a bucket, entries are ordered by insertion so the head is
// the least recently promoted into that frequency class. Eviction takes the
// head of the lowest non-empty bucket, which a cached minFreq makes O(1).
//
// Long-lived hot keys would otherwise grow their counters without bound, so
// the cache tracks the running average access count over resident entries;
// once it exceeds a configured ceiling, every counter is reduced by half the
// ceiling (floored at 1) and entries are re-bucketed. Stale hot data decays
// toward eviction while fresh entries at frequency 1 are not leapfrogged.
package lfu

import (
	"container/list"
	"sync"

	"github.com/akozadaev/polycache/policy"
)

// DefaultMaxAverage is the running-average-frequency ceiling that triggers
// an aging pass when no explicit ceiling is configured.
const DefaultMaxAverage = 10

type entry[K comparable, V any] struct {
	key  K
	val  V
	freq int
	pos  *list.Element // position inside buckets[freq]
}

// Option configures a Cache.
type Option func(*config)

type config struct {
	maxAvg  int
	metrics policy.Metrics
}

// WithMaxAverage overrides the aging ceiling. Values ≤ 0 fall back to
// DefaultMaxAverage.
func WithMaxAverage(n int) Option {
	return func(c *config) { c.maxAvg = n }
}

// WithMetrics attaches an observability sink. Default is NoopMetrics.
func WithMetrics(m policy.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// Cache is an LFU cache with aging. A single mutex guards all internal
// state; each call runs to completion under it.
//
// A capacity ≤ 0 yields a permanently empty cache.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	cap     int
	maxAvg  int
	total   int // cumulative access count across resident entries
	minFreq int // lowest frequency with a non-empty bucket; 0 when empty
	m       map[K]*entry[K, V]
	buckets map[int]*list.List // frequency -> entries, oldest at Front
	met     policy.Metrics
}

// New constructs an LFU cache holding at most capacity entries.
func New[K comparable, V any](capacity int, opts ...Option) *Cache[K, V] {
	cfg := config{maxAvg: DefaultMaxAverage, metrics: policy.NoopMetrics{}}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.maxAvg <= 0 {
		cfg.maxAvg = DefaultMaxAverage
	}

	return &Cache[K, V]{
		cap:     capacity,
		maxAvg:  cfg.maxAvg,
		m:       make(map[K]*entry[K, V]),
		buckets: make(map[int]*list.List),
		met:     cfg.metrics,
	}
}

// Put inserts or updates key→value. An update counts as an access and moves
// the entry up one frequency class; an insert evicts first when the cache is
// full, then lands the fresh entry in the frequency-1 bucket.
func (c *Cache[K, V]) Put(key K, value V) {
	if c.cap <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.m[key]; ok {
		e.val = value
		c.promote(e)
		return
	}

	if len(c.m) >= c.cap {
		c.evictLeastFrequent()
	}
	e := &entry[K, V]{key: key, val: value, freq: 1}
	c.m[key] = e
	c.link(e)
	c.minFreq = 1
	c.met.Size(len(c.m))
	c.recordAccess()
}

// Get returns the stored value and moves the entry up one frequency class
// on hit.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if !ok {
		c.met.Miss()
		var zero V
		return zero, false
	}
	c.promote(e)
	c.met.Hit()
	return e.val, true
}

// Purge drops all resident entries and resets frequency bookkeeping.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.m = make(map[K]*entry[K, V])
	c.buckets = make(map[int]*list.List)
	c.total = 0
	c.minFreq = 0
	c.met.Size(0)
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// -------------------- internals (mu held) --------------------

// link appends the entry to the bucket for its current frequency, creating
// the bucket on first use.
func (c *Cache[K, V]) link(e *entry[K, V]) {
	b, ok := c.buckets[e.freq]
	if !ok {
		b = list.New()
		c.buckets[e.freq] = b
	}
	e.pos = b.PushBack(e)
}

// unlink removes the entry from its bucket, deleting the bucket once empty.
func (c *Cache[K, V]) unlink(e *entry[K, V]) {
	b := c.buckets[e.freq]
	if b == nil {
		return
	}
	b.Remove(e.pos)
	e.pos = nil
	if b.Len() == 0 {
		delete(c.buckets, e.freq)
	}
}

// promote moves the entry from bucket f to f+1 and advances minFreq when the
// entry drained the lowest bucket behind it.
func (c *Cache[K, V]) promote(e *entry[K, V]) {
	old := e.freq
	c.unlink(e)
	e.freq++
	c.link(e)
	if old == c.minFreq {
		if _, ok := c.buckets[old]; !ok {
			c.minFreq = e.freq
		}
	}
	c.recordAccess()
}

// evictLeastFrequent removes the oldest entry of the minFreq bucket.
func (c *Cache[K, V]) evictLeastFrequent() {
	b := c.buckets[c.minFreq]
	if b == nil || b.Len() == 0 {
		return
	}
	e := b.Front().Value.(*entry[K, V])
	c.unlink(e)
	delete(c.m, e.key)
	c.total -= e.freq
	c.met.Evict(policy.EvictCapacity)

	if _, ok := c.buckets[c.minFreq]; !ok {
		c.refreshMinFreq()
	}
}

// recordAccess bumps the cumulative access counter and runs an aging pass
// once the running average exceeds the ceiling.
func (c *Cache[K, V]) recordAccess() {
	c.total++
	if len(c.m) == 0 {
		return
	}
	if c.total/len(c.m) > c.maxAvg {
		c.age()
	}
}

// age reduces every resident entry's frequency by maxAvg/2 (floored at 1),
// re-buckets all entries, and recomputes minFreq and the cumulative counter
// from the decayed state.
func (c *Cache[K, V]) age() {
	dec := c.maxAvg / 2
	c.buckets = make(map[int]*list.List, len(c.buckets))
	c.total = 0
	for _, e := range c.m {
		e.freq -= dec
		if e.freq < 1 {
			e.freq = 1
		}
		c.link(e)
		c.total += e.freq
	}
	c.refreshMinFreq()
}

// refreshMinFreq rescans the bucket map for the lowest non-empty frequency.
// 0 is the sentinel for an empty cache.
func (c *Cache[K, V]) refreshMinFreq() {
	c.minFreq = 0
	for f := range c.buckets {
		if c.minFreq == 0 || f < c.minFreq {
			c.minFreq = f
		}
	}
}

var (
	_ policy.Strategy[string, int] = (*Cache[string, int])(nil)
	_ policy.Purger                = (*Cache[string, int])(nil)
	_ policy.Sizer                 = (*Cache[string, int])(nil)
)
