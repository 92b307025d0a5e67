// Package lru implements the Least-Recently-Used strategy family: the plain
// LRU cache and the LRU-K admission-gated variant built on top of it.
package lru

import (
	"sync"

	"github.com/akozadaev/polycache/policy"
)

// node is an intrusive doubly linked list element. The list runs between two
// sentinel nodes: head.next is the most recently used entry, tail.prev the
// eviction candidate.
type node[K comparable, V any] struct {
	key  K
	val  V
	prev *node[K, V]
	next *node[K, V]
}

// Option configures a Cache.
type Option func(*config)

type config struct {
	metrics policy.Metrics
}

// WithMetrics attaches an observability sink. Default is NoopMetrics.
func WithMetrics(m policy.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// Cache is a classic LRU cache: a hash index over an intrusive recency list.
// Put, Get, and Remove are O(1). A single mutex guards all internal state;
// each call runs to completion under it.
//
// A capacity ≤ 0 yields a permanently empty cache: Put is a no-op and Get
// always misses. That is defined behavior, not an error.
type Cache[K comparable, V any] struct {
	mu   sync.Mutex
	cap  int
	m    map[K]*node[K, V]
	head *node[K, V] // sentinel; head.next = MRU
	tail *node[K, V] // sentinel; tail.prev = LRU
	met  policy.Metrics
}

// New constructs an LRU cache holding at most capacity entries.
func New[K comparable, V any](capacity int, opts ...Option) *Cache[K, V] {
	cfg := config{metrics: policy.NoopMetrics{}}
	for _, o := range opts {
		o(&cfg)
	}

	c := &Cache[K, V]{
		cap:  capacity,
		m:    make(map[K]*node[K, V]),
		head: &node[K, V]{},
		tail: &node[K, V]{},
		met:  cfg.metrics,
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Put inserts or updates key→value and marks it most recently used.
// When the cache is full, the least recently used entry is evicted before
// the insert, so residency never exceeds capacity, not even transiently.
func (c *Cache[K, V]) Put(key K, value V) {
	if c.cap <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.m[key]; ok {
		n.val = value
		c.moveToFront(n)
		return
	}
	if len(c.m) >= c.cap {
		c.evictLeastRecent()
	}
	n := &node[K, V]{key: key, val: value}
	c.m[key] = n
	c.pushFront(n)
	c.met.Size(len(c.m))
}

// Get returns the stored value and marks the key most recently used on hit.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.m[key]
	if !ok {
		c.met.Miss()
		var zero V
		return zero, false
	}
	c.moveToFront(n)
	c.met.Hit()
	return n.val, true
}

// Remove deletes the key unconditionally if present.
func (c *Cache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.m[key]; ok {
		c.unlink(n)
		delete(c.m, key)
		c.met.Size(len(c.m))
	}
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// -------------------- internals (mu held) --------------------

func (c *Cache[K, V]) pushFront(n *node[K, V]) {
	n.prev = c.head
	n.next = c.head.next
	c.head.next.prev = n
	c.head.next = n
}

func (c *Cache[K, V]) unlink(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
}

func (c *Cache[K, V]) moveToFront(n *node[K, V]) {
	if c.head.next == n {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

func (c *Cache[K, V]) evictLeastRecent() {
	lru := c.tail.prev
	if lru == c.head {
		return
	}
	c.unlink(lru)
	delete(c.m, lru.key)
	c.met.Evict(policy.EvictCapacity)
}

var (
	_ policy.Strategy[string, int] = (*Cache[string, int])(nil)
	_ policy.Remover[string]       = (*Cache[string, int])(nil)
	_ policy.Sizer                 = (*Cache[string, int])(nil)
)
