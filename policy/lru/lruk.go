package lru

import (
	"github.com/akozadaev/polycache/policy"
)

// KCache is the LRU-K variant: a key must accumulate k qualifying accesses
// before it is granted residency in the promotion store. Until then its
// value occupies no cache capacity; only a small counter lives in a
// separate, LRU-bounded history store.
//
// Because the history store is itself capacity-bounded, a slow-moving key
// can have its accumulated count forgotten before reaching k. That is an
// accepted bounded-memory trade-off: admission requires k touches within
// the history store's retention window, not k touches ever.
//
// KCache holds no lock of its own; the promotion and history stores each
// carry their own.
type KCache[K comparable, V any] struct {
	k       int
	store   *Cache[K, V]   // promotion store, the real cache
	history *Cache[K, int] // access counters for not-yet-promoted keys
}

// NewK constructs an LRU-K cache. capacity bounds the promotion store,
// historyCapacity bounds the counter store, and k is the number of
// qualifying accesses required for admission. A k ≤ 1 admits on first Put.
func NewK[K comparable, V any](capacity, historyCapacity, k int, opts ...Option) *KCache[K, V] {
	return &KCache[K, V]{
		k:       k,
		store:   New[K, V](capacity, opts...),
		history: New[K, int](historyCapacity),
	}
}

// Get counts a qualifying access for the key, then performs a normal lookup
// against the promotion store. The access is counted whether or not the key
// is resident.
func (c *KCache[K, V]) Get(key K) (V, bool) {
	count, _ := c.history.Get(key)
	c.history.Put(key, count+1)
	return c.store.Get(key)
}

// Put overwrites the value directly when the key is already resident.
// Independently it counts a qualifying access; once the count reaches k the
// history entry is dropped and the key enters the promotion store.
func (c *KCache[K, V]) Put(key K, value V) {
	if _, ok := c.store.Get(key); ok {
		c.store.Put(key, value)
	}

	count, _ := c.history.Get(key)
	count++
	c.history.Put(key, count)

	if count >= c.k {
		c.history.Remove(key)
		c.store.Put(key, value)
	}
}

// Remove deletes the key from both the promotion and history stores.
func (c *KCache[K, V]) Remove(key K) {
	c.store.Remove(key)
	c.history.Remove(key)
}

// Len returns the number of entries resident in the promotion store.
// History counters are not counted; they hold no values.
func (c *KCache[K, V]) Len() int {
	return c.store.Len()
}

var (
	_ policy.Strategy[string, int] = (*KCache[string, int])(nil)
	_ policy.Remover[string]       = (*KCache[string, int])(nil)
)
