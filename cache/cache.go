package cache

import (
	"context"
	"errors"

	"github.com/akozadaev/polycache/internal/singleflight"
	"github.com/akozadaev/polycache/internal/util"
	"github.com/akozadaev/polycache/policy"
)

// ErrNoLoader is returned by GetOrLoad when no Loader was configured.
var ErrNoLoader = errors.New("cache: no Loader provided")

// Factory builds one shard-local strategy instance with the given per-shard
// capacity.
type Factory[K comparable, V any] func(shardCapacity int) policy.Strategy[K, V]

// Option configures a Sharded cache.
type Option[K comparable, V any] func(*Sharded[K, V])

// WithLoader installs the load function used by GetOrLoad on miss.
func WithLoader[K comparable, V any](fn func(ctx context.Context, key K) (V, error)) Option[K, V] {
	return func(s *Sharded[K, V]) { s.loader = fn }
}

// Sharded routes every operation to exactly one of N independent strategy
// instances by hashing the key. It holds no lock of its own; concurrency
// control lives entirely inside the shards.
type Sharded[K comparable, V any] struct {
	shards []policy.Strategy[K, V]
	loader func(ctx context.Context, key K) (V, error)
	sf     singleflight.Group[K, V]

	// hot counters on separate cache lines to avoid false sharing
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
}

// NewSharded constructs a sharded cache over shards instances built by
// factory. A shard count ≤ 0 defaults to the hardware concurrency. The
// total capacity is split evenly across shards (ceil division).
func NewSharded[K comparable, V any](capacity, shards int, factory Factory[K, V], opts ...Option[K, V]) *Sharded[K, V] {
	if shards <= 0 {
		shards = util.DefaultShardCount()
	}
	perShard := (capacity + shards - 1) / shards

	s := &Sharded[K, V]{shards: make([]policy.Strategy[K, V], shards)}
	for i := range s.shards {
		s.shards[i] = factory(perShard)
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Put inserts or updates key→value in the key's shard.
func (s *Sharded[K, V]) Put(key K, value V) {
	s.shard(key).Put(key, value)
}

// Get returns the value for key from the key's shard.
func (s *Sharded[K, V]) Get(key K) (V, bool) {
	v, ok := s.shard(key).Get(key)
	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return v, ok
}

// Remove deletes key from its shard, if the shard's strategy supports
// removal.
func (s *Sharded[K, V]) Remove(key K) {
	if r, ok := s.shard(key).(policy.Remover[K]); ok {
		r.Remove(key)
	}
}

// Purge clears every shard that supports purging.
func (s *Sharded[K, V]) Purge() {
	for _, sh := range s.shards {
		if p, ok := sh.(policy.Purger); ok {
			p.Purge()
		}
	}
}

// Len returns the total number of resident entries across all shards.
// Shards are read one at a time, so under concurrency the sum is a
// best-effort snapshot.
func (s *Sharded[K, V]) Len() int {
	total := 0
	for _, sh := range s.shards {
		if z, ok := sh.(policy.Sizer); ok {
			total += z.Len()
		}
	}
	return total
}

// Shards returns the number of independent shards.
func (s *Sharded[K, V]) Shards() int { return len(s.shards) }

// Stats returns cumulative hit and miss counts observed through Get.
func (s *Sharded[K, V]) Stats() (hits, misses int64) {
	return s.hits.Load(), s.misses.Load()
}

// GetOrLoad returns the value for key; on miss it loads via the configured
// Loader, coalescing concurrent loads for the same key. Without a Loader it
// returns ErrNoLoader.
func (s *Sharded[K, V]) GetOrLoad(ctx context.Context, key K) (V, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}
	if s.loader == nil {
		var zero V
		return zero, ErrNoLoader
	}

	return s.sf.Do(ctx, key, func() (V, error) {
		// Double-check after winning (or joining) the flight.
		if v, ok := s.Get(key); ok {
			return v, nil
		}
		v, err := s.loader(ctx, key)
		if err == nil {
			s.Put(key, v)
		}
		return v, err
	})
}

func (s *Sharded[K, V]) shard(key K) policy.Strategy[K, V] {
	return s.shards[util.ShardIndex(util.Hash64(key), len(s.shards))]
}

var (
	_ policy.Strategy[string, int] = (*Sharded[string, int])(nil)
	_ policy.Sizer                 = (*Sharded[string, int])(nil)
)
