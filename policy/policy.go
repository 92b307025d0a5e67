// Package policy defines the contract shared by every eviction strategy in
// this module and the observability hooks they report into.
//
// A strategy is a bounded in-memory key/value store. Replacement behavior
// (LRU, LRU-K, LFU, ARC) is what varies; the contract does not. Callers pick
// a strategy at construction time and talk to it through Strategy alone, or
// through one of the narrow extension interfaces when they need an operation
// that only part of the family supports.
package policy

// Strategy is the uniform contract every replacement strategy implements.
//
// Absent keys are not errors: Get reports a miss through its boolean result
// and returns the zero value. All implementations are safe for concurrent
// use; see each package for its locking granularity.
type Strategy[K comparable, V any] interface {
	// Put inserts or updates key→value, evicting per the strategy's rules
	// when the structure is at capacity.
	Put(key K, value V)
	// Get returns the stored value and whether the key was resident.
	// A hit updates the strategy's access bookkeeping (recency, frequency).
	Get(key K) (V, bool)
}

// Remover is implemented by strategies that support unconditional deletion
// (the LRU family).
type Remover[K comparable] interface {
	// Remove deletes the key if present. Removing an absent key is a no-op.
	Remove(key K)
}

// Purger is implemented by strategies that can drop all resident state at
// once (the LFU family).
type Purger interface {
	Purge()
}

// Sizer reports the number of resident entries. Every strategy in this
// module implements it; it is kept out of Strategy so the core contract
// stays minimal.
type Sizer interface {
	Len() int
}

// EvictReason explains why an entry left the main cache.
type EvictReason int

const (
	// EvictCapacity: the structure was at capacity when an insert arrived.
	EvictCapacity EvictReason = iota
	// EvictResize: an ARC partition gave up a slot and had to shed an
	// entry before its capacity decrement.
	EvictResize
)

// Metrics receives strategy-level observability signals. Implementations
// must be safe for concurrent use. NoopMetrics is the default everywhere.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Hit()              {}
func (NoopMetrics) Miss()             {}
func (NoopMetrics) Evict(EvictReason) {}
func (NoopMetrics) Size(int)          {}

var _ Metrics = NoopMetrics{}
