package arc

import (
	"container/list"
	"sync"

	"github.com/akozadaev/polycache/policy"
)

type lfuEntry[K comparable, V any] struct {
	key  K
	val  V
	freq int
	pos  *list.Element
}

// lfuPart is ARC's frequency partition: frequency-bucketed main cache plus
// a ghost list of its own evictions. Unlike the standalone LFU strategy it
// carries no aging pass; staleness is bounded indirectly by the
// orchestrator's ghost-driven rebalancing.
type lfuPart[K comparable, V any] struct {
	mu      sync.Mutex
	cap     int
	minFreq int // lowest frequency with a non-empty bucket; 0 when empty
	m       map[K]*lfuEntry[K, V]
	buckets map[int]*list.List // frequency -> entries, oldest at Front
	ghost   *ghostList[K]
	met     policy.Metrics
}

func newLfuPart[K comparable, V any](capacity int, met policy.Metrics) *lfuPart[K, V] {
	return &lfuPart[K, V]{
		cap:     capacity,
		m:       make(map[K]*lfuEntry[K, V]),
		buckets: make(map[int]*list.List),
		ghost:   newGhostList[K](capacity),
		met:     met,
	}
}

// put inserts or updates. An update counts as an access and moves the entry
// up one frequency class. Reports whether the partition accepted the write.
func (p *lfuPart[K, V]) put(key K, value V) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cap <= 0 {
		return false
	}
	if e, ok := p.m[key]; ok {
		e.val = value
		p.promote(e)
		return true
	}
	if len(p.m) >= p.cap {
		p.evictLeastFrequent(policy.EvictCapacity)
	}
	e := &lfuEntry[K, V]{key: key, val: value, freq: 1}
	p.m[key] = e
	p.link(e)
	p.minFreq = 1
	return true
}

// get returns the value and bumps the entry's frequency on hit.
func (p *lfuPart[K, V]) get(key K) (V, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.m[key]
	if !ok {
		var zero V
		return zero, false
	}
	p.promote(e)
	return e.val, true
}

// contains reports main-cache membership without counting an access.
// The orchestrator uses it to route writes.
func (p *lfuPart[K, V]) contains(key K) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.m[key]
	return ok
}

// checkGhost removes the key from the ghost list and reports whether it was
// there.
func (p *lfuPart[K, V]) checkGhost(key K) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ghost.remove(key)
}

// increaseCapacity grants the partition one more slot, unconditionally.
func (p *lfuPart[K, V]) increaseCapacity() {
	p.mu.Lock()
	p.cap++
	p.mu.Unlock()
}

// decreaseCapacity takes one slot away, refusing at the floor of 0 and
// evicting ahead of the decrement when the main cache is exactly full.
// Same contract as the recency partition's.
func (p *lfuPart[K, V]) decreaseCapacity() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cap <= 0 {
		return false
	}
	if len(p.m) == p.cap {
		p.evictLeastFrequent(policy.EvictResize)
	}
	p.cap--
	return true
}

func (p *lfuPart[K, V]) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}

// -------------------- internals (mu held) --------------------

func (p *lfuPart[K, V]) link(e *lfuEntry[K, V]) {
	b, ok := p.buckets[e.freq]
	if !ok {
		b = list.New()
		p.buckets[e.freq] = b
	}
	e.pos = b.PushBack(e)
}

func (p *lfuPart[K, V]) unlinkEntry(e *lfuEntry[K, V]) {
	b := p.buckets[e.freq]
	if b == nil {
		return
	}
	b.Remove(e.pos)
	e.pos = nil
	if b.Len() == 0 {
		delete(p.buckets, e.freq)
	}
}

func (p *lfuPart[K, V]) promote(e *lfuEntry[K, V]) {
	old := e.freq
	p.unlinkEntry(e)
	e.freq++
	p.link(e)
	if old == p.minFreq {
		if _, ok := p.buckets[old]; !ok {
			p.minFreq = e.freq
		}
	}
}

// evictLeastFrequent demotes the oldest entry of the minFreq bucket to the
// ghost list.
func (p *lfuPart[K, V]) evictLeastFrequent(reason policy.EvictReason) {
	b := p.buckets[p.minFreq]
	if b == nil || b.Len() == 0 {
		return
	}
	e := b.Front().Value.(*lfuEntry[K, V])
	p.unlinkEntry(e)
	delete(p.m, e.key)
	p.ghost.push(e.key)
	p.met.Evict(reason)

	if _, ok := p.buckets[p.minFreq]; !ok {
		p.refreshMinFreq()
	}
}

func (p *lfuPart[K, V]) refreshMinFreq() {
	p.minFreq = 0
	for f := range p.buckets {
		if p.minFreq == 0 || f < p.minFreq {
			p.minFreq = f
		}
	}
}
