package arc

import (
	"sync"

	"github.com/akozadaev/polycache/policy"
)

// lruNode is an intrusive list element of the recency partition's main
// cache. count tracks accesses via get only; put never bumps it, so a
// fresh entry sits at 0 until its first read.
type lruNode[K comparable, V any] struct {
	key   K
	val   V
	count int
	prev  *lruNode[K, V]
	next  *lruNode[K, V]
}

// lruPart is ARC's recency partition: an LRU main cache whose capacity is
// adjusted one slot at a time by the orchestrator, plus a ghost list of its
// own evictions. One mutex guards everything; the orchestrator never holds
// it across calls into the other partition.
type lruPart[K comparable, V any] struct {
	mu        sync.Mutex
	cap       int
	threshold int // access count at which get reports "should transform"
	m         map[K]*lruNode[K, V]
	head      *lruNode[K, V] // sentinel; head.next = MRU
	tail      *lruNode[K, V] // sentinel; tail.prev = LRU
	ghost     *ghostList[K]
	met       policy.Metrics
}

func newLruPart[K comparable, V any](capacity, threshold int, met policy.Metrics) *lruPart[K, V] {
	p := &lruPart[K, V]{
		cap:       capacity,
		threshold: threshold,
		m:         make(map[K]*lruNode[K, V]),
		head:      &lruNode[K, V]{},
		tail:      &lruNode[K, V]{},
		ghost:     newGhostList[K](capacity),
		met:       met,
	}
	p.head.next = p.tail
	p.tail.prev = p.head
	return p
}

// put inserts or updates without touching the access count. It reports
// whether the partition accepted the write (capacity 0 refuses).
func (p *lruPart[K, V]) put(key K, value V) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cap <= 0 {
		return false
	}
	if n, ok := p.m[key]; ok {
		n.val = value
		p.moveToFront(n)
		return true
	}
	if len(p.m) >= p.cap {
		p.evictLeastRecent(policy.EvictCapacity)
	}
	n := &lruNode[K, V]{key: key, val: value}
	p.m[key] = n
	p.pushFront(n)
	return true
}

// get returns the value on hit, counts the access, and reports whether the
// entry's count has reached the transform threshold.
func (p *lruPart[K, V]) get(key K) (value V, hit, shouldTransform bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n, ok := p.m[key]
	if !ok {
		return value, false, false
	}
	p.moveToFront(n)
	n.count++
	return n.val, true, n.count >= p.threshold
}

// checkGhost removes the key from the ghost list and reports whether it was
// there. The main cache is not consulted.
func (p *lruPart[K, V]) checkGhost(key K) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ghost.remove(key)
}

// increaseCapacity grants the partition one more slot, unconditionally.
func (p *lruPart[K, V]) increaseCapacity() {
	p.mu.Lock()
	p.cap++
	p.mu.Unlock()
}

// decreaseCapacity takes one slot away. It refuses at the floor of 0.
// When the main cache sits exactly at capacity, one entry is evicted into
// the ghost list before the decrement so residency never exceeds the new
// capacity, not even momentarily.
func (p *lruPart[K, V]) decreaseCapacity() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cap <= 0 {
		return false
	}
	if len(p.m) == p.cap {
		p.evictLeastRecent(policy.EvictResize)
	}
	p.cap--
	return true
}

func (p *lruPart[K, V]) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}

// -------------------- internals (mu held) --------------------

func (p *lruPart[K, V]) pushFront(n *lruNode[K, V]) {
	n.prev = p.head
	n.next = p.head.next
	p.head.next.prev = n
	p.head.next = n
}

func (p *lruPart[K, V]) unlink(n *lruNode[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
}

func (p *lruPart[K, V]) moveToFront(n *lruNode[K, V]) {
	if p.head.next == n {
		return
	}
	p.unlink(n)
	p.pushFront(n)
}

// evictLeastRecent demotes the LRU entry to the ghost list.
func (p *lruPart[K, V]) evictLeastRecent(reason policy.EvictReason) {
	lru := p.tail.prev
	if lru == p.head {
		return
	}
	p.unlink(lru)
	delete(p.m, lru.key)
	p.ghost.push(lru.key)
	p.met.Evict(reason)
}
