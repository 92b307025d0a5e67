package arc

import "container/list"

// ghostList is a bounded record of recently evicted keys. No values are
// retained; it exists only so the orchestrator can recognize "recently
// evicted, wanted again" patterns. Front is the most recently evicted key.
//
// Its capacity is fixed at construction to the owning partition's initial
// capacity and does not follow later capacity transfers.
type ghostList[K comparable] struct {
	cap int
	ll  *list.List
	idx map[K]*list.Element
}

func newGhostList[K comparable](capacity int) *ghostList[K] {
	return &ghostList[K]{
		cap: capacity,
		ll:  list.New(),
		idx: make(map[K]*list.Element),
	}
}

// push records an evicted key as the most recent ghost, displacing the
// oldest ghost when full. Re-evicting a key refreshes its position.
func (g *ghostList[K]) push(key K) {
	if g.cap <= 0 {
		return
	}
	if el, ok := g.idx[key]; ok {
		g.ll.MoveToFront(el)
		return
	}
	for g.ll.Len() >= g.cap {
		oldest := g.ll.Back()
		if oldest == nil {
			break
		}
		delete(g.idx, oldest.Value.(K))
		g.ll.Remove(oldest)
	}
	g.idx[key] = g.ll.PushFront(key)
}

// remove deletes the key from the ghost list and reports whether it was
// present.
func (g *ghostList[K]) remove(key K) bool {
	el, ok := g.idx[key]
	if !ok {
		return false
	}
	g.ll.Remove(el)
	delete(g.idx, key)
	return true
}

func (g *ghostList[K]) contains(key K) bool {
	_, ok := g.idx[key]
	return ok
}

func (g *ghostList[K]) len() int { return g.ll.Len() }
