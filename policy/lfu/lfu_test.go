package lfu

import "testing"

// Eviction takes the least frequently used entry.
func TestCache_EvictsLeastFrequent(t *testing.T) {
	t.Parallel()

	c := New[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	if _, ok := c.Get("a"); !ok { // a -> frequency 2
		t.Fatal("expect hit for a")
	}
	c.Put("c", 3) // evicts b (frequency 1)

	if _, ok := c.Get("b"); ok {
		t.Fatal("b must be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a must survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("c must be present")
	}
}

// Within one frequency bucket the oldest-inserted entry is the eviction
// candidate.
func TestCache_RecencyWithinBucket(t *testing.T) {
	t.Parallel()

	c := New[string, int](2)
	c.Put("a", 1) // bucket 1: [a]
	c.Put("b", 2) // bucket 1: [a, b]
	c.Put("c", 3) // evicts a, the bucket head

	if _, ok := c.Get("a"); ok {
		t.Fatal("a must be evicted")
	}
	if _, ok := c.Get("b"); ok == false {
		t.Fatal("b must survive")
	}
}

// An update on a resident key counts as an access and moves the entry up
// one frequency class.
func TestCache_UpdateCountsAsAccess(t *testing.T) {
	t.Parallel()

	c := New[string, int](4)
	c.Put("a", 1)
	c.Put("a", 2)

	c.mu.Lock()
	freq := c.m["a"].freq
	c.mu.Unlock()
	if freq != 2 {
		t.Fatalf("a frequency want 2, got %d", freq)
	}
	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Fatalf("a want 2, got %v ok=%v", v, ok)
	}
}

// minFreq follows the lowest non-empty bucket as entries move up.
func TestCache_MinFreqAdvances(t *testing.T) {
	t.Parallel()

	c := New[string, int](4)
	c.Put("a", 1)
	if _, ok := c.Get("a"); !ok { // drains bucket 1
		t.Fatal("expect hit")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.minFreq != 2 {
		t.Fatalf("minFreq want 2, got %d", c.minFreq)
	}
}

// Once the running average access count exceeds the ceiling, every resident
// frequency drops by ceiling/2 (floored at 1) and minFreq matches the true
// minimum across buckets.
func TestCache_Aging(t *testing.T) {
	t.Parallel()

	c := New[string, int](4, WithMaxAverage(2))
	c.Put("a", 1) // total 1
	c.Put("b", 2) // total 2
	// Four hits on a: totals 3..6. At total 6 the average over 2 residents
	// is 3 > 2, which triggers the aging pass with a at frequency 5.
	for i := 0; i < 4; i++ {
		if _, ok := c.Get("a"); !ok {
			t.Fatal("expect hit for a")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if got := c.m["a"].freq; got != 4 {
		t.Fatalf("a frequency want 4 after aging (5 - 2/2), got %d", got)
	}
	if got := c.m["b"].freq; got != 1 {
		t.Fatalf("b frequency want 1 (floored), got %d", got)
	}
	if c.minFreq != 1 {
		t.Fatalf("minFreq want 1, got %d", c.minFreq)
	}
	if c.total != 5 {
		t.Fatalf("cumulative count want 5 after recompute, got %d", c.total)
	}
}

func TestCache_Purge(t *testing.T) {
	t.Parallel()

	c := New[string, int](4)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Purge()

	if c.Len() != 0 {
		t.Fatalf("Len want 0 after Purge, got %d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("a must be gone after Purge")
	}
	c.Put("c", 3) // cache stays usable
	if _, ok := c.Get("c"); !ok {
		t.Fatal("c must be present after re-insert")
	}
}

func TestCache_ZeroCapacity(t *testing.T) {
	t.Parallel()

	for _, capacity := range []int{0, -1} {
		c := New[string, int](capacity)
		c.Put("a", 1)
		if _, ok := c.Get("a"); ok {
			t.Fatalf("capacity %d must never store anything", capacity)
		}
	}
}

// Repeated misses must not mutate cache state.
func TestCache_MissIsIdempotent(t *testing.T) {
	t.Parallel()

	c := New[string, int](2)
	c.Put("a", 1)
	for i := 0; i < 10; i++ {
		if _, ok := c.Get("missing"); ok {
			t.Fatal("unexpected hit")
		}
	}
	if c.Len() != 1 {
		t.Fatalf("Len want 1, got %d", c.Len())
	}
}
