package arc

import (
	"testing"

	"github.com/akozadaev/polycache/policy"
)

func TestLruPart_CountStartsAtZero(t *testing.T) {
	t.Parallel()

	p := newLruPart[string, int](4, 2, policy.NoopMetrics{})
	if ok := p.put("a", 1); !ok {
		t.Fatal("put must accept")
	}

	if _, _, transform := p.get("a"); transform { // count 1
		t.Fatal("first read must stay below the threshold")
	}
	if _, _, transform := p.get("a"); !transform { // count 2
		t.Fatal("second read must reach the threshold")
	}
}

func TestLruPart_UpdateKeepsCount(t *testing.T) {
	t.Parallel()

	p := newLruPart[string, int](4, 2, policy.NoopMetrics{})
	p.put("a", 1)
	p.get("a")    // count 1
	p.put("a", 2) // update, count untouched

	if v, ok, transform := p.get("a"); !ok || v != 2 || !transform {
		t.Fatalf("want value 2 and threshold reached, got v=%v ok=%v transform=%v", v, ok, transform)
	}
}

func TestLruPart_EvictionFeedsGhost(t *testing.T) {
	t.Parallel()

	p := newLruPart[string, int](2, 3, policy.NoopMetrics{})
	p.put("a", 1)
	p.put("b", 2)
	p.put("c", 3) // evicts a

	if _, ok, _ := p.get("a"); ok {
		t.Fatal("a must be evicted")
	}
	if !p.checkGhost("a") {
		t.Fatal("a must land in the ghost list")
	}
	if p.checkGhost("a") { // consumed by the previous check
		t.Fatal("ghost entry must be consumed on hit")
	}
}

func TestLruPart_ZeroCapacityRefusesWrites(t *testing.T) {
	t.Parallel()

	p := newLruPart[string, int](0, 3, policy.NoopMetrics{})
	if p.put("a", 1) {
		t.Fatal("put must refuse at capacity 0")
	}
	if _, ok, _ := p.get("a"); ok {
		t.Fatal("nothing can be resident at capacity 0")
	}
}

// Shrinking a full partition evicts before the decrement so residency never
// exceeds the new capacity.
func TestLruPart_DecreaseEvictsWhenFull(t *testing.T) {
	t.Parallel()

	p := newLruPart[string, int](2, 3, policy.NoopMetrics{})
	p.put("a", 1)
	p.put("b", 2)

	if !p.decreaseCapacity() {
		t.Fatal("decrease must succeed above the floor")
	}
	if p.len() != 1 {
		t.Fatalf("len want 1 after shrink, got %d", p.len())
	}
	if _, ok, _ := p.get("a"); ok {
		t.Fatal("the LRU entry must be the one evicted")
	}
	if !p.checkGhost("a") {
		t.Fatal("shrink eviction must feed the ghost list")
	}
}

func TestLruPart_DecreaseRefusesAtFloor(t *testing.T) {
	t.Parallel()

	p := newLruPart[string, int](1, 3, policy.NoopMetrics{})
	if !p.decreaseCapacity() {
		t.Fatal("first decrease must succeed")
	}
	if p.decreaseCapacity() {
		t.Fatal("decrease must refuse at capacity 0")
	}
	p.increaseCapacity()
	if !p.put("a", 1) {
		t.Fatal("put must accept again after increase")
	}
}
