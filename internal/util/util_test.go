package util

import (
	"fmt"
	"testing"
)

func TestHash64_DeterministicPerType(t *testing.T) {
	t.Parallel()

	if Hash64("key") != Hash64("key") {
		t.Fatal("string hashing must be deterministic")
	}
	if Hash64(12345) != Hash64(12345) {
		t.Fatal("int hashing must be deterministic")
	}
	if Hash64("a") == Hash64("b") {
		t.Fatal("distinct short strings should not collide")
	}
	if Hash64(uint64(7)) != Hash64(7) {
		// int and uint64 share the mix path for equal magnitudes
		t.Fatal("integer widths with equal value must hash alike")
	}
}

type stringerKey struct{ a, b int }

func (k stringerKey) String() string { return fmt.Sprintf("%d/%d", k.a, k.b) }

func TestHash64_StringerFallback(t *testing.T) {
	t.Parallel()

	k := stringerKey{1, 2}
	if Hash64(k) != Hash64("1/2") {
		t.Fatal("Stringer keys must hash as their String() form")
	}
}

func TestHash64_UnsupportedPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for an unsupported key type")
		}
	}()
	type opaque struct{ x int }
	Hash64(opaque{1})
}

func TestIsPowerOfTwo(t *testing.T) {
	t.Parallel()

	for _, x := range []uint64{1, 2, 4, 64, 1 << 40} {
		if !IsPowerOfTwo(x) {
			t.Fatalf("%d must be a power of two", x)
		}
	}
	for _, x := range []uint64{0, 3, 6, 100, 1<<40 + 1} {
		if IsPowerOfTwo(x) {
			t.Fatalf("%d must not be a power of two", x)
		}
	}
}

// Every hash must map inside [0, shards) for both the mask and the modulo
// path.
func TestShardIndex_Bounds(t *testing.T) {
	t.Parallel()

	hashes := []uint64{0, 1, 63, 1 << 33, ^uint64(0)}
	for _, shards := range []int{1, 2, 3, 4, 7, 16} {
		for _, h := range hashes {
			idx := ShardIndex(h, shards)
			if idx < 0 || idx >= shards {
				t.Fatalf("ShardIndex(%d, %d) = %d out of range", h, shards, idx)
			}
		}
	}
}

func TestShardIndex_MaskMatchesModulo(t *testing.T) {
	t.Parallel()

	// For power-of-two counts the mask fast path must agree with modulo.
	for _, shards := range []int{2, 4, 8, 64} {
		for h := uint64(0); h < 1000; h += 37 {
			if got, want := ShardIndex(h, shards), int(h%uint64(shards)); got != want {
				t.Fatalf("ShardIndex(%d, %d) = %d, want %d", h, shards, got, want)
			}
		}
	}
}
