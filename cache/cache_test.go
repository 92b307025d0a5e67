package cache_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/akozadaev/polycache/cache"
	"github.com/akozadaev/polycache/policy"
	"github.com/akozadaev/polycache/policy/lfu"
	"github.com/akozadaev/polycache/policy/lru"
)

func TestSharded_PutGetRemove(t *testing.T) {
	t.Parallel()

	c := lru.NewSharded[string, int](64, 4)
	for i := 0; i < 32; i++ {
		c.Put(fmt.Sprintf("k%d", i), i)
	}
	for i := 0; i < 32; i++ {
		if v, ok := c.Get(fmt.Sprintf("k%d", i)); !ok || v != i {
			t.Fatalf("k%d want %d, got %v ok=%v", i, i, v, ok)
		}
	}

	c.Remove("k7")
	if _, ok := c.Get("k7"); ok {
		t.Fatal("k7 must be absent after Remove")
	}
}

// Same key always lands on the same shard, so an update is visible through a
// subsequent Get regardless of shard count.
func TestSharded_StableRouting(t *testing.T) {
	t.Parallel()

	for _, shards := range []int{1, 3, 4, 16} {
		c := lru.NewSharded[string, int](64, shards)
		if c.Shards() != shards {
			t.Fatalf("Shards want %d, got %d", shards, c.Shards())
		}
		c.Put("key", 1)
		c.Put("key", 2)
		if v, ok := c.Get("key"); !ok || v != 2 {
			t.Fatalf("shards=%d: key want 2, got %v ok=%v", shards, v, ok)
		}
		if c.Len() != 1 {
			t.Fatalf("shards=%d: Len want 1, got %d", shards, c.Len())
		}
	}
}

func TestSharded_DefaultShardCount(t *testing.T) {
	t.Parallel()

	c := lru.NewSharded[string, int](64, 0)
	if c.Shards() < 1 {
		t.Fatalf("shard count must default to >= 1, got %d", c.Shards())
	}
}

func TestSharded_PurgeFansOut(t *testing.T) {
	t.Parallel()

	c := lfu.NewSharded[string, int](64, 4)
	for i := 0; i < 16; i++ {
		c.Put(fmt.Sprintf("k%d", i), i)
	}
	c.Purge()

	if c.Len() != 0 {
		t.Fatalf("Len want 0 after Purge, got %d", c.Len())
	}
	for i := 0; i < 16; i++ {
		if _, ok := c.Get(fmt.Sprintf("k%d", i)); ok {
			t.Fatalf("k%d must be gone after Purge", i)
		}
	}
}

func TestSharded_Stats(t *testing.T) {
	t.Parallel()

	c := lru.NewSharded[string, int](64, 4)
	c.Put("a", 1)
	c.Get("a")       // hit
	c.Get("a")       // hit
	c.Get("missing") // miss

	hits, misses := c.Stats()
	if hits != 2 || misses != 1 {
		t.Fatalf("stats want hits=2 misses=1, got hits=%d misses=%d", hits, misses)
	}
}

func TestSharded_GetOrLoad_NoLoader(t *testing.T) {
	t.Parallel()

	c := lru.NewSharded[string, int](64, 4)
	if _, err := c.GetOrLoad(context.Background(), "a"); !errors.Is(err, cache.ErrNoLoader) {
		t.Fatalf("want ErrNoLoader, got %v", err)
	}
}

// Concurrent GetOrLoad calls for one key coalesce into a single load.
func TestSharded_GetOrLoad_Coalesces(t *testing.T) {
	t.Parallel()

	var loads atomic.Int64
	c := cache.NewSharded(64, 4,
		func(shardCapacity int) policy.Strategy[string, int] {
			return lru.New[string, int](shardCapacity)
		},
		cache.WithLoader(func(ctx context.Context, key string) (int, error) {
			loads.Add(1)
			time.Sleep(20 * time.Millisecond) // widen the coalescing window
			return len(key), nil
		}),
	)

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			v, err := c.GetOrLoad(context.Background(), "abc")
			if err != nil {
				return err
			}
			if v != 3 {
				return fmt.Errorf("want 3, got %d", v)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if n := loads.Load(); n != 1 {
		t.Fatalf("loader want 1 invocation, got %d", n)
	}

	// Loaded value is now resident.
	if v, ok := c.Get("abc"); !ok || v != 3 {
		t.Fatalf("abc want 3 resident, got %v ok=%v", v, ok)
	}
}

func TestSharded_GetOrLoad_ErrorNotCached(t *testing.T) {
	t.Parallel()

	loadErr := errors.New("backend down")
	var loads atomic.Int64
	c := cache.NewSharded(64, 4,
		func(shardCapacity int) policy.Strategy[string, int] {
			return lru.New[string, int](shardCapacity)
		},
		cache.WithLoader(func(ctx context.Context, key string) (int, error) {
			loads.Add(1)
			return 0, loadErr
		}),
	)

	for i := 0; i < 3; i++ {
		if _, err := c.GetOrLoad(context.Background(), "a"); !errors.Is(err, loadErr) {
			t.Fatalf("want load error, got %v", err)
		}
	}
	if n := loads.Load(); n != 3 {
		t.Fatalf("failed loads must not be cached: want 3 invocations, got %d", n)
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("a must not be resident after failed loads")
	}
}
