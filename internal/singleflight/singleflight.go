// Package singleflight coalesces concurrent loads for the same key so the
// load function runs at most once while callers share the result.
package singleflight

import (
	"context"
	"sync"
)

type call[V any] struct {
	done chan struct{} // closed once val/err are published
	val  V
	err  error
}

// Group deduplicates in-flight calls per key. The zero value is ready to
// use. The first caller for a key becomes the leader and runs fn; followers
// block on the shared result. Publishing (val, err) happens before
// close(done), so reads after <-done observe the final values.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call[V]
}

// Do runs fn once for the given key; concurrent calls with the same key
// wait for the shared result. A follower whose ctx is cancelled unblocks
// alone; the leader keeps running fn. If the work itself must be
// cancellable, thread a context into fn.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func() (V, error)) (V, error) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call[V])
	}
	if c, ok := g.m[key]; ok {
		g.mu.Unlock()
		select {
		case <-c.done:
			return c.val, c.err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}

	c := &call[V]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()
	close(c.done)

	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()

	return c.val, c.err
}
