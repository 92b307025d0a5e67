package main

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/akozadaev/polycache/policy"
	"github.com/akozadaev/polycache/policy/arc"
	"github.com/akozadaev/polycache/policy/lfu"
	"github.com/akozadaev/polycache/policy/lru"
)

// compare mode pits LRU, LFU, and ARC against the same access patterns and
// reports the hit rate of each. The capacities are intentionally tight so
// the replacement decisions, not the capacity, dominate the outcome.

type scenario struct {
	name     string
	capacity int
	ops      int
	run      func(c policy.Strategy[int, string], ops int, r *rand.Rand) (gets, hits int)
}

func runCompare(cfg Config, log zerolog.Logger) {
	scenarios := []scenario{
		{"hot-spot", 50, 500_000, runHotSpot},
		{"loop-scan", 50, 200_000, runLoopScan},
		{"workload-shift", 4, 80_000, runWorkloadShift},
	}

	for _, sc := range scenarios {
		ops := sc.ops
		if cfg.Operations > 0 {
			ops = cfg.Operations
		}

		names := []string{"lru", "lfu", "arc"}
		caches := []policy.Strategy[int, string]{
			lru.New[int, string](sc.capacity),
			lfu.New[int, string](sc.capacity, lfu.WithMaxAverage(cfg.MaxAverage)),
			arc.New[int, string](sc.capacity, arc.WithTransformThreshold(cfg.TransformThreshold)),
		}

		rates := make([]float64, len(caches))
		start := time.Now()
		var g errgroup.Group
		for i := range caches {
			i := i
			g.Go(func() error {
				r := rand.New(rand.NewSource(cfg.Seed + int64(i)*9973))
				gets, hits := sc.run(caches[i], ops, r)
				if gets > 0 {
					rates[i] = float64(hits) / float64(gets) * 100
				}
				return nil
			})
		}
		_ = g.Wait() // runs only return nil

		ev := log.Info().
			Str("scenario", sc.name).
			Int("capacity", sc.capacity).
			Int("ops", ops).
			Dur("elapsed", time.Since(start))
		for i, name := range names {
			ev = ev.Float64(name+"_hit_rate_pct", rates[i])
		}
		ev.Msg("compare: scenario done")
	}
}

// runHotSpot writes then reads a skewed keyspace: 70% of traffic on a small
// hot set, the rest spread over a cold tail.
func runHotSpot(c policy.Strategy[int, string], ops int, r *rand.Rand) (gets, hits int) {
	const (
		hotKeys  = 20
		coldKeys = 5000
	)
	pick := func(op int) int {
		if op%100 < 70 {
			return r.Intn(hotKeys)
		}
		return hotKeys + r.Intn(coldKeys)
	}

	for op := 0; op < ops; op++ {
		k := pick(op)
		c.Put(k, "value"+strconv.Itoa(k))
	}
	for op := 0; op < ops; op++ {
		gets++
		if _, ok := c.Get(pick(op)); ok {
			hits++
		}
	}
	return gets, hits
}

// runLoopScan cycles through a working set ten times the cache size: 60%
// sequential scan, 30% random jumps inside the loop, 10% out-of-range reads.
// The pattern defeats pure recency; frequency signals are what survive it.
func runLoopScan(c policy.Strategy[int, string], ops int, r *rand.Rand) (gets, hits int) {
	const loopSize = 500

	for key := 0; key < loopSize; key++ {
		c.Put(key, "loop"+strconv.Itoa(key))
	}

	pos := 0
	for op := 0; op < ops; op++ {
		var k int
		switch {
		case op%100 < 60:
			k = pos
			pos = (pos + 1) % loopSize
		case op%100 < 90:
			k = r.Intn(loopSize)
		default:
			k = loopSize + r.Intn(loopSize)
		}
		gets++
		if _, ok := c.Get(k); ok {
			hits++
		}
	}
	return gets, hits
}

// runWorkloadShift walks through five phases with different access patterns
// (tight hot set, wide random, sequential scan, drifting locality, mixed),
// interleaving writes on 30% of operations. Adaptive strategies get to show
// whether they re-tune as the pattern changes.
func runWorkloadShift(c policy.Strategy[int, string], ops int, r *rand.Rand) (gets, hits int) {
	phase := ops / 5

	for key := 0; key < 1000; key++ {
		c.Put(key, "init"+strconv.Itoa(key))
	}

	for op := 0; op < ops; op++ {
		var k int
		switch {
		case op < phase:
			k = r.Intn(5)
		case op < phase*2:
			k = r.Intn(1000)
		case op < phase*3:
			k = (op - phase*2) % 100
		case op < phase*4:
			locality := (op / 1000) % 10
			k = locality*20 + r.Intn(20)
		default:
			switch x := r.Intn(100); {
			case x < 30:
				k = r.Intn(5)
			case x < 60:
				k = 5 + r.Intn(95)
			default:
				k = 100 + r.Intn(900)
			}
		}

		gets++
		if _, ok := c.Get(k); ok {
			hits++
		}
		if r.Intn(100) < 30 {
			c.Put(k, "new"+strconv.Itoa(k))
		}
	}
	return gets, hits
}
