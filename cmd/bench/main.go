// Command bench runs a synthetic Zipf workload against one of the eviction
// strategies and exposes optional pprof/Prometheus endpoints. The run is
// driven by a yaml config (see config.go); a few flags override it.
package main

import (
	"context"
	"flag"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"

	"github.com/akozadaev/polycache/metrics/prom"
	"github.com/akozadaev/polycache/policy"
	"github.com/akozadaev/polycache/policy/arc"
	"github.com/akozadaev/polycache/policy/lfu"
	"github.com/akozadaev/polycache/policy/lru"
)

func main() {
	var (
		configPath = flag.String("config", "", "yaml config path (empty = defaults)")
		mode       = flag.String("mode", "", "override mode: zipf | compare")
		strategy   = flag.String("strategy", "", "override strategy: lru | lru-k | lfu | arc")
		capacity   = flag.Int("cap", 0, "override cache capacity (entries)")
		duration   = flag.Duration("duration", 0, "override benchmark duration")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if *mode != "" {
		cfg.Mode = *mode
	}
	if *strategy != "" {
		cfg.Strategy = *strategy
	}
	if *capacity > 0 {
		cfg.Capacity = *capacity
	}
	if *duration > 0 {
		cfg.Duration = Duration{*duration}
	}
	if err := cfg.validate(); err != nil {
		log.Fatal().Err(err).Msg("validate config")
	}

	if cfg.PprofAddr != "" {
		go func() {
			log.Info().Str("addr", cfg.PprofAddr).Msg("pprof: serving")
			log.Err(http.ListenAndServe(cfg.PprofAddr, nil)).Msg("pprof: stopped")
		}()
	}

	if cfg.Mode == "compare" {
		runCompare(cfg, log)
		return
	}

	var met policy.Metrics = policy.NoopMetrics{}
	if cfg.MetricsAddr != "" {
		met = prom.New(nil, "polycache", "bench", nil)
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics: serving")
			log.Err(http.ListenAndServe(cfg.MetricsAddr, nil)).Msg("metrics: stopped")
		}()
	}

	c := buildStrategy(cfg, met)

	// Preload to get a realistic hit-rate from the first second.
	pl := cfg.Preload
	if pl == 0 {
		pl = cfg.Capacity / 2
	}
	for i := 0; i < pl; i++ {
		c.Put("k:"+strconv.Itoa(i), "v"+strconv.Itoa(i))
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	var reads, writes, hits, misses, total uint64
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration.Duration)
	defer cancel()

	log.Info().
		Str("strategy", cfg.Strategy).
		Int("capacity", cfg.Capacity).
		Int("workers", workers).
		Int("keys", cfg.Keys).
		Dur("duration", cfg.Duration.Duration).
		Int64("seed", cfg.Seed).
		Msg("bench: starting")

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		id := w
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(cfg.Seed + int64(id)*9973))
			localZipf := rand.NewZipf(localR, cfg.ZipfS, cfg.ZipfV, uint64(cfg.Keys-1))

			var limiter ratelimit.Limiter
			if cfg.Rate > 0 {
				limiter = ratelimit.New(cfg.Rate)
			}

			keyByZipf := func() string {
				return "k:" + strconv.FormatUint(localZipf.Uint64(), 10)
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				if limiter != nil {
					limiter.Take()
				}

				atomic.AddUint64(&total, 1)
				if int(localR.Int31n(100)) < cfg.ReadPct {
					atomic.AddUint64(&reads, 1)
					if _, ok := c.Get(keyByZipf()); ok {
						atomic.AddUint64(&hits, 1)
					} else {
						atomic.AddUint64(&misses, 1)
					}
				} else {
					atomic.AddUint64(&writes, 1)
					c.Put(keyByZipf(), "v"+strconv.Itoa(localR.Int()))
				}
			}
		})
	}
	_ = g.Wait() // workers only return nil
	elapsed := time.Since(start)

	ops := atomic.LoadUint64(&total)
	readsN := atomic.LoadUint64(&reads)
	hitsN := atomic.LoadUint64(&hits)

	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	ev := log.Info().
		Uint64("ops", ops).
		Float64("ops_per_sec", float64(ops)/elapsed.Seconds()).
		Uint64("reads", readsN).
		Uint64("writes", atomic.LoadUint64(&writes)).
		Uint64("hits", hitsN).
		Uint64("misses", atomic.LoadUint64(&misses)).
		Float64("hit_rate_pct", hitRate)
	if z, ok := c.(policy.Sizer); ok {
		ev = ev.Int("len", z.Len())
	}
	ev.Msg("bench: done")
}

// buildStrategy maps the config onto a concrete strategy. The recency and
// frequency strategies run sharded; lru-k and arc run as single instances
// because their cross-structure bookkeeping is per-instance state.
func buildStrategy(cfg Config, met policy.Metrics) policy.Strategy[string, string] {
	switch cfg.Strategy {
	case "lru":
		return lru.NewSharded[string, string](cfg.Capacity, cfg.Shards, lru.WithMetrics(met))
	case "lru-k":
		history := cfg.HistoryCapacity
		if history <= 0 {
			history = cfg.Capacity * 4
		}
		return lru.NewK[string, string](cfg.Capacity, history, cfg.K, lru.WithMetrics(met))
	case "lfu":
		return lfu.NewSharded[string, string](cfg.Capacity, cfg.Shards,
			lfu.WithMaxAverage(cfg.MaxAverage), lfu.WithMetrics(met))
	case "arc":
		return arc.New[string, string](cfg.Capacity,
			arc.WithTransformThreshold(cfg.TransformThreshold), arc.WithMetrics(met))
	default:
		panic("unreachable: validated strategy " + cfg.Strategy)
	}
}
