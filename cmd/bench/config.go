package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so yaml configs can say "10s" or "2m".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	v, err := time.ParseDuration(n.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", n.Value, err)
	}
	d.Duration = v
	return nil
}

// Config drives one bench run. Zero fields fall back to the defaults below.
type Config struct {
	Mode     string `yaml:"mode"`     // zipf | compare
	Strategy string `yaml:"strategy"` // lru | lru-k | lfu | arc (zipf mode)
	Capacity int    `yaml:"capacity"`
	Shards   int    `yaml:"shards"` // 0 = auto; lru/lfu only

	// compare mode: per-scenario operation count override (0 = built-in).
	Operations int `yaml:"operations"`

	// Strategy tuning.
	K                  int `yaml:"k"`                   // lru-k admission threshold
	HistoryCapacity    int `yaml:"history_capacity"`    // lru-k counter store size
	MaxAverage         int `yaml:"max_average"`         // lfu aging ceiling
	TransformThreshold int `yaml:"transform_threshold"` // arc promotion threshold

	// Workload shape.
	Workers  int      `yaml:"workers"`
	Duration Duration `yaml:"duration"`
	ReadPct  int      `yaml:"read_pct"`
	Keys     int      `yaml:"keys"`
	ZipfS    float64  `yaml:"zipf_s"`
	ZipfV    float64  `yaml:"zipf_v"`
	Seed     int64    `yaml:"seed"`
	Preload  int      `yaml:"preload"` // 0 = capacity/2
	Rate     int      `yaml:"rate"`    // ops/s per worker, 0 = unpaced

	// Endpoints (empty = disabled).
	PprofAddr   string `yaml:"pprof_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
}

func defaultConfig() Config {
	return Config{
		Mode:               "zipf",
		Strategy:           "lru",
		Capacity:           100_000,
		K:                  2,
		MaxAverage:         10,
		TransformThreshold: 3,
		Workers:            2 * runtime.GOMAXPROCS(0),
		Duration:           Duration{10 * time.Second},
		ReadPct:            80,
		Keys:               1_000_000,
		ZipfS:              1.1,
		ZipfV:              1.0,
		Seed:               time.Now().UnixNano(),
	}
}

// loadConfig reads a yaml config from path, layered over defaultConfig.
// An empty path returns the defaults untouched.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config yaml file %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	if err = cfg.validate(); err != nil {
		return cfg, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Mode {
	case "zipf", "compare":
	default:
		return fmt.Errorf("unknown mode %q (use zipf or compare)", c.Mode)
	}
	if c.Operations < 0 {
		return fmt.Errorf("operations must be >= 0, got %d", c.Operations)
	}
	switch c.Strategy {
	case "lru", "lru-k", "lfu", "arc":
	default:
		return fmt.Errorf("unknown strategy %q (use lru, lru-k, lfu or arc)", c.Strategy)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be > 0, got %d", c.Capacity)
	}
	if c.ReadPct < 0 || c.ReadPct > 100 {
		return fmt.Errorf("read_pct must be in [0,100], got %d", c.ReadPct)
	}
	if c.Keys <= 0 {
		return fmt.Errorf("keys must be > 0, got %d", c.Keys)
	}
	if c.ZipfS <= 1 {
		return fmt.Errorf("zipf_s must be > 1, got %g", c.ZipfS)
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate must be >= 0, got %d", c.Rate)
	}
	return nil
}
