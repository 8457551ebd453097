// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with engine defaults.
// - Load() layers defaults, an optional YAML file, and NATAL_* env vars.
// - External errors are wrapped via this package's sentinel kinds.
package config

import (
	"runtime"

	"github.com/astrium/natal/internal/domain/analysis"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the chart-id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the report store.
	ShardCount int `koanf:"shard_count"`

	// MaxRecentLimit caps GET /reports?limit.
	MaxRecentLimit int `koanf:"max_recent_limit"`

	// OrbOverrides replaces maximum orbs per aspect type, keyed by the
	// serialized aspect name (e.g. "trine": 6). Unknown names are logged
	// and ignored.
	OrbOverrides map[string]float64 `koanf:"orb_overrides"`

	// Balance significance thresholds, in percent. Zero keeps the engine
	// default for the field.
	ElementDominantPct  float64 `koanf:"element_dominant_pct"`
	ModalityDominantPct float64 `koanf:"modality_dominant_pct"`
	PolarityDominantPct float64 `koanf:"polarity_dominant_pct"`
	LackingPct          float64 `koanf:"lacking_pct"`

	// StrictGrandTrines requires grand trine members to share one element.
	StrictGrandTrines bool `koanf:"strict_grand_trines"`

	// IncludeAngleAspects adds the Ascendant and Midheaven to pairwise
	// aspect detection.
	IncludeAngleAspects bool `koanf:"include_angle_aspects"`
}

// New creates a Config populated with engine defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		QueueSize:           10_000,
		WorkerCount:         runtime.NumCPU() * 4,
		DedupeSize:          50_000,
		ShardCount:          8,
		MaxRecentLimit:      100,
		OrbOverrides:        map[string]float64{},
		ElementDominantPct:  analysis.DefaultElementDominantPct,
		ModalityDominantPct: analysis.DefaultModalityDominantPct,
		PolarityDominantPct: analysis.DefaultPolarityDominantPct,
		LackingPct:          analysis.DefaultLackingPct,
	}
}
