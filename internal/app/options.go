package app

import (
	"github.com/astrium/natal/internal/domain/analysis"
	"github.com/astrium/natal/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of analysis workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the chart-id deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of shards in the report store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOrbOverrides replaces maximum orbs per aspect type, keyed by the
// serialized aspect name. Unknown names are logged and ignored at Start.
func WithOrbOverrides(overrides map[string]float64) Option {
	return func(s *Service) {
		s.orbOverrides = overrides
	}
}

// WithBalanceThresholds sets the dominance and lacking significance policy.
func WithBalanceThresholds(th analysis.BalanceThresholds) Option {
	return func(s *Service) {
		s.thresholds = th
	}
}

// WithStrictGrandTrines requires grand trine members to share one element.
func WithStrictGrandTrines(strict bool) Option {
	return func(s *Service) {
		s.strictTrines = strict
	}
}

// WithAngleAspects includes the Ascendant and Midheaven in aspect detection.
func WithAngleAspects(include bool) Option {
	return func(s *Service) {
		s.includeAngles = include
	}
}
