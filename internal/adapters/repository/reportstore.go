package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/astrium/natal/internal/domain/analysis"
	"github.com/astrium/natal/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultShardCount = 8
)

// entry wraps a stored report with its recency stamp.
type entry struct {
	report   *analysis.Report
	storedAt time.Time
	seq      uint64
}

// shard is one lock domain of the store.
type shard struct {
	mu      sync.RWMutex
	reports map[string]*entry
}

// ReportStore is a sharded in-memory Store. Shards keep write contention
// low when many workers finish analyses at once; a separate recency index
// serves the Recent listing without scanning shards.
type ReportStore struct {
	shards []*shard

	// recency index, newest last
	recencyMu sync.Mutex
	order     []string
	seq       uint64
}

// NewReportStore creates a report store with configuration options.
func NewReportStore(_ context.Context, opts ...StoreOption) *ReportStore {
	s := &ReportStore{}
	cfg := storeConfig{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}
	s.shards = make([]*shard, cfg.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{reports: make(map[string]*entry)}
	}
	metrics.UpdateStoreShardCount(cfg.shardCount)
	return s
}

func (s *ReportStore) shardFor(chartID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(chartID))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// Put stores a report, replacing any previous report for the same chart id.
func (s *ReportStore) Put(_ context.Context, report *analysis.Report) error {
	start := time.Now()
	defer func() {
		metrics.RecordStorePutLatency(float64(time.Since(start).Milliseconds()))
	}()

	if report == nil {
		return ErrNilReport
	}
	if report.ChartID == "" {
		return ErrEmptyChartID
	}

	s.recencyMu.Lock()
	s.seq++
	seq := s.seq
	s.recencyMu.Unlock()

	sh := s.shardFor(report.ChartID)
	sh.mu.Lock()
	_, existed := sh.reports[report.ChartID]
	sh.reports[report.ChartID] = &entry{report: report, storedAt: time.Now(), seq: seq}
	sh.mu.Unlock()

	s.recencyMu.Lock()
	if existed {
		s.removeFromOrder(report.ChartID)
	}
	s.order = append(s.order, report.ChartID)
	s.recencyMu.Unlock()

	metrics.UpdateTotalReports(s.Count(context.Background()))
	return nil
}

// removeFromOrder deletes a chart id from the recency index.
// Caller holds recencyMu.
func (s *ReportStore) removeFromOrder(chartID string) {
	for i := len(s.order) - 1; i >= 0; i-- {
		if s.order[i] == chartID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// Get returns the report for a chart id.
func (s *ReportStore) Get(_ context.Context, chartID string) (*analysis.Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreGetLatency(float64(time.Since(start).Milliseconds()))
	}()

	if chartID == "" {
		return nil, ErrEmptyChartID
	}
	sh := s.shardFor(chartID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	e, ok := sh.reports[chartID]
	if !ok {
		return nil, ErrNotFound
	}
	return e.report, nil
}

// Recent returns up to n reports, most recently stored first.
func (s *ReportStore) Recent(ctx context.Context, n int) ([]*analysis.Report, error) {
	if n < 1 {
		return nil, nil
	}

	s.recencyMu.Lock()
	ids := make([]string, 0, n)
	for i := len(s.order) - 1; i >= 0 && len(ids) < n; i-- {
		ids = append(ids, s.order[i])
	}
	s.recencyMu.Unlock()

	out := make([]*analysis.Report, 0, len(ids))
	for _, id := range ids {
		r, err := s.Get(ctx, id)
		if err != nil {
			// Raced with a concurrent replacement; skip rather than fail
			// the whole listing.
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Count returns the number of stored reports.
func (s *ReportStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.reports)
		sh.mu.RUnlock()
	}
	return total
}
