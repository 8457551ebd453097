// Package dedupe tracks chart ids that have already been submitted so a
// resubmitted chart is acknowledged as a duplicate instead of analyzed
// twice.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Default bound on remembered chart ids.
const defaultMaxSize = 50000

// Deduper records seen chart ids to ensure at-most-once analysis.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records it
	// if not. Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id from the seen set. Used when a submission
	// was marked seen but could not be enqueued, so the caller may retry.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of remembered ids.
	Size() int64
}

// inMemoryDeduper implements Deduper with a bounded map. When the bound is
// reached the most recently recorded id is evicted first, which protects
// long-lived ids from churn during a burst of new submissions. A
// non-positive bound disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order, newest last; only kept in bounded mode
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	return d
}

// SeenAndRecord atomically checks and records an id.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictNewest()
		}
		d.order = append(d.order, id)
	}
	d.seen[id] = struct{}{}
	d.size.Store(int64(len(d.seen)))
	return false
}

// evictNewest drops the most recently recorded id. Caller holds the lock.
func (d *inMemoryDeduper) evictNewest() {
	if len(d.order) == 0 {
		return
	}
	last := d.order[len(d.order)-1]
	d.order = d.order[:len(d.order)-1]
	delete(d.seen, last)
}

// Unrecord removes an id from the seen set.
func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; !ok {
		return
	}
	delete(d.seen, id)
	for i := len(d.order) - 1; i >= 0; i-- {
		if d.order[i] == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.size.Store(int64(len(d.seen)))
}

// Size returns the number of remembered ids.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
