// Package dedupe tracks member IDs already claimed for fetching.
//
// Rosters overlap: a member on both the combat and reserve rosters must be
// fetched and analyzed exactly once per run. The deduper is the atomic
// claim check shared by the roster walkers.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen member IDs to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen set so a later roster
	// occurrence can claim it again, e.g. after a failed fetch.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a mutex-guarded set. In bounded
// mode a FIFO ring of insertion order drives eviction; unbounded mode
// (maxSize <= 0) never evicts.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order, bounded mode only
	head    int      // index of the oldest live entry in order
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	if d.maxSize > 0 {
		for len(d.seen) >= d.maxSize && d.head < len(d.order) {
			oldest := d.order[d.head]
			d.head++
			// Unrecord leaves stale slots in order; only drop IDs that
			// are still live.
			if _, ok := d.seen[oldest]; ok {
				delete(d.seen, oldest)
				d.size.Add(-1)
			}
		}
		d.order = append(d.order, id)
		if d.head > len(d.order)/2 {
			d.order = append([]string(nil), d.order[d.head:]...)
			d.head = 0
		}
	}

	d.seen[id] = struct{}{}
	d.size.Add(1)
	return false
}

// Unrecord removes an ID from the seen set.
func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		delete(d.seen, id)
		d.size.Add(-1)
	}
}

// Size returns the current number of recorded IDs.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
