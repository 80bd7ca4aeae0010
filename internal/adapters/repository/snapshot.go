package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cavops/muster/internal/domain/model"
	"github.com/cavops/muster/internal/domain/types"
	"github.com/cavops/muster/pkg/metrics"
)

// SnapshotStore implements Store with a mutex-guarded current snapshot and
// a per-date index over the strength table.
type SnapshotStore struct {
	mu      sync.RWMutex
	current *Snapshot
	// byDate indexes contiguous [start,end) slices of current.Strength,
	// which is sorted by date.
	byDate map[time.Time][2]int
}

// NewSnapshotStore creates an empty store. Reads fail with ErrNoRun until
// the first Publish.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Publish replaces the current snapshot.
func (s *SnapshotStore) Publish(_ context.Context, snap Snapshot) {
	byDate := indexByDate(snap.Strength)

	s.mu.Lock()
	s.current = &snap
	s.byDate = byDate
	s.mu.Unlock()

	metrics.UpdateMemberships(len(snap.Memberships))
	metrics.UpdateLastRunUnix(float64(time.Now().Unix()))
}

// indexByDate maps each date to its row range in the date-sorted table.
func indexByDate(rows []model.StrengthRow) map[time.Time][2]int {
	idx := make(map[time.Time][2]int)
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i == len(rows) || !rows[i].Date.Equal(rows[start].Date) {
			idx[rows[start].Date] = [2]int{start, i}
			start = i
		}
	}
	return idx
}

// snapshot returns the current snapshot or ErrNoRun.
func (s *SnapshotStore) snapshot() (*Snapshot, map[time.Time][2]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, nil, ErrNoRun
	}
	return s.current, s.byDate, nil
}

// StrengthOn returns the strength rows for a single date.
func (s *SnapshotStore) StrengthOn(_ context.Context, date time.Time) ([]model.StrengthRow, error) {
	snap, byDate, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	r, ok := byDate[model.Day(date)]
	if !ok {
		return nil, nil
	}
	out := make([]model.StrengthRow, r[1]-r[0])
	copy(out, snap.Strength[r[0]:r[1]])
	return out, nil
}

// StrengthRange returns the strength rows with from <= date <= to.
func (s *SnapshotStore) StrengthRange(_ context.Context, from, to time.Time) ([]model.StrengthRow, error) {
	snap, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	from, to = model.Day(from), model.Day(to)
	rows := snap.Strength
	lo := sort.Search(len(rows), func(i int) bool { return !rows[i].Date.Before(from) })
	hi := sort.Search(len(rows), func(i int) bool { return rows[i].Date.After(to) })
	if lo >= hi {
		return nil, nil
	}
	out := make([]model.StrengthRow, hi-lo)
	copy(out, rows[lo:hi])
	return out, nil
}

// Retention returns the cohort retention table.
func (s *SnapshotStore) Retention(_ context.Context) ([]model.RetentionRow, error) {
	snap, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	out := make([]model.RetentionRow, len(snap.Retention))
	copy(out, snap.Retention)
	return out, nil
}

// Movements returns one member's movement timeline.
func (s *SnapshotStore) Movements(_ context.Context, memberID string) ([]model.Movement, error) {
	snap, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	moves, ok := snap.Movements[memberID]
	if !ok {
		return nil, ErrMemberNotFound
	}
	out := make([]model.Movement, len(moves))
	copy(out, moves)
	return out, nil
}

// Memberships returns the merged membership intervals of the run.
func (s *SnapshotStore) Memberships(_ context.Context) ([]model.Membership, error) {
	snap, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	out := make([]model.Membership, len(snap.Memberships))
	copy(out, snap.Memberships)
	return out, nil
}

// Summary returns the run summary.
func (s *SnapshotStore) Summary(_ context.Context) (types.RunSummary, error) {
	snap, _, err := s.snapshot()
	if err != nil {
		return types.RunSummary{}, err
	}
	return snap.Summary, nil
}
