// Package repository holds the published results of the latest analysis
// run and serves the read side of the API.
package repository

import (
	"context"
	"time"

	"github.com/cavops/muster/internal/domain/model"
	"github.com/cavops/muster/internal/domain/types"
)

// Snapshot is the complete, immutable output of one run. A snapshot is
// built off to the side and swapped in atomically on publish; readers never
// observe a half-written run.
type Snapshot struct {
	Summary     types.RunSummary
	Memberships []model.Membership
	Strength    []model.StrengthRow
	Retention   []model.RetentionRow
	Movements   map[string][]model.Movement
}

// Store provides read access to the latest published run.
type Store interface {
	// Publish replaces the current snapshot.
	Publish(ctx context.Context, snap Snapshot)

	// StrengthOn returns the strength rows for a single date.
	StrengthOn(ctx context.Context, date time.Time) ([]model.StrengthRow, error)

	// StrengthRange returns the strength rows with from <= date <= to,
	// in table order.
	StrengthRange(ctx context.Context, from, to time.Time) ([]model.StrengthRow, error)

	// Retention returns the cohort retention table.
	Retention(ctx context.Context) ([]model.RetentionRow, error)

	// Movements returns one member's movement timeline.
	// Returns ErrMemberNotFound for unknown members.
	Movements(ctx context.Context, memberID string) ([]model.Movement, error)

	// Memberships returns the merged membership intervals of the run.
	Memberships(ctx context.Context) ([]model.Membership, error)

	// Summary returns the run summary.
	Summary(ctx context.Context) (types.RunSummary, error)
}
