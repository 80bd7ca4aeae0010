package service

import (
	"context"
	"strconv"
	"time"

	"github.com/cavops/muster/internal/domain/model"
	"github.com/cavops/muster/internal/domain/types"
)

// The read methods serve the HTTP API: they project the current snapshot
// into the wire shapes. Errors from the repository pass through so the API
// can map ErrNoRun and ErrMemberNotFound to status codes.

// StrengthOn returns the per-unit headcounts for one date.
func (s *Service) StrengthOn(ctx context.Context, date time.Time) ([]types.StrengthEntry, error) {
	st := s.store()
	if st == nil {
		return nil, ErrNotStarted
	}
	rows, err := st.StrengthOn(ctx, date)
	if err != nil {
		return nil, err
	}
	return strengthEntries(rows), nil
}

// StrengthRange returns the per-unit headcounts for from <= date <= to.
func (s *Service) StrengthRange(ctx context.Context, from, to time.Time) ([]types.StrengthEntry, error) {
	st := s.store()
	if st == nil {
		return nil, ErrNotStarted
	}
	rows, err := st.StrengthRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return strengthEntries(rows), nil
}

// Retention returns the cohort retention table.
func (s *Service) Retention(ctx context.Context) ([]types.RetentionEntry, error) {
	st := s.store()
	if st == nil {
		return nil, ErrNotStarted
	}
	rows, err := st.Retention(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.RetentionEntry, 0, len(rows))
	for _, r := range rows {
		ret := make(map[string]float64, len(r.Retention))
		for h, pct := range r.Retention {
			ret[strconv.Itoa(h)] = pct
		}
		out = append(out, types.RetentionEntry{
			Cohort:       r.Cohort,
			Battalion:    r.Unit.Battalion,
			Company:      r.Unit.Company,
			Platoon:      r.Unit.Platoon,
			Squad:        r.Unit.Squad,
			TotalMembers: r.TotalMembers,
			Retention:    ret,
		})
	}
	return out, nil
}

// Movements returns one member's movement timeline.
func (s *Service) Movements(ctx context.Context, memberID string) ([]types.MovementEntry, error) {
	st := s.store()
	if st == nil {
		return nil, ErrNotStarted
	}
	moves, err := st.Movements(ctx, memberID)
	if err != nil {
		return nil, err
	}
	out := make([]types.MovementEntry, 0, len(moves))
	for _, m := range moves {
		out = append(out, types.MovementEntry{
			Date:  model.FormatDate(m.Date),
			Label: m.Label,
		})
	}
	return out, nil
}

// Summary returns the last run's summary.
func (s *Service) Summary(ctx context.Context) (types.RunSummary, error) {
	st := s.store()
	if st == nil {
		return types.RunSummary{}, ErrNotStarted
	}
	return st.Summary(ctx)
}

func strengthEntries(rows []model.StrengthRow) []types.StrengthEntry {
	out := make([]types.StrengthEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.StrengthEntry{
			Date:      model.FormatDate(r.Date),
			Battalion: r.Unit.Battalion,
			Company:   r.Unit.Company,
			Platoon:   r.Unit.Platoon,
			Squad:     r.Unit.Squad,
			Strength:  r.Count,
		})
	}
	return out
}
