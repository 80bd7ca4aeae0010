// Package analytics derives the aggregate views from membership intervals:
// the daily per-unit strength table and cohort retention metrics.
package analytics

import (
	"sort"
	"time"

	"github.com/cavops/muster/internal/domain/model"
)

// Horizon is the inclusive reporting date range of a strength run. Open
// intervals are pinned to Max so the expansion stays deterministic.
type Horizon struct {
	Min time.Time
	Max time.Time
}

// HorizonFrom derives the reporting horizon from the data: earliest start
// date through the pinned as-of date.
func HorizonFrom(memberships []model.Membership, asOf time.Time) (Horizon, error) {
	if len(memberships) == 0 {
		return Horizon{}, ErrNoMemberships
	}
	h := Horizon{Min: memberships[0].StartDate, Max: model.Day(asOf)}
	for _, m := range memberships[1:] {
		if m.StartDate.Before(h.Min) {
			h.Min = m.StartDate
		}
	}
	return h, nil
}

// bucket keys the running counter. All dates are UTC midnight, so the
// time.Time field is safe as a map key.
type bucket struct {
	date time.Time
	unit model.UnitDesignator
}

// DailyStrength expands membership intervals into per-day, per-unit
// headcounts over the horizon.
//
// Every calendar date in [StartDate, EndDate-or-horizon-end] contributes
// one count to its (date, unit) bucket. Intervals stream one at a time
// into the counter; the full member-day join is never materialized. Rows
// come back sorted by date, then battalion, company, platoon, squad.
func DailyStrength(memberships []model.Membership, h Horizon) ([]model.StrengthRow, error) {
	if len(memberships) == 0 {
		return nil, ErrNoMemberships
	}

	counts := make(map[bucket]int)
	for _, m := range memberships {
		end := m.EndDate
		if m.Open() {
			end = h.Max
		}
		for d := m.StartDate; !d.After(end); d = d.AddDate(0, 0, 1) {
			counts[bucket{date: d, unit: m.Unit}]++
		}
	}

	rows := make([]model.StrengthRow, 0, len(counts))
	for b, n := range counts {
		rows = append(rows, model.StrengthRow{Date: b.date, Unit: b.unit, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].Unit.Less(rows[j].Unit)
	})
	return rows, nil
}
