package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/cavops/muster/internal/domain/model"
)

// Default retention horizons in days.
var defaultHorizons = []int{30, 90, 180, 365}

// CohortKeyFunc labels the join period of a membership start date.
type CohortKeyFunc func(start time.Time) string

// MonthlyCohort is the default cohort key: the calendar month of the start
// date, formatted "YYYY-MM".
func MonthlyCohort(start time.Time) string {
	return start.Format("2006-01")
}

// Calculator computes cohort retention from membership intervals.
type Calculator struct {
	horizons  []int
	cohortKey CohortKeyFunc
	perMember bool
}

// NewCalculator creates a Calculator with configuration options.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		horizons:  defaultHorizons,
		cohortKey: MonthlyCohort,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Horizons returns the configured horizon set in ascending order.
func (c *Calculator) Horizons() []int {
	out := make([]int, len(c.horizons))
	copy(out, c.horizons)
	return out
}

// Retention groups intervals by (cohort, unit) and computes the percentage
// still active at each horizon.
//
// By default the check date for horizon H is anchored to the earliest start
// date in the bucket — the whole bucket is treated as joining on one day.
// That understates or overstates retention for members joining mid-period;
// WithPerMemberAnchor switches to anchoring each member at its own start
// date instead. An interval counts as retained when it is still open or its
// end date is on or after the check date. Percentages are rounded to two
// decimals.
func (c *Calculator) Retention(memberships []model.Membership) ([]model.RetentionRow, error) {
	if len(memberships) == 0 {
		return nil, ErrNoMemberships
	}

	type groupKey struct {
		cohort string
		unit   model.UnitDesignator
	}
	groups := make(map[groupKey][]model.Membership)
	for _, m := range memberships {
		k := groupKey{cohort: c.cohortKey(m.StartDate), unit: m.Unit}
		groups[k] = append(groups[k], m)
	}

	rows := make([]model.RetentionRow, 0, len(groups))
	for k, members := range groups {
		row := model.RetentionRow{
			Cohort:       k.cohort,
			Unit:         k.unit,
			TotalMembers: len(members),
			Retention:    make(map[int]float64, len(c.horizons)),
		}

		anchor := members[0].StartDate
		for _, m := range members[1:] {
			if m.StartDate.Before(anchor) {
				anchor = m.StartDate
			}
		}

		for _, h := range c.horizons {
			retained := 0
			for _, m := range members {
				start := anchor
				if c.perMember {
					start = m.StartDate
				}
				check := start.AddDate(0, 0, h)
				if m.Open() || !m.EndDate.Before(check) {
					retained++
				}
			}
			pct := 100 * float64(retained) / float64(len(members))
			row.Retention[h] = math.Round(pct*100) / 100
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Cohort != rows[j].Cohort {
			return rows[i].Cohort < rows[j].Cohort
		}
		return rows[i].Unit.Less(rows[j].Unit)
	})
	return rows, nil
}
