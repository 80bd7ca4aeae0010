package model

import "time"

// Membership is a maximal span of calendar dates during which a member is
// continuously assigned to one unit designator. A zero EndDate marks the
// single still-open interval of a member who has not been discharged.
//
// For one member, intervals ordered by StartDate are contiguous and
// non-overlapping: a closed interval ends exactly one day before its
// successor starts, and a discharge closes the current interval on the
// discharge date itself with no successor.
type Membership struct {
	MemberID  string
	Unit      UnitDesignator
	StartDate time.Time
	EndDate   time.Time
}

// Open reports whether the interval has no end date yet.
func (m Membership) Open() bool {
	return m.EndDate.IsZero()
}

// Covers reports whether the interval contains day d, closing an open
// interval at asOf for the purposes of the check.
func (m Membership) Covers(d, asOf time.Time) bool {
	end := m.EndDate
	if m.Open() {
		end = asOf
	}
	return !d.Before(m.StartDate) && !d.After(end)
}

// StrengthRow is one cell of the daily strength table: the number of
// members assigned to a unit on a given day.
type StrengthRow struct {
	Date  time.Time
	Unit  UnitDesignator
	Count int
}

// RetentionRow reports, for one (cohort, unit) bucket, the fraction of
// joiners still active at each horizon.
type RetentionRow struct {
	Cohort       string
	Unit         UnitDesignator
	TotalMembers int
	// Retention maps a horizon in days to a percentage in [0,100],
	// rounded to two decimals.
	Retention map[int]float64
}
