package analytics

import "sort"

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithHorizons sets the retention horizons in days. Non-positive values are
// dropped; the set is kept in ascending order.
func WithHorizons(horizons []int) Option {
	return func(c *Calculator) {
		var hs []int
		for _, h := range horizons {
			if h > 0 {
				hs = append(hs, h)
			}
		}
		if len(hs) > 0 {
			sort.Ints(hs)
			c.horizons = hs
		}
	}
}

// WithCohortKey sets the join-period labeling function.
func WithCohortKey(fn CohortKeyFunc) Option {
	return func(c *Calculator) {
		if fn != nil {
			c.cohortKey = fn
		}
	}
}

// WithPerMemberAnchor anchors each member's retention check at its own
// start date instead of the bucket's earliest start date.
func WithPerMemberAnchor() Option {
	return func(c *Calculator) {
		c.perMember = true
	}
}
