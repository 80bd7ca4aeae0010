// Package membership folds ordered event sequences into membership
// intervals.
package membership

import (
	"github.com/cavops/muster/internal/domain/model"
)

// Build folds one member's date-ordered events into non-overlapping
// membership intervals.
//
// The fold has two states: no open interval, or exactly one. A transfer at
// date D closes any open interval at D-1 and opens a new one at D; a
// discharge at D closes the open interval on D itself and leaves no
// successor. A discharge with nothing open is a no-op. An interval still
// open at the end of the sequence is emitted with a zero EndDate; closing
// it against a reference date is the aggregators' job, so repeated runs
// with the same pinned as-of date stay reproducible.
//
// Build cannot fail: malformed records are filtered out upstream.
func Build(events []model.Event) []model.Membership {
	var out []model.Membership
	var current *model.Membership

	for _, ev := range events {
		switch ev.Kind {
		case model.Transfer:
			if current != nil {
				current.EndDate = ev.Date.AddDate(0, 0, -1)
				out = append(out, *current)
			}
			current = &model.Membership{
				MemberID:  ev.MemberID,
				Unit:      ev.Unit,
				StartDate: ev.Date,
			}
		case model.Discharge:
			if current != nil {
				current.EndDate = ev.Date
				out = append(out, *current)
				current = nil
			}
		}
	}

	if current != nil {
		out = append(out, *current)
	}
	return out
}
