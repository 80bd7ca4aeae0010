// Package extract classifies raw service records into date-ordered events.
//
// Extraction is deliberately forgiving: a malformed record is skipped and
// reported, never fatal to the member or the run, and record types outside
// the transfer/discharge pair are ignored.
package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cavops/muster/internal/domain/model"
	"github.com/cavops/muster/internal/domain/unit"
)

// assignedMarker precedes the unit designator in transfer record details,
// e.g. "Transferred from X. Assigned 2/3/B/2-7". The designator is the text
// after the last occurrence.
const assignedMarker = "Assigned"

// Skip identifies one record dropped during extraction.
type Skip struct {
	MemberID string
	Index    int // position in the member's record list
	Err      error
}

func (s Skip) String() string {
	return fmt.Sprintf("member %s record %d: %v", s.MemberID, s.Index, s.Err)
}

// Extractor turns raw profiles into event sequences.
type Extractor struct {
	parser *unit.Parser
}

// New creates an Extractor with configuration options.
func New(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.parser == nil {
		e.parser = unit.NewParser()
	}
	return e
}

// Events scans a member's records and returns the transfer/discharge events
// sorted ascending by date. The sort is stable, so same-day records keep
// their arrival order. Records with a bad date or missing fields are
// returned as skips alongside the usable events.
func (e *Extractor) Events(p model.Profile) ([]model.Event, []Skip) {
	memberID := p.MemberID()
	var events []model.Event
	var skips []Skip

	for i, rec := range p.Records {
		switch rec.Type {
		case model.RecordTypeTransfer, model.RecordTypeDischarge:
		default:
			continue
		}

		if strings.TrimSpace(rec.Date) == "" {
			skips = append(skips, Skip{MemberID: memberID, Index: i, Err: ErrMissingDate})
			continue
		}
		date, err := model.ParseDate(rec.Date)
		if err != nil {
			skips = append(skips, Skip{MemberID: memberID, Index: i, Err: fmt.Errorf("%w: %v", ErrBadDate, err)})
			continue
		}

		ev := model.Event{
			MemberID: memberID,
			Date:     date,
			RawText:  rec.Details,
		}
		if rec.Type == model.RecordTypeTransfer {
			ev.Kind = model.Transfer
			ev.Unit = e.parser.Parse(designatorText(rec.Details))
		} else {
			ev.Kind = model.Discharge
			ev.DischargeReason = dischargeReason(rec.Details)
		}
		events = append(events, ev)
	}

	sort.SliceStable(events, func(a, b int) bool {
		return events[a].Date.Before(events[b].Date)
	})
	return events, skips
}

// Movements produces the simpler cohort-movement timeline for one member:
// for transfers, the first slash-bearing token of the details normalized to
// a unit label; for discharges, a terminal Retired/Discharged state.
func (e *Extractor) Movements(p model.Profile) ([]model.Movement, []Skip) {
	memberID := p.MemberID()
	var moves []model.Movement
	var skips []Skip

	for i, rec := range p.Records {
		var label string
		switch rec.Type {
		case model.RecordTypeTransfer:
			label = unit.NormalizeLabel(firstUnitToken(rec.Details))
		case model.RecordTypeDischarge:
			if dischargeReason(rec.Details) == model.ReasonRetired {
				label = "Retired"
			} else {
				label = "Discharged"
			}
		default:
			continue
		}

		date, err := model.ParseDate(rec.Date)
		if err != nil {
			skips = append(skips, Skip{MemberID: memberID, Index: i, Err: fmt.Errorf("%w: %v", ErrBadDate, err)})
			continue
		}
		moves = append(moves, model.Movement{Date: date, Label: label})
	}

	sort.SliceStable(moves, func(a, b int) bool {
		return moves[a].Date.Before(moves[b].Date)
	})
	return moves, skips
}

// designatorText isolates the unit designator in transfer details: the text
// after the last "Assigned" marker, or the whole details when the marker is
// absent.
func designatorText(details string) string {
	if idx := strings.LastIndex(details, assignedMarker); idx >= 0 {
		return strings.TrimSpace(details[idx+len(assignedMarker):])
	}
	return strings.TrimSpace(details)
}

// firstUnitToken returns the first whitespace-delimited token containing a
// slash, the movement-summary approximation of the unit designator.
func firstUnitToken(details string) string {
	for _, w := range strings.Fields(details) {
		if strings.Contains(w, "/") {
			return w
		}
	}
	return ""
}

// dischargeReason classifies a discharge record by its details text.
func dischargeReason(details string) string {
	if strings.Contains(strings.ToLower(details), model.ReasonRetired) {
		return model.ReasonRetired
	}
	return model.ReasonDischarged
}
