package extract_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/cavops/muster/internal/domain/extract"
	"github.com/cavops/muster/internal/domain/model"
)

func profile(id string, records ...model.Record) model.Profile {
	return model.Profile{
		User:    model.User{ID: id},
		Records: records,
	}
}

func TestEvents(t *testing.T) {
	Convey("Given an extractor", t, func() {
		e := extract.New()

		Convey("When a profile holds transfers and a discharge", func() {
			p := profile("m1",
				model.Record{Type: model.RecordTypeTransfer, Date: "2023-03-01", Details: "Transferred. Assigned B/2/C/2-7"},
				model.Record{Type: model.RecordTypeTransfer, Date: "2023-01-10", Details: "Assigned 005/02/03"},
				model.Record{Type: model.RecordTypeDischarge, Date: "2023-08-15", Details: "Retired from active service"},
			)
			events, skips := e.Events(p)

			Convey("Then events come back sorted by date", func() {
				So(skips, ShouldBeEmpty)
				So(events, ShouldHaveLength, 3)
				So(events[0].Date.Before(events[1].Date), ShouldBeTrue)
				So(events[1].Date.Before(events[2].Date), ShouldBeTrue)
			})

			Convey("And transfer events carry the parsed unit", func() {
				So(events[0].Kind, ShouldEqual, model.Transfer)
				So(events[0].Unit.IsBootCamp(), ShouldBeTrue)
				So(events[1].Unit.Squad, ShouldEqual, "2")
				So(events[1].Unit.Battalion, ShouldEqual, "2-7")
			})

			Convey("And the discharge carries its reason", func() {
				So(events[2].Kind, ShouldEqual, model.Discharge)
				So(events[2].DischargeReason, ShouldEqual, model.ReasonRetired)
			})
		})

		Convey("When the designator sits after multiple markers", func() {
			p := profile("m1",
				model.Record{Type: model.RecordTypeTransfer, Date: "2023-01-10", Details: "Assigned to training. Later Assigned A/1/B/1-7"},
			)
			events, _ := e.Events(p)

			Convey("Then the text after the last marker wins", func() {
				So(events, ShouldHaveLength, 1)
				So(events[0].Unit.Squad, ShouldEqual, "1")
				So(events[0].Unit.Company, ShouldEqual, "B")
			})
		})

		Convey("When a record has a bad or missing date", func() {
			p := profile("m1",
				model.Record{Type: model.RecordTypeTransfer, Date: "10/01/2023", Details: "Assigned A/1/B/1-7"},
				model.Record{Type: model.RecordTypeTransfer, Date: "  ", Details: "Assigned A/1/B/1-7"},
				model.Record{Type: model.RecordTypeTransfer, Date: "2023-02-01", Details: "Assigned A/1/B/1-7"},
			)
			events, skips := e.Events(p)

			Convey("Then the bad records are skipped, not fatal", func() {
				So(events, ShouldHaveLength, 1)
				So(skips, ShouldHaveLength, 2)
				So(errors.Is(skips[0].Err, extract.ErrBadDate), ShouldBeTrue)
				So(errors.Is(skips[1].Err, extract.ErrMissingDate), ShouldBeTrue)
			})

			Convey("And skips identify the member and record position", func() {
				So(skips[0].MemberID, ShouldEqual, "m1")
				So(skips[0].Index, ShouldEqual, 0)
				So(skips[1].Index, ShouldEqual, 1)
			})
		})

		Convey("When records are of unrelated types", func() {
			p := profile("m1",
				model.Record{Type: "RECORD_TYPE_PROMOTION", Date: "2023-01-10", Details: "Promoted"},
				model.Record{Type: "RECORD_TYPE_AWARD", Date: "2023-02-10", Details: "Awarded"},
			)
			events, skips := e.Events(p)

			Convey("Then they are ignored without skips", func() {
				So(events, ShouldBeEmpty)
				So(skips, ShouldBeEmpty)
			})
		})

		Convey("When a discharge does not mention retirement", func() {
			p := profile("m1",
				model.Record{Type: model.RecordTypeDischarge, Date: "2023-08-15", Details: "General discharge"},
			)
			events, _ := e.Events(p)

			So(events[0].DischargeReason, ShouldEqual, model.ReasonDischarged)
		})
	})
}

func TestMovements(t *testing.T) {
	Convey("Given an extractor", t, func() {
		e := extract.New()

		Convey("When building a movement timeline", func() {
			p := profile("m1",
				model.Record{Type: model.RecordTypeTransfer, Date: "2023-01-10", Details: "Assigned 005/02/03"},
				model.Record{Type: model.RecordTypeTransfer, Date: "2023-03-01", Details: "Moved to A/1/B/1-7 today"},
				model.Record{Type: model.RecordTypeDischarge, Date: "2023-08-15", Details: "Retired from service"},
			)
			moves, skips := e.Movements(p)

			Convey("Then each step gets a normalized label", func() {
				So(skips, ShouldBeEmpty)
				So(moves, ShouldHaveLength, 3)
				So(moves[0].Label, ShouldEqual, "Boot Camp")
				So(moves[1].Label, ShouldEqual, "1/1/B/1-7")
				So(moves[2].Label, ShouldEqual, "Retired")
			})
		})

		Convey("When a transfer has no slash-bearing token", func() {
			p := profile("m1",
				model.Record{Type: model.RecordTypeTransfer, Date: "2023-01-10", Details: "Assigned somewhere"},
			)
			moves, _ := e.Movements(p)

			So(moves[0].Label, ShouldEqual, "Unknown")
		})

		Convey("When a discharge is not a retirement", func() {
			p := profile("m1",
				model.Record{Type: model.RecordTypeDischarge, Date: "2023-08-15", Details: "Discharged"},
			)
			moves, _ := e.Movements(p)

			So(moves[0].Label, ShouldEqual, "Discharged")
		})
	})
}
