package model_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/cavops/muster/internal/domain/model"
)

func TestDates(t *testing.T) {
	Convey("Given the date helpers", t, func() {
		Convey("When parsing a valid date", func() {
			d, err := model.ParseDate("2023-04-15")

			Convey("Then it is UTC midnight", func() {
				So(err, ShouldBeNil)
				So(d.Year(), ShouldEqual, 2023)
				So(d.Month(), ShouldEqual, time.April)
				So(d.Day(), ShouldEqual, 15)
				So(d.Location(), ShouldEqual, time.UTC)
				So(d.Hour(), ShouldEqual, 0)
			})
		})

		Convey("When parsing a malformed date", func() {
			_, err := model.ParseDate("15/04/2023")

			Convey("Then it fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When truncating a timestamp", func() {
			ts := time.Date(2023, 4, 15, 17, 33, 9, 0, time.UTC)

			Convey("Then Day drops the time of day", func() {
				So(model.Day(ts), ShouldResemble, time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC))
			})
		})

		Convey("When formatting", func() {
			d := time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC)
			So(model.FormatDate(d), ShouldEqual, "2023-04-15")
		})
	})
}

func TestUnitDesignator(t *testing.T) {
	Convey("Given unit designators", t, func() {
		Convey("When the designator is Boot Camp", func() {
			u := model.BootCamp()

			So(u.IsBootCamp(), ShouldBeTrue)
			So(u.IsZero(), ShouldBeFalse)
			So(u.Label(), ShouldEqual, "Boot Camp")
		})

		Convey("When the designator is fully unknown", func() {
			var u model.UnitDesignator

			So(u.IsZero(), ShouldBeTrue)
			So(u.Label(), ShouldEqual, "Unknown")
		})

		Convey("When the designator is partially known", func() {
			u := model.UnitDesignator{Platoon: "2", Battalion: "2-7"}

			Convey("Then Label marks the unknown levels", func() {
				So(u.Label(), ShouldEqual, "?/2/?/2-7")
			})
		})

		Convey("When comparing designators", func() {
			a := model.UnitDesignator{Squad: "1", Platoon: "1", Company: "A", Battalion: "1-7"}
			b := model.UnitDesignator{Squad: "1", Platoon: "1", Company: "B", Battalion: "1-7"}
			unknown := model.UnitDesignator{}

			Convey("Then order runs battalion, company, platoon, squad", func() {
				So(a.Less(b), ShouldBeTrue)
				So(b.Less(a), ShouldBeFalse)
			})

			Convey("And unknown levels sort first", func() {
				So(unknown.Less(a), ShouldBeTrue)
			})
		})

		Convey("When grouping by key", func() {
			a := model.UnitDesignator{Squad: "1", Platoon: "2", Company: "B", Battalion: "2-7"}
			b := model.UnitDesignator{Squad: "1", Platoon: "2", Company: "B", Battalion: "2-7"}

			So(a.Key(), ShouldEqual, b.Key())
		})
	})
}

func TestMembership(t *testing.T) {
	Convey("Given membership intervals", t, func() {
		start := time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)
		asOf := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

		Convey("When the interval is open", func() {
			m := model.Membership{StartDate: start}

			So(m.Open(), ShouldBeTrue)

			Convey("Then Covers closes it at the as-of date", func() {
				So(m.Covers(start, asOf), ShouldBeTrue)
				So(m.Covers(asOf, asOf), ShouldBeTrue)
				So(m.Covers(asOf.AddDate(0, 0, 1), asOf), ShouldBeFalse)
				So(m.Covers(start.AddDate(0, 0, -1), asOf), ShouldBeFalse)
			})
		})

		Convey("When the interval is closed", func() {
			end := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
			m := model.Membership{StartDate: start, EndDate: end}

			So(m.Open(), ShouldBeFalse)
			So(m.Covers(end, asOf), ShouldBeTrue)
			So(m.Covers(end.AddDate(0, 0, 1), asOf), ShouldBeFalse)
		})
	})
}

func TestProfileMemberID(t *testing.T) {
	Convey("Given milpacs profiles", t, func() {
		Convey("When the user has an ID", func() {
			p := model.Profile{User: model.User{ID: "123", Username: "alpha"}}
			So(p.MemberID(), ShouldEqual, "123")
		})

		Convey("When only the username is known", func() {
			p := model.Profile{User: model.User{Username: "alpha"}}
			So(p.MemberID(), ShouldEqual, "alpha")
		})
	})
}
