package exporter_test

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/cavops/muster/internal/domain/model"
	"github.com/cavops/muster/internal/exporter"
	"github.com/cavops/muster/pkg/logger"
)

func TestMain(m *testing.M) {
	_ = logger.InitWithWriter(io.Discard)
	m.Run()
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	So(err, ShouldBeNil)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	So(err, ShouldBeNil)
	return records
}

func TestWriteDailyStrength(t *testing.T) {
	Convey("Given a CSV writer", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		w := exporter.NewCSVWriter(dir)

		alpha := model.UnitDesignator{Squad: "1", Platoon: "2", Company: "B", Battalion: "2-7"}

		Convey("When writing the strength table", func() {
			path, err := w.WriteDailyStrength(ctx, []model.StrengthRow{
				{Date: day(2023, 1, 1), Unit: alpha, Count: 12},
				{Date: day(2023, 1, 1), Unit: model.BootCamp(), Count: 3},
			})

			Convey("Then the file lands in the export directory", func() {
				So(err, ShouldBeNil)
				So(path, ShouldEqual, filepath.Join(dir, exporter.StrengthFileName))
			})

			Convey("And the rows follow the fixed column layout", func() {
				records := readCSV(t, path)
				So(records, ShouldHaveLength, 3)
				So(records[0], ShouldResemble, []string{"date", "Battalion", "Company", "Platoon", "Squad", "strength"})
				So(records[1], ShouldResemble, []string{"2023-01-01", "2-7", "B", "2", "1", "12"})
				So(records[2], ShouldResemble, []string{"2023-01-01", "Boot Camp", "", "", "", "3"})
			})
		})

		Convey("When writing an empty table", func() {
			path, err := w.WriteDailyStrength(ctx, nil)

			Convey("Then only the header is written", func() {
				So(err, ShouldBeNil)
				So(readCSV(t, path), ShouldHaveLength, 1)
			})
		})
	})
}

func TestWriteCohortRetention(t *testing.T) {
	Convey("Given a CSV writer", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		w := exporter.NewCSVWriter(dir)

		alpha := model.UnitDesignator{Squad: "1", Platoon: "2", Company: "B", Battalion: "2-7"}

		Convey("When writing the retention table", func() {
			rows := []model.RetentionRow{
				{
					Cohort:       "2023-01",
					Unit:         alpha,
					TotalMembers: 3,
					Retention:    map[int]float64{30: 66.67, 90: 33.33},
				},
			}
			path, err := w.WriteCohortRetention(ctx, rows, []int{30, 90})

			Convey("Then the horizon columns follow the configured order", func() {
				So(err, ShouldBeNil)
				records := readCSV(t, path)
				So(records, ShouldHaveLength, 2)
				So(records[0], ShouldResemble, []string{
					"Cohort", "Battalion", "Company", "Platoon", "Squad",
					"Total Members", "Retention @ 30 days", "Retention @ 90 days",
				})
				So(records[1], ShouldResemble, []string{
					"2023-01", "2-7", "B", "2", "1", "3", "66.67", "33.33",
				})
			})
		})

		Convey("When a horizon is missing from a row", func() {
			rows := []model.RetentionRow{
				{Cohort: "2023-02", Unit: alpha, TotalMembers: 1, Retention: map[int]float64{30: 100}},
			}
			path, err := w.WriteCohortRetention(ctx, rows, []int{30, 90})

			Convey("Then the absent cell renders as zero", func() {
				So(err, ShouldBeNil)
				records := readCSV(t, path)
				So(records[1][7], ShouldEqual, "0.00")
			})
		})
	})
}
