// Package exporter writes the aggregate tables as CSV files.
//
// The CSV layer is presentation only: row content and ordering are fixed by
// the analytics package, the exporter just serializes.
package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cavops/muster/internal/domain/model"
	"github.com/cavops/muster/pkg/logger"
)

// Output file names.
const (
	StrengthFileName  = "daily_unit_strength.csv"
	RetentionFileName = "cohort_retention.csv"
)

// CSVWriter writes run outputs under one directory.
type CSVWriter struct {
	dir    string
	logger logger.Logger
}

// NewCSVWriter creates a writer rooted at dir with configuration options.
func NewCSVWriter(dir string, opts ...Option) *CSVWriter {
	w := &CSVWriter{
		dir:    dir,
		logger: logger.Get().Named("exporter"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteDailyStrength writes the daily strength table and returns the file
// path.
func (w *CSVWriter) WriteDailyStrength(ctx context.Context, rows []model.StrengthRow) (string, error) {
	headers := []string{"date", "Battalion", "Company", "Platoon", "Squad", "strength"}
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			model.FormatDate(r.Date),
			r.Unit.Battalion,
			r.Unit.Company,
			r.Unit.Platoon,
			r.Unit.Squad,
			strconv.Itoa(r.Count),
		})
	}
	return w.write(ctx, StrengthFileName, headers, records)
}

// WriteCohortRetention writes the cohort retention table for the given
// horizon set and returns the file path.
func (w *CSVWriter) WriteCohortRetention(ctx context.Context, rows []model.RetentionRow, horizons []int) (string, error) {
	headers := []string{"Cohort", "Battalion", "Company", "Platoon", "Squad", "Total Members"}
	for _, h := range horizons {
		headers = append(headers, fmt.Sprintf("Retention @ %d days", h))
	}

	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		rec := []string{
			r.Cohort,
			r.Unit.Battalion,
			r.Unit.Company,
			r.Unit.Platoon,
			r.Unit.Squad,
			strconv.Itoa(r.TotalMembers),
		}
		for _, h := range horizons {
			rec = append(rec, strconv.FormatFloat(r.Retention[h], 'f', 2, 64))
		}
		records = append(records, rec)
	}
	return w.write(ctx, RetentionFileName, headers, records)
}

// write serializes one table to dir/name.
func (w *CSVWriter) write(ctx context.Context, name string, headers []string, records [][]string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(w.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(headers); err != nil {
		return "", fmt.Errorf("write headers: %w", err)
	}
	for i, rec := range records {
		if err := cw.Write(rec); err != nil {
			return "", fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", name, err)
	}

	w.logger.Info(ctx, "wrote table",
		logger.String("path", path),
		logger.Int("rows", len(records)),
	)
	return path, nil
}
