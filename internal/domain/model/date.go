package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used throughout: record dates,
// query parameters and CSV output.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC-midnight time. All domain
// dates are day-granular; keeping them at UTC midnight makes AddDate
// arithmetic and equality checks exact.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	return t.UTC(), nil
}

// Day truncates t to UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a day-granular time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
