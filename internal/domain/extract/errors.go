package extract

import "errors"

// Sentinel kinds for record-level skips. These allow errors.Is from callers
// counting skip causes.
var (
	ErrBadDate     = errors.New("record date is not a calendar date")
	ErrMissingDate = errors.New("record date is missing")
)
