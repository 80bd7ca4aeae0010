package analytics

import "errors"

// Sentinel kinds for aggregate errors. An empty population is reported to
// the caller, never treated as a crash.
var (
	ErrNoMemberships = errors.New("no membership intervals to aggregate")
)
