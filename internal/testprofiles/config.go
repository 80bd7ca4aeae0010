// Package testprofiles generates synthetic milpacs profiles and smoke-tests
// a running muster service end to end: seed an archive, trigger a run, then
// verify the published strength and retention tables.
package testprofiles

import (
	"os"
	"time"
)

// Config holds the test run configuration.
type Config struct {
	BaseURL     string
	NumProfiles int
	ArchiveDir  string
	Seed        int64
	Timeout     time.Duration
	PollTimeout time.Duration
	Verbose     bool
}

// Stats tracks test progress for the final report.
type Stats struct {
	ProfilesGenerated int
	RunID             string
	Documents         int
	Memberships       int
	StrengthRows      int
	RetentionRows     int
	Errors            int
}

// ShowHelp prints usage information.
func ShowHelp() {
	help := `test-profiles - seed and smoke-test a muster service

Generates synthetic milpacs profiles into the service's archive directory,
triggers an analysis run over them and verifies the published tables.

Usage:
  test-profiles [flags]

Flags:
  -url string       Base URL of the service (default "http://localhost:9080")
  -profiles int     Number of profiles to generate (default 500)
  -archive string   Archive directory to seed (default "data/milpacs")
  -seed int         Random seed; 0 uses the current time
  -timeout duration HTTP request timeout (default 30s)
  -poll duration    How long to wait for the run to finish (default 2m)
  -verbose          Enable verbose logging
  -help             Show this help

The archive directory must be the one the target service reads, or the run
will not see the generated profiles.
`
	os.Stdout.WriteString(help)
}
