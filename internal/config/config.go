// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Layer defaults, optional YAML file and MUSTER_-prefixed env vars.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory document queue of a run.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of fold workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the member-ID dedupe set.
	DedupeSize int `koanf:"dedupe_size"`

	// ArchiveDir is where fetched profile documents live.
	ArchiveDir string `koanf:"archive_dir"`

	// ExportDir is where CSV tables are written. Empty disables export.
	ExportDir string `koanf:"export_dir"`

	// APIBaseURL is the roster/milpacs API root, e.g. "https://api.7cav.us".
	APIBaseURL string `koanf:"api_base_url"`

	// APIToken is the bearer token for the roster/milpacs API.
	APIToken string `koanf:"api_token"`

	// RosterTypes lists the roster types whose members are analyzed.
	RosterTypes []string `koanf:"roster_types"`

	// FetchConcurrency bounds in-flight profile fetches.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// FetchRateLimit caps API requests per second.
	FetchRateLimit float64 `koanf:"fetch_rate_limit"`

	// RetentionHorizons are the retention check offsets in days.
	RetentionHorizons []int `koanf:"retention_horizons"`

	// AsOf pins the reference date ("YYYY-MM-DD") used to close open
	// intervals. Empty means today at run time, pinned once per run.
	AsOf string `koanf:"as_of"`

	// PerMemberAnchor switches retention to per-member check dates
	// instead of the bucket's earliest start date.
	PerMemberAnchor bool `koanf:"per_member_anchor"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		QueueSize:         50_000,
		WorkerCount:       runtime.NumCPU() * 2,
		DedupeSize:        100_000,
		ArchiveDir:        "data/milpacs",
		ExportDir:         "data/reports",
		APIBaseURL:        "https://api.7cav.us",
		RosterTypes:       []string{"COMBAT", "RESERVE", "ELOA"},
		FetchConcurrency:  5,
		FetchRateLimit:    5,
		RetentionHorizons: []int{30, 90, 180, 365},
	}
}
