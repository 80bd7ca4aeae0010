package service

import (
	"time"

	"github.com/cavops/muster/internal/adapters/cav"
	"github.com/cavops/muster/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of fold workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the in-memory document queue of a run.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the member-ID dedupe set.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClient sets the roster/milpacs API client used by refresh runs.
// Without a client the service analyzes the archive only.
func WithClient(c *cav.Client) Option {
	return func(s *Service) {
		s.client = c
	}
}

// WithArchiveDir sets the profile archive directory.
func WithArchiveDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.archiveDir = dir
		}
	}
}

// WithExportDir enables CSV export into dir after each run.
func WithExportDir(dir string) Option {
	return func(s *Service) {
		s.exportDir = dir
	}
}

// WithRosterTypes sets the roster types whose members are analyzed.
func WithRosterTypes(types []string) Option {
	return func(s *Service) {
		if len(types) > 0 {
			s.rosterTypes = types
		}
	}
}

// WithHorizons sets the retention horizons in days.
func WithHorizons(horizons []int) Option {
	return func(s *Service) {
		s.horizons = horizons
	}
}

// WithPerMemberAnchor switches retention to per-member check dates.
func WithPerMemberAnchor(on bool) Option {
	return func(s *Service) {
		s.perMemberAnchor = on
	}
}

// WithAsOf pins the default reference date for runs that do not set one.
func WithAsOf(asOf time.Time) Option {
	return func(s *Service) {
		s.defaultAsOf = asOf
	}
}
