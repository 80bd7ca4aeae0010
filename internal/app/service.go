// Package service provides the core business service that implements
// the dependencies required by the HTTP API: it owns the acquisition
// client, the archive, the fold pipeline and the results repository, and
// runs one analysis batch at a time.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/cavops/muster/internal/adapters/archive"
	"github.com/cavops/muster/internal/adapters/cav"
	eventqueue "github.com/cavops/muster/internal/adapters/mq/queue"
	workerpool "github.com/cavops/muster/internal/adapters/mq/worker"
	"github.com/cavops/muster/internal/adapters/repository"
	"github.com/cavops/muster/internal/domain/analytics"
	"github.com/cavops/muster/internal/domain/dedupe"
	"github.com/cavops/muster/internal/domain/extract"
	"github.com/cavops/muster/internal/domain/membership"
	"github.com/cavops/muster/internal/domain/model"
	"github.com/cavops/muster/internal/domain/types"
	"github.com/cavops/muster/internal/domain/unit"
	"github.com/cavops/muster/internal/exporter"
	"github.com/cavops/muster/pkg/logger"
	"github.com/cavops/muster/pkg/metrics"
)

// pipelineFolder adapts the domain extract+fold to the worker.Folder
// contract. It is shared by all workers; the extractor is stateless.
type pipelineFolder struct {
	extractor *extract.Extractor
}

func (f *pipelineFolder) Fold(_ context.Context, doc workerpool.Document) (workerpool.Result, error) {
	events, skips := f.extractor.Events(doc)
	// Movements reuse the same records; their skips are already counted
	// through the events pass.
	moves, _ := f.extractor.Movements(doc)
	return workerpool.Result{
		MemberID:    doc.MemberID(),
		Memberships: membership.Build(events),
		Movements:   moves,
		Skips:       skips,
	}, nil
}

// RunOptions parameterizes one analysis run.
type RunOptions struct {
	// RunID identifies the run; generated when empty.
	RunID string

	// AsOf pins the reference date used to close open intervals. Zero
	// means "today", pinned once at run start.
	AsOf time.Time

	// Refresh fetches rosters and profiles from the API into the archive
	// before analyzing. Without it the run works from the archive alone.
	Refresh bool
}

// Service implements the API dependencies for the muster system.
type Service struct {
	mu sync.RWMutex

	// Core components
	results   repository.Store
	deduper   dedupe.Deduper
	client    *cav.Client
	arch      *archive.Archive
	csv       *exporter.CSVWriter
	extractor *extract.Extractor
	calc      *analytics.Calculator

	// Configuration
	workerCount     int
	queueSize       int
	dedupeSize      int
	archiveDir      string
	exportDir       string
	rosterTypes     []string
	horizons        []int
	perMemberAnchor bool
	defaultAsOf     time.Time

	// State
	started bool
	running atomic.Bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   50_000,
		dedupeSize:  100_000,
		archiveDir:  "data/milpacs",
		rosterTypes: cav.DefaultRosterTypes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.results = repository.NewSnapshotStore()
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.arch = archive.New(s.archiveDir)
	if s.exportDir != "" {
		s.csv = exporter.NewCSVWriter(s.exportDir)
	}

	// Suspect designators are logged, not rejected; the positional parse
	// stands either way.
	parser := unit.NewParser(unit.WithMismatchHook(func(seg string, expected, matched unit.Level) {
		s.logger.Debug(ctx, "designator segment matched the wrong level",
			logger.String("segment", seg),
			logger.String("expected", expected.String()),
			logger.String("matched", matched.String()),
		)
	}))
	s.extractor = extract.New(extract.WithParser(parser))

	calcOpts := []analytics.Option{analytics.WithHorizons(s.horizons)}
	if s.perMemberAnchor {
		calcOpts = append(calcOpts, analytics.WithPerMemberAnchor())
	}
	s.calc = analytics.NewCalculator(calcOpts...)

	s.started = true
	s.logger.Info(ctx, "muster service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("archiveDir", s.archiveDir),
	)
	return nil
}

// Stop shuts the service down. Runs in flight finish on their own context.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "muster service stopped")
}

// StartRun launches an analysis run in the background and returns its run
// ID. Only one run may be in flight at a time.
func (s *Service) StartRun(ctx context.Context, refresh bool) (string, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return "", ErrNotStarted
	}
	if !s.running.CompareAndSwap(false, true) {
		return "", ErrRunInProgress
	}

	runID := uuid.NewString()
	go func() {
		defer s.running.Store(false)
		if _, err := s.run(context.WithoutCancel(ctx), RunOptions{RunID: runID, Refresh: refresh}); err != nil {
			s.logger.Error(ctx, "run failed",
				logger.String("runID", runID),
				logger.Error(err),
			)
		}
	}()
	return runID, nil
}

// Run executes one analysis run synchronously.
func (s *Service) Run(ctx context.Context, opts RunOptions) (types.RunSummary, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return types.RunSummary{}, ErrNotStarted
	}
	if !s.running.CompareAndSwap(false, true) {
		return types.RunSummary{}, ErrRunInProgress
	}
	defer s.running.Store(false)
	return s.run(ctx, opts)
}

// run is the batch pipeline: optional refresh, parallel fold, merge,
// aggregate, publish, export.
func (s *Service) run(ctx context.Context, opts RunOptions) (types.RunSummary, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRunDuration(time.Since(start).Seconds())
	}()

	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = s.defaultAsOf
	}
	if asOf.IsZero() {
		// Pin "now" once so the whole run shares one reference date.
		asOf = time.Now()
	}
	asOf = model.Day(asOf)

	summary := types.RunSummary{
		RunID:     opts.RunID,
		AsOf:      model.FormatDate(asOf),
		StartedAt: start.UTC().Format(time.RFC3339),
	}
	log := s.logger.Named("run")
	log.Info(ctx, "starting analysis run",
		logger.String("runID", opts.RunID),
		logger.String("asOf", summary.AsOf),
		logger.Bool("refresh", opts.Refresh),
	)

	if opts.Refresh {
		fetched, failures, err := s.refresh(ctx)
		if err != nil {
			return summary, fmt.Errorf("refresh archive: %w", err)
		}
		summary.FetchFailures = failures
		log.Info(ctx, "archive refreshed",
			logger.Int("fetched", fetched),
			logger.Int("failures", failures),
		)
	}

	merged, err := s.mapAndMerge(ctx, &summary)
	if err != nil {
		return summary, err
	}

	if len(merged.memberships) == 0 {
		// Distinguishable from a crash: an explicit empty run.
		summary.Empty = true
		summary.FinishedAt = time.Now().UTC().Format(time.RFC3339)
		metrics.RecordEmptyRun()
		s.results.Publish(ctx, repository.Snapshot{Summary: summary})
		log.Warn(ctx, "no relevant records found in any document", logger.String("runID", opts.RunID))
		return summary, nil
	}

	horizon, err := analytics.HorizonFrom(merged.memberships, asOf)
	if err != nil {
		return summary, err
	}
	strength, err := analytics.DailyStrength(merged.memberships, horizon)
	if err != nil {
		return summary, err
	}
	retention, err := s.calc.Retention(merged.memberships)
	if err != nil {
		return summary, err
	}

	summary.Memberships = len(merged.memberships)
	summary.StrengthRows = len(strength)
	summary.RetentionRows = len(retention)
	summary.FinishedAt = time.Now().UTC().Format(time.RFC3339)

	s.results.Publish(ctx, repository.Snapshot{
		Summary:     summary,
		Memberships: merged.memberships,
		Strength:    strength,
		Retention:   retention,
		Movements:   merged.movements,
	})
	metrics.RecordRun()

	if s.csv != nil {
		if _, err := s.csv.WriteDailyStrength(ctx, strength); err != nil {
			log.Error(ctx, "daily strength export failed", logger.Error(err))
		}
		if _, err := s.csv.WriteCohortRetention(ctx, retention, s.calc.Horizons()); err != nil {
			log.Error(ctx, "cohort retention export failed", logger.Error(err))
		}
	}

	log.Info(ctx, "analysis run complete",
		logger.String("runID", opts.RunID),
		logger.Int("members", summary.Members),
		logger.Int("memberships", summary.Memberships),
		logger.Int("skippedRecords", summary.SkippedRecords),
		logger.Duration("took", time.Since(start)),
	)
	return summary, nil
}

// refresh walks the configured rosters, claims each member once through the
// deduper, fetches the missing profiles and saves them to the archive.
func (s *Service) refresh(ctx context.Context) (fetched, failures int, err error) {
	if s.client == nil {
		return 0, 0, ErrNoClient
	}

	var memberIDs []string
	for _, rosterType := range s.rosterTypes {
		roster, err := s.client.Roster(ctx, rosterType)
		if err != nil {
			return fetched, failures, err
		}
		for id := range roster.Profiles {
			if s.deduper.SeenAndRecord(ctx, id) {
				metrics.RecordMemberDeduplicated()
				continue
			}
			memberIDs = append(memberIDs, id)
		}
		s.logger.Info(ctx, "roster walked",
			logger.String("type", rosterType),
			logger.Int("members", len(roster.Profiles)),
		)
	}

	profiles, fetchFailures := s.client.FetchProfiles(ctx, memberIDs)
	for _, p := range profiles {
		if err := s.arch.Save(ctx, p); err != nil {
			return fetched, failures, err
		}
		fetched++
	}

	failedIDs := make([]string, 0, len(fetchFailures))
	for _, f := range fetchFailures {
		failedIDs = append(failedIDs, f.MemberID)
		// Let a later run claim the member again.
		s.deduper.Unrecord(ctx, f.MemberID)
	}
	if err := s.arch.FailureLog(ctx, failedIDs); err != nil {
		return fetched, len(fetchFailures), err
	}
	return fetched, len(fetchFailures), nil
}

// mergeState is the single-writer accumulation of the map phase.
type mergeState struct {
	memberships []model.Membership
	movements   map[string][]model.Movement
}

// mapAndMerge folds every archived document in parallel and merges the
// per-member results once, on this goroutine.
func (s *Service) mapAndMerge(ctx context.Context, summary *types.RunSummary) (*mergeState, error) {
	q := eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	pool := workerpool.NewPool(s.workerCount, q, &pipelineFolder{extractor: s.extractor})
	pool.Start(ctx)

	// Producer: stream the archive into the queue, then close it so the
	// pool can drain and finish.
	walkErr := make(chan error, 1)
	go func() {
		defer func() {
			_ = q.Close()
		}()
		corrupt, err := s.arch.Walk(ctx, func(p model.Profile) error {
			if !q.Enqueue(ctx, p) {
				return fmt.Errorf("%w: member %s", ErrQueueRejected, p.MemberID())
			}
			return nil
		})
		if corrupt > 0 {
			s.logger.Warn(ctx, "corrupt documents skipped", logger.Int("count", corrupt))
		}
		walkErr <- err
	}()

	merged := &mergeState{movements: make(map[string][]model.Movement)}
	for res := range pool.Results() {
		summary.Documents++
		if len(res.Memberships) == 0 && len(res.Skips) == 0 {
			// No usable events; the member contributes nothing.
			continue
		}
		if len(res.Memberships) > 0 {
			summary.Members++
		}
		summary.SkippedRecords += len(res.Skips)
		metrics.RecordRecordsSkipped(len(res.Skips))
		for _, skip := range res.Skips {
			s.logger.Warn(ctx, "record skipped", logger.String("skip", skip.String()))
		}
		for _, m := range res.Memberships {
			if m.Unit.IsZero() {
				summary.UnknownUnits++
				metrics.RecordUnknownUnitInterval()
			}
		}
		merged.memberships = append(merged.memberships, res.Memberships...)
		if len(res.Movements) > 0 {
			merged.movements[res.MemberID] = res.Movements
		}
	}

	if err := <-walkErr; err != nil {
		return nil, err
	}

	// Deterministic merge order regardless of worker scheduling.
	sortMemberships(merged.memberships)
	return merged, nil
}

// sortMemberships orders intervals by member, then start date, then unit.
func sortMemberships(ms []model.Membership) {
	sort.Slice(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
		if a.MemberID != b.MemberID {
			return a.MemberID < b.MemberID
		}
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.Unit.Less(b.Unit)
	})
}

// store returns the results repository, or nil before Start.
func (s *Service) store() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"running":     s.running.Load(),
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.deduper != nil {
		stats["dedupedMembers"] = strconv.FormatInt(s.deduper.Size(), 10)
	}
	if s.results != nil {
		if summary, err := s.results.Summary(context.Background()); err == nil {
			stats["lastRun"] = summary
		}
	}
	return stats
}
