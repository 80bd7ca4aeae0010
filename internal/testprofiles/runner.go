package testprofiles

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cavops/muster/internal/domain/types"
	"github.com/cavops/muster/pkg/logger"
)

// pollInterval is how often the runner checks whether the run finished.
const pollInterval = 2 * time.Second

// Run executes the full smoke test: generate, trigger, wait, verify.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{}
	start := time.Now()

	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}
	logger.Get().Info(ctx, "starting smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("profiles", config.NumProfiles),
		logger.Int64("seed", config.Seed),
	)

	if err := generateProfiles(ctx, config, stats); err != nil {
		return err
	}

	c := &client{
		baseURL: config.BaseURL,
		httpc:   &http.Client{Timeout: config.Timeout},
	}

	runID, err := c.triggerRun(ctx)
	if err != nil {
		return err
	}
	stats.RunID = runID
	logger.Get().Info(ctx, "run triggered", logger.String("runID", runID))

	summary, err := waitForRun(ctx, c, runID, config.PollTimeout)
	if err != nil {
		return err
	}
	stats.Documents = summary.Documents
	stats.Memberships = summary.Memberships
	if summary.Empty {
		return fmt.Errorf("run %s published an empty snapshot", runID)
	}

	// The run's horizon covers every generated interval; query it whole.
	strength, err := c.strengthRange(ctx, "2000-01-01", summary.AsOf)
	if err != nil {
		return err
	}
	if err := verifyStrength(ctx, strength, stats); err != nil {
		return err
	}

	retention, err := c.retention(ctx)
	if err != nil {
		return err
	}
	if err := verifyRetention(ctx, retention, stats); err != nil {
		return err
	}

	report(ctx, stats, time.Since(start))
	if stats.Errors > 0 {
		return fmt.Errorf("verification found %d errors", stats.Errors)
	}
	return nil
}

// waitForRun polls /summary until the triggered run publishes or the wait
// times out.
func waitForRun(ctx context.Context, c *client, runID string, timeout time.Duration) (types.RunSummary, error) {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return types.RunSummary{}, fmt.Errorf("wait for run: %w", ctx.Err())
		case <-ticker.C:
		}
		if time.Now().After(deadline) {
			return types.RunSummary{}, fmt.Errorf("run %s did not publish within %s", runID, timeout)
		}

		s, found, err := c.summary(ctx)
		if err != nil {
			return types.RunSummary{}, err
		}
		if found && s.RunID == runID && s.FinishedAt != "" {
			return s, nil
		}
	}
}

// report logs the final test outcome.
func report(ctx context.Context, stats *Stats, took time.Duration) {
	logger.Get().Info(ctx, "smoke test complete",
		logger.String("runID", stats.RunID),
		logger.Int("profilesGenerated", stats.ProfilesGenerated),
		logger.Int("documents", stats.Documents),
		logger.Int("memberships", stats.Memberships),
		logger.Int("strengthRows", stats.StrengthRows),
		logger.Int("retentionRows", stats.RetentionRows),
		logger.Int("errors", stats.Errors),
		logger.Duration("took", took),
	)
}
