package testprofiles

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/cavops/muster/internal/domain/types"
	"github.com/cavops/muster/pkg/logger"
)

// verifyStrength checks structural properties of the strength table.
func verifyStrength(ctx context.Context, entries []types.StrengthEntry, stats *Stats) error {
	if len(entries) == 0 {
		return fmt.Errorf("strength table is empty")
	}
	for _, e := range entries {
		if e.Strength < 1 {
			stats.Errors++
			logger.Get().Error(ctx, "non-positive strength row",
				logger.String("date", e.Date),
				logger.String("battalion", e.Battalion),
				logger.Int("strength", e.Strength),
			)
		}
	}
	stats.StrengthRows = len(entries)
	logger.Get().Info(ctx, "strength table verified", logger.Int("rows", len(entries)))
	return nil
}

// verifyRetention checks that every percentage is within [0,100] and that
// retention never increases as the horizon grows.
func verifyRetention(ctx context.Context, entries []types.RetentionEntry, stats *Stats) error {
	if len(entries) == 0 {
		return fmt.Errorf("retention table is empty")
	}

	for _, e := range entries {
		if e.TotalMembers < 1 {
			stats.Errors++
			logger.Get().Error(ctx, "retention row without members",
				logger.String("cohort", e.Cohort),
				logger.String("battalion", e.Battalion),
			)
		}

		horizons := make([]int, 0, len(e.Retention))
		for k := range e.Retention {
			h, err := strconv.Atoi(k)
			if err != nil {
				stats.Errors++
				continue
			}
			horizons = append(horizons, h)
		}
		sort.Ints(horizons)

		prev := 100.0
		for _, h := range horizons {
			pct := e.Retention[strconv.Itoa(h)]
			if pct < 0 || pct > 100 {
				stats.Errors++
				logger.Get().Error(ctx, "retention percentage out of range",
					logger.String("cohort", e.Cohort),
					logger.Int("horizon", h),
					logger.Float64("pct", pct),
				)
			}
			if pct > prev {
				stats.Errors++
				logger.Get().Error(ctx, "retention increased with horizon",
					logger.String("cohort", e.Cohort),
					logger.Int("horizon", h),
					logger.Float64("pct", pct),
					logger.Float64("prev", prev),
				)
			}
			prev = pct
		}
	}

	stats.RetentionRows = len(entries)
	logger.Get().Info(ctx, "retention table verified", logger.Int("rows", len(entries)))
	return nil
}
