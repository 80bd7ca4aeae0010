package testprofiles

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/cavops/muster/internal/adapters/archive"
	"github.com/cavops/muster/internal/domain/model"
	"github.com/cavops/muster/pkg/logger"
)

// Generation ranges.
const (
	earliestJoinYear  = 2018
	joinSpanDays      = 365 * 6
	maxExtraTransfers = 4
	transferGapMin    = 30
	transferGapSpan   = 300
	dischargeChance   = 0.35 // fraction of members who leave
	retireChance      = 0.3  // of those, fraction retiring
	bootCampChance    = 0.5  // fraction joining via a recruit slot
)

var (
	battalions = []string{"1-7", "2-7", "3-7", "ACD"}
	companies  = []string{"A", "B", "C", "D"}
	platoons   = []string{"1", "2", "3"}
	squads     = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
)

// generateProfiles writes numProfiles synthetic documents into the archive.
func generateProfiles(ctx context.Context, config *Config, stats *Stats) error {
	rng := rand.New(rand.NewSource(config.Seed))
	arch := archive.New(config.ArchiveDir)

	logger.Get().Info(ctx, "generating profiles",
		logger.Int("numProfiles", config.NumProfiles),
		logger.String("archiveDir", config.ArchiveDir),
	)

	for i := 0; i < config.NumProfiles; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		default:
		}

		p := generateProfile(rng)
		if err := arch.Save(ctx, p); err != nil {
			return fmt.Errorf("save profile %d: %w", i, err)
		}
		stats.ProfilesGenerated++
	}

	logger.Get().Info(ctx, "generated profiles successfully", logger.Int("count", stats.ProfilesGenerated))
	return nil
}

// generateProfile builds one member's service record history: a join
// transfer, a random number of moves, and sometimes a discharge.
func generateProfile(rng *rand.Rand) model.Profile {
	memberID := uuid.New().String()

	join := time.Date(earliestJoinYear, 1, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, rng.Intn(joinSpanDays))

	var records []model.Record

	// First assignment: either a recruit slot or a line unit.
	if rng.Float64() < bootCampChance {
		records = append(records, model.Record{
			Type:    model.RecordTypeTransfer,
			Date:    model.FormatDate(join),
			Details: fmt.Sprintf("Assigned %03d/01/01", rng.Intn(200)+1),
		})
	} else {
		records = append(records, model.Record{
			Type:    model.RecordTypeTransfer,
			Date:    model.FormatDate(join),
			Details: "Transferred from civilian life. Assigned " + randomDesignator(rng),
		})
	}

	current := join
	for n := rng.Intn(maxExtraTransfers + 1); n > 0; n-- {
		current = current.AddDate(0, 0, transferGapMin+rng.Intn(transferGapSpan))
		records = append(records, model.Record{
			Type:    model.RecordTypeTransfer,
			Date:    model.FormatDate(current),
			Details: "Transferred. Assigned " + randomDesignator(rng),
		})
	}

	if rng.Float64() < dischargeChance {
		current = current.AddDate(0, 0, transferGapMin+rng.Intn(transferGapSpan))
		details := "Honorably discharged from service"
		if rng.Float64() < retireChance {
			details = "Retired from active service"
		}
		records = append(records, model.Record{
			Type:    model.RecordTypeDischarge,
			Date:    model.FormatDate(current),
			Details: details,
		})
	}

	return model.Profile{
		User: model.User{
			ID:       memberID,
			Username: "trooper-" + memberID[:8],
		},
		Records: records,
	}
}

// randomDesignator builds a squad/platoon/company/battalion path.
func randomDesignator(rng *rand.Rand) string {
	return fmt.Sprintf("%s/%s/%s/%s",
		squads[rng.Intn(len(squads))],
		platoons[rng.Intn(len(platoons))],
		companies[rng.Intn(len(companies))],
		battalions[rng.Intn(len(battalions))],
	)
}
