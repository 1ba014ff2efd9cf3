package app

import (
	"context"
	"errors"
	"time"

	"github.com/bobmcallan/league/internal/common"
	"github.com/bobmcallan/league/internal/interfaces"
	"github.com/bobmcallan/league/internal/services/league"
)

// startRecorder records every group's current values on a fixed interval.
func startRecorder(ctx context.Context, svc interfaces.LeagueService, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Snapshot recorder: stopped")
			return
		case <-ticker.C:
			recordAll(ctx, svc, logger)
		}
	}
}

// recordAll records snapshots for every group and returns how many groups
// were recorded. A failing group does not stop the others.
func recordAll(ctx context.Context, svc interfaces.LeagueService, logger *common.Logger) int {
	start := time.Now()

	groups, err := svc.ListGroups(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Snapshot recorder: failed to list groups")
		return 0
	}

	recorded := 0
	for _, g := range groups {
		if ctx.Err() != nil {
			break
		}
		if _, err := svc.RecordSnapshots(ctx, g.GroupID); err != nil {
			if errors.Is(err, league.ErrThrottled) {
				logger.Debug().Str("group_id", g.GroupID).Msg("Snapshot recorder: throttled")
				continue
			}
			logger.Warn().Err(err).Str("group_id", g.GroupID).Msg("Snapshot recorder: group failed")
			continue
		}
		recorded++
	}

	logger.Info().
		Int("groups", len(groups)).
		Int("recorded", recorded).
		Dur("elapsed", time.Since(start)).
		Msg("Snapshot recorder: complete")
	return recorded
}
