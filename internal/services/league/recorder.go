package league

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/league/internal/engine"
	"github.com/bobmcallan/league/internal/models"
)

// limiter returns the recording limiter for a group, creating it on first use.
func (s *Service) limiter(groupID string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[groupID]
	if !ok {
		limit := rate.Inf
		if s.minSpacing > 0 {
			limit = rate.Every(s.minSpacing)
		}
		l = rate.NewLimiter(limit, 1)
		s.limiters[groupID] = l
	}
	return l
}

// RecordSnapshots appends one snapshot for the group total and one per member
// at current values. Members missing from the active season's baselines are
// enrolled with their current value. Returns ErrThrottled when the group was
// recorded less than the configured spacing ago.
func (s *Service) RecordSnapshots(ctx context.Context, groupID string) ([]models.PortfolioSnapshot, error) {
	g, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := engine.ValidateGroup(g); err != nil {
		return nil, err
	}

	// Only attempts that can append spend a token
	now := s.now()
	if !s.limiter(groupID).AllowN(now, 1) {
		return nil, fmt.Errorf("group %q: %w", groupID, ErrThrottled)
	}

	if err := s.enrolLateJoiners(ctx, g); err != nil {
		return nil, err
	}

	snapshots, err := s.appendCurrentValues(ctx, g, now)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("group_id", groupID).
		Int("snapshots", len(snapshots)).
		Msg("Snapshots recorded")
	return snapshots, nil
}

// enrolLateJoiners adds a season baseline for members who joined after the
// active season started.
func (s *Service) enrolLateJoiners(ctx context.Context, g *models.Group) error {
	season, err := s.selectSeason(ctx, g, "")
	if err != nil || season == nil || !season.IsActive() {
		return err
	}

	if season.MemberSnapshots == nil {
		season.MemberSnapshots = make(map[string]float64)
	}
	var enrolled []string
	for _, m := range g.Members {
		if _, ok := season.MemberSnapshots[m.MemberID]; ok {
			continue
		}
		season.MemberSnapshots[m.MemberID] = engine.PortfolioValue(m, g.Holdings)
		enrolled = append(enrolled, m.MemberID)
	}
	if len(enrolled) == 0 {
		return nil
	}

	if err := s.storage.SeasonStore().SaveSeason(ctx, season); err != nil {
		return fmt.Errorf("failed to save season: %w", err)
	}
	s.logger.Info().
		Str("group_id", g.GroupID).
		Str("season_id", season.SeasonID).
		Strs("members", enrolled).
		Msg("Late joiners enrolled in season")
	return nil
}
