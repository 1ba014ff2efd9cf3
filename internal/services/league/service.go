// Package league provides group performance, ranking, season and chart services
package league

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/league/internal/common"
	"github.com/bobmcallan/league/internal/engine"
	"github.com/bobmcallan/league/internal/interfaces"
	"github.com/bobmcallan/league/internal/models"
)

var (
	// ErrInvalidArgument marks a request the caller must fix.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoActiveSeason is returned when an operation needs a running season.
	ErrNoActiveSeason = errors.New("no active season")
	// ErrThrottled is returned when a group was recorded too recently.
	ErrThrottled = errors.New("snapshot recording throttled")
)

// Compile-time interface check
var _ interfaces.LeagueService = (*Service)(nil)

// Service implements LeagueService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
	now     func() time.Time

	minSpacing  time.Duration
	chartWidth  int
	chartHeight int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter // group id -> recording limiter
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMinSpacing sets the minimum gap between two recordings of one group.
// Zero disables throttling.
func WithMinSpacing(d time.Duration) Option {
	return func(s *Service) { s.minSpacing = d }
}

// WithChartSize sets the PNG dimensions.
func WithChartSize(width, height int) Option {
	return func(s *Service) {
		if width > 0 {
			s.chartWidth = width
		}
		if height > 0 {
			s.chartHeight = height
		}
	}
}

// NewService creates a new league service
func NewService(storage interfaces.StorageManager, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		storage:     storage,
		logger:      logger,
		now:         time.Now,
		minSpacing:  time.Minute,
		chartWidth:  defaultChartWidth,
		chartHeight: defaultChartHeight,
		limiters:    make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- groups ---

// SaveGroup validates and persists a group, stamping timestamps.
func (s *Service) SaveGroup(ctx context.Context, group *models.Group) error {
	if group == nil || group.GroupID == "" {
		return fmt.Errorf("%w: group id is required", ErrInvalidArgument)
	}
	if err := engine.ValidateGroup(group); err != nil {
		return err
	}

	if group.ActiveSeasonID != "" {
		season, err := s.storage.SeasonStore().GetSeason(ctx, group.ActiveSeasonID)
		switch {
		case errors.Is(err, interfaces.ErrNotFound):
			return fmt.Errorf("%w: active season %q does not exist", ErrInvalidArgument, group.ActiveSeasonID)
		case err != nil:
			return fmt.Errorf("failed to load active season: %w", err)
		case season.GroupID != group.GroupID:
			return fmt.Errorf("%w: active season %q belongs to group %q", ErrInvalidArgument, group.ActiveSeasonID, season.GroupID)
		}
	}

	now := s.now()
	if existing, err := s.storage.GroupStore().GetGroup(ctx, group.GroupID); err == nil {
		group.CreatedAt = existing.CreatedAt
		if group.ActiveSeasonID == "" {
			group.ActiveSeasonID = existing.ActiveSeasonID
		}
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return fmt.Errorf("failed to load group: %w", err)
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = now
	}
	group.UpdatedAt = now

	for i := range group.Members {
		if group.Members[i].JoinedAt.IsZero() {
			group.Members[i].JoinedAt = now
		}
	}
	for i := range group.Holdings {
		h := &group.Holdings[i]
		h.AssetClass = models.ParseAssetClass(string(h.AssetClass))
		if h.UpdatedAt.IsZero() {
			h.UpdatedAt = now
		}
	}

	if err := s.storage.GroupStore().SaveGroup(ctx, group); err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}
	s.logger.Info().
		Str("group_id", group.GroupID).
		Int("members", len(group.Members)).
		Int("holdings", len(group.Holdings)).
		Msg("Group saved")
	return nil
}

// GetGroup retrieves a group
func (s *Service) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	g, err := s.storage.GroupStore().GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

// DeleteGroup removes a group. Its snapshot log and seasons are kept.
func (s *Service) DeleteGroup(ctx context.Context, groupID string) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}
	if err := s.storage.GroupStore().DeleteGroup(ctx, groupID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	s.logger.Info().Str("group_id", groupID).Msg("Group deleted")
	return nil
}

// ListGroups returns every group
func (s *Service) ListGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := s.storage.GroupStore().ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// --- metrics ---

// GetMemberPerformance returns the all-time and season views of one member.
func (s *Service) GetMemberPerformance(ctx context.Context, groupID, memberID, seasonID string) (*models.MemberPerformance, error) {
	g, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := engine.ValidateGroup(g); err != nil {
		return nil, err
	}
	m := g.Member(memberID)
	if m == nil {
		return nil, fmt.Errorf("member %q in group %q: %w", memberID, groupID, interfaces.ErrNotFound)
	}
	season, err := s.selectSeason(ctx, g, seasonID)
	if err != nil {
		return nil, err
	}

	return &models.MemberPerformance{
		GroupID: groupID,
		AllTime: engine.AggregateMember(*m, g.Holdings),
		Season:  engine.ResolveSeason(*m, g.Holdings, season),
	}, nil
}

// GetGroupMetrics aggregates the group for a scope.
func (s *Service) GetGroupMetrics(ctx context.Context, groupID string, scope models.Scope, seasonID string) (*models.GroupMetrics, error) {
	g, season, err := s.loadScoped(ctx, groupID, scope, seasonID)
	if err != nil {
		return nil, err
	}
	gm, err := engine.AggregateGroup(g, scope, season)
	if err != nil {
		return nil, err
	}
	return &gm, nil
}

// GetLeaderboard ranks the group's members for a scope.
func (s *Service) GetLeaderboard(ctx context.Context, groupID string, scope models.Scope, seasonID string) (*models.Leaderboard, error) {
	g, season, err := s.loadScoped(ctx, groupID, scope, seasonID)
	if err != nil {
		return nil, err
	}
	lb, err := engine.BuildLeaderboard(g, scope, season)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Str("group_id", groupID).
		Str("scope", string(scope)).
		Int("entries", len(lb.Entries)).
		Msg("Leaderboard built")
	return &lb, nil
}

// loadScoped loads a group and, for season scope, the selected season.
func (s *Service) loadScoped(ctx context.Context, groupID string, scope models.Scope, seasonID string) (*models.Group, *models.Season, error) {
	if scope == "" {
		scope = models.ScopeAllTime
	}
	if scope != models.ScopeAllTime && scope != models.ScopeSeason {
		return nil, nil, fmt.Errorf("%w: unknown scope %q", ErrInvalidArgument, scope)
	}

	g, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if scope != models.ScopeSeason {
		return g, nil, nil
	}
	season, err := s.selectSeason(ctx, g, seasonID)
	if err != nil {
		return nil, nil, err
	}
	return g, season, nil
}

// selectSeason resolves a season id for a group. An empty id selects the
// active season, which may be nil.
func (s *Service) selectSeason(ctx context.Context, g *models.Group, seasonID string) (*models.Season, error) {
	if seasonID == "" {
		if g.ActiveSeasonID == "" {
			return nil, nil
		}
		season, err := s.storage.SeasonStore().GetSeason(ctx, g.ActiveSeasonID)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				s.logger.Warn().
					Str("group_id", g.GroupID).
					Str("season_id", g.ActiveSeasonID).
					Msg("Active season missing from store")
				return nil, nil
			}
			return nil, fmt.Errorf("failed to load active season: %w", err)
		}
		return season, nil
	}
	return s.GetSeason(ctx, g.GroupID, seasonID)
}

// --- snapshots ---

// AppendSnapshot validates and appends one snapshot to the log.
func (s *Service) AppendSnapshot(ctx context.Context, snapshot *models.PortfolioSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: snapshot is required", ErrInvalidArgument)
	}
	if math.IsNaN(snapshot.TotalValue) || math.IsInf(snapshot.TotalValue, 0) {
		return fmt.Errorf("%w: total value must be finite", ErrInvalidArgument)
	}

	g, err := s.GetGroup(ctx, snapshot.GroupID)
	if err != nil {
		return err
	}
	if snapshot.Scope != models.GroupScope && g.Member(snapshot.Scope) == nil {
		return fmt.Errorf("%w: scope %q is neither %q nor a member of group %q",
			ErrInvalidArgument, snapshot.Scope, models.GroupScope, g.GroupID)
	}

	if snapshot.SnapshotID == "" {
		snapshot.SnapshotID = uuid.New().String()
	}
	if snapshot.Timestamp.IsZero() {
		snapshot.Timestamp = s.now()
	}

	if err := s.storage.SnapshotStore().AppendSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to append snapshot: %w", err)
	}
	return nil
}

// appendCurrentValues records the group total and every member's value at ts.
func (s *Service) appendCurrentValues(ctx context.Context, g *models.Group, ts time.Time) ([]models.PortfolioSnapshot, error) {
	gm, err := engine.AggregateGroup(g, models.ScopeAllTime, nil)
	if err != nil {
		return nil, err
	}

	out := make([]models.PortfolioSnapshot, 0, len(gm.Members)+1)
	out = append(out, models.PortfolioSnapshot{GroupID: g.GroupID, Scope: models.GroupScope, TotalValue: gm.TotalValue})
	for _, m := range gm.Members {
		out = append(out, models.PortfolioSnapshot{GroupID: g.GroupID, Scope: m.MemberID, TotalValue: m.Value})
	}

	for i := range out {
		out[i].SnapshotID = uuid.New().String()
		out[i].Timestamp = ts
		if err := s.storage.SnapshotStore().AppendSnapshot(ctx, &out[i]); err != nil {
			return nil, fmt.Errorf("failed to append snapshot: %w", err)
		}
	}
	return out, nil
}

// --- seasons ---

// StartSeason ends any active season and starts a new one, capturing every
// member's current portfolio value as their season baseline.
func (s *Service) StartSeason(ctx context.Context, groupID, name string) (*models.Season, error) {
	g, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if err := engine.ValidateGroup(g); err != nil {
		return nil, err
	}

	now := s.now()
	if g.ActiveSeasonID != "" {
		if _, err := s.endSeason(ctx, g, now); err != nil && !errors.Is(err, interfaces.ErrNotFound) {
			return nil, err
		}
	}

	if name == "" {
		existing, err := s.storage.SeasonStore().ListSeasons(ctx, groupID)
		if err != nil {
			return nil, fmt.Errorf("failed to list seasons: %w", err)
		}
		name = fmt.Sprintf("Season %d", len(existing)+1)
	}

	season := &models.Season{
		SeasonID:        uuid.New().String(),
		GroupID:         groupID,
		Name:            name,
		StartedAt:       now,
		Status:          models.SeasonStatusActive,
		MemberSnapshots: make(map[string]float64, len(g.Members)),
	}
	for _, m := range g.Members {
		season.MemberSnapshots[m.MemberID] = engine.PortfolioValue(m, g.Holdings)
	}
	if err := s.storage.SeasonStore().SaveSeason(ctx, season); err != nil {
		return nil, fmt.Errorf("failed to save season: %w", err)
	}

	g.ActiveSeasonID = season.SeasonID
	g.UpdatedAt = now
	if err := s.storage.GroupStore().SaveGroup(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to save group: %w", err)
	}

	// Season charts start from a recorded point
	if _, err := s.appendCurrentValues(ctx, g, now); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("group_id", groupID).
		Str("season_id", season.SeasonID).
		Str("name", name).
		Int("members", len(season.MemberSnapshots)).
		Msg("Season started")
	return season, nil
}

// EndSeason ends the group's active season.
func (s *Service) EndSeason(ctx context.Context, groupID string) (*models.Season, error) {
	g, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g.ActiveSeasonID == "" {
		return nil, fmt.Errorf("group %q: %w", groupID, ErrNoActiveSeason)
	}
	return s.endSeason(ctx, g, s.now())
}

// endSeason marks the active season ended and clears it from the group. A
// dangling active season id is cleared and reported as not found.
func (s *Service) endSeason(ctx context.Context, g *models.Group, now time.Time) (*models.Season, error) {
	seasonID := g.ActiveSeasonID
	season, err := s.storage.SeasonStore().GetSeason(ctx, seasonID)
	if err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return nil, fmt.Errorf("failed to load season: %w", err)
	}
	missing := err != nil
	if !missing {
		season.Status = models.SeasonStatusEnded
		season.EndedAt = &now
		if err := s.storage.SeasonStore().SaveSeason(ctx, season); err != nil {
			return nil, fmt.Errorf("failed to save season: %w", err)
		}
	}

	g.ActiveSeasonID = ""
	g.UpdatedAt = now
	if err := s.storage.GroupStore().SaveGroup(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to save group: %w", err)
	}
	if missing {
		s.logger.Warn().Str("group_id", g.GroupID).Str("season_id", seasonID).Msg("Cleared missing active season")
		return nil, fmt.Errorf("failed to load season: %w", err)
	}

	s.logger.Info().Str("group_id", g.GroupID).Str("season_id", seasonID).Msg("Season ended")
	return season, nil
}

// GetSeason returns a season, checking that it belongs to the group.
func (s *Service) GetSeason(ctx context.Context, groupID, seasonID string) (*models.Season, error) {
	season, err := s.storage.SeasonStore().GetSeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get season: %w", err)
	}
	if season.GroupID != groupID {
		return nil, fmt.Errorf("season %q in group %q: %w", seasonID, groupID, interfaces.ErrNotFound)
	}
	return season, nil
}

// ListSeasons returns a group's seasons, newest first.
func (s *Service) ListSeasons(ctx context.Context, groupID string) ([]*models.Season, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	seasons, err := s.storage.SeasonStore().ListSeasons(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	return seasons, nil
}
