package interfaces

import (
	"context"

	"github.com/bobmcallan/league/internal/models"
)

// LeagueService computes performance and rankings for investment groups
type LeagueService interface {
	SaveGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)
	// DeleteGroup removes the group record; snapshots and seasons remain.
	DeleteGroup(ctx context.Context, groupID string) error

	// GetMemberPerformance returns the all-time and season views of one member.
	// An empty seasonID selects the active season.
	GetMemberPerformance(ctx context.Context, groupID, memberID, seasonID string) (*models.MemberPerformance, error)
	GetGroupMetrics(ctx context.Context, groupID string, scope models.Scope, seasonID string) (*models.GroupMetrics, error)
	GetLeaderboard(ctx context.Context, groupID string, scope models.Scope, seasonID string) (*models.Leaderboard, error)

	GetChart(ctx context.Context, groupID string, opts ChartOptions) (*models.ChartData, error)
	RenderChart(ctx context.Context, groupID string, opts ChartOptions) ([]byte, error)

	AppendSnapshot(ctx context.Context, snapshot *models.PortfolioSnapshot) error
	// RecordSnapshots appends a group snapshot and one per member at current values.
	RecordSnapshots(ctx context.Context, groupID string) ([]models.PortfolioSnapshot, error)

	StartSeason(ctx context.Context, groupID, name string) (*models.Season, error)
	EndSeason(ctx context.Context, groupID string) (*models.Season, error)
	GetSeason(ctx context.Context, groupID, seasonID string) (*models.Season, error)
	ListSeasons(ctx context.Context, groupID string) ([]*models.Season, error)
}

// Chart series selectors
const (
	ChartScopeMembers = models.AllMembersSelector // one series per member
	ChartScopeGroup   = models.GroupScope         // group total only
)

// ChartOptions configures chart synthesis
type ChartOptions struct {
	Scope     string // ChartScopeMembers, ChartScopeGroup or a member id
	Timeframe models.Timeframe
	Mode      models.Scope
	Kind      models.ValueKind
	SeasonID  string // empty selects the active season in season mode
}
