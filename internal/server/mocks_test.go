package server

import (
	"context"
	"errors"

	"github.com/bobmcallan/league/internal/app"
	"github.com/bobmcallan/league/internal/common"
	"github.com/bobmcallan/league/internal/interfaces"
	"github.com/bobmcallan/league/internal/models"
)

var errNotMocked = errors.New("not mocked")

func silentLogger() *common.Logger { return common.NewSilentLogger() }

// mockLeagueService implements interfaces.LeagueService; unset funcs fail.
type mockLeagueService struct {
	saveGroup            func(ctx context.Context, g *models.Group) error
	getGroup             func(ctx context.Context, groupID string) (*models.Group, error)
	listGroups           func(ctx context.Context) ([]*models.Group, error)
	deleteGroup          func(ctx context.Context, groupID string) error
	getMemberPerformance func(ctx context.Context, groupID, memberID, seasonID string) (*models.MemberPerformance, error)
	getGroupMetrics      func(ctx context.Context, groupID string, scope models.Scope, seasonID string) (*models.GroupMetrics, error)
	getLeaderboard       func(ctx context.Context, groupID string, scope models.Scope, seasonID string) (*models.Leaderboard, error)
	getChart             func(ctx context.Context, groupID string, opts interfaces.ChartOptions) (*models.ChartData, error)
	renderChart          func(ctx context.Context, groupID string, opts interfaces.ChartOptions) ([]byte, error)
	appendSnapshot       func(ctx context.Context, s *models.PortfolioSnapshot) error
	recordSnapshots      func(ctx context.Context, groupID string) ([]models.PortfolioSnapshot, error)
	startSeason          func(ctx context.Context, groupID, name string) (*models.Season, error)
	endSeason            func(ctx context.Context, groupID string) (*models.Season, error)
	getSeason            func(ctx context.Context, groupID, seasonID string) (*models.Season, error)
	listSeasons          func(ctx context.Context, groupID string) ([]*models.Season, error)
}

func (m *mockLeagueService) SaveGroup(ctx context.Context, g *models.Group) error {
	if m.saveGroup != nil {
		return m.saveGroup(ctx, g)
	}
	return errNotMocked
}

func (m *mockLeagueService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	if m.getGroup != nil {
		return m.getGroup(ctx, groupID)
	}
	return nil, errNotMocked
}

func (m *mockLeagueService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	if m.listGroups != nil {
		return m.listGroups(ctx)
	}
	return nil, errNotMocked
}

func (m *mockLeagueService) DeleteGroup(ctx context.Context, groupID string) error {
	if m.deleteGroup != nil {
		return m.deleteGroup(ctx, groupID)
	}
	return errNotMocked
}

func (m *mockLeagueService) GetMemberPerformance(ctx context.Context, groupID, memberID, seasonID string) (*models.MemberPerformance, error) {
	if m.getMemberPerformance != nil {
		return m.getMemberPerformance(ctx, groupID, memberID, seasonID)
	}
	return nil, errNotMocked
}

func (m *mockLeagueService) GetGroupMetrics(ctx context.Context, groupID string, scope models.Scope, seasonID string) (*models.GroupMetrics, error) {
	if m.getGroupMetrics != nil {
		return m.getGroupMetrics(ctx, groupID, scope, seasonID)
	}
	return nil, errNotMocked
}

func (m *mockLeagueService) GetLeaderboard(ctx context.Context, groupID string, scope models.Scope, seasonID string) (*models.Leaderboard, error) {
	if m.getLeaderboard != nil {
		return m.getLeaderboard(ctx, groupID, scope, seasonID)
	}
	return nil, errNotMocked
}

func (m *mockLeagueService) GetChart(ctx context.Context, groupID string, opts interfaces.ChartOptions) (*models.ChartData, error) {
	if m.getChart != nil {
		return m.getChart(ctx, groupID, opts)
	}
	return nil, errNotMocked
}

func (m *mockLeagueService) RenderChart(ctx context.Context, groupID string, opts interfaces.ChartOptions) ([]byte, error) {
	if m.renderChart != nil {
		return m.renderChart(ctx, groupID, opts)
	}
	return nil, errNotMocked
}

func (m *mockLeagueService) AppendSnapshot(ctx context.Context, s *models.PortfolioSnapshot) error {
	if m.appendSnapshot != nil {
		return m.appendSnapshot(ctx, s)
	}
	return errNotMocked
}

func (m *mockLeagueService) RecordSnapshots(ctx context.Context, groupID string) ([]models.PortfolioSnapshot, error) {
	if m.recordSnapshots != nil {
		return m.recordSnapshots(ctx, groupID)
	}
	return nil, errNotMocked
}

func (m *mockLeagueService) StartSeason(ctx context.Context, groupID, name string) (*models.Season, error) {
	if m.startSeason != nil {
		return m.startSeason(ctx, groupID, name)
	}
	return nil, errNotMocked
}

func (m *mockLeagueService) EndSeason(ctx context.Context, groupID string) (*models.Season, error) {
	if m.endSeason != nil {
		return m.endSeason(ctx, groupID)
	}
	return nil, errNotMocked
}

func (m *mockLeagueService) GetSeason(ctx context.Context, groupID, seasonID string) (*models.Season, error) {
	if m.getSeason != nil {
		return m.getSeason(ctx, groupID, seasonID)
	}
	return nil, errNotMocked
}

func (m *mockLeagueService) ListSeasons(ctx context.Context, groupID string) ([]*models.Season, error) {
	if m.listSeasons != nil {
		return m.listSeasons(ctx, groupID)
	}
	return nil, errNotMocked
}

// newTestServer wires a Server around the given service.
func newTestServer(svc interfaces.LeagueService) *Server {
	logger := common.NewLoggerFromConfig(common.LoggingConfig{Level: "disabled"})
	a := &app.App{
		Config:        common.NewDefaultConfig(),
		Logger:        logger,
		LeagueService: svc,
	}
	return NewServer(a)
}
