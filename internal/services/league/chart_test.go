package league

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/league/internal/interfaces"
	"github.com/bobmcallan/league/internal/models"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestGetChartMembersFromRecordedSnapshots(t *testing.T) {
	clock := newClock()
	svc, _ := newTestService(clock, WithMinSpacing(0))
	ctx := context.Background()
	require.NoError(t, svc.SaveGroup(ctx, clubGroup()))

	_, err := svc.RecordSnapshots(ctx, "club")
	require.NoError(t, err)

	g, err := svc.GetGroup(ctx, "club")
	require.NoError(t, err)
	g.Holdings[0].CurrentPrice = 70 // alice 1300
	require.NoError(t, svc.SaveGroup(ctx, g))
	clock.advance(24 * time.Hour)
	_, err = svc.RecordSnapshots(ctx, "club")
	require.NoError(t, err)

	data, err := svc.GetChart(ctx, "club", interfaces.ChartOptions{Timeframe: models.Timeframe7D})
	require.NoError(t, err)
	assert.Equal(t, "club", data.GroupID)
	assert.Equal(t, models.ValueKindPercent, data.Kind)
	require.Len(t, data.Series, 3)
	assert.Equal(t, "Alice", data.Series[0].Label)
	require.Len(t, data.Points, 2)
	assert.InDelta(t, 10.0, data.Points[0].Values["alice"], 1e-9)
	assert.InDelta(t, 30.0, data.Points[1].Values["alice"], 1e-9)
	assert.InDelta(t, -5.0, data.Points[1].Values["bob"], 1e-9)
	assert.NotContains(t, data.Points[0].Values, models.GroupScope)
}

func TestGetChartGroupAbsolute(t *testing.T) {
	clock := newClock()
	svc, _ := newTestService(clock)
	ctx := context.Background()
	require.NoError(t, svc.SaveGroup(ctx, clubGroup()))
	_, err := svc.RecordSnapshots(ctx, "club")
	require.NoError(t, err)

	data, err := svc.GetChart(ctx, "club", interfaces.ChartOptions{
		Scope: interfaces.ChartScopeGroup,
		Kind:  models.ValueKindAbsolute,
	})
	require.NoError(t, err)
	require.Len(t, data.Series, 1)
	assert.Equal(t, "Investment Club", data.Series[0].Label)
	require.Len(t, data.Points, 2, "a single snapshot is duplicated")
	assert.Equal(t, 3250.0, data.Points[0].Values[models.GroupScope])
}

func TestGetChartSeasonModeWithoutHistory(t *testing.T) {
	clock := newClock()
	svc, _ := newTestService(clock)
	ctx := context.Background()
	require.NoError(t, svc.SaveGroup(ctx, clubGroup()))

	// No snapshots at all: flat synthesized line from zero to current return
	data, err := svc.GetChart(ctx, "club", interfaces.ChartOptions{Scope: "carol"})
	require.NoError(t, err)
	require.Len(t, data.Points, 2)
	assert.Equal(t, 0.0, data.Points[0].Values["carol"])
	assert.InDelta(t, 20.0, data.Points[1].Values["carol"], 1e-9)

	_, err = svc.StartSeason(ctx, "club", "Spring")
	require.NoError(t, err)

	data, err = svc.GetChart(ctx, "club", interfaces.ChartOptions{Scope: "carol", Mode: models.ScopeSeason})
	require.NoError(t, err)
	assert.NotEmpty(t, data.SeasonID)
	assert.Equal(t, 0.0, data.Points[0].Values["carol"], "season starts at zero")
}

func TestGetChartUnknownMember(t *testing.T) {
	svc, _ := newTestService(newClock())
	ctx := context.Background()
	require.NoError(t, svc.SaveGroup(ctx, clubGroup()))

	_, err := svc.GetChart(ctx, "club", interfaces.ChartOptions{Scope: "mallory"})
	assert.True(t, errors.Is(err, interfaces.ErrNotFound))
}

func TestRenderChartPNG(t *testing.T) {
	clock := newClock()
	svc, _ := newTestService(clock, WithMinSpacing(0), WithChartSize(600, 300))
	ctx := context.Background()
	require.NoError(t, svc.SaveGroup(ctx, clubGroup()))
	for i := 0; i < 3; i++ {
		_, err := svc.RecordSnapshots(ctx, "club")
		require.NoError(t, err)
		clock.advance(24 * time.Hour)
	}

	png, err := svc.RenderChart(ctx, "club", interfaces.ChartOptions{})
	require.NoError(t, err)
	require.Greater(t, len(png), len(pngMagic))
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderChartPNGFlatLine(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	data := &models.ChartData{
		Kind:   models.ValueKindPercent,
		Series: []models.ChartSeries{{Key: "a", Label: "A"}},
		Points: []models.ChartPoint{
			{Timestamp: now, Values: map[string]float64{"a": 0}},
			{Timestamp: now, Values: map[string]float64{"a": 0}},
		},
	}

	png, err := RenderChartPNG(data, "Flat", 0, 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderChartPNGTooFewPoints(t *testing.T) {
	_, err := RenderChartPNG(&models.ChartData{Points: []models.ChartPoint{{}}}, "x", 100, 100)
	assert.Error(t, err)
	_, err = RenderChartPNG(nil, "x", 100, 100)
	assert.Error(t, err)
}
