package league

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/league/internal/engine"
	"github.com/bobmcallan/league/internal/interfaces"
	"github.com/bobmcallan/league/internal/models"
)

const (
	defaultChartWidth  = 900
	defaultChartHeight = 400
)

// Member line colours, cycled. The group line is always dark and dashed.
var seriesPalette = []string{
	"2563eb", // blue-600
	"dc2626", // red-600
	"16a34a", // green-600
	"d97706", // amber-600
	"7c3aed", // violet-600
	"0891b2", // cyan-600
	"db2777", // pink-600
	"65a30d", // lime-600
}

// GetChart synthesizes an aligned multi-series chart from the snapshot log.
func (s *Service) GetChart(ctx context.Context, groupID string, opts interfaces.ChartOptions) (*models.ChartData, error) {
	opts = normalizeChartOptions(opts)
	if opts.Mode != models.ScopeAllTime && opts.Mode != models.ScopeSeason {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidArgument, opts.Mode)
	}

	g, season, err := s.loadScoped(ctx, groupID, opts.Mode, opts.SeasonID)
	if err != nil {
		return nil, err
	}
	gm, err := engine.AggregateGroup(g, opts.Mode, season)
	if err != nil {
		return nil, err
	}

	specs, err := chartSeries(g, gm, opts.Scope)
	if err != nil {
		return nil, err
	}

	req := engine.ChartRequest{
		Series:    specs,
		Timeframe: opts.Timeframe,
		Mode:      opts.Mode,
		Kind:      opts.Kind,
		Now:       s.now(),
	}
	if opts.Mode == models.ScopeSeason && season != nil {
		req.SeasonStart = season.StartedAt
	}

	keys := make([]string, len(specs))
	for i, spec := range specs {
		keys[i] = spec.Key
	}
	snapshots, err := s.storage.SnapshotStore().ListSnapshots(ctx, groupID, interfaces.SnapshotQuery{
		Scopes: keys,
		Since:  req.Cutoff(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	data := engine.SynthesizeChart(snapshots, req)
	data.GroupID = groupID
	data.SeasonID = gm.SeasonID

	s.logger.Debug().
		Str("group_id", groupID).
		Str("timeframe", string(opts.Timeframe)).
		Int("series", len(data.Series)).
		Int("points", len(data.Points)).
		Msg("Chart synthesized")
	return &data, nil
}

// RenderChart renders the chart as PNG.
func (s *Service) RenderChart(ctx context.Context, groupID string, opts interfaces.ChartOptions) ([]byte, error) {
	data, err := s.GetChart(ctx, groupID, opts)
	if err != nil {
		return nil, err
	}

	title := groupID
	if g, err := s.GetGroup(ctx, groupID); err == nil && g.Name != "" {
		title = g.Name
	}
	return RenderChartPNG(data, title, s.chartWidth, s.chartHeight)
}

func normalizeChartOptions(opts interfaces.ChartOptions) interfaces.ChartOptions {
	if opts.Scope == "" {
		opts.Scope = interfaces.ChartScopeMembers
	}
	if opts.Timeframe == "" {
		opts.Timeframe = models.TimeframeAll
	}
	if opts.Mode == "" {
		opts.Mode = models.ScopeAllTime
	}
	if opts.Kind == "" {
		opts.Kind = models.ValueKindPercent
	}
	return opts
}

// chartSeries maps a chart scope selector to series specs.
func chartSeries(g *models.Group, gm models.GroupMetrics, scope string) ([]engine.SeriesSpec, error) {
	memberSpec := func(sm models.ScopedMember) engine.SeriesSpec {
		label := sm.DisplayName
		if label == "" {
			label = sm.MemberID
		}
		return engine.SeriesSpec{
			Key:                  sm.MemberID,
			Label:                label,
			Baseline:             sm.Baseline,
			CurrentValue:         sm.Value,
			CurrentReturnPercent: sm.ReturnPercent,
		}
	}

	switch scope {
	case interfaces.ChartScopeMembers:
		specs := make([]engine.SeriesSpec, 0, len(gm.Members))
		for _, sm := range gm.Members {
			specs = append(specs, memberSpec(sm))
		}
		return specs, nil

	case interfaces.ChartScopeGroup:
		label := g.Name
		if label == "" {
			label = "Group"
		}
		return []engine.SeriesSpec{{
			Key:                  models.GroupScope,
			Label:                label,
			Baseline:             gm.TotalBaseline,
			CurrentValue:         gm.TotalValue,
			CurrentReturnPercent: gm.TotalReturnPercent,
		}}, nil

	default:
		for _, sm := range gm.Members {
			if sm.MemberID == scope {
				return []engine.SeriesSpec{memberSpec(sm)}, nil
			}
		}
		return nil, fmt.Errorf("member %q in group %q: %w", scope, g.GroupID, interfaces.ErrNotFound)
	}
}

// RenderChartPNG renders chart data as a PNG line chart, one line per series.
// Returns raw PNG bytes.
func RenderChartPNG(data *models.ChartData, title string, width, height int) ([]byte, error) {
	if data == nil || len(data.Points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points")
	}
	if len(data.Series) == 0 {
		return nil, fmt.Errorf("chart has no series")
	}
	if width <= 0 {
		width = defaultChartWidth
	}
	if height <= 0 {
		height = defaultChartHeight
	}

	xValues := make([]time.Time, len(data.Points))
	for i, p := range data.Points {
		xValues[i] = p.Timestamp
	}
	// A flat synthesized chart has both points at the same instant
	if !xValues[len(xValues)-1].After(xValues[0]) {
		xValues[len(xValues)-1] = xValues[0].Add(time.Minute)
	}

	minY, maxY := data.Points[0].Values[data.Series[0].Key], data.Points[0].Values[data.Series[0].Key]
	series := make([]chart.Series, 0, len(data.Series))
	for i, cs := range data.Series {
		yValues := make([]float64, len(data.Points))
		for j, p := range data.Points {
			v := p.Values[cs.Key]
			yValues[j] = v
			if v < minY {
				minY = v
			}
			if v > maxY {
				maxY = v
			}
		}

		style := chart.Style{
			StrokeColor: drawing.ColorFromHex(seriesPalette[i%len(seriesPalette)]),
			StrokeWidth: 2.5,
		}
		if cs.Key == models.GroupScope {
			style = chart.Style{
				StrokeColor:     drawing.ColorFromHex("374151"), // gray-700
				StrokeWidth:     2,
				StrokeDashArray: []float64{5.0, 3.0},
			}
		}

		series = append(series, chart.TimeSeries{
			Name:    cs.Label,
			Style:   style,
			XValues: xValues,
			YValues: yValues,
		})
	}

	yAxis := chart.YAxis{
		ValueFormatter: func(v interface{}) string {
			if f, ok := v.(float64); ok {
				if data.Kind == models.ValueKindAbsolute {
					return fmt.Sprintf("$%.0f", f)
				}
				return fmt.Sprintf("%.1f%%", f)
			}
			return ""
		},
	}
	// go-chart rejects a zero y-range
	if maxY == minY {
		yAxis.Range = &chart.ContinuousRange{Min: minY - 1, Max: maxY + 1}
	}

	graph := chart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("02 Jan")
				}
				return ""
			},
		},
		YAxis:  yAxis,
		Series: series,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
