package engine

import (
	"sort"
	"time"

	"github.com/bobmcallan/league/internal/models"
)

// SeriesSpec describes one requested chart line.
type SeriesSpec struct {
	Key   string // snapshot scope: models.GroupScope or a member id
	Label string
	// Baseline is the mode's reference value: the season start value in
	// season mode, the resolved all-time baseline otherwise.
	Baseline             float64
	CurrentValue         float64
	CurrentReturnPercent float64
}

// ChartRequest selects the series, window and presentation of a chart.
type ChartRequest struct {
	Series    []SeriesSpec
	Timeframe models.Timeframe
	Mode      models.Scope
	Kind      models.ValueKind
	Now       time.Time
	// SeasonStart clamps the window in season mode when set.
	SeasonStart time.Time
}

// Cutoff returns the earliest snapshot timestamp the request includes.
func (r ChartRequest) Cutoff() time.Time {
	cutoff := r.Timeframe.Cutoff(r.Now)
	if r.Mode == models.ScopeSeason && r.SeasonStart.After(cutoff) {
		cutoff = r.SeasonStart
	}
	return cutoff
}

// seriesPoints holds one series' in-window snapshot values keyed by unix nanos.
type seriesPoints struct {
	spec     SeriesSpec
	values   map[int64]float64
	earliest int64
}

// SynthesizeChart aligns sparse snapshots into a multi-series dataset.
//
// The x-axis is the union of in-window snapshot timestamps across the
// requested series. Each series carries its last known value forward; before
// its first value it shows its baseline (season mode) or its first in-window
// value (all-time mode). Output is fully determined by the arguments.
func SynthesizeChart(snapshots []models.PortfolioSnapshot, req ChartRequest) models.ChartData {
	data := models.ChartData{
		Timeframe: req.Timeframe,
		Mode:      req.Mode,
		Kind:      req.Kind,
		Series:    []models.ChartSeries{},
		Points:    []models.ChartPoint{},
	}

	specs := dedupeSeries(req.Series)
	if len(specs) == 0 {
		return data
	}

	byKey := make(map[string]*seriesPoints, len(specs))
	series := make([]*seriesPoints, len(specs))
	for i, spec := range specs {
		sp := &seriesPoints{spec: spec, values: make(map[int64]float64)}
		series[i] = sp
		byKey[spec.Key] = sp
	}

	cutoff := req.Cutoff()
	axis := make(map[int64]struct{})
	for _, snap := range snapshots {
		sp, ok := byKey[snap.Scope]
		if !ok {
			continue
		}
		if !cutoff.IsZero() && snap.Timestamp.Before(cutoff) {
			continue
		}
		ts := snap.Timestamp.UnixNano()
		if len(sp.values) == 0 || ts < sp.earliest {
			sp.earliest = ts
		}
		// Duplicate timestamps: last one in log order wins
		sp.values[ts] = snap.TotalValue
		axis[ts] = struct{}{}
	}

	if len(axis) == 0 {
		return degenerateChart(data, series, req)
	}

	xs := make([]int64, 0, len(axis))
	for ts := range axis {
		xs = append(xs, ts)
	}
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })

	data.Points = make([]models.ChartPoint, len(xs))
	for j, ts := range xs {
		data.Points[j] = models.ChartPoint{
			Timestamp: time.Unix(0, ts).UTC(),
			Values:    make(map[string]float64, len(series)),
		}
	}

	for _, sp := range series {
		filled := forwardFill(sp, xs, req.Mode)
		first := filled[0]
		if len(sp.values) > 0 {
			first = sp.values[sp.earliest]
		}
		base := percentBase(sp.spec.Baseline, first)

		for j, v := range filled {
			if req.Kind == models.ValueKindAbsolute {
				data.Points[j].Values[sp.spec.Key] = v
			} else {
				data.Points[j].Values[sp.spec.Key] = ((v - base) / base) * 100
			}
		}

		data.Series = append(data.Series, models.ChartSeries{
			Key:      sp.spec.Key,
			Label:    sp.spec.Label,
			Baseline: base,
		})
	}

	// Line renderers need two coordinates
	if len(data.Points) == 1 {
		only := data.Points[0]
		dup := models.ChartPoint{
			Timestamp: only.Timestamp.Add(time.Millisecond),
			Values:    make(map[string]float64, len(only.Values)),
		}
		for k, v := range only.Values {
			dup.Values[k] = v
		}
		data.Points = append(data.Points, dup)
	}

	return data
}

// forwardFill produces one raw value per x-axis timestamp.
func forwardFill(sp *seriesPoints, xs []int64, mode models.Scope) []float64 {
	last := sp.spec.Baseline
	if mode != models.ScopeSeason && len(sp.values) > 0 {
		last = sp.values[sp.earliest]
	}

	filled := make([]float64, len(xs))
	for j, ts := range xs {
		if v, ok := sp.values[ts]; ok {
			last = v
		}
		filled[j] = last
	}
	return filled
}

// percentBase substitutes the first value, then 1, for a non-positive baseline.
func percentBase(baseline, first float64) float64 {
	if baseline > 0 {
		return baseline
	}
	if first > 0 {
		return first
	}
	return 1
}

// degenerateChart returns a flat two-point line at now when no series has data:
// zero then the current return percent, or baseline then current value.
func degenerateChart(data models.ChartData, series []*seriesPoints, req ChartRequest) models.ChartData {
	now := req.Now.UTC()
	start := models.ChartPoint{Timestamp: now, Values: make(map[string]float64, len(series))}
	end := models.ChartPoint{Timestamp: now, Values: make(map[string]float64, len(series))}

	for _, sp := range series {
		if req.Kind == models.ValueKindAbsolute {
			start.Values[sp.spec.Key] = sp.spec.Baseline
			end.Values[sp.spec.Key] = sp.spec.CurrentValue
		} else {
			start.Values[sp.spec.Key] = 0
			end.Values[sp.spec.Key] = sp.spec.CurrentReturnPercent
		}
		data.Series = append(data.Series, models.ChartSeries{
			Key:      sp.spec.Key,
			Label:    sp.spec.Label,
			Baseline: percentBase(sp.spec.Baseline, sp.spec.CurrentValue),
		})
	}

	data.Points = []models.ChartPoint{start, end}
	return data
}

// dedupeSeries drops repeated keys, keeping the first definition of each.
func dedupeSeries(specs []SeriesSpec) []SeriesSpec {
	seen := make(map[string]struct{}, len(specs))
	out := make([]SeriesSpec, 0, len(specs))
	for _, s := range specs {
		if _, ok := seen[s.Key]; ok {
			continue
		}
		seen[s.Key] = struct{}{}
		out = append(out, s)
	}
	return out
}
