package models

import (
	"fmt"
	"strings"
	"time"
)

// Timeframe is the chart window
type Timeframe string

const (
	Timeframe7D  Timeframe = "7d"
	Timeframe30D Timeframe = "30d"
	Timeframe90D Timeframe = "90d"
	Timeframe1Y  Timeframe = "1y"
	TimeframeYTD Timeframe = "ytd"
	TimeframeAll Timeframe = "all"
)

// ParseTimeframe parses a timeframe query value. Empty means all.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case "":
		return TimeframeAll, nil
	case Timeframe7D, Timeframe30D, Timeframe90D, Timeframe1Y, TimeframeYTD, TimeframeAll:
		return tf, nil
	default:
		return "", fmt.Errorf("unknown timeframe %q (supported: 7d, 30d, 90d, 1y, ytd, all)", s)
	}
}

// Cutoff returns the earliest timestamp included by the timeframe relative to now.
// The zero time means unbounded.
func (tf Timeframe) Cutoff(now time.Time) time.Time {
	switch tf {
	case Timeframe7D:
		return now.AddDate(0, 0, -7)
	case Timeframe30D:
		return now.AddDate(0, 0, -30)
	case Timeframe90D:
		return now.AddDate(0, 0, -90)
	case Timeframe1Y:
		return now.AddDate(-1, 0, 0)
	case TimeframeYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}
	}
}

// ValueKind selects whether chart values are absolute or percent-of-baseline.
type ValueKind string

const (
	ValueKindPercent  ValueKind = "percent"
	ValueKindAbsolute ValueKind = "absolute"
)

// ParseValueKind parses a kind query value. Empty means percent.
func ParseValueKind(s string) (ValueKind, error) {
	switch k := ValueKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return ValueKindPercent, nil
	case ValueKindPercent, ValueKindAbsolute:
		return k, nil
	default:
		return "", fmt.Errorf("unknown kind %q (supported: percent, absolute)", s)
	}
}

// ChartSeries describes one line of the chart.
type ChartSeries struct {
	Key      string  `json:"key"` // GroupScope or a member id
	Label    string  `json:"label"`
	Baseline float64 `json:"baseline"` // base used for percent conversion
}

// ChartPoint is one x-axis position carrying a value for every series.
type ChartPoint struct {
	Timestamp time.Time          `json:"timestamp"`
	Values    map[string]float64 `json:"values"` // series key -> value
}

// ChartData is an aligned multi-series dataset.
type ChartData struct {
	GroupID   string        `json:"group_id,omitempty"`
	Timeframe Timeframe     `json:"timeframe"`
	Mode      Scope         `json:"mode"`
	Kind      ValueKind     `json:"kind"`
	SeasonID  string        `json:"season_id,omitempty"`
	Series    []ChartSeries `json:"series"`
	Points    []ChartPoint  `json:"points"`
}
