package models

import (
	"fmt"
	"strings"
)

// Scope selects which baseline returns are measured against.
type Scope string

const (
	ScopeAllTime Scope = "all_time"
	ScopeSeason  Scope = "season"
)

// ParseScope parses a scope query value. Empty means all-time.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "all_time", "alltime":
		return ScopeAllTime, nil
	case "season":
		return ScopeSeason, nil
	default:
		return "", fmt.Errorf("unknown scope %q (supported: all_time, season)", s)
	}
}

// BaselineSource records how an all-time baseline was resolved.
type BaselineSource string

const (
	BaselineInitialCapital BaselineSource = "initial_capital"
	// BaselineDerived is cash + cost basis. It assumes zero gain before tracking
	// started, so it understates return for members who profited earlier.
	BaselineDerived BaselineSource = "derived"
)

// PositionMetrics is the valuation of a single holding.
type PositionMetrics struct {
	CurrentValue        float64 `json:"current_value"`
	CostBasis           float64 `json:"cost_basis"`
	UnrealizedPL        float64 `json:"unrealized_pl"`
	UnrealizedPLPercent float64 `json:"unrealized_pl_percent"`
}

// PositionPerformance is a valued holding with its identifying fields.
type PositionPerformance struct {
	HoldingID   string     `json:"holding_id"`
	MemberID    string     `json:"member_id"`
	DisplayName string     `json:"display_name,omitempty"`
	Symbol      string     `json:"symbol"`
	Name        string     `json:"name"`
	AssetClass  AssetClass `json:"asset_class"`
	Quantity    float64    `json:"quantity"`
	PositionMetrics
}

// MemberMetrics is the all-time view of one member.
type MemberMetrics struct {
	MemberID            string                `json:"member_id"`
	DisplayName         string                `json:"display_name"`
	CashBalance         float64               `json:"cash_balance"`
	InvestedValue       float64               `json:"invested_value"`
	TotalCostBasis      float64               `json:"total_cost_basis"`
	PortfolioValue      float64               `json:"portfolio_value"`
	UnrealizedPL        float64               `json:"unrealized_pl"`
	UnrealizedPLPercent float64               `json:"unrealized_pl_percent"`
	RealizedPL          float64               `json:"realized_pl"`
	Baseline            float64               `json:"baseline"`
	BaselineSource      BaselineSource        `json:"baseline_source"`
	TotalReturn         float64               `json:"total_return"`
	TotalReturnPercent  float64               `json:"total_return_percent"`
	Positions           []PositionPerformance `json:"positions"`
}

// SeasonMetrics is the season-scoped view of one member.
type SeasonMetrics struct {
	MemberID            string  `json:"member_id"`
	SeasonID            string  `json:"season_id,omitempty"`
	CurrentValue        float64 `json:"current_value"`
	Baseline            float64 `json:"baseline"`
	SeasonReturn        float64 `json:"season_return"`
	SeasonReturnPercent float64 `json:"season_return_percent"`
	HasSeasonData       bool    `json:"has_season_data"`
	LateJoiner          bool    `json:"late_joiner,omitempty"` // no entry in the season's member snapshots
}

// MemberPerformance bundles both scopes for one member.
type MemberPerformance struct {
	GroupID string        `json:"group_id"`
	AllTime MemberMetrics `json:"all_time"`
	Season  SeasonMetrics `json:"season"`
}

// ScopedMember is one member's value, baseline and return for a chosen scope.
type ScopedMember struct {
	MemberID      string  `json:"member_id"`
	DisplayName   string  `json:"display_name"`
	Value         float64 `json:"value"`
	Baseline      float64 `json:"baseline"`
	Return        float64 `json:"return"`
	ReturnPercent float64 `json:"return_percent"`
	// DisplayPercent is nil when the baseline is not positive and the percent
	// should be rendered as a placeholder.
	DisplayPercent *float64 `json:"display_percent"`
	HasSeasonData  bool     `json:"has_season_data,omitempty"`
}

// GroupMetrics sums member metrics for a scope.
type GroupMetrics struct {
	GroupID            string         `json:"group_id"`
	Scope              Scope          `json:"scope"`
	SeasonID           string         `json:"season_id,omitempty"`
	TotalValue         float64        `json:"total_value"`
	TotalBaseline      float64        `json:"total_baseline"`
	TotalReturn        float64        `json:"total_return"`
	TotalReturnPercent float64        `json:"total_return_percent"`
	Members            []ScopedMember `json:"members"`
}

// LeaderboardEntry is a ranked member.
type LeaderboardEntry struct {
	Rank int `json:"rank"`
	ScopedMember
}

// Leaderboard is the ranked group view with group-wide statistics.
type Leaderboard struct {
	GroupID            string             `json:"group_id"`
	Scope              Scope              `json:"scope"`
	SeasonID           string             `json:"season_id,omitempty"`
	Entries            []LeaderboardEntry `json:"entries"`
	TotalValue         float64            `json:"total_value"`
	TotalBaseline      float64            `json:"total_baseline"`
	TotalPL            float64            `json:"total_pl"`
	GroupPLPercent     float64            `json:"group_pl_percent"`
	// AverageReturnPercent is the mean of member return percents. It is not the
	// group P/L percent, which is computed from summed values and baselines.
	AverageReturnPercent float64               `json:"average_return_percent"`
	BestTrades           []PositionPerformance `json:"best_trades"`
	WorstTrades          []PositionPerformance `json:"worst_trades"`
}
