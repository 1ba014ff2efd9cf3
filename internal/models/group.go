// Package models defines data structures for League
package models

import (
	"strings"
	"time"
)

// AssetClass categorises a holding
type AssetClass string

const (
	AssetClassStock  AssetClass = "STOCK"
	AssetClassETF    AssetClass = "ETF"
	AssetClassCrypto AssetClass = "CRYPTO"
	AssetClassOther  AssetClass = "OTHER"
)

// ParseAssetClass normalises a free-form asset class. Unknown values map to OTHER.
func ParseAssetClass(s string) AssetClass {
	switch AssetClass(strings.ToUpper(strings.TrimSpace(s))) {
	case AssetClassStock:
		return AssetClassStock
	case AssetClassETF:
		return AssetClassETF
	case AssetClassCrypto:
		return AssetClassCrypto
	default:
		return AssetClassOther
	}
}

// Holding is an open position owned by exactly one member.
type Holding struct {
	HoldingID    string     `json:"holding_id"`
	MemberID     string     `json:"member_id"`
	Symbol       string     `json:"symbol"`
	Name         string     `json:"name"`
	AssetClass   AssetClass `json:"asset_class"`
	Quantity     float64    `json:"quantity"`
	AvgBuyPrice  float64    `json:"avg_buy_price"`
	CurrentPrice float64    `json:"current_price"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Member is an investor inside a group.
type Member struct {
	MemberID       string    `json:"member_id"`
	DisplayName    string    `json:"display_name"`
	CashBalance    float64   `json:"cash_balance"`
	InitialCapital *float64  `json:"initial_capital,omitempty"` // nil when the profile never recorded a starting value
	RealizedPL     float64   `json:"realized_pl"`               // maintained by the sell workflow
	JoinedAt       time.Time `json:"joined_at"`
}

// SeasonStatus is the lifecycle state of a season
type SeasonStatus string

const (
	SeasonStatusActive SeasonStatus = "active"
	SeasonStatusEnded  SeasonStatus = "ended"
)

// Season is a bounded competition window with its own per-member baselines.
type Season struct {
	SeasonID        string             `json:"season_id"`
	GroupID         string             `json:"group_id"`
	Name            string             `json:"name"`
	StartedAt       time.Time          `json:"started_at"`
	EndedAt         *time.Time         `json:"ended_at,omitempty"`
	Status          SeasonStatus       `json:"status"`
	MemberSnapshots map[string]float64 `json:"member_snapshots"` // member id -> portfolio value at season start
}

// IsActive reports whether the season is still running.
func (s *Season) IsActive() bool {
	return s != nil && s.Status == SeasonStatusActive
}

// Group owns the member list, the holdings, and references the active season.
type Group struct {
	GroupID        string    `json:"group_id"`
	Name           string    `json:"name"`
	Members        []Member  `json:"members"`
	Holdings       []Holding `json:"holdings"`
	ActiveSeasonID string    `json:"active_season_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Member returns the member with the given id, or nil.
func (g *Group) Member(memberID string) *Member {
	for i := range g.Members {
		if g.Members[i].MemberID == memberID {
			return &g.Members[i]
		}
	}
	return nil
}

// GroupScope is the snapshot scope used for whole-group totals.
const GroupScope = "group"

// AllMembersSelector selects one chart series per member. Like GroupScope it
// cannot be used as a member id.
const AllMembersSelector = "members"

// PortfolioSnapshot is an immutable recorded total value for a scope at a point in time.
// Scope is either GroupScope or a member id.
type PortfolioSnapshot struct {
	SnapshotID string    `json:"snapshot_id"`
	GroupID    string    `json:"group_id"`
	Scope      string    `json:"scope"`
	Timestamp  time.Time `json:"timestamp"`
	TotalValue float64   `json:"total_value"`
}
