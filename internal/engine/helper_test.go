package engine

import (
	"time"

	"github.com/bobmcallan/league/internal/models"
)

func capital(v float64) *float64 { return &v }

func holding(id, member string, qty, avg, price float64) models.Holding {
	return models.Holding{
		HoldingID:    id,
		MemberID:     member,
		Symbol:       id,
		AssetClass:   models.AssetClassStock,
		Quantity:     qty,
		AvgBuyPrice:  avg,
		CurrentPrice: price,
	}
}

func snap(scope string, ts time.Time, value float64) models.PortfolioSnapshot {
	return models.PortfolioSnapshot{GroupID: "g1", Scope: scope, Timestamp: ts, TotalValue: value}
}

// threeMemberGroup has members returning +10%, -5% and +20% on equal 1000 baselines.
func threeMemberGroup() *models.Group {
	return &models.Group{
		GroupID: "g1",
		Members: []models.Member{
			{MemberID: "alice", DisplayName: "Alice", CashBalance: 1100, InitialCapital: capital(1000)},
			{MemberID: "bob", DisplayName: "Bob", CashBalance: 950, InitialCapital: capital(1000)},
			{MemberID: "carol", DisplayName: "Carol", CashBalance: 1200, InitialCapital: capital(1000)},
		},
	}
}
