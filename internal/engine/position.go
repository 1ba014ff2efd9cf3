// Package engine computes portfolio performance and rankings for a group.
//
// Every function here is a pure computation over its arguments: nothing is
// cached, nothing is mutated, and no call blocks. Callers may invoke any of
// them concurrently without coordination.
package engine

import "github.com/bobmcallan/league/internal/models"

// percentOf returns part/base*100, or 0 when base is zero.
func percentOf(part, base float64) float64 {
	if base == 0 {
		return 0
	}
	return (part / base) * 100
}

// ValuePosition converts a holding into current value, cost basis and unrealized P/L.
// A zero cost basis (gifted or free position) yields a P/L percent of exactly 0.
func ValuePosition(h models.Holding) models.PositionMetrics {
	currentValue := h.Quantity * h.CurrentPrice
	costBasis := h.Quantity * h.AvgBuyPrice
	pl := currentValue - costBasis

	return models.PositionMetrics{
		CurrentValue:        currentValue,
		CostBasis:           costBasis,
		UnrealizedPL:        pl,
		UnrealizedPLPercent: percentOf(pl, costBasis),
	}
}

// positionPerformance values a holding and attaches its identifying fields.
func positionPerformance(h models.Holding, displayName string) models.PositionPerformance {
	return models.PositionPerformance{
		HoldingID:       h.HoldingID,
		MemberID:        h.MemberID,
		DisplayName:     displayName,
		Symbol:          h.Symbol,
		Name:            h.Name,
		AssetClass:      h.AssetClass,
		Quantity:        h.Quantity,
		PositionMetrics: ValuePosition(h),
	}
}
