package engine

import "github.com/bobmcallan/league/internal/models"

// ResolveBaseline returns the all-time baseline for a member.
// An explicit initial capital wins; otherwise the baseline is cash plus the
// cost basis of current holdings, i.e. zero gain is assumed before tracking began.
func ResolveBaseline(m models.Member, totalCostBasis float64) (float64, models.BaselineSource) {
	if m.InitialCapital != nil {
		return *m.InitialCapital, models.BaselineInitialCapital
	}
	return m.CashBalance + totalCostBasis, models.BaselineDerived
}

// AggregateMember sums a member's holdings and cash into portfolio value and
// computes the all-time return. holdings may contain other members' positions;
// only those owned by m are counted.
func AggregateMember(m models.Member, holdings []models.Holding) models.MemberMetrics {
	mm := models.MemberMetrics{
		MemberID:    m.MemberID,
		DisplayName: m.DisplayName,
		CashBalance: m.CashBalance,
		RealizedPL:  m.RealizedPL,
		Positions:   []models.PositionPerformance{},
	}

	for _, h := range holdings {
		if h.MemberID != m.MemberID {
			continue
		}
		pos := positionPerformance(h, m.DisplayName)
		mm.InvestedValue += pos.CurrentValue
		mm.TotalCostBasis += pos.CostBasis
		mm.Positions = append(mm.Positions, pos)
	}

	mm.PortfolioValue = m.CashBalance + mm.InvestedValue

	// Holdings-only P/L, reported separately from total return
	mm.UnrealizedPL = mm.InvestedValue - mm.TotalCostBasis
	mm.UnrealizedPLPercent = percentOf(mm.UnrealizedPL, mm.TotalCostBasis)

	mm.Baseline, mm.BaselineSource = ResolveBaseline(m, mm.TotalCostBasis)
	mm.TotalReturn = mm.PortfolioValue - mm.Baseline
	mm.TotalReturnPercent = percentOf(mm.TotalReturn, mm.Baseline)

	return mm
}

// PortfolioValue returns cash plus the current value of the member's holdings.
func PortfolioValue(m models.Member, holdings []models.Holding) float64 {
	var invested float64
	for _, h := range holdings {
		if h.MemberID == m.MemberID {
			invested += h.Quantity * h.CurrentPrice
		}
	}
	return m.CashBalance + invested
}
