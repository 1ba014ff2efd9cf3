package engine

import "github.com/bobmcallan/league/internal/models"

// ResolveSeason computes a member's season-scoped return.
//
// With no season the result is a no-op: baseline equals the current value,
// the return is zero and HasSeasonData is false. A member missing from the
// season's snapshot map (joined after the season started) is measured against
// their current value, so their season return stays zero until a baseline is
// recorded for them.
func ResolveSeason(m models.Member, holdings []models.Holding, season *models.Season) models.SeasonMetrics {
	current := PortfolioValue(m, holdings)

	sm := models.SeasonMetrics{
		MemberID:     m.MemberID,
		CurrentValue: current,
		Baseline:     current,
	}
	if season == nil {
		return sm
	}

	sm.SeasonID = season.SeasonID
	sm.HasSeasonData = true

	if base, ok := season.MemberSnapshots[m.MemberID]; ok {
		sm.Baseline = base
	} else {
		sm.LateJoiner = true
	}

	sm.SeasonReturn = current - sm.Baseline
	sm.SeasonReturnPercent = percentOf(sm.SeasonReturn, sm.Baseline)
	return sm
}
