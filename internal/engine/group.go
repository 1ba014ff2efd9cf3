package engine

import "github.com/bobmcallan/league/internal/models"

// scopedMember resolves one member's value, baseline and return for the scope.
func scopedMember(m models.Member, holdings []models.Holding, scope models.Scope, season *models.Season) models.ScopedMember {
	sm := models.ScopedMember{
		MemberID:    m.MemberID,
		DisplayName: m.DisplayName,
	}

	if scope == models.ScopeSeason {
		s := ResolveSeason(m, holdings, season)
		sm.Value = s.CurrentValue
		sm.Baseline = s.Baseline
		sm.Return = s.SeasonReturn
		sm.ReturnPercent = s.SeasonReturnPercent
		sm.HasSeasonData = s.HasSeasonData
	} else {
		a := AggregateMember(m, holdings)
		sm.Value = a.PortfolioValue
		sm.Baseline = a.Baseline
		sm.Return = a.TotalReturn
		sm.ReturnPercent = a.TotalReturnPercent
	}

	sm.DisplayPercent = displayPercent(sm.Baseline, sm.ReturnPercent)
	return sm
}

// displayPercent is nil when the baseline cannot support a meaningful percent.
func displayPercent(baseline, pct float64) *float64 {
	if baseline <= 0 {
		return nil
	}
	return &pct
}

// AggregateGroup sums member values and baselines for the scope. The group
// percent is derived from those sums, never from averaging member percents.
// season is only consulted for ScopeSeason and may be nil.
func AggregateGroup(g *models.Group, scope models.Scope, season *models.Season) (models.GroupMetrics, error) {
	if err := ValidateGroup(g); err != nil {
		return models.GroupMetrics{}, err
	}

	gm := models.GroupMetrics{
		GroupID: g.GroupID,
		Scope:   scope,
		Members: make([]models.ScopedMember, 0, len(g.Members)),
	}
	if scope == models.ScopeSeason && season != nil {
		gm.SeasonID = season.SeasonID
	}

	for _, m := range g.Members {
		sm := scopedMember(m, g.Holdings, scope, season)
		gm.TotalValue += sm.Value
		gm.TotalBaseline += sm.Baseline
		gm.Members = append(gm.Members, sm)
	}

	gm.TotalReturn = gm.TotalValue - gm.TotalBaseline
	gm.TotalReturnPercent = percentOf(gm.TotalReturn, gm.TotalBaseline)
	return gm, nil
}
