package engine

import (
	"sort"

	"github.com/bobmcallan/league/internal/models"
)

// tradeListSize is how many best and worst trades a leaderboard carries.
const tradeListSize = 3

// RankMembers orders members by return percent, highest first. Ties keep the
// order they arrived in, which is the group's member order.
func RankMembers(members []models.ScopedMember) []models.LeaderboardEntry {
	sorted := make([]models.ScopedMember, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReturnPercent > sorted[j].ReturnPercent
	})

	entries := make([]models.LeaderboardEntry, len(sorted))
	for i, m := range sorted {
		entries[i] = models.LeaderboardEntry{Rank: i + 1, ScopedMember: m}
	}
	return entries
}

// AverageReturnPercent is the plain mean of member return percents.
func AverageReturnPercent(members []models.ScopedMember) float64 {
	if len(members) == 0 {
		return 0
	}
	var sum float64
	for _, m := range members {
		sum += m.ReturnPercent
	}
	return sum / float64(len(members))
}

func sortByPLPercentDesc(positions []models.PositionPerformance) {
	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].UnrealizedPLPercent > positions[j].UnrealizedPLPercent
	})
}

// BestTrades returns up to three positions with a positive P/L percent,
// highest first.
func BestTrades(positions []models.PositionPerformance) []models.PositionPerformance {
	winners := make([]models.PositionPerformance, 0, len(positions))
	for _, p := range positions {
		if p.UnrealizedPLPercent > 0 {
			winners = append(winners, p)
		}
	}
	sortByPLPercentDesc(winners)
	if len(winners) > tradeListSize {
		winners = winners[:tradeListSize]
	}
	return winners
}

// WorstTrades returns up to three positions with a negative P/L percent.
// Losers are sorted descending, the last three taken and then reversed, so the
// most negative position comes first.
func WorstTrades(positions []models.PositionPerformance) []models.PositionPerformance {
	losers := make([]models.PositionPerformance, 0, len(positions))
	for _, p := range positions {
		if p.UnrealizedPLPercent < 0 {
			losers = append(losers, p)
		}
	}
	sortByPLPercentDesc(losers)
	if len(losers) > tradeListSize {
		losers = losers[len(losers)-tradeListSize:]
	}
	for i, j := 0, len(losers)-1; i < j; i, j = i+1, j-1 {
		losers[i], losers[j] = losers[j], losers[i]
	}
	return losers
}

// GroupPositions values every holding in the group, tagged with its owner's name.
func GroupPositions(g *models.Group) []models.PositionPerformance {
	names := make(map[string]string, len(g.Members))
	for _, m := range g.Members {
		names[m.MemberID] = m.DisplayName
	}

	positions := make([]models.PositionPerformance, 0, len(g.Holdings))
	for _, h := range g.Holdings {
		positions = append(positions, positionPerformance(h, names[h.MemberID]))
	}
	return positions
}

// BuildLeaderboard ranks the group's members for the scope and collects the
// group-wide statistics and best/worst trades.
func BuildLeaderboard(g *models.Group, scope models.Scope, season *models.Season) (models.Leaderboard, error) {
	gm, err := AggregateGroup(g, scope, season)
	if err != nil {
		return models.Leaderboard{}, err
	}

	positions := GroupPositions(g)

	return models.Leaderboard{
		GroupID:              g.GroupID,
		Scope:                scope,
		SeasonID:             gm.SeasonID,
		Entries:              RankMembers(gm.Members),
		TotalValue:           gm.TotalValue,
		TotalBaseline:        gm.TotalBaseline,
		TotalPL:              gm.TotalReturn,
		GroupPLPercent:       gm.TotalReturnPercent,
		AverageReturnPercent: AverageReturnPercent(gm.Members),
		BestTrades:           BestTrades(positions),
		WorstTrades:          WorstTrades(positions),
	}, nil
}
