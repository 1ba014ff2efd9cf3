package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/bobmcallan/league/internal/models"
)

// printMarkdown renders markdown for the terminal, falling back to the raw text.
func printMarkdown(w io.Writer, md string) {
	out, err := glamour.Render(md, "dark")
	if err != nil {
		fmt.Fprint(w, md)
		return
	}
	fmt.Fprint(w, out)
}

func formatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := fmt.Sprintf("%.2f", v)
	intPart, frac, _ := strings.Cut(whole, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// displayPercent renders a member percent, or a dash when it has no meaningful baseline.
func displayPercent(sm models.ScopedMember) string {
	if sm.DisplayPercent == nil {
		return "-"
	}
	return formatPercent(*sm.DisplayPercent)
}

func scopeTitle(scope models.Scope) string {
	if scope == models.ScopeSeason {
		return "Season"
	}
	return "All-time"
}

func memberLabel(id, name string) string {
	if name != "" {
		return name
	}
	return id
}

// leaderboardMarkdown renders a leaderboard as a markdown report.
func leaderboardMarkdown(groupName string, lb *models.Leaderboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", memberLabel(lb.GroupID, groupName))
	fmt.Fprintf(&b, "## %s leaderboard\n\n", scopeTitle(lb.Scope))
	if lb.SeasonID != "" {
		fmt.Fprintf(&b, "Season `%s`\n\n", lb.SeasonID)
	}

	b.WriteString("| # | Member | Value | Baseline | Return | Return % |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|\n")
	for _, e := range lb.Entries {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			e.Rank, memberLabel(e.MemberID, e.DisplayName),
			formatMoney(e.Value), formatMoney(e.Baseline), formatMoney(e.Return), displayPercent(e.ScopedMember))
	}

	fmt.Fprintf(&b, "\n**Group:** %s of %s, P/L %s (%s). Average member return %s.\n",
		formatMoney(lb.TotalValue), formatMoney(lb.TotalBaseline), formatMoney(lb.TotalPL),
		formatPercent(lb.GroupPLPercent), formatPercent(lb.AverageReturnPercent))

	writeTrades(&b, "Best trades", lb.BestTrades)
	writeTrades(&b, "Worst trades", lb.WorstTrades)
	return b.String()
}

func writeTrades(b *strings.Builder, title string, trades []models.PositionPerformance) {
	if len(trades) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", title)
	b.WriteString("| Member | Symbol | Value | P/L | P/L % |\n")
	b.WriteString("|---|---|---:|---:|---:|\n")
	for _, t := range trades {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			memberLabel(t.MemberID, t.DisplayName), t.Symbol,
			formatMoney(t.CurrentValue), formatMoney(t.UnrealizedPL), formatPercent(t.UnrealizedPLPercent))
	}
}

// memberMarkdown renders one member's all-time and season performance.
func memberMarkdown(perf *models.MemberPerformance) string {
	m := perf.AllTime
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", memberLabel(m.MemberID, m.DisplayName))

	b.WriteString("| | |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Portfolio value | %s |\n", formatMoney(m.PortfolioValue))
	fmt.Fprintf(&b, "| Cash | %s |\n", formatMoney(m.CashBalance))
	fmt.Fprintf(&b, "| Invested | %s |\n", formatMoney(m.InvestedValue))
	fmt.Fprintf(&b, "| Baseline (%s) | %s |\n", m.BaselineSource, formatMoney(m.Baseline))
	fmt.Fprintf(&b, "| Total return | %s (%s) |\n", formatMoney(m.TotalReturn), formatPercent(m.TotalReturnPercent))
	fmt.Fprintf(&b, "| Unrealized P/L | %s (%s) |\n", formatMoney(m.UnrealizedPL), formatPercent(m.UnrealizedPLPercent))
	fmt.Fprintf(&b, "| Realized P/L | %s |\n", formatMoney(m.RealizedPL))

	s := perf.Season
	b.WriteString("\n## Season\n\n")
	if !s.HasSeasonData {
		b.WriteString("No season data.\n")
	} else {
		fmt.Fprintf(&b, "Return %s (%s) from %s.\n",
			formatMoney(s.SeasonReturn), formatPercent(s.SeasonReturnPercent), formatMoney(s.Baseline))
	}

	if len(m.Positions) > 0 {
		b.WriteString("\n## Positions\n\n")
		b.WriteString("| Symbol | Class | Qty | Value | Cost | P/L % |\n")
		b.WriteString("|---|---|---:|---:|---:|---:|\n")
		for _, p := range m.Positions {
			fmt.Fprintf(&b, "| %s | %s | %g | %s | %s | %s |\n",
				p.Symbol, p.AssetClass, p.Quantity,
				formatMoney(p.CurrentValue), formatMoney(p.CostBasis), formatPercent(p.UnrealizedPLPercent))
		}
	}
	return b.String()
}
