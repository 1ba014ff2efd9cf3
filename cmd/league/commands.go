package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/bobmcallan/league/internal/interfaces"
	"github.com/bobmcallan/league/internal/models"
)

var stdout io.Writer = os.Stdout

var errUsage = errors.New("usage")

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitStatus reports err on stderr and maps it to an exit status.
func exitStatus(err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, errUsage) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// leaderboardCmd holds the flags for the 'leaderboard' subcommand.
type leaderboardCmd struct {
	scope    string
	seasonID string
	json     bool
}

func (*leaderboardCmd) Name() string     { return "leaderboard" }
func (*leaderboardCmd) Synopsis() string { return "rank group members by return" }
func (*leaderboardCmd) Usage() string {
	return `league leaderboard [-scope all_time|season] [-season <id>] [-json]

  Ranks members by return percent, with group totals and best/worst trades.
`
}

func (c *leaderboardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.scope, "scope", "all_time", "Baseline scope: all_time or season")
	f.StringVar(&c.seasonID, "season", "", "Season id (defaults to the active season)")
	f.BoolVar(&c.json, "json", false, "Print JSON instead of a rendered report")
}

func (c *leaderboardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return exitStatus(c.run(ctx, stdout))
}

func (c *leaderboardCmd) run(ctx context.Context, w io.Writer) error {
	scope, err := models.ParseScope(c.scope)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	ws, err := openWorkspace(ctx, *statePath)
	if err != nil {
		return err
	}

	lb, err := ws.svc.GetLeaderboard(ctx, ws.groupID, scope, c.seasonID)
	if err != nil {
		return err
	}
	if c.json {
		return writeJSON(w, lb)
	}

	g, err := ws.svc.GetGroup(ctx, ws.groupID)
	if err != nil {
		return err
	}
	printMarkdown(w, leaderboardMarkdown(g.Name, lb))
	return nil
}

// memberCmd holds the flags for the 'member' subcommand.
type memberCmd struct {
	seasonID string
	json     bool
}

func (*memberCmd) Name() string     { return "member" }
func (*memberCmd) Synopsis() string { return "show one member's performance" }
func (*memberCmd) Usage() string {
	return `league member [-season <id>] [-json] <member-id>

  Shows a member's all-time metrics, season return and positions.
`
}

func (c *memberCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.seasonID, "season", "", "Season id (defaults to the active season)")
	f.BoolVar(&c.json, "json", false, "Print JSON instead of a rendered report")
}

func (c *memberCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	return exitStatus(c.run(ctx, stdout, f.Arg(0)))
}

func (c *memberCmd) run(ctx context.Context, w io.Writer, memberID string) error {
	ws, err := openWorkspace(ctx, *statePath)
	if err != nil {
		return err
	}
	perf, err := ws.svc.GetMemberPerformance(ctx, ws.groupID, memberID, c.seasonID)
	if err != nil {
		return err
	}
	if c.json {
		return writeJSON(w, perf)
	}
	printMarkdown(w, memberMarkdown(perf))
	return nil
}

// chartCmd holds the flags for the 'chart' subcommand.
type chartCmd struct {
	series    string
	timeframe string
	mode      string
	kind      string
	seasonID  string
	png       string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "synthesize a performance chart from the snapshot log" }
func (*chartCmd) Usage() string {
	return `league chart [-series members|group|<member-id>] [-timeframe 7d|30d|90d|1y|ytd|all]
             [-mode all_time|season] [-kind percent|absolute] [-season <id>] [-png <file>]

  Prints aligned chart data as JSON, or writes a PNG when -png is given.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.series, "series", interfaces.ChartScopeMembers, "Series: members, group or a member id")
	f.StringVar(&c.timeframe, "timeframe", "all", "Timeframe: 7d, 30d, 90d, 1y, ytd or all")
	f.StringVar(&c.mode, "mode", "all_time", "Baseline mode: all_time or season")
	f.StringVar(&c.kind, "kind", "percent", "Values: percent or absolute")
	f.StringVar(&c.seasonID, "season", "", "Season id (defaults to the active season)")
	f.StringVar(&c.png, "png", "", "Write a PNG chart to this file")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return exitStatus(c.run(ctx, stdout))
}

func (c *chartCmd) options() (interfaces.ChartOptions, error) {
	opts := interfaces.ChartOptions{Scope: c.series, SeasonID: c.seasonID}
	var err error
	if opts.Timeframe, err = models.ParseTimeframe(c.timeframe); err != nil {
		return opts, fmt.Errorf("%w: %v", errUsage, err)
	}
	if opts.Mode, err = models.ParseScope(c.mode); err != nil {
		return opts, fmt.Errorf("%w: %v", errUsage, err)
	}
	if opts.Kind, err = models.ParseValueKind(c.kind); err != nil {
		return opts, fmt.Errorf("%w: %v", errUsage, err)
	}
	return opts, nil
}

func (c *chartCmd) run(ctx context.Context, w io.Writer) error {
	opts, err := c.options()
	if err != nil {
		return err
	}
	ws, err := openWorkspace(ctx, *statePath)
	if err != nil {
		return err
	}

	if c.png == "" {
		data, err := ws.svc.GetChart(ctx, ws.groupID, opts)
		if err != nil {
			return err
		}
		return writeJSON(w, data)
	}

	png, err := ws.svc.RenderChart(ctx, ws.groupID, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.png, png, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	fmt.Fprintf(w, "Chart written to %s\n", c.png)
	return nil
}

// recordCmd appends snapshots at current values to the state file.
type recordCmd struct{}

func (*recordCmd) Name() string     { return "record" }
func (*recordCmd) Synopsis() string { return "record group and member snapshots at current values" }
func (*recordCmd) Usage() string {
	return `league record

  Appends one snapshot for the group and one per member, then saves the state file.
`
}

func (*recordCmd) SetFlags(*flag.FlagSet) {}

func (c *recordCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return exitStatus(c.run(ctx, stdout))
}

func (c *recordCmd) run(ctx context.Context, w io.Writer) error {
	ws, err := openWorkspace(ctx, *statePath)
	if err != nil {
		return err
	}
	snapshots, err := ws.svc.RecordSnapshots(ctx, ws.groupID)
	if err != nil {
		return err
	}
	if err := ws.save(ctx); err != nil {
		return err
	}
	fmt.Fprintf(w, "Recorded %d snapshots\n", len(snapshots))
	return nil
}

// seasonCmd starts, ends or lists seasons.
type seasonCmd struct {
	name string
	json bool
}

func (*seasonCmd) Name() string     { return "season" }
func (*seasonCmd) Synopsis() string { return "start, end or list competition seasons" }
func (*seasonCmd) Usage() string {
	return `league season [-name <name>] [-json] start|end|list

  start  ends any active season and captures every member's baseline
  end    ends the active season
  list   lists seasons, newest first
`
}

func (c *seasonCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Season name for 'start' (defaults to \"Season N\")")
	f.BoolVar(&c.json, "json", false, "Print JSON")
}

func (c *seasonCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	return exitStatus(c.run(ctx, stdout, f.Arg(0)))
}

func (c *seasonCmd) run(ctx context.Context, w io.Writer, action string) error {
	ws, err := openWorkspace(ctx, *statePath)
	if err != nil {
		return err
	}

	switch action {
	case "start":
		season, err := ws.svc.StartSeason(ctx, ws.groupID, c.name)
		if err != nil {
			return err
		}
		if err := ws.save(ctx); err != nil {
			return err
		}
		return c.print(w, season)

	case "end":
		season, err := ws.svc.EndSeason(ctx, ws.groupID)
		if err != nil {
			return err
		}
		if err := ws.save(ctx); err != nil {
			return err
		}
		return c.print(w, season)

	case "list":
		seasons, err := ws.svc.ListSeasons(ctx, ws.groupID)
		if err != nil {
			return err
		}
		if c.json {
			return writeJSON(w, seasons)
		}
		for _, s := range seasons {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.SeasonID, s.Status, s.StartedAt.Format("2006-01-02"), s.Name)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown season action %q", errUsage, action)
	}
}

func (c *seasonCmd) print(w io.Writer, s *models.Season) error {
	if c.json {
		return writeJSON(w, s)
	}
	fmt.Fprintf(w, "%s %s (%s)\n", s.Name, s.Status, s.SeasonID)
	return nil
}
