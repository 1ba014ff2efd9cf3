// Command league reports group rankings, member performance and charts from a
// JSON state file.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&leaderboardCmd{}, "reports")
	commander.Register(&memberCmd{}, "reports")
	commander.Register(&chartCmd{}, "reports")

	commander.Register(&recordCmd{}, "state")
	commander.Register(&seasonCmd{}, "state")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
