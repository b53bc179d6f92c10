// Command dashboard extracts Master and life-settlement workbooks from the command line
// and prints the reports as markdown.
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
	commander.Register(&loansCmd{}, "reports")
	commander.Register(&policiesCmd{}, "reports")
	commander.Register(&reconcileCmd{}, "reports")
	commander.Register(&layoutCmd{}, "profiles")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
