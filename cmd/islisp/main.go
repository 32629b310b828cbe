// Command islisp is the driver named in spec §6: repl, run, inspect and
// self subcommands over github.com/google/subcommands, the CLI library the
// teacher depends on. Unlike the teacher's own cmd_*.go files — each a
// valid subcommands.Command that main.go never actually registers — this
// main wires every subcommand through subcommands.Register so they are
// reachable from the command line.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&replCmd{}, "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&inspectCmd{}, "")
	subcommands.Register(&selfCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}
