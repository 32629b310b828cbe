package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"islisp/repl"
)

// replCmd implements the "repl" subcommand (spec §6), delegating to
// package repl, grounded on the teacher's cmd_repl_compiled.go but backed
// by github.com/chzyer/readline instead of a bare bufio.Scanner.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "start an interactive session" }
func (*replCmd) Usage() string {
	return "repl:\n  Start an interactive islisp session.\n"
}
func (*replCmd) SetFlags(*flag.FlagSet) {}

func (r *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := repl.Run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "repl: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
