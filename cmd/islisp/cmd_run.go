package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// runCmd implements the "run" subcommand, grounded on the teacher's
// cmd_run_compiled.go (lex/parse/compile/run a file) generalized to also
// accept stdin, per spec §6's "run (compile & execute from stdin)".
type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "compile and execute a program" }
func (*runCmd) Usage() string {
	return "run [file]:\n  Compile and execute islisp source from a file, or from stdin if no file is given.\n"
}
func (*runCmd) SetFlags(*flag.FlagSet) {}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	src, err := readSource(f.Args())
	if err != nil {
		printErrorChain(os.Stderr, err)
		return subcommands.ExitFailure
	}

	_, bc, reg, err := compileSource(src)
	if err != nil {
		printErrorChain(os.Stderr, err)
		return subcommands.ExitFailure
	}

	out, err := runBytecode(bc, reg)
	if err != nil {
		printErrorChain(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Println(out)
	return subcommands.ExitSuccess
}
