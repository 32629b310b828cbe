package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"islisp/ast"
	"islisp/interpreter"
	"islisp/passes"
	"islisp/reader"
)

// selfCmd implements the "self" subcommand (spec §6 "self (run the
// bootstrap self-hosted interpreter)"): it runs a program through the
// tree-walking interpreter instead of the compiler+VM pipeline, the same
// evaluator the cross-checker (spec §9 Open Question) uses to validate
// compile(lift(a)) against eval(a).
type selfCmd struct{}

func (*selfCmd) Name() string     { return "self" }
func (*selfCmd) Synopsis() string { return "run a program under the tree-walking interpreter" }
func (*selfCmd) Usage() string {
	return "self [file]:\n  Evaluate a program directly, bypassing the compiler and VM.\n"
}
func (*selfCmd) SetFlags(*flag.FlagSet) {}

func (s *selfCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	src, err := readSource(f.Args())
	if err != nil {
		printErrorChain(os.Stderr, err)
		return subcommands.ExitFailure
	}

	forms, err := reader.Read(src)
	if err != nil {
		printErrorChain(os.Stderr, err)
		return subcommands.ExitFailure
	}
	n, err := ast.Build(forms)
	if err != nil {
		printErrorChain(os.Stderr, err)
		return subcommands.ExitFailure
	}
	n, err = passes.ExpandMacros(n)
	if err != nil {
		printErrorChain(os.Stderr, err)
		return subcommands.ExitFailure
	}

	it := interpreter.New()
	out, err := it.Eval(n)
	if err != nil {
		printErrorChain(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Println(out.String())
	return subcommands.ExitSuccess
}
