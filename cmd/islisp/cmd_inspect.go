package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"islisp/compiler"
)

// inspectCmd implements the "inspect" subcommand (spec §6 "inspect (print
// each IR stage)"), grounded on the teacher's cmd_emit_bytecode.go
// (lex/parse/compile, then dump the result) but printing to stdout instead
// of writing .nic/.dnic files, since persisted state is explicitly out of
// scope (spec §6 "Persisted state: none").
type inspectCmd struct{}

func (*inspectCmd) Name() string     { return "inspect" }
func (*inspectCmd) Synopsis() string { return "print the AST and bytecode for a program" }
func (*inspectCmd) Usage() string {
	return "inspect [file]:\n  Print the macro-expanded AST and disassembled bytecode for a program.\n"
}
func (*inspectCmd) SetFlags(*flag.FlagSet) {}

func (c *inspectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	src, err := readSource(f.Args())
	if err != nil {
		printErrorChain(os.Stderr, err)
		return subcommands.ExitFailure
	}

	n, bc, _, err := compileSource(src)
	if err != nil {
		if n != nil {
			fmt.Println("AST:")
			fmt.Println(n.String())
			fmt.Println()
		}
		printErrorChain(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Println("AST:")
	fmt.Println(n.String())
	fmt.Println()
	fmt.Println("Bytecode:")
	fmt.Print(compiler.Disassemble(bc))
	return subcommands.ExitSuccess
}
