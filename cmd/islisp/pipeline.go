package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"islisp/ast"
	"islisp/compiler"
	"islisp/passes"
	"islisp/reader"
	"islisp/syscall"
	"islisp/vm"
)

// readSource reads program text from a file argument, or from stdin when
// no file is given (spec §6 "run (compile & execute from stdin)").
func readSource(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

// compileSource runs src through every semantic pass (spec §4.2-§4.5) and
// returns the resulting bytecode, the registry it was checked against, and
// the post-macro-expansion AST (needed by the inspect subcommand, which
// prints each IR stage).
func compileSource(src string) (ast.Node, compiler.Bytecode, *syscall.Registry, error) {
	reg := syscall.NewRegistry()
	syscall.RegisterDefaults(reg)

	forms, err := reader.Read(src)
	if err != nil {
		return nil, compiler.Bytecode{}, nil, err
	}
	n, err := ast.Build(forms)
	if err != nil {
		return nil, compiler.Bytecode{}, nil, err
	}
	n, err = passes.ExpandMacros(n)
	if err != nil {
		return nil, compiler.Bytecode{}, nil, err
	}

	env := passes.DefaultEnv()
	for _, name := range reg.Names() {
		env[name] = true
	}
	if err := passes.CheckUnbound(n, env); err != nil {
		return n, compiler.Bytecode{}, nil, err
	}

	checked := n
	n, err = passes.Uniquify(n)
	if err != nil {
		return checked, compiler.Bytecode{}, nil, err
	}
	lifted, err := passes.Lift(n)
	if err != nil {
		return checked, compiler.Bytecode{}, nil, err
	}
	prog, err := passes.AssignLocals(lifted)
	if err != nil {
		return checked, compiler.Bytecode{}, nil, err
	}
	bc, err := compiler.Compile(prog)
	if err != nil {
		return checked, compiler.Bytecode{}, nil, err
	}
	return checked, bc, reg, nil
}

// runBytecode builds a fresh VM over reg, imports bc, and runs it to
// completion (spec §6 VM.step_until_value).
func runBytecode(bc compiler.Bytecode, reg *syscall.Registry) (string, error) {
	m := vm.New(reg, nil)
	m.ImportJump(bc)
	out, err := m.StepUntilValue()
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// printErrorChain renders err the way spec §7 asks the driver to.
func printErrorChain(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %s\n", err.Error())
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(w, "caused by: %s\n", cause.Error())
	}
}
