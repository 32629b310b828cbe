// Package interpreter is a tree-walking evaluator over the post-macro-
// expansion AST (package ast), used as a cross-checker against the
// compiler+VM pipeline for terminating, non-concurrent programs (spec §9
// Open Question: the function-lifter-preservation property is validated by
// comparing this interpreter's result against compile+run of the same
// AST). Grounded on the teacher's interpreter.TreeWalkInterpreter
// (interpreter/interpreter.go), adapted from its visitor-pattern dispatch
// (ast.Stmt/Expr.Accept) to a type switch, since this project's ast.Node
// has no Accept methods.
package interpreter

import (
	"islisp/ast"
	"islisp/syscall"
	"islisp/value"
)

// Interpreter holds the global environment and syscall registry shared
// across a session's worth of top-level forms, the same way a VM instance
// persists env across successive ImportJump calls.
type Interpreter struct {
	Global   *Environment
	Syscalls *syscall.Registry
}

// New returns an Interpreter seeded with the required built-in syscalls
// (spec §4.6), reusing package syscall's registry and Invoke so the
// cross-checker exercises the same primitive implementations the VM does.
func New() *Interpreter {
	reg := syscall.NewRegistry()
	syscall.RegisterDefaults(reg)
	env := NewEnvironment()
	for name, v := range reg.Bindings() {
		env.Define(name, v)
	}
	return &Interpreter{Global: env, Syscalls: reg}
}

// Eval evaluates n in the interpreter's global environment.
func (it *Interpreter) Eval(n ast.Node) (value.Value, error) {
	return it.eval(n, it.Global)
}

func (it *Interpreter) eval(n ast.Node, env *Environment) (value.Value, error) {
	switch t := n.(type) {
	case ast.ValueNode:
		return t.V, nil

	case ast.If:
		cond, err := it.eval(t.Pred, env)
		if err != nil {
			return nil, err
		}
		if value.Truthy(cond) {
			return it.eval(t.Then, env)
		}
		return it.eval(t.Else, env)

	case ast.Def:
		v, err := it.eval(t.Value, env)
		if err != nil {
			return nil, err
		}
		if !env.SetExisting(t.Name, v) {
			env.Define(t.Name, v)
		}
		return v, nil

	case ast.Let:
		scope := NewChildEnvironment(env)
		for _, d := range t.Defs {
			v, err := it.eval(d.Value, scope)
			if err != nil {
				return nil, err
			}
			scope.Define(d.Name, v)
		}
		return it.eval(t.Body, scope)

	case ast.Do:
		if len(t.Exprs) == 0 {
			return value.Boolean(false), nil
		}
		var result value.Value
		for _, e := range t.Exprs {
			v, err := it.eval(e, env)
			if err != nil {
				return nil, err
			}
			result = v
		}
		return result, nil

	case ast.Lambda:
		return Closure{Params: t.Args, Body: t.Body, Env: env}, nil

	case ast.Var:
		v, ok := env.Get(t.Name)
		if !ok {
			return nil, errf("unbound variable: %s", t.Name)
		}
		return v, nil

	case ast.Application:
		return it.evalApplication(t, env)

	default:
		return nil, errf("interpreter cannot evaluate %T (only the pre-lift AST is supported)", n)
	}
}

func (it *Interpreter) evalApplication(app ast.Application, env *Environment) (value.Value, error) {
	if gv, ok := app.Fn.(ast.Var); ok {
		if _, isIntrinsic := intrinsicArity[gv.Name]; isIntrinsic {
			return nil, errf("%s: concurrency intrinsics are not supported by the tree-walking cross-checker (spec §9); run the program under the VM instead", gv.Name)
		}
	}

	fn, err := it.eval(app.Fn, env)
	if err != nil {
		return nil, err
	}
	args := make([]value.Value, len(app.Args))
	for i, a := range app.Args {
		v, err := it.eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return it.apply(fn, args)
}

var intrinsicArity = map[string]int{
	"fork": 0, "wait": 0, "send": 2, "pid": 0, "terminate": 1,
}

func (it *Interpreter) apply(fn value.Value, args []value.Value) (value.Value, error) {
	switch f := fn.(type) {
	case Closure:
		if len(f.Params) != len(args) {
			return nil, errf("closure expects %d argument(s), got %d", len(f.Params), len(args))
		}
		call := NewChildEnvironment(f.Env)
		for i, p := range f.Params {
			call.Define(p, args[i])
		}
		return it.eval(f.Body, call)

	case value.Closure:
		if f.Arity != len(args) {
			return nil, errf("syscall expects %d argument(s), got %d", f.Arity, len(args))
		}
		return it.invokeSyscall(f.Addr, args)

	case value.Address:
		return it.invokeSyscall(f, args)

	default:
		return nil, errf("value of type %T is not callable", fn)
	}
}

// invokeSyscall replays args (given here in natural left-to-right order)
// onto a stack in the reversed order syscall.Registry.Invoke expects (spec
// §4.4: ordinary calls push arguments in reverse, so the first source
// argument ends up on top), so the interpreter exercises the exact same
// registry and primitive implementations the VM's OpCallArity dispatch
// does, rather than a second copy of arithmetic/list logic.
func (it *Interpreter) invokeSyscall(addr value.Address, args []value.Value) (value.Value, error) {
	stack := make([]value.Value, len(args))
	for i, a := range args {
		stack[len(args)-1-i] = a
	}
	out, err := it.Syscalls.Invoke(addr, stack)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return value.NilValue, nil
	}
	return out[len(out)-1], nil
}
