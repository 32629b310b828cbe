package interpreter

import (
	"islisp/ast"
	"islisp/value"
)

// Closure is the tree-walking interpreter's own function representation:
// unlike value.Closure (an arity plus a compiled bytecode Address), it
// keeps the lambda's body and the environment it closed over, so Apply can
// just evaluate the body directly. It reuses value.TagClosure since
// conceptually it is the same variant, just under a different evaluation
// strategy.
type Closure struct {
	Params []string
	Body   ast.Node
	Env    *Environment
}

func (Closure) Tag() value.Tag { return value.TagClosure }
func (Closure) String() string { return "#<closure>" }
