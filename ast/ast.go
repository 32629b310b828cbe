// Package ast defines the syntactic form that source settles into after
// parsing (spec §3) and the passes' LocalAST variant that the local-slot
// pass (package passes) produces from it in place.
//
// Every concrete type below implements Node. A pass differs from another
// only in which of these cases its Visitor overrides (spec §4.3); the
// switch-on-concrete-type idiom used throughout this package and passes is
// the Go rendering of that dispatch, not a class hierarchy.
package ast

import (
	"fmt"
	"strings"

	"islisp/value"
)

// Node is implemented by every AST variant.
type Node interface {
	fmt.Stringer
	astNode()
}

// ValueNode wraps a literal runtime Value (spec: Value(v)).
type ValueNode struct{ V value.Value }

func (ValueNode) astNode() {}
func (n ValueNode) String() string { return n.V.String() }

// If is the three-armed conditional special form.
type If struct {
	Pred, Then, Else Node
}

func (If) astNode() {}
func (n If) String() string { return fmt.Sprintf("(if %s %s %s)", n.Pred, n.Then, n.Else) }

// Def binds a name in the enclosing (global, at top level) environment.
type Def struct {
	Name  string
	Value Node
}

func (Def) astNode() {}
func (n Def) String() string { return fmt.Sprintf("(def %s %s)", n.Name, n.Value) }

// LetBinding is one (name value) pair inside a Let's binding list. Index is
// meaningless until the local pass (package passes) assigns it a
// function-local slot.
type LetBinding struct {
	Name  string
	Value Node
	Index int
}

// Let sequentially evaluates Defs, each visible to the next and to Body.
type Let struct {
	Defs []LetBinding
	Body Node
}

func (Let) astNode() {}
func (n Let) String() string {
	var b strings.Builder
	b.WriteString("(let (")
	for i, d := range n.Defs {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s %s", d.Name, d.Value)
	}
	fmt.Fprintf(&b, ") %s)", n.Body)
	return b.String()
}

// Do evaluates a sequence, keeping only the last value.
type Do struct {
	Exprs []Node
}

func (Do) astNode() {}
func (n Do) String() string {
	var b strings.Builder
	b.WriteString("(do")
	for _, e := range n.Exprs {
		fmt.Fprintf(&b, " %s", e)
	}
	b.WriteByte(')')
	return b.String()
}

// Lambda is an unlifted function literal.
type Lambda struct {
	Args []string
	Body Node
}

func (Lambda) astNode() {}
func (n Lambda) String() string { return fmt.Sprintf("(lambda %v %s)", n.Args, n.Body) }

// Var is a free reference to a binding resolved during the unbound pass.
type Var struct {
	Name string
}

func (Var) astNode() {}
func (n Var) String() string { return n.Name }

// Application calls Fn with Args.
type Application struct {
	Fn   Node
	Args []Node
}

func (Application) astNode() {}
func (n Application) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(n.Fn.String())
	for _, a := range n.Args {
		fmt.Fprintf(&b, " %s", a)
	}
	b.WriteByte(')')
	return b.String()
}

// GlobalVar is a Var the local pass classified as a global-environment
// lookup (LocalAST, spec §3).
type GlobalVar struct {
	Name string
}

func (GlobalVar) astNode() {}
func (n GlobalVar) String() string { return n.Name }

// LocalVar is a Var the local pass classified as a dense function-local slot.
type LocalVar struct {
	Index int
}

func (LocalVar) astNode() {}
func (n LocalVar) String() string { return fmt.Sprintf("local[%d]", n.Index) }

// GlobalDef is a Def the local pass classified as a global-environment store.
type GlobalDef struct {
	Name  string
	Value Node
}

func (GlobalDef) astNode() {}
func (n GlobalDef) String() string { return fmt.Sprintf("(global-def %s %s)", n.Name, n.Value) }

// LocalDef stores a value into a function-local slot with no global side
// effect. The local pass does not produce it (it records let-binding slots
// in LetBinding.Index); the compiler still lowers it where it appears.
type LocalDef struct {
	Index int
	Value Node
}

func (LocalDef) astNode() {}
func (n LocalDef) String() string { return fmt.Sprintf("(local-def %d %s)", n.Index, n.Value) }

// InnerDef is a `def` written inside a function body: it stores to the
// global environment under Name (so later top-level reads still see it) and
// also occupies a local slot (so subsequent reads within the same function
// resolve to the fast path), per the local pass rule in spec §4.3.
type InnerDef struct {
	Name  string
	Index int
	Value Node
}

func (InnerDef) astNode() {}
func (n InnerDef) String() string {
	return fmt.Sprintf("(inner-def %s local[%d] %s)", n.Name, n.Index, n.Value)
}
