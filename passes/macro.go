// Package passes implements the AST-to-AST pipeline between the parser and
// the bytecode compiler (spec §4.3): internal-macro expansion, the
// unbound-variable check, alpha-renaming, function lifting and local-slot
// assignment. Each pass is a pure function over ast.Node (or, past lifting,
// over the function registry); the type switch in every file here is the Go
// rendering of the spec's per-form Visitor dispatch, not a class hierarchy.
package passes

import (
	"fmt"

	"islisp/ast"
	"islisp/value"
)

var internalMacros = map[string]bool{
	"list": true, "vector": true, "set": true, "ord-map": true, "cond": true,
}

// MacroError reports a malformed use of an internal macro.
type MacroError struct {
	Name    string
	Message string
}

func (e *MacroError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// ExpandMacros rewrites every application of list/vector/set/ord-map/cond
// into the primitive calls they stand for (spec §4.3), recursing bottom-up
// so nested macro uses expand first.
func ExpandMacros(n ast.Node) (ast.Node, error) {
	switch t := n.(type) {
	case ast.ValueNode:
		return t, nil
	case ast.Var:
		return t, nil
	case ast.If:
		pred, err := ExpandMacros(t.Pred)
		if err != nil {
			return nil, err
		}
		then, err := ExpandMacros(t.Then)
		if err != nil {
			return nil, err
		}
		els, err := ExpandMacros(t.Else)
		if err != nil {
			return nil, err
		}
		return ast.If{Pred: pred, Then: then, Else: els}, nil
	case ast.Def:
		val, err := ExpandMacros(t.Value)
		if err != nil {
			return nil, err
		}
		return ast.Def{Name: t.Name, Value: val}, nil
	case ast.Let:
		defs := make([]ast.LetBinding, len(t.Defs))
		for i, d := range t.Defs {
			val, err := ExpandMacros(d.Value)
			if err != nil {
				return nil, err
			}
			defs[i] = ast.LetBinding{Name: d.Name, Value: val}
		}
		body, err := ExpandMacros(t.Body)
		if err != nil {
			return nil, err
		}
		return ast.Let{Defs: defs, Body: body}, nil
	case ast.Do:
		exprs := make([]ast.Node, len(t.Exprs))
		for i, e := range t.Exprs {
			n, err := ExpandMacros(e)
			if err != nil {
				return nil, err
			}
			exprs[i] = n
		}
		return ast.Do{Exprs: exprs}, nil
	case ast.Lambda:
		body, err := ExpandMacros(t.Body)
		if err != nil {
			return nil, err
		}
		return ast.Lambda{Args: t.Args, Body: body}, nil
	case ast.Application:
		fn, err := ExpandMacros(t.Fn)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Node, len(t.Args))
		for i, a := range t.Args {
			n, err := ExpandMacros(a)
			if err != nil {
				return nil, err
			}
			args[i] = n
		}
		if v, ok := fn.(ast.Var); ok && internalMacros[v.Name] {
			return expandMacroCall(v.Name, args)
		}
		return ast.Application{Fn: fn, Args: args}, nil
	default:
		return n, nil
	}
}

func expandMacroCall(name string, args []ast.Node) (ast.Node, error) {
	switch name {
	case "list":
		acc := ast.Node(ast.ValueNode{V: value.EmptyList})
		for i := len(args) - 1; i >= 0; i-- {
			acc = ast.Application{Fn: ast.Var{Name: "cons"}, Args: []ast.Node{args[i], acc}}
		}
		return acc, nil
	case "vector":
		acc := ast.Node(ast.ValueNode{V: value.EmptyVector})
		for _, a := range args {
			acc = ast.Application{Fn: ast.Var{Name: "conj"}, Args: []ast.Node{acc, a}}
		}
		return acc, nil
	case "set":
		acc := ast.Node(ast.ValueNode{V: value.EmptySet})
		for _, a := range args {
			acc = ast.Application{Fn: ast.Var{Name: "conj"}, Args: []ast.Node{acc, a}}
		}
		return acc, nil
	case "ord-map":
		if len(args)%2 != 0 {
			return nil, &MacroError{Name: name, Message: "requires an even number of arguments"}
		}
		acc := ast.Node(ast.ValueNode{V: value.EmptyMap})
		for i := 0; i < len(args); i += 2 {
			acc = ast.Application{Fn: ast.Var{Name: "assoc"}, Args: []ast.Node{acc, args[i], args[i+1]}}
		}
		return acc, nil
	case "cond":
		if len(args)%2 != 0 {
			return nil, &MacroError{Name: name, Message: "requires an even number of clauses"}
		}
		acc := ast.Node(ast.ValueNode{V: value.Symbol("incomplete-cond-use-true")})
		for i := len(args) - 2; i >= 0; i -= 2 {
			acc = ast.If{Pred: args[i], Then: args[i+1], Else: acc}
		}
		return acc, nil
	default:
		return nil, &MacroError{Name: name, Message: "unknown internal macro"}
	}
}
