package ast

import (
	"fmt"

	"islisp/value"
)

// ParseError reports a malformed special form, tagged with the index of the
// offending top-level literal (spec §4.2, §7).
type ParseError struct {
	Index   int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at form %d: %s", e.Index, e.Message)
}

var specialForms = map[string]bool{
	"if": true, "def": true, "let": true, "do": true,
	"lambda": true, "fn": true, "quote": true, "quasiquote": true,
}

// Build turns a non-empty sequence of reader Values into a single AST:
// one AST if there's exactly one expression, Do(…) otherwise, and
// Value(Boolean(false)) for the empty case (spec §4.2, §8 property 2).
func Build(forms []value.Value) (Node, error) {
	if len(forms) == 0 {
		return ValueNode{V: value.Boolean(false)}, nil
	}
	if len(forms) == 1 {
		return parseForm(forms[0], 0)
	}

	exprs := make([]Node, len(forms))
	for i, f := range forms {
		n, err := parseForm(f, i)
		if err != nil {
			return nil, err
		}
		exprs[i] = n
	}
	return Do{Exprs: exprs}, nil
}

func parseForm(v value.Value, idx int) (Node, error) {
	switch vv := v.(type) {
	case value.Symbol:
		return Var{Name: string(vv)}, nil
	case value.List:
		return parseList(vv, idx)
	default:
		return ValueNode{V: v}, nil
	}
}

func parseList(lst value.List, idx int) (Node, error) {
	items := lst.Items()
	if len(items) == 0 {
		return ValueNode{V: lst}, nil
	}

	if head, ok := items[0].(value.Symbol); ok && specialForms[string(head)] {
		rest := items[1:]
		switch string(head) {
		case "if":
			return parseIf(rest, idx)
		case "def":
			return parseDef(rest, idx)
		case "let":
			return parseLet(rest, idx)
		case "do":
			return parseDo(rest, idx)
		case "lambda", "fn":
			return parseLambda(rest, idx)
		case "quote":
			return parseQuote(rest, idx)
		case "quasiquote":
			return parseQuasiquote(rest, idx)
		}
	}

	return parseApplication(items, idx)
}

func parseIf(rest []value.Value, idx int) (Node, error) {
	if len(rest) != 3 {
		return nil, &ParseError{Index: idx, Message: fmt.Sprintf("if requires exactly 3 sub-expressions, got %d", len(rest))}
	}
	pred, err := parseForm(rest[0], idx)
	if err != nil {
		return nil, err
	}
	then, err := parseForm(rest[1], idx)
	if err != nil {
		return nil, err
	}
	els, err := parseForm(rest[2], idx)
	if err != nil {
		return nil, err
	}
	return If{Pred: pred, Then: then, Else: els}, nil
}

func parseDef(rest []value.Value, idx int) (Node, error) {
	if len(rest) != 2 {
		return nil, &ParseError{Index: idx, Message: fmt.Sprintf("def requires exactly 2 sub-expressions, got %d", len(rest))}
	}
	sym, ok := rest[0].(value.Symbol)
	if !ok {
		return nil, &ParseError{Index: idx, Message: "def's first argument must be a symbol"}
	}
	val, err := parseForm(rest[1], idx)
	if err != nil {
		return nil, err
	}
	return Def{Name: string(sym), Value: val}, nil
}

func parseLet(rest []value.Value, idx int) (Node, error) {
	if len(rest) == 0 {
		return nil, &ParseError{Index: idx, Message: "let requires a bindings list"}
	}
	bindingList, ok := rest[0].(value.List)
	if !ok {
		return nil, &ParseError{Index: idx, Message: "let's first argument must be a flat bindings list"}
	}
	items := bindingList.Items()
	if len(items)%2 != 0 {
		return nil, &ParseError{Index: idx, Message: "let bindings must have an even number of elements"}
	}

	defs := make([]LetBinding, 0, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		sym, ok := items[i].(value.Symbol)
		if !ok {
			return nil, &ParseError{Index: idx, Message: "let binding names must be symbols"}
		}
		val, err := parseForm(items[i+1], idx)
		if err != nil {
			return nil, err
		}
		defs = append(defs, LetBinding{Name: string(sym), Value: val})
	}

	body, err := wrapBody(rest[1:], idx)
	if err != nil {
		return nil, err
	}
	return Let{Defs: defs, Body: body}, nil
}

func parseDo(rest []value.Value, idx int) (Node, error) {
	exprs := make([]Node, len(rest))
	for i, v := range rest {
		n, err := parseForm(v, idx)
		if err != nil {
			return nil, err
		}
		exprs[i] = n
	}
	return Do{Exprs: exprs}, nil
}

func parseLambda(rest []value.Value, idx int) (Node, error) {
	if len(rest) == 0 {
		return nil, &ParseError{Index: idx, Message: "lambda requires a parameter list"}
	}
	paramList, ok := rest[0].(value.List)
	if !ok {
		return nil, &ParseError{Index: idx, Message: "lambda's first argument must be a parameter list"}
	}
	args := make([]string, 0, paramList.Len())
	for _, p := range paramList.Items() {
		sym, ok := p.(value.Symbol)
		if !ok {
			return nil, &ParseError{Index: idx, Message: "lambda parameters must be symbols"}
		}
		args = append(args, string(sym))
	}

	body, err := wrapBody(rest[1:], idx)
	if err != nil {
		return nil, err
	}
	return Lambda{Args: args, Body: body}, nil
}

func parseQuote(rest []value.Value, idx int) (Node, error) {
	if len(rest) != 1 {
		return nil, &ParseError{Index: idx, Message: fmt.Sprintf("quote requires exactly 1 argument, got %d", len(rest))}
	}
	return ValueNode{V: rest[0]}, nil
}

func parseQuasiquote(rest []value.Value, idx int) (Node, error) {
	if len(rest) != 1 {
		return nil, &ParseError{Index: idx, Message: fmt.Sprintf("quasiquote requires exactly 1 argument, got %d", len(rest))}
	}
	return quasiExpand(rest[0], idx)
}

func parseApplication(items []value.Value, idx int) (Node, error) {
	fn, err := parseForm(items[0], idx)
	if err != nil {
		return nil, err
	}
	args := make([]Node, len(items)-1)
	for i, v := range items[1:] {
		n, err := parseForm(v, idx)
		if err != nil {
			return nil, err
		}
		args[i] = n
	}
	return Application{Fn: fn, Args: args}, nil
}

// wrapBody implements the shared let/lambda body rule: zero expressions ->
// Value(false), one -> that expression, more -> wrapped in Do.
func wrapBody(rest []value.Value, idx int) (Node, error) {
	if len(rest) == 0 {
		return ValueNode{V: value.Boolean(false)}, nil
	}
	if len(rest) == 1 {
		return parseForm(rest[0], idx)
	}
	return parseDo(rest, idx)
}

// quasiExpand implements the quasiquote parse-time expansion rule (spec
// §4.2): a template containing `unquote` expands into a direct parse of the
// unquoted sub-expression when the template is exactly (unquote X), or into
// an Application of `list` to the recursively-processed children;
// otherwise it behaves like quote.
func quasiExpand(tmpl value.Value, idx int) (Node, error) {
	lst, ok := tmpl.(value.List)
	if !ok {
		return ValueNode{V: tmpl}, nil
	}
	items := lst.Items()

	if sym, val, ok := asUnquote(items); ok {
		_ = sym
		return parseForm(val, idx)
	}

	if !containsUnquote(tmpl) {
		return ValueNode{V: tmpl}, nil
	}

	args := make([]Node, len(items))
	for i, it := range items {
		n, err := quasiExpand(it, idx)
		if err != nil {
			return nil, err
		}
		args[i] = n
	}
	return Application{Fn: Var{Name: "list"}, Args: args}, nil
}

func asUnquote(items []value.Value) (value.Symbol, value.Value, bool) {
	if len(items) != 2 {
		return "", nil, false
	}
	sym, ok := items[0].(value.Symbol)
	if !ok || sym != "unquote" {
		return "", nil, false
	}
	return sym, items[1], true
}

func containsUnquote(v value.Value) bool {
	lst, ok := v.(value.List)
	if !ok {
		return false
	}
	items := lst.Items()
	if _, _, ok := asUnquote(items); ok {
		return true
	}
	for _, it := range items {
		if containsUnquote(it) {
			return true
		}
	}
	return false
}
