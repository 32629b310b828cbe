package passes

import "islisp/ast"

// LocalFunction is a lifted Function whose body has been rewritten with
// GlobalVar/LocalVar/GlobalDef/InnerDef nodes, with each let binding's slot
// recorded in LetBinding.Index (spec §4.3), and whose dense local-slot count
// (parameters, inner defs and let bindings) the compiler needs to size its
// call frame.
type LocalFunction struct {
	NumParams int
	NumLocals int
	Body      ast.Node
}

// LocalProgram is the final, fully-resolved form the compiler consumes.
type LocalProgram struct {
	Functions []LocalFunction
	Entry     int
}

// scope tracks which names are bound to which function-local slot in the
// function currently being localized.
type scope struct {
	names map[string]int
	next  int
}

func newScope(params []string) *scope {
	s := &scope{names: make(map[string]int, len(params))}
	for _, p := range params {
		s.names[p] = s.next
		s.next++
	}
	return s
}

func (s *scope) clone() *scope {
	out := &scope{names: make(map[string]int, len(s.names)), next: s.next}
	for k, v := range s.names {
		out.names[k] = v
	}
	return out
}

func (s *scope) alloc(name string) int {
	idx := s.next
	s.names[name] = idx
	s.next++
	return idx
}

// AssignLocals localizes every function in lifted. Def nodes in the entry
// function become GlobalDef (pure global store: nothing in the entry
// function reads a top-level name through anything but the global
// environment); Def nodes in any other function become InnerDef, storing
// globally and also occupying a local slot so later reads in the same call
// resolve through the fast path (spec §4.3).
func AssignLocals(lifted LiftedAST) (LocalProgram, error) {
	out := make([]LocalFunction, len(lifted.Functions))
	for i, fn := range lifted.Functions {
		s := newScope(fn.Args)
		isEntry := i == lifted.Entry
		body, err := localize(fn.Body, s, isEntry)
		if err != nil {
			return LocalProgram{}, err
		}
		out[i] = LocalFunction{NumParams: len(fn.Args), NumLocals: s.next, Body: body}
	}
	return LocalProgram{Functions: out, Entry: lifted.Entry}, nil
}

func localize(n ast.Node, s *scope, isEntry bool) (ast.Node, error) {
	switch t := n.(type) {
	case ast.ValueNode:
		return t, nil
	case ast.Var:
		if idx, ok := s.names[t.Name]; ok {
			return ast.LocalVar{Index: idx}, nil
		}
		return ast.GlobalVar{Name: t.Name}, nil
	case ast.If:
		pred, err := localize(t.Pred, s, isEntry)
		if err != nil {
			return nil, err
		}
		then, err := localize(t.Then, s, isEntry)
		if err != nil {
			return nil, err
		}
		els, err := localize(t.Else, s, isEntry)
		if err != nil {
			return nil, err
		}
		return ast.If{Pred: pred, Then: then, Else: els}, nil
	case ast.Def:
		val, err := localize(t.Value, s, isEntry)
		if err != nil {
			return nil, err
		}
		if isEntry {
			return ast.GlobalDef{Name: t.Name, Value: val}, nil
		}
		idx := s.alloc(t.Name)
		return ast.InnerDef{Name: t.Name, Index: idx, Value: val}, nil
	case ast.Let:
		local := s.clone()
		defs := make([]ast.LetBinding, len(t.Defs))
		for i, d := range t.Defs {
			val, err := localize(d.Value, local, isEntry)
			if err != nil {
				return nil, err
			}
			idx := local.alloc(d.Name)
			defs[i] = ast.LetBinding{Name: d.Name, Value: val, Index: idx}
		}
		body, err := localize(t.Body, local, isEntry)
		if err != nil {
			return nil, err
		}
		// Let slots stay reserved for the rest of the function, so the
		// frame size counts them.
		s.next = local.next
		return ast.Let{Defs: defs, Body: body}, nil
	case ast.Do:
		exprs := make([]ast.Node, len(t.Exprs))
		for i, e := range t.Exprs {
			n, err := localize(e, s, isEntry)
			if err != nil {
				return nil, err
			}
			exprs[i] = n
		}
		return ast.Do{Exprs: exprs}, nil
	case ast.Application:
		fn, err := localize(t.Fn, s, isEntry)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Node, len(t.Args))
		for i, a := range t.Args {
			n, err := localize(a, s, isEntry)
			if err != nil {
				return nil, err
			}
			args[i] = n
		}
		return ast.Application{Fn: fn, Args: args}, nil
	default:
		return n, nil
	}
}
