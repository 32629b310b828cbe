package passes

import (
	"islisp/ast"
	"islisp/value"
)

// Function is one entry in a LiftedAST's registry: the parameter list and
// body of a lambda that used to live inline, now addressable by slot index.
type Function struct {
	Args []string
	Body ast.Node
}

// LiftedAST is the function registry a program settles into once every
// Lambda has been pulled out into its own numbered slot (spec §4.3). Slot 0
// is a reserved dummy no program ever calls; Entry names the slot holding
// the program's top-level body.
type LiftedAST struct {
	Functions []Function
	Entry     int
}

type lifter struct {
	fns []Function
}

// Lift walks n top-down, replacing every Lambda with a Closure literal that
// points at a freshly allocated registry slot holding {args, lifted body},
// and returns the completed registry with Entry pointing at a final slot
// holding the rewritten top-level program.
func Lift(n ast.Node) (LiftedAST, error) {
	l := &lifter{fns: []Function{{Args: nil, Body: ast.ValueNode{V: value.Boolean(false)}}}}
	top, err := l.walk(n)
	if err != nil {
		return LiftedAST{}, err
	}
	entry := len(l.fns)
	l.fns = append(l.fns, Function{Args: nil, Body: top})
	return LiftedAST{Functions: l.fns, Entry: entry}, nil
}

func (l *lifter) walk(n ast.Node) (ast.Node, error) {
	switch t := n.(type) {
	case ast.ValueNode:
		return t, nil
	case ast.Var:
		return t, nil
	case ast.If:
		pred, err := l.walk(t.Pred)
		if err != nil {
			return nil, err
		}
		then, err := l.walk(t.Then)
		if err != nil {
			return nil, err
		}
		els, err := l.walk(t.Else)
		if err != nil {
			return nil, err
		}
		return ast.If{Pred: pred, Then: then, Else: els}, nil
	case ast.Def:
		val, err := l.walk(t.Value)
		if err != nil {
			return nil, err
		}
		return ast.Def{Name: t.Name, Value: val}, nil
	case ast.Let:
		defs := make([]ast.LetBinding, len(t.Defs))
		for i, d := range t.Defs {
			val, err := l.walk(d.Value)
			if err != nil {
				return nil, err
			}
			defs[i] = ast.LetBinding{Name: d.Name, Value: val}
		}
		body, err := l.walk(t.Body)
		if err != nil {
			return nil, err
		}
		return ast.Let{Defs: defs, Body: body}, nil
	case ast.Do:
		exprs := make([]ast.Node, len(t.Exprs))
		for i, e := range t.Exprs {
			n, err := l.walk(e)
			if err != nil {
				return nil, err
			}
			exprs[i] = n
		}
		return ast.Do{Exprs: exprs}, nil
	case ast.Lambda:
		idx := len(l.fns)
		l.fns = append(l.fns, Function{}) // reserve the slot before recursing
		body, err := l.walk(t.Body)
		if err != nil {
			return nil, err
		}
		l.fns[idx] = Function{Args: t.Args, Body: body}
		return ast.ValueNode{V: value.Closure{Arity: len(t.Args), Addr: value.Address{Chunk: idx}}}, nil
	case ast.Application:
		fn, err := l.walk(t.Fn)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Node, len(t.Args))
		for i, a := range t.Args {
			n, err := l.walk(a)
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

// Import merges other's registry into l, shifting every chunk index other
// uses by the number of slots already in l, and returns the Address other's
// entry function now lives at. This is what lets two units compiled
// independently (for example a freshly read REPL line and the registry a
// previous line already built) be linked into one registry.
func (l *LiftedAST) Import(other LiftedAST) value.Address {
	shift := len(l.Functions)
	for _, fn := range other.Functions {
		l.Functions = append(l.Functions, Function{Args: fn.Args, Body: shiftClosures(fn.Body, shift)})
	}
	return value.Address{Chunk: other.Entry + shift, Op: 0}
}

func shiftClosures(n ast.Node, shift int) ast.Node {
	switch t := n.(type) {
	case ast.ValueNode:
		if c, ok := t.V.(value.Closure); ok {
			return ast.ValueNode{V: value.Closure{Arity: c.Arity, Addr: value.Address{Chunk: c.Addr.Chunk + shift, Op: c.Addr.Op}}}
		}
		return t
	case ast.If:
		return ast.If{Pred: shiftClosures(t.Pred, shift), Then: shiftClosures(t.Then, shift), Else: shiftClosures(t.Else, shift)}
	case ast.Def:
		return ast.Def{Name: t.Name, Value: shiftClosures(t.Value, shift)}
	case ast.Let:
		defs := make([]ast.LetBinding, len(t.Defs))
		for i, d := range t.Defs {
			defs[i] = ast.LetBinding{Name: d.Name, Value: shiftClosures(d.Value, shift)}
		}
		return ast.Let{Defs: defs, Body: shiftClosures(t.Body, shift)}
	case ast.Do:
		exprs := make([]ast.Node, len(t.Exprs))
		for i, e := range t.Exprs {
			exprs[i] = shiftClosures(e, shift)
		}
		return ast.Do{Exprs: exprs}
	case ast.Application:
		args := make([]ast.Node, len(t.Args))
		for i, a := range t.Args {
			args[i] = shiftClosures(a, shift)
		}
		return ast.Application{Fn: shiftClosures(t.Fn, shift), Args: args}
	default:
		return n
	}
}
