package passes

import (
	"fmt"

	"islisp/ast"
)

// renamer hands out fresh names for shadowed bindings. A monotonic counter
// stands in for the spec's "name_rand" suffix: it is deterministic (so
// tests can assert on it) and just as collision-free within one compile.
type renamer struct {
	counter int
}

func (r *renamer) fresh(base string) string {
	r.counter++
	return fmt.Sprintf("%s_%d", base, r.counter)
}

// Uniquify renames every let-binding and function-body def that shadows an
// already-bound name, so later passes never have to reason about shadowing
// (spec §4.3). Top-level defs and names that never shadow anything keep
// their original spelling.
func Uniquify(n ast.Node) (ast.Node, error) {
	r := &renamer{}
	return r.rename(n, map[string]string{}, true)
}

// rename walks n under env (the current name->renamed-name substitution).
// topLevel tracks whether n is still part of the program's outermost
// sequence of forms rather than inside a let or lambda scope — it starts
// true and is reset to false on entering Let or Lambda, mirroring the
// Rust original's top_level_defs flag (ast/passes/unique.rs). A Def
// encountered while topLevel is true keeps its name unconditionally,
// since top-level defs are global and spec §4.3 says they "keep their
// name"; Do does not change topLevel, since it's just a sequencing form.
func (r *renamer) rename(n ast.Node, env map[string]string, topLevel bool) (ast.Node, error) {
	switch t := n.(type) {
	case ast.ValueNode:
		return t, nil
	case ast.Var:
		if newName, ok := env[t.Name]; ok {
			return ast.Var{Name: newName}, nil
		}
		return t, nil
	case ast.If:
		pred, err := r.rename(t.Pred, env, topLevel)
		if err != nil {
			return nil, err
		}
		then, err := r.rename(t.Then, env, topLevel)
		if err != nil {
			return nil, err
		}
		els, err := r.rename(t.Else, env, topLevel)
		if err != nil {
			return nil, err
		}
		return ast.If{Pred: pred, Then: then, Else: els}, nil
	case ast.Def:
		newDef, err := r.renameDef(t, env, topLevel)
		if err != nil {
			return nil, err
		}
		return newDef, nil
	case ast.Let:
		local := cloneStrEnv(env)
		defs := make([]ast.LetBinding, len(t.Defs))
		for i, d := range t.Defs {
			val, err := r.rename(d.Value, local, false)
			if err != nil {
				return nil, err
			}
			name := d.Name
			if _, shadow := local[d.Name]; shadow {
				name = r.fresh(d.Name)
			}
			local[d.Name] = name
			defs[i] = ast.LetBinding{Name: name, Value: val}
		}
		body, err := r.rename(t.Body, local, false)
		if err != nil {
			return nil, err
		}
		return ast.Let{Defs: defs, Body: body}, nil
	case ast.Do:
		local := cloneStrEnv(env)
		exprs := make([]ast.Node, len(t.Exprs))
		for i, e := range t.Exprs {
			if d, ok := e.(ast.Def); ok {
				newDef, err := r.renameDef(d, local, topLevel)
				if err != nil {
					return nil, err
				}
				local[d.Name] = newDef.Name
				exprs[i] = newDef
				continue
			}
			newE, err := r.rename(e, local, topLevel)
			if err != nil {
				return nil, err
			}
			exprs[i] = newE
		}
		return ast.Do{Exprs: exprs}, nil
	case ast.Lambda:
		local := cloneStrEnv(env)
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			name := a
			if _, shadow := local[a]; shadow {
				name = r.fresh(a)
			}
			local[a] = name
			args[i] = name
		}
		body, err := r.rename(t.Body, local, false)
		if err != nil {
			return nil, err
		}
		return ast.Lambda{Args: args, Body: body}, nil
	case ast.Application:
		fn, err := r.rename(t.Fn, env, topLevel)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Node, len(t.Args))
		for i, a := range t.Args {
			na, err := r.rename(a, env, topLevel)
			if err != nil {
				return nil, err
			}
			args[i] = na
		}
		return ast.Application{Fn: fn, Args: args}, nil
	default:
		return n, nil
	}
}

// renameDef renames d's bound name only when shadowing a name already in
// local and topLevel is false; a top-level def always keeps its name.
func (r *renamer) renameDef(d ast.Def, local map[string]string, topLevel bool) (ast.Def, error) {
	val, err := r.rename(d.Value, local, topLevel)
	if err != nil {
		return ast.Def{}, err
	}
	name := d.Name
	if !topLevel {
		if _, shadow := local[d.Name]; shadow {
			name = r.fresh(d.Name)
		}
	}
	return ast.Def{Name: name, Value: val}, nil
}

func cloneStrEnv(env map[string]string) map[string]string {
	out := make(map[string]string, len(env)+4)
	for k, v := range env {
		out[k] = v
	}
	return out
}
