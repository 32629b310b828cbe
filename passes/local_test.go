package passes

import (
	"testing"

	"islisp/ast"
	"islisp/reader"
)

func localizeSrc(t *testing.T, src string) LocalProgram {
	t.Helper()
	forms, err := reader.Read(src)
	if err != nil {
		t.Fatalf("reader.Read(%q): %v", src, err)
	}
	n, err := ast.Build(forms)
	if err != nil {
		t.Fatalf("ast.Build(%q): %v", src, err)
	}
	lifted, err := Lift(n)
	if err != nil {
		t.Fatalf("Lift(%q): %v", src, err)
	}
	prog, err := AssignLocals(lifted)
	if err != nil {
		t.Fatalf("AssignLocals(%q): %v", src, err)
	}
	return prog
}

func TestAssignLocalsParamBecomesLocalVar(t *testing.T) {
	prog := localizeSrc(t, "(lambda (x) x)")
	// slots: 0 dummy, 1 the lambda, 2 entry
	fn := prog.Functions[1]
	if fn.NumParams != 1 || fn.NumLocals != 1 {
		t.Errorf("fn = %+v, want 1 param and 1 local", fn)
	}
	if _, ok := fn.Body.(ast.LocalVar); !ok {
		t.Errorf("body = %T, want LocalVar", fn.Body)
	}
}

func TestAssignLocalsTopLevelDefIsGlobal(t *testing.T) {
	prog := localizeSrc(t, "(def x 1) x")
	entry := prog.Functions[prog.Entry]
	do := entry.Body.(ast.Do)
	if _, ok := do.Exprs[0].(ast.GlobalDef); !ok {
		t.Errorf("top-level def = %T, want GlobalDef", do.Exprs[0])
	}
	if _, ok := do.Exprs[1].(ast.GlobalVar); !ok {
		t.Errorf("top-level read = %T, want GlobalVar", do.Exprs[1])
	}
}

func TestAssignLocalsInnerDefIsLocalAndGlobal(t *testing.T) {
	prog := localizeSrc(t, "(lambda () (do (def y 1) y))")
	fn := prog.Functions[1]
	do := fn.Body.(ast.Do)
	inner, ok := do.Exprs[0].(ast.InnerDef)
	if !ok {
		t.Fatalf("inner def = %T, want InnerDef", do.Exprs[0])
	}
	if inner.Name != "y" {
		t.Errorf("InnerDef.Name = %q, want y", inner.Name)
	}
	read, ok := do.Exprs[1].(ast.LocalVar)
	if !ok || read.Index != inner.Index {
		t.Errorf("subsequent read should resolve to the inner def's local slot, got %+v", do.Exprs[1])
	}
}

func TestAssignLocalsLetBindingsGetDenseSlots(t *testing.T) {
	prog := localizeSrc(t, "(lambda (x) (let (y 1 z 2) z))")
	fn := prog.Functions[1]
	let := fn.Body.(ast.Let)
	if let.Defs[0].Index != 1 || let.Defs[1].Index != 2 {
		t.Errorf("let binding indices = %d,%d, want 1,2 (after param x at 0)", let.Defs[0].Index, let.Defs[1].Index)
	}
	if fn.NumLocals != 3 {
		t.Errorf("NumLocals = %d, want 3", fn.NumLocals)
	}
}
