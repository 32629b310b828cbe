package interpreter

import (
	"testing"

	"islisp/ast"
	"islisp/passes"
	"islisp/reader"
	"islisp/value"
)

func evalSrc(t *testing.T, it *Interpreter, src string) (value.Value, error) {
	t.Helper()
	forms, err := reader.Read(src)
	if err != nil {
		t.Fatalf("reader.Read(%q): %v", src, err)
	}
	n, err := ast.Build(forms)
	if err != nil {
		t.Fatalf("ast.Build(%q): %v", src, err)
	}
	n, err = passes.ExpandMacros(n)
	if err != nil {
		t.Fatalf("ExpandMacros(%q): %v", src, err)
	}
	return it.Eval(n)
}

func TestEvalLiteral(t *testing.T) {
	got, err := evalSrc(t, New(), "42")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !value.Equal(got, value.Number(42)) {
		t.Errorf("got %v, want 42", got)
	}
}

func TestEvalIf(t *testing.T) {
	got, err := evalSrc(t, New(), "(if #f 1 2)")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !value.Equal(got, value.Number(2)) {
		t.Errorf("got %v, want 2", got)
	}
}

func TestEvalLambdaCall(t *testing.T) {
	got, err := evalSrc(t, New(), "(def inc (lambda (n) (+ n 1))) (inc 41)")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !value.Equal(got, value.Number(42)) {
		t.Errorf("got %v, want 42", got)
	}
}

func TestEvalLetSequentialScoping(t *testing.T) {
	got, err := evalSrc(t, New(), "(let (x 1 y (+ x 1)) (+ x y))")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !value.Equal(got, value.Number(3)) {
		t.Errorf("got %v, want 3", got)
	}
}

func TestEvalSubsequentFormsSeeSameSession(t *testing.T) {
	it := New()
	if _, err := evalSrc(t, it, "(def inc (lambda (n) (+ n 1)))"); err != nil {
		t.Fatalf("first Eval: %v", err)
	}
	got, err := evalSrc(t, it, "(inc 6)")
	if err != nil {
		t.Fatalf("second Eval: %v", err)
	}
	if !value.Equal(got, value.Number(7)) {
		t.Errorf("got %v, want 7", got)
	}
}

func TestEvalClosureCapturesLexicalEnv(t *testing.T) {
	got, err := evalSrc(t, New(), "(def adder (lambda (x) (lambda (y) (+ x y)))) ((adder 10) 5)")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !value.Equal(got, value.Number(15)) {
		t.Errorf("got %v, want 15", got)
	}
}

func TestEvalArityMismatch(t *testing.T) {
	_, err := evalSrc(t, New(), "(def f (lambda (a b) a)) (f 1)")
	if err == nil {
		t.Fatal("calling a 2-ary closure with 1 argument should fail")
	}
}

func TestEvalUnboundVariable(t *testing.T) {
	_, err := evalSrc(t, New(), "x")
	if err == nil {
		t.Fatal("an unbound variable should fail")
	}
}

func TestEvalIntrinsicRejected(t *testing.T) {
	_, err := evalSrc(t, New(), "(fork)")
	if err == nil {
		t.Fatal("(fork) should be rejected by the tree-walking cross-checker")
	}
}

func TestEvalListBuiltins(t *testing.T) {
	got, err := evalSrc(t, New(), "(first (list 1 2 3))")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !value.Equal(got, value.Number(1)) {
		t.Errorf("got %v, want 1", got)
	}
}
