package vm

import (
	"testing"

	"islisp/ast"
	"islisp/compiler"
	"islisp/passes"
	"islisp/reader"
	"islisp/value"
)

func compileSrc(t *testing.T, src string) compiler.Bytecode {
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
	n, err = passes.Uniquify(n)
	if err != nil {
		t.Fatalf("Uniquify(%q): %v", src, err)
	}
	lifted, err := passes.Lift(n)
	if err != nil {
		t.Fatalf("Lift(%q): %v", src, err)
	}
	prog, err := passes.AssignLocals(lifted)
	if err != nil {
		t.Fatalf("AssignLocals(%q): %v", src, err)
	}
	bc, err := compiler.Compile(prog)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return bc
}

func runSrc(t *testing.T, src string) (value.Value, error) {
	t.Helper()
	bc := compileSrc(t, src)
	m := NewBuilder().DefaultLibs().Build()
	m.ImportJump(bc)
	return m.StepUntilValue()
}

func TestRunLiteral(t *testing.T) {
	got, err := runSrc(t, "42")
	if err != nil {
		t.Fatalf("StepUntilValue: %v", err)
	}
	if !value.Equal(got, value.Number(42)) {
		t.Errorf("got %v, want 42", got)
	}
}

func TestRunAddition(t *testing.T) {
	got, err := runSrc(t, "(+ 1 2)")
	if err != nil {
		t.Fatalf("StepUntilValue: %v", err)
	}
	if !value.Equal(got, value.Number(3)) {
		t.Errorf("got %v, want 3", got)
	}
}

func TestRunListLiteral(t *testing.T) {
	got, err := runSrc(t, "(list 1 2 3)")
	if err != nil {
		t.Fatalf("StepUntilValue: %v", err)
	}
	want := value.NewList(value.Number(1), value.Number(2), value.Number(3))
	if !value.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRunIf(t *testing.T) {
	got, err := runSrc(t, "(if #t 1 2)")
	if err != nil {
		t.Fatalf("StepUntilValue: %v", err)
	}
	if !value.Equal(got, value.Number(1)) {
		t.Errorf("got %v, want 1", got)
	}
}

func TestRunLambdaCall(t *testing.T) {
	got, err := runSrc(t, "(def inc (lambda (n) (+ n 1))) (inc 1)")
	if err != nil {
		t.Fatalf("StepUntilValue: %v", err)
	}
	if !value.Equal(got, value.Number(2)) {
		t.Errorf("got %v, want 2", got)
	}
}

func TestRunSubsequentDefSeesPriorState(t *testing.T) {
	bc1 := compileSrc(t, "(def inc (lambda (n) (+ n 1))) (inc 1)")
	m := NewBuilder().DefaultLibs().Build()
	m.ImportJump(bc1)
	got, err := m.StepUntilValue()
	if err != nil {
		t.Fatalf("first ImportJump: %v", err)
	}
	if !value.Equal(got, value.Number(2)) {
		t.Fatalf("first result = %v, want 2", got)
	}

	bc2 := compileSrc(t, "(inc 6)")
	m.ImportJump(bc2)
	got, err = m.StepUntilValue()
	if err != nil {
		t.Fatalf("second ImportJump: %v", err)
	}
	if !value.Equal(got, value.Number(7)) {
		t.Errorf("second result = %v, want 7", got)
	}
}

func TestTailRecursionKeepsFrameDepthBounded(t *testing.T) {
	src := `(def count (lambda (n) (if (= n 0) 'done (count (- n 1))))) (count 5000)`
	bc := compileSrc(t, src)
	m := NewBuilder().DefaultLibs().Build()
	m.ImportJump(bc)

	maxFrames := 0
	for {
		_, done, err := m.StepUntilCost(500)
		if err != nil {
			t.Fatalf("StepUntilCost: %v", err)
		}
		if len(m.Frames) > maxFrames {
			maxFrames = len(m.Frames)
		}
		if done {
			break
		}
	}
	if maxFrames > 3 {
		t.Errorf("frame depth reached %d during a 5000-deep tail recursion, want bounded (<=3)", maxFrames)
	}
}

// TestTailRecursionThroughLetKeepsFrameDepthBounded covers the idiomatic
// shape of a tail-recursive accumulator that computes its next argument in
// a let before re-calling itself: the recursive call is wrapped in the
// let's PushEnv/PopEnv, so the tail-call peephole must see past it for
// frame depth to stay bounded (spec §8 property 5).
func TestTailRecursionThroughLetKeepsFrameDepthBounded(t *testing.T) {
	src := `(def f (lambda (n acc) (if (= n 0) acc (let (n1 (- n 1)) (f n1 (+ n acc)))))) (f 5000 1)`
	bc := compileSrc(t, src)
	m := NewBuilder().DefaultLibs().Build()
	m.ImportJump(bc)

	maxFrames := 0
	for {
		_, done, err := m.StepUntilCost(500)
		if err != nil {
			t.Fatalf("StepUntilCost: %v", err)
		}
		if len(m.Frames) > maxFrames {
			maxFrames = len(m.Frames)
		}
		if done {
			break
		}
	}
	if maxFrames > 3 {
		t.Errorf("frame depth reached %d during a 5000-deep let-wrapped tail recursion, want bounded (<=3)", maxFrames)
	}
}

func TestArityMismatchIsError(t *testing.T) {
	bc := compileSrc(t, "(def f (lambda (a b) a)) (f 1)")
	m := NewBuilder().DefaultLibs().Build()
	m.ImportJump(bc)
	if _, err := m.StepUntilValue(); err == nil {
		t.Fatal("calling a 2-ary closure with 1 argument should fail")
	}
}

func TestUnboundVariableIsError(t *testing.T) {
	m := NewBuilder().DefaultLibs().Build()
	bc := compiler.Bytecode{
		Chunks: []compiler.Chunk{{
			{Code: compiler.OpLit, Arg: value.Symbol("nope")},
			{Code: compiler.OpLoad},
			{Code: compiler.OpReturn},
		}},
		Entry:      0,
		FuncLocals: map[int]int{0: 0},
	}
	m.ImportJump(bc)
	if _, err := m.StepUntilValue(); err == nil {
		t.Fatal("Load of an unbound symbol should fail")
	} else if _, ok := err.(*UnboundError); !ok {
		t.Errorf("error = %T, want *UnboundError", err)
	}
}

func TestPopEnvBelowRootFails(t *testing.T) {
	m := NewBuilder().DefaultLibs().Build()
	bc := compiler.Bytecode{
		Chunks: []compiler.Chunk{{
			{Code: compiler.OpPopEnv},
			{Code: compiler.OpLit, Arg: value.Boolean(false)},
			{Code: compiler.OpReturn},
		}},
		Entry:      0,
		FuncLocals: map[int]int{0: 0},
	}
	m.ImportJump(bc)
	if _, err := m.StepUntilValue(); err == nil {
		t.Fatal("PopEnv below root should fail")
	}
}

func TestPidWithNoHandlePushesFalse(t *testing.T) {
	got, err := runSrc(t, "(pid)")
	if err != nil {
		t.Fatalf("StepUntilValue: %v", err)
	}
	if !value.Equal(got, value.Boolean(false)) {
		t.Errorf("(pid) with no executor handle = %v, want #f", got)
	}
}

func TestForkWithNoHandleErrors(t *testing.T) {
	_, err := runSrc(t, "(fork)")
	if err == nil {
		t.Fatal("(fork) with no executor handle should fail")
	}
}

func TestClosureTooManyArgsIsArityError(t *testing.T) {
	_, err := runSrc(t, "(def f (lambda (a b) (+ a b))) (f 1 2 3)")
	if err == nil {
		t.Fatal("calling a 2-ary closure with 3 arguments should fail")
	}
}

// TestTerminateEmptiesStacks covers the literal end-to-end scenario: a
// tail-recursive countdown that finishes via terminate leaves both the data
// and frame stacks empty, not just reachable as Done.
func TestTerminateEmptiesStacks(t *testing.T) {
	bc := compileSrc(t, "(def s (lambda (n) (if (= n 0) (terminate 'ok) (s (- n 1))))) (s 10)")
	m := NewBuilder().DefaultLibs().Build()
	m.ImportJump(bc)
	got, err := m.StepUntilValue()
	if err != nil {
		t.Fatalf("StepUntilValue: %v", err)
	}
	if !value.Equal(got, value.Symbol("ok")) {
		t.Errorf("got %v, want the symbol ok", got)
	}
	if len(m.Data) != 0 {
		t.Errorf("data stack has %d entries after terminate, want 0", len(m.Data))
	}
	if len(m.Frames) != 0 {
		t.Errorf("frame stack has %d entries after terminate, want 0", len(m.Frames))
	}
}

func TestLetShadowingInnerBindingWins(t *testing.T) {
	got, err := runSrc(t, "(let (x 2) (let (x 1) x))")
	if err != nil {
		t.Fatalf("StepUntilValue: %v", err)
	}
	if !value.Equal(got, value.Number(1)) {
		t.Errorf("got %v, want 1", got)
	}
}

func TestLetShadowingInnerDefWins(t *testing.T) {
	got, err := runSrc(t, "(let (x 2) (do (def x 1) x))")
	if err != nil {
		t.Fatalf("StepUntilValue: %v", err)
	}
	if !value.Equal(got, value.Number(1)) {
		t.Errorf("got %v, want 1", got)
	}
}

// TestStepUntilCostLeavesResumableState covers property 9: a StepUntilCost
// call that exhausts its budget without finishing must leave the VM in a
// resumable state (non-empty frames, since this program never Waits).
func TestStepUntilCostLeavesResumableState(t *testing.T) {
	src := `(def count (lambda (n) (if (= n 0) 'done (count (- n 1))))) (count 5000)`
	bc := compileSrc(t, src)
	m := NewBuilder().DefaultLibs().Build()
	m.ImportJump(bc)

	_, done, err := m.StepUntilCost(10)
	if err != nil {
		t.Fatalf("StepUntilCost: %v", err)
	}
	if done {
		t.Fatal("a 10-unit budget should not finish a 5000-deep countdown")
	}
	if len(m.Frames) == 0 && m.State.Kind != Waiting {
		t.Error("a not-done VM must have non-empty frames or be Waiting")
	}
}

// TestTailCallArityMismatchIsError guards against the tail-call peephole
// (compiler.tailCallOptimize) silently dropping the arity check that a
// plain CallArity would have performed: g is called with 2 arguments from
// f's tail position even though g only takes 1.
func TestTailCallArityMismatchIsError(t *testing.T) {
	_, err := runSrc(t, "(def g (lambda (a) a)) (def f (lambda (n) (if n (g n n) 0))) (f 1)")
	if err == nil {
		t.Fatal("a tail call with the wrong arity should fail, not silently jump")
	}
	if _, ok := err.(*ArityError); !ok {
		t.Errorf("error = %T, want *ArityError", err)
	}
}
