package exec

import (
	"testing"
	"time"

	"islisp/ast"
	"islisp/compiler"
	"islisp/passes"
	"islisp/reader"
	"islisp/value"
	"islisp/vm"
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

// TestForkSendWaitScenario is the literal end-to-end scenario from the
// concurrency model: the child (fork returns true) sends the parent's own
// pid a greeting; the parent (fork returns false) waits and receives it.
func TestForkSendWaitScenario(t *testing.T) {
	bc := compileSrc(t, "(let (me (pid)) (if (fork) (send me 'hello) (wait)))")
	e := NewExecutor()
	v := vm.NewBuilder().DefaultLibs().Build()

	_, got, err := e.Sched(v, bc)
	if err != nil {
		t.Fatalf("Sched: %v", err)
	}
	e.Wait()
	if !value.Equal(got, value.Symbol("hello")) {
		t.Errorf("got %v, want the symbol hello", got)
	}
}

func TestMailboxDeliversInSendOrder(t *testing.T) {
	e := NewExecutor()
	sender := e.GetHandle()
	receiver := e.GetHandle()

	for i := 0; i < 5; i++ {
		if err := sender.Send(receiver.Pid(), value.Number(i)); err != nil {
			t.Fatalf("Send(%d): %v", i, err)
		}
	}

	for i := 0; i < 5; i++ {
		v, err := receiver.Receive()
		if err != nil {
			t.Fatalf("Receive: %v", err)
		}
		if !value.Equal(v, value.Number(i)) {
			t.Errorf("message %d = %v, want %d", i, v, i)
		}
	}
}

func TestWatchDeliversExitOnClose(t *testing.T) {
	e := NewExecutor()
	watcher := e.GetHandle()
	watched := e.GetHandle()

	if err := watcher.Watch(watched.Pid()); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	h := watched.(*Handle)
	h.Close()

	v, err := watcher.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	want := value.NewList(value.Keyword("exit"), watched.Pid())
	if !value.Equal(v, want) {
		t.Errorf("exit notification = %v, want %v", v, want)
	}
}

func TestSendAcceptedBeforeCloseIsStillDelivered(t *testing.T) {
	e := NewExecutor()
	sender := e.GetHandle()
	watched := e.GetHandle()

	if err := sender.Send(watched.Pid(), value.Number(7)); err != nil {
		t.Fatalf("Send: %v", err)
	}
	h := watched.(*Handle)
	// Give the router a moment to process the Send before Close, so a
	// message accepted before Close(P) is provably delivered to P's own
	// mailbox rather than raced away by the removal (spec §5 ordering).
	time.Sleep(10 * time.Millisecond)
	h.Close()

	got, err := watched.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if !value.Equal(got, value.Number(7)) {
		t.Errorf("message = %v, want 7", got)
	}
}
