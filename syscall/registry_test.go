package syscall

import (
	"testing"

	"islisp/value"
)

func TestRegisterStackBindsBareAddress(t *testing.T) {
	r := NewRegistry()
	addr := r.RegisterStack("noop", func(s []value.Value) ([]value.Value, error) { return s, nil })

	b := r.Bindings()
	got, ok := b["noop"].(value.Address)
	if !ok {
		t.Fatalf("stack syscall should bind to a bare Address, got %T", b["noop"])
	}
	if got != addr {
		t.Errorf("Bindings address = %v, want %v", got, addr)
	}
	if !addr.IsSyscall() {
		t.Errorf("RegisterStack address %v should be in syscall range", addr)
	}
}

func TestRegisterTypedBindsClosureWithArity(t *testing.T) {
	r := NewRegistry()
	r.RegisterA1("id", func(a value.Value) (value.Value, error) { return a, nil })
	r.RegisterA2("pair", func(a, b value.Value) (value.Value, error) { return a, nil })
	r.RegisterA3("tri", func(a, b, c value.Value) (value.Value, error) { return a, nil })

	b := r.Bindings()
	for name, wantArity := range map[string]int{"id": 1, "pair": 2, "tri": 3} {
		c, ok := b[name].(value.Closure)
		if !ok {
			t.Fatalf("%s should bind to a Closure, got %T", name, b[name])
		}
		if c.Arity != wantArity {
			t.Errorf("%s arity = %d, want %d", name, c.Arity, wantArity)
		}
		if !c.Addr.IsSyscall() {
			t.Errorf("%s address %v should be in syscall range", name, c.Addr)
		}
	}
}

func TestNamesMatchesRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.RegisterA1("a", func(v value.Value) (value.Value, error) { return v, nil })
	r.RegisterA1("b", func(v value.Value) (value.Value, error) { return v, nil })

	names := r.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v, want [a b]", names)
	}
}

func TestInvokeA1PopsTopOfStack(t *testing.T) {
	r := NewRegistry()
	addr := r.RegisterA1("double", func(a value.Value) (value.Value, error) {
		n, _ := a.(value.Number)
		return value.Number(n * 2), nil
	})

	stack := []value.Value{value.Number(1), value.Number(21)}
	out, err := r.Invoke(addr, stack)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(out) != 2 || !value.Equal(out[0], value.Number(1)) || !value.Equal(out[1], value.Number(42)) {
		t.Errorf("Invoke result = %v, want [1 42]", out)
	}
}

func TestInvokeA2UsesSourceArgumentOrder(t *testing.T) {
	r := NewRegistry()
	// a - b, with a the first source argument. Application lowering pushes
	// arguments in reverse, so the first source argument ends up on top.
	addr := r.RegisterA2("sub", func(a, b value.Value) (value.Value, error) {
		an, _ := a.(value.Number)
		bn, _ := b.(value.Number)
		return value.Number(an - bn), nil
	})

	// Source call (sub 10 3): args pushed reversed -> push 3, then push 10.
	stack := []value.Value{value.Number(3), value.Number(10)}
	out, err := r.Invoke(addr, stack)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(out) != 1 || !value.Equal(out[0], value.Number(7)) {
		t.Errorf("Invoke(sub 10 3) = %v, want [7]", out)
	}
}

func TestInvokeArityErrorOnShortStack(t *testing.T) {
	r := NewRegistry()
	addr := r.RegisterA2("pair", func(a, b value.Value) (value.Value, error) { return a, nil })

	_, err := r.Invoke(addr, []value.Value{value.Number(1)})
	if err == nil {
		t.Fatal("expected an ArityError with too few stack values")
	}
	if _, ok := err.(*ArityError); !ok {
		t.Errorf("error = %T, want *ArityError", err)
	}
}

func TestInvokeUnknownAddress(t *testing.T) {
	r := NewRegistry()
	_, err := r.Invoke(value.Address{Chunk: value.SyscallBase + 99}, nil)
	if err == nil {
		t.Fatal("expected an error for an unregistered syscall address")
	}
}

func TestDefaultsRegisterExpectedNames(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	want := []string{
		"+", "-", "=",
		"len", "size", "cons", "car", "cdr", "first", "rest", "empty?", "nth", "append",
		"conj", "assoc", "get",
		"list?", "symbol?", "even?", "odd?",
		"and", "or",
		"print", "error",
	}
	names := map[string]bool{}
	for _, n := range r.Names() {
		names[n] = true
	}
	for _, w := range want {
		if !names[w] {
			t.Errorf("RegisterDefaults should register %q", w)
		}
	}
}

func TestArithmeticPromotesToFloat(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	b := r.Bindings()
	addAddr := b["+"].(value.Closure).Addr

	// (+ 1 1.5): args pushed reversed -> push 1.5, then push 1.
	out, err := r.Invoke(addAddr, []value.Value{value.Float(1.5), value.Number(1)})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(out) != 1 || !value.Equal(out[0], value.Float(2.5)) {
		t.Errorf("(+ 1 1.5) = %v, want 2.5", out)
	}
}

func TestConsRequiresListSecondArgument(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	b := r.Bindings()
	consAddr := b["cons"].(value.Closure).Addr

	_, err := r.Invoke(consAddr, []value.Value{value.Number(1), value.Number(2)})
	if err == nil {
		t.Fatal("cons onto a non-list should fail")
	}
	if _, ok := err.(*TypeError); !ok {
		t.Errorf("error = %T, want *TypeError", err)
	}
}

func TestEmptyListConsRest(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	b := r.Bindings()
	consAddr := b["cons"].(value.Closure).Addr
	firstAddr := b["first"].(value.Closure).Addr
	restAddr := b["rest"].(value.Closure).Addr

	lst := value.NewList()
	out, err := r.Invoke(consAddr, []value.Value{lst, value.Number(1)})
	if err != nil {
		t.Fatalf("Invoke(cons): %v", err)
	}
	built := out[0]

	out, err = r.Invoke(firstAddr, []value.Value{built})
	if err != nil {
		t.Fatalf("Invoke(first): %v", err)
	}
	if !value.Equal(out[0], value.Number(1)) {
		t.Errorf("first = %v, want 1", out[0])
	}

	out, err = r.Invoke(restAddr, []value.Value{built})
	if err != nil {
		t.Fatalf("Invoke(rest): %v", err)
	}
	if l, ok := out[0].(value.List); !ok || !l.Empty() {
		t.Errorf("rest = %v, want empty list", out[0])
	}
}
