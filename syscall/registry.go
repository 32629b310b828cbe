// Package syscall is the host-provided primitive bank addressed by pseudo-
// addresses in the reserved chunk-index range from value.SyscallBase up
// (spec §4.6), a
// new package grounded on the Rust original's isl/src/syscall/ since
// neither teacher repo needed a layer like this one.
package syscall

import (
	"fmt"

	"islisp/value"
)

// Kind distinguishes how a registered syscall receives its arguments.
type Kind int

const (
	KindStack Kind = iota
	KindA1
	KindA2
	KindA3
)

// StackFn receives and returns the whole data stack, for syscalls whose
// arity isn't fixed.
type StackFn func(stack []value.Value) ([]value.Value, error)

// A1, A2, A3 are typed syscalls of fixed arity; arguments are given in
// source (left-to-right) order regardless of the stack's reversed push
// order, so callers never have to think about the calling convention.
type A1 func(a value.Value) (value.Value, error)
type A2 func(a, b value.Value) (value.Value, error)
type A3 func(a, b, c value.Value) (value.Value, error)

type entry struct {
	name    string
	kind    Kind
	stackFn StackFn
	a1      A1
	a2      A2
	a3      A3
}

// Registry is the bank of registered syscalls, addressed by slot index
// offset from value.SyscallBase (spec §4.6). It is append-only for the
// lifetime of a VM: once assigned, an address never changes meaning.
type Registry struct {
	entries []entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) register(name string, e entry) value.Address {
	idx := len(r.entries)
	e.name = name
	r.entries = append(r.entries, e)
	return value.Address{Chunk: value.SyscallBase + idx}
}

// RegisterStack registers an arity-unknown stack syscall.
func (r *Registry) RegisterStack(name string, fn StackFn) value.Address {
	return r.register(name, entry{kind: KindStack, stackFn: fn})
}

// RegisterA1 registers a 1-ary syscall.
func (r *Registry) RegisterA1(name string, fn A1) value.Address {
	return r.register(name, entry{kind: KindA1, a1: fn})
}

// RegisterA2 registers a 2-ary syscall.
func (r *Registry) RegisterA2(name string, fn A2) value.Address {
	return r.register(name, entry{kind: KindA2, a2: fn})
}

// RegisterA3 registers a 3-ary syscall.
func (r *Registry) RegisterA3(name string, fn A3) value.Address {
	return r.register(name, entry{kind: KindA3, a3: fn})
}

// Bindings returns the global-environment entries every registered syscall
// installs: stack syscalls bind to a bare Address (arity unknown to the
// caller), typed syscalls bind to a Closure so CallArity can check arity
// before invoking (spec §4.6).
func (r *Registry) Bindings() map[string]value.Value {
	out := make(map[string]value.Value, len(r.entries))
	for i, e := range r.entries {
		addr := value.Address{Chunk: value.SyscallBase + i}
		switch e.kind {
		case KindStack:
			out[e.name] = addr
		case KindA1:
			out[e.name] = value.Closure{Arity: 1, Addr: addr}
		case KindA2:
			out[e.name] = value.Closure{Arity: 2, Addr: addr}
		case KindA3:
			out[e.name] = value.Closure{Arity: 3, Addr: addr}
		}
	}
	return out
}

// Names lists every registered syscall name, for seeding the unbound-pass
// initial environment (spec §4.3).
func (r *Registry) Names() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.name
	}
	return out
}

// Invoke dispatches the syscall named by addr against stack (the data
// stack, top at the end), returning the new stack. Arguments for typed
// syscalls are popped off the top in source-argument order: since ordinary
// Application lowering emits arguments in reverse, the first source
// argument is always the top-of-stack value (spec §4.4), so a 2-ary
// syscall's first parameter is the top element and its second is the next.
func (r *Registry) Invoke(addr value.Address, stack []value.Value) ([]value.Value, error) {
	idx := addr.Chunk - value.SyscallBase
	if idx < 0 || idx >= len(r.entries) {
		return nil, fmt.Errorf("invalid syscall address %s", addr)
	}
	e := r.entries[idx]
	switch e.kind {
	case KindStack:
		return e.stackFn(stack)
	case KindA1:
		if len(stack) < 1 {
			return nil, &ArityError{Message: fmt.Sprintf("%s: expected 1 argument, stack is empty", e.name)}
		}
		a := stack[len(stack)-1]
		rest := stack[:len(stack)-1]
		v, err := e.a1(a)
		if err != nil {
			return nil, err
		}
		return append(rest, v), nil
	case KindA2:
		if len(stack) < 2 {
			return nil, &ArityError{Message: fmt.Sprintf("%s: expected 2 arguments, got %d on stack", e.name, len(stack))}
		}
		a, b := stack[len(stack)-1], stack[len(stack)-2]
		rest := stack[:len(stack)-2]
		v, err := e.a2(a, b)
		if err != nil {
			return nil, err
		}
		return append(rest, v), nil
	case KindA3:
		if len(stack) < 3 {
			return nil, &ArityError{Message: fmt.Sprintf("%s: expected 3 arguments, got %d on stack", e.name, len(stack))}
		}
		a, b, c := stack[len(stack)-1], stack[len(stack)-2], stack[len(stack)-3]
		rest := stack[:len(stack)-3]
		v, err := e.a3(a, b, c)
		if err != nil {
			return nil, err
		}
		return append(rest, v), nil
	default:
		return nil, fmt.Errorf("unknown syscall kind for %s", e.name)
	}
}

// ArityError reports a syscall invoked with too few arguments on the stack.
type ArityError struct{ Message string }

func (e *ArityError) Error() string { return "arity error: " + e.Message }

// TypeError reports a syscall's argument failing a type expectation.
type TypeError struct{ Message string }

func (e *TypeError) Error() string { return "type error: " + e.Message }

// RuntimeError is raised by the user-facing `error` syscall (spec §7).
type RuntimeError struct{ Message string }

func (e *RuntimeError) Error() string { return e.Message }
