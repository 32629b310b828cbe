package vm

import "fmt"

// RuntimeError is a generic failure during execution that doesn't fit one
// of the more specific kinds below.
type RuntimeError struct{ Message string }

func (e *RuntimeError) Error() string { return fmt.Sprintf("runtime error: %s", e.Message) }

// StackError reports underflow of the data stack, frame stack, or EnvStack
// (PopEnv below root).
type StackError struct{ Message string }

func (e *StackError) Error() string { return fmt.Sprintf("stack error: %s", e.Message) }

// TypeError reports an opcode whose operand failed an ensure-* check
// (ensure-address, ensure-keyword, ensure-number, ensure-bool).
type TypeError struct {
	Op      string
	Message string
}

func (e *TypeError) Error() string { return fmt.Sprintf("type error in %s: %s", e.Op, e.Message) }

// ArityError reports a Closure called with CallArity(n) where n doesn't
// match the closure's declared arity.
type ArityError struct {
	Want, Got int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("arity error: closure expects %d argument(s), got %d", e.Want, e.Got)
}

// UnboundError reports Load failing to find a symbol in any EnvStack frame.
type UnboundError struct{ Name string }

func (e *UnboundError) Error() string { return fmt.Sprintf("unbound symbol: %s", e.Name) }

// LinkError reports an Address whose chunk or op index is out of range for
// the VM's currently loaded code.
type LinkError struct{ Message string }

func (e *LinkError) Error() string { return fmt.Sprintf("link error: %s", e.Message) }
