package compiler

import "fmt"

// CompileError reports a lowering failure: an intrinsic called with the
// wrong arity, or a node shape the compiler never expects to see (spec §7).
type CompileError struct {
	Message string
}

func (e *CompileError) Error() string { return "compile error: " + e.Message }

func errf(format string, args ...any) error {
	return &CompileError{Message: fmt.Sprintf(format, args...)}
}
