package interpreter

import "fmt"

// RuntimeError is the tree-walking interpreter's single error kind,
// grounded on the teacher's interpreter.RuntimeError shape without the
// line/column fields our AST doesn't carry.
type RuntimeError struct{ Message string }

func (e *RuntimeError) Error() string { return fmt.Sprintf("interpreter error: %s", e.Message) }

func errf(format string, args ...any) error {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}
