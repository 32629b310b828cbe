package vm

import "islisp/value"

// Frame is one entry on the VM's call stack: a program counter and the
// indexed local-variable slots StoreLocal/LoadLocal address (spec §4.5).
type Frame struct {
	PC     value.Address
	Locals []value.Value
}
