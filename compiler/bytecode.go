// Package compiler lowers a passes.LocalProgram into linear bytecode: one
// Chunk per lifted function, plus extra chunks allocated on the fly for If
// branches, following §4.4. Grounded on the teacher's compiler/code.go
// (Op/Chunk shape) generalized from its single OP_CONSTANT opcode to the
// full set below, and on kristofer-smog's pkg/bytecode/format.go for the
// disassembler idiom.
package compiler

import (
	"fmt"

	"islisp/value"
)

// OpCode names one of the VM's instructions (spec §4.5).
type OpCode int

const (
	OpLit OpCode = iota
	OpPop
	OpDup
	OpLoad
	OpStore
	OpPushEnv
	OpPopEnv
	OpLoadLocal
	OpStoreLocal
	OpCall
	OpCallArity
	OpJump
	OpJumpCond
	OpReturn
	OpFork
	OpWait
	OpSend
	OpPid
	OpTerminate
)

func (c OpCode) String() string {
	switch c {
	case OpLit:
		return "Lit"
	case OpPop:
		return "Pop"
	case OpDup:
		return "Dup"
	case OpLoad:
		return "Load"
	case OpStore:
		return "Store"
	case OpPushEnv:
		return "PushEnv"
	case OpPopEnv:
		return "PopEnv"
	case OpLoadLocal:
		return "LoadLocal"
	case OpStoreLocal:
		return "StoreLocal"
	case OpCall:
		return "Call"
	case OpCallArity:
		return "CallArity"
	case OpJump:
		return "Jump"
	case OpJumpCond:
		return "JumpCond"
	case OpReturn:
		return "Return"
	case OpFork:
		return "Fork"
	case OpWait:
		return "Wait"
	case OpSend:
		return "Send"
	case OpPid:
		return "Pid"
	case OpTerminate:
		return "Terminate"
	default:
		return fmt.Sprintf("OpCode(%d)", int(c))
	}
}

// Cost is every op's uniform charge against a RunningUntil budget (spec
// §4.5, §9 Design Notes: the flat model is explicitly sanctioned). The
// per-syscall surcharge of 20 is charged by the VM at dispatch time, not
// here, since syscalls aren't a distinct opcode.
const Cost = 10

// Op is one bytecode instruction. Lit carries its literal in Arg;
// LoadLocal/StoreLocal/CallArity carry their operand in N. CheckArity marks
// a Jump produced by the tail-call peephole (tailCallOptimize): it carries
// the arity the original CallArity expected in N, so eliding the frame
// push doesn't also elide spec §8 property 6's arity check. An ordinary
// Jump (an If branch rejoining its caller) leaves CheckArity false.
type Op struct {
	Code       OpCode
	Arg        value.Value
	N          int
	CheckArity bool
}

func (o Op) String() string {
	switch o.Code {
	case OpLit:
		return fmt.Sprintf("Lit %s", o.Arg)
	case OpLoadLocal, OpStoreLocal, OpCallArity:
		return fmt.Sprintf("%s %d", o.Code, o.N)
	case OpJump:
		if o.CheckArity {
			return fmt.Sprintf("Jump (tail-call, arity %d)", o.N)
		}
		return o.Code.String()
	default:
		return o.Code.String()
	}
}

// Chunk is a flat instruction sequence.
type Chunk []Op

// Bytecode is the full compiled program: one chunk per lifted function plus
// any chunks allocated for If branches, and the entry chunk index.
// FuncLocals maps a function's chunk index to the locals-array size Call
// must allocate for it; chunk indices allocated for If branches never
// appear as Call targets (only Jump targets within the caller's own
// frame) and so are absent from the map.
type Bytecode struct {
	Chunks     []Chunk
	Entry      int
	FuncLocals map[int]int
}

// NewChunk appends an empty chunk and returns its index.
func (b *Bytecode) NewChunk() int {
	b.Chunks = append(b.Chunks, nil)
	return len(b.Chunks) - 1
}

func (b *Bytecode) emit(chunk int, op Op) {
	b.Chunks[chunk] = append(b.Chunks[chunk], op)
}
