package compiler

import (
	"islisp/ast"
	"islisp/passes"
	"islisp/value"
)

var intrinsics = map[string]struct {
	code  OpCode
	arity int
}{
	"fork":      {OpFork, 0},
	"wait":      {OpWait, 0},
	"send":      {OpSend, 2},
	"pid":       {OpPid, 0},
	"terminate": {OpTerminate, 1},
}

// Compile lowers every function in prog into its own pre-allocated chunk
// (function slot i -> chunk index i), then rewrites trailing tail calls
// (spec §4.4).
func Compile(prog passes.LocalProgram) (Bytecode, error) {
	bc := Bytecode{
		Chunks:     make([]Chunk, len(prog.Functions)),
		Entry:      prog.Entry,
		FuncLocals: make(map[int]int, len(prog.Functions)),
	}
	for i, fn := range prog.Functions {
		bc.FuncLocals[i] = fn.NumLocals
		if err := compileFunction(&bc, i, fn, i == prog.Entry); err != nil {
			return Bytecode{}, err
		}
	}
	return bc, nil
}

func compileFunction(bc *Bytecode, idx int, fn passes.LocalFunction, isEntry bool) error {
	if !isEntry {
		bc.emit(idx, Op{Code: OpPushEnv})
		for p := 0; p < fn.NumParams; p++ {
			bc.emit(idx, Op{Code: OpStoreLocal, N: p})
		}
	}
	return compileTail(bc, idx, fn.Body, isEntry)
}

// compileTail compiles node knowing it sits in the tail position of the
// function body owning chunk: it threads that tail position through Do's
// last expression, both arms of an If, and a Let's body (so nested
// ifs/lets compound), and at every other position appends the function
// epilogue and runs the tail-call peephole directly, rather than letting
// the value bubble back through a join point the way compileNode's
// value-position If does. This is what lets `(if base (terminate ..) (self
// (dec n)))` — and `(let (n1 (- n 1)) (self n1))` — keep the frame stack
// bounded through the recursive branch (spec §4.4, §8 property 5).
func compileTail(bc *Bytecode, chunk int, node ast.Node, isEntry bool) error {
	return compileTailIn(bc, chunk, node, isEntry, 0)
}

// compileTailIn is compileTail threaded with openEnvs, the count of Let
// scopes opened on the way to this tail position that still need an
// OpPopEnv before the function actually returns or tail-jumps. Every Let
// encountered in tail position adds one to openEnvs instead of closing its
// env immediately the way compileNode's non-tail Let does, so a trailing
// call still ends the chunk in a bare run of PopEnvs that tailCallOptimize
// can see through.
func compileTailIn(bc *Bytecode, chunk int, node ast.Node, isEntry bool, openEnvs int) error {
	switch t := node.(type) {
	case ast.If:
		thenIdx := bc.NewChunk()
		elseIdx := bc.NewChunk()
		if err := compileTailIn(bc, elseIdx, t.Else, isEntry, openEnvs); err != nil {
			return err
		}
		if err := compileTailIn(bc, thenIdx, t.Then, isEntry, openEnvs); err != nil {
			return err
		}
		bc.emit(chunk, Op{Code: OpLit, Arg: value.Address{Chunk: elseIdx}})
		bc.emit(chunk, Op{Code: OpLit, Arg: value.Address{Chunk: thenIdx}})
		if err := compileNode(bc, chunk, t.Pred); err != nil {
			return err
		}
		bc.emit(chunk, Op{Code: OpJumpCond})
		return nil

	case ast.Do:
		if len(t.Exprs) == 0 {
			bc.emit(chunk, Op{Code: OpLit, Arg: value.Boolean(false)})
			return finishTail(bc, chunk, isEntry, openEnvs)
		}
		for _, e := range t.Exprs[:len(t.Exprs)-1] {
			if err := compileNode(bc, chunk, e); err != nil {
				return err
			}
			bc.emit(chunk, Op{Code: OpPop})
		}
		return compileTailIn(bc, chunk, t.Exprs[len(t.Exprs)-1], isEntry, openEnvs)

	case ast.Let:
		bc.emit(chunk, Op{Code: OpPushEnv})
		for _, d := range t.Defs {
			if err := compileNode(bc, chunk, d.Value); err != nil {
				return err
			}
			bc.emit(chunk, Op{Code: OpStoreLocal, N: d.Index})
		}
		return compileTailIn(bc, chunk, t.Body, isEntry, openEnvs+1)

	case ast.Application:
		if err := compileApplication(bc, chunk, t); err != nil {
			return err
		}
		return finishTail(bc, chunk, isEntry, openEnvs)

	default:
		if err := compileNode(bc, chunk, node); err != nil {
			return err
		}
		return finishTail(bc, chunk, isEntry, openEnvs)
	}
}

func finishTail(bc *Bytecode, chunk int, isEntry bool, openEnvs int) error {
	popCount := openEnvs
	if !isEntry {
		popCount++
	}
	for i := 0; i < popCount; i++ {
		bc.emit(chunk, Op{Code: OpPopEnv})
	}
	bc.emit(chunk, Op{Code: OpReturn})
	if !isEntry {
		tailCallOptimize(bc, chunk, popCount)
	}
	return nil
}

// tailCallOptimize rewrites a trailing (Call|CallArity), then popCount
// PopEnvs, then Return into popCount PopEnvs followed by Jump: the jump
// consumes the callee address already on the data stack and reuses the
// current frame instead of pushing a new one, so a tail self-call never
// grows the frame stack (spec §4.4, §8 property 5), even when the call sits
// inside one or more tail-position lets (each contributing one of the
// PopEnvs tailCallOptimize has to see past). The replacement Jump carries
// the arity CallArity would have checked (spec §8 property 6) so the
// peephole doesn't trade frame growth for a silently skipped arity check;
// a tail Call (unchecked arity) produces an unchecked Jump instead.
func tailCallOptimize(bc *Bytecode, idx int, popCount int) {
	ops := bc.Chunks[idx]
	n := len(ops)
	need := popCount + 2 // call + popCount*PopEnv + return
	if n < need {
		return
	}
	if ops[n-1].Code != OpReturn {
		return
	}
	for i := 0; i < popCount; i++ {
		if ops[n-2-i].Code != OpPopEnv {
			return
		}
	}
	call := ops[n-2-popCount]
	if call.Code != OpCall && call.Code != OpCallArity {
		return
	}

	jump := Op{Code: OpJump}
	if call.Code == OpCallArity {
		jump.N = call.N
		jump.CheckArity = true
	}
	rewritten := append([]Op{}, ops[:n-2-popCount]...)
	for i := 0; i < popCount; i++ {
		rewritten = append(rewritten, Op{Code: OpPopEnv})
	}
	bc.Chunks[idx] = append(rewritten, jump)
}

func compileNode(bc *Bytecode, chunk int, n ast.Node) error {
	switch t := n.(type) {
	case ast.ValueNode:
		bc.emit(chunk, Op{Code: OpLit, Arg: t.V})
		return nil

	case ast.If:
		return compileIf(bc, chunk, t)

	case ast.GlobalDef:
		if err := compileNode(bc, chunk, t.Value); err != nil {
			return err
		}
		bc.emit(chunk, Op{Code: OpLit, Arg: value.Symbol(t.Name)})
		bc.emit(chunk, Op{Code: OpStore})
		bc.emit(chunk, Op{Code: OpLit, Arg: value.Symbol(t.Name)})
		bc.emit(chunk, Op{Code: OpLoad})
		return nil

	case ast.LocalDef:
		if err := compileNode(bc, chunk, t.Value); err != nil {
			return err
		}
		bc.emit(chunk, Op{Code: OpStoreLocal, N: t.Index})
		bc.emit(chunk, Op{Code: OpLoadLocal, N: t.Index})
		return nil

	case ast.InnerDef:
		if err := compileNode(bc, chunk, t.Value); err != nil {
			return err
		}
		bc.emit(chunk, Op{Code: OpDup})
		bc.emit(chunk, Op{Code: OpLit, Arg: value.Symbol(t.Name)})
		bc.emit(chunk, Op{Code: OpStore})
		bc.emit(chunk, Op{Code: OpStoreLocal, N: t.Index})
		bc.emit(chunk, Op{Code: OpLoadLocal, N: t.Index})
		return nil

	case ast.Let:
		bc.emit(chunk, Op{Code: OpPushEnv})
		for _, d := range t.Defs {
			if err := compileNode(bc, chunk, d.Value); err != nil {
				return err
			}
			bc.emit(chunk, Op{Code: OpStoreLocal, N: d.Index})
		}
		if err := compileNode(bc, chunk, t.Body); err != nil {
			return err
		}
		bc.emit(chunk, Op{Code: OpPopEnv})
		return nil

	case ast.Do:
		if len(t.Exprs) == 0 {
			bc.emit(chunk, Op{Code: OpLit, Arg: value.Boolean(false)})
			return nil
		}
		for i, e := range t.Exprs {
			if err := compileNode(bc, chunk, e); err != nil {
				return err
			}
			if i < len(t.Exprs)-1 {
				bc.emit(chunk, Op{Code: OpPop})
			}
		}
		return nil

	case ast.GlobalVar:
		bc.emit(chunk, Op{Code: OpLit, Arg: value.Symbol(t.Name)})
		bc.emit(chunk, Op{Code: OpLoad})
		return nil

	case ast.LocalVar:
		bc.emit(chunk, Op{Code: OpLoadLocal, N: t.Index})
		return nil

	case ast.Application:
		return compileApplication(bc, chunk, t)

	default:
		return errf("unexpected node in lowering: %T", n)
	}
}

// compileIf compiles each branch into a fresh chunk, then emits
// Lit(else_addr), Lit(then_addr), <pred>, JumpCond into the caller chunk,
// and appends a trailing Lit(join_addr), Jump to both branch chunks so they
// rejoin the caller immediately after JumpCond (spec §4.4).
func compileIf(bc *Bytecode, chunk int, t ast.If) error {
	thenIdx := bc.NewChunk()
	elseIdx := bc.NewChunk()

	if err := compileNode(bc, elseIdx, t.Else); err != nil {
		return err
	}
	if err := compileNode(bc, thenIdx, t.Then); err != nil {
		return err
	}

	bc.emit(chunk, Op{Code: OpLit, Arg: value.Address{Chunk: elseIdx}})
	bc.emit(chunk, Op{Code: OpLit, Arg: value.Address{Chunk: thenIdx}})
	if err := compileNode(bc, chunk, t.Pred); err != nil {
		return err
	}
	bc.emit(chunk, Op{Code: OpJumpCond})

	join := value.Address{Chunk: chunk, Op: len(bc.Chunks[chunk])}
	bc.emit(thenIdx, Op{Code: OpLit, Arg: join})
	bc.emit(thenIdx, Op{Code: OpJump})
	bc.emit(elseIdx, Op{Code: OpLit, Arg: join})
	bc.emit(elseIdx, Op{Code: OpJump})
	return nil
}

func compileApplication(bc *Bytecode, chunk int, t ast.Application) error {
	if gv, ok := t.Fn.(ast.GlobalVar); ok {
		if in, ok := intrinsics[gv.Name]; ok {
			if len(t.Args) != in.arity {
				return errf("%s requires %d argument(s), got %d", gv.Name, in.arity, len(t.Args))
			}
			for i := len(t.Args) - 1; i >= 0; i-- {
				if err := compileNode(bc, chunk, t.Args[i]); err != nil {
					return err
				}
			}
			bc.emit(chunk, Op{Code: in.code})
			return nil
		}
	}

	for i := len(t.Args) - 1; i >= 0; i-- {
		if err := compileNode(bc, chunk, t.Args[i]); err != nil {
			return err
		}
	}
	if err := compileNode(bc, chunk, t.Fn); err != nil {
		return err
	}
	bc.emit(chunk, Op{Code: OpCallArity, N: len(t.Args)})
	return nil
}
