package exec

import (
	"sync"

	"islisp/compiler"
	"islisp/value"
	"islisp/vm"
)

// opsPerWindow is the cost budget each StepUntilCost call in a VM task gets
// (spec §4.7 Task shape, §5 Suspension points). Every opcode costs
// compiler.Cost (10) and every syscall dispatch 20, so one window runs at
// most ten opcodes before the task loop regains control.
const opsPerWindow = 100

// Executor is a cooperative multi-VM scheduler: each VM it schedules runs
// in its own goroutine, driven by a RunningUntil(opsPerWindow)/Waiting
// loop, against a single router goroutine that owns the pid->mailbox map
// and watch graph.
type Executor struct {
	router *router
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewExecutor starts the router goroutine and returns a ready Executor.
func NewExecutor() *Executor {
	r := newRouter()
	done := make(chan struct{})
	go r.run(done)
	return &Executor{router: r, done: done}
}

// GetHandle returns a fresh ExecHandle registered with the router but not
// attached to any scheduled VM — for a host (REPL, driver) that wants to
// send to or watch running VMs without itself being one (spec §6).
func (e *Executor) GetHandle() vm.ExecHandle {
	h, _ := e.newHandle()
	return h
}

func (e *Executor) newHandle() (*Handle, value.Pid) {
	pid := value.NewPid()
	mailbox := make(chan value.Value, 64)
	h := &Handle{pid: pid, mailbox: mailbox, router: e.router.in, exec: e}
	e.router.in <- RouterMessage{Kind: MsgRegister, Pid: pid, Mailbox: mailbox}
	return h, pid
}

// Sched imports code into v, attaches a fresh handle, and runs it to
// completion on its own goroutine, blocking the caller until it finishes
// (spec §6 "Executor.sched(vm, code) -> (vm, Result<Value>)").
func (e *Executor) Sched(v *vm.VM, code compiler.Bytecode) (*vm.VM, value.Value, error) {
	h, _ := e.newHandle()
	v.Proc = h
	v.ImportJump(code)

	result := make(chan struct {
		v   value.Value
		err error
	}, 1)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer h.Close()
		val, err := e.taskLoop(v, h)
		result <- struct {
			v   value.Value
			err error
		}{val, err}
	}()
	r := <-result
	return v, r.v, r.err
}

// spawn registers child (already carrying its own state from VM.fork) with
// a fresh pid and starts its task loop, without blocking the caller.
func (e *Executor) spawn(child *vm.VM) (value.Pid, error) {
	h, pid := e.newHandle()
	child.Proc = h
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer h.Close()
		e.taskLoop(child, h)
	}()
	return pid, nil
}

// taskLoop is the per-VM task shape of spec §4.7: run one window of at most
// opsPerWindow cost, yield on Waiting by blocking for the next mailbox message, and
// return on Done or error.
func (e *Executor) taskLoop(v *vm.VM, h *Handle) (value.Value, error) {
	for {
		val, done, err := v.StepUntilCost(opsPerWindow)
		if err != nil {
			v.ResetExec()
			return nil, err
		}
		if done {
			return val, nil
		}
		if v.State.Kind == vm.Waiting {
			msg, err := h.Receive()
			if err != nil {
				return nil, err
			}
			if err := v.AnswerWaiting(msg); err != nil {
				return nil, err
			}
		}
	}
}

// Wait blocks until every VM task this executor has scheduled (via Sched
// or a Fork-spawned child) has finished, then asks the router to quit.
func (e *Executor) Wait() {
	e.wg.Wait()
	e.router.in <- RouterMessage{Kind: MsgQuit}
	<-e.done
}
