package exec

import (
	"fmt"

	"islisp/value"
	"islisp/vm"
)

// Handle is a VM's (or a host's) channel to the executor: it implements
// vm.ExecHandle without package exec ever being imported by package vm
// (spec §4.7).
type Handle struct {
	pid     value.Pid
	mailbox chan value.Value
	router  chan<- RouterMessage
	exec    *Executor
}

func (h *Handle) Pid() value.Pid { return h.pid }

// Send enqueues msg to pid's mailbox via the router without blocking. A full
// or missing mailbox is handled by the router and never reported back here;
// the only error Send returns is for a full router channel, in which case
// msg is dropped.
func (h *Handle) Send(pid value.Pid, msg value.Value) error {
	select {
	case h.router <- RouterMessage{Kind: MsgSend, Pid: pid, Value: msg}:
		return nil
	default:
		return fmt.Errorf("router channel full, message to %s dropped", pid)
	}
}

// Spawn registers child with the executor's router and starts its task
// loop in a new goroutine; it returns as soon as the child is registered,
// never waiting for it to run (spec §4.7 Fork semantics).
func (h *Handle) Spawn(child *vm.VM) (value.Pid, error) {
	return h.exec.spawn(child)
}

func (h *Handle) Watch(pid value.Pid) error {
	h.router <- RouterMessage{Kind: MsgWatch, Watcher: h.pid, Pid: pid}
	return nil
}

// Receive blocks until a message arrives in this handle's mailbox.
func (h *Handle) Receive() (value.Value, error) {
	v, ok := <-h.mailbox
	if !ok {
		return nil, fmt.Errorf("mailbox for %s closed", h.pid)
	}
	return v, nil
}

// Close drops h's mailbox, notifying the router so watchers are informed.
func (h *Handle) Close() {
	h.router <- RouterMessage{Kind: MsgClose, Pid: h.pid}
}
