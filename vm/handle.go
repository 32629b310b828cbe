package vm

import "islisp/value"

// ExecHandle is a VM's only channel to the outside world: the Pid, Send and
// Fork opcodes call it directly, and the task loop that resumes a Waiting VM
// takes the next message from its Receive (spec §4.7). It is
// declared here, not in package exec, so exec.Handle can implement it
// without an import cycle (vm must not import exec).
type ExecHandle interface {
	Pid() value.Pid
	Send(pid value.Pid, msg value.Value) error
	// Spawn registers child with the executor and returns its freshly
	// allocated Pid. The executor schedules child independently; Spawn
	// itself never blocks waiting for child to run.
	Spawn(child *VM) (value.Pid, error)
	Watch(pid value.Pid) error
	// Receive blocks until a message arrives in this handle's mailbox. It
	// is called by the task loop (package exec) after a Wait opcode
	// transitions the VM to Waiting, not by the VM itself.
	Receive() (value.Value, error)
}
