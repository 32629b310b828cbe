// Package exec is the actor-style scheduler: a router goroutine owning the
// pid->mailbox map and watch graph, and an Executor that schedules VM tasks
// against it (spec §4.7). Grounded on the select-loop-over-a-channel idiom
// in ProbeChain-go-probe's probe/discovery.go (startProbeEntryUpdate),
// generalized from a single subscription channel to the router's full
// message set, since neither the teacher nor any other pack repo runs a
// multi-actor scheduler like this one.
package exec

import (
	"time"

	"islisp/value"
)

// RouterMessage is one event consumed by the router's message loop.
type RouterMessage struct {
	Kind    RouterMsgKind
	Pid     value.Pid
	Watcher value.Pid
	Value   value.Value
	Mailbox chan value.Value
}

type RouterMsgKind int

const (
	MsgRegister RouterMsgKind = iota
	MsgClose
	MsgSend
	MsgWatch
	MsgQuit
)

// idleTimeout is how long the router waits for activity after Quit before
// giving up on draining (spec §4.7).
const idleTimeout = 2 * time.Second

type deferredSend struct {
	pid value.Pid
	v   value.Value
}

// router owns all mutable scheduling state; every field is touched only
// from inside run, so no lock is ever needed (spec §5).
type router struct {
	in        chan RouterMessage
	mailboxes map[value.Pid]chan value.Value
	watches   map[value.Pid][]value.Pid // watched -> its watchers
	deferred  []deferredSend
	quitting  bool
}

func newRouter() *router {
	return &router{
		in:        make(chan RouterMessage, 64),
		mailboxes: make(map[value.Pid]chan value.Value),
		watches:   make(map[value.Pid][]value.Pid),
	}
}

// run is the router's single cooperative task. On Quit it doesn't exit
// immediately: it keeps draining pending sends, then waits up to
// idleTimeout for further traffic before giving up (spec §4.7).
func (r *router) run(done chan<- struct{}) {
	defer close(done)
	for {
		r.flushDeferred()
		if !r.quitting || len(r.deferred) > 0 {
			msg, ok := <-r.in
			if !ok {
				return
			}
			r.handle(msg)
			continue
		}
		select {
		case msg, ok := <-r.in:
			if !ok {
				return
			}
			r.handle(msg)
		case <-time.After(idleTimeout):
			return
		}
	}
}

func (r *router) handle(msg RouterMessage) {
	switch msg.Kind {
	case MsgRegister:
		r.mailboxes[msg.Pid] = msg.Mailbox

	case MsgClose:
		delete(r.mailboxes, msg.Pid)
		for _, watcher := range r.watches[msg.Pid] {
			r.deferred = append(r.deferred, deferredSend{
				pid: watcher,
				v:   value.NewList(value.Keyword("exit"), msg.Pid),
			})
		}
		delete(r.watches, msg.Pid)

	case MsgSend:
		r.deliver(msg.Pid, msg.Value)

	case MsgWatch:
		r.watches[msg.Pid] = append(r.watches[msg.Pid], msg.Watcher)

	case MsgQuit:
		r.quitting = true
	}
}

func (r *router) flushDeferred() {
	pending := r.deferred
	r.deferred = nil
	for _, d := range pending {
		r.deliver(d.pid, d.v)
	}
}

func (r *router) deliver(pid value.Pid, v value.Value) {
	mb, ok := r.mailboxes[pid]
	if !ok {
		return
	}
	select {
	case mb <- v:
	default:
		// Mailbox full: drop the mailbox rather than block the router
		// (RouterError, spec §7). Nothing is logged and the sender is not told.
		delete(r.mailboxes, pid)
	}
}
