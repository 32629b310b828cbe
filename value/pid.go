package value

import (
	"fmt"
	"sync/atomic"
)

// Pid is an opaque, globally-unique identifier for an executing VM task
// (spec §3, §4.7). Generation is a monotonic counter, the simplest scheme
// that satisfies "globally unique" within one process; the Rust original
// this spec was distilled from (original_source/isl/src/data.rs) generates
// Pids the same way.
type Pid struct {
	id uint64
}

var pidCounter uint64

// NewPid allocates a fresh, never-reused Pid.
func NewPid() Pid {
	return Pid{id: atomic.AddUint64(&pidCounter, 1)}
}

func (Pid) Tag() Tag { return TagPid }

func (p Pid) String() string { return fmt.Sprintf("pid<%d>", p.id) }

// ID exposes the underlying counter value, e.g. for use as a map key in the
// router (package exec), where Pid itself (a comparable struct) already
// works fine as a map key — ID is for diagnostics and stable hashing.
func (p Pid) ID() uint64 { return p.id }
