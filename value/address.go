package value

import "fmt"

// Address names a bytecode location: (chunk_index, op_index). A chunk index
// at or above SyscallBase names a syscall instead of a live chunk, not a
// real chunk (§4.6). Syscalls are assigned ascending indices from
// SyscallBase rather than descending from a hard maximum: the two are
// equivalent (a fixed, permanently reserved, collision-free range) as long
// as a program's real chunk count stays far below SyscallBase, which for
// any realistically sized compiled program it does.
type Address struct {
	Chunk int
	Op    int
}

// SyscallBase is the first chunk index reserved for syscall pseudo-addresses.
const SyscallBase = 1 << 30

// IsSyscall reports whether a points into the syscall range rather than a
// live chunk.
func (a Address) IsSyscall() bool { return a.Chunk >= SyscallBase }

func (Address) Tag() Tag { return TagAddress }

func (a Address) String() string {
	if a.IsSyscall() {
		return fmt.Sprintf("@syscall(%d)", a.Chunk-SyscallBase)
	}
	return fmt.Sprintf("@(%d,%d)", a.Chunk, a.Op)
}

// Closure pairs an arity with the Address of the function it calls. It is
// the runtime value every lambda becomes after function-lifting (spec §4.3).
type Closure struct {
	Arity int
	Addr  Address
}

func (Closure) Tag() Tag { return TagClosure }

func (c Closure) String() string { return fmt.Sprintf("%s/%d", c.Addr, c.Arity) }
