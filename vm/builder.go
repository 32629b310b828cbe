package vm

import (
	"islisp/syscall"
	"islisp/value"
)

// Builder is the embedding surface named in spec §6: a fluent way for a
// host program to assemble a VM without touching package internals.
type Builder struct {
	syscalls *syscall.Registry
	env      map[string]value.Value
}

// NewBuilder starts from an empty syscall registry and environment.
func NewBuilder() *Builder {
	return &Builder{syscalls: syscall.NewRegistry(), env: map[string]value.Value{}}
}

// DefaultLibs registers the required built-in syscall set (spec §4.6).
func (b *Builder) DefaultLibs() *Builder {
	syscall.RegisterDefaults(b.syscalls)
	return b
}

// Syscalls lets the host install additional syscalls via factory before
// Build assembles the environment from the registry's bindings.
func (b *Builder) Syscalls(factory func(r *syscall.Registry)) *Builder {
	factory(b.syscalls)
	return b
}

// Env binds an extra global, for host values that aren't syscalls (e.g.
// REPL-injected constants).
func (b *Builder) Env(name string, v value.Value) *Builder {
	b.env[name] = v
	return b
}

// Build assembles the VM with no code loaded; the caller follows with
// ImportJump to load and jump to a compiled program.
func (b *Builder) Build() *VM {
	return New(b.syscalls, b.env)
}
