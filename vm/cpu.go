package vm

import "io"

// VM is the complete state of one smol virtual machine: its register
// file, memory, and the instruction byte stream it is executing.
type VM struct {
	Registers Registers
	Memory    Memory

	// Instructions is the loaded instruction byte stream. IC indexes
	// into it.
	Instructions []byte

	// MaxCycles caps the number of fetch/decode/execute iterations
	// before the VM aborts with a fault, guarding against runaway
	// programs in hosted environments. Zero means unlimited.
	MaxCycles uint64

	// Halted is set once the VM has stopped, whether by falling off
	// the end of the instruction stream or by an exit syscall.
	Halted bool

	// ExitStatus is the process exit status: the low byte of R1 at the
	// time of an exit syscall, or 0 for a normal fall-through halt.
	ExitStatus byte

	// WriteFDs maps syscall file descriptors to their writer, for the
	// write syscall. Unmapped fds surface as a host error in R0.
	WriteFDs map[int]io.Writer
}

// New constructs a VM with IC/SP/every other register zeroed, ready to
// have an object file's instructions and variable data loaded into it.
func New() *VM {
	return &VM{
		WriteFDs: map[int]io.Writer{},
	}
}
