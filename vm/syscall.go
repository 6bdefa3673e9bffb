package vm

import "github.com/marysaka/smol/isa"

// Syscall numbers understood by this architecture's minimal syscall
// contract.
const (
	syscallWrite = 1
	syscallExit  = 60
)

// hostErrBadFD is the low-byte value returned in R0 when a write
// targets an fd the VM has no writer for. It never aborts the VM: per
// the error model, syscall host errors are always recovered locally.
const hostErrBadFD = 0xFF

// syscall dispatches R0 as a call number against R1-R6 as arguments,
// per the architecture's syscall ABI, and writes the low byte of the
// return value back into R0. Only exit terminates the VM; every other
// path, including an unrecognized fd, returns control to the fetch
// loop.
func (v *VM) syscall() error {
	number := v.Registers.Read(isa.R0)

	switch number {
	case syscallWrite:
		fd := int(v.Registers.Read(isa.R1))
		byteOffset := v.Registers.Read(isa.R2)
		length := int(v.Registers.Read(isa.R3))

		w, ok := v.WriteFDs[fd]
		if !ok {
			v.Registers.Write(isa.R0, hostErrBadFD)
			return nil
		}

		sp := v.Registers.Read(isa.SP)
		addr := sp + byteOffset
		data := v.Memory.ReadBytes(addr, length)

		n, err := w.Write(data)
		if err != nil {
			v.Registers.Write(isa.R0, hostErrBadFD)
			return nil
		}
		v.Registers.Write(isa.R0, uint16(n))
		return nil

	case syscallExit:
		status := byte(v.Registers.Read(isa.R1))
		v.ExitStatus = status
		v.Halted = true
		return nil

	default:
		return newFault(FaultUnknownSyscall, int(v.Registers.Read(isa.IC)), "unrecognized syscall number %d", number)
	}
}
