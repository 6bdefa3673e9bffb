package vm

import "github.com/marysaka/smol/isa"

// Registers is the architecture's 15-slot register file, indexed by
// its 4-bit encoding. Unlike the reference implementation's
// field-per-register struct, this uses an array indexed by encoding
// with width/writability dispatched by isa.Reg's own metadata methods
// (Design Note: "Register file representation" lists both as
// equally valid).
type Registers struct {
	slots [16]uint16
}

// Read returns a register's current value. Wide registers return their
// full 16-bit value; narrow registers return a value already bounded to
// a byte (Write enforces this on every store).
func (r *Registers) Read(reg isa.Reg) uint16 {
	if reg == isa.ZR {
		return 0
	}
	return r.slots[reg]
}

// Write stores v into reg, truncating to 8 bits for narrow registers
// and discarding writes to ZR. Callers are responsible for rejecting
// writes to read-only registers (IC, FG) before calling Write; Write
// itself does not enforce that invariant so internal VM code (the
// fetch loop advancing IC, ALU flag updates) can still use it.
func (r *Registers) Write(reg isa.Reg, v uint16) {
	if reg == isa.ZR {
		return
	}
	if reg.Width() == 8 {
		v &= 0xFF
	}
	r.slots[reg] = v
}

// Flag bits within FG. Only Z and N are defined by this implementation;
// C and V stay zero per Design Note (b)'s minimal-conformance floor.
const (
	flagZ uint16 = 1 << 0
	flagN uint16 = 1 << 1
)

// setALUFlags recomputes FG's Z and N bits from an ALU result, given
// the operation's width in bits.
func (r *Registers) setALUFlags(result uint16, width int) {
	var flags uint16
	if width == 8 {
		if byte(result) == 0 {
			flags |= flagZ
		}
		if result&0x80 != 0 {
			flags |= flagN
		}
	} else {
		if result == 0 {
			flags |= flagZ
		}
		if result&0x8000 != 0 {
			flags |= flagN
		}
	}
	r.slots[isa.FG] = flags
}
