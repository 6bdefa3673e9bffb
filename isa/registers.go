// Package isa is the shared ground truth for the smol instruction set:
// register encodings and the bit layout of every opcode family. Both the
// assembler and the VM import this package so that encode and decode can
// never drift against each other.
package isa

// Reg is a 4-bit register encoding as defined in the architecture's
// register file.
type Reg uint8

// Register encodings. 0b1000 is explicitly reserved; decoding it is
// always a fatal error.
const (
	R0 Reg = 0b0000
	R1 Reg = 0b0001
	R2 Reg = 0b0010
	R3 Reg = 0b0011
	R4 Reg = 0b0100
	R5 Reg = 0b0101
	R6 Reg = 0b0110
	R7 Reg = 0b0111

	RegReserved Reg = 0b1000

	L0 Reg = 0b1001
	L1 Reg = 0b1010
	IC Reg = 0b1011
	FG Reg = 0b1100
	CR Reg = 0b1101
	SP Reg = 0b1110
	ZR Reg = 0b1111
)

// Width reports the natural bit width of a register: 8 for R0-R7, 16 for
// every wide register.
func (r Reg) Width() int {
	if r <= R7 {
		return 8
	}
	return 16
}

// IsGeneralPurpose8 reports whether r is one of the eight narrow
// general-purpose registers addressable from ALU register-immediate and
// register-register operand bytes.
func (r Reg) IsGeneralPurpose8() bool {
	return r <= R7
}

// Valid reports whether r is a defined, non-reserved encoding.
func (r Reg) Valid() bool {
	return r != RegReserved && r <= ZR
}

// ReadOnly reports whether programs may not write r via the ALU family.
// IC and FG are read-only to programs; ZR discards writes but is not an
// error to target.
func (r Reg) ReadOnly() bool {
	return r == IC || r == FG
}

func (r Reg) String() string {
	switch r {
	case R0:
		return "r0"
	case R1:
		return "r1"
	case R2:
		return "r2"
	case R3:
		return "r3"
	case R4:
		return "r4"
	case R5:
		return "r5"
	case R6:
		return "r6"
	case R7:
		return "r7"
	case L0:
		return "l0"
	case L1:
		return "l1"
	case IC:
		return "ic"
	case FG:
		return "fg"
	case CR:
		return "cr"
	case SP:
		return "sp"
	case ZR:
		return "zr"
	default:
		return "reserved"
	}
}
