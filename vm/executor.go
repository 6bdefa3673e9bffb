package vm

import "github.com/marysaka/smol/isa"

// Run drives the fetch/decode/execute loop to completion: either a
// normal halt (IC reaches the end of the instruction stream), an exit
// syscall, or a fault.
func (v *VM) Run() error {
	var cycles uint64
	for !v.Halted {
		if v.MaxCycles != 0 && cycles >= v.MaxCycles {
			return newFault(FaultICOutOfBounds, int(v.Registers.Read(isa.IC)), "exceeded max cycle count %d", v.MaxCycles)
		}
		if err := v.Step(); err != nil {
			return err
		}
		cycles++
	}
	return nil
}

// Step executes exactly one fetch/decode/execute cycle.
func (v *VM) Step() error {
	ic := int(v.Registers.Read(isa.IC))

	if ic == len(v.Instructions) {
		v.Halted = true
		return nil
	}
	if ic > len(v.Instructions) {
		return newFault(FaultICOutOfBounds, ic, "IC %d past end of %d-byte instruction stream", ic, len(v.Instructions))
	}

	op := v.Instructions[ic]
	family := isa.DecodeFamily(op)

	var consumed int
	var err error

	switch family {
	case isa.FamilyALU:
		consumed, err = v.execALU(op, ic)
	case isa.FamilyStackInterupt:
		consumed, err = v.execStack(op, ic)
	case isa.FamilyBranch:
		consumed, err = v.execBranch(op, ic)
	default:
		err = newFault(FaultReservedFamily, ic, "Load/Store family (op[7:6]=%02b) is reserved", family)
	}
	if err != nil {
		return err
	}

	if !v.Halted {
		v.Registers.Write(isa.IC, uint16(ic+consumed))
	}
	return nil
}

// operandByte fetches one operand byte relative to the opcode at ic,
// faulting if it would run past the end of the instruction stream.
func (v *VM) operandByte(ic, offset int) (byte, error) {
	idx := ic + offset
	if idx >= len(v.Instructions) {
		return 0, newFault(FaultICOutOfBounds, ic, "truncated instruction: need byte at offset %d", idx)
	}
	return v.Instructions[idx], nil
}

func (v *VM) execALU(op byte, ic int) (int, error) {
	decoded := isa.DecodeALU(op)

	unary := decoded.Op == isa.ALUIncrDecr || decoded.Op == isa.ALUNot

	regByte, err := v.operandByte(ic, 1)
	if err != nil {
		return 0, err
	}

	dest := isa.Reg(regByte & 0x0F)
	if !dest.Valid() {
		return 0, newFault(FaultBadRegister, ic, "destination register encoding 0b1000 is reserved")
	}

	var (
		src       isa.Reg
		imm       uint16
		consumed  int
		hasSource bool // false for unary ops
	)

	switch {
	case unary:
		consumed = 2
	case decoded.Immediate:
		hasSource = false
		if decoded.Wide {
			hi, err := v.operandByte(ic, 3)
			if err != nil {
				return 0, err
			}
			lo, err := v.operandByte(ic, 2)
			if err != nil {
				return 0, err
			}
			imm = uint16(lo) | uint16(hi)<<8
			consumed = 4
		} else {
			b, err := v.operandByte(ic, 2)
			if err != nil {
				return 0, err
			}
			imm = uint16(b)
			consumed = 3
		}
	default:
		hasSource = true
		src = isa.Reg(regByte >> 4)
		if !src.Valid() {
			return 0, newFault(FaultBadRegister, ic, "source register encoding 0b1000 is reserved")
		}
		consumed = 2
	}

	if decoded.Op == isa.ALUEq {
		return 0, newFault(FaultUnknownOpcode, ic, "ALU Eq is not implemented by this architecture")
	}
	if decoded.NOP {
		// Reserved/no-op bit: retire without effect, but we have
		// already computed the correct consumed length.
		return consumed, nil
	}

	width := 8
	mask := uint16(0xFF)
	if decoded.Wide {
		width = 16
		mask = 0xFFFF
	}

	a := v.Registers.Read(dest) & mask

	var result uint16
	switch decoded.Op {
	case isa.ALUAdd:
		b := operandValue(v, src, imm, hasSource) & mask
		result = (a + b) & mask
	case isa.ALUSub:
		b := operandValue(v, src, imm, hasSource) & mask
		result = (a - b) & mask
	case isa.ALUAnd:
		b := operandValue(v, src, imm, hasSource) & mask
		result = a & b
	case isa.ALUOr:
		b := operandValue(v, src, imm, hasSource) & mask
		result = a | b
	case isa.ALUXor:
		b := operandValue(v, src, imm, hasSource) & mask
		result = a ^ b
	case isa.ALUNot:
		result = (^a) & mask
	case isa.ALUIncrDecr:
		if decoded.Decrement {
			result = (a - 1) & mask
		} else {
			result = (a + 1) & mask
		}
	default:
		return 0, newFault(FaultUnknownOpcode, ic, "unrecognized ALU operation %d", decoded.Op)
	}

	v.Registers.Write(dest, result)
	v.Registers.setALUFlags(result, width)

	return consumed, nil
}

func operandValue(v *VM, src isa.Reg, imm uint16, hasSource bool) uint16 {
	if hasSource {
		return v.Registers.Read(src)
	}
	return imm
}

func (v *VM) execStack(op byte, ic int) (int, error) {
	decoded := isa.DecodeStack(op)

	switch decoded.Subfamily {
	case isa.StackSV:
		sp := v.Registers.Read(isa.SP)
		v.Memory.SaveSP(sp)

		var operand uint16
		var consumed int
		switch decoded.SVForm {
		case isa.SVForm8Reg, isa.SVForm16Reg:
			regByte, err := v.operandByte(ic, 1)
			if err != nil {
				return 0, err
			}
			reg := isa.Reg(regByte & 0x0F)
			if !reg.Valid() {
				return 0, newFault(FaultBadRegister, ic, "SV register encoding 0b1000 is reserved")
			}
			operand = v.Registers.Read(reg)
			consumed = 2
		case isa.SVForm8Imm:
			b, err := v.operandByte(ic, 1)
			if err != nil {
				return 0, err
			}
			operand = uint16(b)
			consumed = 2
		case isa.SVForm16Imm:
			lo, err := v.operandByte(ic, 1)
			if err != nil {
				return 0, err
			}
			hi, err := v.operandByte(ic, 2)
			if err != nil {
				return 0, err
			}
			operand = uint16(lo) | uint16(hi)<<8
			consumed = 3
		}

		v.Registers.Write(isa.SP, VariableSpaceStart+operand)
		return consumed, nil

	case isa.StackUV:
		v.Registers.Write(isa.SP, v.Memory.SavedSP())
		return 1, nil

	default:
		return 0, newFault(FaultReservedFamily, ic, "Push/Pop are reserved and not implemented")
	}
}

func (v *VM) execBranch(op byte, ic int) (int, error) {
	if isa.IsSyscall(op) {
		if err := v.syscall(); err != nil {
			return 0, err
		}
		return 1, nil
	}

	variant := isa.DecodeBranchVariant(op)
	return 0, newFault(FaultReservedFamily, ic, "branch variant %03b is not implemented (only Syscall is)", variant)
}
