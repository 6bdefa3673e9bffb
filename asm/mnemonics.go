package asm

import "github.com/marysaka/smol/isa"

// mnemonicSpec describes how one assembler mnemonic maps onto the ISA's
// ALU bit layout and operand shape.
type mnemonicSpec struct {
	aluOp    isa.ALUOp
	kind     OperandKind
	wide     bool
	isIncr   bool // only meaningful for the Incr/Decr family member
	eqFamily bool // ALUEq: recognised by the parser and rejected there as unimplemented
}

// aluMnemonics is the full ALU-family mnemonic surface: the two
// required ALU mnemonics (ADD, ADDI) plus the supplemental register and
// 16-bit (L0/L1) forms enumerated by the ISA's own bit layout.
var aluMnemonics = map[string]mnemonicSpec{
	"add":  {aluOp: isa.ALUAdd, kind: OperandRegReg},
	"addi": {aluOp: isa.ALUAdd, kind: OperandRegImm},
	"sub":  {aluOp: isa.ALUSub, kind: OperandRegReg},
	"subi": {aluOp: isa.ALUSub, kind: OperandRegImm},
	"and":  {aluOp: isa.ALUAnd, kind: OperandRegReg},
	"andi": {aluOp: isa.ALUAnd, kind: OperandRegImm},
	"or":   {aluOp: isa.ALUOr, kind: OperandRegReg},
	"ori":  {aluOp: isa.ALUOr, kind: OperandRegImm},
	"xor":  {aluOp: isa.ALUXor, kind: OperandRegReg},
	"xori": {aluOp: isa.ALUXor, kind: OperandRegImm},
	"not":  {aluOp: isa.ALUNot, kind: OperandReg},
	"inc":  {aluOp: isa.ALUIncrDecr, kind: OperandReg, isIncr: true},
	"dec":  {aluOp: isa.ALUIncrDecr, kind: OperandReg, isIncr: false},
	"eq":   {aluOp: isa.ALUEq, kind: OperandRegReg, eqFamily: true},

	"addl":  {aluOp: isa.ALUAdd, kind: OperandRegReg, wide: true},
	"addil": {aluOp: isa.ALUAdd, kind: OperandRegImm, wide: true},
	"subl":  {aluOp: isa.ALUSub, kind: OperandRegReg, wide: true},
	"subil": {aluOp: isa.ALUSub, kind: OperandRegImm, wide: true},
	"andl":  {aluOp: isa.ALUAnd, kind: OperandRegReg, wide: true},
	"andil": {aluOp: isa.ALUAnd, kind: OperandRegImm, wide: true},
	"orl":   {aluOp: isa.ALUOr, kind: OperandRegReg, wide: true},
	"oril":  {aluOp: isa.ALUOr, kind: OperandRegImm, wide: true},
	"xorl":  {aluOp: isa.ALUXor, kind: OperandRegReg, wide: true},
	"xoril": {aluOp: isa.ALUXor, kind: OperandRegImm, wide: true},
	"notl":  {aluOp: isa.ALUNot, kind: OperandReg, wide: true},
	"incl":  {aluOp: isa.ALUIncrDecr, kind: OperandReg, wide: true, isIncr: true},
	"decl":  {aluOp: isa.ALUIncrDecr, kind: OperandReg, wide: true, isIncr: false},
	"eql":   {aluOp: isa.ALUEq, kind: OperandRegReg, wide: true, eqFamily: true},
}

// nonALUMnemonics are the fixed-encoding mnemonics outside the ALU
// family: SYSCALL, SV, UV.
var nonALUMnemonics = map[string]OperandKind{
	"syscall": OperandNone,
	"sv":      OperandVarName,
	"uv":      OperandNone,
}
