package asm

import (
	"encoding/binary"

	"github.com/marysaka/smol/isa"
	"github.com/marysaka/smol/objfile"
)

// compileVariables assigns each variable a rising offset starting at 0,
// in declaration order, and builds the on-disk Storage region.
func compileVariables(vars []Variable) objfile.Storage {
	items := make([]objfile.StorageItem, 0, len(vars))
	offset := uint16(0)
	for _, v := range vars {
		items = append(items, objfile.StorageItem{
			Size:     v.Size,
			Offset:   offset,
			InitData: v.InitData,
		})
		offset += v.Size
	}
	return objfile.Storage{Items: items}
}

// variableOffset looks up the compiled offset of a named variable.
// Variables and storage items share index order, so this is a simple
// positional lookup.
func variableOffset(name string, vars []Variable, storage objfile.Storage) (uint16, bool) {
	for i, v := range vars {
		if v.Name == name {
			return storage.Items[i].Offset, true
		}
	}
	return 0, false
}

// Compile lowers a parsed AST into an object file, resolving SV's
// variable-name operand to its compiled offset and emitting the exact
// canonical bytes for the fixed-encoding mnemonics.
func Compile(ast *AST) (*objfile.SmolFile, error) {
	storage := compileVariables(ast.Variables)

	var instructions []byte
	for _, instr := range ast.Instructions {
		bytes, err := compileInstruction(instr, ast.Variables, storage)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, bytes...)
	}

	return &objfile.SmolFile{Storage: storage, Instructions: instructions}, nil
}

func compileInstruction(instr Instruction, vars []Variable, storage objfile.Storage) ([]byte, error) {
	switch instr.Mnemonic {
	case "syscall":
		return []byte{isa.EncodeSyscall()}, nil

	case "uv":
		return []byte{isa.EncodeUV()}, nil

	case "sv":
		offset, ok := variableOffset(instr.Var, vars, storage)
		if !ok {
			return nil, newError(instr.Line, ErrorUnknownVariable, "unknown variable %q", instr.Var)
		}
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, offset)
		return append([]byte{isa.EncodeSV16Imm()}, buf...), nil
	}

	switch instr.Kind {
	case OperandRegReg:
		op := isa.EncodeALU(instr.ALU, false, instr.Wide, false)
		regByte := byte(instr.Dest) | byte(instr.Src)<<4
		return []byte{op, regByte}, nil

	case OperandRegImm:
		immOrDecr := true // op[2]=1 selects the immediate source for non-IncrDecr ops
		op := isa.EncodeALU(instr.ALU, immOrDecr, instr.Wide, false)
		regByte := byte(instr.Dest)
		if !instr.Wide {
			return []byte{op, regByte, byte(instr.Imm)}, nil
		}
		immBuf := make([]byte, 2)
		binary.LittleEndian.PutUint16(immBuf, instr.Imm)
		return append([]byte{op, regByte}, immBuf...), nil

	case OperandReg:
		// Unary forms: NOT uses op[2]=0; INC/DEC reuse op[2] to select
		// increment (0) vs decrement (1).
		decrementBit := instr.ALU == isa.ALUIncrDecr && !instr.IsIncr
		op := isa.EncodeALU(instr.ALU, decrementBit, instr.Wide, false)
		regByte := byte(instr.Dest)
		return []byte{op, regByte}, nil
	}

	return nil, newError(instr.Line, ErrorSyntax, "internal: unhandled instruction shape for %q", instr.Mnemonic)
}
