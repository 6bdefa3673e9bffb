package asm

import (
	"strconv"
	"strings"

	"github.com/marysaka/smol/isa"
)

// Parse splits source into its variable and instruction regions on
// lines whose first three characters are "---", then parses each
// region. Lines between the first and second "---" line form the
// variable region; lines before the first and after the second are
// instructions. A source with no "---" line is entirely instructions.
func Parse(source string) (*AST, error) {
	rawLines := strings.Split(source, "\n")

	var varLines, instrLines []numberedLine
	region := regionInstructions
	sepCount := 0

	for i, raw := range rawLines {
		line := strings.TrimRight(raw, " \t\r")
		lineNo := i + 1

		if len(line) >= 3 && line[:3] == "---" {
			sepCount++
			if sepCount == 1 {
				region = regionVariables
			} else {
				region = regionInstructions
			}
			continue
		}

		nl := numberedLine{line: line, lineNo: lineNo}
		if region == regionVariables {
			varLines = append(varLines, nl)
		} else {
			instrLines = append(instrLines, nl)
		}
	}

	variables, err := parseVariables(varLines)
	if err != nil {
		return nil, err
	}

	names := make(map[string]bool, len(variables))
	for _, v := range variables {
		names[v.Name] = true
	}

	instructions, err := parseInstructions(instrLines, names)
	if err != nil {
		return nil, err
	}

	return &AST{Variables: variables, Instructions: instructions}, nil
}

type region int

const (
	regionInstructions region = iota
	regionVariables
)

type numberedLine struct {
	line   string
	lineNo int
}

func isMeaningful(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && !strings.HasPrefix(trimmed, "#")
}

func parseVariables(lines []numberedLine) ([]Variable, error) {
	var out []Variable
	for _, nl := range lines {
		if !isMeaningful(nl.line) {
			continue
		}
		v, err := parseVariableLine(nl.line, nl.lineNo)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parseVariableLine parses "<name> <size> [<value>]" where <value>, if
// present, is a double-quoted string literal whose only required escape
// is \n.
func parseVariableLine(line string, lineNo int) (Variable, error) {
	fields := strings.SplitN(strings.TrimSpace(line), " ", 3)
	name := fields[0]
	if len(fields) < 2 {
		return Variable{}, newError(lineNo, ErrorArgCount, "variable %q: expected <name> <size> [<value>]", name)
	}

	// fields[1] may itself contain leading whitespace collapsed by
	// SplitN with a single space separator; re-split on whitespace to
	// tolerate runs of spaces/tabs between name and size.
	rest := strings.Join(fields[1:], " ")
	restFields := strings.Fields(rest)
	if len(restFields) == 0 {
		return Variable{}, newError(lineNo, ErrorArgCount, "variable %q: missing size", name)
	}

	size, err := strconv.ParseUint(restFields[0], 10, 16)
	if err != nil {
		return Variable{}, newError(lineNo, ErrorBadImmediate, "variable %q: invalid size %q", name, restFields[0])
	}
	if size == 0 || size > 0x7FFF {
		return Variable{}, newError(lineNo, ErrorSizeMismatch, "variable %q: size %d out of range 1..=0x7FFF", name, size)
	}

	v := Variable{Name: name, Size: uint16(size), Line: lineNo}

	valueStart := strings.Index(rest, restFields[0])
	remainder := strings.TrimSpace(rest[valueStart+len(restFields[0]):])
	if remainder == "" {
		return v, nil
	}

	data, err := parseStringLiteral(remainder, lineNo)
	if err != nil {
		return Variable{}, err
	}
	if len(data) != int(size) {
		return Variable{}, newError(lineNo, ErrorSizeMismatch, "variable %q: literal length %d does not match declared size %d", name, len(data), size)
	}
	v.InitData = data
	return v, nil
}

// parseStringLiteral parses a double-quoted literal with \n as the only
// defined escape sequence.
func parseStringLiteral(tok string, lineNo int) ([]byte, error) {
	if len(tok) < 2 || tok[0] != '"' {
		return nil, newError(lineNo, ErrorSyntax, "expected double-quoted string literal, got %q", tok)
	}
	if tok[len(tok)-1] != '"' || len(tok) == 1 {
		return nil, newError(lineNo, ErrorUnterminatedString, "unterminated string literal: %q", tok)
	}

	inner := tok[1 : len(tok)-1]
	var out []byte
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' {
			if i+1 >= len(inner) {
				return nil, newError(lineNo, ErrorUnterminatedString, "dangling escape at end of string literal")
			}
			switch inner[i+1] {
			case 'n':
				out = append(out, '\n')
			default:
				return nil, newError(lineNo, ErrorSyntax, "unsupported escape sequence \\%c", inner[i+1])
			}
			i++
			continue
		}
		out = append(out, inner[i])
	}
	return out, nil
}

func parseInstructions(lines []numberedLine, knownVars map[string]bool) ([]Instruction, error) {
	var out []Instruction
	for _, nl := range lines {
		if !isMeaningful(nl.line) {
			continue
		}
		instr, err := parseInstructionLine(nl.line, nl.lineNo, knownVars)
		if err != nil {
			return nil, err
		}
		out = append(out, instr)
	}
	return out, nil
}

func parseInstructionLine(line string, lineNo int, knownVars map[string]bool) (Instruction, error) {
	fields := strings.Fields(line)
	mnemonic := strings.ToLower(fields[0])
	args := fields[1:]

	if kind, ok := nonALUMnemonics[mnemonic]; ok {
		instr := Instruction{Mnemonic: mnemonic, Line: lineNo, Kind: kind}
		switch kind {
		case OperandNone:
			if len(args) != 0 {
				return Instruction{}, newError(lineNo, ErrorArgCount, "%s takes no operands, got %d", mnemonic, len(args))
			}
		case OperandVarName:
			if len(args) != 1 {
				return Instruction{}, newError(lineNo, ErrorArgCount, "%s expects exactly one variable name, got %d", mnemonic, len(args))
			}
			if !knownVars[args[0]] {
				return Instruction{}, newError(lineNo, ErrorUnknownVariable, "unknown variable %q", args[0])
			}
			instr.Var = args[0]
		}
		return instr, nil
	}

	spec, ok := aluMnemonics[mnemonic]
	if !ok {
		return Instruction{}, newError(lineNo, ErrorUnknownMnemonic, "unknown mnemonic %q", fields[0])
	}
	if spec.eqFamily {
		return Instruction{}, newError(lineNo, ErrorUnimplementedMnemonic, "%q decodes to an ALU-Eq opcode, which this architecture does not implement", mnemonic)
	}

	instr := Instruction{
		Mnemonic: mnemonic,
		Line:     lineNo,
		Kind:     spec.kind,
		ALU:      spec.aluOp,
		Wide:     spec.wide,
		IsIncr:   spec.isIncr,
	}

	switch spec.kind {
	case OperandRegReg:
		if len(args) != 2 {
			return Instruction{}, newError(lineNo, ErrorArgCount, "%s expects 2 register operands, got %d", mnemonic, len(args))
		}
		dest, err := parseReg(args[0], spec.wide, lineNo)
		if err != nil {
			return Instruction{}, err
		}
		src, err := parseReg(args[1], spec.wide, lineNo)
		if err != nil {
			return Instruction{}, err
		}
		if dest.ReadOnly() {
			return Instruction{}, newError(lineNo, ErrorBadRegister, "%s: cannot write read-only register %v", mnemonic, dest)
		}
		instr.Dest, instr.Src = dest, src

	case OperandRegImm:
		if len(args) != 2 {
			return Instruction{}, newError(lineNo, ErrorArgCount, "%s expects a register and an immediate, got %d", mnemonic, len(args))
		}
		dest, err := parseReg(args[0], spec.wide, lineNo)
		if err != nil {
			return Instruction{}, err
		}
		if dest.ReadOnly() {
			return Instruction{}, newError(lineNo, ErrorBadRegister, "%s: cannot write read-only register %v", mnemonic, dest)
		}
		bits := 8
		if spec.wide {
			bits = 16
		}
		imm, err := strconv.ParseUint(args[1], 10, bits)
		if err != nil {
			return Instruction{}, newError(lineNo, ErrorBadImmediate, "%s: invalid immediate %q", mnemonic, args[1])
		}
		instr.Dest = dest
		instr.Imm = uint16(imm)

	case OperandReg:
		if len(args) != 1 {
			return Instruction{}, newError(lineNo, ErrorArgCount, "%s expects 1 register operand, got %d", mnemonic, len(args))
		}
		dest, err := parseReg(args[0], spec.wide, lineNo)
		if err != nil {
			return Instruction{}, err
		}
		if dest.ReadOnly() {
			return Instruction{}, newError(lineNo, ErrorBadRegister, "%s: cannot write read-only register %v", mnemonic, dest)
		}
		instr.Dest = dest
	}

	return instr, nil
}

func parseReg(tok string, wide bool, lineNo int) (isa.Reg, error) {
	lower := strings.ToLower(tok)
	if !wide {
		if len(lower) == 2 && lower[0] == 'r' && lower[1] >= '0' && lower[1] <= '7' {
			return isa.Reg(lower[1] - '0'), nil
		}
		return 0, newError(lineNo, ErrorBadRegister, "expected r0-r7, got %q", tok)
	}

	switch lower {
	case "l0":
		return isa.L0, nil
	case "l1":
		return isa.L1, nil
	case "ic":
		return isa.IC, nil
	case "fg":
		return isa.FG, nil
	case "cr":
		return isa.CR, nil
	case "sp":
		return isa.SP, nil
	case "zr":
		return isa.ZR, nil
	default:
		return 0, newError(lineNo, ErrorBadRegister, "expected a 16-bit register (l0, l1, ic, fg, cr, sp, zr), got %q", tok)
	}
}
