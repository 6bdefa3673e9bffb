package isa

import "testing"

func TestDecodeFamily(t *testing.T) {
	cases := []struct {
		op   byte
		want Family
	}{
		{0x00, FamilyALU},
		{0x40, FamilyLoadStore},
		{0x80, FamilyStackInterupt},
		{0xC0, FamilyBranch},
	}
	for _, c := range cases {
		if got := DecodeFamily(c.op); got != c.want {
			t.Errorf("DecodeFamily(%#02x) = %v, want %v", c.op, got, c.want)
		}
	}
}

func TestEncodeDecodeALUAdd(t *testing.T) {
	op := EncodeALU(ALUAdd, false, false, false)
	if op != 0x00 {
		t.Fatalf("ADD r,r opcode = %#02x, want 0x00", op)
	}
	decoded := DecodeALU(op)
	if decoded.Op != ALUAdd || decoded.Immediate || decoded.Wide || decoded.NOP {
		t.Fatalf("unexpected decode: %+v", decoded)
	}
}

func TestEncodeDecodeALUAddImmediate(t *testing.T) {
	op := EncodeALU(ALUAdd, true, false, false)
	if op != 0x04 {
		t.Fatalf("ADDI opcode = %#02x, want 0x04", op)
	}
	decoded := DecodeALU(op)
	if decoded.Op != ALUAdd || !decoded.Immediate {
		t.Fatalf("unexpected decode: %+v", decoded)
	}
}

func TestEncodeDecodeALUNot(t *testing.T) {
	// Scenario 3 from the test matrix: bitwise NOT, opcode 0x28.
	op := EncodeALU(ALUNot, false, false, false)
	if op != 0x28 {
		t.Fatalf("NOT opcode = %#02x, want 0x28", op)
	}
}

func TestEncodeDecodeALUDecrement(t *testing.T) {
	// Scenario 6: DEC r0, opcode 0x3C.
	op := EncodeALU(ALUIncrDecr, true, false, false)
	if op != 0x3C {
		t.Fatalf("DEC opcode = %#02x, want 0x3C", op)
	}
	decoded := DecodeALU(op)
	if decoded.Op != ALUIncrDecr || !decoded.Decrement {
		t.Fatalf("unexpected decode: %+v", decoded)
	}
}

func TestCanonicalSV(t *testing.T) {
	if got := EncodeSV16Imm(); got != 0b10101100 {
		t.Fatalf("SV opcode = %#08b, want 0b10101100", got)
	}
	decoded := DecodeStack(0b10101100)
	if decoded.Subfamily != StackSV || decoded.SVForm != SVForm16Imm {
		t.Fatalf("unexpected decode: %+v", decoded)
	}
}

func TestCanonicalUV(t *testing.T) {
	if got := EncodeUV(); got != 0b10110000 {
		t.Fatalf("UV opcode = %#08b, want 0b10110000", got)
	}
	decoded := DecodeStack(0b10110000)
	if decoded.Subfamily != StackUV {
		t.Fatalf("unexpected decode: %+v", decoded)
	}
}

func TestCanonicalSyscall(t *testing.T) {
	if got := EncodeSyscall(); got != 0b11101111 {
		t.Fatalf("SYSCALL opcode = %#08b, want 0b11101111", got)
	}
	if !IsSyscall(0b11101111) {
		t.Fatal("IsSyscall should be true for the canonical syscall byte")
	}
	if IsSyscall(0b11101110) {
		t.Fatal("IsSyscall should be false when op[2:0] != 0b111")
	}
}

func TestRegisterWidths(t *testing.T) {
	if R3.Width() != 8 {
		t.Errorf("R3 width = %d, want 8", R3.Width())
	}
	if SP.Width() != 16 {
		t.Errorf("SP width = %d, want 16", SP.Width())
	}
}

func TestReservedRegisterInvalid(t *testing.T) {
	if RegReserved.Valid() {
		t.Error("reserved register encoding must not be valid")
	}
}

func TestReadOnlyRegisters(t *testing.T) {
	for _, r := range []Reg{IC, FG} {
		if !r.ReadOnly() {
			t.Errorf("%v should be read-only", r)
		}
	}
	if SP.ReadOnly() {
		t.Error("SP should not be read-only")
	}
}
