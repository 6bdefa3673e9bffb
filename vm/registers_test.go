package vm

import (
	"testing"

	"github.com/marysaka/smol/isa"
)

func TestZeroRegisterDiscardsWrites(t *testing.T) {
	var regs Registers
	regs.Write(isa.ZR, 0xFFFF)
	if got := regs.Read(isa.ZR); got != 0 {
		t.Errorf("ZR should always read 0, got %d", got)
	}
}

func TestWideRegisterRoundTrip(t *testing.T) {
	var regs Registers
	regs.Write(isa.L0, 0xBEEF)
	if got := regs.Read(isa.L0); got != 0xBEEF {
		t.Errorf("L0 = %#04x, want 0xBEEF", got)
	}
}

func TestALUFlagsZero(t *testing.T) {
	var regs Registers
	regs.setALUFlags(0, 8)
	if regs.Read(isa.FG)&flagZ == 0 {
		t.Error("expected Z flag set for zero result")
	}
}

func TestALUFlagsNegative8Bit(t *testing.T) {
	var regs Registers
	regs.setALUFlags(0x80, 8)
	if regs.Read(isa.FG)&flagN == 0 {
		t.Error("expected N flag set for high-bit-set 8-bit result")
	}
}
