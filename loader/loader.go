// Package loader wires a decoded object file into a VM instance: it
// copies the instruction stream and places each initialized variable's
// bytes into the variable partition of memory, applying the
// `0x8000` bias exactly once.
//
// This is the one layer this implementation chooses to apply the bias
// at (Design Note: "Stack/variable partition"); the VM's SV
// instruction separately recomputes `0x8000 + operand` at execution
// time from the assembler's raw, un-biased offset, which is the
// complementary half of the same documented convention.
package loader

import (
	"fmt"

	"github.com/marysaka/smol/objfile"
	"github.com/marysaka/smol/vm"
)

// LoadIntoVM copies file's instruction stream and initialized variable
// data into machine. Machine should be freshly constructed: IC, SP,
// and every other register are left at zero as the architecture
// requires on start.
func LoadIntoVM(machine *vm.VM, file *objfile.SmolFile) error {
	machine.Instructions = file.Instructions

	for _, item := range file.Storage.Items {
		if !item.HasInitData() {
			continue
		}

		addr := uint32(vm.VariableSpaceStart) + uint32(item.Offset)
		end := addr + uint32(len(item.InitData))
		if end > vm.SPSaveSlot {
			return fmt.Errorf("loader: variable at offset %#04x (size %d) overruns the SP save slot at %#04x", item.Offset, item.Size, vm.SPSaveSlot)
		}

		for i, b := range item.InitData {
			machine.Memory.WriteByte(uint16(addr)+uint16(i), b) // #nosec G115 -- addr+i bounds-checked above
		}
	}

	return nil
}
