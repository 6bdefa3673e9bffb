package integration

import (
	"bytes"

	"github.com/marysaka/smol/asm"
	"github.com/marysaka/smol/isa"
	"github.com/marysaka/smol/loader"
	"github.com/marysaka/smol/objfile"
	"github.com/marysaka/smol/vm"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// assembleLoadRun runs the full pipeline: source text -> object file
// bytes -> decode -> load into a fresh VM. It returns the machine
// before Run() so each spec can set up registers or just call Run.
func assembleLoadRun(source string) (*vm.VM, error) {
	file, err := asm.Assemble(source)
	if err != nil {
		return nil, err
	}

	encoded := file.Encode()
	decoded, err := objfile.Decode(encoded)
	if err != nil {
		return nil, err
	}

	machine := vm.New()
	if err := loader.LoadIntoVM(machine, decoded); err != nil {
		return nil, err
	}
	return machine, nil
}

var _ = Describe("assemble to execute pipeline", func() {
	var machine *vm.VM
	var err error

	Context("scenario: add registers", func() {
		BeforeEach(func() {
			machine, err = assembleLoadRun("add r0 r1\n")
			Expect(err).NotTo(HaveOccurred())
			machine.Registers.Write(isa.R0, 1)
			machine.Registers.Write(isa.R1, 2)
		})

		It("leaves R0 holding the sum", func() {
			Expect(machine.Run()).To(Succeed())
			Expect(machine.Registers.Read(isa.R0)).To(Equal(uint16(3)))
		})
	})

	Context("scenario: add immediate", func() {
		BeforeEach(func() {
			machine, err = assembleLoadRun("addi r7 11\n")
			Expect(err).NotTo(HaveOccurred())
			machine.Registers.Write(isa.R7, 100)
		})

		It("leaves R7 holding 111", func() {
			Expect(machine.Run()).To(Succeed())
			Expect(machine.Registers.Read(isa.R7)).To(Equal(uint16(111)))
		})
	})

	Context("scenario: bitwise not", func() {
		BeforeEach(func() {
			machine, err = assembleLoadRun("not r2\n")
			Expect(err).NotTo(HaveOccurred())
			machine.Registers.Write(isa.R2, 123)
		})

		It("leaves R2 holding the bitwise complement", func() {
			Expect(machine.Run()).To(Succeed())
			Expect(machine.Registers.Read(isa.R2)).To(Equal(uint16(132)))
		})
	})

	Context("scenario: SV/UV round-trip", func() {
		BeforeEach(func() {
			machine, err = assembleLoadRun("msg 5\n---\nsv msg\nuv\n")
			Expect(err).NotTo(HaveOccurred())
		})

		It("restores SP and leaves the save slot holding the pre-SV value", func() {
			Expect(machine.Run()).To(Succeed())
			Expect(machine.Registers.Read(isa.SP)).To(Equal(uint16(0)))
			Expect(machine.Memory.SavedSP()).To(Equal(uint16(0)))
		})
	})

	Context("scenario: wide add immediate", func() {
		BeforeEach(func() {
			machine, err = assembleLoadRun("addil l0 1000\naddl l1 l0\n")
			Expect(err).NotTo(HaveOccurred())
		})

		It("dispatches through the 16-bit width mask instead of truncating to a byte", func() {
			Expect(machine.Run()).To(Succeed())
			Expect(machine.Registers.Read(isa.L0)).To(Equal(uint16(1000)))
			Expect(machine.Registers.Read(isa.L1)).To(Equal(uint16(1000)))
		})
	})

	Context("scenario: decrement wraps", func() {
		BeforeEach(func() {
			machine, err = assembleLoadRun("dec r0\n")
			Expect(err).NotTo(HaveOccurred())
		})

		It("leaves R0 holding 255", func() {
			Expect(machine.Run()).To(Succeed())
			Expect(machine.Registers.Read(isa.R0)).To(Equal(uint16(255)))
		})
	})

	Context("scenario: hello-world write", func() {
		var stdout bytes.Buffer

		BeforeEach(func() {
			stdout.Reset()
			source := "---\nhi 6 \"hello\\n\"\n---\n" +
				"addi r0 1\naddi r1 1\naddi r2 0\naddi r3 6\n" +
				"sv hi\nsyscall\nuv\n" +
				"xor r0 r0\naddi r0 60\nxor r1 r1\nsyscall\n"
			machine, err = assembleLoadRun(source)
			Expect(err).NotTo(HaveOccurred())
			machine.WriteFDs[1] = &stdout
		})

		It("writes exactly the variable's bytes to stdout and exits 0", func() {
			Expect(machine.Run()).To(Succeed())
			Expect(stdout.String()).To(Equal("hello\n"))
			Expect(machine.ExitStatus).To(Equal(byte(0)))
		})
	})
})

var _ = Describe("universal invariants", func() {
	It("keeps storage item offsets strictly increasing", func() {
		ast, err := asm.Parse("---\na 4\nb 2\nc 10\n---\n")
		Expect(err).NotTo(HaveOccurred())

		file, err := asm.Compile(ast)
		Expect(err).NotTo(HaveOccurred())

		items := file.Storage.Items
		for i := 1; i < len(items); i++ {
			Expect(items[i].Offset).To(BeNumerically(">", items[i-1].Offset))
			Expect(items[i].Offset).To(Equal(items[i-1].Offset + items[i-1].Size))
		}
	})

	It("round-trips an assembled file through the object codec", func() {
		file, err := asm.Assemble("---\nhi 6 \"hello\\n\"\n---\nsv hi\nuv\n")
		Expect(err).NotTo(HaveOccurred())

		decoded, err := objfile.Decode(file.Encode())
		Expect(err).NotTo(HaveOccurred())

		Expect(decoded.Storage.Items).To(Equal(file.Storage.Items))
		Expect(decoded.Instructions).To(Equal(file.Instructions))
	})

	It("truncates every 8-bit register write to its low byte", func() {
		var regs vm.Registers
		regs.Write(isa.R3, 0x1FF)
		Expect(regs.Read(isa.R3)).To(Equal(uint16(0xFF)))
	})
})
