// Package disassembler renders Micro86 instruction words as text, using the
// dataset for mnemonics and the operand/immediate classification.
package disassembler

import (
	"fmt"
	"io"

	"github.com/humamrashid/MachArch/cpu"
	"github.com/humamrashid/MachArch/dataset"
	"github.com/humamrashid/MachArch/fault"
)

// Word renders a single instruction word the way the trace and the code
// dump show it. A word whose opcode the dataset does not know renders as
// the raw word. Every operand, immediates included, is validated against
// memSize. Memory-form operands are shown with the cell's current
// contents; immediates print bare, except jumps, which always show their
// target cell.
func Word(ds *dataset.Dataset, mem cpu.Memory, memSize uint32, word int32) (string, error) {
	in := cpu.Decode(word)
	if !ds.IsValidOpcode(in.Opcode) {
		return fmt.Sprintf("0x%08X", uint32(word)), nil
	}
	mnemonic, err := ds.Mnemonic(in.Opcode)
	if err != nil {
		return "", err
	}
	hasOperand, err := ds.OpcodeHasOperand(in.Opcode)
	if err != nil {
		return "", err
	}
	if !hasOperand {
		return mnemonic, nil
	}
	if uint32(in.Operand) >= memSize {
		return "", fault.BoundsError(int64(in.Operand))
	}
	immediate, err := ds.OpcodeIsImmediate(in.Opcode)
	if err != nil {
		return "", err
	}
	if immediate && !cpu.IsJump(in.Opcode) {
		return fmt.Sprintf("%s\t\t0x%08X", mnemonic, uint32(in.Operand)), nil
	}
	return fmt.Sprintf("%s\t\t0x%08X\t\t|0x%08X: 0x%08X|",
		mnemonic, uint32(in.Operand), uint32(in.Operand),
		uint32(mem.Get(uint32(in.Operand)))), nil
}

// Program writes the disassembly of the whole resident program, one line
// per word in [0, programSize).
func Program(w io.Writer, ds *dataset.Dataset, mem cpu.Memory, memSize, programSize uint32) error {
	if programSize == 0 {
		return fault.NoProgramError()
	}
	fmt.Fprintf(w, "\n=== DISASSEMBLED CODE ===\n\n")
	for i := uint32(0); i < programSize; i++ {
		line, err := Word(ds, mem, memSize, mem.Get(i))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "0x%08X:\t%s\n", i, line)
	}
	return nil
}
