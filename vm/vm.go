// Package vm ties the processor, memory and instruction dataset into a
// runnable Micro86 machine: it loads program files, drives the
// fetch/decode/execute cycle and produces the trace and post-mortem output.
package vm

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/humamrashid/MachArch/cpu"
	"github.com/humamrashid/MachArch/dataset"
)

const (
	// Version is the emulator version string.
	Version = "1.0"
	// DefMemSize is the default memory size in words.
	DefMemSize = 20
	// MemExtSize is how many cells the loader grows memory by at a time.
	MemExtSize = DefMemSize
	// InitMemVal seeds freshly allocated and extended cells.
	InitMemVal = 0
)

// Machine is a Micro86 processor with its memory, dataset and streams.
type Machine struct {
	Proc *cpu.Processor
	Mem  cpu.Memory
	// MemSize is the current memory size in words; it grows when the
	// loader extends memory.
	MemSize uint32
	// ProgramSize is the number of words the loader wrote, starting at
	// address zero.
	ProgramSize uint32
	// Running is true between boot and HALT.
	Running bool

	// DS is the instruction dataset consulted for validity checks and
	// disassembly. The loader does not use it.
	DS *dataset.Dataset

	// In feeds the IN instruction; Out receives OUT, boot, trace and dump
	// output.
	In  *bufio.Reader
	Out io.Writer

	// Trace prints every executed instruction; Dump disassembles the
	// program after the run.
	Trace bool
	Dump  bool
}

// New returns a machine with memSize words of zeroed memory, cleared
// registers and the standard streams.
func New(memSize uint32) *Machine {
	return &Machine{
		Proc:    cpu.NewProcessor(),
		Mem:     cpu.AllocateInit(memSize, InitMemVal),
		MemSize: memSize,
		In:      bufio.NewReader(os.Stdin),
		Out:     os.Stdout,
	}
}

// PostMortem writes the register and memory dump to w.
func (m *Machine) PostMortem(w io.Writer) {
	fmt.Fprintf(w, "\n=== POST-MORTEM DUMP ===\n")
	fmt.Fprintf(w, "\nCPU:\n\n")
	fmt.Fprintf(w, "%s\n", m.Proc)
	fmt.Fprintf(w, "\nMEMORY:\n\n")
	m.Mem.Print(0, m.MemSize, w)
}
