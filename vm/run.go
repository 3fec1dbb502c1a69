package vm

import (
	"fmt"

	"github.com/humamrashid/MachArch/cpu"
	"github.com/humamrashid/MachArch/disassembler"
	"github.com/humamrashid/MachArch/fault"
)

// Boot emits the banner and marks the machine running.
func (m *Machine) Boot(fileName string) {
	m.Running = true
	fmt.Fprintf(m.Out, "*** Micro86 Emulator V. %s BOOTING ***\n\nProgram file: %s\n",
		Version, fileName)
	if m.Trace {
		fmt.Fprintf(m.Out, "\n=== EXECUTION TRACE ===\n\n")
	}
}

// Run boots the machine and drives the fetch/decode/execute cycle until
// HALT, then emits the optional disassembly and the post-mortem dump.
// A fault stops the cycle and is returned for the driver to report.
func (m *Machine) Run(fileName string) error {
	m.Boot(fileName)
	for m.Running {
		if err := m.Step(); err != nil {
			m.Running = false
			return err
		}
	}
	return m.finish()
}

// finish emits the end-of-run output for a machine that halted normally.
func (m *Machine) finish() error {
	if m.Dump {
		if err := disassembler.Program(m.Out, m.DS, m.Mem, m.MemSize, m.ProgramSize); err != nil {
			return err
		}
	}
	m.PostMortem(m.Out)
	fmt.Fprintf(m.Out, "\n*** Micro86 Emulator V. %s HALTED ***\n", Version)
	return nil
}

// Step runs one fetch/decode/execute cycle.
func (m *Machine) Step() error {
	in, err := m.fetch()
	if err != nil {
		return err
	}
	return m.execute(in)
}

// fetch reads the word at ip into ir, advances ip and returns the decoded
// instruction. The post-increment runs before the program-end check, so a
// jump past the program is caught here on the next cycle.
func (m *Machine) fetch() (cpu.Instruction, error) {
	if m.ProgramSize == 0 {
		return cpu.Instruction{}, fault.NoProgramError()
	}
	ip := m.Proc.IP
	if ip >= m.MemSize {
		return cpu.Instruction{}, fault.BoundsError(int64(ip))
	}
	m.Proc.IP = ip + 1
	if m.Proc.IP > m.ProgramSize {
		return cpu.Instruction{}, fault.ProgramEndError()
	}
	m.Proc.IR = uint32(m.Mem.Get(ip))
	return cpu.Decode(int32(m.Proc.IR)), nil
}

// execute dispatches one decoded instruction, emitting the trace line
// first when tracing is on.
func (m *Machine) execute(in cpu.Instruction) error {
	if m.Trace {
		if err := m.traceStep(); err != nil {
			return err
		}
	}
	switch in.Opcode {
	case cpu.HALT:
		m.Running = false
	case cpu.LOAD:
		v, err := m.read(in.Operand)
		if err != nil {
			return err
		}
		m.Proc.Acc = v
	case cpu.LOADI:
		m.Proc.Acc = in.Operand
	case cpu.STORE:
		if err := m.checkBounds(in.Operand); err != nil {
			return err
		}
		m.Mem.Set(uint32(in.Operand), m.Proc.Acc)
	case cpu.ADD:
		v, err := m.read(in.Operand)
		if err != nil {
			return err
		}
		m.Proc.Acc += v
	case cpu.ADDI:
		m.Proc.Acc += in.Operand
	case cpu.SUB:
		v, err := m.read(in.Operand)
		if err != nil {
			return err
		}
		m.Proc.Acc -= v
	case cpu.SUBI:
		m.Proc.Acc -= in.Operand
	case cpu.MUL:
		v, err := m.read(in.Operand)
		if err != nil {
			return err
		}
		m.Proc.Acc *= v
	case cpu.MULI:
		m.Proc.Acc *= in.Operand
	case cpu.DIV:
		v, err := m.read(in.Operand)
		if err != nil {
			return err
		}
		if v == 0 {
			return fault.DivisionByZeroError()
		}
		m.Proc.Acc = div(m.Proc.Acc, v)
	case cpu.DIVI:
		if in.Operand == 0 {
			return fault.DivisionByZeroError()
		}
		m.Proc.Acc = div(m.Proc.Acc, in.Operand)
	case cpu.MOD:
		v, err := m.read(in.Operand)
		if err != nil {
			return err
		}
		if v == 0 {
			return fault.DivisionByZeroError()
		}
		m.Proc.Acc = mod(m.Proc.Acc, v)
	case cpu.MODI:
		if in.Operand == 0 {
			return fault.DivisionByZeroError()
		}
		m.Proc.Acc = mod(m.Proc.Acc, in.Operand)
	case cpu.CMP:
		v, err := m.read(in.Operand)
		if err != nil {
			return err
		}
		m.Proc.UpdateFlags(m.Proc.Acc - v)
	case cpu.CMPI:
		m.Proc.UpdateFlags(m.Proc.Acc - in.Operand)
	case cpu.JMPI:
		m.Proc.IP = uint32(in.Operand)
	case cpu.JEI:
		if m.Proc.Zero() == 1 {
			m.Proc.IP = uint32(in.Operand)
		}
	case cpu.JNEI:
		if m.Proc.Zero() == 0 {
			m.Proc.IP = uint32(in.Operand)
		}
	case cpu.JLI:
		if m.Proc.Sign() == 1 {
			m.Proc.IP = uint32(in.Operand)
		}
	case cpu.JLEI:
		if m.Proc.Sign() == 1 || m.Proc.Zero() == 1 {
			m.Proc.IP = uint32(in.Operand)
		}
	case cpu.JGI:
		if m.Proc.Zero() == 0 && m.Proc.Sign() == 0 {
			m.Proc.IP = uint32(in.Operand)
		}
	case cpu.JGEI:
		if (m.Proc.Zero() == 0 && m.Proc.Sign() == 0) || m.Proc.Zero() == 1 {
			m.Proc.IP = uint32(in.Operand)
		}
	case cpu.IN:
		b, err := m.In.ReadByte()
		if err != nil {
			return fault.InputError()
		}
		m.Proc.Acc = int32(b)
	case cpu.OUT:
		fmt.Fprintf(m.Out, "%c\n", byte(m.Proc.Acc&0xFF))
	default:
		return fault.InvalidInstructionError(in.Opcode)
	}
	return nil
}

// traceStep prints the address just fetched, the disassembled instruction
// and the register snapshot.
func (m *Machine) traceStep() error {
	line, err := disassembler.Word(m.DS, m.Mem, m.MemSize, int32(m.Proc.IR))
	if err != nil {
		return err
	}
	fmt.Fprintf(m.Out, "0x%08X:\t%s\n\t\t%s\n", m.Proc.IP-1, line, m.Proc)
	return nil
}

// checkBounds validates a cell reference against the current memory size.
func (m *Machine) checkBounds(pos int32) error {
	if pos < 0 || uint32(pos) >= m.MemSize {
		return fault.BoundsError(int64(pos))
	}
	return nil
}

// read returns the word a cell-reference operand points at.
func (m *Machine) read(pos int32) (int32, error) {
	if err := m.checkBounds(pos); err != nil {
		return 0, err
	}
	return m.Mem.Get(uint32(pos)), nil
}

// div and mod wrap the one overflowing quotient (MinInt32 / -1) instead of
// trapping, matching the two's-complement wrap of the other arithmetic.
func div(a, b int32) int32 {
	if b == -1 {
		return -a
	}
	return a / b
}

func mod(a, b int32) int32 {
	if b == -1 {
		return 0
	}
	return a % b
}
