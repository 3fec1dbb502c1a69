// Package fault defines the Micro86 error taxonomy. Faults are plain error
// values returned from wherever they arise; only the binaries terminate the
// process, printing the diagnostic lines and — for faults raised by a live
// machine — the post-mortem dump.
package fault

import (
	"fmt"
	"strings"
)

// Kind classifies a fault.
type Kind int

const (
	// FileRead means a required file could not be opened or read.
	FileRead Kind = iota
	// FileWrite means an output file could not be written.
	FileWrite
	// Syntax means a loader, dataset or assembler line failed its grammar.
	Syntax
	// InvalidOpcode means an opcode is missing from the dataset.
	InvalidOpcode
	// InvalidMnemonic means a mnemonic is missing from the dataset.
	InvalidMnemonic
	// MemoryBounds means a cell reference landed outside memory.
	MemoryBounds
	// DivisionByZero means a DIV/DIVI/MOD/MODI divisor evaluated to zero.
	DivisionByZero
	// NoProgram means the interpreter or disassembler found empty memory.
	NoProgram
	// ProgramEnd means a fetch advanced the instruction pointer past the
	// resident program.
	ProgramEnd
	// BadInput means IN hit end of input.
	BadInput
	// Setup means the command line could not be processed.
	Setup
)

// Fault carries up to two diagnostic lines: Detail is the specific
// "ERROR: ..." line, Summary the closing "Micro86 ERROR: ..." line.
// Either may be empty.
type Fault struct {
	Kind    Kind
	Detail  string
	Summary string
}

func (f *Fault) Error() string {
	lines := make([]string, 0, 2)
	if f.Detail != "" {
		lines = append(lines, f.Detail)
	}
	if f.Summary != "" {
		lines = append(lines, f.Summary)
	}
	return strings.Join(lines, "\n")
}

// FileReadError reports an unreadable file.
func FileReadError(name string) *Fault {
	return &Fault{
		Kind:   FileRead,
		Detail: fmt.Sprintf("ERROR: unable to read file %s!", name),
	}
}

// ProgramReadError reports an unreadable program file.
func ProgramReadError(name string) *Fault {
	f := FileReadError(name)
	f.Summary = "Micro86 ERROR: cannot read program file!"
	return f
}

// FileWriteError reports an unwritable file.
func FileWriteError(name string) *Fault {
	return &Fault{
		Kind:   FileWrite,
		Detail: fmt.Sprintf("ERROR: unable to write to file %s!", name),
	}
}

// SyntaxError reports a malformed line. A line number of zero or less
// blames the whole file.
func SyntaxError(name string, line int) *Fault {
	f := &Fault{Kind: Syntax}
	if line <= 0 {
		f.Detail = fmt.Sprintf("ERROR: invalid syntax in %s!", name)
	} else {
		f.Detail = fmt.Sprintf("ERROR: invalid syntax in line %d in %s!", line, name)
	}
	return f
}

// ProgramSyntaxError is SyntaxError as raised by the program loader.
func ProgramSyntaxError(name string, line int) *Fault {
	f := SyntaxError(name, line)
	f.Summary = "Micro86 ERROR: invalid instruction!"
	return f
}

// InvalidOpcodeError reports an opcode the dataset does not know.
func InvalidOpcodeError(opcode int32) *Fault {
	return &Fault{
		Kind:   InvalidOpcode,
		Detail: fmt.Sprintf("ERROR: opcode '0x%04X' is invalid!", uint32(opcode)),
	}
}

// InvalidInstructionError is InvalidOpcodeError as raised at execute time.
func InvalidInstructionError(opcode int32) *Fault {
	f := InvalidOpcodeError(opcode)
	f.Summary = "Micro86 ERROR: invalid instruction!"
	return f
}

// InvalidMnemonicError reports a mnemonic the dataset does not know.
func InvalidMnemonicError(mnemonic string) *Fault {
	return &Fault{
		Kind:   InvalidMnemonic,
		Detail: fmt.Sprintf("ERROR: mnemonic '%s' is invalid!", mnemonic),
	}
}

// OpcodeWithoutOperandError reports an operand given to an instruction
// that takes none.
func OpcodeWithoutOperandError(opcode int32) *Fault {
	return &Fault{
		Kind:   Syntax,
		Detail: fmt.Sprintf("ERROR: instruction with opcode '0x%04X' does not take an operand!", uint32(opcode)),
	}
}

// MnemonicWithoutOperandError is OpcodeWithoutOperandError by mnemonic.
func MnemonicWithoutOperandError(mnemonic string) *Fault {
	return &Fault{
		Kind:   Syntax,
		Detail: fmt.Sprintf("ERROR: instruction with mnemonic '%s' does not take an operand!", mnemonic),
	}
}

// BoundsError reports a cell reference outside memory.
func BoundsError(pos int64) *Fault {
	return &Fault{
		Kind:    MemoryBounds,
		Detail:  fmt.Sprintf("ERROR: memory access out of bounds at position %d!", pos),
		Summary: "Micro86 ERROR: memory violation!",
	}
}

// DivisionByZeroError reports a zero divisor.
func DivisionByZeroError() *Fault {
	return &Fault{
		Kind:    DivisionByZero,
		Summary: "Micro86 ERROR: division by zero!",
	}
}

// NoProgramError reports an empty program.
func NoProgramError() *Fault {
	return &Fault{
		Kind:    NoProgram,
		Summary: "Micro86 ERROR: no program in memory!",
	}
}

// ProgramEndError reports a fetch past the end of the program.
func ProgramEndError() *Fault {
	return &Fault{
		Kind:    ProgramEnd,
		Summary: "Micro86 ERROR: program end reached!",
	}
}

// InputError reports end of input on IN.
func InputError() *Fault {
	return &Fault{
		Kind:    BadInput,
		Detail:  "ERROR: unable to read file 'STD_IN_SRC'!",
		Summary: "Micro86 ERROR: cannot read input!",
	}
}

// SetupError reports an unusable command line.
func SetupError() *Fault {
	return &Fault{
		Kind:    Setup,
		Summary: "Micro86 ERROR: unable to set up environment!",
	}
}
