// Package dataset implements the Micro86 instruction registry: the
// bidirectional opcode/mnemonic map, the operand and immediate sets and the
// assembler's reserved words, loaded from a text data file.
//
// A Dataset is a handle owned by whoever loaded it. It is not safe for
// concurrent use.
package dataset

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/humamrashid/MachArch/fault"
)

const (
	// FileName is the data file read from the working directory.
	FileName = "micro86_data.m86db"
	// LineSize is the longest significant data-file line.
	LineSize = 80
	// ItemSize is the longest mnemonic.
	ItemSize = 8
	// Lookahead is the keyword reserved for the companion assembler.
	Lookahead = "VAR"
)

// Data-file grammar markers: "o" after the mnemonic means the instruction
// takes an operand, a following "i" means the operand is immediate.
const (
	operandMark   = "o"
	immediateMark = "i"
)

// Dataset holds the loaded registry.
type Dataset struct {
	mnemonics  map[int32]string
	opcodes    map[string]int32
	hasOperand map[int32]bool
	immediate  map[int32]bool
	reserved   map[string]bool
}

// LoadDefault loads FileName from the working directory.
func LoadDefault() (*Dataset, error) {
	return Load(FileName)
}

// Load reads a data file and returns the registry.
func Load(name string) (*Dataset, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fault.FileReadError(name)
	}
	defer f.Close()
	return Parse(name, f)
}

// Parse reads data-file text from r; name is used in diagnostics.
func Parse(name string, r io.Reader) (*Dataset, error) {
	d := &Dataset{
		mnemonics:  make(map[int32]string),
		opcodes:    make(map[string]int32),
		hasOperand: make(map[int32]bool),
		immediate:  make(map[int32]bool),
		reserved:   map[string]bool{Lookahead: true},
	}
	sc := bufio.NewScanner(r)
	count := 0
	for sc.Scan() {
		count++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if len(line) > LineSize {
			line = line[:LineSize]
		}
		entry, ok := significant(line)
		if !ok {
			continue
		}
		slog.Debug("found an instruction", "file", name, "line", count)
		if err := d.addEntry(name, count, entry); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fault.FileReadError(name)
	}
	slog.Debug("dataset loaded", "file", name, "instructions", d.NumInstructions())
	return d, nil
}

// addEntry parses one "opcode = mnemonic [o [i]]" line into the maps.
func (d *Dataset) addEntry(name string, line int, entry string) error {
	fields := strings.Fields(entry)
	if len(fields) < 3 || len(fields) > 5 || fields[1] != "=" {
		return fault.SyntaxError(name, line)
	}
	opcode, err := parseHex(fields[0])
	if err != nil {
		return fault.SyntaxError(name, line)
	}
	mnemonic := fields[2]
	if len(mnemonic) > ItemSize {
		return fault.SyntaxError(name, line)
	}
	switch len(fields) {
	case 5:
		if fields[4] != immediateMark {
			return fault.SyntaxError(name, line)
		}
		d.immediate[opcode] = true
		fallthrough
	case 4:
		if fields[3] != operandMark {
			return fault.SyntaxError(name, line)
		}
		d.hasOperand[opcode] = true
	}
	d.mnemonics[opcode] = mnemonic
	d.opcodes[mnemonic] = opcode
	d.reserved[mnemonic] = true
	return nil
}

// significant strips the comment from a line; ok is false when nothing
// remains. Only a fully empty line is blank; '#' preceded by anything but
// spaces truncates the line instead of discarding it.
func significant(line string) (string, bool) {
	if line == "" {
		return "", false
	}
	pos := strings.IndexByte(line, '#')
	if pos == -1 {
		return line, true
	}
	lead := 0
	for lead < len(line) && line[lead] == ' ' {
		lead++
	}
	if pos == lead {
		return "", false
	}
	return line[:pos], true
}

// parseHex reads a hex word with or without a 0x prefix.
func parseHex(s string) (int32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	return int32(v), err
}

// Opcode returns the opcode for a mnemonic.
func (d *Dataset) Opcode(mnemonic string) (int32, error) {
	opcode, ok := d.opcodes[mnemonic]
	if !ok {
		return 0, fault.InvalidMnemonicError(mnemonic)
	}
	return opcode, nil
}

// Mnemonic returns the mnemonic for an opcode.
func (d *Dataset) Mnemonic(opcode int32) (string, error) {
	mnemonic, ok := d.mnemonics[opcode]
	if !ok {
		return "", fault.InvalidOpcodeError(opcode)
	}
	return mnemonic, nil
}

// IsValidOpcode reports whether the dataset knows the opcode.
func (d *Dataset) IsValidOpcode(opcode int32) bool {
	_, ok := d.mnemonics[opcode]
	return ok
}

// IsValidMnemonic reports whether the dataset knows the mnemonic.
// The empty string is never valid.
func (d *Dataset) IsValidMnemonic(mnemonic string) bool {
	_, ok := d.opcodes[mnemonic]
	return ok
}

// OpcodeHasOperand reports whether the instruction takes an operand.
func (d *Dataset) OpcodeHasOperand(opcode int32) (bool, error) {
	if !d.IsValidOpcode(opcode) {
		return false, fault.InvalidOpcodeError(opcode)
	}
	return d.hasOperand[opcode], nil
}

// MnemonicHasOperand is OpcodeHasOperand by mnemonic.
func (d *Dataset) MnemonicHasOperand(mnemonic string) (bool, error) {
	opcode, err := d.Opcode(mnemonic)
	if err != nil {
		return false, err
	}
	return d.hasOperand[opcode], nil
}

// OpcodeIsImmediate reports whether the operand is a literal value.
// Instructions without an operand are never immediate.
func (d *Dataset) OpcodeIsImmediate(opcode int32) (bool, error) {
	hasOp, err := d.OpcodeHasOperand(opcode)
	if err != nil || !hasOp {
		return false, err
	}
	return d.immediate[opcode], nil
}

// MnemonicIsImmediate is OpcodeIsImmediate by mnemonic.
func (d *Dataset) MnemonicIsImmediate(mnemonic string) (bool, error) {
	opcode, err := d.Opcode(mnemonic)
	if err != nil {
		return false, err
	}
	return d.OpcodeIsImmediate(opcode)
}

// IsReservedWord reports whether word matches a mnemonic or the Lookahead
// keyword. Words containing a space are never reserved.
func (d *Dataset) IsReservedWord(word string) bool {
	if strings.ContainsRune(word, ' ') {
		return false
	}
	return d.reserved[word]
}

// NumInstructions returns the number of loaded instructions; zero on a
// nil handle.
func (d *Dataset) NumInstructions() int {
	if d == nil {
		return 0
	}
	return len(d.mnemonics)
}

// Opcodes returns every known opcode, in no particular order.
func (d *Dataset) Opcodes() []int32 {
	ops := make([]int32, 0, len(d.mnemonics))
	for opcode := range d.mnemonics {
		ops = append(ops, opcode)
	}
	return ops
}
