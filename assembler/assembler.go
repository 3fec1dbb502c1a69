// Package assembler translates Micro86 assembly source into loadable hex
// program text. The language is one statement per line: an optional
// "label:" prefix, then either an instruction ("LOADI 5", "JEI done",
// "LOAD X") or a declaration "VAR name [init]" reserving a data cell.
// Comments run from '#' to end of line. VAR cells are laid out after the
// code, so the assembled words load contiguously from address zero.
package assembler

import (
	"fmt"
	"strings"

	"github.com/humamrashid/MachArch/cpu"
	"github.com/humamrashid/MachArch/dataset"
	"github.com/humamrashid/MachArch/fault"
)

// Assembler holds the state for one assembly run.
type Assembler struct {
	ds        *dataset.Dataset
	lookahead string
	labels    map[string]uint32
	vars      map[string]uint32
}

// New creates an assembler over a loaded dataset.
func New(ds *dataset.Dataset) *Assembler {
	return &Assembler{
		ds:        ds,
		lookahead: dataset.Lookahead,
		labels:    make(map[string]uint32),
		vars:      make(map[string]uint32),
	}
}

// Assemble translates source text into the memory image: code words first,
// then one cell per VAR declaration. name is used in diagnostics.
func (a *Assembler) Assemble(name, src string) ([]int32, error) {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	nodes, err := a.parseLines(name, lines)
	if err != nil {
		return nil, err
	}

	// Layout pass: code gets sequential addresses from zero, VAR cells
	// follow the last instruction.
	addr := uint32(0)
	for _, n := range nodes {
		if n.Type == NodeInstruction {
			n.Addr = addr
			addr++
		}
	}
	for _, n := range nodes {
		if n.Type == NodeVar {
			n.Addr = addr
			a.vars[n.Name] = addr
			addr++
		}
	}

	// Emit pass.
	words := make([]int32, addr)
	for _, n := range nodes {
		switch n.Type {
		case NodeVar:
			words[n.Addr] = n.Init
		case NodeInstruction:
			word, err := a.encodeInstruction(name, n)
			if err != nil {
				return nil, err
			}
			words[n.Addr] = word
		}
	}
	return words, nil
}

// encodeInstruction resolves the operand and packs the instruction word.
func (a *Assembler) encodeInstruction(name string, n *Node) (int32, error) {
	opcode, err := a.ds.Opcode(n.Mnemonic)
	if err != nil {
		return 0, err
	}
	if n.Operand == "" {
		return cpu.Encode(opcode, 0), nil
	}
	operand, err := a.resolveOperand(n.Operand)
	if err != nil {
		return 0, fault.SyntaxError(name, n.Line)
	}
	if operand < 0 || operand > 0xFFFF {
		return 0, fault.SyntaxError(name, n.Line)
	}
	return cpu.Encode(opcode, int32(operand)), nil
}

// resolveOperand turns operand text into its 16-bit value: a numeric or
// character literal, or the address of a label or VAR cell. An identifier
// under an immediate instruction yields the address as a literal, which is
// what jumps and address-of loads want.
func (a *Assembler) resolveOperand(s string) (int64, error) {
	if v, err := parseConstant(s); err == nil {
		return v, nil
	}
	if !isIdent(s) {
		return 0, fmt.Errorf("unknown operand format: %s", s)
	}
	if addr, ok := a.labels[s]; ok {
		return int64(addr), nil
	}
	if addr, ok := a.vars[s]; ok {
		return int64(addr), nil
	}
	return 0, fmt.Errorf("undefined symbol: %s", s)
}

// Listing renders assembled words as program-file text the loader accepts,
// one hex word per line with the disassembled form as a comment. A word
// whose opcode the dataset does not know (such as a VAR cell) gets no
// comment.
func Listing(ds *dataset.Dataset, words []int32) string {
	var out strings.Builder
	for _, word := range words {
		in := cpu.Decode(word)
		switch {
		case !ds.IsValidOpcode(in.Opcode):
			fmt.Fprintf(&out, "%08X\n", uint32(word))
		default:
			mnemonic, _ := ds.Mnemonic(in.Opcode)
			if hasOperand, _ := ds.OpcodeHasOperand(in.Opcode); hasOperand {
				fmt.Fprintf(&out, "%08X   # %s 0x%04X\n", uint32(word), mnemonic, uint32(in.Operand))
			} else {
				fmt.Fprintf(&out, "%08X   # %s\n", uint32(word), mnemonic)
			}
		}
	}
	return out.String()
}
