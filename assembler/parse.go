package assembler

import (
	"strconv"
	"strings"

	"github.com/humamrashid/MachArch/fault"
)

// parseLines converts raw source lines into nodes and records label and
// VAR definitions. Layout and encoding happen later; operands stay raw
// text here so forward references parse cleanly.
func (a *Assembler) parseLines(name string, lines []string) ([]*Node, error) {
	var nodes []*Node
	code := 0
	for i, raw := range lines {
		num := i + 1
		line := strings.TrimSuffix(raw, "\r")
		if pos := strings.IndexByte(line, '#'); pos != -1 {
			line = line[:pos]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// An optional "label:" prefix names the next code address.
		if pos := strings.IndexByte(line, ':'); pos != -1 {
			label := strings.TrimSpace(line[:pos])
			if !isIdent(label) || a.reserved(label) {
				return nil, fault.SyntaxError(name, num)
			}
			if _, dup := a.labels[label]; dup {
				return nil, fault.SyntaxError(name, num)
			}
			a.labels[label] = uint32(code)
			line = strings.TrimSpace(line[pos+1:])
			if line == "" {
				continue
			}
		}

		word, rest := splitWord(line)
		if strings.ToUpper(word) == a.lookahead {
			node, err := a.parseVar(name, num, rest)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
			continue
		}

		mnemonic := strings.ToUpper(word)
		if !a.ds.IsValidMnemonic(mnemonic) {
			return nil, fault.InvalidMnemonicError(mnemonic)
		}
		hasOperand, err := a.ds.MnemonicHasOperand(mnemonic)
		if err != nil {
			return nil, err
		}
		if hasOperand && rest == "" {
			return nil, fault.SyntaxError(name, num)
		}
		if !hasOperand && rest != "" {
			return nil, fault.MnemonicWithoutOperandError(mnemonic)
		}
		nodes = append(nodes, &Node{
			Type:     NodeInstruction,
			Line:     num,
			Mnemonic: mnemonic,
			Operand:  rest,
		})
		code++
	}
	return nodes, nil
}

// parseVar handles the rest of a "VAR name [init]" line.
func (a *Assembler) parseVar(name string, num int, rest string) (*Node, error) {
	ident, init := splitWord(rest)
	if !isIdent(ident) || a.reserved(ident) {
		return nil, fault.SyntaxError(name, num)
	}
	if _, dup := a.vars[ident]; dup {
		return nil, fault.SyntaxError(name, num)
	}
	a.vars[ident] = 0 // address assigned in the layout pass
	node := &Node{Type: NodeVar, Line: num, Name: ident}
	if init != "" {
		v, err := parseConstant(init)
		if err != nil {
			return nil, fault.SyntaxError(name, num)
		}
		node.Init = int32(v)
	}
	return node, nil
}

// reserved reports whether an identifier collides with a mnemonic or the
// VAR keyword, in any case.
func (a *Assembler) reserved(ident string) bool {
	return a.ds.IsReservedWord(strings.ToUpper(ident))
}

// splitWord returns the first whitespace-separated word and the trimmed
// remainder.
func splitWord(s string) (string, string) {
	pos := strings.IndexAny(s, " \t")
	if pos == -1 {
		return s, ""
	}
	return s[:pos], strings.TrimSpace(s[pos:])
}

// isIdent reports whether s is a plain identifier: a letter or underscore
// followed by letters, digits or underscores.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// parseConstant reads a decimal, 0x-hex or character ('A') literal.
func parseConstant(s string) (int64, error) {
	if len(s) == 3 && s[0] == '\'' && s[2] == '\'' {
		return int64(s[1]), nil
	}
	return strconv.ParseInt(s, 0, 32)
}
