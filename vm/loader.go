package vm

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/humamrashid/MachArch/fault"
)

// MaxLineLen is the longest significant program-file line.
const MaxLineLen = 80

// Load reads the program file into memory starting at address zero and sets
// ProgramSize. With allowResize the memory grows by MemExtSize cells
// whenever the program outruns it; otherwise that is a bounds fault.
func (m *Machine) Load(name string, allowResize bool) error {
	f, err := os.Open(name)
	if err != nil {
		return fault.ProgramReadError(name)
	}
	defer f.Close()
	return m.LoadReader(name, f, allowResize)
}

// LoadReader is Load from an open stream; name is used in diagnostics.
func (m *Machine) LoadReader(name string, r io.Reader, allowResize bool) error {
	m.ProgramSize = 0
	sc := bufio.NewScanner(r)
	count := 0
	for sc.Scan() {
		count++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if len(line) > MaxLineLen {
			line = line[:MaxLineLen]
		}
		entry, ok := significant(line)
		if !ok {
			continue
		}
		slog.Debug("found an instruction", "file", name, "line", count)
		word, err := parseWord(entry)
		if err != nil {
			return fault.ProgramSyntaxError(name, count)
		}
		if m.ProgramSize >= m.MemSize {
			if !allowResize {
				return fault.BoundsError(int64(m.ProgramSize))
			}
			m.Mem = m.Mem.ExtendInit(m.MemSize, MemExtSize, InitMemVal)
			m.MemSize += MemExtSize
			slog.Debug("memory extended", "size", m.MemSize)
		}
		m.Mem.Set(m.ProgramSize, word)
		m.ProgramSize++
	}
	if err := sc.Err(); err != nil {
		return fault.ProgramReadError(name)
	}
	slog.Debug("program loaded", "file", name, "words", m.ProgramSize)
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

// parseWord reads the first token of an instruction candidate as a hex
// word of up to eight digits, with or without a 0x prefix.
func parseWord(s string) (int32, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, strconv.ErrSyntax
	}
	t := strings.TrimPrefix(strings.TrimPrefix(fields[0], "0x"), "0X")
	v, err := strconv.ParseUint(t, 16, 32)
	return int32(v), err
}
