package vm

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/humamrashid/MachArch/disassembler"
	"github.com/peterh/liner"
)

// Monitor boots the machine and runs the cycle under an interactive
// console instead of free-running. Quitting the console stops the machine;
// the end-of-run output is the same as Run's.
func (m *Machine) Monitor(fileName string) error {
	m.Boot(fileName)
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completeCommand)
	for m.Running {
		input, err := line.Prompt("micro86> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				m.Running = false
				break
			}
			return err
		}
		line.AppendHistory(input)
		if err := m.command(input); err != nil {
			return err
		}
	}
	return m.finish()
}

var monitorCommands = []string{"cont", "dis", "help", "mem", "quit", "regs", "step"}

func completeCommand(line string) []string {
	var out []string
	for _, c := range monitorCommands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}
	return out
}

// command dispatches one console line. Execution faults propagate; bad
// command input only prints a complaint.
func (m *Machine) command(input string) error {
	args := strings.Fields(input)
	if len(args) == 0 {
		return nil
	}
	switch args[0] {
	case "s", "step":
		n := 1
		if len(args) > 1 {
			v, err := strconv.Atoi(args[1])
			if err != nil || v < 1 {
				fmt.Fprintf(m.Out, "step wants a positive count\n")
				return nil
			}
			n = v
		}
		for i := 0; i < n && m.Running; i++ {
			if err := m.Step(); err != nil {
				return err
			}
		}
		if !m.Running {
			fmt.Fprintf(m.Out, "machine halted\n")
		}
	case "c", "cont":
		for m.Running {
			if err := m.Step(); err != nil {
				return err
			}
		}
	case "r", "regs":
		fmt.Fprintf(m.Out, "%s\n", m.Proc)
	case "m", "mem":
		start, end := uint32(0), m.MemSize
		if len(args) > 1 {
			v, err := parseAddr(args[1], m.MemSize)
			if err != nil {
				fmt.Fprintf(m.Out, "bad address %q\n", args[1])
				return nil
			}
			start = v
		}
		if len(args) > 2 {
			v, err := parseAddr(args[2], m.MemSize)
			if err != nil || v < start {
				fmt.Fprintf(m.Out, "bad address %q\n", args[2])
				return nil
			}
			end = v
		}
		m.Mem.Print(start, end, m.Out)
	case "d", "dis":
		if err := disassembler.Program(m.Out, m.DS, m.Mem, m.MemSize, m.ProgramSize); err != nil {
			return err
		}
	case "q", "quit":
		m.Running = false
	case "h", "help":
		fmt.Fprint(m.Out, "commands:\n"+
			"  step [n]   execute n instructions (default 1)\n"+
			"  cont       run until HALT\n"+
			"  regs       show the registers\n"+
			"  mem [a [b]] dump memory cells a..b\n"+
			"  dis        disassemble the program\n"+
			"  quit       stop the machine\n")
	default:
		fmt.Fprintf(m.Out, "unknown command %q (try help)\n", args[0])
	}
	return nil
}

// parseAddr reads a decimal or 0x-hex cell index clamped to memory.
func parseAddr(s string, memSize uint32) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	if v > uint64(memSize) {
		v = uint64(memSize)
	}
	return uint32(v), nil
}
