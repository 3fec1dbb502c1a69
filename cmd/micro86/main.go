// micro86 runs a Micro86 program file.
//
// Usage: micro86 <program_file> [-d] [-r] [-t]
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/humamrashid/MachArch/dataset"
	"github.com/humamrashid/MachArch/fault"
	"github.com/humamrashid/MachArch/logger"
	"github.com/humamrashid/MachArch/vm"
)

func main() {
	dump := getopt.BoolLong("dump", 'd', "Disassemble the program after the run.")
	resize := getopt.BoolLong("resize", 'r', "Let the loader grow memory when the program outruns it.")
	trace := getopt.BoolLong("trace", 't', "Print an execution trace.")
	interactive := getopt.BoolLong("interactive", 'i', "Run under the interactive monitor.")
	verbose := getopt.BoolLong("verbose", 'v', "Enable debug logging.")
	help := getopt.BoolLong("help", 'h', "Show this help.")
	getopt.SetParameters("<program_file>")
	getopt.Parse()

	if *help {
		getopt.Usage()
		os.Exit(0)
	}

	level := new(slog.LevelVar)
	if *verbose {
		level.Set(slog.LevelDebug)
	}
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr,
		&slog.HandlerOptions{Level: level})))

	machine := vm.New(vm.DefMemSize)
	machine.Trace = *trace
	machine.Dump = *dump

	args := getopt.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s <program_file> [-d (dump)] [-r (memory resize)] [-t (trace)]\n",
			os.Args[0])
		fail(machine, fault.SetupError())
	}
	fileName := args[0]

	if err := machine.Load(fileName, *resize); err != nil {
		fail(machine, err)
	}

	ds, err := dataset.LoadDefault()
	if err != nil {
		report(err)
		os.Exit(1)
	}
	machine.DS = ds

	if *interactive {
		err = machine.Monitor(fileName)
	} else {
		err = machine.Run(fileName)
	}
	if err != nil {
		fail(machine, err)
	}
}

// fail reports a fault raised by a live machine: the diagnostic lines, the
// post-mortem dump, then a failing exit.
func fail(m *vm.Machine, err error) {
	report(err)
	m.PostMortem(os.Stderr)
	os.Exit(1)
}

// report prints a fault's diagnostic lines to stderr.
func report(err error) {
	var f *fault.Fault
	if errors.As(err, &f) {
		fmt.Fprintln(os.Stderr, f.Error())
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
