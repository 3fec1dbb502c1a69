// m86dis disassembles a Micro86 program file.
//
// Usage: m86dis <program_file>
package main

import (
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/humamrashid/MachArch/dataset"
	"github.com/humamrashid/MachArch/disassembler"
	"github.com/humamrashid/MachArch/logger"
	"github.com/humamrashid/MachArch/vm"
)

func main() {
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

	args := getopt.Args()
	if len(args) != 1 {
		getopt.Usage()
		os.Exit(1)
	}
	fileName := args[0]

	// Resizing is always on: the tool reads programs of any size.
	machine := vm.New(vm.DefMemSize)
	if err := machine.Load(fileName, true); err != nil {
		fatal(err)
	}

	ds, err := dataset.LoadDefault()
	if err != nil {
		fatal(err)
	}

	if err := disassembler.Program(os.Stdout, ds, machine.Mem, machine.MemSize, machine.ProgramSize); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
