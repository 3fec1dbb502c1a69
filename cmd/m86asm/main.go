// m86asm assembles Micro86 assembly source into a program file the
// emulator can load.
//
// Usage: m86asm [-o output] <source_file>
package main

import (
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/humamrashid/MachArch/assembler"
	"github.com/humamrashid/MachArch/dataset"
	"github.com/humamrashid/MachArch/fault"
	"github.com/humamrashid/MachArch/logger"
)

func main() {
	output := getopt.StringLong("output", 'o', "", "Output program file (defaults to stdout).")
	verbose := getopt.BoolLong("verbose", 'v', "Enable debug logging.")
	help := getopt.BoolLong("help", 'h', "Show this help.")
	getopt.SetParameters("<source_file>")
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

	src, err := os.ReadFile(fileName)
	if err != nil {
		fatal(fault.FileReadError(fileName))
	}

	ds, err := dataset.LoadDefault()
	if err != nil {
		fatal(err)
	}

	asm := assembler.New(ds)
	words, err := asm.Assemble(fileName, string(src))
	if err != nil {
		fatal(err)
	}
	text := assembler.Listing(ds, words)

	if *output == "" {
		fmt.Print(text)
		return
	}
	if err := os.WriteFile(*output, []byte(text), 0o644); err != nil {
		fatal(fault.FileWriteError(*output))
	}
	fmt.Printf("Assembled %d words to %s\n", len(words), *output)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
