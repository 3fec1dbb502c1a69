package vm_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/humamrashid/MachArch/cpu"
	"github.com/humamrashid/MachArch/fault"
	"github.com/humamrashid/MachArch/vm"
)

func TestLoaderCommentsAndBlanks(t *testing.T) {
	text := "# full-line comment\n" +
		"\n" +
		"   # comment after spaces\n" +
		"02010005 # trailing comment\n" +
		"01000000\n"
	m, _ := newMachine(t, text, "", false)
	if m.ProgramSize != 2 {
		t.Fatalf("ProgramSize = %d, want 2", m.ProgramSize)
	}
	if m.Mem.Get(0) != 0x02010005 || m.Mem.Get(1) != 0x01000000 {
		t.Errorf("memory image wrong: 0x%08X 0x%08X",
			uint32(m.Mem.Get(0)), uint32(m.Mem.Get(1)))
	}
}

func TestLoaderSyntaxErrorNamesLine(t *testing.T) {
	m := vm.New(vm.DefMemSize)
	err := m.LoadReader("prog.m86", strings.NewReader("02010005\nnot hex\n"), false)
	var f *fault.Fault
	if !kindOK(err, &f, fault.Syntax) {
		t.Fatalf("got %v, want syntax fault", err)
	}
	if !strings.Contains(f.Error(), "line 2 in prog.m86") {
		t.Errorf("diagnostic %q does not blame line 2", f.Error())
	}
}

// A whitespace-only line is not blank; it fails the hex parse.
func TestLoaderWhitespaceLineIsError(t *testing.T) {
	m := vm.New(vm.DefMemSize)
	err := m.LoadReader("prog.m86", strings.NewReader("   \n"), false)
	var f *fault.Fault
	if !kindOK(err, &f, fault.Syntax) {
		t.Fatalf("got %v, want syntax fault", err)
	}
}

// Loading the same file twice into equal memories yields identical images.
func TestLoaderDeterminism(t *testing.T) {
	text := "02010007\n03020010\n01000000\n"
	m1, _ := newMachine(t, text, "", false)
	m2, _ := newMachine(t, text, "", false)
	if m1.ProgramSize != m2.ProgramSize {
		t.Fatalf("program sizes differ: %d vs %d", m1.ProgramSize, m2.ProgramSize)
	}
	if !cpu.Eq(m1.Mem, 0, m1.MemSize, m2.Mem, 0, m2.MemSize) {
		t.Error("memory images differ")
	}
}

// Without -r a program longer than memory is a bounds fault; with it the
// memory grows by MemExtSize.
func TestLoaderExtension(t *testing.T) {
	words := make([]int32, vm.DefMemSize+1)
	for i := range words {
		words[i] = cpu.Encode(cpu.LOADI, int32(i))
	}
	words[len(words)-1] = cpu.Encode(cpu.HALT, 0)
	text := hexProgram(words...)

	m := vm.New(vm.DefMemSize)
	err := m.LoadReader("prog.m86", strings.NewReader(text), false)
	var f *fault.Fault
	if !kindOK(err, &f, fault.MemoryBounds) {
		t.Fatalf("got %v, want memory-bounds fault", err)
	}

	m = vm.New(vm.DefMemSize)
	if err := m.LoadReader("prog.m86", strings.NewReader(text), true); err != nil {
		t.Fatalf("resizing load: %v", err)
	}
	if m.MemSize != vm.DefMemSize+vm.MemExtSize {
		t.Errorf("MemSize = %d, want %d", m.MemSize, vm.DefMemSize+vm.MemExtSize)
	}
	if m.ProgramSize != uint32(len(words)) {
		t.Errorf("ProgramSize = %d, want %d", m.ProgramSize, len(words))
	}
	// Extended cells beyond the program stay zeroed.
	for i := m.ProgramSize; i < m.MemSize; i++ {
		if m.Mem.Get(i) != vm.InitMemVal {
			t.Fatalf("extended cell %d = %d, want %d", i, m.Mem.Get(i), vm.InitMemVal)
		}
	}
}

func TestLoaderMissingFile(t *testing.T) {
	m := vm.New(vm.DefMemSize)
	err := m.Load("no_such_file.m86", false)
	var f *fault.Fault
	if !kindOK(err, &f, fault.FileRead) {
		t.Fatalf("got %v, want file-read fault", err)
	}
	if !strings.Contains(f.Error(), "no_such_file.m86") {
		t.Errorf("diagnostic %q does not name the file", f.Error())
	}
}

func kindOK(err error, f **fault.Fault, kind fault.Kind) bool {
	var got *fault.Fault
	if !errors.As(err, &got) || got.Kind != kind {
		return false
	}
	*f = got
	return true
}
