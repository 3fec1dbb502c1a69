package assembler_test

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/humamrashid/MachArch/assembler"
	"github.com/humamrashid/MachArch/dataset"
	"github.com/humamrashid/MachArch/fault"
	"github.com/humamrashid/MachArch/vm"
)

func loadDefault(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Load("../micro86_data.m86db")
	if err != nil {
		t.Fatalf("loading the shipped data file: %v", err)
	}
	return ds
}

func assemble(t *testing.T, src string) []int32 {
	t.Helper()
	asm := assembler.New(loadDefault(t))
	words, err := asm.Assemble("test.m86s", src)
	if err != nil {
		t.Fatalf("assembling:\n%s\nerror: %v", src, err)
	}
	return words
}

func TestAssembleBasic(t *testing.T) {
	words := assemble(t, "LOADI 5\nADDI 3\nHALT\n")
	want := []int32{0x02010005, 0x04010003, 0x01000000}
	if len(words) != len(want) {
		t.Fatalf("got %d words, want %d", len(words), len(want))
	}
	for i, w := range want {
		if words[i] != w {
			t.Errorf("word %d = 0x%08X, want 0x%08X", i, uint32(words[i]), uint32(w))
		}
	}
}

func TestAssembleCommentsAndCase(t *testing.T) {
	src := "# leading comment\n" +
		"  loadi 5   # lower case works\n" +
		"\thalt\n"
	words := assemble(t, src)
	want := []int32{0x02010005, 0x01000000}
	if len(words) != 2 || words[0] != want[0] || words[1] != want[1] {
		t.Errorf("words = %#v, want %#v", words, want)
	}
}

// VAR cells land after the code and memory-form operands resolve to them.
func TestAssembleVarsAfterCode(t *testing.T) {
	src := `
        IN
        STORE   X
        IN
        ADD     X
        DIVI    2
        OUT
        HALT
        VAR     X
`
	words := assemble(t, src)
	want := []int32{0x11000000, 0x03020007, 0x11000000, 0x04020007,
		0x07010002, 0x12000000, 0x01000000, 0}
	if len(words) != len(want) {
		t.Fatalf("got %d words, want %d", len(words), len(want))
	}
	for i, w := range want {
		if words[i] != w {
			t.Errorf("word %d = 0x%08X, want 0x%08X", i, uint32(words[i]), uint32(w))
		}
	}
}

func TestAssembleVarInit(t *testing.T) {
	words := assemble(t, "LOAD X\nHALT\nVAR X 7\n")
	want := []int32{0x02020002, 0x01000000, 7}
	for i, w := range want {
		if words[i] != w {
			t.Errorf("word %d = 0x%08X, want 0x%08X", i, uint32(words[i]), uint32(w))
		}
	}
}

// An identifier under an immediate instruction resolves to its address.
func TestAssembleAddressOf(t *testing.T) {
	words := assemble(t, "LOADI X\nHALT\nVAR X 7\n")
	if words[0] != 0x02010002 {
		t.Errorf("word 0 = 0x%08X, want 0x02010002", uint32(words[0]))
	}
}

func TestAssembleForwardLabel(t *testing.T) {
	src := "JMPI end\nHALT\nend: LOADI 1\nHALT\n"
	words := assemble(t, src)
	if words[0] != 0x0A010002 {
		t.Errorf("word 0 = 0x%08X, want 0x0A010002", uint32(words[0]))
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name, src string
		kind      fault.Kind
	}{
		{"unknown mnemonic", "FROB 1\n", fault.InvalidMnemonic},
		{"operand on bare instruction", "HALT 1\n", fault.Syntax},
		{"missing operand", "LOAD\n", fault.Syntax},
		{"reserved var name", "VAR HALT\n", fault.Syntax},
		{"reserved label", "loadi: LOADI 1\n", fault.Syntax},
		{"duplicate var", "VAR X\nVAR X\nHALT\n", fault.Syntax},
		{"duplicate label", "a: HALT\na: HALT\n", fault.Syntax},
		{"operand too large", "LOADI 0x10000\nHALT\n", fault.Syntax},
		{"negative operand", "LOADI -1\nHALT\n", fault.Syntax},
		{"undefined symbol", "JMPI nowhere\nHALT\n", fault.Syntax},
	}
	asm := func() *assembler.Assembler { return assembler.New(loadDefault(t)) }
	for _, tt := range tests {
		_, err := asm().Assemble(tt.name, tt.src)
		var f *fault.Fault
		if !errors.As(err, &f) || f.Kind != tt.kind {
			t.Errorf("%s: got %v, want fault kind %d", tt.name, err, tt.kind)
		}
	}
}

func TestListingLoads(t *testing.T) {
	ds := loadDefault(t)
	words := assemble(t, "LOADI 5\nADDI 3\nHALT\n")
	text := assembler.Listing(ds, words)
	if !strings.Contains(text, "02010005   # LOADI 0x0005\n") {
		t.Errorf("listing %q missing annotated word", text)
	}
	m := vm.New(vm.DefMemSize)
	if err := m.LoadReader("listing", strings.NewReader(text), false); err != nil {
		t.Fatalf("loading listing: %v", err)
	}
	if m.ProgramSize != uint32(len(words)) {
		t.Fatalf("ProgramSize = %d, want %d", m.ProgramSize, len(words))
	}
}

// Assemble, load and run a whole program: factorial of 5.
func TestAssembleAndRunFactorial(t *testing.T) {
	src := `
        LOADI   5
        STORE   N
        LOADI   1
        STORE   R
loop:   LOAD    N
        CMPI    1
        JLEI    done
        LOAD    R
        MUL     N
        STORE   R
        LOAD    N
        SUBI    1
        STORE   N
        JMPI    loop
done:   LOAD    R
        HALT
        VAR     N
        VAR     R
`
	ds := loadDefault(t)
	words := assemble(t, src)
	text := assembler.Listing(ds, words)

	m := vm.New(vm.DefMemSize)
	m.Out = &bytes.Buffer{}
	m.In = bufio.NewReader(strings.NewReader(""))
	m.DS = ds
	if err := m.LoadReader("factorial", strings.NewReader(text), false); err != nil {
		t.Fatalf("loading: %v", err)
	}
	if err := m.Run("factorial"); err != nil {
		t.Fatalf("running: %v", err)
	}
	if m.Proc.Acc != 120 {
		t.Errorf("acc = %d, want 120", m.Proc.Acc)
	}
}
