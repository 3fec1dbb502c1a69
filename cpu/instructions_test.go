package cpu_test

import (
	"testing"

	"github.com/humamrashid/MachArch/cpu"
)

// Encode/decode must round-trip for every representable pair.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []int32{0, 1, 2, 0x00FF, 0x0100, 0x0201, 0x1200, 0x7FFF, 0x8000, 0xABCD, 0xFFFE, 0xFFFF}
	for _, opcode := range values {
		for _, operand := range values {
			word := cpu.Encode(opcode, operand)
			in := cpu.Decode(word)
			if in.Opcode != opcode || in.Operand != operand {
				t.Fatalf("round trip (0x%04X, 0x%04X) -> 0x%08X -> (0x%04X, 0x%04X)",
					opcode, operand, uint32(word), in.Opcode, in.Operand)
			}
		}
	}
}

// Re-encoding a decoded word must reproduce the word.
func TestDecodeEncodeRoundTrip(t *testing.T) {
	words := []int32{0, 1, 0x01000000, 0x02010005, 0x1200FFFF, 0x7FFFFFFF, -1, -0x80000000}
	for _, word := range words {
		in := cpu.Decode(word)
		if got := cpu.Encode(in.Opcode, in.Operand); got != word {
			t.Errorf("0x%08X decoded to (0x%04X, 0x%04X), re-encoded to 0x%08X",
				uint32(word), in.Opcode, in.Operand, uint32(got))
		}
	}
}

func TestIsJump(t *testing.T) {
	jumps := []int32{cpu.JMPI, cpu.JEI, cpu.JNEI, cpu.JLI, cpu.JLEI, cpu.JGI, cpu.JGEI}
	for _, opcode := range jumps {
		if !cpu.IsJump(opcode) {
			t.Errorf("0x%04X should be a jump", opcode)
		}
	}
	others := []int32{cpu.HALT, cpu.LOAD, cpu.LOADI, cpu.STORE, cpu.ADDI, cpu.CMPI, cpu.IN, cpu.OUT, 0, 0x7777}
	for _, opcode := range others {
		if cpu.IsJump(opcode) {
			t.Errorf("0x%04X should not be a jump", opcode)
		}
	}
}
