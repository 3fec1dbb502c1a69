package cpu_test

import (
	"math"
	"testing"

	"github.com/humamrashid/MachArch/cpu"
)

// After UpdateFlags exactly one of the three defined states holds;
// zero and sign are never set together.
func TestUpdateFlagsTotality(t *testing.T) {
	tests := []struct {
		v          int32
		zero, sign uint32
	}{
		{0, 1, 0},
		{1, 0, 0},
		{-1, 0, 1},
		{42, 0, 0},
		{-42, 0, 1},
		{math.MaxInt32, 0, 0},
		{math.MinInt32, 0, 1},
	}
	for _, tt := range tests {
		p := cpu.NewProcessor()
		p.UpdateFlags(tt.v)
		if p.Zero() != tt.zero || p.Sign() != tt.sign {
			t.Errorf("UpdateFlags(%d): zero=%d sign=%d, want zero=%d sign=%d",
				tt.v, p.Zero(), p.Sign(), tt.zero, tt.sign)
		}
		if p.Zero() == 1 && p.Sign() == 1 {
			t.Errorf("UpdateFlags(%d): zero and sign both set", tt.v)
		}
	}
}

// Setting one flag bit must not disturb the other.
func TestFlagBitIndependence(t *testing.T) {
	p := cpu.NewProcessor()
	p.SetZero(true)
	p.SetSign(true)
	if p.Zero() != 1 || p.Sign() != 1 {
		t.Fatalf("both bits set: zero=%d sign=%d", p.Zero(), p.Sign())
	}
	p.SetZero(false)
	if p.Zero() != 0 || p.Sign() != 1 {
		t.Fatalf("clearing zero touched sign: zero=%d sign=%d", p.Zero(), p.Sign())
	}
	p.SetSign(false)
	if p.Zero() != 0 || p.Sign() != 0 {
		t.Fatalf("clearing sign touched zero: zero=%d sign=%d", p.Zero(), p.Sign())
	}
}

// Stray high bits in the flag register must not leak into the accessors.
func TestFlagAccessorsMask(t *testing.T) {
	p := cpu.NewProcessor()
	p.Flags = 0xFFFFFFFC
	if p.Zero() != 0 || p.Sign() != 0 {
		t.Errorf("stray bits leaked: zero=%d sign=%d", p.Zero(), p.Sign())
	}
	p.Flags = 0xFFFFFFFF
	if p.Zero() != 1 || p.Sign() != 1 {
		t.Errorf("defined bits lost: zero=%d sign=%d", p.Zero(), p.Sign())
	}
}

func TestNewProcessorCleared(t *testing.T) {
	p := cpu.NewProcessor()
	if p.Acc != 0 || p.IR != 0 || p.IP != 0 || p.Flags != 0 {
		t.Errorf("registers not cleared: %+v", p)
	}
}

func TestProcessorString(t *testing.T) {
	p := cpu.NewProcessor()
	p.Acc = -1
	p.IP = 3
	p.IR = 0x01000000
	p.Flags = 2
	want := "Registers: acc: 0xFFFFFFFF ip: 0x00000003 flags: 0x00000002 (ir: 0x01000000)"
	if got := p.String(); got != want {
		t.Errorf("snapshot:\ngot  %q\nwant %q", got, want)
	}
}
