package cpu

import "fmt"

// Processor holds the four Micro86 registers.
type Processor struct {
	// Acc is the accumulator: result of the last arithmetic, load or input.
	Acc int32
	// IR is the raw encoded instruction last fetched.
	IR uint32
	// IP is the address of the next word to fetch.
	IP uint32
	// Flags is the flag register. Only the zero and sign bits are defined;
	// anything else in it must never influence jump predicates, so the
	// accessors mask.
	Flags uint32
}

// Flag register bits.
const (
	// ZeroBit is set when the last comparison came out equal.
	ZeroBit = 1 << 0
	// SignBit is set when the last comparison came out negative.
	SignBit = 1 << 1
)

// NewProcessor returns a processor with all registers cleared.
func NewProcessor() *Processor {
	return &Processor{}
}

// Zero returns 1 if the zero bit is set, otherwise 0.
func (p *Processor) Zero() uint32 {
	return p.Flags & ZeroBit
}

// Sign returns 1 if the sign bit is set, otherwise 0.
func (p *Processor) Sign() uint32 {
	return (p.Flags & SignBit) >> 1
}

// SetZero sets or clears the zero bit without disturbing the sign bit.
func (p *Processor) SetZero(on bool) {
	if on {
		p.Flags |= ZeroBit
	} else {
		p.Flags &^= ZeroBit
	}
}

// SetSign sets or clears the sign bit without disturbing the zero bit.
func (p *Processor) SetSign(on bool) {
	if on {
		p.Flags |= SignBit
	} else {
		p.Flags &^= SignBit
	}
}

// UpdateFlags sets the zero and sign bits from a comparison result.
// Only CMP and CMPI go through here; arithmetic leaves the flags alone.
func (p *Processor) UpdateFlags(v int32) {
	switch {
	case v == 0:
		p.SetZero(true)
		p.SetSign(false)
	case v < 0:
		p.SetSign(true)
		p.SetZero(false)
	default:
		p.SetZero(false)
		p.SetSign(false)
	}
}

// String renders the register snapshot used by the trace and the
// post-mortem dump.
func (p *Processor) String() string {
	return fmt.Sprintf("Registers: acc: 0x%08X ip: 0x%08X flags: 0x%08X (ir: 0x%08X)",
		uint32(p.Acc), p.IP, p.Flags, p.IR)
}
