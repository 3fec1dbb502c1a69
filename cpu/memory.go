package cpu

import (
	"fmt"
	"io"
)

// Memory is a linear sequence of 32-bit words. The zero value is an
// absent memory; Allocate returns a usable one. Bounds are the caller's
// responsibility and are checked at call sites, not here.
type Memory []int32

// Allocate returns a zero-initialized memory of size words.
func Allocate(size uint32) Memory {
	return make(Memory, size)
}

// AllocateInit returns a memory with every cell seeded to init.
func AllocateInit(size uint32, init int32) Memory {
	m := Allocate(size)
	m.Fill(0, size, init)
	return m
}

// Get returns the word at pos.
func (m Memory) Get(pos uint32) int32 {
	return m[pos]
}

// Set writes the word at pos.
func (m Memory) Set(pos uint32, v int32) {
	m[pos] = v
}

// Fill sets every cell in [start, end) to v.
func (m Memory) Fill(start, end uint32, v int32) {
	for i := start; i < end; i++ {
		m[i] = v
	}
}

// Clear zeroes every cell in [start, end).
func (m Memory) Clear(start, end uint32) {
	m.Fill(start, end, 0)
}

// CopyRange copies src[s1, e1) into m[s2, e2) sequentially, stopping at
// whichever range ends first. Cells outside the shorter range are untouched.
func (m Memory) CopyRange(src Memory, s1, e1, s2, e2 uint32) {
	for i, j := s2, s1; i < e2 && j < e1; i, j = i+1, j+1 {
		m[i] = src[j]
	}
}

// Extend returns a memory grown by delta cells, with the first size cells
// copied over. The old handle must not be used afterwards.
func (m Memory) Extend(size, delta uint32) Memory {
	grown := Allocate(size + delta)
	grown.CopyRange(m, 0, size, 0, size)
	return grown
}

// ExtendInit is Extend with the new cells seeded to init.
func (m Memory) ExtendInit(size, delta uint32, init int32) Memory {
	grown := m.Extend(size, delta)
	grown.Fill(size, size+delta, init)
	return grown
}

// Eq reports whether m1[s1, e1) and m2[s2, e2) are the same length and
// element-wise equal. Two absent memories are equal; one absent is not.
func Eq(m1 Memory, s1, e1 uint32, m2 Memory, s2, e2 uint32) bool {
	switch {
	case m1 == nil && m2 == nil:
		return true
	case m1 == nil || m2 == nil:
		return false
	case e1-s1 != e2-s2:
		return false
	}
	for i, j := s2, s1; i < e2 && j < e1; i, j = i+1, j+1 {
		if m1[j] != m2[i] {
			return false
		}
	}
	return true
}

// Search scans [start, end) for key and returns its index, or -1.
func (m Memory) Search(start, end uint32, key int32) int {
	for i := start; i < end; i++ {
		if m[i] == key {
			return int(i)
		}
	}
	return -1
}

// SearchSorted binary-searches the ascending range [low, high] for key and
// returns its index, or -1. Indices are signed so a key below the first
// cell terminates instead of wrapping.
func (m Memory) SearchSorted(low, high int, key int32) int {
	if low > high {
		return -1
	}
	mid := (low + high) / 2
	switch {
	case m[mid] == key:
		return mid
	case m[mid] < key:
		return m.SearchSorted(mid+1, high, key)
	default:
		return m.SearchSorted(low, mid-1, key)
	}
}

// Print writes one line per cell in [start, end) as "address: value".
// In a run of zero cells only the first cell is printed; the zeros after
// it collapse into a single ellipsis line. The last cell of the range is
// always printed, so a run that reaches end also shows its final cell.
func (m Memory) Print(start, end uint32, w io.Writer) {
	i := start
	skip := 0
	for i < end {
		if m[i] == 0 {
			skip++
			if skip > 1 && i < end-1 {
				i++
				if skip == 2 {
					fmt.Fprintf(w, ". . . . .\n")
				}
				continue
			}
		} else {
			skip = 0
		}
		fmt.Fprintf(w, "0x%08X:\t0x%08X\n", i, uint32(m[i]))
		i++
	}
}
