package equation

import (
	"math/bits"

	mapset "github.com/deckarep/golang-set/v2"
)

// SymbolMask is a fixed 256-bit set of byte values.
// The selector scores thousands of candidates per turn, so it compares masks
// instead of allocating a set per candidate.
type SymbolMask [4]uint64

// MaskOf converts a symbol set into a mask. A nil set yields the empty mask.
func MaskOf(s mapset.Set[byte]) SymbolMask {
	var m SymbolMask
	if s == nil {
		return m
	}
	s.Each(func(c byte) bool {
		m.Add(c)
		return false
	})
	return m
}

// Add inserts c.
func (m *SymbolMask) Add(c byte) { m[c>>6] |= 1 << (c & 63) }

// Has reports whether c is in m.
func (m SymbolMask) Has(c byte) bool { return m[c>>6]&(1<<(c&63)) != 0 }

// Count returns the number of symbols in m.
func (m SymbolMask) Count() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) + bits.OnesCount64(m[3])
}

// Without returns the symbols of m that are not in o.
func (m SymbolMask) Without(o SymbolMask) SymbolMask {
	return SymbolMask{m[0] &^ o[0], m[1] &^ o[1], m[2] &^ o[2], m[3] &^ o[3]}
}
