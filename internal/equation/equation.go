// internal/equation/equation.go
//
// Value types shared by every solver component.
// Defines:
//   - Equation: an immutable fixed-length puzzle string ("3*4+5=17").
//   - ShapeKey: the structural signature of an equation (digits abstracted away).
//   - Symbol sets and masks used by the guess heuristic.
//
// Equations are plain strings; all comparisons are exact byte equality.

package equation

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Wildcard replaces every digit in a ShapeKey.
const Wildcard = 'D'

// Operators is the operator alphabet of the puzzle, '=' included.
const Operators = "+-*/="

// Equation is a single puzzle string. Its length is fixed per corpus.
type Equation string

// ShapeKey is an Equation with each digit replaced by Wildcard.
// Two equations with equal keys have operators and '=' in identical positions.
type ShapeKey string

// Len returns the number of characters in e.
func (e Equation) Len() int { return len(e) }

// String implements fmt.Stringer.
func (e Equation) String() string { return string(e) }

// Shape returns the structural signature of e.
func (e Equation) Shape() ShapeKey { return ShapeOf(string(e)) }

// Symbols returns the distinct characters of e as a set.
func (e Equation) Symbols() mapset.Set[byte] {
	s := mapset.NewSet[byte]()
	for i := 0; i < len(e); i++ {
		s.Add(e[i])
	}
	return s
}

// Mask returns the distinct characters of e as a SymbolMask.
func (e Equation) Mask() SymbolMask {
	var m SymbolMask
	for i := 0; i < len(e); i++ {
		m.Add(e[i])
	}
	return m
}

// ShapeOf derives the shape key of any string. Digits become Wildcard,
// every other byte is kept. The key always has the same length as s.
//
//	"12+3=15" -> "DD+D=DD"
//	"9*8=72"  -> "D*D=DD"
func ShapeOf(s string) ShapeKey {
	b := []byte(s)
	for i, c := range b {
		if isDigit(c) {
			b[i] = Wildcard
		}
	}
	return ShapeKey(b)
}

// IsOperator reports whether c belongs to the operator alphabet.
func IsOperator(c byte) bool {
	for i := 0; i < len(Operators); i++ {
		if Operators[i] == c {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
