// internal/feedback/types.go
//
// Core type definitions for puzzle feedback.
// Defines:
//   - Mark: per-position result of a guess (exact/misplaced/absent).
//   - Pattern: the ordered marks for a whole guess.

package feedback

import (
	"slices"
	"strings"
)

// Mark represents the evaluation result for a single position in a guess.
// Possible values:
//   - Exact:     character is correct and in the correct position (green).
//   - Misplaced: character exists in the secret at another unclaimed position (purple).
//   - Absent:    no unclaimed copy remains in the secret (black), which covers
//     both true absence and duplicate overuse.
type Mark uint8

const (
	Absent Mark = iota
	Misplaced
	Exact
)

// Letters used by the textual form of a pattern.
const (
	LetterExact     = 'G'
	LetterMisplaced = 'P'
	LetterAbsent    = 'B'
)

// Letter returns the G/P/B letter for m.
func (m Mark) Letter() byte {
	switch m {
	case Exact:
		return LetterExact
	case Misplaced:
		return LetterMisplaced
	default:
		return LetterAbsent
	}
}

func (m Mark) String() string {
	switch m {
	case Exact:
		return "exact"
	case Misplaced:
		return "misplaced"
	default:
		return "absent"
	}
}

// Pattern is the feedback for one guess, one Mark per position.
type Pattern []Mark

// AllExact returns the winning pattern of length n.
func AllExact(n int) Pattern {
	p := make(Pattern, n)
	for i := range p {
		p[i] = Exact
	}
	return p
}

// Solved reports whether every position is Exact. An empty pattern is not solved.
func (p Pattern) Solved() bool {
	if len(p) == 0 {
		return false
	}
	for _, m := range p {
		if m != Exact {
			return false
		}
	}
	return true
}

// Equal reports exact sequence equality.
func (p Pattern) Equal(o Pattern) bool { return slices.Equal(p, o) }

// Count returns how many positions carry m.
func (p Pattern) Count(m Mark) int {
	n := 0
	for _, x := range p {
		if x == m {
			n++
		}
	}
	return n
}

// String renders p as G/P/B letters, e.g. "BPBPBGGP".
func (p Pattern) String() string {
	var b strings.Builder
	b.Grow(len(p))
	for _, m := range p {
		b.WriteByte(m.Letter())
	}
	return b.String()
}

// MarshalText lets patterns travel as "GPB" strings in JSON.
func (p Pattern) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText parses a G/P/B string of any length.
func (p *Pattern) UnmarshalText(b []byte) error {
	q, err := ParsePattern(string(b), -1)
	if err != nil {
		return err
	}
	*p = q
	return nil
}
