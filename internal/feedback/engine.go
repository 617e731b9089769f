// internal/feedback/engine.go
//
// Feedback engine: scores a guess against a secret exactly the way the puzzle does.
//
// Pass 1:
//   - Mark exact matches, claiming the secret position and resolving the guess position.
//
// Pass 2:
//   - For each unresolved guess position, scan the secret left to right for the
//     first unclaimed position holding the same character. If found, mark Misplaced
//     and claim it; otherwise the position stays Absent.
//
// This keeps exact+misplaced credits for any character within its multiplicity in
// the secret, so overused duplicates fall back to Absent.

package feedback

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/nerdle-solver/internal/equation"
)

var (
	// ErrLengthMismatch is returned when secret and guess lengths differ.
	ErrLengthMismatch = errors.New("feedback: secret and guess lengths differ")

	// ErrInvalidPattern is returned for malformed textual feedback.
	ErrInvalidPattern = errors.New("feedback: invalid pattern")
)

// Score computes the feedback pattern the puzzle shows for guess when the
// answer is secret.
func Score(secret, guess equation.Equation) (Pattern, error) {
	if len(secret) != len(guess) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(secret), len(guess))
	}
	out := make(Pattern, len(guess))
	scoreInto(out, secret, guess)
	return out, nil
}

// MustScore is Score for callers that already guarantee equal lengths.
// A mismatch is a programming error and panics.
func MustScore(secret, guess equation.Equation) Pattern {
	p, err := Score(secret, guess)
	if err != nil {
		panic(err)
	}
	return p
}

// Scorer scores many secrets against the same guess without allocating.
// It is not safe for concurrent use.
type Scorer struct {
	guess equation.Equation
	buf   Pattern
}

// NewScorer prepares a Scorer for guess.
func NewScorer(guess equation.Equation) *Scorer {
	return &Scorer{guess: guess, buf: make(Pattern, len(guess))}
}

// Matches reports whether scoring the guess against secret yields want.
// Secrets of a different length never match.
func (s *Scorer) Matches(secret equation.Equation, want Pattern) bool {
	if len(secret) != len(s.guess) || len(want) != len(s.guess) {
		return false
	}
	scoreInto(s.buf, secret, s.guess)
	return s.buf.Equal(want)
}

// scoreInto writes the marks for guess against secret into dst.
// len(dst) == len(secret) == len(guess) is assumed.
func scoreInto(dst Pattern, secret, guess equation.Equation) {
	n := len(guess)

	var claimedBuf, resolvedBuf [16]bool
	var claimed, resolved []bool
	if n <= len(claimedBuf) {
		claimed, resolved = claimedBuf[:n], resolvedBuf[:n]
	} else {
		claimed, resolved = make([]bool, n), make([]bool, n)
	}

	// First pass: exact matches.
	for i := 0; i < n; i++ {
		dst[i] = Absent
		if guess[i] == secret[i] {
			dst[i] = Exact
			claimed[i] = true
			resolved[i] = true
		}
	}

	// Second pass: first unclaimed copy, scanning the secret left to right.
	for i := 0; i < n; i++ {
		if resolved[i] {
			continue
		}
		for j := 0; j < n; j++ {
			if !claimed[j] && secret[j] == guess[i] {
				dst[i] = Misplaced
				claimed[j] = true
				resolved[i] = true
				break
			}
		}
	}
}

// ParsePattern reads G/P/B feedback (case-insensitive, surrounding whitespace
// ignored). When n >= 0 the pattern must have exactly n positions.
func ParsePattern(s string, n int) (Pattern, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if n >= 0 && len(s) != n {
		return nil, fmt.Errorf("%w: want %d letters of G, P or B, got %d", ErrInvalidPattern, n, len(s))
	}
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPattern)
	}
	out := make(Pattern, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case LetterExact:
			out[i] = Exact
		case LetterMisplaced:
			out[i] = Misplaced
		case LetterAbsent:
			out[i] = Absent
		default:
			return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidPattern, s[i], i+1)
		}
	}
	return out, nil
}
