package candidates

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/robalobadob/nerdle-solver/internal/equation"
	"github.com/robalobadob/nerdle-solver/internal/feedback"
)

// Filter returns the candidates that would have produced observed had they been
// the secret for guess. The input set is left untouched.
//
// An empty result is meaningful: no candidate explains the feedback, which means
// the feedback was inconsistent. A guess of the wrong length keeps nothing.
func Filter(s *Set, guess equation.Equation, observed feedback.Pattern) *Set {
	out := bitset.New(s.members.Len())
	sc := feedback.NewScorer(guess)
	for i, ok := s.members.NextSet(0); ok; i, ok = s.members.NextSet(i + 1) {
		if sc.Matches(s.src.At(int(i)), observed) {
			out.Set(i)
		}
	}
	return &Set{src: s.src, members: out}
}
