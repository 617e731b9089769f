// Package candidates holds the equations still consistent with the feedback seen
// so far and narrows them after each guess.
package candidates

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/robalobadob/nerdle-solver/internal/corpus"
	"github.com/robalobadob/nerdle-solver/internal/equation"
)

// Set is a subset of a corpus, stored as a bitset over corpus indices.
// Iteration always follows corpus order, which keeps seeded choices reproducible.
// A Set is never mutated after construction.
type Set struct {
	src     *corpus.Corpus
	members *bitset.BitSet
}

// All returns the full corpus as a candidate set.
func All(c *corpus.Corpus) *Set {
	b := bitset.New(uint(c.Len()))
	for i := 0; i < c.Len(); i++ {
		b.Set(uint(i))
	}
	return &Set{src: c, members: b}
}

// Of returns the set of the given equations; equations outside the corpus are ignored.
func Of(c *corpus.Corpus, eqs ...equation.Equation) *Set {
	b := bitset.New(uint(c.Len()))
	for _, e := range eqs {
		if i, ok := c.Index(e); ok {
			b.Set(uint(i))
		}
	}
	return &Set{src: c, members: b}
}

// Corpus returns the corpus the set draws from.
func (s *Set) Corpus() *corpus.Corpus { return s.src }

// Len returns the number of candidates.
func (s *Set) Len() int { return int(s.members.Count()) }

// Empty reports whether no candidate remains.
func (s *Set) Empty() bool { return s.members.None() }

// Contains reports whether e is a candidate.
func (s *Set) Contains(e equation.Equation) bool {
	i, ok := s.src.Index(e)
	return ok && s.members.Test(uint(i))
}

// Each calls fn for every candidate in corpus order until fn returns false.
func (s *Set) Each(fn func(equation.Equation) bool) {
	for i, ok := s.members.NextSet(0); ok; i, ok = s.members.NextSet(i + 1) {
		if !fn(s.src.At(int(i))) {
			return
		}
	}
}

// Equations returns the candidates in corpus order.
func (s *Set) Equations() []equation.Equation {
	out := make([]equation.Equation, 0, s.Len())
	s.Each(func(e equation.Equation) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Equal reports whether both sets hold the same candidates.
func (s *Set) Equal(o *Set) bool {
	return s.src == o.src && s.members.Equal(o.members)
}
