// internal/solve/game.go
//
// Per-game solver state and its state machine.
//
//	AwaitingGuess --Next--> AwaitingFeedback --Observe--> Solved
//	      ^                        |
//	      +------ (narrowed) ------+--> Exhausted (no candidate left)
//
// A Game owns its candidate set, seen-symbol set, turn counter and RNG, so any
// number of games can run side by side.

package solve

import (
	"errors"
	"fmt"
	"math/rand/v2"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/nerdle-solver/internal/candidates"
	"github.com/robalobadob/nerdle-solver/internal/corpus"
	"github.com/robalobadob/nerdle-solver/internal/equation"
	"github.com/robalobadob/nerdle-solver/internal/feedback"
	"github.com/robalobadob/nerdle-solver/internal/selector"
)

// State is the phase of a game.
type State int

const (
	AwaitingGuess State = iota
	AwaitingFeedback
	Solved
	Exhausted
)

func (s State) String() string {
	switch s {
	case AwaitingGuess:
		return "awaiting_guess"
	case AwaitingFeedback:
		return "awaiting_feedback"
	case Solved:
		return "solved"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool { return s == Solved || s == Exhausted }

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

var (
	// ErrWrongState is returned when an operation does not fit the current state.
	ErrWrongState = errors.New("solve: operation not valid in current state")

	// ErrExhausted is returned by Next once no candidate remains.
	ErrExhausted = errors.New("solve: no candidates remain")
)

// Round is one guess and the feedback it received.
type Round struct {
	Turn      int               `json:"turn"`
	Guess     equation.Equation `json:"guess"`
	Feedback  feedback.Pattern  `json:"feedback"`
	Remaining int               `json:"remaining"` // candidates after filtering
}

// Game is the context object for one solve.
type Game struct {
	sel   *selector.Selector
	rng   *rand.Rand
	state State
	turn  int
	guess equation.Equation
	cands *candidates.Set
	seen  mapset.Set[byte]
	hist  []Round
}

// NewGame starts a game over the whole corpus. Games built with the same seed
// make the same random choices.
func NewGame(c *corpus.Corpus, sel *selector.Selector, seed uint64) *Game {
	return &Game{
		sel:   sel,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		state: AwaitingGuess,
		turn:  1,
		cands: candidates.All(c),
		seen:  mapset.NewSet[byte](),
	}
}

// State returns the current phase.
func (g *Game) State() State { return g.state }

// Turn returns the 1-based turn number.
func (g *Game) Turn() int { return g.turn }

// Guess returns the guess awaiting feedback, or the winning guess once solved.
func (g *Game) Guess() equation.Equation { return g.guess }

// Candidates returns the current candidate set.
func (g *Game) Candidates() *candidates.Set { return g.cands }

// Seen returns a copy of the symbols probed so far.
func (g *Game) Seen() mapset.Set[byte] { return g.seen.Clone() }

// History returns the completed rounds.
func (g *Game) History() []Round { return append([]Round(nil), g.hist...) }

// Length returns the equation length feedback must have.
func (g *Game) Length() int { return g.cands.Corpus().EquationLen() }

// Suggestions ranks the current candidates with the game's selector.
func (g *Game) Suggestions(limit int) []selector.Scored {
	return g.sel.Rank(g.cands, g.seen, limit)
}

// Next asks the selector for a guess and moves to AwaitingFeedback.
// With no candidate left the game becomes Exhausted and ErrExhausted is returned;
// the selector is never called on an empty set.
func (g *Game) Next() (equation.Equation, error) {
	if g.state != AwaitingGuess {
		return "", fmt.Errorf("next guess while %s: %w", g.state, ErrWrongState)
	}
	if g.cands.Empty() {
		g.state = Exhausted
		return "", ErrExhausted
	}
	guess, err := g.sel.Select(g.cands, g.turn, g.seen, g.rng)
	if err != nil {
		return "", fmt.Errorf("select turn %d: %w", g.turn, err)
	}
	g.seen = g.seen.Union(guess.Symbols())
	g.guess = guess
	g.state = AwaitingFeedback
	log.Debug().Int("turn", g.turn).Str("guess", string(guess)).Int("candidates", g.cands.Len()).Msg("guess selected")
	return guess, nil
}

// Observe applies feedback for the pending guess. A pattern of the wrong length
// is rejected with feedback.ErrInvalidPattern and leaves the game unchanged.
func (g *Game) Observe(p feedback.Pattern) (State, error) {
	if g.state != AwaitingFeedback {
		return g.state, fmt.Errorf("feedback while %s: %w", g.state, ErrWrongState)
	}
	if len(p) != len(g.guess) {
		return g.state, fmt.Errorf("%w: want %d marks, got %d", feedback.ErrInvalidPattern, len(g.guess), len(p))
	}

	if p.Solved() {
		g.hist = append(g.hist, Round{Turn: g.turn, Guess: g.guess, Feedback: p, Remaining: 1})
		g.state = Solved
		return g.state, nil
	}

	g.cands = candidates.Filter(g.cands, g.guess, p)
	g.hist = append(g.hist, Round{Turn: g.turn, Guess: g.guess, Feedback: p, Remaining: g.cands.Len()})
	g.turn++
	g.state = AwaitingGuess
	if g.cands.Empty() {
		g.state = Exhausted
	}
	log.Debug().Int("turn", g.turn).Str("feedback", p.String()).Int("candidates", g.cands.Len()).Str("state", g.state.String()).Msg("feedback applied")
	return g.state, nil
}
