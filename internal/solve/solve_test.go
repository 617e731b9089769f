package solve

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/nerdle-solver/internal/corpus"
	"github.com/robalobadob/nerdle-solver/internal/equation"
	"github.com/robalobadob/nerdle-solver/internal/feedback"
	"github.com/robalobadob/nerdle-solver/internal/selector"
)

func testCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	c, err := corpus.Default()
	require.NoError(t, err)
	return c
}

func newGame(t *testing.T, seed uint64) *Game {
	t.Helper()
	return NewGame(testCorpus(t), selector.New(selector.DefaultConfig()), seed)
}

func TestSolvedOnFirstTurn(t *testing.T) {
	g := newGame(t, 1)
	out, err := Run(context.Background(), g, SimulatedSource{Secret: "3*4+5=17"}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, Solved, out.State)
	assert.Equal(t, 1, out.Turns)
	require.Len(t, out.Rounds, 1)
	assert.Equal(t, equation.Equation("3*4+5=17"), out.Rounds[0].Guess)
	assert.Equal(t, "GGGGGGGG", out.Rounds[0].Feedback.String())
}

func TestSimulatedGamesAlwaysSolve(t *testing.T) {
	c := testCorpus(t)
	sel := selector.New(selector.DefaultConfig())
	for i, secret := range []equation.Equation{"52-14=38", "9*9-1=80", "100/5=20", "2*6+1=13"} {
		require.True(t, c.Contains(secret), secret)
		g := NewGame(c, sel, uint64(i))
		out, err := Run(context.Background(), g, SimulatedSource{Secret: secret}, 0, nil)
		require.NoError(t, err, secret)
		assert.Equal(t, Solved, out.State, secret)
		assert.Equal(t, secret, out.Rounds[len(out.Rounds)-1].Guess)
		assert.Equal(t, secret, g.Guess())
		for j := 1; j < len(out.Rounds); j++ {
			assert.LessOrEqual(t, out.Rounds[j].Remaining, out.Rounds[j-1].Remaining)
		}
	}
}

func TestStateMachine(t *testing.T) {
	g := newGame(t, 3)
	assert.Equal(t, AwaitingGuess, g.State())
	assert.Equal(t, 1, g.Turn())
	assert.Equal(t, 8, g.Length())

	_, err := g.Observe(feedback.AllExact(8))
	assert.ErrorIs(t, err, ErrWrongState)

	guess, err := g.Next()
	require.NoError(t, err)
	assert.Equal(t, selector.DefaultOpener, guess)
	assert.Equal(t, AwaitingFeedback, g.State())
	assert.True(t, g.Seen().Equal(guess.Symbols()))

	_, err = g.Next()
	assert.ErrorIs(t, err, ErrWrongState)

	// wrong length is rejected without any state change
	st, err := g.Observe(feedback.AllExact(5))
	assert.ErrorIs(t, err, feedback.ErrInvalidPattern)
	assert.Equal(t, AwaitingFeedback, st)
	assert.Equal(t, 1, g.Turn())

	p := feedback.MustScore("52-14=38", guess)
	before := g.Candidates().Len()
	st, err = g.Observe(p)
	require.NoError(t, err)
	assert.Equal(t, AwaitingGuess, st)
	assert.Equal(t, 2, g.Turn())
	assert.Less(t, g.Candidates().Len(), before)
	assert.True(t, g.Candidates().Contains("52-14=38"))
	require.Len(t, g.History(), 1)
	assert.Equal(t, g.Candidates().Len(), g.History()[0].Remaining)
}

type constSource struct{ p feedback.Pattern }

func (c constSource) Feedback(context.Context, int, equation.Equation) (feedback.Pattern, error) {
	return c.p, nil
}

func TestInconsistentFeedbackExhausts(t *testing.T) {
	g := newGame(t, 1)
	allAbsent, err := feedback.ParsePattern("BBBBBBBB", 8)
	require.NoError(t, err)

	out, err := Run(context.Background(), g, constSource{allAbsent}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, Exhausted, out.State)
	assert.Equal(t, 1, out.Turns)
	assert.True(t, g.Candidates().Empty())

	_, err = g.Next()
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestTurnLimit(t *testing.T) {
	g := newGame(t, 1)
	out, err := Run(context.Background(), g, SimulatedSource{Secret: "52-14=38"}, 1, nil)
	assert.ErrorIs(t, err, ErrTurnLimit)
	assert.Equal(t, AwaitingGuess, out.State)
	assert.Equal(t, 1, out.Turns)
}

func TestObserverSeesEveryRound(t *testing.T) {
	g := newGame(t, 8)
	var seen []Round
	out, err := Run(context.Background(), g, SimulatedSource{Secret: "52-14=38"}, 0, func(r Round, _ State) {
		seen = append(seen, r)
	})
	require.NoError(t, err)
	assert.Equal(t, out.Rounds, seen)
}

func TestPromptSourceRepromptsOnBadInput(t *testing.T) {
	in := strings.NewReader("hello\nGGG\n  ggggpppp \n")
	var out bytes.Buffer
	src := NewPromptSource(in, &out, 8)

	p, err := src.Feedback(context.Background(), 1, "3*4+5=17")
	require.NoError(t, err)
	assert.Equal(t, "GGGGPPPP", p.String())
	assert.Equal(t, 2, strings.Count(out.String(), "Invalid feedback"))
	assert.Contains(t, out.String(), "Guess 1: 3*4+5=17")

	_, err = src.Feedback(context.Background(), 2, "3*4+5=17")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPromptAndSimulatedAgree(t *testing.T) {
	c := testCorpus(t)
	sel := selector.New(selector.DefaultConfig())
	secret := equation.Equation("52-14=38")

	sim, err := Run(context.Background(), NewGame(c, sel, 77), SimulatedSource{Secret: secret}, 0, nil)
	require.NoError(t, err)

	var script strings.Builder
	for _, r := range sim.Rounds {
		script.WriteString(r.Feedback.String() + "\n")
	}
	prompt := NewPromptSource(strings.NewReader(script.String()), io.Discard, 8)
	inter, err := Run(context.Background(), NewGame(c, sel, 77), prompt, 0, nil)
	require.NoError(t, err)

	assert.Equal(t, sim, inter)
}

func TestRunStopsOnSourceError(t *testing.T) {
	g := newGame(t, 1)
	boom := errors.New("boom")
	_, err := Run(context.Background(), g, errSource{boom}, 0, nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, AwaitingFeedback, g.State())
}

type errSource struct{ err error }

func (e errSource) Feedback(context.Context, int, equation.Equation) (feedback.Pattern, error) {
	return nil, e.err
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "solved", Solved.String())
	assert.True(t, Exhausted.Terminal())
	assert.False(t, AwaitingFeedback.Terminal())
}
