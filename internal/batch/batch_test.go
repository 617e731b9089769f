package batch

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/nerdle-solver/internal/corpus"
	"github.com/robalobadob/nerdle-solver/internal/equation"
	"github.com/robalobadob/nerdle-solver/internal/selector"
)

func setup(t *testing.T) (*corpus.Corpus, *selector.Selector) {
	t.Helper()
	c, err := corpus.Default()
	require.NoError(t, err)
	return c, selector.New(selector.DefaultConfig())
}

func TestEvaluateIsReproducible(t *testing.T) {
	c, sel := setup(t)
	secrets := Sample(c, 40, 2024)

	a, err := Evaluate(context.Background(), c, sel, secrets, Options{Seed: 9, Workers: 1})
	require.NoError(t, err)
	b, err := Evaluate(context.Background(), c, sel, secrets, Options{Seed: 9, Workers: 8})
	require.NoError(t, err)

	assert.Equal(t, a.Results, b.Results)
	assert.Equal(t, a.Distribution, b.Distribution)
	assert.Equal(t, a.Average, b.Average)
	assert.Equal(t, a.Min, b.Min)
	assert.Equal(t, a.Max, b.Max)
}

func TestEvaluateSolvesEverySecret(t *testing.T) {
	c, sel := setup(t)
	secrets := Sample(c, 25, 1)
	var progress bytes.Buffer

	rep, err := Evaluate(context.Background(), c, sel, secrets, Options{Seed: 3, Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, 25, rep.Games)
	assert.Equal(t, 25, rep.Solved)
	assert.Zero(t, rep.Failures)
	assert.GreaterOrEqual(t, rep.Min, 1)
	assert.GreaterOrEqual(t, rep.Max, rep.Min)
	assert.NotEmpty(t, progress.String())

	total := 0
	for _, k := range rep.TurnCounts() {
		total += rep.Distribution[k]
	}
	assert.Equal(t, rep.Solved, total)

	for i, r := range rep.Results {
		assert.Equal(t, secrets[i], r.Secret)
		assert.Equal(t, r.Turns, len(r.Guesses))
		assert.Equal(t, r.Secret, r.Guesses[len(r.Guesses)-1])
		assert.Equal(t, selector.DefaultOpener, r.Guesses[0])
	}
}

func TestEvaluateTurnLimitCountsAsFailure(t *testing.T) {
	c, sel := setup(t)
	rep, err := Evaluate(context.Background(), c, sel, []equation.Equation{"3*4+5=17", "52-14=38"}, Options{MaxTurns: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Solved)
	assert.Equal(t, 1, rep.Failures)
	assert.Equal(t, map[int]int{1: 1}, rep.Distribution)
}

func TestSummarize(t *testing.T) {
	rep := Summarize([]GameResult{
		{Solved: true, Turns: 3},
		{Solved: true, Turns: 4},
		{Solved: true, Turns: 4},
		{Solved: false, Turns: 2},
		{Solved: true, Turns: 5},
	})
	assert.Equal(t, 5, rep.Games)
	assert.Equal(t, 4, rep.Solved)
	assert.Equal(t, 1, rep.Failures)
	assert.InDelta(t, 4.0, rep.Average, 1e-9)
	assert.Equal(t, 3, rep.Min)
	assert.Equal(t, 5, rep.Max)
	assert.Equal(t, []int{3, 4, 5}, rep.TurnCounts())
	assert.InDelta(t, 50.0, rep.Percent(4), 1e-9)

	empty := Summarize(nil)
	assert.Zero(t, empty.Average)
	assert.Zero(t, empty.Percent(3))
}

func TestSampleIsSeeded(t *testing.T) {
	c, _ := setup(t)
	assert.Equal(t, Sample(c, 10, 5), Sample(c, 10, 5))
	assert.NotEqual(t, Sample(c, 10, 5), Sample(c, 10, 6))
}

func TestMinMaxMean(t *testing.T) {
	lo, hi := minMax([]int{4, 2, 9, 3})
	assert.Equal(t, 2, lo)
	assert.Equal(t, 9, hi)
	assert.InDelta(t, 2.5, mean([]float64{1, 2, 3, 4}), 1e-9)
}
