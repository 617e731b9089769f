package daily

import (
	"context"
	"time"

	"github.com/robalobadob/nerdle-solver/internal/corpus"
	"github.com/robalobadob/nerdle-solver/internal/selector"
	"github.com/robalobadob/nerdle-solver/internal/solve"
)

// Play solves the equation of the day with a simulated feedback source.
// The game RNG is seeded from the date, so repeated plays agree.
func Play(ctx context.Context, c *corpus.Corpus, sel *selector.Selector, date time.Time, salt string) (*Result, error) {
	secret := Secret(c, date, salt)
	seed := uint64(Index(date, salt, 1<<62)) + 1
	out, err := solve.Run(ctx, solve.NewGame(c, sel, seed), solve.SimulatedSource{Secret: secret}, 0, nil)
	if err != nil {
		return nil, err
	}
	res := &Result{Date: DateKey(date), Secret: secret, Solved: out.State == solve.Solved, Turns: out.Turns}
	for _, rd := range out.Rounds {
		res.Guesses = append(res.Guesses, rd.Guess)
	}
	return res, nil
}
