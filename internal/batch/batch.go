// internal/batch/batch.go
//
// Batch evaluation: plays simulated games against known secrets and aggregates
// how many guesses the solver needed.
//
// Runs are exactly reproducible for a given seed: game i gets its own RNG seed
// derived from the run seed and i, and results are stored by index, so the worker
// count and scheduling order never change a report.

package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/nerdle-solver/internal/corpus"
	"github.com/robalobadob/nerdle-solver/internal/equation"
	"github.com/robalobadob/nerdle-solver/internal/selector"
	"github.com/robalobadob/nerdle-solver/internal/solve"
)

// Options tunes a batch run.
type Options struct {
	Seed     uint64
	Workers  int       // <= 0 uses GOMAXPROCS
	MaxTurns int       // <= 0 plays every game to the end
	Progress io.Writer // nil disables the progress bar
}

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Secret  equation.Equation   `json:"secret"`
	Solved  bool                `json:"solved"`
	Turns   int                 `json:"turns"`
	Guesses []equation.Equation `json:"guesses"`
}

// Report aggregates a batch run. Average, Min, Max and Distribution cover
// solved games only.
type Report struct {
	Seed         uint64        `json:"seed"`
	Games        int           `json:"games"`
	Solved       int           `json:"solved"`
	Failures     int           `json:"failures"`
	Average      float64       `json:"average"`
	Min          int           `json:"min"`
	Max          int           `json:"max"`
	Distribution map[int]int   `json:"distribution"`
	Elapsed      time.Duration `json:"elapsed"`
	Results      []GameResult  `json:"results,omitempty"`
}

// GameSeed derives the RNG seed of game i in a run seeded with base.
func GameSeed(base uint64, i int) uint64 {
	return base ^ (uint64(i)+1)*0x9e3779b97f4a7c15
}

// Sample draws n secrets uniformly at random, with replacement.
func Sample(c *corpus.Corpus, n int, seed uint64) []equation.Equation {
	r := rand.New(rand.NewPCG(seed, ^seed))
	out := make([]equation.Equation, max(n, 0))
	for i := range out {
		out[i] = c.Random(r)
	}
	return out
}

// Evaluate plays one simulated game per secret and aggregates the outcomes.
// A game that ends Exhausted or hits MaxTurns counts as a failure.
func Evaluate(ctx context.Context, c *corpus.Corpus, sel *selector.Selector, secrets []equation.Equation, opts Options) (*Report, error) {
	start := time.Now()
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(secrets),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("simulating"),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(opts.Progress) }),
		)
	}

	results := make([]GameResult, len(secrets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, secret := range secrets {
		g.Go(func() error {
			res, err := play(ctx, c, sel, secret, GameSeed(opts.Seed, i), opts.MaxTurns)
			if err != nil {
				return fmt.Errorf("game %d (%s): %w", i+1, secret, err)
			}
			results[i] = res
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	rep := Summarize(results)
	rep.Seed = opts.Seed
	rep.Elapsed = time.Since(start)
	log.Debug().Int("games", rep.Games).Int("failures", rep.Failures).Float64("average", rep.Average).Dur("elapsed", rep.Elapsed).Msg("batch finished")
	return rep, nil
}

func play(ctx context.Context, c *corpus.Corpus, sel *selector.Selector, secret equation.Equation, seed uint64, maxTurns int) (GameResult, error) {
	game := solve.NewGame(c, sel, seed)
	out, err := solve.Run(ctx, game, solve.SimulatedSource{Secret: secret}, maxTurns, nil)
	if err != nil && !errors.Is(err, solve.ErrTurnLimit) {
		return GameResult{}, err
	}
	res := GameResult{Secret: secret, Solved: out.State == solve.Solved, Turns: out.Turns}
	for _, r := range out.Rounds {
		res.Guesses = append(res.Guesses, r.Guess)
	}
	if !res.Solved {
		log.Debug().Str("secret", string(secret)).Str("state", out.State.String()).Msg("simulation failed")
	}
	return res, nil
}

// Summarize aggregates per-game results into a report.
func Summarize(results []GameResult) *Report {
	rep := &Report{Games: len(results), Distribution: map[int]int{}, Results: results}
	var turns []int
	for _, r := range results {
		if !r.Solved {
			rep.Failures++
			continue
		}
		turns = append(turns, r.Turns)
		rep.Distribution[r.Turns]++
	}
	rep.Solved = len(turns)
	if len(turns) > 0 {
		rep.Average = mean(turns)
		rep.Min, rep.Max = minMax(turns)
	}
	return rep
}

// TurnCounts returns the distribution keys in ascending order.
func (r *Report) TurnCounts() []int {
	keys := make([]int, 0, len(r.Distribution))
	for k := range r.Distribution {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Percent returns the share of solved games that took exactly turns guesses.
func (r *Report) Percent(turns int) float64 {
	if r.Solved == 0 {
		return 0
	}
	return 100 * float64(r.Distribution[turns]) / float64(r.Solved)
}
