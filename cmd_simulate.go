package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/nerdle-solver/internal/batch"
	"github.com/robalobadob/nerdle-solver/internal/corpus"
	"github.com/robalobadob/nerdle-solver/internal/daily"
	"github.com/robalobadob/nerdle-solver/internal/equation"
	"github.com/robalobadob/nerdle-solver/internal/feedback"
	"github.com/robalobadob/nerdle-solver/internal/render"
	"github.com/robalobadob/nerdle-solver/internal/results"
	"github.com/robalobadob/nerdle-solver/internal/solve"
)

var (
	simGames   int
	simAll     bool
	simSecret  string
	simVerbose bool
	simDaily   bool
	simDate    string
	simSave    bool
	simLabel   string
	simSeed    uint64
	simWorkers int
	simJSON    bool
)

// simulateCmd benchmarks the solver against secrets it scores itself.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Benchmark the solver on known secrets",
	Long: `Plays simulated games and reports how many guesses the solver needed.

Examples:
  nerdle simulate -n 1000              # random secrets, sampled with replacement
  nerdle simulate --all --save         # every equation in the corpus, saved to the DB
  nerdle simulate --secret 52-14=38 -v # one game, every round printed
  nerdle simulate --daily              # today's equation of the day`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	f := simulateCmd.Flags()
	f.IntVarP(&simGames, "games", "n", 100, "number of random secrets")
	f.BoolVar(&simAll, "all", false, "play every equation in the corpus")
	f.StringVar(&simSecret, "secret", "", "play a single game against this secret")
	f.BoolVarP(&simVerbose, "verbose", "v", false, "print every round of a single game")
	f.BoolVar(&simDaily, "daily", false, "play the equation of the day")
	f.StringVar(&simDate, "date", "", "date for --daily (YYYY-MM-DD, default today UTC)")
	f.BoolVar(&simSave, "save", false, "store the report in the results database")
	f.StringVar(&simLabel, "label", "", "label for a saved run")
	f.Uint64Var(&simSeed, "seed", 0, "run seed (0 = config/time)")
	f.IntVar(&simWorkers, "workers", 0, "parallel games (0 = GOMAXPROCS)")
	f.BoolVar(&simJSON, "json", false, "print the report as JSON")
	simulateCmd.MarkFlagsMutuallyExclusive("all", "secret", "daily")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	c, err := loadCorpus()
	if err != nil {
		return err
	}
	switch {
	case simSecret != "":
		return simulateOne(cmd, c, equation.Equation(simSecret))
	case simDaily:
		return simulateDaily(cmd, c)
	}

	seed := seedOr(simSeed)
	secrets := c.Equations()
	if !simAll {
		if simGames <= 0 {
			return fmt.Errorf("--games must be positive")
		}
		secrets = batch.Sample(c, simGames, seed)
	}

	log.Info().Int("games", len(secrets)).Uint64("seed", seed).Msg("simulation started")
	rep, err := batch.Evaluate(cmd.Context(), c, newSelector(), secrets, batch.Options{
		Seed:     seed,
		Workers:  simWorkers,
		Progress: os.Stderr,
	})
	if err != nil {
		return err
	}

	if simSave {
		rs, err := results.Open(cfg.Server.DBPath)
		if err != nil {
			return err
		}
		defer rs.Close()
		id, err := rs.Save(cmd.Context(), rep, cfg.Selector, simLabel)
		if err != nil {
			return err
		}
		log.Info().Str("run", id).Str("db", cfg.Server.DBPath).Msg("run saved")
	}

	if simJSON {
		trimmed := *rep
		trimmed.Results = nil
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(trimmed)
	}
	render.New(cmd.OutOrStdout()).Report(rep)
	return nil
}

// simulateOne plays a single game, printing each round with -v.
func simulateOne(cmd *cobra.Command, c *corpus.Corpus, secret equation.Equation) error {
	if !c.Contains(secret) {
		return fmt.Errorf("secret %q is not in the corpus", secret)
	}
	pr := render.New(cmd.OutOrStdout())
	var obs solve.Observer
	if simVerbose {
		obs = func(r solve.Round, _ solve.State) { pr.Round(r) }
	}
	g := solve.NewGame(c, newSelector(), seedOr(simSeed))
	out, err := solve.Run(cmd.Context(), g, solve.SimulatedSource{Secret: secret}, 0, obs)
	if err != nil {
		return err
	}
	pr.Outcome(out)
	return nil
}

// simulateDaily plays the equation of the day and optionally records it.
func simulateDaily(cmd *cobra.Command, c *corpus.Corpus) error {
	date := time.Now().UTC()
	if simDate != "" {
		d, err := time.Parse("2006-01-02", simDate)
		if err != nil {
			return fmt.Errorf("--date: %w", err)
		}
		date = d
	}
	res, err := daily.Play(cmd.Context(), c, newSelector(), date, cfg.Server.DailySalt)
	if err != nil {
		return err
	}

	if simSave {
		rs, err := results.Open(cfg.Server.DBPath)
		if err != nil {
			return err
		}
		defer rs.Close()
		if err := daily.NewStore(rs.DB()).Record(cmd.Context(), *res); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	pr := render.New(out)
	fmt.Fprintf(out, "Equation of the day %s\n", res.Date)
	for i, g := range res.Guesses {
		fmt.Fprintf(out, "%d. %s\n", i+1, pr.Tiles(g, feedback.MustScore(res.Secret, g)))
	}
	state := solve.Exhausted
	if res.Solved {
		state = solve.Solved
	}
	pr.Outcome(solve.Outcome{State: state, Turns: res.Turns})
	return nil
}
