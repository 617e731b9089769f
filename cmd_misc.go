package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/nerdle-solver/internal/equation"
	"github.com/robalobadob/nerdle-solver/internal/feedback"
	"github.com/robalobadob/nerdle-solver/internal/httpserver"
	"github.com/robalobadob/nerdle-solver/internal/render"
	"github.com/robalobadob/nerdle-solver/internal/results"
	"github.com/robalobadob/nerdle-solver/internal/store"
)

var (
	serveNoDB bool
	runsLimit int
)

var scoreCmd = &cobra.Command{
	Use:   "score SECRET GUESS",
	Short: "Show the feedback GUESS gets when the answer is SECRET",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret, guess := equation.Equation(args[0]), equation.Equation(args[1])
		p, err := feedback.Score(secret, guess)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", render.New(cmd.OutOrStdout()).Tiles(guess, p), p)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadCorpus()
		if err != nil {
			return err
		}
		deps := httpserver.Deps{
			Config:   cfg,
			Corpus:   c,
			Sessions: store.NewMemoryStore(cfg.Server.SessionTTL),
		}
		if !serveNoDB {
			rs, err := results.Open(cfg.Server.DBPath)
			if err != nil {
				return err
			}
			defer rs.Close()
			deps.Runs = rs
		}

		srv := httpserver.New(deps)
		log.Info().Str("port", cfg.Server.Port).Int("equations", c.Len()).Msg("starting nerdle-solver")
		return srv.Start(":" + cfg.Server.Port)
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs [ID]",
	Short: "List saved simulation runs, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := results.Open(cfg.Server.DBPath)
		if err != nil {
			return err
		}
		defer rs.Close()
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			run, err := rs.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Run %s %s\n", run.ID, run.Label)
			fmt.Fprintf(out, "Created: %s  Seed: %d  Opener: %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"), run.Seed, run.Selector.Opener)
			fmt.Fprintf(out, "Games: %d  Solved: %d  Average: %.4f  Best: %d  Worst: %d\n",
				run.Games, run.Solved, run.Average, run.Min, run.Max)
			for turns := 1; turns <= run.Max; turns++ {
				if n := run.Distribution[turns]; n > 0 {
					fmt.Fprintf(out, "%2d guesses: %6d (%5.2f%%)\n", turns, n, 100*float64(n)/float64(run.Solved))
				}
			}
			return nil
		}

		runs, err := rs.List(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		render.New(out).Runs(runs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd, serveCmd, runsCmd)
	serveCmd.Flags().BoolVar(&serveNoDB, "no-db", false, "disable saved runs and daily history")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "number of runs to list")
}
