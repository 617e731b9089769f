package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/nerdle-solver/internal/render"
	"github.com/robalobadob/nerdle-solver/internal/solve"
)

var (
	solveSeed     uint64 // RNG seed, 0 = config/time
	solveExplain  int    // show the top N ranked candidates after each round
	solveMaxTurns int    // overrides config max_turns when >= 0
)

// solveCmd plays alongside a real puzzle: it proposes a guess, the user types
// it into the puzzle and reports the G/P/B feedback shown.
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Interactively solve a puzzle from your feedback",
	Long: `Proposes a guess each turn. Enter the feedback the puzzle showed as one
letter per symbol: G (right place), P (elsewhere in the answer), B (absent).

Examples:
  nerdle solve
  nerdle solve --explain 5     # also show the top 5 ranked candidates`,
	Args: cobra.NoArgs,
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().Uint64Var(&solveSeed, "seed", 0, "RNG seed for reproducible guesses")
	solveCmd.Flags().IntVar(&solveExplain, "explain", 0, "show the top N ranked candidates after each round")
	solveCmd.Flags().IntVar(&solveMaxTurns, "max-turns", -1, "turn cap (default from config, 0 = unlimited)")
}

func runSolve(cmd *cobra.Command, _ []string) error {
	c, err := loadCorpus()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	pr := render.New(out)
	maxTurns := cfg.MaxTurns
	if solveMaxTurns >= 0 {
		maxTurns = solveMaxTurns
	}

	seed := seedOr(solveSeed)
	log.Debug().Uint64("seed", seed).Msg("solve")
	g := solve.NewGame(c, newSelector(), seed)

	src := solve.NewPromptSource(cmd.InOrStdin(), out, c.EquationLen())
	src.Show = pr.GuessLine

	fmt.Fprintf(out, "Solving over %d equations of length %d.\n", c.Len(), c.EquationLen())
	outcome, err := solve.Run(cmd.Context(), g, src, maxTurns, func(r solve.Round, st solve.State) {
		pr.Round(r)
		if solveExplain > 0 && st == solve.AwaitingGuess {
			pr.Suggestions(g.Suggestions(solveExplain))
		}
	})
	switch {
	case errors.Is(err, io.EOF):
		fmt.Fprintln(out, "\nInput closed.")
		return nil
	case errors.Is(err, solve.ErrTurnLimit), err == nil:
		pr.Outcome(outcome)
		return nil
	default:
		return err
	}
}
