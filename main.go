package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/nerdle-solver/internal/config"
	"github.com/robalobadob/nerdle-solver/internal/corpus"
	"github.com/robalobadob/nerdle-solver/internal/selector"
)

var (
	configPath string        // --config YAML file
	cfg        config.Config // resolved in PersistentPreRunE
)

var rootCmd = &cobra.Command{
	Use:   "nerdle",
	Short: "Solve Nerdle equation puzzles",
	Long: `Suggests guesses for Nerdle-style equation puzzles and narrows the
candidates from the G/P/B feedback the puzzle shows.

Examples:
  nerdle solve                     # interactive: type each guess into the puzzle
  nerdle simulate -n 1000          # benchmark on random secrets
  nerdle simulate --secret 52-14=38 -v
  nerdle score 3*4+5=17 1+2*6=14   # feedback for one guess
  nerdle serve                     # JSON API`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		setupLogging(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging routes the global zerolog logger to a console writer on stderr.
func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}

// loadCorpus opens the configured corpus file or the embedded list.
func loadCorpus() (*corpus.Corpus, error) {
	c, err := corpus.Open(cfg.CorpusFile)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("equations", c.Len()).Int("length", c.EquationLen()).Msg("corpus loaded")
	return c, nil
}

func newSelector() *selector.Selector { return selector.New(cfg.Selector) }

// seedOr returns flag if set, else the configured seed, else a time based one.
func seedOr(flag uint64) uint64 {
	switch {
	case flag != 0:
		return flag
	case cfg.Seed != 0:
		return cfg.Seed
	default:
		return uint64(time.Now().UnixNano())
	}
}
