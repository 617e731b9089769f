// internal/config/config.go
//
// Runtime configuration.
// Values come from, in increasing priority:
//   - built-in defaults,
//   - an optional YAML file (--config),
//   - environment variables (a .env file is loaded by the CLI before this runs).

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/nerdle-solver/internal/equation"
	"github.com/robalobadob/nerdle-solver/internal/selector"
)

// Config is the full set of knobs shared by the CLI and the HTTP server.
type Config struct {
	LogLevel   string          `yaml:"log_level"`
	CorpusFile string          `yaml:"corpus_file"` // empty means the embedded corpus
	Seed       uint64          `yaml:"seed"`        // 0 means time based
	MaxTurns   int             `yaml:"max_turns"`   // interactive/API cap, <= 0 disables
	Selector   selector.Config `yaml:"selector"`
	Server     Server          `yaml:"server"`
}

// Server holds HTTP and persistence settings.
type Server struct {
	Port       string        `yaml:"port"`
	DBPath     string        `yaml:"db_path"`
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	DailySalt  string        `yaml:"daily_salt"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		MaxTurns: 6,
		Selector: selector.DefaultConfig(),
		Server: Server{
			Port:       "5175",
			DBPath:     "./data/nerdle.db",
			JWTSecret:  "dev_secret_change_me",
			SessionTTL: 24 * time.Hour,
			DailySalt:  "local_dev_salt",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if any)
// and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.CorpusFile = getEnv("NERDLE_CORPUS_FILE", c.CorpusFile)
	c.Selector.Opener = equation.Equation(getEnv("NERDLE_OPENER", string(c.Selector.Opener)))
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.DBPath = getEnv("DB_PATH", c.Server.DBPath)
	c.Server.JWTSecret = getEnv("JWT_SECRET", c.Server.JWTSecret)
	c.Server.DailySalt = getEnv("DAILY_SALT", c.Server.DailySalt)

	if v := os.Getenv("NERDLE_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("NERDLE_SEED: %w", err)
		}
		c.Seed = n
	}
	var err error
	if c.MaxTurns, err = envInt("NERDLE_MAX_TURNS", c.MaxTurns); err != nil {
		return err
	}
	if c.Selector.SmallSetThreshold, err = envInt("NERDLE_SMALL_SET", c.Selector.SmallSetThreshold); err != nil {
		return err
	}
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL_HOURS: %w", err)
		}
		c.Server.SessionTTL = time.Duration(hours) * time.Hour
	}
	return nil
}

// Validate rejects settings the solver cannot run with.
func (c Config) Validate() error {
	if c.Selector.SmallSetThreshold < 0 {
		return fmt.Errorf("small_set_threshold must be >= 0, got %d", c.Selector.SmallSetThreshold)
	}
	if c.Selector.ShapeWeight < 0 || c.Selector.NovelWeight < 0 || c.Selector.DistinctWeight < 0 {
		return fmt.Errorf("selector weights must be >= 0")
	}
	return nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}
