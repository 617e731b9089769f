package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/nerdle-solver/internal/batch"
	"github.com/robalobadob/nerdle-solver/internal/equation"
	"github.com/robalobadob/nerdle-solver/internal/selector"
)

// ErrNotFound is returned for unknown run ids.
var ErrNotFound = errors.New("results: run not found")

// Fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is a saved batch report without its per-game rows.
type Run struct {
	ID           string          `json:"id"`
	Label        string          `json:"label,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	Seed         uint64          `json:"seed"`
	Games        int             `json:"games"`
	Solved       int             `json:"solved"`
	Failures     int             `json:"failures"`
	Average      float64         `json:"average"`
	Min          int             `json:"min"`
	Max          int             `json:"max"`
	ElapsedMs    int64           `json:"elapsedMs"`
	Selector     selector.Config `json:"selector"`
	Distribution map[int]int     `json:"distribution,omitempty"`
}

// Store persists batch reports in SQLite.
type Store struct{ db *sql.DB }

// Open opens the database at dsn and applies migrations.
func Open(dsn string) (*Store, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate results db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the migrated handle to sibling stores sharing the file.
func (s *Store) DB() *sql.DB { return s.db }

// Save stores rep with its distribution and per-game rows in one transaction
// and returns the new run id.
func (s *Store) Save(ctx context.Context, rep *batch.Report, cfg selector.Config, label string) (string, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO runs
            (id, label, created_at, seed, games, solved, failures, average, min_turns, max_turns, elapsed_ms, selector)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, label, time.Now().UTC().Format(timeLayout), int64(rep.Seed),
		rep.Games, rep.Solved, rep.Failures, rep.Average, rep.Min, rep.Max,
		rep.Elapsed.Milliseconds(), string(cfgJSON),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for turns, games := range rep.Distribution {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_distribution (run_id, turns, games) VALUES (?, ?, ?)`,
			id, turns, games,
		); err != nil {
			return "", fmt.Errorf("insert distribution: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_games (run_id, idx, secret, solved, turns, guesses) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()
	for i, g := range rep.Results {
		if _, err := stmt.ExecContext(ctx, id, i, string(g.Secret), g.Solved, g.Turns, joinGuesses(g.Guesses)); err != nil {
			return "", fmt.Errorf("insert game %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// List returns the most recent runs first. Default limit is 20.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, label, created_at, seed, games, solved, failures, average, min_turns, max_turns, elapsed_ms, selector
        FROM runs
        ORDER BY created_at DESC, rowid DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Run, 0, limit)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Get loads a run and its distribution.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, label, created_at, seed, games, solved, failures, average, min_turns, max_turns, elapsed_ms, selector
        FROM runs WHERE id=?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT turns, games FROM run_distribution WHERE run_id=?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	r.Distribution = map[int]int{}
	for rows.Next() {
		var turns, games int
		if err := rows.Scan(&turns, &games); err != nil {
			return nil, err
		}
		r.Distribution[turns] = games
	}
	return r, rows.Err()
}

// Games returns the per-game rows of a run in play order.
func (s *Store) Games(ctx context.Context, id string) ([]batch.GameResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT secret, solved, turns, guesses FROM run_games WHERE run_id=? ORDER BY idx`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []batch.GameResult
	for rows.Next() {
		var (
			g       batch.GameResult
			secret  string
			guesses string
		)
		if err := rows.Scan(&secret, &g.Solved, &g.Turns, &guesses); err != nil {
			return nil, err
		}
		g.Secret = equation.Equation(secret)
		g.Guesses = splitGuesses(guesses)
		out = append(out, g)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanRun(row scanner) (*Run, error) {
	var (
		r       Run
		created string
		seed    int64
		cfg     string
	)
	if err := row.Scan(&r.ID, &r.Label, &created, &seed, &r.Games, &r.Solved, &r.Failures,
		&r.Average, &r.Min, &r.Max, &r.ElapsedMs, &cfg); err != nil {
		return nil, err
	}
	r.Seed = uint64(seed)
	r.CreatedAt, _ = time.Parse(timeLayout, created)
	if err := json.Unmarshal([]byte(cfg), &r.Selector); err != nil {
		return nil, fmt.Errorf("decode selector config: %w", err)
	}
	return &r, nil
}

// Guesses are stored space separated; equations never contain spaces.
func joinGuesses(gs []equation.Equation) string {
	parts := make([]string, len(gs))
	for i, g := range gs {
		parts[i] = string(g)
	}
	return strings.Join(parts, " ")
}

func splitGuesses(s string) []equation.Equation {
	var out []equation.Equation
	for _, f := range strings.Fields(s) {
		out = append(out, equation.Equation(f))
	}
	return out
}
