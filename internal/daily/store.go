package daily

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/robalobadob/nerdle-solver/internal/equation"
)

// ErrNotPlayed is returned when no result exists for a date.
var ErrNotPlayed = errors.New("daily: no result for date")

// Result is the solver's outcome on one day's equation.
type Result struct {
	Date    string              `json:"date"`
	Secret  equation.Equation   `json:"secret"`
	Solved  bool                `json:"solved"`
	Turns   int                 `json:"turns"`
	Guesses []equation.Equation `json:"guesses"`
}

// Store persists daily results. The daily_results table is created by the
// results migrations.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE date=?", date,
	).Scan(&cnt)
	return cnt > 0, err
}

// Record stores r; the first result for a date wins.
func (s *Store) Record(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(date, secret, solved, turns, guesses)
         VALUES(?,?,?,?,?)`, r.Date, string(r.Secret), r.Solved, r.Turns, joinGuesses(r.Guesses),
	)
	return err
}

func (s *Store) Get(ctx context.Context, date string) (*Result, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT date, secret, solved, turns, guesses FROM daily_results WHERE date=?`, date)
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotPlayed
	}
	return r, err
}

// History returns the latest results, newest date first.
func (s *Store) History(ctx context.Context, limit int) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, secret, solved, turns, guesses
         FROM daily_results
         ORDER BY date DESC
         LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func scanResult(row interface{ Scan(...any) error }) (*Result, error) {
	var (
		r       Result
		secret  string
		guesses string
	)
	if err := row.Scan(&r.Date, &secret, &r.Solved, &r.Turns, &guesses); err != nil {
		return nil, err
	}
	r.Secret = equation.Equation(secret)
	for _, g := range strings.Fields(guesses) {
		r.Guesses = append(r.Guesses, equation.Equation(g))
	}
	return &r, nil
}

func joinGuesses(gs []equation.Equation) string {
	var b strings.Builder
	for i, g := range gs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(string(g))
	}
	return b.String()
}
