package solve

import (
	"context"
	"errors"
	"fmt"
)

// ErrTurnLimit is returned by Run when the turn cap is reached unsolved.
var ErrTurnLimit = errors.New("solve: turn limit reached")

// Outcome summarises a finished (or abandoned) game.
type Outcome struct {
	State  State   `json:"state"`
	Turns  int     `json:"turns"` // guesses made
	Rounds []Round `json:"rounds"`
}

// Observer is told about every completed round.
type Observer func(Round, State)

// Run drives g until it is Solved or Exhausted, pulling feedback from src.
// maxTurns <= 0 means no cap; otherwise Run stops with ErrTurnLimit once
// maxTurns guesses have been answered without a terminal state.
func Run(ctx context.Context, g *Game, src FeedbackSource, maxTurns int, obs Observer) (Outcome, error) {
	for !g.State().Terminal() {
		if err := ctx.Err(); err != nil {
			return outcome(g), err
		}
		if maxTurns > 0 && g.Turn() > maxTurns {
			return outcome(g), ErrTurnLimit
		}

		guess, err := g.Next()
		if errors.Is(err, ErrExhausted) {
			break
		}
		if err != nil {
			return outcome(g), err
		}

		p, err := src.Feedback(ctx, g.Turn(), guess)
		if err != nil {
			return outcome(g), fmt.Errorf("feedback for turn %d: %w", g.Turn(), err)
		}
		st, err := g.Observe(p)
		if err != nil {
			return outcome(g), err
		}
		if obs != nil {
			h := g.hist
			obs(h[len(h)-1], st)
		}
	}
	return outcome(g), nil
}

func outcome(g *Game) Outcome {
	return Outcome{State: g.State(), Turns: len(g.hist), Rounds: g.History()}
}
