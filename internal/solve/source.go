package solve

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/robalobadob/nerdle-solver/internal/equation"
	"github.com/robalobadob/nerdle-solver/internal/feedback"
)

// FeedbackSource supplies the puzzle's feedback for a guess.
type FeedbackSource interface {
	Feedback(ctx context.Context, turn int, guess equation.Equation) (feedback.Pattern, error)
}

// SimulatedSource scores guesses against a known secret.
type SimulatedSource struct {
	Secret equation.Equation
}

// Feedback implements FeedbackSource.
func (s SimulatedSource) Feedback(_ context.Context, _ int, guess equation.Equation) (feedback.Pattern, error) {
	return feedback.Score(s.Secret, guess)
}

// PromptSource asks a human for the feedback the puzzle showed. Malformed
// lines are reported on Out and asked for again.
type PromptSource struct {
	In     *bufio.Reader
	Out    io.Writer
	Length int

	// Show renders the guess before prompting. Nil prints it plainly.
	Show func(turn int, guess equation.Equation) string
}

// NewPromptSource reads from in and writes prompts to out.
func NewPromptSource(in io.Reader, out io.Writer, length int) *PromptSource {
	return &PromptSource{In: bufio.NewReader(in), Out: out, Length: length}
}

// Feedback implements FeedbackSource. It returns io.EOF when input ends.
func (p *PromptSource) Feedback(ctx context.Context, turn int, guess equation.Equation) (feedback.Pattern, error) {
	show := fmt.Sprintf("\nGuess %d: %s\n", turn, guess)
	if p.Show != nil {
		show = p.Show(turn, guess)
	}
	fmt.Fprint(p.Out, show)
	fmt.Fprintln(p.Out, "Type this into the puzzle, then enter the feedback here:")

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fmt.Fprintf(p.Out, "Enter feedback (%d letters using G, P, B): ", p.Length)
		line, err := p.In.ReadString('\n')
		if line == "" && err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read feedback: %w", err)
		}
		pat, perr := feedback.ParsePattern(line, p.Length)
		if perr == nil {
			return pat, nil
		}
		fmt.Fprintf(p.Out, "Invalid feedback. Please enter exactly %d characters of G, P, or B.\n", p.Length)
		if err != nil {
			return nil, io.EOF
		}
	}
}
