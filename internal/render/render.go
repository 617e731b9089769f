// Package render draws solver output for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/robalobadob/nerdle-solver/internal/batch"
	"github.com/robalobadob/nerdle-solver/internal/equation"
	"github.com/robalobadob/nerdle-solver/internal/feedback"
	"github.com/robalobadob/nerdle-solver/internal/results"
	"github.com/robalobadob/nerdle-solver/internal/selector"
	"github.com/robalobadob/nerdle-solver/internal/solve"
)

// Nerdle palette
var (
	ColorExact     = lipgloss.Color("#398874")
	ColorMisplaced = lipgloss.Color("#820458")
	ColorAbsent    = lipgloss.Color("#161803")
	ColorPending   = lipgloss.Color("#989484")
	ColorText      = lipgloss.Color("#FFFFFF")
	ColorFail      = lipgloss.Color("#E74C3C")
)

// Printer writes styled output to w. Colour is dropped automatically when w
// is not a terminal.
type Printer struct {
	w      io.Writer
	tile   lipgloss.Style
	marks  map[feedback.Mark]lipgloss.Style
	title  lipgloss.Style
	muted  lipgloss.Style
	fail   lipgloss.Style
	bar    lipgloss.Style
	border lipgloss.Style
}

// New returns a Printer bound to w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	tile := r.NewStyle().Bold(true).Padding(0, 1).Foreground(ColorText)
	return &Printer{
		w:    w,
		tile: tile.Background(ColorPending),
		marks: map[feedback.Mark]lipgloss.Style{
			feedback.Exact:     tile.Background(ColorExact),
			feedback.Misplaced: tile.Background(ColorMisplaced),
			feedback.Absent:    tile.Background(ColorAbsent),
		},
		title: r.NewStyle().Bold(true).Foreground(ColorExact),
		muted: r.NewStyle().Faint(true),
		fail:  r.NewStyle().Bold(true).Foreground(ColorFail),
		bar:   r.NewStyle().Foreground(ColorExact),
		border: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorExact).
			Padding(0, 1),
	}
}

// Tiles renders guess as one tile per symbol, coloured by marks. Nil marks render
// the guess as pending.
func (p *Printer) Tiles(guess equation.Equation, marks feedback.Pattern) string {
	cells := make([]string, len(guess))
	for i := 0; i < len(guess); i++ {
		st := p.tile
		if i < len(marks) {
			st = p.marks[marks[i]]
		}
		cells[i] = st.Render(string(guess[i]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// GuessLine renders the pending guess for turn.
func (p *Printer) GuessLine(turn int, guess equation.Equation) string {
	return fmt.Sprintf("\n%s %s  %s\n", p.muted.Render(fmt.Sprintf("%d.", turn)), p.Tiles(guess, nil), guess)
}

// Round prints a completed round with the remaining candidate count.
func (p *Printer) Round(r solve.Round) {
	fmt.Fprintf(p.w, "%s %s %s\n",
		p.muted.Render(fmt.Sprintf("%d.", r.Turn)),
		p.Tiles(r.Guess, r.Feedback),
		p.muted.Render(fmt.Sprintf("%s  remaining: %d", r.Feedback, r.Remaining)))
}

// Outcome prints the final line of a game.
func (p *Printer) Outcome(o solve.Outcome) {
	switch o.State {
	case solve.Solved:
		fmt.Fprintln(p.w, p.title.Render(fmt.Sprintf("Solved in %d guesses.", o.Turns)))
	case solve.Exhausted:
		fmt.Fprintln(p.w, p.fail.Render("No equation matches the feedback given."))
	default:
		fmt.Fprintln(p.w, p.fail.Render(fmt.Sprintf("Not solved after %d guesses.", o.Turns)))
	}
}

// Suggestions prints ranked candidates with their score components.
func (p *Printer) Suggestions(ss []selector.Scored) {
	for i, s := range ss {
		fmt.Fprintf(p.w, "%3d. %s  %s\n", i+1, s.Equation,
			p.muted.Render(fmt.Sprintf("score=%.3f shape=%.3f novel=%d distinct=%d",
				s.Score, s.ShapeFreq, s.Novel, s.Distinct)))
	}
}

// Report prints a batch summary and the per-turn distribution.
func (p *Printer) Report(rep *batch.Report) {
	var b strings.Builder
	fmt.Fprintf(&b, "Games:    %d\n", rep.Games)
	fmt.Fprintf(&b, "Solved:   %d\n", rep.Solved)
	if rep.Failures > 0 {
		fmt.Fprintf(&b, "Failures: %s\n", p.fail.Render(fmt.Sprint(rep.Failures)))
	}
	fmt.Fprintf(&b, "Average:  %.4f\n", rep.Average)
	fmt.Fprintf(&b, "Best:     %d\n", rep.Min)
	fmt.Fprintf(&b, "Worst:    %d\n", rep.Max)
	fmt.Fprintf(&b, "Seed:     %d", rep.Seed)
	fmt.Fprintln(p.w, p.border.Render(p.title.Render("Simulation")+"\n"+b.String()))

	for _, turns := range rep.TurnCounts() {
		pct := rep.Percent(turns)
		fmt.Fprintf(p.w, "%2d guesses: %6d (%5.2f%%) %s\n",
			turns, rep.Distribution[turns], pct, p.bar.Render(strings.Repeat("█", int(pct/2+0.5))))
	}
}

// Runs prints saved runs as a table.
func (p *Printer) Runs(runs []results.Run) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.bar).
		Headers("ID", "CREATED", "LABEL", "GAMES", "SOLVED", "AVERAGE")
	for _, r := range runs {
		t.Row(r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Label,
			fmt.Sprint(r.Games), fmt.Sprint(r.Solved), fmt.Sprintf("%.4f", r.Average))
	}
	fmt.Fprintln(p.w, t.Render())
}
