// internal/corpus/corpus.go
//
// Provides the equation corpus: the full list of possible answers.
//
// Responsibilities:
//   - Load a line-oriented equation list from a file or from the embedded default.
//   - Enforce a single equation length across the corpus.
//   - Index equations for constant-time membership and bitset-backed candidate sets.
//
// Lines are trimmed; blank lines and '#' comments are skipped; duplicates keep their
// first position. Equations are otherwise opaque: arithmetic correctness is the
// provider's responsibility.
//
// Environment variables:
//   NERDLE_CORPUS_FILE=/path/to/equations.txt

package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/robalobadob/nerdle-solver/assets"
	"github.com/robalobadob/nerdle-solver/internal/equation"
)

var (
	// ErrEmpty is returned when no equations remain after parsing.
	ErrEmpty = errors.New("corpus: no equations")

	// ErrMixedLength is returned when equations do not share one length.
	ErrMixedLength = errors.New("corpus: equations differ in length")
)

// Corpus is an immutable, ordered equation list of uniform length.
// It is safe for concurrent use.
type Corpus struct {
	equations []equation.Equation
	index     map[equation.Equation]int
	length    int
}

// New builds a corpus from raw lines.
func New(lines []string) (*Corpus, error) {
	c := &Corpus{index: make(map[equation.Equation]int, len(lines))}
	for n, line := range lines {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		e := equation.Equation(s)
		if len(c.equations) == 0 {
			c.length = len(e)
		} else if len(e) != c.length {
			return nil, fmt.Errorf("%w: line %d %q has length %d, want %d", ErrMixedLength, n+1, s, len(e), c.length)
		}
		if _, dup := c.index[e]; dup {
			continue
		}
		c.index[e] = len(c.equations)
		c.equations = append(c.equations, e)
	}
	if len(c.equations) == 0 {
		return nil, ErrEmpty
	}
	return c, nil
}

// Read parses one equation per line from r.
func Read(r io.Reader) (*Corpus, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return New(lines)
}

// Load reads the corpus file at path.
func Load(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Default returns the embedded list of valid 8-character equations.
func Default() (*Corpus, error) {
	lines, err := assets.EquationList()
	if err != nil {
		return nil, fmt.Errorf("embedded corpus: %w", err)
	}
	return New(lines)
}

// Open loads path when set, otherwise the embedded default.
func Open(path string) (*Corpus, error) {
	if path != "" {
		return Load(path)
	}
	return Default()
}

// Len returns the number of equations.
func (c *Corpus) Len() int { return len(c.equations) }

// EquationLen returns the shared equation length L.
func (c *Corpus) EquationLen() int { return c.length }

// At returns the equation at index i.
func (c *Corpus) At(i int) equation.Equation { return c.equations[i] }

// Index returns the position of e, or false if e is not in the corpus.
func (c *Corpus) Index(e equation.Equation) (int, bool) {
	i, ok := c.index[e]
	return i, ok
}

// Contains reports whether e is in the corpus.
func (c *Corpus) Contains(e equation.Equation) bool {
	_, ok := c.index[e]
	return ok
}

// Equations returns a copy of the equations in corpus order.
func (c *Corpus) Equations() []equation.Equation {
	out := make([]equation.Equation, len(c.equations))
	copy(out, c.equations)
	return out
}

// Random returns a uniformly random equation.
func (c *Corpus) Random(r *rand.Rand) equation.Equation {
	return c.equations[r.IntN(len(c.equations))]
}

// Stats summarises the corpus.
type Stats struct {
	Equations int `json:"equations"`
	Length    int `json:"length"`
	Shapes    int `json:"shapes"`
}

// Stats returns counts of equations and distinct shapes.
func (c *Corpus) Stats() Stats {
	shapes := make(map[equation.ShapeKey]struct{})
	for _, e := range c.equations {
		shapes[e.Shape()] = struct{}{}
	}
	return Stats{Equations: len(c.equations), Length: c.length, Shapes: len(shapes)}
}
