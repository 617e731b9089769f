// internal/selector/selector.go
//
// Guess selection heuristic.
//
// Policy, in priority order:
//   1. Turn 1: play the configured opener if it is still a candidate, otherwise a
//      uniformly random candidate.
//   2. Small candidate sets (size <= SmallSetThreshold): a uniformly random candidate.
//   3. Otherwise: the candidate with the highest score, ties broken uniformly at random.
//
//      score = ShapeWeight    * (candidates sharing its shape / candidates)
//            + NovelWeight    * (distinct symbols not seen in earlier guesses)
//            + DistinctWeight * (distinct symbols)
//
// Selection is deterministic for a given RNG state; candidates are visited in
// corpus order.

package selector

import (
	"errors"
	"math/rand/v2"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/robalobadob/nerdle-solver/internal/candidates"
	"github.com/robalobadob/nerdle-solver/internal/equation"
)

// ErrNoCandidates is returned when Select is called with an empty set.
// Callers must treat an empty set as terminal before asking for a guess.
var ErrNoCandidates = errors.New("selector: no candidates")

// DefaultOpener has no repeated symbols, so the first guess probes eight of them.
const DefaultOpener equation.Equation = "3*4+5=17"

// Config holds the heuristic constants.
type Config struct {
	Opener            equation.Equation `yaml:"opener" json:"opener"`
	SmallSetThreshold int               `yaml:"small_set_threshold" json:"smallSetThreshold"`
	ShapeWeight       float64           `yaml:"shape_weight" json:"shapeWeight"`
	NovelWeight       float64           `yaml:"novel_weight" json:"novelWeight"`
	DistinctWeight    float64           `yaml:"distinct_weight" json:"distinctWeight"`
}

// DefaultConfig returns the tuned defaults (opener 3*4+5=17, threshold 10, weights 3/2/1).
func DefaultConfig() Config {
	return Config{
		Opener:            DefaultOpener,
		SmallSetThreshold: 10,
		ShapeWeight:       3.0,
		NovelWeight:       2.0,
		DistinctWeight:    1.0,
	}
}

// Selector picks the next guess. It holds no per-game state and is safe for
// concurrent use; per-game randomness is passed in.
type Selector struct {
	cfg Config
}

// New constructs a Selector.
func New(cfg Config) *Selector { return &Selector{cfg: cfg} }

// Config returns the selector's constants.
func (s *Selector) Config() Config { return s.cfg }

// Scored is a candidate with its score broken down.
type Scored struct {
	Equation  equation.Equation `json:"equation"`
	Score     float64           `json:"score"`
	ShapeFreq float64           `json:"shapeFreq"`
	Novel     int               `json:"novel"`
	Distinct  int               `json:"distinct"`
}

// Select returns the next guess for the given candidates, 1-based turn and
// symbols already probed.
func (s *Selector) Select(set *candidates.Set, turn int, seen mapset.Set[byte], r *rand.Rand) (equation.Equation, error) {
	if set.Empty() {
		return "", ErrNoCandidates
	}

	if turn == 1 {
		if s.cfg.Opener != "" && set.Contains(s.cfg.Opener) {
			return s.cfg.Opener, nil
		}
		return pick(set.Equations(), r), nil
	}

	if set.Len() <= s.cfg.SmallSetThreshold {
		return pick(set.Equations(), r), nil
	}

	var (
		best      []equation.Equation
		bestScore float64
	)
	s.score(set, seen, func(sc Scored) {
		switch {
		case len(best) == 0 || sc.Score > bestScore:
			bestScore = sc.Score
			best = append(best[:0], sc.Equation)
		case sc.Score == bestScore:
			best = append(best, sc.Equation)
		}
	})
	return pick(best, r), nil
}

// Rank returns the limit highest-scoring candidates, best first. Equal scores keep
// corpus order. A limit <= 0 returns every candidate.
func (s *Selector) Rank(set *candidates.Set, seen mapset.Set[byte], limit int) []Scored {
	out := make([]Scored, 0, set.Len())
	s.score(set, seen, func(sc Scored) { out = append(out, sc) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// score visits every candidate in corpus order with its score.
func (s *Selector) score(set *candidates.Set, seen mapset.Set[byte], visit func(Scored)) {
	eqs := set.Equations()
	total := float64(len(eqs))

	shapes := make(map[equation.ShapeKey]int)
	keys := make([]equation.ShapeKey, len(eqs))
	for i, e := range eqs {
		keys[i] = e.Shape()
		shapes[keys[i]]++
	}

	seenMask := equation.MaskOf(seen)
	for i, e := range eqs {
		m := e.Mask()
		sc := Scored{
			Equation:  e,
			ShapeFreq: float64(shapes[keys[i]]) / total,
			Novel:     m.Without(seenMask).Count(),
			Distinct:  m.Count(),
		}
		sc.Score = s.cfg.ShapeWeight*sc.ShapeFreq +
			s.cfg.NovelWeight*float64(sc.Novel) +
			s.cfg.DistinctWeight*float64(sc.Distinct)
		visit(sc)
	}
}

func pick(eqs []equation.Equation, r *rand.Rand) equation.Equation {
	return eqs[r.IntN(len(eqs))]
}
