package batch

import "golang.org/x/exp/constraints"

type number interface {
	constraints.Integer | constraints.Float
}

// mean of a non-empty slice.
func mean[T number](xs []T) float64 {
	var sum float64
	for _, x := range xs {
		sum += float64(x)
	}
	return sum / float64(len(xs))
}

// minMax of a non-empty slice.
func minMax[T constraints.Ordered](xs []T) (lo, hi T) {
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}
