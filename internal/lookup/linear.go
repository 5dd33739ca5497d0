// Package lookup provides the table lookups the evaluators share: linear
// interpolation over sorted knots, exact-or-interpolate lookup and
// bilinear interpolation over a rectangular grid.
package lookup

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Linear is a piecewise-linear function through (xs[i], ys[i]). Queries
// outside the knot range return the nearest end value.
type Linear struct {
	xs []float64
	ys []float64
	pl interp.PiecewiseLinear
}

// NewLinear fits a Linear function. Knots are sorted by x; x values must be
// distinct and there must be at least two.
func NewLinear(xs, ys []float64) (*Linear, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", types.ErrTableLayout, len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("%w: need at least two knots, got %d", types.ErrTableLayout, len(xs))
	}
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	l := &Linear{xs: make([]float64, len(xs)), ys: make([]float64, len(ys))}
	for i, j := range idx {
		l.xs[i] = xs[j]
		l.ys[i] = ys[j]
	}
	for i := 1; i < len(l.xs); i++ {
		if l.xs[i] == l.xs[i-1] {
			return nil, fmt.Errorf("%w: duplicate knot %g", types.ErrTableLayout, l.xs[i])
		}
	}
	if err := l.pl.Fit(l.xs, l.ys); err != nil {
		return nil, fmt.Errorf("fitting knots: %w", err)
	}
	return l, nil
}

// At returns the interpolated value at x. A query equal to a knot returns
// that knot's value exactly.
func (l *Linear) At(x float64) float64 {
	if i := sort.SearchFloat64s(l.xs, x); i < len(l.xs) && l.xs[i] == x {
		return l.ys[i]
	}
	return l.pl.Predict(x)
}

// Domain returns the smallest and largest knot.
func (l *Linear) Domain() (lo, hi float64) {
	return l.xs[0], l.xs[len(l.xs)-1]
}

// Lookup returns ys[i] where xs[i] == x, or linearly interpolates between
// the bracketing knots otherwise. Outside the knot range the nearest end
// value is returned. A single knot is returned for every x.
func Lookup(xs, ys []float64, x float64) (float64, error) {
	if len(xs) != len(ys) || len(xs) == 0 {
		return 0, fmt.Errorf("%w: %d x values, %d y values", types.ErrTableLayout, len(xs), len(ys))
	}
	for i, k := range xs {
		if k == x {
			return ys[i], nil
		}
	}
	if len(xs) == 1 {
		return ys[0], nil
	}
	l, err := NewLinear(xs, ys)
	if err != nil {
		return 0, err
	}
	return l.At(x), nil
}
