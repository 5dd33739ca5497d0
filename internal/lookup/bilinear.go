package lookup

import (
	"fmt"
	"sort"

	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Grid is a rectangular table z[i][j] over sorted axes xs (rows) and ys
// (columns).
type Grid struct {
	xs []float64
	ys []float64
	z  [][]float64
}

// NewGrid builds a Grid. Both axes must be strictly increasing and z must
// have len(xs) rows of len(ys) values.
func NewGrid(xs, ys []float64, z [][]float64) (*Grid, error) {
	if !increasing(xs) || !increasing(ys) {
		return nil, fmt.Errorf("%w: grid axes must be strictly increasing", types.ErrTableLayout)
	}
	if len(z) != len(xs) {
		return nil, fmt.Errorf("%w: %d grid rows for %d x values", types.ErrTableLayout, len(z), len(xs))
	}
	for i, row := range z {
		if len(row) != len(ys) {
			return nil, fmt.Errorf("%w: grid row %d has %d values, want %d", types.ErrTableLayout, i, len(row), len(ys))
		}
	}
	return &Grid{xs: xs, ys: ys, z: z}, nil
}

func increasing(v []float64) bool {
	if len(v) == 0 {
		return false
	}
	for i := 1; i < len(v); i++ {
		if v[i] <= v[i-1] {
			return false
		}
	}
	return true
}

// At returns the bilinear interpolation of the grid at (x, y). Points on a
// grid line reduce to linear interpolation along the other axis and grid
// nodes return the stored value. Points outside the grid are an error
// wrapping types.ErrOutOfRange.
func (g *Grid) At(x, y float64) (float64, error) {
	i0, i1, tx, err := bracket(g.xs, x)
	if err != nil {
		return 0, err
	}
	j0, j1, ty, err := bracket(g.ys, y)
	if err != nil {
		return 0, err
	}
	z00 := g.z[i0][j0]
	z01 := g.z[i0][j1]
	z10 := g.z[i1][j0]
	z11 := g.z[i1][j1]
	if tx == 0 && ty == 0 {
		return z00, nil
	}
	return z00*(1-tx)*(1-ty) + z10*tx*(1-ty) + z01*(1-tx)*ty + z11*tx*ty, nil
}

// bracket finds i0 <= i1 with axis[i0] <= v <= axis[i1] and the fraction of
// the way from axis[i0] to axis[i1]. An exact hit returns i0 == i1.
func bracket(axis []float64, v float64) (int, int, float64, error) {
	n := len(axis)
	if v < axis[0] || v > axis[n-1] {
		return 0, 0, 0, fmt.Errorf("%w: %g outside %g..%g", types.ErrOutOfRange, v, axis[0], axis[n-1])
	}
	i := sort.SearchFloat64s(axis, v)
	if axis[i] == v {
		return i, i, 0, nil
	}
	lo, hi := axis[i-1], axis[i]
	return i - 1, i, (v - lo) / (hi - lo), nil
}
