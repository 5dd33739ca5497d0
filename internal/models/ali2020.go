package models

import (
	"fmt"

	"github.com/mesh-intelligence/corrosim/internal/lookup"
	"github.com/mesh-intelligence/corrosim/internal/registry"
	"github.com/mesh-intelligence/corrosim/internal/tables"
	"github.com/mesh-intelligence/corrosim/internal/units"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Ali 2020 works in exposure days and weight change in grams.
const (
	aliTimeUnit = units.Days
	aliMaxConc  = 5.0
)

// Ali2020 is a linear weight-change model for low-carbon steel in NaCl
// solution: (0.00006·C + 0.0008)·t + b, where b is read from table_3
// (column 0 concentration, column 2 constant) by exact match or linear
// interpolation.
type Ali2020 struct {
	base
	concs, consts []float64
	c, b          float64
}

// NewAli2020 loads table_3.
func NewAli2020(rec types.Record, env registry.Env) (types.Evaluator, error) {
	tbl, err := env.OpenTable(rec, "table_3")
	if err != nil {
		return nil, err
	}
	concs, consts, err := tbl.Pairs(0, 2, 1)
	if err != nil {
		return nil, fmt.Errorf("reading intercept table: %w", err)
	}
	if len(concs) == 0 {
		return nil, fmt.Errorf("%s: %w: no intercept rows", tbl.Path, types.ErrTableLayout)
	}
	m := &Ali2020{
		base: newBase(rec, aliTimeUnit, unitGram, []types.ParameterLimit{
			number("C", "Concentration of NaCl", "%w/w", 0, aliMaxConc, concs[0]),
		}),
		concs:  concs,
		consts: consts,
	}
	if err := m.Configure(nil); err != nil {
		return nil, err
	}
	return m, nil
}

// Configure looks up the intercept for C.
func (m *Ali2020) Configure(params types.ParameterSet) error {
	p, err := m.apply(params)
	if err != nil {
		return err
	}
	c := p.FloatOr("C", 0)
	b, err := lookup.Lookup(m.concs, m.consts, c)
	if err != nil {
		return err
	}
	m.c, m.b = c, b
	return nil
}

// Intercept returns the configured b.
func (m *Ali2020) Intercept() float64 { return m.b }

// Loss returns (0.00006·C + 0.0008)·t + b.
func (m *Ali2020) Loss(t float64) float64 {
	return (0.00006*m.c+0.0008)*t + m.b
}

// GrowthRate returns the constant slope.
func (m *Ali2020) GrowthRate(float64) float64 { return 0.00006*m.c + 0.0008 }

// aliGrid reads the measured weight-change grid of table_4: row 1 holds the
// NaCl concentrations from column 1 on, rows from 2 on hold the exposure
// time in column 0 and one value per concentration.
type aliGrid struct {
	concs  []float64
	times  []float64
	values [][]float64 // values[concentration][time]
}

func readAliGrid(tbl *tables.Table) (*aliGrid, error) {
	g := &aliGrid{}
	for c := 1; c < tbl.Cols(1); c++ {
		v, err := tbl.Float(1, c)
		if err != nil {
			return nil, fmt.Errorf("reading concentration header: %w", err)
		}
		g.concs = append(g.concs, v)
	}
	if len(g.concs) == 0 {
		return nil, fmt.Errorf("%s: %w: no concentrations in row 1", tbl.Path, types.ErrTableLayout)
	}
	g.values = make([][]float64, len(g.concs))
	for r := 2; r < tbl.Rows(); r++ {
		t, err := tbl.Float(r, 0)
		if err != nil {
			return nil, fmt.Errorf("reading exposure time: %w", err)
		}
		g.times = append(g.times, t)
		for c := range g.concs {
			v, err := tbl.Float(r, c+1)
			if err != nil {
				return nil, fmt.Errorf("reading weight change: %w", err)
			}
			g.values[c] = append(g.values[c], v)
		}
	}
	if len(g.times) == 0 {
		return nil, fmt.Errorf("%s: %w: no samples", tbl.Path, types.ErrTableLayout)
	}
	return g, nil
}

// column returns the index of concentration c, or -1.
func (g *aliGrid) column(c float64) int {
	for i, v := range g.concs {
		if v == c {
			return i
		}
	}
	return -1
}

// Ali2020Tabulated returns the measured weight change of table_4 by
// bilinear interpolation in concentration and time instead of the closed
// form. Times beyond the last sample hold the last value.
type Ali2020Tabulated struct {
	base
	grid *lookup.Grid
	span [2]float64
	c    float64
}

// NewAli2020Tabulated loads table_4.
func NewAli2020Tabulated(rec types.Record, env registry.Env) (types.Evaluator, error) {
	tbl, err := env.OpenTable(rec, "table_4")
	if err != nil {
		return nil, err
	}
	g, err := readAliGrid(tbl)
	if err != nil {
		return nil, err
	}
	grid, err := lookup.NewGrid(g.concs, g.times, g.values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tbl.Path, err)
	}
	lo, hi := g.concs[0], g.concs[len(g.concs)-1]
	m := &Ali2020Tabulated{
		base: newBase(rec, aliTimeUnit, unitGram, []types.ParameterLimit{
			number("C", "Concentration of NaCl", "%w/w", lo, hi, lo),
		}),
		grid: grid,
		span: [2]float64{g.times[0], g.times[len(g.times)-1]},
	}
	if err := m.Configure(nil); err != nil {
		return nil, err
	}
	return m, nil
}

// Configure stores the concentration.
func (m *Ali2020Tabulated) Configure(params types.ParameterSet) error {
	p, err := m.apply(params)
	if err != nil {
		return err
	}
	m.c = p.FloatOr("C", 0)
	return nil
}

// Loss returns the interpolated weight change at t, clamped to the sampled
// time span.
func (m *Ali2020Tabulated) Loss(t float64) float64 {
	if t < m.span[0] {
		t = m.span[0]
	}
	if t > m.span[1] {
		t = m.span[1]
	}
	v, err := m.grid.At(m.c, t)
	if err != nil {
		return 0
	}
	return v
}
