package models

import (
	"fmt"

	"github.com/mesh-intelligence/corrosim/internal/registry"
	"github.com/mesh-intelligence/corrosim/internal/tables"
	"github.com/mesh-intelligence/corrosim/internal/units"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Kovalenko2016 is a long-term immersion model c_s + r_s·t where the
// constant and the rate belong to a seawater temperature and nutrient
// condition. table_3 holds one condition per row: column 0 is the
// condition index, column 3 c_s and column 4 r_s.
type Kovalenko2016 struct {
	base
	table  *tables.Table
	cs, rs float64
}

// NewKovalenko2016 loads table_3 and selects the first condition.
func NewKovalenko2016(rec types.Record, env registry.Env) (types.Evaluator, error) {
	tbl, err := env.OpenTable(rec, "table_3")
	if err != nil {
		return nil, err
	}
	conds, err := tbl.Column(0, 1)
	if err != nil {
		return nil, fmt.Errorf("reading condition column: %w", err)
	}
	if len(conds) == 0 {
		return nil, fmt.Errorf("%s: %w: no conditions", tbl.Path, types.ErrTableLayout)
	}
	lo, hi := conds[0], conds[0]
	for _, c := range conds {
		lo = min(lo, c)
		hi = max(hi, c)
	}
	m := &Kovalenko2016{
		base: newBase(rec, units.Years, unitMM, []types.ParameterLimit{
			integer("condition", "Temperature and dissolved inorganic nitrogen condition", int(lo), int(hi), int(lo)),
		}),
		table: tbl,
	}
	if err := m.Configure(nil); err != nil {
		return nil, err
	}
	return m, nil
}

// Configure reads c_s and r_s of the condition row.
func (m *Kovalenko2016) Configure(params types.ParameterSet) error {
	p, err := m.apply(params)
	if err != nil {
		return err
	}
	cond := p.IntOr("condition", 1)
	row := -1
	for r := 1; r < m.table.Rows(); r++ {
		if v, err := m.table.Float(r, 0); err == nil && int(v) == cond {
			row = r
			break
		}
	}
	if row < 0 {
		return invalid("condition", cond, "not listed in the condition table")
	}
	if m.cs, err = m.table.Float(row, 3); err != nil {
		return fmt.Errorf("reading c_s: %w", err)
	}
	if m.rs, err = m.table.Float(row, 4); err != nil {
		return fmt.Errorf("reading r_s: %w", err)
	}
	return nil
}

// Coefficients returns the configured c_s and r_s.
func (m *Kovalenko2016) Coefficients() (cs, rs float64) { return m.cs, m.rs }

// Loss returns c_s + r_s·t.
func (m *Kovalenko2016) Loss(t float64) float64 { return m.cs + m.rs*t }

// GrowthRate returns r_s.
func (m *Kovalenko2016) GrowthRate(float64) float64 { return m.rs }
