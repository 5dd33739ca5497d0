package models

import (
	"fmt"

	"github.com/mesh-intelligence/corrosim/internal/registry"
	"github.com/mesh-intelligence/corrosim/internal/tables"
	"github.com/mesh-intelligence/corrosim/internal/units"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Benarie1986 is a power law A·t^n whose coefficients are read from the
// row of table_2 chosen by corrosion_site. Row 0 is the header; column 0
// names the site, columns 1 and 2 hold A and n.
type Benarie1986 struct {
	base
	table *tables.Table
	a, n  float64
}

// NewBenarie1986 loads table_2 of rec and configures the first site.
func NewBenarie1986(rec types.Record, env registry.Env) (types.Evaluator, error) {
	tbl, err := env.OpenTable(rec, "table_2")
	if err != nil {
		return nil, err
	}
	if tbl.Rows() < 2 {
		return nil, fmt.Errorf("%s: %w: no site rows", tbl.Path, types.ErrTableLayout)
	}
	m := &Benarie1986{
		base: newBase(rec, units.Years, unitMicron, []types.ParameterLimit{
			integer("corrosion_site", "Exposure site (row of the site table)", 1, tbl.Rows()-1, 1),
		}),
		table: tbl,
	}
	if err := m.Configure(nil); err != nil {
		return nil, err
	}
	return m, nil
}

// Configure selects the site row.
func (m *Benarie1986) Configure(params types.ParameterSet) error {
	p, err := m.apply(params)
	if err != nil {
		return err
	}
	site := p.IntOr("corrosion_site", 1)
	a, err := m.table.Float(site, 1)
	if err != nil {
		return fmt.Errorf("reading A for site %d: %w", site, err)
	}
	n, err := m.table.Float(site, 2)
	if err != nil {
		return fmt.Errorf("reading n for site %d: %w", site, err)
	}
	m.a, m.n = a, n
	return nil
}

// Sites returns the site names in row order, starting at row 1.
func (m *Benarie1986) Sites() []string {
	var out []string
	for r := 1; r < m.table.Rows(); r++ {
		s, _ := m.table.String(r, 0)
		out = append(out, s)
	}
	return out
}

// Coefficients returns the configured A and n.
func (m *Benarie1986) Coefficients() (a, n float64) { return m.a, m.n }

// Loss returns A·t^n.
func (m *Benarie1986) Loss(t float64) float64 { return powerLaw(m.a, m.n, t) }
