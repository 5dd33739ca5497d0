package models

import (
	"fmt"

	"github.com/mesh-intelligence/corrosim/internal/registry"
	"github.com/mesh-intelligence/corrosim/internal/units"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// FeliuManualAtmosphere selects the closed-form exponent instead of a
// tabulated one.
const FeliuManualAtmosphere = 3

// Feliu1993 computes an annual corrosion A from chloride and SO2 deposition,
// temperature and wetness time, and a time exponent n that is either
// tabulated per atmosphere (table_4 row 1, columns 1..3) or computed from
// the pollution levels and the number of rainy days. Loss is A·t^n.
type Feliu1993 struct {
	base
	exponents   []float64
	atmospheres []string
	annual, n   float64
}

// NewFeliu1993 loads table_2 for the input defaults and table_4 for the
// tabulated exponents.
func NewFeliu1993(rec types.Record, env registry.Env) (types.Evaluator, error) {
	t4, err := env.OpenTable(rec, "table_4")
	if err != nil {
		return nil, err
	}
	m := &Feliu1993{}
	for c := 1; c <= FeliuManualAtmosphere; c++ {
		n, err := t4.Float(1, c)
		if err != nil {
			return nil, fmt.Errorf("reading exponent of atmosphere %d: %w", c, err)
		}
		name, _ := t4.String(0, c)
		m.exponents = append(m.exponents, n)
		m.atmospheres = append(m.atmospheres, name)
	}

	t2, err := env.OpenTable(rec, "table_2")
	if err != nil {
		return nil, err
	}
	def := func(row int) (float64, error) {
		v, err := t2.Float(row, 2)
		if err != nil {
			return 0, fmt.Errorf("reading default from table_2: %w", err)
		}
		return v, nil
	}
	pollution, err := def(7)
	if err != nil {
		return nil, err
	}
	temp, err := def(6)
	if err != nil {
		return nil, err
	}
	wet, err := def(4)
	if err != nil {
		return nil, err
	}
	rainy, err := def(5)
	if err != nil {
		return nil, err
	}

	m.base = newBase(rec, units.Years, unitMicron, feliuSchema(pollution, temp, wet, rainy))
	if err := m.Configure(nil); err != nil {
		return nil, err
	}
	return m, nil
}

func feliuSchema(pollution, temp, wet, rainy float64) []types.ParameterLimit {
	return []types.ParameterLimit{
		{Key: "binary_interaction", Description: "Use the binary-interaction form of the annual corrosion", Kind: types.LimitBool, Default: true},
		integer("atmosphere", "Atmosphere category (0..2 tabulated, 3 manual exponent)", 0, FeliuManualAtmosphere, 0),
		number("Cl", "Chloride pollution annual average", "mg Cl⁻/(dm²⋅d)", 0, 10, pollution),
		number("SO2", "SO₂ pollution annual average", "mg SO₂/(dm²⋅d)", 0, 10, pollution),
		number("T", "Temperature", "°C", -20, 40, temp),
		number("Tw", "Wetness time", "annual fraction", 0, 1, wet),
		number("rainy_days", "Rainy days per year (manual exponent only)", "d", 0, 365, rainy),
	}
}

// Configure computes the annual corrosion and the exponent.
func (m *Feliu1993) Configure(params types.ParameterSet) error {
	p, err := m.apply(params)
	if err != nil {
		return err
	}
	cl := p.FloatOr("Cl", 0)
	so2 := p.FloatOr("SO2", 0)
	temp := p.FloatOr("T", 0)
	tw := p.FloatOr("Tw", 0)

	m.annual = FeliuAnnual(p.BoolOr("binary_interaction", true), cl, so2, temp, tw)

	atm := p.IntOr("atmosphere", 0)
	if atm < FeliuManualAtmosphere {
		m.n = m.exponents[atm]
		return nil
	}
	days := p.FloatOr("rainy_days", 0)
	m.n = 0.570 + 0.0057*cl*temp + 7.7e-4*days - 1.7e-3*m.annual
	return nil
}

// FeliuAnnual returns the annual corrosion in μm.
func FeliuAnnual(binary bool, cl, so2, temp, tw float64) float64 {
	if binary {
		return 132.4 * cl * (1 + 0.038*temp - 1.96*tw - 0.53*so2 + 74.6*tw*(1+1.07*so2) - 6.3)
	}
	return 33.0 + 57.4*cl + 26.6*so2
}

// Atmospheres returns the names of the tabulated atmosphere categories.
func (m *Feliu1993) Atmospheres() []string { return append([]string(nil), m.atmospheres...) }

// Annual returns the configured annual corrosion.
func (m *Feliu1993) Annual() float64 { return m.annual }

// Exponent returns the configured time exponent.
func (m *Feliu1993) Exponent() float64 { return m.n }

// Loss returns A·t^n.
func (m *Feliu1993) Loss(t float64) float64 { return powerLaw(m.annual, m.n, t) }
