package models

import (
	"fmt"
	"math"

	"github.com/mesh-intelligence/corrosim/internal/registry"
	"github.com/mesh-intelligence/corrosim/internal/units"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

const hoursPerYear = 365 * 24

// klineSmithCoeffs are A, B, C, D, E, F, G, H, J and T0 from table_2,
// row 1, columns 2 to 11.
type klineSmithCoeffs struct {
	A, B, C, D, E, F, G, H, J, T0 float64
}

// KlineSmith2007 is a multi-pollutant power law:
// A·t^B·(TOW·8760/C)^D·(1 + (SO2/E)^F)·(1 + (Cl/G)^H)·exp(J·(T + T0)).
// TOW is an annual fraction and is converted to hours of wetness per year.
type KlineSmith2007 struct {
	base
	k      klineSmithCoeffs
	factor float64
}

// NewKlineSmith2007 loads the coefficients from table_2.
func NewKlineSmith2007(rec types.Record, env registry.Env) (types.Evaluator, error) {
	tbl, err := env.OpenTable(rec, "table_2")
	if err != nil {
		return nil, err
	}
	var vals [10]float64
	for i := range vals {
		v, err := tbl.Float(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("reading coefficient %d: %w", i, err)
		}
		vals[i] = v
	}
	m := &KlineSmith2007{
		base: newBase(rec, units.Years, unitMicron, []types.ParameterLimit{
			number("T", "Temperature", "°C", -17.1, 28.7, -17.1),
			number("TOW", "Time of wetness", "annual fraction", 0, 1, 0.5),
			number("SO2", "SO₂ deposition", "mg/(m²⋅d)", 0.7, 150.4, 0.7),
			number("Cl", "Cl⁻ deposition", "mg/(m²⋅d)", 0.4, 760.5, 0.4),
		}),
		k: klineSmithCoeffs{vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6], vals[7], vals[8], vals[9]},
	}
	if err := m.Configure(nil); err != nil {
		return nil, err
	}
	return m, nil
}

// Configure computes the time-independent factor.
func (m *KlineSmith2007) Configure(params types.ParameterSet) error {
	p, err := m.apply(params)
	if err != nil {
		return err
	}
	k := m.k
	tow := p.FloatOr("TOW", 0)
	so2 := p.FloatOr("SO2", 0)
	cl := p.FloatOr("Cl", 0)
	temp := p.FloatOr("T", 0)

	m.factor = k.A *
		math.Pow(tow*hoursPerYear/k.C, k.D) *
		(1 + math.Pow(so2/k.E, k.F)) *
		(1 + math.Pow(cl/k.G, k.H)) *
		math.Exp(k.J*(temp+k.T0))
	return nil
}

// Loss returns the factor times t^B.
func (m *KlineSmith2007) Loss(t float64) float64 { return powerLaw(m.factor, m.k.B, t) }
