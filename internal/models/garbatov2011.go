package models

import (
	"math"

	"github.com/mesh-intelligence/corrosim/internal/registry"
	"github.com/mesh-intelligence/corrosim/internal/units"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Garbatov2011 is a multiplicative immersion model. Temperature, dissolved
// oxygen and flow velocity each add a nominal rate and each scale the sum
// by a modifier; loss grows linearly at the resulting rate.
type Garbatov2011 struct {
	base
	rate float64
}

// NewGarbatov2011 builds the evaluator at 15.5 °C, 5 ml/l and still water.
func NewGarbatov2011(rec types.Record, _ registry.Env) (types.Evaluator, error) {
	m := &Garbatov2011{
		base: newBase(rec, units.Years, unitMM, []types.ParameterLimit{
			number("T", "Temperature", "°C", 0, 40, 15.5),
			number("DO", "Dissolved oxygen concentration", "ml/l", 0, 12, 5.0),
			number("V", "Flow velocity", "m/s", 0, 10, 0.0),
		}),
	}
	if err := m.Configure(nil); err != nil {
		return nil, err
	}
	return m, nil
}

// Configure computes the corrosion rate.
func (m *Garbatov2011) Configure(params types.ParameterSet) error {
	p, err := m.apply(params)
	if err != nil {
		return err
	}
	m.rate = GarbatovRate(p.FloatOr("T", 0), p.FloatOr("DO", 0), p.FloatOr("V", 0))
	return nil
}

// GarbatovRate returns the corrosion rate in mm/year.
func GarbatovRate(temp, do, v float64) float64 {
	dT := 0.0014*temp + 0.0154
	fT := temp / 15.5

	dDO := 0.0268*do + 0.0086
	fDO := 0.9483*do + 0.0517

	dV := 0.9338 * (1 - math.Exp(-0.4457*(v+0.2817)))
	fV := 1.0978 * (1 - math.Exp(-2.2927*(v+0.0548)))

	return fT * fDO * fV * (dT + dDO + dV)
}

// Rate returns the configured corrosion rate.
func (m *Garbatov2011) Rate() float64 { return m.rate }

// Loss returns rate·t.
func (m *Garbatov2011) Loss(t float64) float64 { return m.rate * t }

// GrowthRate returns the constant rate.
func (m *Garbatov2011) GrowthRate(float64) float64 { return m.rate }
