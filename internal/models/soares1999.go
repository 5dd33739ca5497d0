package models

import (
	"math"

	"github.com/mesh-intelligence/corrosim/internal/registry"
	"github.com/mesh-intelligence/corrosim/internal/units"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Soares1999 is the coated-plate wastage model: nothing is lost while the
// coating lasts (t < t_c), after which the thickness loss approaches d_inf
// exponentially with transition time t_t.
type Soares1999 struct {
	base
	dInf, tc, tt float64
}

// NewSoares1999 builds the evaluator with d_inf = 1 mm, t_c = 0, t_t = 1.
func NewSoares1999(rec types.Record, _ registry.Env) (types.Evaluator, error) {
	m := &Soares1999{
		base: newBase(rec, units.Years, unitMM, []types.ParameterLimit{
			number("d_inf", "Long-term thickness of corrosion wastage", "mm", 0.001, 1000, 1.0),
			number("t_c", "Coating life", "years", 0, 100, 0.0),
			number("t_t", "Transition time", "years", 0, 100, 1.0),
		}),
	}
	if err := m.Configure(nil); err != nil {
		return nil, err
	}
	return m, nil
}

// Configure stores d_inf, t_c and t_t.
func (m *Soares1999) Configure(params types.ParameterSet) error {
	p, err := m.apply(params)
	if err != nil {
		return err
	}
	m.dInf = p.FloatOr("d_inf", 1)
	m.tc = p.FloatOr("t_c", 0)
	m.tt = p.FloatOr("t_t", 1)
	return nil
}

// Loss returns 0 for t < t_c and d_inf·(1 − exp(−(t − t_c)/t_t)) otherwise.
// With t_t = 0 the full wastage d_inf is reached as soon as t exceeds t_c.
func (m *Soares1999) Loss(t float64) float64 {
	if t < m.tc {
		return 0
	}
	if m.tt == 0 {
		if t == m.tc {
			return 0
		}
		return m.dInf
	}
	return m.dInf * (1 - math.Exp(-(t-m.tc)/m.tt))
}
