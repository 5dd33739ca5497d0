package models

import (
	"math"

	"github.com/mesh-intelligence/corrosim/internal/lookup"
	"github.com/mesh-intelligence/corrosim/internal/registry"
	"github.com/mesh-intelligence/corrosim/internal/units"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Reference distances from the coastline in metres.
var ma2010Distances = []float64{25, 95, 375}

// ma2010Sites holds ln(A) and n at each reference distance, per site.
var ma2010Sites = []struct {
	name string
	logA []float64
	n    []float64
}{
	{"Site I", []float64{0.13548, 0.52743, 0.44306}, []float64{2.86585, 2.18778, 1.55029}},
	{"Site II", []float64{1.5095, 1.5981, 1.26836}, []float64{1.15232, 1.05915, 0.76748}},
}

// Ma2010 is a power law A·t^n whose ln(A) and n are interpolated linearly in
// the distance from the coastline between three reference distances.
type Ma2010 struct {
	base
	a, n float64
}

// NewMa2010 builds the evaluator at Site I, 25 m.
func NewMa2010(rec types.Record, _ registry.Env) (types.Evaluator, error) {
	m := &Ma2010{
		base: newBase(rec, units.Years, unitMicron, []types.ParameterLimit{
			integer("corrosion_site", "Exposure site (1 = Site I, 2 = Site II)", 1, len(ma2010Sites), 1),
			number("distance", "Distance from the coastline", "m", 25, 375, 25.0),
		}),
	}
	if err := m.Configure(nil); err != nil {
		return nil, err
	}
	return m, nil
}

// Configure interpolates the coefficients for the site and distance. A
// distance equal to a reference distance uses the tabulated values as is.
func (m *Ma2010) Configure(params types.ParameterSet) error {
	p, err := m.apply(params)
	if err != nil {
		return err
	}
	site := ma2010Sites[p.IntOr("corrosion_site", 1)-1]
	d := p.FloatOr("distance", 25)

	logA, err := lookup.NewLinear(ma2010Distances, site.logA)
	if err != nil {
		return err
	}
	n, err := lookup.NewLinear(ma2010Distances, site.n)
	if err != nil {
		return err
	}
	m.a = math.Exp(logA.At(d))
	m.n = n.At(d)
	return nil
}

// Coefficients returns the configured A and n.
func (m *Ma2010) Coefficients() (a, n float64) { return m.a, m.n }

// Loss returns A·t^n.
func (m *Ma2010) Loss(t float64) float64 { return powerLaw(m.a, m.n, t) }
