package models

import (
	"github.com/mesh-intelligence/corrosim/internal/registry"
	"github.com/mesh-intelligence/corrosim/internal/units"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// hicksTerm is one water-quality parameter with its fitted multiplier and
// constant.
type hicksTerm struct {
	key, desc, unit string
	upper           float64
	mult, constant  float64
}

var hicksTerms = []hicksTerm{
	{"alkalinity", "Alkalinity", "mg/L", 1000, 0.0014, -0.0103},
	{"chloride", "Chloride", "mg/L", 20000, 0.0055, 0.0382},
	{"sulfate", "Sulfate", "mg/L", 5000, 0.0008, 0.0735},
	{"larson_skold_index", "Larson Skold Index", "", 100, 0.0372, 0.0751},
	{"conductivity", "Conductivity", "μS/cm", 60000, 0.0004, 0.0052},
	{"ph", "pH", "", 14, -0.0155, 0.2113},
	{"dissolved_organic_carbon", "Dissolved Organic Carbon", "mg/L", 100, 0.0016, 0.0683},
	{"dissolved_copper", "Dissolved Copper", "mg/L", 10, 3.785, 0.0803},
	{"dissolved_oxygen", "Dissolved Oxygen", "mg/L", 20, -0.0151, 0.2306},
}

// Hicks2012 is a linear-additive immersion model: each water-quality
// parameter adds multiplier·value + constant to the corrosion rate, except
// that a parameter equal to 0 adds nothing. Loss is rate·t.
type Hicks2012 struct {
	base
	rate float64
}

// NewHicks2012 builds the evaluator with every parameter at 0.
func NewHicks2012(rec types.Record, _ registry.Env) (types.Evaluator, error) {
	schema := make([]types.ParameterLimit, len(hicksTerms))
	for i, term := range hicksTerms {
		schema[i] = number(term.key, term.desc, term.unit, 0, term.upper, 0.0)
	}
	m := &Hicks2012{base: newBase(rec, units.Years, unitMM, schema)}
	if err := m.Configure(nil); err != nil {
		return nil, err
	}
	return m, nil
}

// Configure sums the contributions.
func (m *Hicks2012) Configure(params types.ParameterSet) error {
	p, err := m.apply(params)
	if err != nil {
		return err
	}
	values := make(map[string]float64, len(hicksTerms))
	for _, term := range hicksTerms {
		values[term.key] = p.FloatOr(term.key, 0)
	}
	m.rate = HicksRate(values)
	return nil
}

// HicksRate returns the corrosion rate in mm/year for the given parameter
// values. Missing and zero-valued parameters contribute nothing.
func HicksRate(values map[string]float64) float64 {
	var rate float64
	for _, term := range hicksTerms {
		v := values[term.key]
		if v == 0 {
			continue
		}
		rate += term.mult*v + term.constant
	}
	return rate
}

// Rate returns the configured corrosion rate.
func (m *Hicks2012) Rate() float64 { return m.rate }

// Loss returns rate·t.
func (m *Hicks2012) Loss(t float64) float64 { return m.rate * t }

// GrowthRate returns the constant rate.
func (m *Hicks2012) GrowthRate(float64) float64 { return m.rate }
