package models

import (
	"fmt"
	"math"

	"github.com/mesh-intelligence/corrosim/internal/lookup"
	"github.com/mesh-intelligence/corrosim/internal/registry"
	"github.com/mesh-intelligence/corrosim/internal/tables"
	"github.com/mesh-intelligence/corrosim/internal/units"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// ISO 9224 constants.
const (
	// ISOBreakpoint is the exposure time in years after which accumulation
	// continues linearly with the slope reached at the breakpoint.
	ISOBreakpoint = 20.0
	// ISODefaultExponent is the time exponent for carbon steel.
	ISODefaultExponent = 0.523

	isoCategories      = 6
	isoExponentFromRow = 6
)

// Corrosion speed selection for a corrosivity category.
const (
	SpeedLower   = "lower"
	SpeedUpper   = "upper"
	SpeedAverage = "average"
)

// ISO9223 is the dose-response model of ISO 9223 with the ISO 9224
// accumulation law. The first-year corrosion speed comes from, in order of
// precedence, corrosion_speed, the speed range of a corrosivity category
// (table_2) or the dose-response function of temperature, humidity and
// SO2 and Cl deposition. The exponent comes from exponent, from the
// exponent table (9224_table_3) at exponent_year, or defaults to 0.523.
type ISO9223 struct {
	base
	categories *tables.Table
	exponents  *tables.Table
	speed, n   float64
}

// NewISO9223 loads the category and exponent tables when they exist; both
// are optional.
func NewISO9223(rec types.Record, env registry.Env) (types.Evaluator, error) {
	m := &ISO9223{
		base: newBase(rec, units.Years, unitMicron, []types.ParameterLimit{
			optional(number("corrosion_speed", "First-year corrosion speed", "μm/a", 0, 1000, nil)),
			optional(integer("category", "Corrosivity category (1 = C1 .. 6 = CX)", 1, isoCategories, nil)),
			{Key: "speed_limit", Description: "Speed taken from the category range", Kind: types.LimitChoice,
				Choices: []string{SpeedLower, SpeedUpper, SpeedAverage}, Default: SpeedAverage},
			number("T", "Temperature", "°C", -17.1, 28.7, -17.1),
			number("RH", "Relative humidity", "%", 34, 93, 34.0),
			number("Pd", "SO₂ deposition", "mg/(m²⋅d)", 0.7, 150.4, 0.7),
			number("Sd", "Cl⁻ deposition", "mg/(m²⋅d)", 0.4, 760.5, 0.4),
			optional(number("exponent", "Time exponent", "", 0, 2, nil)),
			optional(number("exponent_year", "Exposure year used to look up the tabulated exponent", "years", 1, 100, nil)),
		}),
	}

	var err error
	if m.categories, err = env.OpenTable(rec, "table_2"); err != nil {
		env.Logger.V(1).Info("corrosivity category table unavailable", "identifier", rec.Identifier, "reason", err.Error())
	}
	if m.exponents, err = env.OpenTable(rec, "9224_table_3"); err != nil {
		env.Logger.V(1).Info("exponent table unavailable", "identifier", rec.Identifier, "reason", err.Error())
	}

	if err := m.Configure(nil); err != nil {
		return nil, err
	}
	return m, nil
}

// Configure resolves the corrosion speed and the exponent.
func (m *ISO9223) Configure(params types.ParameterSet) error {
	p, err := m.apply(params)
	if err != nil {
		return err
	}

	switch {
	case p.Has("corrosion_speed"):
		m.speed = p.FloatOr("corrosion_speed", 0)
	case p.Has("category"):
		speed, err := m.categorySpeed(p.IntOr("category", 1), p.StringOr("speed_limit", SpeedAverage))
		if err != nil {
			return err
		}
		m.speed = speed
	default:
		m.speed = ISOSpeed(p.FloatOr("T", 0), p.FloatOr("RH", 0), p.FloatOr("Pd", 0), p.FloatOr("Sd", 0))
	}

	switch {
	case p.Has("exponent"):
		m.n = p.FloatOr("exponent", ISODefaultExponent)
	case p.Has("exponent_year"):
		n, err := m.tabulatedExponent(p.FloatOr("exponent_year", 1))
		if err != nil {
			return err
		}
		m.n = n
	default:
		m.n = ISODefaultExponent
	}
	return nil
}

// categorySpeed reads the speed range of a category from table_2, row
// category, columns 2 (lower) and 3 (upper).
func (m *ISO9223) categorySpeed(category int, limit string) (float64, error) {
	if m.categories == nil {
		return 0, invalid("category", category, "corrosivity category table is not available")
	}
	lo, err := m.categories.Float(category, 2)
	if err != nil {
		return 0, fmt.Errorf("reading lower speed of category %d: %w", category, err)
	}
	hi, err := m.categories.Float(category, 3)
	if err != nil {
		return 0, fmt.Errorf("reading upper speed of category %d: %w", category, err)
	}
	switch limit {
	case SpeedLower:
		return lo, nil
	case SpeedUpper:
		return hi, nil
	}
	return (lo + hi) / 2, nil
}

// tabulatedExponent looks up the exponent for year in 9224_table_3, rows
// from 6 on, column 0 year and column 1 exponent.
func (m *ISO9223) tabulatedExponent(year float64) (float64, error) {
	if m.exponents == nil {
		return 0, invalid("exponent_year", year, "exponent table is not available")
	}
	years, exps, err := m.exponents.Pairs(0, 1, isoExponentFromRow)
	if err != nil {
		return 0, fmt.Errorf("reading exponent table: %w", err)
	}
	return lookup.Lookup(years, exps, year)
}

// ISOSpeed is the ISO 9223 dose-response function for carbon steel: the
// first-year corrosion speed in μm/a.
func ISOSpeed(temp, rh, pd, sd float64) float64 {
	var fst float64
	if temp <= 10 {
		fst = 0.15 * (temp - 10)
	} else {
		fst = -0.054 * (temp - 10)
	}
	return 1.77*math.Pow(pd, 0.52)*math.Exp(0.02*rh+fst) +
		0.102*math.Pow(sd, 0.62)*math.Exp(0.033*rh+0.04*temp)
}

// Speed returns the configured first-year corrosion speed.
func (m *ISO9223) Speed() float64 { return m.speed }

// Exponent returns the configured time exponent.
func (m *ISO9223) Exponent() float64 { return m.n }

// Loss returns speed·t^n before the breakpoint and continues linearly with
// the slope at the breakpoint afterwards. Each t takes its own branch. The
// published form n·speed·t^(n−1) for t < 20 is the GrowthRate value.
func (m *ISO9223) Loss(t float64) float64 {
	if t < ISOBreakpoint {
		return powerLaw(m.speed, m.n, t)
	}
	b := ISOBreakpoint
	return m.speed * (math.Pow(b, m.n) + m.n*math.Pow(b, m.n-1)*(t-b))
}

// GrowthRate returns dLoss/dt, and 0 for t <= 0.
func (m *ISO9223) GrowthRate(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t < ISOBreakpoint {
		return m.n * m.speed * math.Pow(t, m.n-1)
	}
	return m.n * m.speed * math.Pow(ISOBreakpoint, m.n-1)
}
