// Package models implements the empirical corrosion-loss evaluators and the
// measurement readers, and the identifier tables that register them.
package models

import (
	"math"

	"github.com/mesh-intelligence/corrosim/internal/units"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Loss units used by the evaluators.
const (
	unitMicron = "μm"
	unitMM     = "mm"
	unitGram   = "g"
)

// base holds what every evaluator shares: its record, units, declared
// schema and the configured parameters.
type base struct {
	rec    types.Record
	units  types.Units
	schema []types.ParameterLimit
	params types.ParameterSet
}

func newBase(rec types.Record, time units.Time, loss string, schema []types.ParameterLimit) base {
	return base{
		rec:    rec,
		units:  types.Units{Time: string(time), Loss: loss},
		schema: schema,
	}
}

func (b *base) Identifier() string { return b.rec.Identifier }

func (b *base) Title() string {
	if b.rec.Title != "" {
		return b.rec.Title
	}
	return b.rec.Identifier
}

func (b *base) Units() types.Units { return b.units }

func (b *base) Schema() []types.ParameterLimit {
	out := make([]types.ParameterLimit, len(b.schema))
	copy(out, b.schema)
	return out
}

// Parameters returns a copy of the configured parameter set, defaults
// included.
func (b *base) Parameters() types.ParameterSet { return b.params.Clone() }

// Record returns the record the evaluator was built from.
func (b *base) Record() types.Record { return b.rec }

// apply fills defaults, validates and stores params.
func (b *base) apply(params types.ParameterSet) (types.ParameterSet, error) {
	full := types.WithDefaults(b.schema, params)
	if err := types.Validate(b.schema, full); err != nil {
		return nil, err
	}
	b.params = full
	return full, nil
}

// invalid wraps one parameter problem found while configuring.
func invalid(key string, value any, msg string) error {
	return &types.ValidationError{Errors: []types.ParameterError{{Key: key, Value: value, Message: msg}}}
}

// powerLaw is A·t^n with 0 at t <= 0.
func powerLaw(a, n, t float64) float64 {
	if t <= 0 {
		return 0
	}
	return a * math.Pow(t, n)
}

func number(key, desc, unit string, lower, upper float64, def any) types.ParameterLimit {
	return types.ParameterLimit{Key: key, Description: desc, Unit: unit, Kind: types.LimitNumber, Lower: lower, Upper: upper, Default: def}
}

func integer(key, desc string, lower, upper int, def any) types.ParameterLimit {
	return types.ParameterLimit{Key: key, Description: desc, Kind: types.LimitInteger, Lower: float64(lower), Upper: float64(upper), Default: def}
}

func optional(l types.ParameterLimit) types.ParameterLimit {
	l.Default = nil
	l.Optional = true
	return l
}
