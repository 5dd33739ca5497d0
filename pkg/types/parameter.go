package types

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ParameterSet maps parameter keys to numeric, boolean or string values.
// Values may arrive as Go numbers, JSON numbers or strings; the typed
// accessors convert on read.
type ParameterSet map[string]any

// Has reports whether key is set.
func (p ParameterSet) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Clone returns a shallow copy of p. A nil set clones to an empty set.
func (p ParameterSet) Clone() ParameterSet {
	out := make(ParameterSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Float returns the value of key as a float64.
func (p ParameterSet) Float(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("parameter %s: %w", key, ErrNotFound)
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("parameter %s: %w: %T", key, ErrTypeMismatch, v)
	}
	return f, nil
}

// FloatOr returns the value of key, or def when it is unset or not numeric.
func (p ParameterSet) FloatOr(key string, def float64) float64 {
	f, err := p.Float(key)
	if err != nil {
		return def
	}
	return f
}

// Int returns the value of key as an int. Fractional values are rejected.
func (p ParameterSet) Int(key string) (int, error) {
	f, err := p.Float(key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("parameter %s: %w: %g is not an integer", key, ErrTypeMismatch, f)
	}
	return int(f), nil
}

// IntOr returns the value of key, or def when it is unset or not an integer.
func (p ParameterSet) IntOr(key string, def int) int {
	i, err := p.Int(key)
	if err != nil {
		return def
	}
	return i
}

// Bool returns the value of key as a bool.
func (p ParameterSet) Bool(key string) (bool, error) {
	v, ok := p[key]
	if !ok {
		return false, fmt.Errorf("parameter %s: %w", key, ErrNotFound)
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, fmt.Errorf("parameter %s: %w: %q", key, ErrTypeMismatch, b)
		}
		return parsed, nil
	}
	if f, ok := toFloat(v); ok {
		return f != 0, nil
	}
	return false, fmt.Errorf("parameter %s: %w: %T", key, ErrTypeMismatch, v)
}

// BoolOr returns the value of key, or def when it is unset or not boolean.
func (p ParameterSet) BoolOr(key string, def bool) bool {
	b, err := p.Bool(key)
	if err != nil {
		return def
	}
	return b
}

// String returns the value of key formatted as a string.
func (p ParameterSet) String(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("parameter %s: %w", key, ErrNotFound)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	}
	return fmt.Sprint(v), nil
}

// StringOr returns the value of key, or def when it is unset.
func (p ParameterSet) StringOr(key, def string) string {
	s, err := p.String(key)
	if err != nil {
		return def
	}
	return s
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// LimitKind is the value type accepted by a ParameterLimit.
type LimitKind string

// Parameter value kinds.
const (
	LimitNumber  LimitKind = "number"
	LimitInteger LimitKind = "integer"
	LimitBool    LimitKind = "bool"
	LimitChoice  LimitKind = "choice"
	LimitText    LimitKind = "text"
)

// ParameterLimit declares one parameter an evaluator accepts together with
// its valid range. Number and integer limits are inclusive on both ends.
type ParameterLimit struct {
	Key         string
	Description string
	Unit        string
	Kind        LimitKind
	Lower       float64
	Upper       float64
	Choices     []string
	Default     any
	Optional    bool
}

// Range returns the bounds as display text.
func (l ParameterLimit) Range() string {
	switch l.Kind {
	case LimitNumber:
		return fmt.Sprintf("%g..%g %s", l.Lower, l.Upper, l.Unit)
	case LimitInteger:
		return fmt.Sprintf("%d..%d", int(l.Lower), int(l.Upper))
	case LimitChoice:
		return strings.Join(l.Choices, "|")
	case LimitBool:
		return "true|false"
	}
	return ""
}

// validate is shared by every Validate call; validator.Validate caches
// parsed tags and is safe for concurrent use.
var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("finite", validateFinite); err != nil {
		panic(err)
	}
}

func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Defaults returns a ParameterSet holding every declared default.
func Defaults(schema []ParameterLimit) ParameterSet {
	out := make(ParameterSet, len(schema))
	for _, l := range schema {
		if l.Default != nil {
			out[l.Key] = l.Default
		}
	}
	return out
}

// WithDefaults returns a copy of params with unset keys filled from schema.
func WithDefaults(schema []ParameterLimit, params ParameterSet) ParameterSet {
	out := Defaults(schema)
	for k, v := range params {
		out[k] = v
	}
	return out
}

// Validate checks params against schema. Missing required keys, values of
// the wrong type, values outside the declared bounds and keys the schema
// does not declare are all collected into one *ValidationError.
func Validate(schema []ParameterLimit, params ParameterSet) error {
	var errs []ParameterError
	declared := make(map[string]bool, len(schema))

	for _, l := range schema {
		declared[l.Key] = true
		v, ok := params[l.Key]
		if !ok {
			if !l.Optional && l.Default == nil {
				errs = append(errs, ParameterError{Key: l.Key, Message: "required"})
			}
			continue
		}
		if msg := checkLimit(l, params); msg != "" {
			errs = append(errs, ParameterError{Key: l.Key, Value: v, Message: msg})
		}
	}

	var unknown []string
	for k := range params {
		if !declared[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		errs = append(errs, ParameterError{Key: k, Value: params[k], Message: "not a parameter of this model"})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func checkLimit(l ParameterLimit, params ParameterSet) string {
	switch l.Kind {
	case LimitNumber:
		f, err := params.Float(l.Key)
		if err != nil {
			return "must be a number"
		}
		tag := fmt.Sprintf("finite,gte=%g,lte=%g", l.Lower, l.Upper)
		if err := validate.Var(f, tag); err != nil {
			return fmt.Sprintf("must be within %g..%g %s", l.Lower, l.Upper, l.Unit)
		}
	case LimitInteger:
		i, err := params.Int(l.Key)
		if err != nil {
			return "must be an integer"
		}
		tag := fmt.Sprintf("gte=%d,lte=%d", int(l.Lower), int(l.Upper))
		if err := validate.Var(i, tag); err != nil {
			return fmt.Sprintf("must be within %d..%d", int(l.Lower), int(l.Upper))
		}
	case LimitBool:
		if _, err := params.Bool(l.Key); err != nil {
			return "must be true or false"
		}
	case LimitChoice:
		s, err := params.String(l.Key)
		if err != nil {
			return "must be one of " + strings.Join(l.Choices, ", ")
		}
		if err := validate.Var(s, "oneof="+strings.Join(l.Choices, " ")); err != nil {
			return "must be one of " + strings.Join(l.Choices, ", ")
		}
	}
	return ""
}
