package types

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterSetAccessors(t *testing.T) {
	p := ParameterSet{
		"f":    12.5,
		"s":    " 3.25 ",
		"n":    json.Number("7"),
		"i":    4,
		"b":    true,
		"bs":   "false",
		"name": "average",
	}

	f, err := p.Float("f")
	require.NoError(t, err)
	assert.Equal(t, 12.5, f)

	f, err = p.Float("s")
	require.NoError(t, err)
	assert.Equal(t, 3.25, f)

	i, err := p.Int("n")
	require.NoError(t, err)
	assert.Equal(t, 7, i)

	_, err = p.Int("f")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	b, err := p.Bool("bs")
	require.NoError(t, err)
	assert.False(t, b)
	assert.True(t, p.BoolOr("b", false))

	_, err = p.Float("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 9.0, p.FloatOr("missing", 9))
	assert.Equal(t, "average", p.StringOr("name", ""))

	_, err = p.Float("name")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestParameterSetClone(t *testing.T) {
	p := ParameterSet{"a": 1.0}
	c := p.Clone()
	c["a"] = 2.0
	assert.Equal(t, 1.0, p["a"])

	var nilSet ParameterSet
	assert.NotNil(t, nilSet.Clone())
}

func testSchema() []ParameterLimit {
	return []ParameterLimit{
		{Key: "T", Kind: LimitNumber, Lower: -17.1, Upper: 28.7, Unit: "°C"},
		{Key: "site", Kind: LimitInteger, Lower: 1, Upper: 2, Default: 1},
		{Key: "binary", Kind: LimitBool, Optional: true},
		{Key: "limit", Kind: LimitChoice, Choices: []string{"lower", "upper", "average"}, Optional: true},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		params   ParameterSet
		wantKeys []string
	}{
		{name: "all valid", params: ParameterSet{"T": 10.0, "site": 2, "binary": true, "limit": "upper"}},
		{name: "bounds are inclusive", params: ParameterSet{"T": 28.7}},
		{name: "string number accepted", params: ParameterSet{"T": "-17.1"}},
		{name: "missing required", params: ParameterSet{}, wantKeys: []string{"T"}},
		{name: "above upper", params: ParameterSet{"T": 30.0}, wantKeys: []string{"T"}},
		{name: "below lower", params: ParameterSet{"T": -20.0}, wantKeys: []string{"T"}},
		{name: "NaN rejected", params: ParameterSet{"T": math.NaN()}, wantKeys: []string{"T"}},
		{name: "integer out of range", params: ParameterSet{"T": 0.0, "site": 3}, wantKeys: []string{"site"}},
		{name: "fractional integer", params: ParameterSet{"T": 0.0, "site": 1.5}, wantKeys: []string{"site"}},
		{name: "bad bool", params: ParameterSet{"T": 0.0, "binary": "maybe"}, wantKeys: []string{"binary"}},
		{name: "bad choice", params: ParameterSet{"T": 0.0, "limit": "median"}, wantKeys: []string{"limit"}},
		{name: "unknown key", params: ParameterSet{"T": 0.0, "Tw": 0.5}, wantKeys: []string{"Tw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(testSchema(), tt.params)
			if tt.wantKeys == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantKeys, verr.Keys())
		})
	}
}

func TestFiniteTag(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"zero", 0, true},
		{"negative", -3.5, true},
		{"NaN", math.NaN(), false},
		{"positive infinity", math.Inf(1), false},
		{"negative infinity", math.Inf(-1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { err = validate.Var(tt.v, "finite") })
			assert.Equal(t, tt.ok, err == nil, err)
		})
	}
}

func TestWithDefaults(t *testing.T) {
	got := WithDefaults(testSchema(), ParameterSet{"T": 5.0})
	assert.Equal(t, ParameterSet{"T": 5.0, "site": 1}, got)
}
