package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordReferenceID(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"linked reference wins", Record{Identifier: "model_ma2010", Reference: &Reference{Identifier: "ma2010-paper"}}, "ma2010-paper"},
		{"model prefix trimmed", Record{Identifier: "model_ma2010"}, "ma2010"},
		{"measurement prefix trimmed", Record{Identifier: "exp_data_ali2020"}, "ali2020"},
		{"empty reference ignored", Record{Identifier: "iso", Reference: &Reference{}}, "iso"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.ReferenceID())
		})
	}
}

func TestRecordFormulaText(t *testing.T) {
	rec := Record{Formula: []FormulaEntry{{Value: "loss = A*t^n"}, {Key: "A", Value: "coefficient"}}}
	assert.Equal(t, "loss = A*t^n\nA: coefficient", rec.FormulaText())
	assert.True(t, Record{Tags: []string{"x", "y"}}.HasTag("y"))
}

func TestRecordJSONKeys(t *testing.T) {
	rec := Record{
		Identifier:    "model_ma2010",
		Title:         "Ma 2010",
		SpecialNote:   "Seawater only",
		Tags:          []string{"uniform corrosion model"},
		Reference:     &Reference{Identifier: "ma2010", DOI: "10.1/x"},
		Parameters:    []ParameterField{{Key: "T", Type: "float"}},
		ParameterText: "T",
		Files:         []FileRef{{Name: "t.csv", MimeType: "text/csv"}},
		Creator:       &Creator{DisplayName: "A. Author"},
		CreatedAt:     time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		Kind:          KindModel,
		Path:          "models/ma.json",
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var keys map[string]any
	require.NoError(t, json.Unmarshal(data, &keys))
	for _, k := range []string{"identifier", "title", "special_note", "tags", "reference", "parameters", "parameter_text", "files", "creator", "created_at", "kind", "path"} {
		assert.Contains(t, keys, k)
	}
	assert.NotContains(t, keys, "Identifier")
	assert.NotContains(t, keys, "last_modified")
	assert.Contains(t, string(data), `"mime_type":"text/csv"`)
	assert.Contains(t, string(data), `"display_name":"A. Author"`)

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec, back)
}

func TestErrorsMatchSentinels(t *testing.T) {
	assert.ErrorIs(t, &ParseError{Path: "a.json", Err: ErrMissingUnitRow}, ErrParse)
	assert.ErrorIs(t, &ParseError{Path: "a.json", Err: ErrMissingUnitRow}, ErrMissingUnitRow)
	assert.ErrorIs(t, &ClassificationError{Identifier: "x", Kind: KindModel}, ErrClassification)
	assert.ErrorIs(t, &UnknownModelError{Identifier: "x"}, ErrUnknownModel)
	assert.ErrorIs(t, &ValidationError{}, ErrValidation)
}
