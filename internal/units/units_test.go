package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		label string
		want  Time
	}{
		{"", Years},
		{"years", Years},
		{" a ", Years},
		{"Days", Days},
		{"d", Days},
		{"h", Hours},
		{"Hours", Hours},
		{"weeks", Weeks},
		{"month", Months},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := ParseTime(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseTime("fortnights")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestConversions(t *testing.T) {
	assert.InDelta(t, 1.0, Hours.ToYears(8760), 1e-12)
	assert.InDelta(t, 2.0, Days.ToYears(730), 1e-12)
	assert.InDelta(t, 365.0, Days.FromYears(1), 1e-12)
	assert.InDelta(t, 0.5, Months.ToYears(6), 1e-12)
	assert.Equal(t, 3.0, Years.ToYears(3))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "h", Bracket("Time [h]"))
	assert.Equal(t, "mg", Bracket("Loss [a] [mg]"))
	assert.Equal(t, "", Bracket("Time"))
	assert.Equal(t, "Time [years]", TimeLabel(Years))
	assert.Equal(t, "Mass loss [μm]", LossLabel(""))
	assert.Equal(t, "Mass loss [g/m²]", LossLabel(" g/m² "))
}
