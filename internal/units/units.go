// Package units parses time-unit labels and converts between them.
// All plot comparisons run on years.
package units

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownUnit is returned for a time-unit label that ParseTime does not
// recognise.
var ErrUnknownUnit = errors.New("unknown time unit")

// Time is a canonical time unit.
type Time string

// Supported time units.
const (
	Years  Time = "years"
	Months Time = "months"
	Weeks  Time = "weeks"
	Days   Time = "days"
	Hours  Time = "hours"
)

// Default axis labels.
const (
	DefaultLossUnit = "μm"
	LossQuantity    = "Mass loss"
	TimeQuantity    = "Time"
)

var aliases = map[string]Time{
	"years": Years, "year": Years, "yrs": Years, "yr": Years, "y": Years, "a": Years,
	"months": Months, "month": Months, "mo": Months,
	"weeks": Weeks, "week": Weeks, "wk": Weeks, "w": Weeks,
	"days": Days, "day": Days, "d": Days,
	"hours": Hours, "hour": Hours, "hrs": Hours, "hr": Hours, "h": Hours,
}

var perYear = map[Time]float64{
	Years:  1,
	Months: 12,
	Weeks:  365.0 / 7.0,
	Days:   365,
	Hours:  365 * 24,
}

// ParseTime maps a unit label such as "h", "Days" or "years" to a Time.
// An empty label means years.
func ParseTime(label string) (Time, error) {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" {
		return Years, nil
	}
	if u, ok := aliases[s]; ok {
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, label)
}

// PerYear returns how many u fit in one year.
func (u Time) PerYear() float64 {
	if f, ok := perYear[u]; ok {
		return f
	}
	return 1
}

// ToYears converts v expressed in u to years.
func (u Time) ToYears(v float64) float64 {
	return v / u.PerYear()
}

// FromYears converts v years to u.
func (u Time) FromYears(v float64) float64 {
	return v * u.PerYear()
}

// Bracket returns the text inside the last [...] pair of label, or "".
func Bracket(label string) string {
	end := strings.LastIndex(label, "]")
	if end < 0 {
		return ""
	}
	start := strings.LastIndex(label[:end], "[")
	if start < 0 {
		return ""
	}
	return strings.TrimSpace(label[start+1 : end])
}

// TimeLabel is the x-axis label for u.
func TimeLabel(u Time) string {
	return fmt.Sprintf("%s [%s]", TimeQuantity, u)
}

// LossLabel is the y-axis label for a loss unit. An empty unit means μm.
func LossLabel(unit string) string {
	if strings.TrimSpace(unit) == "" {
		unit = DefaultLossUnit
	}
	return fmt.Sprintf("%s [%s]", LossQuantity, strings.TrimSpace(unit))
}
