package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"

	"github.com/mesh-intelligence/corrosim/internal/registry"
	"github.com/mesh-intelligence/corrosim/internal/units"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Ali2020Measurement returns one column of the measured weight-change grid
// of table_4, selected by NaCl concentration.
type Ali2020Measurement struct {
	base
	grid *aliGrid
	col  int
}

// NewAli2020Measurement loads table_4.
func NewAli2020Measurement(rec types.Record, env registry.Env) (types.Measurement, error) {
	tbl, err := env.OpenTable(rec, "table_4")
	if err != nil {
		return nil, err
	}
	g, err := readAliGrid(tbl)
	if err != nil {
		return nil, err
	}
	m := &Ali2020Measurement{
		base: newBase(rec, aliTimeUnit, unitGram, []types.ParameterLimit{
			number("C", "Concentration of NaCl", "%w/w", g.concs[0], g.concs[len(g.concs)-1], g.concs[0]),
		}),
		grid: g,
	}
	if err := m.Configure(nil); err != nil {
		return nil, err
	}
	return m, nil
}

// Configure selects the concentration column. Only tabulated
// concentrations are accepted.
func (m *Ali2020Measurement) Configure(params types.ParameterSet) error {
	p, err := m.apply(params)
	if err != nil {
		return err
	}
	c := p.FloatOr("C", m.grid.concs[0])
	col := m.grid.column(c)
	if col < 0 {
		return invalid("C", c, fmt.Sprintf("not a tabulated concentration %v", m.grid.concs))
	}
	m.col = col
	return nil
}

// Concentrations returns the tabulated NaCl concentrations.
func (m *Ali2020Measurement) Concentrations() []float64 {
	return append([]float64(nil), m.grid.concs...)
}

// Series returns the selected column against exposure time.
func (m *Ali2020Measurement) Series() ([]types.MeasurementSeries, error) {
	ms := types.MeasurementSeries{
		Name:      fmt.Sprintf("%s (C = %g %%w/w)", m.Title(), m.grid.concs[m.col]),
		TimeUnit:  string(aliTimeUnit),
		ValueUnit: unitGram,
		XLabel:    units.TimeLabel(aliTimeUnit),
		YLabel:    units.LossLabel(unitGram),
	}
	for i, t := range m.grid.times {
		ms.Points = append(ms.Points, types.Point{X: t, Y: m.grid.values[m.col][i]})
	}
	return []types.MeasurementSeries{ms}, nil
}

// FileSeries reads every CSV file attached to a measurement record as a
// time-series file. Files without a unit row are reported and skipped.
type FileSeries struct {
	base
	env    registry.Env
	logger logr.Logger
}

// NewFileSeries builds a FileSeries. It fails when the record lists no CSV
// files.
func NewFileSeries(rec types.Record, env registry.Env) (types.Measurement, error) {
	m := &FileSeries{
		base:   newBase(rec, units.Years, "", nil),
		env:    env,
		logger: env.Logger,
	}
	if len(m.files()) == 0 {
		return nil, fmt.Errorf("%s: %w: no CSV files attached", rec.Identifier, types.ErrNotFound)
	}
	return m, nil
}

// Configure accepts no parameters.
func (m *FileSeries) Configure(params types.ParameterSet) error {
	_, err := m.apply(params)
	return err
}

func (m *FileSeries) files() []string {
	var out []string
	for _, f := range m.rec.Files {
		if strings.EqualFold(filepath.Ext(f.Name), ".csv") {
			out = append(out, f.Name)
		}
	}
	return out
}

// Series loads every attached file. It fails only when no file could be
// read.
func (m *FileSeries) Series() ([]types.MeasurementSeries, error) {
	var out []types.MeasurementSeries
	var rejected int
	for _, name := range m.files() {
		st, err := m.env.OpenSeries(m.rec, name)
		if err != nil {
			m.logger.Info("skipping series file", "identifier", m.rec.Identifier, "file", name, "reason", err.Error())
			rejected++
			continue
		}
		for _, s := range st.Series() {
			s.Name = m.Title() + ": " + s.Name
			out = append(out, s)
		}
	}
	if len(out) == 0 && rejected > 0 {
		return nil, fmt.Errorf("%s: %w: all %d series files rejected", m.rec.Identifier, types.ErrParse, rejected)
	}
	return out, nil
}
