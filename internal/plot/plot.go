// Package plot samples evaluators over a time range, merges measured series
// into the same figure and decides y scaling and panel grouping.
package plot

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/mesh-intelligence/corrosim/internal/units"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// DefaultResolution is the number of samples per curve.
const DefaultResolution = 400

// Plot errors.
var (
	ErrNothingToPlot     = errors.New("nothing to plot")
	ErrHorizonInvalid    = errors.New("horizon must be positive")
	ErrResolutionInvalid = errors.New("resolution must be at least 2")
)

// Request describes one comparison plot. Horizon is in years.
type Request struct {
	Title        string
	Current      types.Evaluator
	Models       []types.Evaluator
	Measurements []types.MeasurementSeries
	Horizon      float64
	Resolution   int
}

// Panel is a group of series sharing one pair of axis labels.
type Panel struct {
	XLabel string             `json:"x_label"`
	YLabel string             `json:"y_label"`
	Scale  Scale              `json:"scale"`
	Series []types.PlotSeries `json:"series"`
}

// Figure is the result of Compare.
type Figure struct {
	Title  string             `json:"title"`
	Scale  Scale              `json:"scale"`
	Series []types.PlotSeries `json:"series"`
	Panels []Panel            `json:"panels"`
}

// Compare samples the current evaluator and every comparison model over
// [0, Horizon] years and adds the measurements as scatter series. Curves and
// measurements are normalised to years before grouping.
func Compare(req Request) (Figure, error) {
	if req.Current == nil && len(req.Models) == 0 && len(req.Measurements) == 0 {
		return Figure{}, ErrNothingToPlot
	}
	if req.Resolution == 0 {
		req.Resolution = DefaultResolution
	}

	var series []types.PlotSeries
	if req.Current != nil {
		s, err := Sample(req.Current, req.Horizon, req.Resolution)
		if err != nil {
			return Figure{}, err
		}
		s.Name = req.Current.Title() + " (live)"
		s.Live = true
		series = append(series, s)
	}
	for i, m := range req.Models {
		s, err := Sample(m, req.Horizon, req.Resolution)
		if err != nil {
			return Figure{}, err
		}
		s.Name = fmt.Sprintf("%s (%d)", m.Title(), i+1)
		series = append(series, s)
	}
	for _, ms := range req.Measurements {
		s, err := Scatter(ms)
		if err != nil {
			return Figure{}, err
		}
		series = append(series, s)
	}

	return Figure{
		Title:  req.Title,
		Scale:  ChooseScale(series...),
		Series: series,
		Panels: Group(series),
	}, nil
}

// Sample evaluates e at resolution evenly spaced times in [0, horizon]
// years. The x values are years; e is called in its own time unit.
func Sample(e types.Evaluator, horizon float64, resolution int) (types.PlotSeries, error) {
	if !(horizon > 0) {
		return types.PlotSeries{}, fmt.Errorf("sampling %s: %w", e.Identifier(), ErrHorizonInvalid)
	}
	if resolution < 2 {
		return types.PlotSeries{}, fmt.Errorf("sampling %s: %w", e.Identifier(), ErrResolutionInvalid)
	}
	u := e.Units()
	tu, err := units.ParseTime(u.Time)
	if err != nil {
		return types.PlotSeries{}, fmt.Errorf("sampling %s: %w", e.Identifier(), err)
	}

	years := floats.Span(make([]float64, resolution), 0, horizon)
	points := make([]types.Point, resolution)
	for i, t := range years {
		points[i] = types.Point{X: t, Y: e.Loss(tu.FromYears(t))}
	}
	return types.PlotSeries{
		Name:   e.Title(),
		XLabel: units.TimeLabel(units.Years),
		YLabel: units.LossLabel(u.Loss),
		Kind:   types.SeriesCurve,
		Points: points,
	}, nil
}

// Scatter converts a measured series to a scatter series in years.
func Scatter(ms types.MeasurementSeries) (types.PlotSeries, error) {
	tu, err := units.ParseTime(ms.TimeUnit)
	if err != nil {
		return types.PlotSeries{}, fmt.Errorf("series %s: %w", ms.Name, err)
	}
	ylabel := ms.YLabel
	if ylabel == "" {
		ylabel = units.LossLabel(ms.ValueUnit)
	}
	points := make([]types.Point, len(ms.Points))
	for i, p := range ms.Points {
		points[i] = types.Point{X: tu.ToYears(p.X), Y: p.Y}
	}
	return types.PlotSeries{
		Name:   ms.Name,
		XLabel: units.TimeLabel(units.Years),
		YLabel: ylabel,
		Kind:   types.SeriesScatter,
		Points: points,
	}, nil
}

// Group splits series into panels by (XLabel, YLabel) in first-seen order
// and chooses each panel's scale.
func Group(series []types.PlotSeries) []Panel {
	type key struct{ x, y string }
	index := make(map[key]int)
	var panels []Panel
	for _, s := range series {
		k := key{s.XLabel, s.YLabel}
		i, ok := index[k]
		if !ok {
			i = len(panels)
			index[k] = i
			panels = append(panels, Panel{XLabel: s.XLabel, YLabel: s.YLabel})
		}
		panels[i].Series = append(panels[i].Series, s)
	}
	for i := range panels {
		panels[i].Scale = ChooseScale(panels[i].Series...)
	}
	return panels
}
