// Package render draws plot panels as PNG or SVG charts.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/mesh-intelligence/corrosim/internal/plot"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Format is an output image format.
type Format string

// Supported formats.
const (
	PNG Format = "png"
	SVG Format = "svg"
)

// Default image size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 640
)

// Render errors.
var (
	ErrFormatUnknown = errors.New("unknown image format")
	ErrEmptyPanel    = errors.New("panel has no drawable points")
)

// Options controls the output image.
type Options struct {
	Title  string
	Format Format
	Width  int
	Height int
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = PNG
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

func (o Options) provider() (chart.RendererProvider, error) {
	switch o.Format {
	case PNG:
		return chart.PNG, nil
	case SVG:
		return chart.SVG, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrFormatUnknown, o.Format)
}

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case PNG, SVG:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormatUnknown, s)
}

// Render draws one panel to w. Curves are drawn as lines, scatter series as
// dots. On a log scale the y values are drawn as log10 with 10^k ticks and
// non-positive values are left out.
func Render(w io.Writer, p plot.Panel, opts Options) error {
	opts = opts.withDefaults()
	rp, err := opts.provider()
	if err != nil {
		return err
	}
	logScale := p.Scale == plot.ScaleLog

	var series []chart.Series
	var xs, ys []float64
	for i, s := range p.Series {
		sx, sy := drawable(s, logScale)
		if len(sx) == 0 {
			continue
		}
		xs = append(xs, sx...)
		ys = append(ys, sy...)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: sx,
			YValues: sy,
			Style:   seriesStyle(s, i),
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("rendering %q: %w", p.YLabel, ErrEmptyPanel)
	}

	yAxis := chart.YAxis{Name: p.YLabel, Range: axisRange(ys)}
	if logScale {
		yAxis.Range, yAxis.Ticks = logAxis(ys)
	}
	ch := chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      chart.XAxis{Name: p.XLabel, Range: axisRange(xs)},
		YAxis:      yAxis,
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(rp, w); err != nil {
		return fmt.Errorf("rendering %q: %w", p.YLabel, err)
	}
	return nil
}

// WriteFigure writes one file per panel of fig into dir and returns the
// paths. A single panel is written as <base>.<ext>, several as
// <base>-<n>.<ext>.
func WriteFigure(dir, base string, fig plot.Figure, opts Options) ([]string, error) {
	opts = opts.withDefaults()
	if opts.Title == "" {
		opts.Title = fig.Title
	}
	if _, err := opts.provider(); err != nil {
		return nil, err
	}
	if len(fig.Panels) == 0 {
		return nil, fmt.Errorf("writing %s: %w", base, ErrEmptyPanel)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var paths []string
	for i, p := range fig.Panels {
		name := fmt.Sprintf("%s.%s", base, opts.Format)
		if len(fig.Panels) > 1 {
			name = fmt.Sprintf("%s-%d.%s", base, i+1, opts.Format)
		}
		path := filepath.Join(dir, name)
		if err := writeFile(path, p, opts); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, p plot.Panel, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Render(f, p, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// drawable returns the finite points of s, in log10 when logScale is set.
func drawable(s types.PlotSeries, logScale bool) (xs, ys []float64) {
	for _, pt := range s.Points {
		y := pt.Y
		if logScale {
			if y <= 0 {
				continue
			}
			y = math.Log10(y)
		}
		if !finite(pt.X) || !finite(y) {
			continue
		}
		xs = append(xs, pt.X)
		ys = append(ys, y)
	}
	return xs, ys
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func seriesStyle(s types.PlotSeries, i int) chart.Style {
	col := chart.GetDefaultColor(i)
	if s.Kind == types.SeriesScatter {
		return chart.Style{StrokeWidth: chart.Disabled, DotWidth: 4, DotColor: col}
	}
	width := 1.5
	if s.Live {
		width = 3
	}
	return chart.Style{StrokeColor: col, StrokeWidth: width}
}

// axisRange pads a degenerate range. Otherwise it returns an untyped nil
// so the chart picks its own.
func axisRange(vs []float64) chart.Range {
	lo, hi := bounds(vs)
	if hi > lo {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}

// logAxis spans whole decades around vs, which are already log10 values.
func logAxis(vs []float64) (*chart.ContinuousRange, []chart.Tick) {
	lo, hi := bounds(vs)
	from, to := math.Floor(lo), math.Ceil(hi)
	if to <= from {
		to = from + 1
	}
	var ticks []chart.Tick
	for k := from; k <= to; k++ {
		ticks = append(ticks, chart.Tick{Value: k, Label: fmt.Sprintf("10^%d", int(k))})
	}
	return &chart.ContinuousRange{Min: from, Max: to}, ticks
}

func bounds(vs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
