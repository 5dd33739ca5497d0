package types

// Point is one (time, value) sample.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MeasurementSeries is one measured column paired with its time axis.
type MeasurementSeries struct {
	Name      string  `json:"name"`
	TimeUnit  string  `json:"time_unit"`
	ValueUnit string  `json:"value_unit"`
	XLabel    string  `json:"x_label"`
	YLabel    string  `json:"y_label"`
	Points    []Point `json:"points"`
}

// SeriesKind selects how a PlotSeries is drawn.
type SeriesKind string

// Series display kinds.
const (
	SeriesCurve   SeriesKind = "curve"
	SeriesScatter SeriesKind = "scatter"
)

// PlotSeries is a labelled list of samples built by the plot engine.
type PlotSeries struct {
	Name   string     `json:"name"`
	XLabel string     `json:"x_label"`
	YLabel string     `json:"y_label"`
	Kind   SeriesKind `json:"kind"`
	Live   bool       `json:"live,omitempty"`
	Points []Point    `json:"points"`
}

// YValues returns the y coordinates of s.
func (s PlotSeries) YValues() []float64 {
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		ys[i] = p.Y
	}
	return ys
}

// XValues returns the x coordinates of s.
func (s PlotSeries) XValues() []float64 {
	xs := make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i] = p.X
	}
	return xs
}
