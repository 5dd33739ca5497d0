package types

// Units names the time and loss units an evaluator works in.
type Units struct {
	Time string `json:"time"`
	Loss string `json:"loss"`
}

// Evaluator is one empirical material-loss model. Implementations are
// selected by record identifier through a registry.
//
// Schema lists every parameter the evaluator accepts. Callers validate a
// ParameterSet against the schema before Configure; Loss never re-checks
// ranges.
type Evaluator interface {
	Identifier() string
	Title() string
	Units() Units
	Schema() []ParameterLimit
	Configure(params ParameterSet) error
	Loss(t float64) float64
}

// GrowthRater is implemented by evaluators that expose the instantaneous
// loss rate dLoss/dt.
type GrowthRater interface {
	GrowthRate(t float64) float64
}

// LossSeries evaluates e at every time in ts.
func LossSeries(e Evaluator, ts []float64) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = e.Loss(t)
	}
	return out
}

// Measurement produces measured series for one measurement record.
type Measurement interface {
	Identifier() string
	Title() string
	Schema() []ParameterLimit
	Configure(params ParameterSet) error
	Series() ([]MeasurementSeries, error)
}
