package plot

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Scale is the y-axis scale of a figure or panel.
type Scale string

// Axis scales.
const (
	ScaleLinear Scale = "linear"
	ScaleLog    Scale = "log"
)

// LogRatio is the max/min ratio of positive y values above which the log
// scale is chosen.
const LogRatio = 100.0

// ChooseScale picks the y scale for series. Only strictly positive, finite
// y values count. Without any, the scale is linear.
func ChooseScale(series ...types.PlotSeries) Scale {
	var ys []float64
	for _, s := range series {
		for _, p := range s.Points {
			if p.Y > 0 && !math.IsInf(p.Y, 0) && !math.IsNaN(p.Y) {
				ys = append(ys, p.Y)
			}
		}
	}
	if len(ys) == 0 {
		return ScaleLinear
	}
	if floats.Max(ys)/floats.Min(ys) > LogRatio {
		return ScaleLog
	}
	return ScaleLinear
}
