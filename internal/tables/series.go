package tables

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mesh-intelligence/corrosim/internal/units"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// UnitMarker must appear in the first cell of row 1 of a time-series file.
const UnitMarker = "Units"

// SeriesTable is a time-series file: row 0 holds column headers, row 1
// holds unit labels and rows from 2 on hold samples. Column 0 is time.
type SeriesTable struct {
	Path     string
	Headers  []string
	Units    []string
	TimeUnit units.Time
	samples  [][]string
}

// OpenSeries loads the time-series file at path.
func OpenSeries(path string, opts ...Option) (*SeriesTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening series %s: %w", path, err)
	}
	defer f.Close()
	return ParseSeries(f, path, opts...)
}

// ParseSeries reads a time-series file from r. A file whose row 1 does not
// carry the Units marker is rejected with ErrMissingUnitRow.
func ParseSeries(r io.Reader, name string, opts ...Option) (*SeriesTable, error) {
	rows, err := readRows(r, opts)
	if err != nil {
		return nil, &types.ParseError{Path: name, Err: err}
	}
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, &types.ParseError{Path: name, Err: fmt.Errorf("%w: need a header row, a unit row and two columns", types.ErrTableLayout)}
	}
	if len(rows[1]) == 0 || !strings.Contains(rows[1][0], UnitMarker) {
		return nil, &types.ParseError{Path: name, Err: types.ErrMissingUnitRow}
	}

	tu, err := timeUnit(rows[0][0], rows[1][0])
	if err != nil {
		return nil, &types.ParseError{Path: name, Err: err}
	}

	return &SeriesTable{
		Path:     name,
		Headers:  rows[0],
		Units:    rows[1],
		TimeUnit: tu,
		samples:  rows[2:],
	}, nil
}

// timeUnit reads the time unit from the bracket suffix of the time header,
// then from the text after the Units marker, defaulting to years.
func timeUnit(header, unitCell string) (units.Time, error) {
	if b := units.Bracket(header); b != "" {
		return units.ParseTime(b)
	}
	rest := unitCell[strings.Index(unitCell, UnitMarker)+len(UnitMarker):]
	rest = strings.Trim(rest, " :()[]")
	return units.ParseTime(rest)
}

// Len returns the number of sample rows.
func (s *SeriesTable) Len() int { return len(s.samples) }

// Series returns one MeasurementSeries per non-time column. Samples whose
// time or value cell is empty or non-numeric are left out of that column.
func (s *SeriesTable) Series() []types.MeasurementSeries {
	out := make([]types.MeasurementSeries, 0, len(s.Headers)-1)
	for c := 1; c < len(s.Headers); c++ {
		unit := ""
		if c < len(s.Units) {
			unit = s.Units[c]
		}
		if unit == "" {
			unit = units.Bracket(s.Headers[c])
		}
		name := s.Headers[c]
		if name == "" {
			name = fmt.Sprintf("column %d", c)
		}

		ms := types.MeasurementSeries{
			Name:      name,
			TimeUnit:  string(s.TimeUnit),
			ValueUnit: unit,
			XLabel:    units.TimeLabel(s.TimeUnit),
			YLabel:    units.LossLabel(unit),
		}
		for _, row := range s.samples {
			if c >= len(row) {
				continue
			}
			x, err := parseFloat(row[0])
			if err != nil {
				continue
			}
			y, err := parseFloat(row[c])
			if err != nil {
				continue
			}
			ms.Points = append(ms.Points, types.Point{X: x, Y: y})
		}
		out = append(out, ms)
	}
	return out
}
