// Package tables loads delimited data files in two modes: coefficient
// tables addressed by cell position and time-series files with a header
// row and a unit row.
package tables

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/corrosim/pkg/types"
)

type options struct {
	delimiter rune
	comment   rune
}

// Option configures how a file is read.
type Option func(*options)

// WithDelimiter sets the field delimiter. The default is a comma.
func WithDelimiter(d rune) Option {
	return func(o *options) { o.delimiter = d }
}

// WithComment makes lines starting with c ignored.
func WithComment(c rune) Option {
	return func(o *options) { o.comment = c }
}

func readRows(r io.Reader, opts []Option) ([][]string, error) {
	o := options{delimiter: ','}
	for _, fn := range opts {
		fn(&o)
	}
	cr := csv.NewReader(r)
	cr.Comma = o.delimiter
	cr.Comment = o.comment
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
	}
	return rows, nil
}

// Table is a coefficient table: a raw grid of cells with no assumed header.
// Rows may have different lengths. A Table is immutable after load.
type Table struct {
	Path string
	rows [][]string
}

// Open loads the coefficient table at path.
func Open(path string, opts ...Option) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, path, opts...)
}

// Parse reads a coefficient table from r. name is used in errors.
func Parse(r io.Reader, name string, opts ...Option) (*Table, error) {
	rows, err := readRows(r, opts)
	if err != nil {
		return nil, &types.ParseError{Path: name, Err: err}
	}
	if len(rows) == 0 {
		return nil, &types.ParseError{Path: name, Err: fmt.Errorf("%w: empty table", types.ErrTableLayout)}
	}
	return &Table{Path: name, rows: rows}, nil
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return len(t.rows) }

// Cols returns the number of cells in row, or 0 when row does not exist.
func (t *Table) Cols(row int) int {
	if row < 0 || row >= len(t.rows) {
		return 0
	}
	return len(t.rows[row])
}

// String returns the raw text of a cell.
func (t *Table) String(row, col int) (string, error) {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.rows[row]) {
		return "", fmt.Errorf("%s: cell [%d,%d]: %w", t.Path, row, col, types.ErrTableLayout)
	}
	return t.rows[row][col], nil
}

// Float returns a cell parsed as float64.
func (t *Table) Float(row, col int) (float64, error) {
	s, err := t.String(row, col)
	if err != nil {
		return 0, err
	}
	f, err := parseFloat(s)
	if err != nil {
		return 0, fmt.Errorf("%s: cell [%d,%d]: %w", t.Path, row, col, err)
	}
	return f, nil
}

// Int returns a cell parsed as an integer. "3.0" is accepted.
func (t *Table) Int(row, col int) (int, error) {
	f, err := t.Float(row, col)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s: cell [%d,%d]: %w: %g is not an integer", t.Path, row, col, types.ErrTypeMismatch, f)
	}
	return int(f), nil
}

// FindRow returns the first row whose cell in col equals key after
// trimming, comparing case-insensitively.
func (t *Table) FindRow(col int, key string) (int, error) {
	key = strings.TrimSpace(key)
	for i, row := range t.rows {
		if col < len(row) && strings.EqualFold(row[col], key) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%s: %q in column %d: %w", t.Path, key, col, types.ErrNotFound)
}

// Column returns the numeric values of col for every row from fromRow on.
// Rows where the cell is missing or empty are skipped; any other
// non-numeric cell is an error.
func (t *Table) Column(col, fromRow int) ([]float64, error) {
	var out []float64
	for i := fromRow; i < len(t.rows); i++ {
		if col >= len(t.rows[i]) || t.rows[i][col] == "" {
			continue
		}
		f, err := t.Float(i, col)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Pairs returns aligned numeric values of xCol and yCol from fromRow on,
// skipping rows where either cell is missing or empty.
func (t *Table) Pairs(xCol, yCol, fromRow int) (xs, ys []float64, err error) {
	for i := fromRow; i < len(t.rows); i++ {
		row := t.rows[i]
		if xCol >= len(row) || yCol >= len(row) || row[xCol] == "" || row[yCol] == "" {
			continue
		}
		x, err := t.Float(i, xCol)
		if err != nil {
			return nil, nil, err
		}
		y, err := t.Float(i, yCol)
		if err != nil {
			return nil, nil, err
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty cell", types.ErrTypeMismatch)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", types.ErrTypeMismatch, s)
	}
	return f, nil
}
