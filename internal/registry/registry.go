// Package registry maps record identifiers to evaluator or measurement
// constructors. The mapping is supplied by the caller as an explicit table;
// nothing is discovered at run time.
package registry

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/go-logr/logr"

	"github.com/mesh-intelligence/corrosim/internal/tables"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Env carries what constructors need to find their data files.
type Env struct {
	// TableDir holds coefficient tables. When empty, tables are looked up in
	// a "tables" directory next to the record's directory.
	TableDir string
	// SeriesDir holds time-series files of measurement records. When empty,
	// files are looked up next to the record file.
	SeriesDir string
	Delimiter rune
	Logger    logr.Logger
}

// TablePath returns the location of the named table for rec:
// <TableDir>/<reference>_tables_<name>.csv.
func (e Env) TablePath(rec types.Record, name string) string {
	dir := e.TableDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(filepath.Dir(rec.Path)), "tables")
	}
	return filepath.Join(dir, fmt.Sprintf("%s_tables_%s.csv", rec.ReferenceID(), name))
}

// OpenTable loads the named coefficient table for rec.
func (e Env) OpenTable(rec types.Record, name string) (*tables.Table, error) {
	return tables.Open(e.TablePath(rec, name), e.tableOptions()...)
}

// SeriesPath returns the location of an attached time-series file.
func (e Env) SeriesPath(rec types.Record, file string) string {
	dir := e.SeriesDir
	if dir == "" {
		dir = filepath.Dir(rec.Path)
	}
	return filepath.Join(dir, file)
}

// OpenSeries loads an attached time-series file of rec.
func (e Env) OpenSeries(rec types.Record, file string) (*tables.SeriesTable, error) {
	return tables.OpenSeries(e.SeriesPath(rec, file), e.tableOptions()...)
}

func (e Env) tableOptions() []tables.Option {
	if e.Delimiter == 0 {
		return nil
	}
	return []tables.Option{tables.WithDelimiter(e.Delimiter)}
}

// Constructor builds a T for one record.
type Constructor[T any] func(rec types.Record, env Env) (T, error)

// Registry dispatches records to constructors by identifier.
type Registry[T any] struct {
	env          Env
	constructors map[string]Constructor[T]
}

// New returns a Registry over a copy of constructors.
func New[T any](env Env, constructors map[string]Constructor[T]) *Registry[T] {
	m := make(map[string]Constructor[T], len(constructors))
	for id, c := range constructors {
		m[id] = c
	}
	return &Registry[T]{env: env, constructors: m}
}

// Env returns the environment constructors receive.
func (r *Registry[T]) Env() Env { return r.env }

// Has reports whether id is registered.
func (r *Registry[T]) Has(id string) bool {
	_, ok := r.constructors[id]
	return ok
}

// Identifiers returns every registered identifier, sorted.
func (r *Registry[T]) Identifiers() []string {
	ids := make([]string, 0, len(r.constructors))
	for id := range r.constructors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Dispatch constructs the T registered for rec.Identifier. An identifier
// that is not registered returns a *types.UnknownModelError.
func (r *Registry[T]) Dispatch(rec types.Record) (T, error) {
	var zero T
	c, ok := r.constructors[rec.Identifier]
	if !ok {
		return zero, &types.UnknownModelError{Identifier: rec.Identifier}
	}
	v, err := c(rec, r.env)
	if err != nil {
		return zero, fmt.Errorf("constructing %s: %w", rec.Identifier, err)
	}
	return v, nil
}

// Built is a successfully constructed record.
type Built[T any] struct {
	Record types.Record
	Value  T
}

// Build dispatches every record. Unknown identifiers and failed
// constructions are logged, skipped and returned as errors.
func (r *Registry[T]) Build(recs []types.Record) ([]Built[T], []error) {
	out := make([]Built[T], 0, len(recs))
	var errs []error
	for _, rec := range recs {
		v, err := r.Dispatch(rec)
		if err != nil {
			r.env.Logger.Info("skipping record", "identifier", rec.Identifier, "reason", err.Error())
			errs = append(errs, err)
			continue
		}
		out = append(out, Built[T]{Record: rec, Value: v})
	}
	return out, errs
}
