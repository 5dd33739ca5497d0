package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/corrosim/pkg/types"
)

type fake struct{ id string }

func constructors() map[string]Constructor[*fake] {
	return map[string]Constructor[*fake]{
		"model_a": func(rec types.Record, _ Env) (*fake, error) { return &fake{id: rec.Identifier}, nil },
		"model_broken": func(rec types.Record, _ Env) (*fake, error) {
			return nil, errors.New("table missing")
		},
	}
}

func TestDispatch(t *testing.T) {
	r := New(Env{Logger: logr.Discard()}, constructors())

	got, err := r.Dispatch(types.Record{Identifier: "model_a"})
	require.NoError(t, err)
	assert.Equal(t, "model_a", got.id)

	_, err = r.Dispatch(types.Record{Identifier: "model_zzz"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrUnknownModel)
	var uerr *types.UnknownModelError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "model_zzz", uerr.Identifier)

	_, err = r.Dispatch(types.Record{Identifier: "model_broken"})
	assert.ErrorContains(t, err, "table missing")

	assert.Equal(t, []string{"model_a", "model_broken"}, r.Identifiers())
	assert.True(t, r.Has("model_a"))
	assert.False(t, r.Has("model_zzz"))
}

func TestNewCopiesConstructors(t *testing.T) {
	m := constructors()
	r := New(Env{Logger: logr.Discard()}, m)
	delete(m, "model_a")
	assert.True(t, r.Has("model_a"))
}

func TestBuildSkipsFailures(t *testing.T) {
	r := New(Env{Logger: logr.Discard()}, constructors())
	built, errs := r.Build([]types.Record{
		{Identifier: "model_a"},
		{Identifier: "unknown"},
		{Identifier: "model_broken"},
	})
	require.Len(t, built, 1)
	assert.Equal(t, "model_a", built[0].Value.id)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], types.ErrUnknownModel)
}

func TestTablePath(t *testing.T) {
	rec := types.Record{Identifier: "model_ma2010", Path: "/data/models/ma.json"}

	assert.Equal(t, "/data/tables/ma2010_tables_table_2.csv", Env{}.TablePath(rec, "table_2"))
	assert.Equal(t, "/t/ma2010_tables_table_2.csv", Env{TableDir: "/t"}.TablePath(rec, "table_2"))

	rec.Reference = &types.Reference{Identifier: "ma-2010"}
	assert.Equal(t, "/t/ma-2010_tables_table_4.csv", Env{TableDir: "/t"}.TablePath(rec, "table_4"))

	assert.Equal(t, "/data/models/w.csv", Env{}.SeriesPath(rec, "w.csv"))
	assert.Equal(t, "/s/w.csv", Env{SeriesDir: "/s"}.SeriesPath(rec, "w.csv"))
}

func TestOpenTableWithDelimiter(t *testing.T) {
	dir := t.TempDir()
	rec := types.Record{Identifier: "model_x", Path: filepath.Join(dir, "x.json")}
	env := Env{TableDir: dir, Delimiter: ';'}
	require.NoError(t, os.WriteFile(env.TablePath(rec, "table_2"), []byte("a;1;2\n"), 0o644))

	tbl, err := env.OpenTable(rec, "table_2")
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Cols(0))
}
