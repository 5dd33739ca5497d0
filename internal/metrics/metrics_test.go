package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textfile(t *testing.T, m *Metrics) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corrosim.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCounters(t *testing.T) {
	m := New()
	m.RecordsLoaded.WithLabelValues("model").Add(3)
	m.RecordsSkipped.WithLabelValues("model", ReasonDuplicate).Inc()
	m.Evaluations.WithLabelValues("model_soares1999").Inc()
	m.Samples.Add(400)
	m.EvaluationSeconds.Observe(0.002)
	m.ValidationFailures.WithLabelValues("model_hicks2012").Inc()
	m.FiguresRendered.WithLabelValues("svg").Add(2)

	out := textfile(t, m)
	assert.Contains(t, out, `corrosim_records_loaded_total{kind="model"} 3`)
	assert.Contains(t, out, `corrosim_records_skipped_total{kind="model",reason="duplicate"} 1`)
	assert.Contains(t, out, `corrosim_models_evaluations_total{model="model_soares1999"} 1`)
	assert.Contains(t, out, "corrosim_models_samples_total 400")
	assert.Contains(t, out, "corrosim_models_evaluation_seconds_count 1")
	assert.Contains(t, out, `corrosim_models_validation_failures_total{model="model_hicks2012"} 1`)
	assert.Contains(t, out, `corrosim_plot_figures_rendered_total{format="svg"} 2`)
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := New()
	a.Samples.Add(10)
	b := New()

	assert.Contains(t, textfile(t, b), "corrosim_models_samples_total 0")
}

func TestWriteTextfileMissingDir(t *testing.T) {
	err := New().WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	assert.Error(t, err)
}
