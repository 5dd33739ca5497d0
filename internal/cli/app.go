package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/corrosim/internal/catalog"
	"github.com/mesh-intelligence/corrosim/internal/classify"
	"github.com/mesh-intelligence/corrosim/internal/logging"
	"github.com/mesh-intelligence/corrosim/internal/metrics"
	"github.com/mesh-intelligence/corrosim/internal/models"
	"github.com/mesh-intelligence/corrosim/internal/paths"
	"github.com/mesh-intelligence/corrosim/internal/records"
	"github.com/mesh-intelligence/corrosim/internal/registry"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// workspace carries what every data command needs: the resolved config,
// the logger and the run counters.
type workspace struct {
	cfg     types.Config
	logger  logr.Logger
	metrics *metrics.Metrics
}

// openWorkspace loads configuration and builds the logger. Callers must
// call close when done so the metrics file is written.
func openWorkspace(cmd *cobra.Command) (*workspace, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}
	cfg, err := resolveConfig(v)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbosity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}
	logger.V(logging.DEBUG).Info("configuration loaded", "config_dir", configDir, "data_dir", cfg.DataDir)
	return &workspace{cfg: cfg, logger: logger, metrics: metrics.New()}, nil
}

func (w *workspace) close() error {
	if flags.metricsFile == "" {
		return nil
	}
	return w.metrics.WriteTextfile(flags.metricsFile)
}

// finish closes w at the end of a command. A close failure becomes the
// command's error unless *err is already set, in which case it is logged.
func (w *workspace) finish(err *error) {
	cerr := w.close()
	if cerr == nil {
		return
	}
	if *err != nil {
		w.logger.Error(cerr, "writing metrics file", "path", flags.metricsFile)
		return
	}
	*err = cerr
}

func (w *workspace) env() registry.Env {
	return registry.Env{
		TableDir:  w.cfg.TableDir,
		SeriesDir: w.cfg.SeriesDir,
		Delimiter: []rune(w.cfg.Delimiter)[0],
		Logger:    w.logger.WithName("models"),
	}
}

func (w *workspace) dirs(kind types.Kind) []string {
	if kind == types.KindMeasurement {
		return w.cfg.MeasurementDirs
	}
	return w.cfg.ModelDirs
}

// load reads the records of kind and counts what was loaded and skipped.
func (w *workspace) load(kind types.Kind) ([]types.Record, error) {
	loader := records.NewLoader(w.logger.WithName("records"))
	loader.Ext = w.cfg.RecordExt
	recs, report, err := loader.Load(kind, w.dirs(kind)...)
	if err != nil {
		return nil, fmt.Errorf("loading %s records: %w", kind, err)
	}
	w.metrics.RecordsLoaded.WithLabelValues(string(kind)).Add(float64(report.Loaded))
	w.metrics.RecordsSkipped.WithLabelValues(string(kind), metrics.ReasonParse).Add(float64(len(report.Skipped)))
	w.metrics.RecordsSkipped.WithLabelValues(string(kind), metrics.ReasonDuplicate).Add(float64(len(report.Duplicates)))
	return recs, nil
}

// catalog loads and classifies the records of each kind into a fresh
// in-memory catalog. Unclassified records stay in the catalog with an empty
// process type.
func (w *workspace) catalog(kinds ...types.Kind) (*catalog.Catalog, error) {
	cat, err := catalog.Open()
	if err != nil {
		return nil, err
	}
	for _, kind := range kinds {
		recs, err := w.load(kind)
		if err != nil {
			cat.Close()
			return nil, err
		}
		loadID, errs := cat.InsertAll(recs)
		for _, err := range errs {
			w.logger.Info("skipping record", "kind", kind, "reason", err.Error())
		}
		classified, failed := classify.ClassifyAll(recs, w.logger.WithName("classify"))
		w.metrics.RecordsSkipped.WithLabelValues(string(kind), metrics.ReasonClassification).Add(float64(len(failed)))
		for _, c := range classified {
			if err := cat.SetProcessType(c.Record.Identifier, c.ProcessType); err != nil && !errors.Is(err, types.ErrNotFound) {
				cat.Close()
				return nil, err
			}
		}
		w.logger.V(logging.DEBUG).Info("catalogued records", "kind", kind, "load_id", loadID, "records", len(recs))
	}
	return cat, nil
}

// evaluator builds the model registered for identifier and configures it
// with params.
func (w *workspace) evaluator(cat *catalog.Catalog, identifier string, params types.ParameterSet) (types.Evaluator, error) {
	entry, err := cat.Get(identifier)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", identifier, err)
	}
	reg := registry.New(w.env(), models.Evaluators())
	e, err := reg.Dispatch(entry.Record)
	if err != nil {
		w.countDispatch(types.KindModel, err)
		return nil, err
	}
	if err := e.Configure(params); err != nil {
		if errors.Is(err, types.ErrValidation) {
			w.metrics.ValidationFailures.WithLabelValues(identifier).Inc()
		}
		return nil, fmt.Errorf("configuring %s: %w", identifier, err)
	}
	return e, nil
}

func (w *workspace) dispatchMeasurement(cat *catalog.Catalog, identifier string) (types.Measurement, error) {
	entry, err := cat.Get(identifier)
	if err != nil {
		return nil, fmt.Errorf("measurement %q: %w", identifier, err)
	}
	reg := registry.New(w.env(), models.Measurements(w.cfg.SeriesMeasurements...))
	m, err := reg.Dispatch(entry.Record)
	if err != nil {
		w.countDispatch(types.KindMeasurement, err)
		return nil, err
	}
	return m, nil
}

// measurementSchema returns the parameters the reader for identifier
// accepts.
func (w *workspace) measurementSchema(cat *catalog.Catalog, identifier string) ([]types.ParameterLimit, error) {
	m, err := w.dispatchMeasurement(cat, identifier)
	if err != nil {
		return nil, err
	}
	return m.Schema(), nil
}

// measurement builds the reader registered for identifier, configures it
// and reads its series.
func (w *workspace) measurement(cat *catalog.Catalog, identifier string, params types.ParameterSet) ([]types.MeasurementSeries, error) {
	m, err := w.dispatchMeasurement(cat, identifier)
	if err != nil {
		return nil, err
	}
	if err := m.Configure(params); err != nil {
		if errors.Is(err, types.ErrValidation) {
			w.metrics.ValidationFailures.WithLabelValues(identifier).Inc()
		}
		return nil, fmt.Errorf("configuring %s: %w", identifier, err)
	}
	series, err := m.Series()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", identifier, err)
	}
	return series, nil
}

func (w *workspace) countDispatch(kind types.Kind, err error) {
	reason := metrics.ReasonConstruct
	if errors.Is(err, types.ErrUnknownModel) {
		reason = metrics.ReasonUnknownModel
	}
	w.metrics.RecordsSkipped.WithLabelValues(string(kind), reason).Inc()
}

// observe records one sampling run of e over n points.
func (w *workspace) observe(e types.Evaluator, n int, start time.Time) {
	w.metrics.Evaluations.WithLabelValues(e.Identifier()).Inc()
	w.metrics.Samples.Add(float64(n))
	w.metrics.EvaluationSeconds.Observe(time.Since(start).Seconds())
}
