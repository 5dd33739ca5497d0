package types

import "errors"

// Config holds the directories and defaults a corrosim run works from.
type Config struct {
	DataDir            string   `json:"data_dir" yaml:"data_dir"`
	ModelDirs          []string `json:"model_dirs" yaml:"model_dirs"`
	MeasurementDirs    []string `json:"measurement_dirs" yaml:"measurement_dirs"`
	TableDir           string   `json:"table_dir,omitempty" yaml:"table_dir,omitempty"`
	SeriesDir          string   `json:"series_dir,omitempty" yaml:"series_dir,omitempty"`
	SeriesMeasurements []string `json:"series_measurements,omitempty" yaml:"series_measurements,omitempty"`
	RecordExt          string   `json:"record_ext" yaml:"record_ext"`
	Delimiter          string   `json:"delimiter" yaml:"delimiter"`
	Resolution         int      `json:"resolution" yaml:"resolution"`
	Horizon            float64  `json:"horizon" yaml:"horizon"`
	LogFormat          string   `json:"log_format" yaml:"log_format"`
	Verbosity          int      `json:"verbosity" yaml:"verbosity"`
}

// Defaults applied when config.yaml leaves a key unset.
const (
	DefaultRecordExt  = ".json"
	DefaultDelimiter  = ","
	DefaultResolution = 400
	DefaultHorizon    = 50.0
	LogFormatText     = "text"
	LogFormatJSON     = "json"
)

// Config validation errors.
var (
	ErrNoRecordDirs      = errors.New("no model or measurement directories configured")
	ErrDelimiterInvalid  = errors.New("delimiter must be a single character")
	ErrResolutionInvalid = errors.New("resolution must be at least 2")
	ErrHorizonInvalid    = errors.New("horizon must be positive")
	ErrLogFormatUnknown  = errors.New("unknown log format")
)

// Validate checks that the Config is well-formed and returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if len(c.ModelDirs) == 0 && len(c.MeasurementDirs) == 0 {
		return ErrNoRecordDirs
	}
	if len([]rune(c.Delimiter)) != 1 {
		return ErrDelimiterInvalid
	}
	if c.Resolution < 2 {
		return ErrResolutionInvalid
	}
	if c.Horizon <= 0 {
		return ErrHorizonInvalid
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return ErrLogFormatUnknown
	}
	return nil
}
