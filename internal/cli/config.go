package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/corrosim/internal/paths"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "CORROSIM"
)

// Config keys in config.yaml. Each can be overridden by CORROSIM_<KEY>.
const (
	cfgKeyDataDir            = "data_dir"
	cfgKeyModelDirs          = "model_dirs"
	cfgKeyMeasurementDirs    = "measurement_dirs"
	cfgKeyTableDir           = "table_dir"
	cfgKeySeriesDir          = "series_dir"
	cfgKeySeriesMeasurements = "series_measurements"
	cfgKeyRecordExt          = "record_ext"
	cfgKeyDelimiter          = "delimiter"
	cfgKeyResolution         = "resolution"
	cfgKeyHorizon            = "horizon"
	cfgKeyLogFormat          = "log_format"
	cfgKeyVerbosity          = "verbosity"
)

// loadConfig reads config.yaml from configDir using Viper. A missing
// config.yaml is not an error; every key has a default.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyRecordExt, types.DefaultRecordExt)
	v.SetDefault(cfgKeyDelimiter, types.DefaultDelimiter)
	v.SetDefault(cfgKeyResolution, types.DefaultResolution)
	v.SetDefault(cfgKeyHorizon, types.DefaultHorizon)
	v.SetDefault(cfgKeyLogFormat, types.LogFormatText)
	v.SetDefault(cfgKeyVerbosity, 0)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// resolveConfig turns the Viper settings and the global flags into a
// validated Config with absolute directories.
func resolveConfig(v *viper.Viper) (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		DataDir:            dataDir,
		ModelDirs:          paths.Under(dataDir, paths.ModelsDir, v.GetStringSlice(cfgKeyModelDirs)...),
		MeasurementDirs:    paths.Under(dataDir, paths.MeasurementsDir, v.GetStringSlice(cfgKeyMeasurementDirs)...),
		TableDir:           paths.Under(dataDir, paths.TablesDir, nonEmpty(v.GetString(cfgKeyTableDir))...)[0],
		SeriesMeasurements: v.GetStringSlice(cfgKeySeriesMeasurements),
		RecordExt:          v.GetString(cfgKeyRecordExt),
		Delimiter:          v.GetString(cfgKeyDelimiter),
		Resolution:         v.GetInt(cfgKeyResolution),
		Horizon:            v.GetFloat64(cfgKeyHorizon),
		LogFormat:          v.GetString(cfgKeyLogFormat),
		Verbosity:          max(v.GetInt(cfgKeyVerbosity), flags.verbose),
	}
	// Without series_dir, series files sit next to their record.
	if dir := v.GetString(cfgKeySeriesDir); dir != "" {
		cfg.SeriesDir = paths.Under(dataDir, paths.SeriesDir, dir)[0]
	}

	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}
	return cfg, nil
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
