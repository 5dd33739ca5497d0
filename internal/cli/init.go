package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/corrosim/internal/paths"
	"github.com/mesh-intelligence/corrosim/pkg/types"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and data directories",
		Long: "Write config.yaml to the configuration directory if it does not exist and\n" +
			"create the models, measurements, tables and series directories under the\n" +
			"data directory.",
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	dataDir, err := paths.ResolveDataDir(flags.dataDir, loadDataDirFromConfig(configDir))
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	configPath := paths.ConfigFile(configDir)
	if err := writeConfigIfMissing(configPath, dataDir); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	for _, sub := range []string{paths.ModelsDir, paths.MeasurementsDir, paths.TablesDir, paths.SeriesDir} {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	if flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), map[string]string{"config": configPath, "data_dir": dataDir})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "corrosim initialized\nconfig: %s\ndata:   %s\n", configPath, dataDir)
	return nil
}

// defaultConfig is the configuration written by init. Directories are
// relative to data_dir.
func defaultConfig(dataDir string) types.Config {
	return types.Config{
		DataDir:         dataDir,
		ModelDirs:       []string{paths.ModelsDir},
		MeasurementDirs: []string{paths.MeasurementsDir},
		TableDir:        paths.TablesDir,
		RecordExt:       types.DefaultRecordExt,
		Delimiter:       types.DefaultDelimiter,
		Resolution:      types.DefaultResolution,
		Horizon:         types.DefaultHorizon,
		LogFormat:       types.LogFormatText,
	}
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil (idempotent).
func writeConfigIfMissing(path, dataDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := defaultConfig(dataDir)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// loadDataDirFromConfig reads data_dir from an existing config.yaml.
// Returns empty string if the file does not exist or cannot be read.
func loadDataDirFromConfig(configDir string) string {
	data, err := os.ReadFile(paths.ConfigFile(configDir))
	if err != nil {
		return ""
	}
	var cfg types.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ""
	}
	return cfg.DataDir
}
