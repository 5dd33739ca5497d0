// Package paths resolves the configuration directory and the data directory
// holding record files, coefficient tables and measurement series.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user directories.
const appName = "corrosim"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// else is configured.
const DefaultDataDirName = "data"

// ConfigFileName is the configuration file inside the config directory.
const ConfigFileName = "config.yaml"

// Subdirectories of the data directory.
const (
	ModelsDir       = "models"
	MeasurementsDir = "measurements"
	TablesDir       = "tables"
	SeriesDir       = "series"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "CORROSIM_CONFIG_DIR"
	EnvDataDir   = "CORROSIM_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/corrosim (fallback ~/.config/corrosim)
// macOS:   ~/Library/Application Support/corrosim
// Windows: %APPDATA%/corrosim
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir returns the configuration directory: flag, then
// CORROSIM_CONFIG_DIR, then DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ConfigFile returns the config.yaml path inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// ResolveDataDir returns the data directory: flag, then the config file
// value, then CORROSIM_DATA_DIR, then ./data.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// Under resolves dirs against dataDir. Absolute entries are kept; an empty
// list yields dataDir/def.
func Under(dataDir, def string, dirs ...string) []string {
	if len(dirs) == 0 {
		return []string{filepath.Join(dataDir, def)}
	}
	out := make([]string, len(dirs))
	for i, d := range dirs {
		if filepath.IsAbs(d) {
			out[i] = d
		} else {
			out[i] = filepath.Join(dataDir, d)
		}
	}
	return out
}
