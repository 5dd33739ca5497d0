// Package cli implements the corrosim command-line interface.
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errUsage marks invalid flag combinations.
var errUsage = errors.New("invalid usage")

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir   string
	dataDir     string
	jsonMode    bool
	verbose     int
	metricsFile string
}

var flags rootFlags

// NewRootCmd creates the top-level "corrosim" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "corrosim",
		Short: "Evaluate and compare empirical corrosion models",
		Long: "corrosim loads corrosion model and measurement records, evaluates the\n" +
			"registered material-loss models and plots them against measured series.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/corrosim)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: ./data)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().CountVarP(&flags.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	root.PersistentFlags().StringVar(&flags.metricsFile, "metrics-file", "", "write run counters to this Prometheus textfile")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newListCmd(types.KindModel))
	root.AddCommand(newListCmd(types.KindMeasurement))
	root.AddCommand(newShowCmd())
	root.AddCommand(newEvalCmd())
	root.AddCommand(newPlotCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps errors the user can fix to exitUserError and everything
// else to exitSysError.
func exitCode(err error) int {
	for _, target := range []error{
		errUsage,
		types.ErrConfiguration,
		types.ErrValidation,
		types.ErrUnknownModel,
		types.ErrNotFound,
	} {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}
