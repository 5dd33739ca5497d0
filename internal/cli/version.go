package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the corrosim release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/corrosim"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the corrosim version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{"version": Version, "module": modulePath})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "corrosim v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
