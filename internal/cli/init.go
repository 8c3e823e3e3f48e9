package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/xmptree/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration directory and default config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// load already created both; report where they live.
			fmt.Fprintln(cmd.OutOrStdout(), paths.ConfigFile(a.configDir))
			return nil
		},
	}
}
