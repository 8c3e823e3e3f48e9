package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/xmptree/pkg/xmp"
)

func newDumpCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print materialized metadata keyed by namespace URI",
		Long: `Dump prints the value of every namespace of the file as YAML, or as JSON
with --json. Structures become mappings, arrays and bags become lists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := xmp.WithFile(args[0], func(m *xmp.Metadata) error {
				return writeData(cmd.OutOrStdout(), m.Value(), asJSON)
			}, a.sessionOptions()...)
			return classify(err)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
