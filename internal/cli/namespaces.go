package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newNamespacesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "namespaces",
		Short: "List the registered namespace prefixes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, uri := range a.registry.Namespaces() {
				p, _ := a.registry.Prefix(uri)
				fmt.Fprintf(tw, "%s\t%s\n", p, uri)
			}
			return tw.Flush()
		},
	}
}
