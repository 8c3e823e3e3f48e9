package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/xmptree/pkg/xmp"
)

func newGetCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get <file> <namespace> <path>",
		Short: "Print the value at a property path",
		Long: `Get resolves path strictly inside the namespace, given as a URI or a
registered prefix, and prints the value. Scalars print as text, containers
as YAML (or JSON with --json).

Example:
  xmp get photo.jpg exif Flash/Function
  xmp get photo.jpg http://purl.org/dc/elements/1.1/ subject`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri, err := a.namespaceURI(args[1])
			if err != nil {
				return classify(err)
			}
			err = xmp.WithFile(args[0], func(m *xmp.Metadata) error {
				e, err := m.Namespace(uri).Item(args[2])
				if err != nil {
					return err
				}
				return writeElement(cmd.OutOrStdout(), e, asJSON)
			}, a.sessionOptions()...)
			return classify(err)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print containers as JSON")
	return cmd
}
