package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/xmptree/pkg/xmp"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <file> <namespace> <path>",
		Short: "Remove the property at a path",
		Long: `Delete removes the element at path and everything beneath it. A trailing
slice selector removes a range of array elements.

Example:
  xmp delete photo.jpg dc subject
  xmp delete doc.xmp xmp 'History[6:]'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri, err := a.namespaceURI(args[1])
			if err != nil {
				return classify(err)
			}
			err = xmp.WithFile(args[0], func(m *xmp.Metadata) error {
				return m.Namespace(uri).DeleteItem(args[2])
			}, a.sessionOptions(xmp.WithReadWrite())...)
			return classify(err)
		},
	}
}
