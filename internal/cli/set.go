package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/xmptree/pkg/xmp"
)

func newSetCmd(a *app) *cobra.Command {
	var (
		prefix    string
		jsonValue bool
	)
	cmd := &cobra.Command{
		Use:   "set <file> <namespace> <path> <value>",
		Short: "Assign a value at a property path",
		Long: `Set assigns value at path, creating missing structures and arrays on the
way. Array positions past the end are padded. With --json the value is
decoded first, so lists become arrays and objects become structures.

Example:
  xmp set photo.jpg dc title "Sunset"
  xmp set photo.jpg http://example.com/ns/ --prefix ex 'shots[2]/lens' 50mm
  xmp set doc.xmp xmp Tags --json '["a","b"]'`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if prefix != "" {
				if !isURI(args[1]) {
					return classify(fmt.Errorf("%w: --prefix needs a namespace URI, got %q", errUnknownNamespace, args[1]))
				}
				a.registry.Register(args[1], prefix)
			}
			uri, err := a.namespaceURI(args[1])
			if err != nil {
				return classify(err)
			}
			value, err := parseValue(args[3], jsonValue)
			if err != nil {
				return classify(err)
			}
			err = xmp.WithFile(args[0], func(m *xmp.Metadata) error {
				return m.Namespace(uri).SetItem(args[2], value)
			}, a.sessionOptions(xmp.WithReadWrite())...)
			return classify(err)
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "register the namespace URI with this prefix first")
	cmd.Flags().BoolVar(&jsonValue, "json", false, "decode value as JSON")
	return cmd
}
