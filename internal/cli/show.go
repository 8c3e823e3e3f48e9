package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/xmptree/pkg/xmp"
)

// Palette for show output. color disables itself when stdout is not a
// terminal.
var (
	colorNamespace = color.New(color.FgYellow, color.Bold)
	colorKey       = color.New(color.FgCyan)
	colorKind      = color.New(color.Faint)
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print the metadata tree of a file",
		Long: `Show prints every namespace of the file followed by its properties as an
indented tree. Containers are annotated with their kind.

Example:
  xmp show photo.jpg
  xmp show document.xmp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := xmp.WithFile(args[0], func(m *xmp.Metadata) error {
				printTree(cmd.OutOrStdout(), m)
				return nil
			}, a.sessionOptions()...)
			return classify(err)
		},
	}
}

// printTree writes every non-empty namespace of m.
func printTree(w io.Writer, m *xmp.Metadata) {
	for i, ns := range m.Namespaces() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		header := ns.URI()
		if p, ok := ns.Prefix(); ok {
			header = fmt.Sprintf("%s (%s)", header, p)
		}
		colorNamespace.Fprintln(w, header)
		for _, name := range ns.Keys() {
			printElement(w, name, ns.Key(name), 1)
		}
	}
}

func printElement(w io.Writer, label string, e xmp.Element, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := e.(type) {
	case *xmp.Value:
		text := v.String()
		if !v.IsSet() {
			text = "<unset>"
		}
		fmt.Fprintf(w, "%s%s = %s\n", indent, colorKey.Sprint(label), text)
	case *xmp.Structure:
		fmt.Fprintf(w, "%s%s %s\n", indent, colorKey.Sprint(label), colorKind.Sprint("{struct}"))
		for _, name := range v.Keys() {
			printElement(w, name, v.Key(name), depth+1)
		}
	case *xmp.Array:
		kind := "[array]"
		if v.IsAlt() {
			kind = "[alt]"
		}
		fmt.Fprintf(w, "%s%s %s\n", indent, colorKey.Sprint(label), colorKind.Sprint(kind))
		for i, item := range v.Items() {
			printElement(w, fmt.Sprintf("[%d]", i), item, depth+1)
		}
	case *xmp.Set:
		fmt.Fprintf(w, "%s%s %s\n", indent, colorKey.Sprint(label), colorKind.Sprint("(bag)"))
		for _, m := range v.Members() {
			fmt.Fprintf(w, "%s  - %s\n", indent, m.Value())
		}
	}
}
