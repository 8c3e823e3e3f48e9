package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/xmptree/pkg/xmp"
)

// isURI reports whether s looks like an absolute namespace URI.
func isURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}

// writeData encodes v as indented JSON or as YAML.
func writeData(w io.Writer, v any, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// writeElement prints a scalar as plain text and a container as data.
func writeElement(w io.Writer, e xmp.Element, asJSON bool) error {
	if e.Kind() == xmp.KindValue {
		v := e.Value()
		if v == nil {
			_, err := fmt.Fprintln(w)
			return err
		}
		_, err := fmt.Fprintln(w, v)
		return err
	}
	return writeData(w, e.Value(), asJSON)
}

// parseValue interprets a command-line value. Plain values are stored as
// text; with asJSON the argument is decoded so arrays and objects become
// arrays and structures.
func parseValue(arg string, asJSON bool) (any, error) {
	if !asJSON {
		return arg, nil
	}
	var v any
	if err := json.Unmarshal([]byte(arg), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidValue, err)
	}
	return v, nil
}
