package xmp

import "strconv"

// Registry is a bidirectional namespace URI to prefix table. Bindings are
// permanent: the first prefix registered for a URI wins for the lifetime of
// the registry.
//
// A Registry is not safe for concurrent mutation. Programs normally share
// DefaultRegistry; tests construct their own with NewRegistry.
type Registry struct {
	prefixes map[string]string // uri -> prefix
	uris     map[string]string // prefix -> uri
	order    []string          // uris in registration order
}

// DefaultRegistry is the process-wide registry used by RegisterNamespace and
// by trees that are not given one explicitly.
var DefaultRegistry = NewRegistry()

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		prefixes: make(map[string]string),
		uris:     make(map[string]string),
	}
}

// RegisterNamespace binds uri to prefix in DefaultRegistry and returns the
// effective prefix.
func RegisterNamespace(uri, prefix string) string {
	return DefaultRegistry.Register(uri, prefix)
}

// Register binds uri to prefix and returns the effective prefix. If uri is
// already bound its existing prefix is returned unchanged. If prefix is taken
// by another URI a derived prefix of the form prefix_N_ is bound instead.
func (r *Registry) Register(uri, prefix string) string {
	if p, ok := r.prefixes[uri]; ok {
		return p
	}
	effective := prefix
	for n := 1; ; n++ {
		if _, taken := r.uris[effective]; !taken {
			break
		}
		effective = prefix + "_" + strconv.Itoa(n) + "_"
	}
	r.prefixes[uri] = effective
	r.uris[effective] = uri
	r.order = append(r.order, uri)
	return effective
}

// Prefix returns the prefix bound to uri.
func (r *Registry) Prefix(uri string) (string, bool) {
	p, ok := r.prefixes[uri]
	return p, ok
}

// URI returns the namespace URI bound to prefix.
func (r *Registry) URI(prefix string) (string, bool) {
	u, ok := r.uris[prefix]
	return u, ok
}

// Namespaces returns the registered URIs in registration order.
func (r *Registry) Namespaces() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
