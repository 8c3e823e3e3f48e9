package xmp

// Metadata is the root of a tree: the set of namespaces of one document.
// Namespaces are created lazily on first access and exist whether or not
// they hold properties.
type Metadata struct {
	registry *Registry
	byURI    map[string]*Namespace
	order    []string
	modified bool
}

// NewMetadata returns an empty tree resolving prefixes through reg. A nil
// reg selects DefaultRegistry.
func NewMetadata(reg *Registry) *Metadata {
	if reg == nil {
		reg = DefaultRegistry
	}
	return &Metadata{registry: reg, byURI: make(map[string]*Namespace)}
}

// Registry returns the registry the tree resolves prefixes through.
func (m *Metadata) Registry() *Registry { return m.registry }

// Namespace returns the namespace for uri, creating it if needed. Creating
// a namespace does not mark the tree modified.
func (m *Metadata) Namespace(uri string) *Namespace {
	if ns, ok := m.byURI[uri]; ok {
		return ns
	}
	ns := newNamespace(m, uri)
	m.byURI[uri] = ns
	m.order = append(m.order, uri)
	return ns
}

// Lookup returns the namespace for uri without creating it.
func (m *Metadata) Lookup(uri string) (*Namespace, bool) {
	ns, ok := m.byURI[uri]
	return ns, ok
}

// Namespaces returns the namespaces holding at least one property, in the
// order they were first accessed.
func (m *Metadata) Namespaces() []*Namespace {
	var out []*Namespace
	for _, uri := range m.order {
		if ns := m.byURI[uri]; ns.Len() > 0 {
			out = append(out, ns)
		}
	}
	return out
}

// Len counts the namespaces holding at least one property.
func (m *Metadata) Len() int { return len(m.Namespaces()) }

// Value materializes every non-empty namespace keyed by URI.
func (m *Metadata) Value() map[string]any {
	out := make(map[string]any)
	for _, ns := range m.Namespaces() {
		out[ns.uri] = ns.Value()
	}
	return out
}

// Modified reports whether any element of the tree changed since it was
// created or loaded.
func (m *Metadata) Modified() bool { return m.modified }

func (m *Metadata) touch() { m.modified = true }

func (m *Metadata) all() []*Namespace {
	out := make([]*Namespace, 0, len(m.order))
	for _, uri := range m.order {
		out = append(out, m.byURI[uri])
	}
	return out
}
