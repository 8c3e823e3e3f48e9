package types

// Path kinds reported by a Store for each qualified path.
const (
	PathKindValue  = "value"  // scalar leaf
	PathKindStruct = "struct" // structure with named fields
	PathKindArray  = "array"  // ordered array
	PathKindBag    = "bag"    // unordered, set-like array
	PathKindAlt    = "alt"    // language alternative
)

// validPathKinds is the set of recognized path kinds.
var validPathKinds = map[string]bool{
	PathKindValue:  true,
	PathKindStruct: true,
	PathKindArray:  true,
	PathKindBag:    true,
	PathKindAlt:    true,
}

// Property is one entry of the flat key space: a fully qualified path, the
// namespace it belongs to, its kind, and for scalars its textual value.
// Container kinds carry an empty Value.
type Property struct {
	Namespace string `json:"namespace"`
	Path      string `json:"path"`
	Kind      string `json:"kind"`
	Value     string `json:"value,omitempty"`
}

// IsValidPathKind reports whether the given string is a recognized path kind.
func IsValidPathKind(kind string) bool {
	return validPathKinds[kind]
}

// IsContainer reports whether properties of this kind hold children rather
// than a value.
func (p Property) IsContainer() bool {
	return p.Kind != PathKindValue
}
