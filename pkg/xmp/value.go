package xmp

// Value is a leaf holding the textual form of a scalar. A Value created to
// pad an array has no text and reports a nil Value.
type Value struct {
	node
	text  string
	isSet bool
}

func newValue(ns *Namespace, text string) *Value {
	return &Value{node: node{ns: ns}, text: text, isSet: true}
}

func newUnsetValue(ns *Namespace) *Value {
	return &Value{node: node{ns: ns}}
}

func (v *Value) Kind() Kind { return KindValue }

func (v *Value) Address() string { return addressOf(v) }

// Value returns the text, or nil if the value was never assigned.
func (v *Value) Value() any {
	if !v.isSet {
		return nil
	}
	return v.text
}

// String returns the text, empty when unset.
func (v *Value) String() string { return v.text }

// IsSet reports whether the value holds text.
func (v *Value) IsSet() bool { return v.isSet }

func (v *Value) Key(name string) Element {
	return &Virtual{parent: v, ns: v.ns, key: name}
}

func (v *Value) Index(i int) Element {
	return &Virtual{parent: v, ns: v.ns, index: i, indexed: true}
}

func (v *Value) Set(x any) error { return replaceElement(v, x) }

func (v *Value) Delete() error { return detachElement(v) }
