package xmp

import (
	"fmt"

	"github.com/mesh-intelligence/xmptree/pkg/types"
)

// Kind identifies the variant of an Element.
type Kind int

// Element variants.
const (
	KindVirtual Kind = iota
	KindValue
	KindStructure
	KindArray
	KindSet
	KindNamespace
)

func (k Kind) String() string {
	switch k {
	case KindVirtual:
		return "virtual"
	case KindValue:
		return "value"
	case KindStructure:
		return "structure"
	case KindArray:
		return "array"
	case KindSet:
		return "set"
	case KindNamespace:
		return "namespace"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Element is the capability set shared by every node of a metadata tree.
// The set of implementations is closed: *Namespace, *Structure, *Array,
// *Set, *Value and *Virtual.
type Element interface {
	// Kind reports the variant.
	Kind() Kind

	// Address is the qualified path of the element, empty for a namespace.
	// Array elements share the address of their array.
	Address() string

	// ParentAddress is the address of the parent, empty at top level.
	ParentAddress() string

	// Parent returns the containing element, nil for a namespace.
	Parent() Element

	// Namespace returns the namespace the element belongs to.
	Namespace() *Namespace

	// IsTopLevel reports whether the parent is a namespace.
	IsTopLevel() bool

	// IsArrayElement reports whether the parent is an array.
	IsArrayElement() bool

	// Value materializes the element: a string for values (nil when
	// unset), map[string]any for structures, []any for arrays and a sorted
	// []string for sets. Virtual elements yield nil.
	Value() any

	// Key returns the named child, or a *Virtual standing for it.
	Key(name string) Element

	// Index returns the element at position i, or a *Virtual standing for it.
	Index(i int) Element

	// Set assigns v, rebuilding the element from v. A virtual element
	// materializes itself and every missing ancestor.
	Set(v any) error

	// Delete removes the element from its parent.
	Delete() error

	base() *node
}

// node carries the state every concrete element shares. The parent link is a
// non-owning back reference; children are owned by their container.
type node struct {
	ns     *Namespace
	parent Element
	name   string // qualified name under a structure, empty otherwise
}

func (n *node) base() *node { return n }

func (n *node) Namespace() *Namespace { return n.ns }

func (n *node) Parent() Element { return n.parent }

func (n *node) IsTopLevel() bool {
	_, ok := n.parent.(*Namespace)
	return ok
}

func (n *node) IsArrayElement() bool {
	_, ok := n.parent.(*Array)
	return ok
}

func (n *node) ParentAddress() string {
	if n.parent == nil || n.IsTopLevel() {
		return ""
	}
	return n.parent.Address()
}

// Name returns the qualified name the element is stored under, or an empty
// string for array elements, set members and namespaces.
func (n *node) Name() string { return n.name }

func (n *node) touch() {
	if n.ns != nil {
		n.ns.meta.touch()
	}
}

// pathOf returns the store path of a concrete element. Unlike Address it
// carries the position of array elements.
func pathOf(e Element) string {
	if v, ok := e.(*Virtual); ok {
		return v.path()
	}
	b := e.base()
	switch p := b.parent.(type) {
	case nil:
		return ""
	case *Namespace:
		return b.name
	case *Structure:
		return JoinPath(pathOf(p), b.name)
	case *Array:
		return IndexPath(pathOf(p), p.indexOf(e))
	case *Set:
		return IndexPath(pathOf(p), p.indexOf(e))
	default:
		return b.name
	}
}

// addressOf implements Address for concrete elements.
func addressOf(e Element) string {
	if a, ok := e.Parent().(*Array); ok {
		return a.Address()
	}
	return pathOf(e)
}

// attached reports whether e is still reachable from its namespace. Removing
// an element from its container clears its parent link, so a handle kept
// across a delete or replace is recognized here.
func attached(e Element) bool {
	cur := e
	for {
		switch v := cur.(type) {
		case *Namespace:
			return true
		case *Virtual:
			cur = v.parent
			continue
		}
		p := cur.base().parent
		if p == nil {
			return false
		}
		cur = p
	}
}

// errDetached is returned by writes through a handle whose element has been
// removed from the tree.
func errDetached(e Element) error {
	return fmt.Errorf("%w: %s element is no longer part of the tree", types.ErrUnsupportedOperation, e.Kind())
}

// release clears the parent link of an element leaving its container.
func release(e Element) {
	if e != nil {
		e.base().parent = nil
	}
}

// replaceElement rebuilds old from input and puts the result in its place.
func replaceElement(old Element, input any) error {
	b := old.base()
	if b.parent == nil {
		if _, ok := old.(*Namespace); ok {
			return fmt.Errorf("%w: cannot replace a namespace", types.ErrUnsupportedOperation)
		}
		return errDetached(old)
	}
	if !attached(old) {
		return errDetached(old)
	}
	if _, ok := b.parent.(*Set); ok {
		return fmt.Errorf("%w: cannot replace a member of a set", types.ErrUnsupportedOperation)
	}
	pos := -1
	if arr, ok := b.parent.(*Array); ok {
		if pos = arr.indexOf(old); pos < 0 {
			return errDetached(old)
		}
	}
	nw, err := build(b.ns, input)
	if err != nil {
		return err
	}
	nb := nw.base()
	nb.parent = b.parent
	nb.name = b.name

	switch p := b.parent.(type) {
	case *Namespace:
		p.put(b.name, nw)
	case *Structure:
		p.put(b.name, nw)
	case *Array:
		p.items[pos] = nw
	}
	b.parent = nil
	b.touch()
	return nil
}

// detachElement removes e from its parent.
func detachElement(e Element) error {
	b := e.base()
	if b.parent == nil {
		if _, ok := e.(*Namespace); ok {
			return fmt.Errorf("%w: cannot delete a namespace", types.ErrUnsupportedOperation)
		}
		return errDetached(e)
	}
	if !attached(e) {
		return errDetached(e)
	}
	switch p := b.parent.(type) {
	case *Namespace:
		p.drop(b.name)
	case *Structure:
		p.drop(b.name)
	case *Array:
		n := p.indexOf(e)
		if n < 0 {
			return errDetached(e)
		}
		p.removeAt(n)
	case *Set:
		p.remove(e)
	}
	b.touch()
	return nil
}
