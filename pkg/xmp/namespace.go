package xmp

import (
	"fmt"

	"github.com/mesh-intelligence/xmptree/pkg/types"
)

// Namespace is the top-level structure holding every property of one
// namespace URI. Its prefix is looked up in the owning Metadata's registry on
// each use, so registering the URI later takes effect immediately.
type Namespace struct {
	Structure
	uri  string
	meta *Metadata
}

func newNamespace(meta *Metadata, uri string) *Namespace {
	ns := &Namespace{uri: uri, meta: meta}
	ns.Structure = Structure{node: node{ns: ns}, children: make(map[string]Element)}
	ns.self = ns
	return ns
}

// URI returns the namespace URI.
func (ns *Namespace) URI() string { return ns.uri }

// Prefix returns the registered prefix of the namespace.
func (ns *Namespace) Prefix() (string, bool) {
	return ns.meta.registry.Prefix(ns.uri)
}

// Metadata returns the tree the namespace belongs to.
func (ns *Namespace) Metadata() *Metadata { return ns.meta }

func (ns *Namespace) Kind() Kind { return KindNamespace }

func (ns *Namespace) Address() string { return "" }

func (ns *Namespace) ParentAddress() string { return "" }

func (ns *Namespace) Parent() Element { return nil }

func (ns *Namespace) IsTopLevel() bool { return true }

func (ns *Namespace) IsArrayElement() bool { return false }

// Set replaces every property of the namespace with the entries of a
// mapping input.
func (ns *Namespace) Set(v any) error {
	fields, err := asFields(v)
	if err != nil {
		return err
	}
	if _, ok := ns.Prefix(); !ok && len(fields) > 0 {
		return fmt.Errorf("%w: %s has no registered prefix", types.ErrUnregisteredNamespace, ns.uri)
	}
	ns.Clear()
	return ns.Update(fields)
}

// Delete is not supported: a namespace cannot be detached from its tree.
// Use Clear to remove its properties.
func (ns *Namespace) Delete() error {
	return fmt.Errorf("%w: cannot delete namespace %s", types.ErrUnsupportedOperation, ns.uri)
}

// Clear removes every property of the namespace.
func (ns *Namespace) Clear() {
	if len(ns.names) == 0 {
		return
	}
	for _, child := range ns.children {
		release(child)
	}
	ns.names = nil
	ns.children = make(map[string]Element)
	ns.meta.touch()
}
