package xmp

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/xmptree/pkg/types"
)

// Properties flattens every namespace of the tree into store properties in
// document order. A container precedes its children.
func (m *Metadata) Properties() []types.Property {
	var out []types.Property
	for _, ns := range m.Namespaces() {
		out = append(out, ns.Properties()...)
	}
	return out
}

// Properties flattens the namespace into store properties.
func (ns *Namespace) Properties() []types.Property {
	var out []types.Property
	for _, name := range ns.names {
		out = flatten(ns.uri, ns.children[name], name, out)
	}
	return out
}

func flatten(uri string, e Element, path string, out []types.Property) []types.Property {
	switch v := e.(type) {
	case *Value:
		return append(out, types.Property{Namespace: uri, Path: path, Kind: types.PathKindValue, Value: v.text})
	case *Structure:
		out = append(out, types.Property{Namespace: uri, Path: path, Kind: types.PathKindStruct})
		for _, name := range v.names {
			out = flatten(uri, v.children[name], JoinPath(path, name), out)
		}
	case *Array:
		kind := types.PathKindArray
		if v.alt {
			kind = types.PathKindAlt
		}
		out = append(out, types.Property{Namespace: uri, Path: path, Kind: kind})
		for i, item := range v.items {
			out = flatten(uri, item, IndexPath(path, i), out)
		}
	case *Set:
		out = append(out, types.Property{Namespace: uri, Path: path, Kind: types.PathKindBag})
		for i, text := range v.sorted() {
			out = append(out, types.Property{Namespace: uri, Path: IndexPath(path, i), Kind: types.PathKindValue, Value: text})
		}
	}
	return out
}

// Load builds the tree from the contents of store. Prefixes bound in the
// store are registered in the tree's registry; when the registry already
// binds a URI to another prefix, loaded paths are rewritten to use the
// registry's prefix. Loading does not mark the tree modified.
func (m *Metadata) Load(store types.Store) error {
	uris, err := store.Namespaces()
	if err != nil {
		return fmt.Errorf("listing namespaces: %w", err)
	}
	rename := make(map[string]string)
	for _, uri := range uris {
		stored, ok := store.NamespacePrefix(uri)
		if !ok {
			continue
		}
		rename[stored] = m.registry.Register(uri, stored)
	}
	for _, uri := range uris {
		props, err := store.ListPaths(uri)
		if err != nil {
			return fmt.Errorf("listing %s: %w", uri, err)
		}
		ns := m.Namespace(uri)
		for _, p := range props {
			if err := ns.loadProperty(p, rename); err != nil {
				return fmt.Errorf("loading %s: %w", p.Path, err)
			}
		}
	}
	m.modified = false
	return nil
}

// hop is one step of a loaded path: a qualified name or an array position.
type hop struct {
	name    string
	index   int
	indexed bool
}

func (ns *Namespace) loadProperty(p types.Property, rename map[string]string) error {
	if !types.IsValidPathKind(p.Kind) {
		return fmt.Errorf("%w: %q", types.ErrInvalidKind, p.Kind)
	}
	segs, err := ParsePath(p.Path)
	if err != nil {
		return err
	}
	var hops []hop
	for _, seg := range segs {
		if seg.Slice != nil {
			return fmt.Errorf("%w: slice in stored path", types.ErrInvalidPath)
		}
		prefix := seg.Prefix
		if r, ok := rename[prefix]; ok {
			prefix = r
		}
		hops = append(hops, hop{name: QualifiedName(prefix, seg.Local)})
		for _, i := range seg.Indices {
			if i < 0 {
				return fmt.Errorf("%w: negative index in stored path", types.ErrInvalidPath)
			}
			hops = append(hops, hop{index: i, indexed: true})
		}
	}

	var cur Element = ns
	for k, h := range hops[:len(hops)-1] {
		next, ok := loadHop(cur, h)
		if !ok {
			// Containers missing from the packet are implied by their children.
			if hops[k+1].indexed {
				next = newArray(ns)
			} else {
				next = newStructure(ns)
			}
			if err := loadAttach(cur, h, next); err != nil {
				return err
			}
		}
		cur = next
	}

	last := hops[len(hops)-1]
	if set, ok := cur.(*Set); ok && last.indexed {
		set.add(p.Value)
		return nil
	}
	var e Element
	switch p.Kind {
	case types.PathKindValue:
		e = newValue(ns, p.Value)
	case types.PathKindStruct:
		e = newStructure(ns)
	case types.PathKindArray:
		e = newArray(ns)
	case types.PathKindAlt:
		arr := newArray(ns)
		arr.alt = true
		e = arr
	case types.PathKindBag:
		e = newSet(ns)
	}
	if existing, ok := loadHop(cur, last); ok && existing.Kind() == e.Kind() && p.IsContainer() {
		if arr, ok := existing.(*Array); ok && p.Kind == types.PathKindAlt {
			arr.alt = true
		}
		return nil
	}
	return loadAttach(cur, last, e)
}

func loadHop(cur Element, h hop) (Element, bool) {
	if h.indexed {
		arr, ok := cur.(*Array)
		if !ok || h.index >= len(arr.items) {
			return nil, false
		}
		return arr.items[h.index], true
	}
	k, ok := cur.(keyed)
	if !ok {
		return nil, false
	}
	e, ok := k.lookup(h.name)
	return e, ok
}

func loadAttach(cur Element, h hop, e Element) error {
	if h.indexed {
		arr, ok := cur.(*Array)
		if !ok {
			return fmt.Errorf("%w: index under a %s", types.ErrInvalidPath, cur.Kind())
		}
		if arr.gap(h.index) > MaxArrayGap {
			return fmt.Errorf("%w: index %d pads more than %d elements", types.ErrInvalidPath, h.index, MaxArrayGap)
		}
		arr.place(h.index, e)
		return nil
	}
	k, ok := cur.(keyed)
	if !ok {
		return fmt.Errorf("%w: %s under a %s", types.ErrInvalidPath, h.name, cur.Kind())
	}
	b := e.base()
	b.parent = k
	b.name = h.name
	k.put(h.name, e)
	return nil
}

// isTopLevelPath reports whether a stored path names a direct child of a
// namespace.
func isTopLevelPath(path string) bool {
	return !strings.ContainsAny(path, "/[")
}
