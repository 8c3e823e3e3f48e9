package xmp

import (
	"fmt"

	"github.com/mesh-intelligence/xmptree/pkg/types"
)

// Structure is an ordered mapping from qualified names to child elements.
// Children keep the order in which they were first assigned; replacing a
// child keeps its position.
type Structure struct {
	node
	self     Element // outermost value embedding this Structure
	names    []string
	children map[string]Element
}

func newStructure(ns *Namespace) *Structure {
	s := &Structure{node: node{ns: ns}, children: make(map[string]Element)}
	s.self = s
	return s
}

func (s *Structure) Kind() Kind { return KindStructure }

func (s *Structure) Address() string { return addressOf(s) }

// Len returns the number of children.
func (s *Structure) Len() int { return len(s.names) }

// Keys returns the qualified child names in order.
func (s *Structure) Keys() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Children returns the child elements in order.
func (s *Structure) Children() []Element {
	out := make([]Element, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.children[name])
	}
	return out
}

// Value returns the children materialized under their qualified names.
func (s *Structure) Value() any {
	out := make(map[string]any, len(s.names))
	for _, name := range s.names {
		out[name] = s.children[name].Value()
	}
	return out
}

// Key returns the child stored under key, bare or qualified, or a Virtual
// standing in for it.
func (s *Structure) Key(key string) Element {
	if e, ok := s.lookup(key); ok {
		return e
	}
	return &Virtual{parent: s.self, ns: s.ns, key: key}
}

// Index always yields a Virtual: structures are not positional.
func (s *Structure) Index(i int) Element {
	return &Virtual{parent: s.self, ns: s.ns, index: i, indexed: true}
}

// Has reports whether path resolves to an existing element. The path may be
// nested ("exif:Flash/exif:Function") and carry array indices.
func (s *Structure) Has(path string) bool {
	_, err := lookupPath(s.self, path)
	return err == nil
}

// Item resolves path strictly, failing with ErrMissingKey when any step is
// absent.
func (s *Structure) Item(path string) (Element, error) {
	return lookupPath(s.self, path)
}

// Get is Item that returns nil instead of an error.
func (s *Structure) Get(path string) Element {
	e, err := lookupPath(s.self, path)
	if err != nil {
		return nil
	}
	return e
}

// SetItem assigns v at path, creating missing intermediate elements.
func (s *Structure) SetItem(path string, v any) error {
	e, err := walkPath(s.self, path)
	if err != nil {
		return err
	}
	return e.Set(v)
}

// DeleteItem removes the element at path. A trailing slice selector removes
// the selected array elements.
func (s *Structure) DeleteItem(path string) error {
	return deletePath(s.self, path)
}

// Update assigns every entry of a mapping input (Fields or a Go map) as a
// child of the structure. Existing children not named in input are kept.
func (s *Structure) Update(input any) error {
	fields, err := asFields(input)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if err := s.Key(f.Key).Set(f.Value); err != nil {
			return fmt.Errorf("updating %q: %w", f.Key, err)
		}
	}
	return nil
}

func (s *Structure) Set(v any) error { return replaceElement(s, v) }

func (s *Structure) Delete() error { return detachElement(s) }

func (s *Structure) lookup(key string) (Element, bool) {
	e, ok := s.children[resolveName(s.ns, key)]
	return e, ok
}

// put stores child under name, keeping the position of an existing entry.
func (s *Structure) put(name string, child Element) {
	if _, ok := s.children[name]; !ok {
		s.names = append(s.names, name)
	}
	s.children[name] = child
}

func (s *Structure) drop(name string) {
	child, ok := s.children[name]
	if !ok {
		return
	}
	release(child)
	delete(s.children, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
}

// keyed is implemented by the containers that hold named children.
type keyed interface {
	Element
	lookup(key string) (Element, bool)
	put(name string, child Element)
}

var (
	_ keyed = (*Structure)(nil)
	_ keyed = (*Namespace)(nil)
)

// lookupPath resolves path below root without creating anything.
func lookupPath(root Element, path string) (Element, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	cur := root
	for _, seg := range segs {
		if seg.Slice != nil {
			return nil, fmt.Errorf("%w: slice in lookup %q", types.ErrInvalidPath, path)
		}
		k, ok := cur.(keyed)
		if !ok {
			return nil, fmt.Errorf("%w: %s", types.ErrMissingKey, path)
		}
		next, ok := k.lookup(seg.Name())
		if !ok {
			return nil, fmt.Errorf("%w: %s", types.ErrMissingKey, path)
		}
		for _, i := range seg.Indices {
			arr, ok := next.(*Array)
			if !ok {
				return nil, fmt.Errorf("%w: %s", types.ErrMissingKey, path)
			}
			if next, err = arr.At(i); err != nil {
				return nil, fmt.Errorf("%w: %s", types.ErrMissingKey, path)
			}
		}
		cur = next
	}
	return cur, nil
}

// walkPath resolves path below root the way attribute access does, yielding
// a Virtual for the first missing step.
func walkPath(root Element, path string) (Element, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	cur := root
	for _, seg := range segs {
		if seg.Slice != nil {
			return nil, fmt.Errorf("%w: cannot assign through a slice in %q", types.ErrUnsupportedOperation, path)
		}
		cur = cur.Key(seg.Name())
		for _, i := range seg.Indices {
			cur = cur.Index(i)
		}
	}
	return cur, nil
}

// deletePath removes the element, or slice of array elements, at path.
func deletePath(root Element, path string) error {
	segs, err := ParsePath(path)
	if err != nil {
		return err
	}
	last := segs[len(segs)-1]
	trimmed := last
	trimmed.Slice = nil
	target := append(append([]Segment(nil), segs[:len(segs)-1]...), trimmed)

	parts := make([]string, len(target))
	for i, seg := range target {
		parts[i] = seg.String()
	}
	e, err := lookupPath(root, joinSegments(parts))
	if err != nil {
		return fmt.Errorf("%w: nothing to delete at %q", types.ErrUnsupportedOperation, path)
	}
	if last.Slice == nil {
		return e.Delete()
	}
	arr, ok := e.(*Array)
	if !ok {
		return fmt.Errorf("%w: slice deletion on a %s", types.ErrUnsupportedOperation, e.Kind())
	}
	return arr.DeleteSlice(*last.Slice)
}

func joinSegments(parts []string) string {
	out := ""
	for _, p := range parts {
		out = JoinPath(out, p)
	}
	return out
}
