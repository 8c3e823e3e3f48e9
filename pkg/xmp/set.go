package xmp

import "sort"

// Set is an unordered collection of values, de-duplicated by their text.
// Members are reported in sorted order.
type Set struct {
	node
	members map[string]*Value
}

func newSet(ns *Namespace) *Set {
	return &Set{node: node{ns: ns}, members: make(map[string]*Value)}
}

func (s *Set) Kind() Kind { return KindSet }

func (s *Set) Address() string { return addressOf(s) }

// Len returns the number of distinct members.
func (s *Set) Len() int { return len(s.members) }

// Value returns the member texts in sorted order.
func (s *Set) Value() any { return s.sorted() }

// Members returns the member values in sorted order.
func (s *Set) Members() []Element {
	keys := s.sorted()
	out := make([]Element, len(keys))
	for i, k := range keys {
		out[i] = s.members[k]
	}
	return out
}

// Contains reports whether the text form of x is a member.
func (s *Set) Contains(x any) bool {
	text, err := toText(x)
	if err != nil {
		return false
	}
	_, ok := s.members[text]
	return ok
}

// Add inserts the text form of x. Adding an existing member is a no-op.
func (s *Set) Add(x any) error {
	if !attached(s) {
		return errDetached(s)
	}
	text, err := toText(x)
	if err != nil {
		return err
	}
	if s.add(text) {
		s.touch()
	}
	return nil
}

// Discard removes the text form of x if it is a member.
func (s *Set) Discard(x any) {
	text, err := toText(x)
	if err != nil {
		return
	}
	if m, ok := s.members[text]; ok {
		release(m)
		delete(s.members, text)
		s.touch()
	}
}

func (s *Set) Key(name string) Element {
	return &Virtual{parent: s, ns: s.ns, key: name}
}

func (s *Set) Index(i int) Element {
	return &Virtual{parent: s, ns: s.ns, index: i, indexed: true}
}

// Set rebuilds the set from v.
func (s *Set) Set(v any) error { return replaceElement(s, v) }

func (s *Set) Delete() error { return detachElement(s) }

func (s *Set) add(text string) bool {
	if _, ok := s.members[text]; ok {
		return false
	}
	v := newValue(s.ns, text)
	v.parent = s
	s.members[text] = v
	return true
}

func (s *Set) remove(e Element) {
	if v, ok := e.(*Value); ok && s.members[v.text] == v {
		release(v)
		delete(s.members, v.text)
	}
}

func (s *Set) indexOf(e Element) int {
	for i, m := range s.Members() {
		if m == e {
			return i
		}
	}
	return -1
}

func (s *Set) sorted() []string {
	out := make([]string, 0, len(s.members))
	for k := range s.members {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
