package xmp

import (
	"fmt"

	"github.com/mesh-intelligence/xmptree/pkg/types"
)

// MaxArrayGap is the largest number of unset values an assignment or a
// loaded packet may add in front of a new array element.
const MaxArrayGap = 1 << 16

// Array is an ordered sequence of elements. An array loaded from an
// alternative-kind property remembers that and is written back the same way.
type Array struct {
	node
	items []Element
	alt   bool
}

func newArray(ns *Namespace) *Array {
	return &Array{node: node{ns: ns}}
}

func (a *Array) Kind() Kind { return KindArray }

func (a *Array) Address() string { return addressOf(a) }

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.items) }

// IsAlt reports whether the array is an alternative array.
func (a *Array) IsAlt() bool { return a.alt }

// Items returns the elements in order.
func (a *Array) Items() []Element {
	out := make([]Element, len(a.items))
	copy(out, a.items)
	return out
}

// Value returns the materialized elements.
func (a *Array) Value() any {
	out := make([]any, len(a.items))
	for i, e := range a.items {
		out[i] = e.Value()
	}
	return out
}

// At returns the element at i. Negative indices count from the end.
func (a *Array) At(i int) (Element, error) {
	n, ok := a.normalize(i)
	if !ok {
		return nil, fmt.Errorf("%w: index %d out of range for length %d", types.ErrMissingKey, i, len(a.items))
	}
	return a.items[n], nil
}

// Index returns the element at i, or a Virtual when i is out of range.
func (a *Array) Index(i int) Element {
	if e, err := a.At(i); err == nil {
		return e
	}
	return &Virtual{parent: a, ns: a.ns, index: i, indexed: true}
}

// Key yields a Virtual; arrays have no named children.
func (a *Array) Key(name string) Element {
	return &Virtual{parent: a, ns: a.ns, key: name}
}

// Slice returns the elements selected by sl.
func (a *Array) Slice(sl Slice) []Element {
	idx := sl.Indices(len(a.items))
	out := make([]Element, len(idx))
	for k, i := range idx {
		out[k] = a.items[i]
	}
	return out
}

// SetAt assigns v at position i. Assigning past the end pads the array with
// unset values.
func (a *Array) SetAt(i int, v any) error {
	return a.Index(i).Set(v)
}

// DeleteAt removes the element at i.
func (a *Array) DeleteAt(i int) error {
	if !attached(a) {
		return errDetached(a)
	}
	n, ok := a.normalize(i)
	if !ok {
		return fmt.Errorf("%w: index %d out of range for length %d", types.ErrMissingKey, i, len(a.items))
	}
	a.removeAt(n)
	a.touch()
	return nil
}

// DeleteSlice removes every element selected by sl.
func (a *Array) DeleteSlice(sl Slice) error {
	if !attached(a) {
		return errDetached(a)
	}
	idx := sl.Indices(len(a.items))
	if len(idx) == 0 {
		return nil
	}
	drop := make(map[int]bool, len(idx))
	for _, i := range idx {
		drop[i] = true
	}
	kept := a.items[:0:0]
	for i, e := range a.items {
		if drop[i] {
			release(e)
			continue
		}
		kept = append(kept, e)
	}
	a.items = kept
	a.touch()
	return nil
}

// Insert builds an element from v and places it before position pos.
// Positions outside the array clamp to its ends.
func (a *Array) Insert(pos int, v any) error {
	if !attached(a) {
		return errDetached(a)
	}
	e, err := build(a.ns, v)
	if err != nil {
		return err
	}
	n := len(a.items)
	if pos < 0 {
		pos += n
	}
	pos = max(0, min(pos, n))
	e.base().parent = a
	a.items = append(a.items, nil)
	copy(a.items[pos+1:], a.items[pos:])
	a.items[pos] = e
	a.touch()
	return nil
}

// Append adds an element built from v at the end.
func (a *Array) Append(v any) error {
	return a.Insert(len(a.items), v)
}

// Set rebuilds the array from v, discarding every previous element.
func (a *Array) Set(v any) error { return replaceElement(a, v) }

func (a *Array) Delete() error { return detachElement(a) }

// gap returns how many unset values placing an element at i would add.
func (a *Array) gap(i int) int {
	return max(0, i-len(a.items))
}

func (a *Array) normalize(i int) (int, bool) {
	if i < 0 {
		i += len(a.items)
	}
	return i, i >= 0 && i < len(a.items)
}

func (a *Array) indexOf(e Element) int {
	for i, item := range a.items {
		if item == e {
			return i
		}
	}
	return -1
}

func (a *Array) removeAt(i int) {
	if i < 0 || i >= len(a.items) {
		return
	}
	release(a.items[i])
	a.items = append(a.items[:i], a.items[i+1:]...)
}

// place stores e at position i, padding with unset values up to i.
func (a *Array) place(i int, e Element) {
	for len(a.items) < i {
		pad := newUnsetValue(a.ns)
		pad.parent = a
		a.items = append(a.items, pad)
	}
	e.base().parent = a
	e.base().name = ""
	if i < len(a.items) {
		release(a.items[i])
		a.items[i] = e
		return
	}
	a.items = append(a.items, e)
}
