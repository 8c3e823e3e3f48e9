package xmp

import (
	"fmt"

	"github.com/mesh-intelligence/xmptree/pkg/types"
)

// Virtual stands for an element that does not exist yet. Reading through it
// yields nil; assigning to it creates it together with every missing
// ancestor. Each hop is either a key or an index into its parent.
type Virtual struct {
	parent  Element // a *Virtual or the nearest concrete ancestor
	ns      *Namespace
	key     string
	index   int
	indexed bool
}

func (v *Virtual) Kind() Kind { return KindVirtual }

func (v *Virtual) base() *node { return &node{ns: v.ns, parent: v.parent, name: v.key} }

func (v *Virtual) Namespace() *Namespace { return v.ns }

func (v *Virtual) Parent() Element { return v.parent }

func (v *Virtual) IsTopLevel() bool {
	_, ok := v.parent.(*Namespace)
	return ok && !v.indexed
}

func (v *Virtual) IsArrayElement() bool { return v.indexed }

// Address is the parent's path extended with this hop. Keys take the
// namespace prefix when one is registered.
func (v *Virtual) Address() string { return v.path() }

func (v *Virtual) ParentAddress() string {
	if _, ok := v.parent.(*Namespace); ok {
		return ""
	}
	return v.parent.Address()
}

func (v *Virtual) path() string {
	base := pathOf(v.parent)
	if v.indexed {
		return IndexPath(base, v.index)
	}
	return JoinPath(base, resolveName(v.ns, v.key))
}

// Value returns the value of the element at this address if it has been
// created since the Virtual was obtained, nil otherwise.
func (v *Virtual) Value() any {
	if e := v.Resolve(); e != Element(v) {
		return e.Value()
	}
	return nil
}

// Resolve returns the concrete element now at this address, or v itself.
// A Virtual obtained below an element that has since been removed never
// resolves.
func (v *Virtual) Resolve() Element {
	chain, anchor := v.chain()
	if !attached(anchor) {
		return v
	}
	cur := anchor
	for _, hop := range chain {
		next, ok := lookupHop(cur, hop)
		if !ok {
			return v
		}
		cur = next
	}
	return cur
}

func (v *Virtual) Key(name string) Element {
	return &Virtual{parent: v, ns: v.ns, key: name}
}

func (v *Virtual) Index(i int) Element {
	return &Virtual{parent: v, ns: v.ns, index: i, indexed: true}
}

// Delete fails: there is nothing to remove.
func (v *Virtual) Delete() error {
	return fmt.Errorf("%w: %s does not exist", types.ErrUnsupportedOperation, v.Address())
}

// Set builds x and stores it at this address. Missing ancestors become
// structures for key hops and arrays for index hops; arrays are padded with
// unset values up to the requested index. Nothing is created when any part
// of the assignment is invalid.
func (v *Virtual) Set(x any) error {
	chain, anchor := v.chain()
	if !attached(anchor) {
		return errDetached(v)
	}
	cur := anchor
	i := 0
	for ; i < len(chain); i++ {
		next, ok := lookupHop(cur, chain[i])
		if !ok {
			break
		}
		cur = next
	}
	if i == len(chain) {
		return cur.Set(x)
	}

	if !accepts(cur, chain[i]) {
		return fmt.Errorf("%w: cannot create %s under a %s", types.ErrUnsupportedOperation, v.Address(), cur.Kind())
	}
	names := make([]string, len(chain))
	for j := i; j < len(chain); j++ {
		hop := chain[j]
		if hop.indexed {
			if hop.index < 0 {
				return fmt.Errorf("%w: negative index %d at %s", types.ErrUnsupportedOperation, hop.index, hop.Address())
			}
			gap := hop.index
			if arr, ok := cur.(*Array); ok && j == i {
				gap = arr.gap(hop.index)
			}
			if gap > MaxArrayGap {
				return fmt.Errorf("%w: index %d at %s pads more than %d elements", types.ErrUnsupportedOperation, hop.index, hop.Address(), MaxArrayGap)
			}
			continue
		}
		name, err := qualifyForWrite(v.ns, hop.key)
		if err != nil {
			return err
		}
		names[j] = name
	}
	leaf, err := build(v.ns, x)
	if err != nil {
		return err
	}

	for j := i; j < len(chain)-1; j++ {
		var c Element
		if chain[j+1].indexed {
			c = newArray(v.ns)
		} else {
			c = newStructure(v.ns)
		}
		attach(cur, chain[j], names[j], c)
		cur = c
	}
	attach(cur, chain[len(chain)-1], names[len(chain)-1], leaf)
	v.ns.meta.touch()
	return nil
}

// chain returns the virtual hops from just below the nearest concrete
// ancestor down to v, together with that ancestor.
func (v *Virtual) chain() ([]*Virtual, Element) {
	var hops []*Virtual
	var cur Element = v
	for {
		hv, ok := cur.(*Virtual)
		if !ok {
			break
		}
		hops = append(hops, hv)
		cur = hv.parent
	}
	for l, r := 0, len(hops)-1; l < r; l, r = l+1, r-1 {
		hops[l], hops[r] = hops[r], hops[l]
	}
	return hops, cur
}

func lookupHop(cur Element, hop *Virtual) (Element, bool) {
	if hop.indexed {
		arr, ok := cur.(*Array)
		if !ok {
			return nil, false
		}
		e, err := arr.At(hop.index)
		return e, err == nil
	}
	k, ok := cur.(keyed)
	if !ok {
		return nil, false
	}
	return k.lookup(hop.key)
}

func accepts(cur Element, hop *Virtual) bool {
	if hop.indexed {
		_, ok := cur.(*Array)
		return ok
	}
	_, ok := cur.(keyed)
	return ok
}

func attach(container Element, hop *Virtual, name string, child Element) {
	if hop.indexed {
		container.(*Array).place(hop.index, child)
		return
	}
	k := container.(keyed)
	b := child.base()
	b.parent = k
	b.name = name
	k.put(name, child)
}
