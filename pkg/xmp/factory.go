package xmp

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/spf13/cast"

	"github.com/mesh-intelligence/xmptree/pkg/types"
)

// Field is one entry of an ordered mapping input.
type Field struct {
	Key   string
	Value any
}

// Fields is an ordered mapping. Assigning Fields creates a Structure whose
// children follow the slice order. Go maps are also accepted; their keys are
// used in sorted order.
type Fields []Field

// Bag is an unordered collection input. Assigning a Bag creates a Set;
// map[T]struct{} does the same.
type Bag []any

var emptyStruct = reflect.TypeOf(struct{}{})

// build converts a Go value into a detached element of ns. Structure keys are
// qualified with the namespace prefix, so building a non-empty mapping needs
// a registered namespace.
func build(ns *Namespace, x any) (Element, error) {
	switch v := x.(type) {
	case nil:
		return newUnsetValue(ns), nil
	case Element:
		return copyElement(ns, v)
	case Fields:
		return buildStructure(ns, v)
	case Bag:
		return buildSet(ns, v)
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Elem() == emptyStruct {
			members := make(Bag, 0, rv.Len())
			for _, k := range rv.MapKeys() {
				members = append(members, k.Interface())
			}
			return buildSet(ns, members)
		}
		fields, err := asFields(x)
		if err != nil {
			return nil, err
		}
		return buildStructure(ns, fields)
	case reflect.Slice, reflect.Array:
		if _, ok := x.([]byte); ok {
			break
		}
		arr := newArray(ns)
		for i := 0; i < rv.Len(); i++ {
			e, err := build(ns, rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			e.base().parent = arr
			arr.items = append(arr.items, e)
		}
		return arr, nil
	case reflect.Pointer:
		if rv.IsNil() {
			return newUnsetValue(ns), nil
		}
		if _, ok := x.(fmt.Stringer); !ok {
			return build(ns, rv.Elem().Interface())
		}
	}

	text, err := toText(x)
	if err != nil {
		return nil, err
	}
	return newValue(ns, text), nil
}

func buildStructure(ns *Namespace, fields Fields) (*Structure, error) {
	s := newStructure(ns)
	for _, f := range fields {
		name, err := qualifyForWrite(ns, f.Key)
		if err != nil {
			return nil, err
		}
		child, err := build(ns, f.Value)
		if err != nil {
			return nil, err
		}
		b := child.base()
		b.parent = s
		b.name = name
		s.put(name, child)
	}
	return s, nil
}

func buildSet(ns *Namespace, members Bag) (*Set, error) {
	s := newSet(ns)
	for _, m := range members {
		text, err := toText(m)
		if err != nil {
			return nil, err
		}
		s.add(text)
	}
	return s, nil
}

// copyElement deep-copies an existing element so the copy can be attached
// elsewhere.
func copyElement(ns *Namespace, e Element) (Element, error) {
	switch v := e.(type) {
	case *Value:
		if !v.isSet {
			return newUnsetValue(ns), nil
		}
		return newValue(ns, v.text), nil
	case *Set:
		return buildSet(ns, toBag(v.sorted()))
	case *Array:
		arr := newArray(ns)
		arr.alt = v.alt
		for _, item := range v.items {
			c, err := copyElement(ns, item)
			if err != nil {
				return nil, err
			}
			c.base().parent = arr
			arr.items = append(arr.items, c)
		}
		return arr, nil
	case *Namespace:
		return copyStructure(ns, &v.Structure)
	case *Structure:
		return copyStructure(ns, v)
	case *Virtual:
		if r := v.Resolve(); r != Element(v) {
			return copyElement(ns, r)
		}
		return newUnsetValue(ns), nil
	default:
		return nil, fmt.Errorf("%w: %T", types.ErrUnsupportedValue, e)
	}
}

func copyStructure(ns *Namespace, src *Structure) (*Structure, error) {
	fields := make(Fields, 0, len(src.names))
	for _, name := range src.names {
		_, local := SplitName(name)
		fields = append(fields, Field{Key: local, Value: src.children[name]})
	}
	return buildStructure(ns, fields)
}

func toBag(items []string) Bag {
	out := make(Bag, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}

// asFields normalizes a mapping input. Go maps are ordered by key.
func asFields(x any) (Fields, error) {
	if f, ok := x.(Fields); ok {
		return f, nil
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Map {
		return nil, fmt.Errorf("%w: expected a mapping, got %T", types.ErrUnsupportedValue, x)
	}
	fields := make(Fields, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		key, err := cast.ToStringE(k.Interface())
		if err != nil {
			return nil, fmt.Errorf("%w: map key %v", types.ErrUnsupportedValue, k.Interface())
		}
		fields = append(fields, Field{Key: key, Value: rv.MapIndex(k).Interface()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return fields, nil
}

// toText returns the stored text of a scalar input.
func toText(x any) (string, error) {
	switch v := x.(type) {
	case string:
		return v, nil
	case bool:
		// XMP Boolean values are spelled True and False.
		if v {
			return "True", nil
		}
		return "False", nil
	case []byte:
		return string(v), nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case *Value:
		return v.text, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	switch reflect.ValueOf(x).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Func, reflect.Chan:
		return "", fmt.Errorf("%w: %T", types.ErrUnsupportedValue, x)
	}
	s, err := cast.ToStringE(x)
	if err != nil {
		return "", fmt.Errorf("%w: %T", types.ErrUnsupportedValue, x)
	}
	return s, nil
}
