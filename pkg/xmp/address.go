package xmp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/xmptree/pkg/types"
)

// Path syntax:
//
//	path     = segment *( "/" segment )
//	segment  = [ prefix ":" ] local *( "[" index "]" ) [ "[" slice "]" ]
//
// Indices are zero-based and may be negative in lookups. A slice selector is
// only allowed at the very end of a path.
const (
	pathSeparator   = "/"
	prefixSeparator = ":"
)

// Segment is one step of a qualified path.
type Segment struct {
	Prefix  string // empty for a bare name
	Local   string
	Indices []int
	Slice   *Slice // trailing slice selector, last segment only
}

// Name returns the segment name without selectors.
func (s Segment) Name() string {
	return QualifiedName(s.Prefix, s.Local)
}

func (s Segment) String() string {
	var b strings.Builder
	b.WriteString(s.Name())
	for _, i := range s.Indices {
		b.WriteString("[" + strconv.Itoa(i) + "]")
	}
	if s.Slice != nil {
		b.WriteString("[" + s.Slice.String() + "]")
	}
	return b.String()
}

// QualifiedName joins a prefix and a local key. An empty prefix leaves the
// key bare.
func QualifiedName(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + prefixSeparator + local
}

// SplitName separates a possibly qualified name into prefix and local key.
func SplitName(name string) (prefix, local string) {
	if i := strings.Index(name, prefixSeparator); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// JoinPath appends a qualified child name to a parent path.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + pathSeparator + name
}

// IndexPath appends an array index selector to a path.
func IndexPath(path string, index int) string {
	return path + "[" + strconv.Itoa(index) + "]"
}

// ParsePath splits a path such as "exif:Flash/exif:Function" or
// "test:root_array[2]/test:nested" into segments.
func ParsePath(path string) ([]Segment, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", types.ErrInvalidPath)
	}
	parts := strings.Split(path, pathSeparator)
	segs := make([]Segment, 0, len(parts))
	for i, part := range parts {
		seg, err := ParseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("%w in %q", err, path)
		}
		if seg.Slice != nil && i != len(parts)-1 {
			return nil, fmt.Errorf("%w: slice selector before end of %q", types.ErrInvalidPath, path)
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// ParseSegment parses a single path segment.
func ParseSegment(s string) (Segment, error) {
	var seg Segment
	name := s
	if i := strings.Index(s, "["); i >= 0 {
		name = s[:i]
		rest := s[i:]
		for rest != "" {
			if rest[0] != '[' {
				return Segment{}, fmt.Errorf("%w: segment %q", types.ErrInvalidPath, s)
			}
			end := strings.Index(rest, "]")
			if end < 0 {
				return Segment{}, fmt.Errorf("%w: unterminated selector in %q", types.ErrInvalidPath, s)
			}
			sel := rest[1:end]
			rest = rest[end+1:]
			if seg.Slice != nil {
				return Segment{}, fmt.Errorf("%w: selector after slice in %q", types.ErrInvalidPath, s)
			}
			if strings.Contains(sel, ":") {
				sl, err := ParseSlice(sel)
				if err != nil {
					return Segment{}, err
				}
				seg.Slice = &sl
				continue
			}
			n, err := strconv.Atoi(sel)
			if err != nil {
				return Segment{}, fmt.Errorf("%w: index %q in %q", types.ErrInvalidPath, sel, s)
			}
			seg.Indices = append(seg.Indices, n)
		}
	}
	prefix, local := SplitName(name)
	if local == "" || strings.ContainsAny(local, ":]") {
		return Segment{}, fmt.Errorf("%w: segment %q", types.ErrInvalidPath, s)
	}
	if strings.Contains(name, prefixSeparator) && prefix == "" {
		return Segment{}, fmt.Errorf("%w: empty prefix in %q", types.ErrInvalidPath, s)
	}
	seg.Prefix = prefix
	seg.Local = local
	return seg, nil
}

// resolveName maps a bare or qualified key to the name it is stored under in
// ns. A bare key takes the namespace prefix when one is registered.
func resolveName(ns *Namespace, key string) string {
	prefix, local := SplitName(key)
	if prefix != "" {
		return key
	}
	if p, ok := ns.Prefix(); ok {
		return QualifiedName(p, local)
	}
	return local
}

// qualifyForWrite is resolveName for mutations: the namespace must have a
// registered prefix and a qualified key must use it.
func qualifyForWrite(ns *Namespace, key string) (string, error) {
	p, ok := ns.Prefix()
	if !ok {
		return "", fmt.Errorf("%w: %s has no registered prefix", types.ErrUnregisteredNamespace, ns.URI())
	}
	prefix, local := SplitName(key)
	if local == "" || strings.ContainsAny(local, "/[]") {
		return "", fmt.Errorf("%w: key %q", types.ErrInvalidPath, key)
	}
	if prefix != "" && prefix != p {
		return "", fmt.Errorf("%w: prefix %q does not belong to %s", types.ErrUnregisteredNamespace, prefix, ns.URI())
	}
	return QualifiedName(p, local), nil
}
