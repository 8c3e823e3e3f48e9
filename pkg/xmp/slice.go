package xmp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/xmptree/pkg/types"
)

// Slice addresses array positions with start:stop:step semantics. Nil bounds
// take their defaults, negative bounds count from the end, out-of-range
// bounds are clamped, and a zero Step means 1.
type Slice struct {
	Start *int
	Stop  *int
	Step  int
}

// All is the slice that covers every position.
var All = Slice{}

// Span returns the slice [start:stop].
func Span(start, stop int) Slice {
	return Slice{Start: &start, Stop: &stop}
}

// From returns the slice [start:].
func From(start int) Slice {
	return Slice{Start: &start}
}

// Every returns the slice [::step].
func Every(step int) Slice {
	return Slice{Step: step}
}

// ParseSlice parses "start:stop" or "start:stop:step" where every part may be
// empty, for example "6:", "::2", ":-1" or ":".
func ParseSlice(s string) (Slice, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Slice{}, fmt.Errorf("%w: slice %q", types.ErrInvalidPath, s)
	}
	var out Slice
	bound := func(p string) (*int, error) {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: slice %q", types.ErrInvalidPath, s)
		}
		return &n, nil
	}
	var err error
	if out.Start, err = bound(parts[0]); err != nil {
		return Slice{}, err
	}
	if out.Stop, err = bound(parts[1]); err != nil {
		return Slice{}, err
	}
	if len(parts) == 3 {
		step, err := bound(parts[2])
		if err != nil {
			return Slice{}, err
		}
		if step != nil {
			if *step == 0 {
				return Slice{}, fmt.Errorf("%w: slice step cannot be zero", types.ErrInvalidPath)
			}
			out.Step = *step
		}
	}
	return out, nil
}

// Indices returns the positions the slice selects in a sequence of the given
// length, in selection order.
func (s Slice) Indices(length int) []int {
	step := s.Step
	if step == 0 {
		step = 1
	}
	var start, stop int
	if step > 0 {
		start, stop = 0, length
	} else {
		start, stop = length-1, -1
	}
	clamp := func(v int) int {
		if v < 0 {
			v += length
			if v < 0 {
				if step < 0 {
					return -1
				}
				return 0
			}
		} else if v >= length {
			if step < 0 {
				return length - 1
			}
			return length
		}
		return v
	}
	if s.Start != nil {
		start = clamp(*s.Start)
	}
	if s.Stop != nil {
		stop = clamp(*s.Stop)
	}

	var out []int
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, i)
		}
	}
	return out
}

func (s Slice) String() string {
	var b strings.Builder
	if s.Start != nil {
		b.WriteString(strconv.Itoa(*s.Start))
	}
	b.WriteByte(':')
	if s.Stop != nil {
		b.WriteString(strconv.Itoa(*s.Stop))
	}
	if s.Step != 0 && s.Step != 1 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(s.Step))
	}
	return b.String()
}
