package types

import (
	"errors"
	"fmt"
)

// Warning is a non-fatal condition returned in place of an error. The
// operation that produced it completed; callers may log it and continue.
type Warning struct {
	Path string
	Err  error
}

func (w *Warning) Error() string {
	return fmt.Sprintf("warning: %s: %v", w.Path, w.Err)
}

func (w *Warning) Unwrap() error {
	return w.Err
}

// IsWarning reports whether err is, or wraps, a *Warning.
func IsWarning(err error) bool {
	var w *Warning
	return errors.As(err, &w)
}
