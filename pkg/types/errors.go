package types

import "errors"

// Tree access errors.
var (
	// ErrMissingKey is returned by strict lookups on an absent key or an
	// out-of-range index.
	ErrMissingKey = errors.New("missing key")

	// ErrUnsupportedOperation is returned for structurally invalid mutations,
	// such as deleting a path that does not exist.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrUnregisteredNamespace is returned when writing under a namespace
	// that has no registered prefix, or with a prefix bound elsewhere.
	ErrUnregisteredNamespace = errors.New("unregistered namespace")

	// ErrUnsupportedValue is returned when a Go value has no metadata form.
	ErrUnsupportedValue = errors.New("unsupported value")
)

// Session errors.
var (
	// ErrUnpersistedWrite marks a mutation that was discarded because the
	// session was opened read-only. It is reported through a Warning.
	ErrUnpersistedWrite = errors.New("write discarded: file opened read-only")

	ErrSessionOpen = errors.New("session is already open")
)
