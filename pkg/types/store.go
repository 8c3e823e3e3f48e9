package types

import "errors"

// Store defines the flat metadata property store that a tree is loaded from
// and committed to. Callers attach to a file, read and write qualified paths,
// and detach when done. Writes stay in the store until Commit.
type Store interface {
	// Attach opens the store for the file described by config. Returns
	// ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources without committing. Idempotent:
	// multiple calls succeed. After Detach, operations return ErrStoreDetached.
	Detach() error

	// Namespaces returns the URIs of every namespace that has a prefix
	// binding or at least one property, in document order.
	Namespaces() ([]string, error)

	// ListPaths returns the properties of a namespace in document order.
	// A container is always listed before its children.
	ListPaths(namespaceURI string) ([]Property, error)

	// Get returns the textual value stored at path.
	// Returns ErrPathNotFound if nothing is stored there.
	Get(path string) (string, error)

	// Set creates or replaces the property at p.Path.
	Set(p Property) error

	// Delete removes the property at path and every path beneath it.
	// Returns ErrPathNotFound if nothing is stored there.
	Delete(path string) error

	// NamespacePrefix returns the prefix bound to uri, if any.
	NamespacePrefix(uri string) (string, bool)

	// SetNamespacePrefix persists a namespace to prefix binding.
	SetNamespacePrefix(uri, prefix string) error

	// Modified reports whether the store changed since Attach or the last
	// Commit, whichever is later.
	Modified() bool

	// Commit persists the full property set. Returns ErrReadOnly when the
	// store was attached read-only.
	Commit() error

	// Target returns the packet path the store reads and commits, which is
	// either the attached file itself or its sidecar.
	Target() string
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrReadOnly        = errors.New("store is read-only")
	ErrFileNotFound    = errors.New("file not found")
	ErrPathNotFound    = errors.New("path not found")
	ErrInvalidPath     = errors.New("invalid qualified path")
	ErrInvalidKind     = errors.New("invalid path kind")
)
