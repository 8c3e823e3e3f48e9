package types

import (
	"errors"
	"strings"
)

// Config holds backend selection and parameters for Store.Attach.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`

	// Path is the file whose metadata is being accessed. Depending on its
	// extension the backend reads it as a packet or redirects to a sidecar.
	Path string `json:"path" yaml:"path"`

	// ReadOnly opens the store without the ability to commit.
	ReadOnly bool `json:"read_only" yaml:"read_only"`

	// SidecarSuffix is appended to Path when the file cannot embed metadata.
	// Empty means DefaultSidecarSuffix.
	SidecarSuffix string `json:"sidecar_suffix,omitempty" yaml:"sidecar_suffix,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultSidecarSuffix is the extension appended to files that carry their
// metadata in a companion packet.
const DefaultSidecarSuffix = ".xmp"

// Config validation errors.
var (
	ErrBackendEmpty         = errors.New("backend must not be empty")
	ErrBackendUnknown       = errors.New("unknown backend")
	ErrPathEmpty            = errors.New("path must not be empty")
	ErrSidecarSuffixInvalid = errors.New("sidecar suffix must start with '.'")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Path == "" {
		return ErrPathEmpty
	}
	if c.SidecarSuffix != "" && !strings.HasPrefix(c.SidecarSuffix, ".") {
		return ErrSidecarSuffixInvalid
	}
	return nil
}

// GetSidecarSuffix returns the configured suffix or the default.
func (c Config) GetSidecarSuffix() string {
	if c.SidecarSuffix == "" {
		return DefaultSidecarSuffix
	}
	return c.SidecarSuffix
}
