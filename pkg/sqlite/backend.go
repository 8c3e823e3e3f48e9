// Package sqlite exposes the default property store while keeping its
// implementation internal.
package sqlite

import (
	"github.com/mesh-intelligence/xmptree/internal/sqlite"
	"github.com/mesh-intelligence/xmptree/pkg/types"
)

// NewBackend creates a new SQLite-backed store.
// The store is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    Path:    "photo.jpg",
//	})
//	defer store.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}
