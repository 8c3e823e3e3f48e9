package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/xmptree/pkg/types"
)

// packetExt marks files that are packets themselves rather than files
// carrying a sidecar.
const packetExt = ".xmp"

// Backend implements types.Store on an in-memory SQLite database loaded from
// a packet file. Writes stay in the database until Commit rewrites the
// packet.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	target   string
	header   packetHeader
	modified bool
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

var _ types.Store = (*Backend)(nil)

// resolveTarget returns the packet path for a file. Packet files are used
// directly; any other file must exist and is paired with a sidecar.
func resolveTarget(config types.Config) (string, error) {
	if strings.EqualFold(filepath.Ext(config.Path), packetExt) {
		return config.Path, nil
	}
	if _, err := os.Stat(config.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", types.ErrFileNotFound, config.Path)
		}
		return "", err
	}
	return config.Path + config.GetSidecarSuffix(), nil
}

// Attach opens an in-memory database and loads the packet for config.Path.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	target, err := resolveTarget(config)
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return err
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	hdr, err := loadPacket(db, target)
	if err != nil {
		db.Close()
		return fmt.Errorf("load packet: %w", err)
	}
	if hdr.instanceID == "" {
		hdr.instanceID = generateUUID()
	}

	b.db = db
	b.config = config
	b.target = target
	b.header = hdr
	b.modified = false
	b.attached = true
	return nil
}

// Detach closes the database without committing. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	return nil
}

// Target returns the packet path chosen by the last Attach.
func (b *Backend) Target() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.target
}

// InstanceID returns the identifier recorded in the packet header. Packets
// without one get a fresh UUID v7 on attach.
func (b *Backend) InstanceID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.header.instanceID
}

// SkippedRecords returns the number of packet lines dropped by the last
// Attach because they were malformed or carried an unknown kind.
func (b *Backend) SkippedRecords() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.header.skipped
}

// Modified reports whether the store changed since Attach or Commit.
func (b *Backend) Modified() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.modified
}

// Namespaces returns namespace URIs in document order.
func (b *Backend) Namespaces() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.Query(`SELECT uri FROM namespaces n
		WHERE prefix IS NOT NULL OR EXISTS (SELECT 1 FROM properties p WHERE p.namespace = n.uri)
		ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("querying namespaces: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var uri string
		if err := rows.Scan(&uri); err != nil {
			return nil, err
		}
		out = append(out, uri)
	}
	return out, rows.Err()
}

// ListPaths returns the properties of a namespace in document order.
func (b *Backend) ListPaths(namespaceURI string) ([]types.Property, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := b.db.Query(`SELECT namespace, path, kind, value FROM properties
		WHERE namespace = ? ORDER BY ordinal`, namespaceURI)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()

	var out []types.Property
	for rows.Next() {
		var p types.Property
		if err := rows.Scan(&p.Namespace, &p.Path, &p.Kind, &p.Value); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get returns the value stored at path.
func (b *Backend) Get(path string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return "", types.ErrStoreDetached
	}

	var value string
	err := b.db.QueryRow(`SELECT value FROM properties WHERE path = ?`, path).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", types.ErrPathNotFound, path)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set creates or replaces the property at p.Path. A replaced property keeps
// its position in document order.
func (b *Backend) Set(p types.Property) error {
	if p.Path == "" || p.Namespace == "" {
		return types.ErrInvalidPath
	}
	if !types.IsValidPathKind(p.Kind) {
		return fmt.Errorf("%w: %q", types.ErrInvalidKind, p.Kind)
	}
	if p.IsContainer() {
		p.Value = ""
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT OR IGNORE INTO namespaces (uri, prefix, ordinal)
		 VALUES (?, NULL, (SELECT COALESCE(MAX(ordinal), 0) + 1 FROM namespaces))`,
		p.Namespace); err != nil {
		return fmt.Errorf("adding namespace %s: %w", p.Namespace, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO properties (path, namespace, kind, value, ordinal)
		 VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(ordinal), 0) + 1 FROM properties))
		 ON CONFLICT(path) DO UPDATE SET namespace = excluded.namespace, kind = excluded.kind, value = excluded.value`,
		p.Path, p.Namespace, p.Kind, p.Value); err != nil {
		return fmt.Errorf("setting %s: %w", p.Path, err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	b.modified = true
	return nil
}

// Delete removes path and every path beneath it.
func (b *Backend) Delete(path string) error {
	if path == "" {
		return types.ErrInvalidPath
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	// substr rather than LIKE: '_' is common in keys and is a LIKE wildcard.
	res, err := b.db.Exec(`DELETE FROM properties
		WHERE path = ? OR substr(path, 1, length(?) + 1) IN (? || '/', ? || '[')`,
		path, path, path, path)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", types.ErrPathNotFound, path)
	}
	b.modified = true
	return nil
}

// NamespacePrefix returns the prefix bound to uri.
func (b *Backend) NamespacePrefix(uri string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return "", false
	}

	var prefix sql.NullString
	err := b.db.QueryRow(`SELECT prefix FROM namespaces WHERE uri = ?`, uri).Scan(&prefix)
	if err != nil || !prefix.Valid {
		return "", false
	}
	return prefix.String, true
}

// SetNamespacePrefix binds uri to prefix. Rebinding to the current prefix is
// not a modification.
func (b *Backend) SetNamespacePrefix(uri, prefix string) error {
	if uri == "" || prefix == "" || strings.ContainsAny(prefix, ":/[]") {
		return fmt.Errorf("%w: prefix %q for %q", types.ErrInvalidPath, prefix, uri)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	var current sql.NullString
	err := b.db.QueryRow(`SELECT prefix FROM namespaces WHERE uri = ?`, uri).Scan(&current)
	if err == nil && current.Valid && current.String == prefix {
		return nil
	}

	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// A prefix names one namespace; a previous holder loses it.
	if _, err := tx.Exec(`UPDATE namespaces SET prefix = NULL WHERE prefix = ? AND uri <> ?`, prefix, uri); err != nil {
		return fmt.Errorf("releasing prefix %s: %w", prefix, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO namespaces (uri, prefix, ordinal)
		 VALUES (?, ?, (SELECT COALESCE(MAX(ordinal), 0) + 1 FROM namespaces))
		 ON CONFLICT(uri) DO UPDATE SET prefix = excluded.prefix`,
		uri, prefix); err != nil {
		return fmt.Errorf("binding %s to %s: %w", uri, prefix, err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	b.modified = true
	return nil
}

// Commit rewrites the packet atomically with the current contents.
func (b *Backend) Commit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}
	if b.config.ReadOnly {
		return types.ErrReadOnly
	}

	hdr := packetJSON{
		Type:       recordPacket,
		Format:     packetFormat,
		InstanceID: b.header.instanceID,
		ModifiedAt: time.Now().UTC().Format(time.RFC3339),
	}
	records, err := dumpPacket(b.db, hdr)
	if err != nil {
		return fmt.Errorf("rendering packet: %w", err)
	}
	if err := writeJSONL(b.target, records); err != nil {
		return fmt.Errorf("writing packet %s: %w", b.target, err)
	}
	b.header.modifiedAt = hdr.ModifiedAt
	b.modified = false
	return nil
}

// generateUUID generates a new UUID v7 for packet instance IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
