package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/xmptree/pkg/types"
)

// packetHeader is what loadPacket learns from the header record.
type packetHeader struct {
	instanceID string
	modifiedAt string
	skipped    int // lines or records dropped while loading
}

// loadPacket reads the packet at path into db. A missing packet leaves the
// database empty. Loading is transactional: all records load or none do.
// Malformed lines and properties of unknown kind are skipped and counted.
// Records of unknown type and unknown fields are ignored.
func loadPacket(db *sql.DB, path string) (packetHeader, error) {
	var hdr packetHeader
	records, skipped, err := readJSONL(path)
	if errors.Is(err, os.ErrNotExist) {
		return hdr, nil
	}
	if err != nil {
		return hdr, err
	}
	hdr.skipped = skipped

	tx, err := db.Begin()
	if err != nil {
		return hdr, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	nsOrdinal, propOrdinal := 0, 0
	for _, raw := range records {
		var rec recordJSON
		if err := json.Unmarshal(raw, &rec); err != nil {
			hdr.skipped++
			continue
		}
		switch rec.Type {
		case recordPacket:
			var p packetJSON
			if err := json.Unmarshal(raw, &p); err != nil {
				hdr.skipped++
				continue
			}
			hdr.instanceID = p.InstanceID
			hdr.modifiedAt = p.ModifiedAt
		case recordNamespace:
			var n namespaceJSON
			if err := json.Unmarshal(raw, &n); err != nil || n.URI == "" {
				hdr.skipped++
				continue
			}
			nsOrdinal++
			if _, err := tx.Exec(
				`INSERT INTO namespaces (uri, prefix, ordinal) VALUES (?, NULLIF(?, ''), ?)
				 ON CONFLICT(uri) DO UPDATE SET prefix = excluded.prefix`,
				n.URI, n.Prefix, nsOrdinal); err != nil {
				return hdr, fmt.Errorf("loading namespace %s: %w", n.URI, err)
			}
		case recordProperty:
			var p propertyJSON
			if err := json.Unmarshal(raw, &p); err != nil {
				hdr.skipped++
				continue
			}
			if p.Path == "" || p.Namespace == "" || !types.IsValidPathKind(p.Kind) {
				hdr.skipped++
				continue
			}
			nsOrdinal++
			if _, err := tx.Exec(
				`INSERT OR IGNORE INTO namespaces (uri, prefix, ordinal) VALUES (?, NULL, ?)`,
				p.Namespace, nsOrdinal); err != nil {
				return hdr, fmt.Errorf("loading namespace %s: %w", p.Namespace, err)
			}
			propOrdinal++
			if _, err := tx.Exec(
				`INSERT OR REPLACE INTO properties (path, namespace, kind, value, ordinal) VALUES (?, ?, ?, ?, ?)`,
				p.Path, p.Namespace, p.Kind, p.Value, propOrdinal); err != nil {
				return hdr, fmt.Errorf("loading property %s: %w", p.Path, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return hdr, fmt.Errorf("committing load transaction: %w", err)
	}
	return hdr, nil
}

// dumpPacket renders the database as packet records in document order.
func dumpPacket(db *sql.DB, hdr packetJSON) ([]json.RawMessage, error) {
	var out []json.RawMessage
	add := func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out = append(out, data)
		return nil
	}
	if err := add(hdr); err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT uri, prefix FROM namespaces WHERE prefix IS NOT NULL ORDER BY ordinal`)
	if err != nil {
		return nil, fmt.Errorf("querying namespaces: %w", err)
	}
	for rows.Next() {
		n := namespaceJSON{Type: recordNamespace}
		if err := rows.Scan(&n.URI, &n.Prefix); err != nil {
			rows.Close()
			return nil, err
		}
		if err := add(n); err != nil {
			rows.Close()
			return nil, err
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.Query(`SELECT p.namespace, p.path, p.kind, p.value FROM properties p
		JOIN namespaces n ON n.uri = p.namespace
		ORDER BY n.ordinal, p.ordinal`)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p := propertyJSON{Type: recordProperty}
		if err := rows.Scan(&p.Namespace, &p.Path, &p.Kind, &p.Value); err != nil {
			return nil, err
		}
		if err := add(p); err != nil {
			return nil, err
		}
	}
	return out, rows.Err()
}
