// Package sqlite implements the property store behind a metadata session.
// A packet file (JSONL) is the source of truth; an in-memory SQLite database
// is the query engine while the store is attached.
package sqlite

// Schema DDL. Ordinals record document order.
const (
	createNamespaces = `CREATE TABLE namespaces (
    uri TEXT PRIMARY KEY,
    prefix TEXT UNIQUE,
    ordinal INTEGER NOT NULL
);`

	createProperties = `CREATE TABLE properties (
    path TEXT PRIMARY KEY,
    namespace TEXT NOT NULL,
    kind TEXT NOT NULL,
    value TEXT NOT NULL DEFAULT '',
    ordinal INTEGER NOT NULL,
    FOREIGN KEY (namespace) REFERENCES namespaces(uri)
);`

	idxPropertiesNamespace = `CREATE INDEX idx_properties_namespace ON properties(namespace, ordinal);`
)

// schemaDDL lists all CREATE statements in dependency order.
var schemaDDL = []string{
	createNamespaces,
	createProperties,
	idxPropertiesNamespace,
}
