package sqlite

// Packet record types. A packet file starts with one packetJSON header
// followed by namespace bindings and then properties in document order.
const (
	recordPacket    = "packet"
	recordNamespace = "namespace"
	recordProperty  = "property"
)

// packetFormat is written into every header.
const packetFormat = 1

// recordJSON is decoded first to dispatch on the record type.
type recordJSON struct {
	Type string `json:"type"`
}

// packetJSON is the header record.
type packetJSON struct {
	Type       string `json:"type"`
	Format     int    `json:"format"`
	InstanceID string `json:"instance_id"`
	ModifiedAt string `json:"modified_at"`
}

// namespaceJSON binds a namespace URI to the prefix used in paths.
type namespaceJSON struct {
	Type   string `json:"type"`
	URI    string `json:"uri"`
	Prefix string `json:"prefix"`
}

// propertyJSON is one qualified path.
type propertyJSON struct {
	Type      string `json:"type"`
	Namespace string `json:"namespace"`
	Path      string `json:"path"`
	Kind      string `json:"kind"`
	Value     string `json:"value,omitempty"`
}
