package xmp

import "testing"

const (
	testURI  = "http://test.com/xmp/test/1"
	otherURI = "http://test.com/xmp/test/2"
)

// newTestTree returns a tree with its own registry in which testURI is bound
// to the "test" prefix.
func newTestTree(t *testing.T) (*Metadata, *Namespace) {
	t.Helper()
	reg := NewRegistry()
	reg.Register(testURI, "test")
	meta := NewMetadata(reg)
	return meta, meta.Namespace(testURI)
}
