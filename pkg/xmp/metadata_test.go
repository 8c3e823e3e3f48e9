package xmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_LazyNamespacesAreInvisible(t *testing.T) {
	meta, ns := newTestTree(t)
	assert.Equal(t, 0, meta.Len())

	_ = meta.Namespace(otherURI).Key("anything").Value()
	assert.Equal(t, 0, meta.Len(), "reading does not materialize a namespace")
	assert.False(t, meta.Modified())

	require.NoError(t, ns.Key("a").Set(1))
	assert.Equal(t, 1, meta.Len())
	assert.Equal(t, []*Namespace{ns}, meta.Namespaces())

	got, ok := meta.Lookup(otherURI)
	require.True(t, ok)
	assert.Same(t, got, meta.Namespace(otherURI), "namespaces are created once")

	require.NoError(t, ns.DeleteItem("a"))
	assert.Equal(t, 0, meta.Len(), "an emptied namespace is no longer counted")
}
