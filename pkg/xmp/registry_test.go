package xmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_FirstRegistrationWins(t *testing.T) {
	reg := NewRegistry()

	assert.Equal(t, "foo", reg.Register("http://test.com/xmp/1", "foo"))
	assert.Equal(t, "foo", reg.Register("http://test.com/xmp/1", "bar"))

	p, ok := reg.Prefix("http://test.com/xmp/1")
	assert.True(t, ok)
	assert.Equal(t, "foo", p)

	_, ok = reg.URI("bar")
	assert.False(t, ok, "the rejected prefix must stay unbound")
}

func TestRegistry_PrefixCollision(t *testing.T) {
	reg := NewRegistry()

	assert.Equal(t, "test", reg.Register("http://a.example/", "test"))
	assert.Equal(t, "test_1_", reg.Register("http://b.example/", "test"))
	assert.Equal(t, "test_2_", reg.Register("http://c.example/", "test"))

	uri, ok := reg.URI("test_1_")
	assert.True(t, ok)
	assert.Equal(t, "http://b.example/", uri)
	assert.Equal(t, []string{"http://a.example/", "http://b.example/", "http://c.example/"}, reg.Namespaces())
}

func TestRegistry_Isolation(t *testing.T) {
	a, b := NewRegistry(), NewRegistry()
	a.Register("http://test.com/xmp/1", "foo")

	_, ok := b.Prefix("http://test.com/xmp/1")
	assert.False(t, ok)
}

func TestRegistry_RegisterStandard(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterStandard()

	p, ok := reg.Prefix(NSEXIF)
	assert.True(t, ok)
	assert.Equal(t, "exif", p)
	assert.Len(t, reg.Namespaces(), len(StandardNamespaces))

	reg.RegisterStandard()
	assert.Len(t, reg.Namespaces(), len(StandardNamespaces), "re-registering is a no-op")
}
