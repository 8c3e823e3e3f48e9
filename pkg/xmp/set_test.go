package xmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/xmptree/pkg/types"
)

func TestSet_Contains(t *testing.T) {
	_, ns := newTestTree(t)
	require.NoError(t, ns.Key("keywords").Set(Bag{"a", "b", 3, "a"}))

	s, ok := ns.Key("keywords").(*Set)
	require.True(t, ok)
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains("a"))
	assert.True(t, s.Contains(3), "membership compares text forms")
	assert.True(t, s.Contains("3"))
	assert.False(t, s.Contains("c"))
	assert.Equal(t, []string{"3", "a", "b"}, s.Value())
}

func TestSet_FromGoSet(t *testing.T) {
	_, ns := newTestTree(t)
	require.NoError(t, ns.Key("tags").Set(map[string]struct{}{"x": {}, "y": {}}))

	assert.Equal(t, KindSet, ns.Key("tags").Kind())
	assert.Equal(t, []string{"x", "y"}, ns.Key("tags").Value())
}

func TestSet_UpdateMembers(t *testing.T) {
	meta, ns := newTestTree(t)
	require.NoError(t, ns.Key("tags").Set(Bag{"x"}))
	s := ns.Key("tags").(*Set)

	require.NoError(t, s.Add("y"))
	require.NoError(t, s.Add("x"))
	assert.Equal(t, 2, s.Len())

	s.Discard("x")
	assert.Equal(t, []string{"y"}, s.Value())

	require.NoError(t, s.Members()[0].Delete())
	assert.Equal(t, 0, s.Len())
	assert.True(t, meta.Modified())

	assert.ErrorIs(t, s.Add([]int{1}), types.ErrUnsupportedValue)
	assert.ErrorIs(t, ns.Key("nested").Set(Bag{Fields{{"a", 1}}}), types.ErrUnsupportedValue)
}

func TestSet_MembersAreNotWritable(t *testing.T) {
	_, ns := newTestTree(t)
	require.NoError(t, ns.Key("tags").Set(Bag{"x"}))
	s := ns.Key("tags").(*Set)

	assert.ErrorIs(t, s.Members()[0].Set("z"), types.ErrUnsupportedOperation)
	assert.ErrorIs(t, s.Index(0).Set("z"), types.ErrUnsupportedOperation)
	assert.ErrorIs(t, s.Key("k").Set("z"), types.ErrUnsupportedOperation)
}
