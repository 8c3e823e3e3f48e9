package xmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/xmptree/pkg/types"
)

func intRange(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestArray_IndexAndAddress(t *testing.T) {
	_, ns := newTestTree(t)
	require.NoError(t, ns.Key("arr").Set([]any{"a", "b", "c"}))
	arr := ns.Key("arr").(*Array)

	assert.Equal(t, 3, arr.Len())
	assert.Equal(t, "a", arr.Index(0).Value())
	assert.Equal(t, "c", arr.Index(-1).Value())

	elem := arr.Index(1)
	assert.True(t, elem.IsArrayElement())
	assert.False(t, elem.IsTopLevel())
	assert.Equal(t, arr.Address(), elem.Address(), "elements share the array address")
	assert.Equal(t, "test:arr", elem.ParentAddress())

	_, err := arr.At(3)
	assert.ErrorIs(t, err, types.ErrMissingKey)
	assert.Equal(t, KindVirtual, arr.Index(3).Kind())
}

func TestArray_ReplaceIsDestructive(t *testing.T) {
	_, ns := newTestTree(t)
	require.NoError(t, ns.Key("top_level_array").Set([]any{1, 2}))
	require.NoError(t, ns.Key("top_level_array").Set([]any{3, 4, 5, 6}))

	assert.Equal(t, []any{"3", "4", "5", "6"}, ns.Key("top_level_array").Value())
}

func TestArray_SetAtExpandsAndShrinks(t *testing.T) {
	_, ns := newTestTree(t)
	require.NoError(t, ns.Key("arr").Set([]any{1}))
	arr := ns.Key("arr").(*Array)

	require.NoError(t, arr.SetAt(3, "x"))
	assert.Equal(t, []any{"1", nil, nil, "x"}, arr.Value())

	require.NoError(t, arr.SetAt(-1, "y"))
	assert.Equal(t, "y", arr.Index(3).Value())

	require.NoError(t, arr.DeleteAt(1))
	require.NoError(t, arr.DeleteAt(-1))
	assert.Equal(t, []any{"1", nil}, arr.Value())

	assert.ErrorIs(t, arr.DeleteAt(5), types.ErrMissingKey)
}

func TestArray_Insert(t *testing.T) {
	_, ns := newTestTree(t)
	require.NoError(t, ns.Key("arr").Set([]any{"b", "d"}))
	arr := ns.Key("arr").(*Array)

	require.NoError(t, arr.Insert(0, "a"))
	require.NoError(t, arr.Insert(2, "c"))
	require.NoError(t, arr.Append("e"))
	require.NoError(t, arr.Insert(100, "f"))
	require.NoError(t, arr.Insert(-1, "e2"))

	assert.Equal(t, []any{"a", "b", "c", "d", "e", "e2", "f"}, arr.Value())
	assert.Same(t, arr, arr.Index(0).Parent())
}

func TestArray_ArrayInArray(t *testing.T) {
	_, ns := newTestTree(t)
	require.NoError(t, ns.Key("matrix").Set([][]int{{1, 2}, {3, 4}}))

	m := ns.Key("matrix").(*Array)
	inner, ok := m.Index(1).(*Array)
	require.True(t, ok)
	assert.Equal(t, "4", inner.Index(-1).Value())

	e, err := ns.Item("matrix[1][-1]")
	require.NoError(t, err)
	assert.Equal(t, "4", e.Value())

	require.NoError(t, ns.Key("grid").Index(1).Index(2).Set("z"))
	assert.Equal(t, []any{nil, []any{nil, nil, "z"}}, ns.Key("grid").Value())
}

func TestArray_StructureInArrayPads(t *testing.T) {
	_, ns := newTestTree(t)

	require.NoError(t, ns.Key("root_array").Index(2).Key("nested_structure").Set(12))

	arr := ns.Key("root_array").(*Array)
	require.Equal(t, 3, arr.Len())
	assert.Nil(t, arr.Index(0).Value())
	assert.Nil(t, arr.Index(1).Value())

	s, ok := arr.Index(2).(*Structure)
	require.True(t, ok)
	assert.Equal(t, "12", s.Key("nested_structure").Value())
	assert.Equal(t, "test:root_array[2]/test:nested_structure", s.Key("nested_structure").Address())

	e, err := ns.Item("root_array[2]/nested_structure")
	require.NoError(t, err)
	assert.Equal(t, "12", e.Value())
}

func TestArray_DeleteSlices(t *testing.T) {
	_, ns := newTestTree(t)
	require.NoError(t, ns.Key("arr").Set(intRange(12)))
	arr := ns.Key("arr").(*Array)

	require.NoError(t, arr.DeleteSlice(From(6)))
	assert.Equal(t, []any{"0", "1", "2", "3", "4", "5"}, arr.Value())

	require.NoError(t, ns.DeleteItem("arr[::2]"))
	assert.Equal(t, []any{"1", "3", "5"}, arr.Value())

	require.NoError(t, ns.DeleteItem("arr[:]"))
	assert.Equal(t, 0, arr.Len())
	assert.True(t, ns.Has("arr"), "an emptied array stays in place")
}

func TestArray_Slice(t *testing.T) {
	_, ns := newTestTree(t)
	require.NoError(t, ns.Key("arr").Set(intRange(5)))
	arr := ns.Key("arr").(*Array)

	var got []any
	for _, e := range arr.Slice(Span(1, 4)) {
		got = append(got, e.Value())
	}
	assert.Equal(t, []any{"1", "2", "3"}, got)

	got = nil
	for _, e := range arr.Slice(Every(-2)) {
		got = append(got, e.Value())
	}
	assert.Equal(t, []any{"4", "2", "0"}, got)
}

func TestArray_NegativeIndexOnMissingArray(t *testing.T) {
	_, ns := newTestTree(t)
	err := ns.Key("arr").Index(-1).Set("x")
	assert.ErrorIs(t, err, types.ErrUnsupportedOperation)
	assert.False(t, ns.Has("arr"))
}

func TestArray_PaddingIsBounded(t *testing.T) {
	meta, ns := newTestTree(t)

	err := ns.Key("arr").Index(4000000000).Set("x")
	assert.ErrorIs(t, err, types.ErrUnsupportedOperation)
	assert.False(t, ns.Has("arr"))
	assert.False(t, meta.Modified())

	require.NoError(t, ns.Key("arr").Set([]any{"a", "b"}))
	arr := ns.Key("arr").(*Array)
	assert.ErrorIs(t, arr.SetAt(2+MaxArrayGap+1, "x"), types.ErrUnsupportedOperation)
	assert.Equal(t, 2, arr.Len())

	require.NoError(t, arr.SetAt(2+MaxArrayGap, "x"))
	assert.Equal(t, 3+MaxArrayGap, arr.Len())
}
