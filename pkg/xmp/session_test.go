package xmp

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/xmptree/pkg/types"
)

func testRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(testURI, "test")
	return reg
}

func writePacket(t *testing.T, path string, fn func(*Metadata) error) {
	t.Helper()
	require.NoError(t, WithFile(path, fn, WithReadWrite(), WithRegistry(testRegistry())))
}

func TestSession_ReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xmp")

	writePacket(t, path, func(m *Metadata) error {
		ns := m.Namespace(testURI)
		if err := ns.Key("title").Set("hello"); err != nil {
			return err
		}
		if err := ns.Key("root_array").Index(2).Key("nested").Set(12); err != nil {
			return err
		}
		if err := ns.Key("list").Set([]any{"x"}); err != nil {
			return err
		}
		return ns.Key("tags").Set(Bag{"b", "a"})
	})

	s, err := Open(path, WithRegistry(testRegistry()))
	require.NoError(t, err)
	defer s.Close()

	ns := s.Metadata().Namespace(testURI)
	assert.Equal(t, []string{"test:title", "test:root_array", "test:list", "test:tags"}, ns.Keys())
	assert.Equal(t, "hello", ns.Key("title").Value())
	assert.Equal(t, []string{"a", "b"}, ns.Key("tags").Value())

	arr := ns.Key("root_array").(*Array)
	require.Equal(t, 3, arr.Len())
	assert.Equal(t, "", arr.Index(0).Value(), "padding reloads as empty text")
	assert.Equal(t, "12", arr.Index(2).Key("nested").Value())
	assert.False(t, s.Metadata().Modified())
}

func TestSession_NoOpLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xmp")
	writePacket(t, path, func(m *Metadata) error {
		return m.Namespace(testURI).Key("a").Set(1)
	})
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WithFile(path, func(m *Metadata) error {
		_ = m.Namespace(testURI).Key("a").Value()
		_ = m.Namespace(testURI).Key("missing").Key("deeper").Value()
		return nil
	}, WithReadWrite(), WithRegistry(testRegistry())))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSession_ReadOnlyWarnsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xmp")
	core, logs := observer.New(zapcore.WarnLevel)

	s, err := Open(path, WithRegistry(testRegistry()), WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.NoError(t, s.Metadata().Namespace(testURI).Key("a").Set("1"))

	err = s.Close()
	require.Error(t, err)
	assert.True(t, types.IsWarning(err))
	assert.ErrorIs(t, err, types.ErrUnpersistedWrite)
	assert.Equal(t, 1, logs.Len())

	assert.NoError(t, s.Close(), "a second Close is a no-op")
	assert.Equal(t, 1, logs.Len())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "read-only sessions never write")
}

func TestSession_ReadOnlyStoreWriteWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xmp")

	s, err := Open(path, WithRegistry(testRegistry()))
	require.NoError(t, err)
	require.NoError(t, s.Store().Set(types.Property{Namespace: testURI, Path: "test:a", Kind: types.PathKindValue, Value: "1"}))

	var w *types.Warning
	require.True(t, errors.As(s.Close(), &w))
	assert.Equal(t, path, w.Path)
}

func TestSession_ReadOnlyUnmodifiedIsSilent(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "doc.xmp"), WithRegistry(testRegistry()))
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestSession_SidecarCreated(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg"), 0o644))

	writePacket(t, photo, func(m *Metadata) error {
		return m.Namespace(testURI).Key("a").Set(1)
	})

	_, err := os.Stat(photo + ".xmp")
	assert.NoError(t, err)
	data, err := os.ReadFile(photo)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data, "the primary file keeps its bytes")
}

func TestSession_SidecarSuffix(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg"), 0o644))

	require.NoError(t, WithFile(photo, func(m *Metadata) error {
		return m.Namespace(testURI).Key("a").Set(1)
	}, WithReadWrite(), WithRegistry(testRegistry()), WithSidecarSuffix(".meta")))

	_, err := os.Stat(photo + ".meta")
	assert.NoError(t, err)
	data, err := os.ReadFile(photo)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)
}

func TestSession_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "gone.jpg"))
	assert.ErrorIs(t, err, types.ErrFileNotFound)
}

func TestSession_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xmp")
	s := NewSession(path, WithReadWrite(), WithRegistry(testRegistry()))
	assert.False(t, s.IsOpen())
	assert.Nil(t, s.Metadata())

	require.NoError(t, s.Open())
	assert.ErrorIs(t, s.Open(), types.ErrSessionOpen)
	require.NoError(t, s.Metadata().Namespace(testURI).Key("a").Set("1"))
	require.NoError(t, s.Close())
	assert.Nil(t, s.Store())

	require.NoError(t, s.Open())
	assert.Equal(t, "1", s.Metadata().Namespace(testURI).Key("a").Value())
	require.NoError(t, s.Metadata().Namespace(testURI).Key("a").Delete())
	require.NoError(t, s.Close())

	require.NoError(t, s.Open())
	defer s.Close()
	assert.Equal(t, 0, s.Metadata().Len())
}

func TestSession_WithFileClosesOnPanic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xmp")

	assert.Panics(t, func() {
		_ = WithFile(path, func(m *Metadata) error {
			_ = m.Namespace(testURI).Key("a").Set("1")
			panic("boom")
		}, WithReadWrite(), WithRegistry(testRegistry()))
	})

	s, err := Open(path, WithRegistry(testRegistry()))
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "1", s.Metadata().Namespace(testURI).Key("a").Value(), "changes are committed on the way out")
}

func TestSession_WithFileJoinsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xmp")
	boom := errors.New("boom")

	err := WithFile(path, func(*Metadata) error { return boom }, WithRegistry(testRegistry()))
	assert.ErrorIs(t, err, boom)
}

func TestSession_DamagedPacketWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xmp")
	packet := `{"type":"property","namespace":"` + testURI + `","path":"test:a","kind":"value","value":"1"}
not a record
`
	require.NoError(t, os.WriteFile(path, []byte(packet), 0o644))
	core, logs := observer.New(zapcore.WarnLevel)

	s, err := Open(path, WithRegistry(testRegistry()), WithLogger(zap.New(core)))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "1", s.Metadata().Namespace(testURI).Key("a").Value())
	entries := logs.FilterMessage("packet has unreadable records").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["skipped"])
}
