package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONL_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.xmp")
	content := "{\"a\":1}\n\nnot json\n{\"b\":2}\n{broken\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, skipped, err := readJSONL(path)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"a":1}`, string(records[0]))
	assert.JSONEq(t, `{"b":2}`, string(records[1]))
}

func TestReadJSONL_Missing(t *testing.T) {
	_, _, err := readJSONL(filepath.Join(t.TempDir(), "missing.xmp"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteJSONL_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.xmp")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	records := []json.RawMessage{json.RawMessage(`{"x":1}`), json.RawMessage(`{"y":2}`)}
	require.NoError(t, writeJSONL(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"x\":1}\n{\"y\":2}\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
