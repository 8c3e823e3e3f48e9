package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPacket(t *testing.T) {
	tests := []struct {
		name      string
		packet    string
		wantNS      []string
		wantPaths   []string
		wantSkipped int
	}{
		{
			name: "header namespaces and properties",
			packet: `{"type":"packet","format":1,"instance_id":"0192aaaa-0000-7000-8000-000000000001","modified_at":"2026-01-02T03:04:05Z"}
{"type":"namespace","uri":"http://test.com/xmp/test/1","prefix":"test"}
{"type":"property","namespace":"http://test.com/xmp/test/1","path":"test:a","kind":"value","value":"1"}
{"type":"property","namespace":"http://test.com/xmp/test/1","path":"test:s","kind":"struct"}
{"type":"property","namespace":"http://test.com/xmp/test/1","path":"test:s/test:b","kind":"value","value":"2"}
`,
			wantNS:    []string{testNS},
			wantPaths: []string{"test:a", "test:s", "test:s/test:b"},
		},
		{
			name: "unknown fields and record types are ignored",
			packet: `{"type":"namespace","uri":"http://test.com/xmp/test/1","prefix":"test","future":true}
{"type":"comment","text":"hi"}
{"type":"property","namespace":"http://test.com/xmp/test/1","path":"test:a","kind":"value","value":"1","lang":"en"}
`,
			wantNS:    []string{testNS},
			wantPaths: []string{"test:a"},
		},
		{
			name: "malformed lines and unknown kinds are skipped",
			packet: `{"type":"property","namespace":"http://test.com/xmp/test/1","path":"test:a","kind":"value","value":"1"}
{"type":"property","namespace":"http://test.com/xmp/test/1","path":"test:b","kind":"seq"}
{"type":"property", oops
{"type":"property","namespace":"","path":"test:c","kind":"value"}
`,
			wantNS:      []string{testNS},
			wantPaths:   []string{"test:a"},
			wantSkipped: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "doc.xmp")
			require.NoError(t, os.WriteFile(path, []byte(tt.packet), 0o644))

			b := attach(t, path, true)
			uris, err := b.Namespaces()
			require.NoError(t, err)
			assert.Equal(t, tt.wantNS, uris)

			props, err := b.ListPaths(testNS)
			require.NoError(t, err)
			var paths []string
			for _, p := range props {
				paths = append(paths, p.Path)
			}
			assert.Equal(t, tt.wantPaths, paths)
			assert.Equal(t, tt.wantSkipped, b.SkippedRecords())
			assert.False(t, b.Modified(), "loading is not a modification")
		})
	}
}

func TestLoadPacket_KeepsInstanceID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xmp")
	packet := `{"type":"packet","format":1,"instance_id":"0192aaaa-0000-7000-8000-000000000001"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(packet), 0o644))

	b := attach(t, path, true)
	assert.Equal(t, "0192aaaa-0000-7000-8000-000000000001", b.InstanceID())
}

func TestLoadPacket_PropertyBeforeBinding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xmp")
	packet := `{"type":"property","namespace":"http://test.com/xmp/test/1","path":"test:a","kind":"value","value":"1"}
{"type":"namespace","uri":"http://test.com/xmp/test/1","prefix":"test"}
`
	require.NoError(t, os.WriteFile(path, []byte(packet), 0o644))

	b := attach(t, path, true)
	p, ok := b.NamespacePrefix(testNS)
	require.True(t, ok)
	assert.Equal(t, "test", p)

	v, err := b.Get("test:a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}
