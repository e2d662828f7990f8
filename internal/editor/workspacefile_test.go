package editor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readDocument(t *testing.T, path string) document {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc document
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestUpdateWorkspaceFileCreates(t *testing.T) {
	wsDir := t.TempDir()

	require.NoError(t, UpdateWorkspaceFile(wsDir, "feat", []string{"api", "web"}))

	path := filepath.Join(wsDir, "feat"+WorkspaceFileSuffix)
	doc := readDocument(t, path)
	require.Len(t, doc.Folders, 2)
	assert.Equal(t, "api", doc.Folders[0].Path)
	assert.Equal(t, "web", doc.Folders[1].Path)
}

// TestUpdateWorkspaceFilePreservesSettings verifies an existing file's
// settings block survives a folder update, including when the file
// carries JSONC comments and trailing commas.
func TestUpdateWorkspaceFilePreservesSettings(t *testing.T) {
	wsDir := t.TempDir()
	path := filepath.Join(wsDir, "feat"+WorkspaceFileSuffix)

	existing := `{
	// folders are managed automatically
	"folders": [
		{"path": "old"},
	],
	"settings": {
		"editor.formatOnSave": true,
	},
}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	require.NoError(t, UpdateWorkspaceFile(wsDir, "feat", []string{"api"}))

	doc := readDocument(t, path)
	require.Len(t, doc.Folders, 1)
	assert.Equal(t, "api", doc.Folders[0].Path)

	assert.Equal(t, true, doc.Settings["editor.formatOnSave"])
}

func TestUpdateWorkspaceFileIgnoresCorruptExisting(t *testing.T) {
	wsDir := t.TempDir()
	path := filepath.Join(wsDir, "feat"+WorkspaceFileSuffix)
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o644))

	require.NoError(t, UpdateWorkspaceFile(wsDir, "feat", []string{"api"}))

	doc := readDocument(t, path)
	require.Len(t, doc.Folders, 1)
}
