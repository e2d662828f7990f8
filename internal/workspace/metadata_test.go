package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/ws/internal/model"
)

func mustContext(t *testing.T, ref string) model.RepoRef {
	t.Helper()
	r, err := model.ContextRef(ref)
	require.NoError(t, err)
	return r
}

// TestMetadataRoundTrip verifies that the Active/Context distinction
// survives the file format: Active repos serialize as null entries,
// pinned repos keep their ref.
func TestMetadataRoundTrip(t *testing.T) {
	dir := t.TempDir()

	meta := &Metadata{
		Name:   "feat",
		Branch: "dev/feat",
		Repos: map[string]model.RepoRef{
			"github.com/acme/api":    model.ActiveRef(),
			"github.com/acme/web":    model.ActiveRef(),
			"github.com/acme/shared": mustContext(t, "v1.0"),
			"github.com/acme/docs":   mustContext(t, "main"),
		},
		Created: time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, Save(dir, meta))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "feat", got.Name)
	assert.Equal(t, "dev/feat", got.Branch)
	assert.Equal(t, meta.Created, got.Created)
	assert.Equal(t, meta.Repos, got.Repos)

	assert.True(t, got.Repos["github.com/acme/api"].IsActive())
	assert.Equal(t, "v1.0", got.Repos["github.com/acme/shared"].Ref)
}

func TestMetadataIdentitiesSorted(t *testing.T) {
	meta := &Metadata{Repos: map[string]model.RepoRef{
		"gitlab.com/z/z":      model.ActiveRef(),
		"github.com/acme/api": model.ActiveRef(),
	}}
	assert.Equal(t, []string{"github.com/acme/api", "gitlab.com/z/z"}, meta.Identities())
}

func TestDeriveBranch(t *testing.T) {
	assert.Equal(t, "feat", DeriveBranch("", "feat"))
	assert.Equal(t, "dev/feat", DeriveBranch("dev", "feat"))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitNotInWorkspace, cliErr.Code)
}

// TestDetect walks the workspace boundary: the metadata file is found
// from the workspace root and any directory below it, and the search
// fails cleanly outside.
func TestDetect(t *testing.T) {
	root := t.TempDir()
	wsDir := filepath.Join(root, "feat")
	nested := filepath.Join(wsDir, "api", "internal", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	require.NoError(t, Save(wsDir, &Metadata{
		Name:   "feat",
		Branch: "feat",
		Repos:  map[string]model.RepoRef{},
	}))

	t.Run("from root", func(t *testing.T) {
		got, err := Detect(wsDir)
		require.NoError(t, err)
		assert.Equal(t, wsDir, got)
	})

	t.Run("from nested dir", func(t *testing.T) {
		got, err := Detect(nested)
		require.NoError(t, err)
		assert.Equal(t, wsDir, got)
	})

	t.Run("outside any workspace", func(t *testing.T) {
		_, err := Detect(t.TempDir())
		require.Error(t, err)

		var cliErr *model.CLIError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, model.ExitNotInWorkspace, cliErr.Code)
	})
}

func TestListAll(t *testing.T) {
	root := t.TempDir()

	for _, name := range []string{"beta", "alpha"} {
		dir := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, Save(dir, &Metadata{Name: name, Branch: name,
			Repos: map[string]model.RepoRef{}}))
	}
	// Directories without metadata are not workspaces.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "scratch"), 0o755))

	names, err := ListAll(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)
}

func TestListAllMissingRoot(t *testing.T) {
	names, err := ListAll(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
