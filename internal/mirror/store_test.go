package mirror

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/ws/internal/git"
	"github.com/mmr-tortoise/ws/internal/model"
)

// setupUpstreamRepo creates a local git repository with one commit on
// "main" to act as the clone source.
func setupUpstreamRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	runTestGit(t, dir, "init", "-b", "main")
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# upstream\n"), 0o644))
	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", "initial commit")

	return dir
}

func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

func TestDir(t *testing.T) {
	s := NewStore("/data/mirrors", git.New())
	id := model.Identity{Host: "github.com", Owner: "acme", Repo: "api"}

	assert.Equal(t, filepath.Join("/data/mirrors", "github.com", "acme", "api.git"), s.Dir(id))
}

// TestCloneExistsRemove walks a mirror through its lifecycle: absent,
// cloned under the host/owner hierarchy, then removed.
func TestCloneExistsRemove(t *testing.T) {
	upstream := setupUpstreamRepo(t)
	s := NewStore(filepath.Join(t.TempDir(), "mirrors"), git.New())
	id := model.Identity{Host: "github.com", Owner: "acme", Repo: "api"}

	assert.False(t, s.Exists(id))

	require.NoError(t, s.Clone(id, upstream))
	assert.True(t, s.Exists(id))
	assert.DirExists(t, s.Dir(id))

	// Fetch against the fresh mirror must succeed and is what creates
	// the remote-tracking refs workspaces pin against.
	require.NoError(t, s.Fetch(id, false))

	require.NoError(t, s.Remove(id))
	assert.False(t, s.Exists(id))
}

func TestCloneBadURL(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "mirrors"), git.New())
	id := model.Identity{Host: "github.com", Owner: "acme", Repo: "gone"}

	err := s.Clone(id, filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitGitError, cliErr.Code)
}
