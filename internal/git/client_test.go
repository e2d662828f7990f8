package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/ws/internal/model"
)

// setupUpstreamRepo creates a temporary git repository with one commit
// on branch "main", standing in for a remote repository mirrors are
// cloned from. The repo-level user config makes commits work in
// environments without a global git configuration.
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

// setupMirror clones the upstream as a bare mirror the way the
// lifecycle does, so fetches populate refs/remotes/origin/*.
func setupMirror(t *testing.T, c *Client, upstream string) string {
	t.Helper()

	mirror := filepath.Join(t.TempDir(), "repo.git")
	require.NoError(t, c.CloneBare(upstream, mirror))
	require.NoError(t, c.Fetch(mirror, false))
	return mirror
}

// runTestGit runs a git command in dir and fails the test on a non-zero
// exit, keeping setup code free of repetitive error checks.
func runTestGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
	return string(output)
}

// configureTestUser sets a repo-level committer identity so commits in
// worktrees work without global git config.
func configureTestUser(t *testing.T, dir string) {
	t.Helper()
	runTestGit(t, dir, "config", "user.email", "test@example.com")
	runTestGit(t, dir, "config", "user.name", "Test User")
}

func TestCloneBareAndFetch(t *testing.T) {
	upstream := setupUpstreamRepo(t)
	c := New()
	mirror := setupMirror(t, c, upstream)

	// A bare repo has no working tree.
	_, err := os.Stat(filepath.Join(mirror, "HEAD"))
	assert.NoError(t, err)

	// The fetch refspec set at clone time must have created the
	// remote-tracking ref for main.
	assert.True(t, c.RefExists(mirror, "refs/remotes/origin/main"))
	assert.True(t, c.BranchExists(mirror, "main"))
	assert.False(t, c.BranchExists(mirror, "nope"))
}

func TestFetchPicksUpNewBranches(t *testing.T) {
	upstream := setupUpstreamRepo(t)
	c := New()
	mirror := setupMirror(t, c, upstream)

	runTestGit(t, upstream, "branch", "release")
	assert.False(t, c.RefExists(mirror, "refs/remotes/origin/release"))

	require.NoError(t, c.Fetch(mirror, false))
	assert.True(t, c.RefExists(mirror, "refs/remotes/origin/release"))
}

func TestDefaultBranch(t *testing.T) {
	upstream := setupUpstreamRepo(t)
	c := New()
	mirror := setupMirror(t, c, upstream)

	branch, err := c.DefaultBranch(mirror)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestWorktreeAddVariants(t *testing.T) {
	upstream := setupUpstreamRepo(t)
	c := New()
	mirror := setupMirror(t, c, upstream)
	wsDir := t.TempDir()

	t.Run("new branch", func(t *testing.T) {
		path := filepath.Join(wsDir, "new-branch")
		require.NoError(t, c.WorktreeAdd(mirror, path, "feature", "main"))
		assert.DirExists(t, path)
		assert.True(t, c.BranchExists(mirror, "feature"))
	})

	t.Run("existing branch", func(t *testing.T) {
		runTestGit(t, mirror, "branch", "existing", "main")
		path := filepath.Join(wsDir, "existing-branch")
		require.NoError(t, c.WorktreeAddExisting(mirror, path, "existing"))
		assert.DirExists(t, path)
	})

	t.Run("detached", func(t *testing.T) {
		path := filepath.Join(wsDir, "detached")
		require.NoError(t, c.WorktreeAddDetached(mirror, path, "main"))
		assert.DirExists(t, path)

		// rev-parse prints the literal "HEAD" when detached; git status
		// wording varies across versions.
		out := runTestGit(t, path, "rev-parse", "--abbrev-ref", "HEAD")
		assert.Equal(t, "HEAD\n", out)
	})
}

func TestWorktreeRemoveAndBranchDelete(t *testing.T) {
	upstream := setupUpstreamRepo(t)
	c := New()
	mirror := setupMirror(t, c, upstream)

	path := filepath.Join(t.TempDir(), "wt")
	require.NoError(t, c.WorktreeAdd(mirror, path, "feature", "main"))

	require.NoError(t, c.WorktreeRemove(mirror, path))
	assert.NoDirExists(t, path)

	require.NoError(t, c.BranchDelete(mirror, "feature"))
	assert.False(t, c.BranchExists(mirror, "feature"))
}

func TestChangedFileCount(t *testing.T) {
	upstream := setupUpstreamRepo(t)
	c := New()
	mirror := setupMirror(t, c, upstream)

	path := filepath.Join(t.TempDir(), "wt")
	require.NoError(t, c.WorktreeAdd(mirror, path, "feature", "main"))

	n, err := c.ChangedFileCount(path)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Untracked files count as pending work.
	require.NoError(t, os.WriteFile(filepath.Join(path, "new.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(path, "README.md"), []byte("changed"), 0o644))

	n, err = c.ChangedFileCount(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// TestAheadCount covers the upstream fallback chain: a fresh worktree
// branch has no tracking ref, so ahead is counted against
// origin/<default branch>.
func TestAheadCount(t *testing.T) {
	upstream := setupUpstreamRepo(t)
	c := New()
	mirror := setupMirror(t, c, upstream)

	path := filepath.Join(t.TempDir(), "wt")
	require.NoError(t, c.WorktreeAdd(mirror, path, "feature", "main"))
	configureTestUser(t, path)

	ahead, err := c.AheadCount(path)
	require.NoError(t, err)
	assert.Equal(t, 0, ahead)

	require.NoError(t, os.WriteFile(filepath.Join(path, "work.txt"), []byte("x"), 0o644))
	runTestGit(t, path, "add", ".")
	runTestGit(t, path, "commit", "-m", "local work")

	ahead, err = c.AheadCount(path)
	require.NoError(t, err)
	assert.Equal(t, 1, ahead)
}

func TestResolveUpstreamFallbacks(t *testing.T) {
	upstream := setupUpstreamRepo(t)
	c := New()
	mirror := setupMirror(t, c, upstream)

	t.Run("default branch without tracking", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wt")
		require.NoError(t, c.WorktreeAdd(mirror, path, "feature", "main"))

		up, err := c.ResolveUpstream(path)
		require.NoError(t, err)
		assert.Equal(t, model.UpstreamDefaultBranch, up.Kind)
		assert.Equal(t, "main", up.Name)
	})

	t.Run("detached head", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wt")
		require.NoError(t, c.WorktreeAddDetached(mirror, path, "main"))

		up, err := c.ResolveUpstream(path)
		require.NoError(t, err)
		assert.Equal(t, model.UpstreamDefaultBranch, up.Kind)
	})
}

func TestBranchIsMerged(t *testing.T) {
	upstream := setupUpstreamRepo(t)
	c := New()
	mirror := setupMirror(t, c, upstream)

	path := filepath.Join(t.TempDir(), "wt")
	require.NoError(t, c.WorktreeAdd(mirror, path, "feature", "main"))
	configureTestUser(t, path)

	merged, err := c.BranchIsMerged(mirror, "feature", "main")
	require.NoError(t, err)
	assert.True(t, merged, "a branch with no extra commits is merged")

	require.NoError(t, os.WriteFile(filepath.Join(path, "work.txt"), []byte("x"), 0o644))
	runTestGit(t, path, "add", ".")
	runTestGit(t, path, "commit", "-m", "unmerged work")

	merged, err = c.BranchIsMerged(mirror, "feature", "main")
	require.NoError(t, err)
	assert.False(t, merged)
}

func TestCommitsAhead(t *testing.T) {
	upstream := setupUpstreamRepo(t)
	c := New()
	mirror := setupMirror(t, c, upstream)

	path := filepath.Join(t.TempDir(), "wt")
	require.NoError(t, c.WorktreeAdd(mirror, path, "feature", "main"))
	configureTestUser(t, path)

	commits, err := c.CommitsAhead(path)
	require.NoError(t, err)
	assert.Empty(t, commits)

	require.NoError(t, os.WriteFile(filepath.Join(path, "work.txt"), []byte("x"), 0o644))
	runTestGit(t, path, "add", ".")
	runTestGit(t, path, "commit", "-m", "add work file")

	commits, err = c.CommitsAhead(path)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "add work file", commits[0].Subject)
	assert.Equal(t, "Test User", commits[0].Author)
	assert.NotEmpty(t, commits[0].Hash)
	assert.NotEmpty(t, commits[0].Date)
}

func TestRunSurfacesGitErrors(t *testing.T) {
	c := New()

	_, err := c.Run(t.TempDir(), "status")
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitGitError, cliErr.Code)
}
