package workspace

import "github.com/mmr-tortoise/ws/internal/model"

// RefQuerier is the read-only slice of the git backend the attach
// planner consults. Keeping it separate from GitBackend lets the
// planning logic be tested against a trivial fake.
type RefQuerier interface {
	// BranchExists reports whether refs/heads/<name> exists in the repo.
	BranchExists(repoDir, name string) bool

	// RefExists reports whether the fully-qualified ref resolves.
	RefExists(repoDir, fqRef string) bool

	// DefaultBranch returns the repo's default branch name.
	DefaultBranch(repoDir string) (string, error)
}

// GitBackend is the full capability surface the lifecycle controller
// requires from a git implementation. internal/git provides the real
// one; tests substitute fakes.
type GitBackend interface {
	RefQuerier

	// CloneBare creates a bare clone of url at dest.
	CloneBare(url, dest string) error

	// Fetch updates a mirror's remote-tracking refs from origin.
	Fetch(mirrorDir string, prune bool) error

	// WorktreeAdd attaches a worktree on a new branch at startPoint.
	WorktreeAdd(mirrorDir, path, newBranch, startPoint string) error

	// WorktreeAddExisting attaches a worktree on an existing branch or
	// remote-tracking ref.
	WorktreeAddExisting(mirrorDir, path, branchOrRef string) error

	// WorktreeAddDetached attaches a worktree with a detached HEAD.
	WorktreeAddDetached(mirrorDir, path, ref string) error

	// WorktreeRemove detaches and deletes the worktree at path.
	WorktreeRemove(mirrorDir, path string) error

	// BranchDelete deletes a local branch from the mirror.
	BranchDelete(mirrorDir, name string) error

	// BranchIsMerged reports whether branch is fully contained in into.
	BranchIsMerged(mirrorDir, branch, into string) (bool, error)

	// ChangedFileCount counts modified or untracked paths in a worktree.
	ChangedFileCount(worktreeDir string) (int, error)

	// AheadCount counts commits on HEAD not reachable from the
	// worktree's resolved upstream.
	AheadCount(worktreeDir string) (int, error)

	// ResolveUpstream resolves the worktree's ahead-count comparison
	// point.
	ResolveUpstream(worktreeDir string) (model.UpstreamRef, error)
}
