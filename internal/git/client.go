package git

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mmr-tortoise/ws/internal/model"
)

// Client provides git operations by invoking the git CLI.
//
// It is stateless; all methods receive the repository path as a
// parameter. The struct exists as a receiver to support future
// extensions such as a configurable git binary path.
type Client struct{}

// New creates a git Client.
func New() *Client {
	return &Client{}
}

// CloneBare creates a bare clone of url at dest and configures a fetch
// refspec so later fetches populate refs/remotes/origin/*. Plain bare
// clones have no fetch refspec at all, which would make Fetch update
// nothing but HEAD; the explicit refspec keeps local heads (from the
// initial clone) and remote-tracking refs (from fetches) distinct, which
// the worktree attach fallback chain relies on.
//
// It also records refs/remotes/origin/HEAD from the clone's own HEAD.
// Bare clones don't carry the origin HEAD symref, and without it
// DefaultBranch called from a linked worktree would see the worktree's
// own branch instead of the remote's default.
func (c *Client) CloneBare(url, dest string) error {
	if _, err := run("", "clone", "--bare", url, dest); err != nil {
		return err
	}
	if _, err := run(dest, "config", "remote.origin.fetch", "+refs/heads/*:refs/remotes/origin/*"); err != nil {
		return err
	}
	head, err := run(dest, "symbolic-ref", "HEAD")
	if err != nil {
		return err
	}
	def := strings.TrimPrefix(strings.TrimSpace(head), "refs/heads/")
	_, err = run(dest, "symbolic-ref", "refs/remotes/origin/HEAD", "refs/remotes/origin/"+def)
	return err
}

// Fetch updates the mirror's remote-tracking refs from origin.
// With prune, remote-tracking refs deleted upstream are removed.
func (c *Client) Fetch(mirrorDir string, prune bool) error {
	args := []string{"fetch"}
	if prune {
		args = append(args, "--prune")
	}
	args = append(args, "origin")
	_, err := run(mirrorDir, args...)
	return err
}

// BranchExists reports whether a local branch exists in the repository.
func (c *Client) BranchExists(repoDir, name string) bool {
	return c.RefExists(repoDir, "refs/heads/"+name)
}

// RefExists reports whether the fully-qualified ref resolves.
func (c *Client) RefExists(repoDir, fqRef string) bool {
	_, err := run(repoDir, "rev-parse", "--verify", "--quiet", fqRef)
	return err == nil
}

// DefaultBranch resolves the repository's default branch name. It
// prefers the origin HEAD symref (present after the remote's HEAD has
// been recorded) and falls back to the repository's own HEAD symref,
// which is what a fresh bare clone carries.
func (c *Client) DefaultBranch(repoDir string) (string, error) {
	if out, err := run(repoDir, "symbolic-ref", "refs/remotes/origin/HEAD"); err == nil {
		return strings.TrimPrefix(strings.TrimSpace(out), "refs/remotes/origin/"), nil
	}
	out, err := run(repoDir, "symbolic-ref", "HEAD")
	if err != nil {
		return "", model.WrapCLIError(model.ExitGitError, "cannot determine default branch", err)
	}
	return strings.TrimPrefix(strings.TrimSpace(out), "refs/heads/"), nil
}

// WorktreeAdd creates a worktree at path on a new branch starting at
// startPoint.
func (c *Client) WorktreeAdd(mirrorDir, path, newBranch, startPoint string) error {
	_, err := run(mirrorDir, "worktree", "add", "-b", newBranch, path, startPoint)
	return err
}

// WorktreeAddExisting creates a worktree at path checking out an
// existing branch or remote-tracking ref.
func (c *Client) WorktreeAddExisting(mirrorDir, path, branchOrRef string) error {
	_, err := run(mirrorDir, "worktree", "add", path, branchOrRef)
	return err
}

// WorktreeAddDetached creates a worktree at path with a detached HEAD
// at ref (a tag or commit SHA).
func (c *Client) WorktreeAddDetached(mirrorDir, path, ref string) error {
	_, err := run(mirrorDir, "worktree", "add", "--detach", path, ref)
	return err
}

// WorktreeRemove detaches and deletes the worktree at path. --force is
// used because removal runs after the workspace-level safety gates;
// git's own dirty check would otherwise block cleanup of worktrees the
// user already confirmed deleting.
func (c *Client) WorktreeRemove(mirrorDir, path string) error {
	_, err := run(mirrorDir, "worktree", "remove", "--force", path)
	return err
}

// BranchDelete deletes a local branch from the mirror.
func (c *Client) BranchDelete(mirrorDir, name string) error {
	_, err := run(mirrorDir, "branch", "-D", name)
	return err
}

// BranchIsMerged reports whether every commit on branch is reachable
// from into, i.e. deleting branch loses no work relative to into.
func (c *Client) BranchIsMerged(mirrorDir, branch, into string) (bool, error) {
	n, err := c.revListCount(mirrorDir, into+".."+branch)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// ChangedFileCount returns the number of modified or untracked paths in
// the worktree, as reported by `git status --porcelain`.
func (c *Client) ChangedFileCount(worktreeDir string) (int, error) {
	out, err := run(worktreeDir, "status", "--porcelain")
	if err != nil {
		return 0, err
	}
	return countLines(out), nil
}

// AheadCount returns the number of commits on the worktree's HEAD that
// its resolved upstream does not have. Worktrees with no usable
// upstream report zero.
func (c *Client) AheadCount(worktreeDir string) (int, error) {
	up, err := c.ResolveUpstream(worktreeDir)
	if err != nil {
		return 0, err
	}
	expr, ok := upstreamRange(up)
	if !ok {
		return 0, nil
	}
	return c.revListCount(worktreeDir, expr)
}

// ResolveUpstream determines the comparison point for a worktree's
// ahead-count: the configured tracking ref when one exists, otherwise
// the remote-tracking ref of the repository's default branch, otherwise
// HEAD (nothing to compare against).
func (c *Client) ResolveUpstream(worktreeDir string) (model.UpstreamRef, error) {
	out, err := run(worktreeDir, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}")
	if err == nil {
		return model.UpstreamRef{Kind: model.UpstreamTracking, Name: strings.TrimSpace(out)}, nil
	}

	def, err := c.DefaultBranch(worktreeDir)
	if err == nil && c.RefExists(worktreeDir, "refs/remotes/origin/"+def) {
		return model.UpstreamRef{Kind: model.UpstreamDefaultBranch, Name: def}, nil
	}

	return model.UpstreamRef{Kind: model.UpstreamHead}, nil
}

// Commit is one entry of a worktree's ahead-of-upstream log.
type Commit struct {
	Hash    string `json:"hash"`
	Subject string `json:"subject"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}

// CommitsAhead lists the commits on HEAD that the resolved upstream
// does not have, newest first. An UpstreamHead resolution yields nil.
func (c *Client) CommitsAhead(worktreeDir string) ([]Commit, error) {
	up, err := c.ResolveUpstream(worktreeDir)
	if err != nil {
		return nil, err
	}
	expr, ok := upstreamRange(up)
	if !ok {
		return nil, nil
	}

	out, err := run(worktreeDir, "log", "--format=%h\x1f%s\x1f%an\x1f%ad", "--date=short", expr)
	if err != nil {
		return nil, err
	}

	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\n")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\x1f", 4)
		if len(fields) != 4 {
			continue
		}
		commits = append(commits, Commit{Hash: fields[0], Subject: fields[1], Author: fields[2], Date: fields[3]})
	}
	return commits, nil
}

// Run executes an arbitrary git command in dir and returns its stdout.
// Used by the pass-through commands (diff) that forward user-supplied
// arguments to git.
func (c *Client) Run(dir string, args ...string) (string, error) {
	return run(dir, args...)
}

// upstreamRange converts a resolved upstream into a rev-list range
// expression. The boolean is false when there is nothing to compare.
func upstreamRange(up model.UpstreamRef) (string, bool) {
	switch up.Kind {
	case model.UpstreamTracking:
		return up.Name + "..HEAD", true
	case model.UpstreamDefaultBranch:
		return "origin/" + up.Name + "..HEAD", true
	default:
		return "", false
	}
}

func (c *Client) revListCount(dir, rangeExpr string) (int, error) {
	out, err := run(dir, "rev-list", "--count", rangeExpr)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, model.WrapCLIError(model.ExitGitError, fmt.Sprintf("unexpected rev-list output %q", out), err)
	}
	return n, nil
}

func countLines(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
