package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/mmr-tortoise/ws/internal/config"
	"github.com/mmr-tortoise/ws/internal/mirror"
	"github.com/mmr-tortoise/ws/internal/model"
)

// Controller composes the mirror store and git backend into the
// workspace lifecycle operations. It holds no workspace state: every
// operation loads the metadata file fresh and decides from that.
type Controller struct {
	paths   config.Paths
	git     GitBackend
	mirrors *mirror.Store
}

// NewController creates a Controller over the given roots and backend.
func NewController(paths config.Paths, g GitBackend) *Controller {
	return &Controller{
		paths:   paths,
		git:     g,
		mirrors: mirror.NewStore(paths.MirrorsDir, g),
	}
}

// Dir returns the directory of the named workspace.
func (c *Controller) Dir(name string) string {
	return Dir(c.paths.WorkspacesDir, name)
}

// Mirrors exposes the mirror store for callers that resolve mirror
// paths themselves (fetch targets, registry commands).
func (c *Controller) Mirrors() *mirror.Store {
	return c.mirrors
}

// List returns the names of all workspaces under the configured root.
func (c *Controller) List() ([]string, error) {
	return ListAll(c.paths.WorkspacesDir)
}

// CreateOptions carries the per-invocation inputs of Create that come
// from the registry rather than the command line.
type CreateOptions struct {
	// BranchPrefix, when set, derives the workspace branch as
	// "<prefix>/<name>".
	BranchPrefix string

	// UpstreamURLs maps identities to clone URLs, used to create any
	// mirror that does not exist yet.
	UpstreamURLs map[string]string
}

// Create builds a new workspace transactionally: validate the name,
// create the directory, attach a worktree for every requested repo,
// and only then write the metadata file. The first attach failure
// removes the whole directory (best effort) and propagates, so no
// partial workspace is ever left on disk. Returns the workspace
// directory.
func (c *Controller) Create(name string, refs map[string]model.RepoRef, opts CreateOptions) (string, error) {
	if err := model.ValidateWorkspaceName(name); err != nil {
		return "", err
	}

	wsDir := c.Dir(name)
	if _, err := os.Stat(wsDir); err == nil {
		return "", model.NewCLIError(model.ExitAlreadyExists, fmt.Sprintf("workspace %q already exists", name))
	}
	if err := os.MkdirAll(wsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating workspace dir: %w", err)
	}

	meta := &Metadata{
		Name:    name,
		Branch:  DeriveBranch(opts.BranchPrefix, name),
		Repos:   refs,
		Created: time.Now().UTC(),
	}

	for _, identity := range meta.Identities() {
		if err := c.attachOne(wsDir, identity, meta.Branch, refs[identity], opts.UpstreamURLs); err != nil {
			// Roll the whole workspace back; cleanup is best effort, the
			// attach error is what the user needs to see.
			_ = os.RemoveAll(wsDir)
			return "", fmt.Errorf("adding worktree for %s: %w", identity, err)
		}
	}

	// Commit point: the directory becomes a workspace only once the
	// metadata file exists.
	if err := Save(wsDir, meta); err != nil {
		_ = os.RemoveAll(wsDir)
		return "", err
	}
	return wsDir, nil
}

// AddRepos extends an existing workspace with new repos. Identities
// already present are skipped and reported, not errors. Unlike Create,
// a mid-loop attach failure is not rolled back: already-attached
// worktrees stay on disk and the error propagates; metadata is written
// once after all additions succeed. Returns the added and skipped
// identities.
func (c *Controller) AddRepos(wsDir string, refs map[string]model.RepoRef, upstreamURLs map[string]string) (added, skipped []string, err error) {
	meta, err := Load(wsDir)
	if err != nil {
		return nil, nil, err
	}

	identities := make([]string, 0, len(refs))
	for identity := range refs {
		identities = append(identities, identity)
	}
	slices.Sort(identities)
	for _, identity := range identities {
		if _, ok := meta.Repos[identity]; ok {
			skipped = append(skipped, identity)
			continue
		}
		if err := c.attachOne(wsDir, identity, meta.Branch, refs[identity], upstreamURLs); err != nil {
			return added, skipped, fmt.Errorf("adding worktree for %s: %w", identity, err)
		}
		meta.Repos[identity] = refs[identity]
		added = append(added, identity)
	}

	if err := Save(wsDir, meta); err != nil {
		return added, skipped, err
	}
	return added, skipped, nil
}

// attachOne resolves the mirror for one identity (cloning it when
// missing and an upstream URL is known) and attaches its worktree.
func (c *Controller) attachOne(wsDir, identity, branch string, ref model.RepoRef, upstreamURLs map[string]string) error {
	id, err := model.ParseIdentity(identity)
	if err != nil {
		return err
	}

	if !c.mirrors.Exists(id) {
		url, ok := upstreamURLs[identity]
		if !ok {
			return fmt.Errorf("no mirror for %s and no registered URL to clone it from", identity)
		}
		if err := c.mirrors.Clone(id, url); err != nil {
			return err
		}
	}

	mirrorDir := c.mirrors.Dir(id)
	plan, err := PlanAttach(c.git, mirrorDir, branch, ref)
	if err != nil {
		return err
	}
	return executeAttach(c.git, mirrorDir, filepath.Join(wsDir, id.ShortName()), plan)
}

// PendingChanges reports the short names of repos whose worktree has
// uncommitted changes or unpushed commits. Counter errors degrade to
// zero: an unreadable worktree should not block inspecting the rest.
func (c *Controller) PendingChanges(wsDir string) ([]string, error) {
	meta, err := Load(wsDir)
	if err != nil {
		return nil, err
	}

	var dirty []string
	for _, identity := range meta.Identities() {
		id, err := model.ParseIdentity(identity)
		if err != nil {
			continue
		}
		repoDir := filepath.Join(wsDir, id.ShortName())

		changed, err := c.git.ChangedFileCount(repoDir)
		if err != nil {
			changed = 0
		}
		ahead, err := c.git.AheadCount(repoDir)
		if err != nil {
			ahead = 0
		}
		if changed > 0 || ahead > 0 {
			dirty = append(dirty, id.ShortName())
		}
	}
	return dirty, nil
}

// RemoveReport collects the non-fatal outcomes of a removal: cleanup
// steps that failed but did not stop it, and mirrors whose pre-check
// fetch failed.
type RemoveReport struct {
	// Warnings are human-readable messages for cleanup steps that were
	// skipped or failed past the safety gate.
	Warnings []string

	// FetchFailed holds short names of Active repos whose pre-check
	// fetch failed; their merge verdicts were computed on stale refs.
	FetchFailed []string
}

// Remove deletes a workspace. Before touching anything it fetches each
// Active repo's mirror (best effort) and, unless force is set,
// verifies the workspace branch is merged into each mirror's default
// branch; any unmerged repo aborts the whole removal. Past that gate
// cleanup is deliberately non-transactional: worktree removal and
// branch deletion failures become warnings, because a half-deleted
// workspace is preferable to refusing an explicit delete. Context
// repos' refs are never deleted.
func (c *Controller) Remove(name string, force bool) (*RemoveReport, error) {
	wsDir := c.Dir(name)
	meta, err := Load(wsDir)
	if err != nil {
		return nil, err
	}

	report := &RemoveReport{}

	// Partition members; identities that no longer parse are skipped
	// with a warning during cleanup rather than blocking it.
	type member struct {
		id     model.Identity
		active bool
	}
	var members []member
	for _, identity := range meta.Identities() {
		id, err := model.ParseIdentity(identity)
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("cannot parse %s, skipping cleanup: %v", identity, err))
			continue
		}
		members = append(members, member{id: id, active: meta.Repos[identity].IsActive()})
	}

	// Refresh Active mirrors so the merge check sees current upstream
	// state. A fetch failure only degrades confidence in the verdict.
	for _, m := range members {
		if !m.active {
			continue
		}
		if err := c.mirrors.Fetch(m.id, false); err != nil {
			report.FetchFailed = append(report.FetchFailed, m.id.ShortName())
			report.Warnings = append(report.Warnings, fmt.Sprintf("fetching %s: %v", m.id, err))
		}
	}

	if !force {
		var unmerged []string
		for _, m := range members {
			if !m.active {
				continue
			}
			mirrorDir := c.mirrors.Dir(m.id)
			if !c.git.BranchExists(mirrorDir, meta.Branch) {
				continue
			}
			if !c.branchMerged(mirrorDir, meta.Branch) {
				unmerged = append(unmerged, m.id.ShortName())
			}
		}
		if len(unmerged) > 0 {
			slices.Sort(unmerged)
			return nil, &model.UnmergedBranchError{
				Workspace:   meta.Name,
				Branch:      meta.Branch,
				Repos:       unmerged,
				FetchFailed: report.FetchFailed,
			}
		}
	}

	// Past the gate. Remove worktrees first: the workspace branch can
	// only be deleted once no worktree has it checked out.
	for _, m := range members {
		worktreePath := filepath.Join(wsDir, m.id.ShortName())
		if err := c.git.WorktreeRemove(c.mirrors.Dir(m.id), worktreePath); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("removing worktree for %s: %v", m.id, err))
		}
	}

	for _, m := range members {
		if !m.active {
			continue
		}
		mirrorDir := c.mirrors.Dir(m.id)
		if !c.git.BranchExists(mirrorDir, meta.Branch) {
			continue
		}
		if err := c.git.BranchDelete(mirrorDir, meta.Branch); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("deleting branch %s in %s: %v", meta.Branch, m.id, err))
		}
	}

	if err := os.RemoveAll(wsDir); err != nil {
		return report, fmt.Errorf("removing workspace dir: %w", err)
	}
	return report, nil
}

// branchMerged checks the merge gate for one mirror: the workspace
// branch must be contained in the default branch, preferring the
// remote-tracking ref when a fetch has populated it. Any failure to
// resolve or compare counts as unmerged — when the gate cannot prove
// safety it refuses.
func (c *Controller) branchMerged(mirrorDir, branch string) bool {
	defaultBranch, err := c.git.DefaultBranch(mirrorDir)
	if err != nil {
		return false
	}
	into := defaultBranch
	if c.git.RefExists(mirrorDir, "refs/remotes/origin/"+defaultBranch) {
		into = "origin/" + defaultBranch
	}
	merged, err := c.git.BranchIsMerged(mirrorDir, branch, into)
	if err != nil {
		return false
	}
	return merged
}
