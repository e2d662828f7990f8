package workspace

import "github.com/mmr-tortoise/ws/internal/model"

// AttachKind enumerates the four ways a worktree can be attached to a
// mirror.
type AttachKind int

const (
	// AttachNewBranch creates the workspace branch at StartPoint and
	// checks it out. Used for Active repos whose branch does not exist
	// yet.
	AttachNewBranch AttachKind = iota

	// AttachExistingLocal checks out an existing local branch.
	AttachExistingLocal

	// AttachExistingRemote checks out a remote-tracking ref
	// ("origin/<ref>") without creating a local branch, keeping Context
	// repos read-mostly.
	AttachExistingRemote

	// AttachDetached checks out a tag or commit SHA with a detached
	// HEAD.
	AttachDetached
)

// AttachPlan is the decided attach strategy for one (workspace, repo)
// pair. Planning is pure policy over ref queries; execution against
// the backend happens separately, so the branch logic is testable
// without a real git repository.
type AttachPlan struct {
	Kind AttachKind

	// Ref is the branch or ref to check out. For AttachNewBranch it is
	// the new branch name; for AttachExistingRemote it already carries
	// the "origin/" prefix.
	Ref string

	// StartPoint is the ref the new branch starts at. Only set for
	// AttachNewBranch.
	StartPoint string
}

// PlanAttach decides how to attach a worktree for the given mirror,
// shared workspace branch, and binding.
//
// Context repos (pinned ref) prefer an existing local branch of that
// name, then the remote-tracking ref, and otherwise treat the pin as a
// tag or SHA to check out detached. Active repos reuse the workspace
// branch when the mirror already has it; otherwise the branch is
// created at origin/<default> when that remote-tracking ref exists,
// falling back to the local default branch, which is all a
// never-fetched local bare mirror has.
func PlanAttach(q RefQuerier, mirrorDir, branch string, ref model.RepoRef) (AttachPlan, error) {
	if !ref.IsActive() {
		pin := ref.Ref
		if q.BranchExists(mirrorDir, pin) {
			return AttachPlan{Kind: AttachExistingLocal, Ref: pin}, nil
		}
		if q.RefExists(mirrorDir, "refs/remotes/origin/"+pin) {
			return AttachPlan{Kind: AttachExistingRemote, Ref: "origin/" + pin}, nil
		}
		return AttachPlan{Kind: AttachDetached, Ref: pin}, nil
	}

	if q.BranchExists(mirrorDir, branch) {
		return AttachPlan{Kind: AttachExistingLocal, Ref: branch}, nil
	}

	defaultBranch, err := q.DefaultBranch(mirrorDir)
	if err != nil {
		return AttachPlan{}, err
	}

	startPoint := defaultBranch
	if q.RefExists(mirrorDir, "refs/remotes/origin/"+defaultBranch) {
		startPoint = "origin/" + defaultBranch
	}
	return AttachPlan{Kind: AttachNewBranch, Ref: branch, StartPoint: startPoint}, nil
}

// executeAttach runs a plan against the backend, attaching the
// worktree at path. Backend failures propagate unchanged; there is no
// further fallback past planning.
func executeAttach(g GitBackend, mirrorDir, path string, plan AttachPlan) error {
	switch plan.Kind {
	case AttachNewBranch:
		return g.WorktreeAdd(mirrorDir, path, plan.Ref, plan.StartPoint)
	case AttachExistingLocal, AttachExistingRemote:
		return g.WorktreeAddExisting(mirrorDir, path, plan.Ref)
	default:
		return g.WorktreeAddDetached(mirrorDir, path, plan.Ref)
	}
}
