package model

import "fmt"

// RefKind discriminates the two states a workspace repo can be in.
type RefKind int

const (
	// RefActive marks a repo that tracks the shared workspace branch.
	// Active repos get the branch created in their mirror on attach and
	// deleted again when the workspace is removed.
	RefActive RefKind = iota

	// RefContext marks a repo pinned to a fixed branch, tag, or commit.
	// Context repos are read-mostly: their refs are never created or
	// deleted by workspace operations.
	RefContext
)

// RepoRef is the per-workspace binding of an identity: either Active
// (no pinned ref) or Context (pinned to a non-empty ref). The invariant
// that a Context ref is never empty is enforced at construction; use
// ActiveRef and ContextRef rather than struct literals.
type RepoRef struct {
	Kind RefKind

	// Ref is the pinned branch/tag/SHA. Non-empty exactly when Kind is
	// RefContext.
	Ref string
}

// ActiveRef returns the binding for a repo tracking the workspace branch.
func ActiveRef() RepoRef {
	return RepoRef{Kind: RefActive}
}

// ContextRef returns a binding pinned to the given ref. An empty ref is
// rejected rather than silently treated as Active.
func ContextRef(ref string) (RepoRef, error) {
	if ref == "" {
		return RepoRef{}, fmt.Errorf("context ref must not be empty")
	}
	return RepoRef{Kind: RefContext, Ref: ref}, nil
}

// IsActive reports whether the repo tracks the shared workspace branch.
func (r RepoRef) IsActive() bool {
	return r.Kind == RefActive
}

// String renders the binding for display: "active" or the pinned ref.
func (r RepoRef) String() string {
	if r.Kind == RefActive {
		return "active"
	}
	return r.Ref
}
