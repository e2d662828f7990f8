package model

// UpstreamKind classifies how a worktree's comparison point for
// ahead-counts was resolved.
type UpstreamKind int

const (
	// UpstreamTracking means the checked-out branch has a configured
	// tracking ref; Name holds it (e.g. "origin/main").
	UpstreamTracking UpstreamKind = iota

	// UpstreamDefaultBranch means no tracking ref is configured but the
	// mirror's default branch has a remote-tracking ref to compare
	// against; Name holds the default branch name (e.g. "main").
	UpstreamDefaultBranch

	// UpstreamHead means no usable comparison point exists (fresh local
	// repo, detached head). Ahead counts resolve to zero.
	UpstreamHead
)

// UpstreamRef is the result of resolving a worktree's upstream.
type UpstreamRef struct {
	Kind UpstreamKind

	// Name is the tracking ref for UpstreamTracking, the default branch
	// name for UpstreamDefaultBranch, and empty for UpstreamHead.
	Name string
}
