package model

import (
	"fmt"
	"strings"
)

// ExitCode defines the CLI exit codes. Scripts rely on these to
// distinguish failure modes, so they are part of the CLI contract.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInvalidArgument indicates an invalid workspace name or repo
	// identity was supplied.
	ExitInvalidArgument ExitCode = 2

	// ExitAlreadyExists indicates the target workspace already exists.
	ExitAlreadyExists ExitCode = 3

	// ExitGitError indicates a git operation failed.
	ExitGitError ExitCode = 4

	// ExitNotInWorkspace indicates no workspace metadata file was found
	// walking up from the current directory.
	ExitNotInWorkspace ExitCode = 5

	// ExitUnsafeRemoval indicates a removal was refused by a safety gate
	// (pending changes or unmerged branches); recoverable with --force.
	ExitUnsafeRemoval ExitCode = 6
)

// CLIError is an error carrying a process exit code. The CLI layer
// unwraps it in Execute to choose the exit status.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ValidateWorkspaceName checks that a workspace name is usable as a
// directory name under the workspaces root: non-empty, free of path
// separators, and not "." or "..".
func ValidateWorkspaceName(name string) error {
	switch {
	case name == "":
		return NewCLIError(ExitInvalidArgument, "workspace name cannot be empty")
	case strings.ContainsAny(name, `/\`):
		return NewCLIError(ExitInvalidArgument, fmt.Sprintf("workspace name %q cannot contain path separators", name))
	case name == "." || name == "..":
		return NewCLIError(ExitInvalidArgument, fmt.Sprintf("workspace name %q is not allowed", name))
	}
	return nil
}

// PendingChangesError is the removal safety gate for uncommitted or
// unpushed work: the named repos are dirty or ahead of their upstream.
type PendingChangesError struct {
	// Workspace is the workspace name.
	Workspace string

	// Repos holds the short names of the offending repos, sorted.
	Repos []string
}

func (e *PendingChangesError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "workspace %q has pending changes:", e.Workspace)
	for _, r := range e.Repos {
		fmt.Fprintf(&b, "\n  - %s", r)
	}
	b.WriteString("\n\nUse --force to remove anyway")
	return b.String()
}

// UnmergedBranchError is the removal safety gate for workspace branches
// that have not been merged into their mirror's default branch.
type UnmergedBranchError struct {
	// Workspace is the workspace name.
	Workspace string

	// Branch is the shared workspace branch.
	Branch string

	// Repos holds the short names of repos whose branch is unmerged, sorted.
	Repos []string

	// FetchFailed holds repos whose pre-check fetch failed, making the
	// merge verdict for them potentially stale.
	FetchFailed []string
}

func (e *UnmergedBranchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "workspace %q has branch %q not merged in:", e.Workspace, e.Branch)
	for _, r := range e.Repos {
		fmt.Fprintf(&b, "\n  - %s", r)
	}
	if len(e.FetchFailed) > 0 {
		fmt.Fprintf(&b, "\n\nNote: fetch failed for %s; the merge check may be stale",
			strings.Join(e.FetchFailed, ", "))
	}
	b.WriteString("\n\nUse --force to remove anyway")
	return b.String()
}
