package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoRef(t *testing.T) {
	active := ActiveRef()
	assert.True(t, active.IsActive())
	assert.Equal(t, "active", active.String())

	pinned, err := ContextRef("v1.2.0")
	require.NoError(t, err)
	assert.False(t, pinned.IsActive())
	assert.Equal(t, "v1.2.0", pinned.String())

	_, err = ContextRef("")
	assert.Error(t, err, "a context binding needs a ref")
}

// TestValidateWorkspaceName covers the names that must be rejected
// because they would escape or collide inside the workspaces root.
func TestValidateWorkspaceName(t *testing.T) {
	for _, name := range []string{"feature-x", "bug_123", "v2"} {
		t.Run("valid "+name, func(t *testing.T) {
			assert.NoError(t, ValidateWorkspaceName(name))
		})
	}

	for _, name := range []string{"", ".", "..", "a/b", "a\\b"} {
		t.Run("invalid "+name, func(t *testing.T) {
			err := ValidateWorkspaceName(name)
			require.Error(t, err)

			var cliErr *CLIError
			require.ErrorAs(t, err, &cliErr)
			assert.Equal(t, ExitInvalidArgument, cliErr.Code)
		})
	}
}

func TestCLIErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := WrapCLIError(ExitGitError, "git failed", inner)

	assert.ErrorIs(t, err, inner)

	var cliErr *CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, ExitGitError, cliErr.Code)
}

func TestPendingChangesErrorMessage(t *testing.T) {
	err := &PendingChangesError{Workspace: "feat", Repos: []string{"api", "web"}}

	msg := err.Error()
	assert.Contains(t, msg, `"feat"`)
	assert.Contains(t, msg, "api")
	assert.Contains(t, msg, "web")
	assert.Contains(t, msg, "--force")
}

func TestUnmergedBranchErrorMessage(t *testing.T) {
	err := &UnmergedBranchError{
		Workspace:   "feat",
		Branch:      "dev/feat",
		Repos:       []string{"api"},
		FetchFailed: []string{"api"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "dev/feat")
	assert.Contains(t, msg, "api")
	assert.Contains(t, msg, "--force")
	assert.Contains(t, msg, "fetch failed", "a stale merge verdict must be called out")
}
