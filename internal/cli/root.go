// Package cli implements the cobra commands for ws.
//
// Each subcommand lives in its own file. This file defines the root
// command, the global --json flag, and the error-to-exit-code
// translation applied after command execution.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/ws/internal/model"
)

// jsonOutput is bound to the persistent --json flag. When set, command
// results (and errors) are emitted as structured JSON; progress and
// warnings stay on stderr either way.
var jsonOutput bool

// Version, Commit, and Date are injected from the main package, which
// receives them from ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates and configures the root cobra command with
// all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ws",
		Short: "Multi-repo workspace manager",
		Long: `ws manages multi-repository workspaces built from shared bare mirrors.

Each workspace is a directory with one git worktree per repo, all bound
to a single workspace-wide branch. Mirrors are shared across workspaces,
so creating a workspace never re-downloads repository history.`,

		// Errors are formatted by Execute (text or JSON); cobra's own
		// printing would duplicate them.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	rootCmd.AddCommand(newNewCommand())
	rootCmd.AddCommand(newAddCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newFetchCommand())
	rootCmd.AddCommand(newRemoveCommand())
	rootCmd.AddCommand(newExecCommand())
	rootCmd.AddCommand(newLogCommand())
	rootCmd.AddCommand(newDiffCommand())
	rootCmd.AddCommand(newRepoCommand())
	rootCmd.AddCommand(newGroupCommand())

	return rootCmd
}

// Execute runs the root command and returns the process exit code.
// main passes it straight to os.Exit; keeping the call to os.Exit out
// of this package keeps deferred cleanup in commands working.
func Execute(rootCmd *cobra.Command) int {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		return int(exitCodeFor(err))
	}
	return int(model.ExitSuccess)
}

// exitCodeFor maps an error to its process exit code. CLIErrors carry
// their own; the removal safety gates map to ExitUnsafeRemoval; all
// else is a general error.
func exitCodeFor(err error) model.ExitCode {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	var pending *model.PendingChangesError
	var unmerged *model.UnmergedBranchError
	if errors.As(err, &pending) || errors.As(err, &unmerged) {
		return model.ExitUnsafeRemoval
	}
	return model.ExitGeneralError
}

// printError writes an error to stderr, as text or as a JSON envelope
// under --json. Errors go to stderr even in JSON mode; stdout is
// reserved for successful command output.
func printError(err error) {
	if jsonOutput {
		envelope := map[string]any{
			"error": map[string]any{"message": err.Error()},
		}
		data, _ := json.MarshalIndent(envelope, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
