package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/ws/internal/model"
	"github.com/mmr-tortoise/ws/internal/workspace"
)

// newRemoveCommand creates the "remove" subcommand, which deletes a
// workspace, its worktrees, and its branch after safety checks.
func newRemoveCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "remove [workspace]",
		Aliases: []string{"rm"},
		Short:   "Remove a workspace and its worktrees",
		Long: `Remove a workspace directory, detach its worktrees from the mirrors,
and delete the workspace branch.

Removal refuses to proceed if any repo has uncommitted or unpushed
work, or if the workspace branch has commits not merged into the
default branch. --force overrides both gates.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}

			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				wsDir, err := workspace.Detect(cwd)
				if err != nil {
					return err
				}
				meta, err := workspace.Load(wsDir)
				if err != nil {
					return err
				}
				name = meta.Name
			}

			if !force {
				dirty, err := env.ctl.PendingChanges(env.ctl.Dir(name))
				if err != nil {
					return err
				}
				if len(dirty) > 0 {
					return &model.PendingChangesError{Workspace: name, Repos: dirty}
				}
			}

			fmt.Fprintf(os.Stderr, "Removing workspace %q...\n", name)
			report, err := env.ctl.Remove(name, force)
			if err != nil {
				return err
			}
			for _, w := range report.Warnings {
				fmt.Fprintf(os.Stderr, "  warning: %s\n", w)
			}

			return printMutation(fmt.Sprintf("Workspace %q removed.", name))
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even with pending changes or an unmerged branch")

	return cmd
}
