package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/ws/internal/model"
)

// newAddCommand creates the "add" subcommand, which extends an existing
// workspace with more repos.
func newAddCommand() *cobra.Command {
	var (
		wsName string
		group  string
	)

	cmd := &cobra.Command{
		Use:   "add <repos...>",
		Short: "Add repos to an existing workspace",
		Long: `Add worktrees for more repos to a workspace. By default the workspace
containing the current directory is extended; use --workspace to name
one explicitly.

Repos already present in the workspace are skipped. Repo tokens accept
the same "@ref" pinning syntax as "ws new".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}

			wsDir, err := env.workspaceDir(wsName)
			if err != nil {
				return err
			}

			refs, urls, err := env.resolveRepoRefs(args, group)
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				return model.NewCLIError(model.ExitInvalidArgument,
					"no repos given: name repos or pass --group")
			}

			added, skipped, err := env.ctl.AddRepos(wsDir, refs, urls)
			for _, s := range skipped {
				fmt.Fprintf(os.Stderr, "  %s already in workspace, skipping\n", s)
			}
			if err != nil {
				return err
			}

			runIntegrations(wsDir)

			if len(added) == 0 {
				return printMutation("No repos added.")
			}
			return printMutation(fmt.Sprintf("Added %d repo(s): %s",
				len(added), strings.Join(added, ", ")))
		},
	}

	cmd.Flags().StringVarP(&wsName, "workspace", "w", "", "Workspace to extend (default: the one containing the current directory)")
	cmd.Flags().StringVarP(&group, "group", "g", "", "Include all repos from a named group")

	return cmd
}
