package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/ws/internal/fetch"
	"github.com/mmr-tortoise/ws/internal/model"
	"github.com/mmr-tortoise/ws/internal/workspace"
)

// newNewCommand creates the "new" subcommand, which creates a workspace
// from registered repos and/or a group.
func newNewCommand() *cobra.Command {
	var (
		group   string
		noFetch bool
	)

	cmd := &cobra.Command{
		Use:   "new <workspace> [repos...]",
		Short: "Create a workspace with worktrees for the given repos",
		Long: `Create a new workspace directory containing one worktree per repo,
all bound to the workspace branch.

Repos are named by registered identity (or unambiguous suffix, e.g.
just the repo name). A repo token may carry an "@ref" suffix to pin
that repo to a tag, branch, or commit instead of the workspace branch:

  ws new my-feature api web shared-lib@v2.1.0

Pinned repos are context repos: read-only reference checkouts that the
workspace branch is never created in.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}

			name := args[0]
			if err := model.ValidateWorkspaceName(name); err != nil {
				return err
			}

			refs, urls, err := env.resolveRepoRefs(args[1:], group)
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				return model.NewCLIError(model.ExitInvalidArgument,
					"no repos given: name repos or pass --group")
			}

			// Refresh existing mirrors so branch and merge state are
			// current before worktrees are attached. Missing mirrors
			// are cloned during create, which is already a full fetch.
			if !noFetch {
				identities := make([]string, 0, len(refs))
				for id := range refs {
					identities = append(identities, id)
				}
				targets := env.fetchTargets(identities)
				coord := fetch.NewCoordinator(env.git, os.Stderr)
				results := coord.Run(targets, true)
				// Stale mirrors are still usable; creation proceeds on
				// whatever refs they have.
				if failed := fetch.Failed(results); len(failed) > 0 {
					fmt.Fprintf(os.Stderr, "%d mirror(s) could not be refreshed, continuing with stale refs\n", len(failed))
				}
			}

			branch := workspace.DeriveBranch(env.cfg.BranchPrefix, name)
			fmt.Fprintf(os.Stderr, "Creating workspace %q (branch: %s) with %d repos...\n",
				name, branch, len(refs))

			dir, err := env.ctl.Create(name, refs, workspace.CreateOptions{
				BranchPrefix: env.cfg.BranchPrefix,
				UpstreamURLs: urls,
			})
			if err != nil {
				return err
			}

			runIntegrations(dir)
			return printMutation(fmt.Sprintf("Workspace created: %s", dir))
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "Include all repos from a named group")
	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "Skip refreshing mirrors before creating worktrees")

	return cmd
}
