package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/ws/internal/fetch"
	"github.com/mmr-tortoise/ws/internal/output"
	"github.com/mmr-tortoise/ws/internal/workspace"
)

// newFetchCommand creates the "fetch" subcommand, which refreshes
// mirrors in parallel.
func newFetchCommand() *cobra.Command {
	var (
		all   bool
		prune bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch mirrors for the current workspace (or all registered repos)",
		Long: `Fetch the bare mirrors backing the current workspace's repos. With
--all, every registered repo's mirror is fetched instead.

Fetches run in parallel; per-repo failures are reported but do not stop
the rest, and the command exits 0 even when some fetches fail.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}

			var identities []string
			if all {
				identities = env.cfg.Identities()
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
				identities = meta.Identities()
			}

			targets := env.fetchTargets(identities)
			coord := fetch.NewCoordinator(env.git, os.Stderr)
			results := coord.Run(targets, prune)

			if jsonOutput {
				repos := make([]output.FetchRepo, 0, len(results))
				for _, r := range results {
					fr := output.FetchRepo{
						Identity:  r.Identity,
						ShortName: r.ShortName,
						OK:        r.Err == nil,
					}
					if r.Err != nil {
						fr.Error = r.Err.Error()
					}
					repos = append(repos, fr)
				}
				return output.PrintJSON(os.Stdout, repos)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Fetch every registered repo's mirror")
	cmd.Flags().BoolVar(&prune, "prune", false, "Prune refs deleted on the remote")

	return cmd
}
