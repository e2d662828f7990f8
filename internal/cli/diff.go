package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/ws/internal/model"
	"github.com/mmr-tortoise/ws/internal/workspace"
)

// newDiffCommand creates the "diff" subcommand, which runs git diff in
// every repo of a workspace.
func newDiffCommand() *cobra.Command {
	var wsName string

	cmd := &cobra.Command{
		Use:   "diff [-- git-diff-args...]",
		Short: "Show uncommitted changes across all repos",
		Long: `Run "git diff" in each repo of a workspace and print the output of
repos with changes, prefixed with a repo header. Arguments after "--"
are passed to git diff:

  ws diff -- --stat`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}
			wsDir, err := env.workspaceDir(wsName)
			if err != nil {
				return err
			}
			meta, err := workspace.Load(wsDir)
			if err != nil {
				return err
			}

			diffArgs := append([]string{"diff"}, args...)
			for _, identity := range meta.Identities() {
				id, err := model.ParseIdentity(identity)
				if err != nil {
					continue
				}
				repoDir := filepath.Join(wsDir, id.ShortName())

				out, err := env.git.Run(repoDir, diffArgs...)
				if err != nil {
					fmt.Fprintf(os.Stderr, "  %s: %v\n", id.ShortName(), err)
					continue
				}
				if out == "" {
					continue
				}
				fmt.Printf("[%s]\n%s\n", id.ShortName(), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&wsName, "workspace", "w", "", "Workspace to diff (default: the one containing the current directory)")

	return cmd
}
