package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/ws/internal/git"
	"github.com/mmr-tortoise/ws/internal/model"
	"github.com/mmr-tortoise/ws/internal/output"
	"github.com/mmr-tortoise/ws/internal/workspace"
)

// repoLogRow is the JSON shape of one repo in "ws log" output.
type repoLogRow struct {
	ShortName string       `json:"shortname"`
	Commits   []git.Commit `json:"commits"`
}

// newLogCommand creates the "log" subcommand, which lists the commits
// each repo's workspace branch has over its upstream.
func newLogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "log [workspace]",
		Short: "Show unpushed commits per repo",
		Long: `For each repo on the workspace branch, list commits the branch has
over its upstream (or over the default branch when nothing is pushed
yet). Pinned repos are skipped; they carry no workspace branch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}

			var name string
			if len(args) == 1 {
				name = args[0]
			}
			wsDir, err := env.workspaceDir(name)
			if err != nil {
				return err
			}
			meta, err := workspace.Load(wsDir)
			if err != nil {
				return err
			}

			var rows []repoLogRow
			for _, identity := range meta.Identities() {
				if !meta.Repos[identity].IsActive() {
					continue
				}
				id, err := model.ParseIdentity(identity)
				if err != nil {
					continue
				}
				repoDir := filepath.Join(wsDir, id.ShortName())

				commits, err := env.git.CommitsAhead(repoDir)
				if err != nil {
					fmt.Fprintf(os.Stderr, "  %s: %v\n", id.ShortName(), err)
					continue
				}
				rows = append(rows, repoLogRow{ShortName: id.ShortName(), Commits: commits})
			}

			if jsonOutput {
				return output.PrintJSON(os.Stdout, rows)
			}

			for _, row := range rows {
				if len(row.Commits) == 0 {
					fmt.Printf("%s: up to date\n", row.ShortName)
					continue
				}
				fmt.Printf("%s: %d commit(s) ahead\n", row.ShortName, len(row.Commits))
				for _, c := range row.Commits {
					fmt.Printf("  %s  %s (%s, %s)\n", c.Hash, c.Subject, c.Author, c.Date)
				}
			}
			return nil
		},
	}
}
