package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/ws/internal/model"
	"github.com/mmr-tortoise/ws/internal/output"
	"github.com/mmr-tortoise/ws/internal/workspace"
)

// repoStatusRow is the JSON shape of one repo in "ws status" output.
type repoStatusRow struct {
	Identity  string `json:"identity"`
	ShortName string `json:"shortname"`
	Ref       string `json:"ref"`
	Ahead     int    `json:"ahead"`
	Modified  int    `json:"modified"`
	Status    string `json:"status"`
}

// newStatusCommand creates the "status" subcommand, which summarizes
// each repo's working-tree state within a workspace.
func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status [workspace]",
		Short: "Show per-repo status for a workspace",
		Long: `Show, for each repo in a workspace, the ref it is bound to and a
summary of uncommitted and unpushed work. Without an argument the
workspace containing the current directory is used.`,
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

			var rows []repoStatusRow
			for _, identity := range meta.Identities() {
				ref := meta.Repos[identity]
				row := repoStatusRow{Identity: identity, Ref: meta.Branch}
				if !ref.IsActive() {
					row.Ref = ref.Ref
				}

				id, err := model.ParseIdentity(identity)
				if err != nil {
					row.ShortName = identity
					row.Status = "?"
					rows = append(rows, row)
					continue
				}
				row.ShortName = id.ShortName()

				repoDir := filepath.Join(wsDir, id.ShortName())
				modified, merr := env.git.ChangedFileCount(repoDir)
				ahead, aerr := env.git.AheadCount(repoDir)
				if merr != nil || aerr != nil {
					row.Status = "?"
				} else {
					row.Ahead = ahead
					row.Modified = modified
					row.Status = output.FormatRepoStatus(ahead, modified)
				}
				rows = append(rows, row)
			}

			if jsonOutput {
				return output.PrintJSON(os.Stdout, map[string]any{
					"name":   meta.Name,
					"branch": meta.Branch,
					"repos":  rows,
				})
			}

			t := output.NewTable("Repo", "Ref", "Status")
			for _, row := range rows {
				t.AddRow(row.ShortName, row.Ref, row.Status)
			}
			return t.Render(os.Stdout)
		},
	}
}
