package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/ws/internal/output"
	"github.com/mmr-tortoise/ws/internal/workspace"
)

// workspaceRow is the JSON shape of one workspace in "ws list" output.
type workspaceRow struct {
	Name   string `json:"name"`
	Branch string `json:"branch,omitempty"`
	Repos  int    `json:"repos"`
	Path   string `json:"path"`
	Error  string `json:"error,omitempty"`
}

// newListCommand creates the "list" subcommand, which lists all
// workspaces under the workspaces root.
func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all workspaces",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}

			names, err := env.ctl.List()
			if err != nil {
				return err
			}

			rows := make([]workspaceRow, 0, len(names))
			for _, name := range names {
				dir := env.ctl.Dir(name)
				row := workspaceRow{Name: name, Path: dir}
				meta, err := workspace.Load(dir)
				if err != nil {
					row.Error = err.Error()
				} else {
					row.Branch = meta.Branch
					row.Repos = len(meta.Repos)
				}
				rows = append(rows, row)
			}

			if jsonOutput {
				return output.PrintJSON(os.Stdout, rows)
			}

			if len(rows) == 0 {
				fmt.Println("No workspaces.")
				return nil
			}

			t := output.NewTable("Name", "Branch", "Repos", "Path")
			for _, row := range rows {
				if row.Error != "" {
					t.AddRow(row.Name, "(unreadable)", "-", row.Path)
					continue
				}
				t.AddRow(row.Name, row.Branch, row.Repos, row.Path)
			}
			return t.Render(os.Stdout)
		},
	}
}
