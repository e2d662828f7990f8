package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/ws/internal/model"
	"github.com/mmr-tortoise/ws/internal/workspace"
)

// newExecCommand creates the "exec" subcommand, which runs a shell
// command in every repo of a workspace.
func newExecCommand() *cobra.Command {
	var wsName string

	cmd := &cobra.Command{
		Use:   "exec -- <command> [args...]",
		Short: "Run a command in every repo of a workspace",
		Long: `Run a command in each repo directory of a workspace, in identity
order. The command's stdout and stderr are inherited; a header naming
the repo precedes each run.

  ws exec -- git pull --ff-only
  ws exec -w my-feature -- make test`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Everything after "--" is the command; cobra keeps track of
			// where the dash was.
			if cmd.ArgsLenAtDash() > 0 {
				return model.NewCLIError(model.ExitInvalidArgument,
					"unexpected arguments before --")
			}

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

			var failed []string
			for _, identity := range meta.Identities() {
				id, err := model.ParseIdentity(identity)
				if err != nil {
					fmt.Fprintf(os.Stderr, "  skipping %s: %v\n", identity, err)
					continue
				}
				repoDir := filepath.Join(wsDir, id.ShortName())

				fmt.Fprintf(os.Stderr, "=== %s ===\n", id.ShortName())
				c := exec.Command(args[0], args[1:]...)
				c.Dir = repoDir
				c.Stdin = os.Stdin
				c.Stdout = os.Stdout
				c.Stderr = os.Stderr
				if err := c.Run(); err != nil {
					fmt.Fprintf(os.Stderr, "  %s: %v\n", id.ShortName(), err)
					failed = append(failed, id.ShortName())
				}
			}

			if len(failed) > 0 {
				return model.NewCLIError(model.ExitGeneralError,
					fmt.Sprintf("command failed in: %s", strings.Join(failed, ", ")))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&wsName, "workspace", "w", "", "Workspace to run in (default: the one containing the current directory)")

	return cmd
}
