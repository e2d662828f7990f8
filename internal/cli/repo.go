package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/ws/internal/config"
	"github.com/mmr-tortoise/ws/internal/model"
	"github.com/mmr-tortoise/ws/internal/output"
)

// newRepoCommand creates the "repo" subcommand group for managing the
// repo registry and its mirrors.
func newRepoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage registered repos and their mirrors",
	}
	cmd.AddCommand(newRepoAddCommand())
	cmd.AddCommand(newRepoListCommand())
	cmd.AddCommand(newRepoRemoveCommand())
	return cmd
}

func newRepoAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <url>",
		Short: "Register a repo and clone its mirror",
		Long: `Register a repo by clone URL and create its bare mirror. SSH, HTTPS,
and scp-style URLs are accepted:

  ws repo add git@github.com:acme/api.git
  ws repo add https://github.com/acme/api`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}

			url := args[0]
			id, err := model.ParseGitURL(url)
			if err != nil {
				return err
			}
			identity := id.String()

			if _, exists := env.cfg.Repos[identity]; exists {
				return model.NewCLIError(model.ExitAlreadyExists,
					fmt.Sprintf("repo %s is already registered", identity))
			}

			if !env.ctl.Mirrors().Exists(id) {
				fmt.Fprintf(os.Stderr, "Cloning %s...\n", identity)
				if err := env.ctl.Mirrors().Clone(id, url); err != nil {
					return err
				}
			}

			env.cfg.Repos[identity] = config.RepoEntry{
				URL:   url,
				Added: time.Now().UTC(),
			}
			if err := env.saveConfig(); err != nil {
				return err
			}
			return printMutation(fmt.Sprintf("Registered %s", identity))
		},
	}
}

func newRepoListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered repos",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}

			identities := env.cfg.Identities()

			if jsonOutput {
				type repoRow struct {
					Identity string    `json:"identity"`
					URL      string    `json:"url"`
					Added    time.Time `json:"added"`
				}
				rows := make([]repoRow, 0, len(identities))
				for _, identity := range identities {
					entry := env.cfg.Repos[identity]
					rows = append(rows, repoRow{Identity: identity, URL: entry.URL, Added: entry.Added})
				}
				return output.PrintJSON(os.Stdout, rows)
			}

			if len(identities) == 0 {
				fmt.Println("No repos registered.")
				return nil
			}

			t := output.NewTable("Name", "URL", "Added")
			for _, identity := range identities {
				entry := env.cfg.Repos[identity]
				t.AddRow(identity, entry.URL, entry.Added.Format("2006-01-02"))
			}
			return t.Render(os.Stdout)
		},
	}
}

func newRepoRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Unregister a repo and delete its mirror",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}

			identity, err := model.ResolveIdentity(args[0], env.cfg.Identities())
			if err != nil {
				return err
			}
			id, err := model.ParseIdentity(identity)
			if err != nil {
				return err
			}

			delete(env.cfg.Repos, identity)

			// Existing worktrees keep working against a deleted mirror's
			// directory only until it is gone; removal here is
			// best-effort and the registry entry is the source of truth.
			if err := env.ctl.Mirrors().Remove(id); err != nil {
				fmt.Fprintf(os.Stderr, "warning: could not remove mirror: %v\n", err)
			}

			if err := env.saveConfig(); err != nil {
				return err
			}
			return printMutation(fmt.Sprintf("Unregistered %s", identity))
		},
	}
}
