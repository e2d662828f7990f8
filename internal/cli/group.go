package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/ws/internal/config"
	"github.com/mmr-tortoise/ws/internal/model"
	"github.com/mmr-tortoise/ws/internal/output"
)

// newGroupCommand creates the "group" subcommand group for managing
// named sets of repos.
func newGroupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage named groups of repos",
	}
	cmd.AddCommand(newGroupNewCommand())
	cmd.AddCommand(newGroupListCommand())
	cmd.AddCommand(newGroupShowCommand())
	cmd.AddCommand(newGroupDeleteCommand())
	return cmd
}

func newGroupNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new <name> <repos...>",
		Short: "Create a group from registered repos",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}

			name := args[0]
			if _, exists := env.cfg.Groups[name]; exists {
				return model.NewCLIError(model.ExitAlreadyExists,
					fmt.Sprintf("group %q already exists", name))
			}

			known := env.cfg.Identities()
			members := make([]string, 0, len(args)-1)
			seen := make(map[string]bool)
			for _, token := range args[1:] {
				identity, err := model.ResolveIdentity(token, known)
				if err != nil {
					return err
				}
				if seen[identity] {
					continue
				}
				seen[identity] = true
				members = append(members, identity)
			}

			env.cfg.Groups[name] = config.GroupEntry{Repos: members}
			if err := env.saveConfig(); err != nil {
				return err
			}
			return printMutation(fmt.Sprintf("Group %q created with %d repo(s)", name, len(members)))
		},
	}
}

func newGroupListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List groups",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}

			names := env.cfg.GroupNames()

			if jsonOutput {
				type groupRow struct {
					Name  string   `json:"name"`
					Repos []string `json:"repos"`
				}
				rows := make([]groupRow, 0, len(names))
				for _, name := range names {
					rows = append(rows, groupRow{Name: name, Repos: env.cfg.Groups[name].Repos})
				}
				return output.PrintJSON(os.Stdout, rows)
			}

			if len(names) == 0 {
				fmt.Println("No groups.")
				return nil
			}

			t := output.NewTable("Name", "Repos")
			for _, name := range names {
				t.AddRow(name, strings.Join(env.cfg.Groups[name].Repos, ", "))
			}
			return t.Render(os.Stdout)
		},
	}
}

func newGroupShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show the repos in a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}

			g, ok := env.cfg.Groups[args[0]]
			if !ok {
				return model.NewCLIError(model.ExitInvalidArgument,
					fmt.Sprintf("unknown group %q", args[0]))
			}

			if jsonOutput {
				return output.PrintJSON(os.Stdout, map[string]any{
					"name":  args[0],
					"repos": g.Repos,
				})
			}
			for _, identity := range g.Repos {
				fmt.Println(identity)
			}
			return nil
		},
	}
}

func newGroupDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a group",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv()
			if err != nil {
				return err
			}

			if _, ok := env.cfg.Groups[args[0]]; !ok {
				return model.NewCLIError(model.ExitInvalidArgument,
					fmt.Sprintf("unknown group %q", args[0]))
			}
			delete(env.cfg.Groups, args[0])
			if err := env.saveConfig(); err != nil {
				return err
			}
			return printMutation(fmt.Sprintf("Group %q deleted", args[0]))
		},
	}
}
