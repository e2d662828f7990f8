// Command ws manages multi-repository workspaces built from shared
// bare git mirrors.
package main

import (
	"os"

	"github.com/mmr-tortoise/ws/internal/cli"
)

// Populated at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	os.Exit(cli.Execute(cli.NewRootCommand()))
}
