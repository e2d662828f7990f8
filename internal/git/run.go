package git

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/mmr-tortoise/ws/internal/model"
)

// run executes a git command and returns its stdout. When dir is
// non-empty it is passed via -C, which makes git change directory
// before doing anything else; this avoids touching the process working
// directory and is safe under the concurrent fetches the coordinator
// runs.
//
// On failure the error is a model.CLIError with ExitGitError, carrying
// the trimmed stderr output for diagnostics.
func run(dir string, args ...string) (string, error) {
	fullArgs := args
	if dir != "" {
		fullArgs = append([]string{"-C", dir}, args...)
	}

	// #nosec G204 -- args go to execve directly, no shell interpretation
	cmd := exec.Command("git", fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := fmt.Sprintf("git %s failed", strings.Join(args, " "))
		if s := strings.TrimSpace(stderr.String()); s != "" {
			message = fmt.Sprintf("%s: %s", message, s)
		}
		return "", model.WrapCLIError(model.ExitGitError, message, err)
	}

	return stdout.String(), nil
}
