// Package git implements the git backend for ws by shelling out to the
// git binary via os/exec.
//
// All repository mutation in ws flows through this package. We shell
// out to `git` rather than using a Go git library (e.g. go-git)
// because bare-mirror worktree operations require full Git CLI
// compatibility, and go-git's worktree support is limited. Requires
// Git >= 2.15 (when worktree support matured).
//
// Consumers depend on interfaces they define themselves (see
// workspace.GitBackend); this package only provides the concrete
// implementation.
package git
