package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/ws/internal/config"
	"github.com/mmr-tortoise/ws/internal/editor"
	"github.com/mmr-tortoise/ws/internal/fetch"
	"github.com/mmr-tortoise/ws/internal/git"
	"github.com/mmr-tortoise/ws/internal/lang"
	"github.com/mmr-tortoise/ws/internal/model"
	"github.com/mmr-tortoise/ws/internal/output"
	"github.com/mmr-tortoise/ws/internal/workspace"
)

// appEnv bundles the per-invocation wiring every command needs: the
// resolved roots, the loaded registry, the git backend, and the
// lifecycle controller built from them.
type appEnv struct {
	paths config.Paths
	cfg   *config.Config
	git   *git.Client
	ctl   *workspace.Controller
}

func loadEnv() (*appEnv, error) {
	paths, cfg, err := config.Resolve()
	if err != nil {
		return nil, err
	}
	g := git.New()
	return &appEnv{
		paths: paths,
		cfg:   cfg,
		git:   g,
		ctl:   workspace.NewController(paths, g),
	}, nil
}

func (e *appEnv) saveConfig() error {
	return e.cfg.Save(e.paths.ConfigPath)
}

// workspaceDir resolves the workspace a command operates on: the named
// one when name is non-empty, otherwise the workspace containing the
// current directory.
func (e *appEnv) workspaceDir(name string) (string, error) {
	if name != "" {
		dir := e.ctl.Dir(name)
		if _, err := os.Stat(filepath.Join(dir, workspace.MetadataFile)); err != nil {
			return "", model.NewCLIError(model.ExitNotInWorkspace, fmt.Sprintf("workspace %q not found", name))
		}
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return workspace.Detect(cwd)
}

// resolveRepoRefs turns user-supplied repo tokens (and an optional
// group name) into identity→binding and identity→URL maps. Tokens may
// carry an "@ref" suffix pinning a Context ref; group members are
// always Active. Unresolvable tokens are fatal here — bulk skip
// semantics apply only to operations iterating stored state.
func (e *appEnv) resolveRepoRefs(tokens []string, group string) (map[string]model.RepoRef, map[string]string, error) {
	refs := make(map[string]model.RepoRef)
	known := e.cfg.Identities()

	if group != "" {
		g, ok := e.cfg.Groups[group]
		if !ok {
			return nil, nil, fmt.Errorf("unknown group %q", group)
		}
		for _, id := range g.Repos {
			refs[id] = model.ActiveRef()
		}
	}

	for _, token := range tokens {
		name, pin := model.SplitRefToken(token)
		id, err := model.ResolveIdentity(name, known)
		if err != nil {
			return nil, nil, err
		}
		if pin == "" {
			refs[id] = model.ActiveRef()
			continue
		}
		ref, err := model.ContextRef(pin)
		if err != nil {
			return nil, nil, err
		}
		refs[id] = ref
	}

	urls := make(map[string]string)
	for id := range refs {
		if entry, ok := e.cfg.Repos[id]; ok {
			urls[id] = entry.URL
		}
	}
	return refs, urls, nil
}

// fetchTargets maps identities to coordinator targets, warning about
// and skipping entries that do not parse or have no mirror on disk.
func (e *appEnv) fetchTargets(identities []string) []fetch.Target {
	short := model.ShortNames(identities)

	var targets []fetch.Target
	for _, identity := range identities {
		id, err := model.ParseIdentity(identity)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", identity, err)
			continue
		}
		if !e.ctl.Mirrors().Exists(id) {
			continue
		}
		targets = append(targets, fetch.Target{
			Identity:  identity,
			ShortName: short[identity],
			MirrorDir: e.ctl.Mirrors().Dir(id),
		})
	}
	return targets
}

// repoDirs returns the worktree directory names of a workspace in
// metadata order, skipping unparsable identities.
func repoDirs(meta *workspace.Metadata) []string {
	var dirs []string
	for _, identity := range meta.Identities() {
		id, err := model.ParseIdentity(identity)
		if err != nil {
			continue
		}
		dirs = append(dirs, id.ShortName())
	}
	return dirs
}

// runIntegrations applies the language and editor integrations after a
// workspace's membership changed. Failures are warnings: integrations
// never fail the lifecycle operation that triggered them.
func runIntegrations(wsDir string) {
	meta, err := workspace.Load(wsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: skipping integrations: %v\n", err)
		return
	}
	dirs := repoDirs(meta)

	if err := lang.UpdateGoWork(wsDir, dirs); err != nil {
		fmt.Fprintf(os.Stderr, "warning: go.work generation failed: %v\n", err)
	}
	if err := editor.UpdateWorkspaceFile(wsDir, meta.Name, dirs); err != nil {
		fmt.Fprintf(os.Stderr, "warning: editor workspace file update failed: %v\n", err)
	}
}

// printMutation emits the result of a state-changing command.
func printMutation(message string) error {
	if jsonOutput {
		return output.PrintJSON(os.Stdout, output.Mutation{OK: true, Message: message})
	}
	fmt.Println(message)
	return nil
}
