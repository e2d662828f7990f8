// Package config resolves the process-wide filesystem roots and
// persists the repo/group registry.
//
// The roots (data dir, mirrors dir, workspaces root) are resolved once
// per invocation into a Paths value that is passed explicitly into
// every lifecycle call; nothing below the CLI layer reads environment
// variables or the registry file on its own.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the registry file name inside the data dir.
const ConfigFile = "config.yaml"

// Paths holds the resolved filesystem roots for one invocation.
type Paths struct {
	// DataDir is $XDG_DATA_HOME/ws or ~/.local/share/ws.
	DataDir string

	// ConfigPath is the registry file, <DataDir>/config.yaml.
	ConfigPath string

	// MirrorsDir is the root of the shared bare mirrors,
	// <DataDir>/mirrors.
	MirrorsDir string

	// WorkspacesDir is the root under which workspace directories are
	// created. Defaults to ~/dev/workspaces; the registry's
	// workspaces_dir setting overrides it.
	WorkspacesDir string
}

// RepoEntry is one registered repository.
type RepoEntry struct {
	// URL is the upstream clone URL used to (re)create the mirror.
	URL string `yaml:"url"`

	// Added records when the repo was registered.
	Added time.Time `yaml:"added"`
}

// GroupEntry is a named set of registered repo identities.
type GroupEntry struct {
	Repos []string `yaml:"repos"`
}

// Config is the persisted registry: known repos, named groups, and the
// optional user settings that shape workspace creation.
type Config struct {
	Repos  map[string]RepoEntry  `yaml:"repos,omitempty"`
	Groups map[string]GroupEntry `yaml:"groups,omitempty"`

	// BranchPrefix, when set, turns workspace branches into
	// "<prefix>/<name>" instead of bare "<name>".
	BranchPrefix string `yaml:"branch_prefix,omitempty"`

	// WorkspacesDir overrides the default workspaces root.
	WorkspacesDir string `yaml:"workspaces_dir,omitempty"`
}

// DataDir resolves the ws data directory from the given XDG_DATA_HOME
// value and home directory. Both are injectable for tests.
func DataDir(xdgDataHome, home string) (string, error) {
	if xdgDataHome != "" {
		return filepath.Join(xdgDataHome, "ws"), nil
	}
	if home == "" {
		return "", fmt.Errorf("cannot determine home directory")
	}
	return filepath.Join(home, ".local", "share", "ws"), nil
}

// DefaultWorkspacesDir resolves the default workspaces root for the
// given home directory.
func DefaultWorkspacesDir(home string) (string, error) {
	if home == "" {
		return "", fmt.Errorf("cannot determine home directory")
	}
	return filepath.Join(home, "dev", "workspaces"), nil
}

// Resolve builds the Paths for this invocation and loads the registry.
// The registry is loaded here because its workspaces_dir setting feeds
// back into the paths.
func Resolve() (Paths, *Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	dataDir, err := DataDir(os.Getenv("XDG_DATA_HOME"), home)
	if err != nil {
		return Paths{}, nil, err
	}

	paths := Paths{
		DataDir:    dataDir,
		ConfigPath: filepath.Join(dataDir, ConfigFile),
		MirrorsDir: filepath.Join(dataDir, "mirrors"),
	}

	cfg, err := Load(paths.ConfigPath)
	if err != nil {
		return Paths{}, nil, err
	}

	if cfg.WorkspacesDir != "" {
		paths.WorkspacesDir = cfg.WorkspacesDir
	} else {
		paths.WorkspacesDir, err = DefaultWorkspacesDir(home)
		if err != nil {
			return Paths{}, nil, err
		}
	}

	return paths, cfg, nil
}

// Load reads the registry from path. A missing file yields an empty
// registry rather than an error, so first use needs no setup step.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if cfg.Repos == nil {
		cfg.Repos = make(map[string]RepoEntry)
	}
	if cfg.Groups == nil {
		cfg.Groups = make(map[string]GroupEntry)
	}
	return &cfg, nil
}

// Save writes the registry to path, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Identities returns the registered repo identities, sorted.
func (c *Config) Identities() []string {
	ids := make([]string, 0, len(c.Repos))
	for id := range c.Repos {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// GroupNames returns the registered group names, sorted.
func (c *Config) GroupNames() []string {
	names := make([]string, 0, len(c.Groups))
	for n := range c.Groups {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
