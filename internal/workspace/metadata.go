package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/ws/internal/model"
)

// MetadataFile is the fixed name of the workspace descriptor inside
// each workspace directory. Its presence is what makes a directory a
// workspace (see Detect).
const MetadataFile = ".ws.yaml"

// Metadata is the persisted descriptor of one workspace. It is the
// sole source of truth for lifecycle decisions and is re-read from
// disk on every operation.
type Metadata struct {
	// Name is the workspace name, unique under the workspaces root.
	Name string

	// Branch is the shared workspace branch every Active repo tracks.
	Branch string

	// Repos maps identity strings to their per-workspace binding.
	Repos map[string]model.RepoRef

	// Created is the UTC creation timestamp.
	Created time.Time
}

// Identities returns the member identities sorted by key, the order in
// which all lifecycle loops run and in which the file serializes.
func (m *Metadata) Identities() []string {
	keys := make([]string, 0, len(m.Repos))
	for k := range m.Repos {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// repoRefDoc is the on-disk form of a Context pin. An Active repo is
// stored as a null entry; the presence/absence of this record is the
// Active/Context discriminator and must round-trip exactly.
type repoRefDoc struct {
	Ref string `yaml:"ref"`
}

// metadataDoc is the on-disk form of Metadata.
type metadataDoc struct {
	Name    string                 `yaml:"name"`
	Branch  string                 `yaml:"branch"`
	Repos   map[string]*repoRefDoc `yaml:"repos"`
	Created time.Time              `yaml:"created"`
}

// Dir returns the directory of the named workspace under root. Purely
// computational; the workspace may not exist.
func Dir(workspacesRoot, name string) string {
	return filepath.Join(workspacesRoot, name)
}

// DeriveBranch computes the shared workspace branch from the workspace
// name and the optional configured prefix.
func DeriveBranch(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// Load reads and decodes the metadata file in wsDir.
func Load(wsDir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(wsDir, MetadataFile))
	if os.IsNotExist(err) {
		return nil, model.NewCLIError(model.ExitNotInWorkspace,
			fmt.Sprintf("%s is not a workspace (no %s found)", wsDir, MetadataFile))
	}
	if err != nil {
		return nil, fmt.Errorf("reading workspace metadata: %w", err)
	}

	var doc metadataDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing workspace metadata: %w", err)
	}

	meta := &Metadata{
		Name:    doc.Name,
		Branch:  doc.Branch,
		Repos:   make(map[string]model.RepoRef, len(doc.Repos)),
		Created: doc.Created,
	}
	for id, entry := range doc.Repos {
		// A null entry is Active. An empty ref string should never be
		// written, but if one is found it means Active as well.
		if entry == nil || entry.Ref == "" {
			meta.Repos[id] = model.ActiveRef()
			continue
		}
		ref, err := model.ContextRef(entry.Ref)
		if err != nil {
			return nil, fmt.Errorf("workspace metadata entry %s: %w", id, err)
		}
		meta.Repos[id] = ref
	}
	return meta, nil
}

// Save encodes and writes the metadata file in wsDir. Writing it is
// the commit point of workspace creation; until it exists the
// directory is not a workspace.
func Save(wsDir string, m *Metadata) error {
	doc := metadataDoc{
		Name:    m.Name,
		Branch:  m.Branch,
		Repos:   make(map[string]*repoRefDoc, len(m.Repos)),
		Created: m.Created,
	}
	for id, ref := range m.Repos {
		if ref.IsActive() {
			doc.Repos[id] = nil
		} else {
			doc.Repos[id] = &repoRefDoc{Ref: ref.Ref}
		}
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encoding workspace metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(wsDir, MetadataFile), data, 0o644); err != nil {
		return fmt.Errorf("writing workspace metadata: %w", err)
	}
	return nil
}

// Detect walks up from startDir looking for a metadata file and
// returns the containing workspace directory. Returns a CLIError with
// ExitNotInWorkspace when the filesystem root is reached first.
func Detect(startDir string) (string, error) {
	dir := startDir
	for {
		if _, err := os.Stat(filepath.Join(dir, MetadataFile)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", model.NewCLIError(model.ExitNotInWorkspace,
				fmt.Sprintf("not in a workspace (no %s found)", MetadataFile))
		}
		dir = parent
	}
}

// ListAll returns the names of all workspaces under the root: the
// directories that contain a metadata file, sorted. A missing root
// means no workspaces.
func ListAll(workspacesRoot string) ([]string, error) {
	entries, err := os.ReadDir(workspacesRoot)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading workspaces dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		metaPath := filepath.Join(workspacesRoot, entry.Name(), MetadataFile)
		if _, err := os.Stat(metaPath); err == nil {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
