// Package mirror manages the shared bare clones backing every
// worktree of a repository.
//
// Each identity owns exactly one mirror, at a path derived
// deterministically from the identity, so every workspace referencing
// the repo shares its object store. A mirror's lifetime is independent
// of any workspace: removing a workspace never removes a mirror.
package mirror

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmr-tortoise/ws/internal/model"
)

// gitBackend is the slice of the git backend the store needs.
type gitBackend interface {
	CloneBare(url, dest string) error
	Fetch(mirrorDir string, prune bool) error
}

// Store resolves and maintains bare mirrors under a single root.
type Store struct {
	root string
	git  gitBackend
}

// NewStore creates a Store rooted at root.
func NewStore(root string, git gitBackend) *Store {
	return &Store{root: root, git: git}
}

// Dir returns the mirror path for an identity:
// <root>/<host>/<owner>/<repo>.git. Purely computational; the mirror
// may not exist yet.
func (s *Store) Dir(id model.Identity) string {
	return filepath.Join(s.root, id.MirrorPath())
}

// Exists reports whether the mirror has been cloned.
func (s *Store) Exists(id model.Identity) bool {
	_, err := os.Stat(s.Dir(id))
	return err == nil
}

// Clone creates the bare mirror for id from url.
func (s *Store) Clone(id model.Identity, url string) error {
	dest := s.Dir(id)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating mirror parent dir: %w", err)
	}
	return s.git.CloneBare(url, dest)
}

// Fetch updates the mirror's remote-tracking refs.
func (s *Store) Fetch(id model.Identity, prune bool) error {
	return s.git.Fetch(s.Dir(id), prune)
}

// Remove deletes the mirror directory. Worktrees attached to it become
// unusable; callers are expected to have removed referencing workspaces
// first.
func (s *Store) Remove(id model.Identity) error {
	return os.RemoveAll(s.Dir(id))
}
