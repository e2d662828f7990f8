// Package editor maintains the VS Code multi-root workspace file
// inside a workspace directory.
//
// The .code-workspace format is JSON with comments (VS Code's JSONC
// dialect), so an existing file is run through jsonc before decoding;
// user comments are not preserved across rewrites, but the settings
// block is.
package editor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// WorkspaceFileSuffix is the extension VS Code expects.
const WorkspaceFileSuffix = ".code-workspace"

type folder struct {
	Path string `json:"path"`
}

type document struct {
	Folders  []folder       `json:"folders"`
	Settings map[string]any `json:"settings,omitempty"`
}

// UpdateWorkspaceFile writes <name>.code-workspace in wsDir listing
// one folder per repo, in the given order. An existing file's settings
// block survives the rewrite; its folder list is replaced, since the
// metadata file is the source of truth for membership.
func UpdateWorkspaceFile(wsDir, name string, repoDirs []string) error {
	path := filepath.Join(wsDir, name+WorkspaceFileSuffix)

	var doc document
	if data, err := os.ReadFile(path); err == nil {
		// Tolerate comments and trailing commas; a file we cannot parse
		// at all is simply rebuilt.
		_ = json.Unmarshal(jsonc.ToJSON(data), &doc)
	}

	doc.Folders = doc.Folders[:0]
	for _, dir := range repoDirs {
		doc.Folders = append(doc.Folders, folder{Path: dir})
	}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
