// Package workspace implements the workspace lifecycle: transactional
// creation, insert-only extension, and gated removal of multi-repo
// workspaces built from shared bare mirrors.
//
// A workspace is a directory under the workspaces root holding one git
// worktree per member repo plus a metadata file (.ws.yaml) that is the
// sole durable record. Every operation re-reads the metadata from disk;
// there is no in-process workspace state between calls, and no locking
// around concurrent operations — the design assumes single-operation-
// at-a-time, single-machine usage.
package workspace
