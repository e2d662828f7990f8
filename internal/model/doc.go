// Package model defines the domain types shared across the ws CLI:
// repository identities, per-workspace ref pins, upstream-ref resolution
// results, and the error/exit-code machinery the CLI layer translates
// into process exit codes.
//
// Everything here is a plain value type. Persistence (the workspace
// metadata file, the repo registry) and git interaction live in their
// own packages; model types are what flows between them.
package model
