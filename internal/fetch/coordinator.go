// Package fetch runs mirror fetches concurrently with serialized
// progress reporting.
//
// One goroutine per mirror, joined before returning: fork-join, no
// pool, no cancellation — a launched fetch runs to completion, and a
// hung git invocation blocks the coordinator (known limitation). A
// single mutex serializes progress lines so they never interleave;
// line order reflects completion order, not request order.
package fetch

import (
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Target is one mirror to fetch.
type Target struct {
	// Identity is the repo's canonical identity, the key results are
	// reported under.
	Identity string

	// ShortName is the display name used in progress lines.
	ShortName string

	// MirrorDir is the bare mirror path to fetch.
	MirrorDir string
}

// Result is the per-repo outcome of a fetch run.
type Result struct {
	Identity  string
	ShortName string

	// Err is nil on success.
	Err error
}

// Fetcher is the slice of the git backend the coordinator needs.
type Fetcher interface {
	Fetch(mirrorDir string, prune bool) error
}

// Coordinator fans fetches out over mirrors and aggregates results.
type Coordinator struct {
	fetcher  Fetcher
	progress io.Writer

	// mu serializes progress output across fetch goroutines.
	mu sync.Mutex
}

// NewCoordinator creates a Coordinator writing progress to progress
// (conventionally stderr).
func NewCoordinator(f Fetcher, progress io.Writer) *Coordinator {
	return &Coordinator{fetcher: f, progress: progress}
}

// Run fetches every target concurrently and returns one Result per
// target, in target order. Fetch failures are recorded, never
// propagated: callers decide whether a failed fetch is fatal.
func (c *Coordinator) Run(targets []Target, prune bool) []Result {
	if len(targets) == 0 {
		return nil
	}

	if len(targets) == 1 {
		fmt.Fprintf(c.progress, "Fetching %s...\n", targets[0].ShortName)
	} else {
		fmt.Fprintf(c.progress, "Fetching %d repos...\n", len(targets))
	}

	results := make([]Result, len(targets))
	var g errgroup.Group
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			err := c.fetcher.Fetch(t.MirrorDir, prune)

			c.mu.Lock()
			if err == nil {
				fmt.Fprintf(c.progress, "  ok    %s\n", t.ShortName)
			} else {
				fmt.Fprintf(c.progress, "  FAIL  %s (%v)\n", t.ShortName, err)
			}
			c.mu.Unlock()

			results[i] = Result{Identity: t.Identity, ShortName: t.ShortName, Err: err}
			return nil
		})
	}
	// Workers always return nil; Wait is purely the join point.
	_ = g.Wait()

	return results
}

// Failed filters a result set down to the failures.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
