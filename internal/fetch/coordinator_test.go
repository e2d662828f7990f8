package fetch

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher fails the mirrors named in fail and records which dirs
// were fetched, guarded for concurrent use.
type fakeFetcher struct {
	mu      sync.Mutex
	fetched []string
	fail    map[string]error
}

func (f *fakeFetcher) Fetch(mirrorDir string, prune bool) error {
	f.mu.Lock()
	f.fetched = append(f.fetched, mirrorDir)
	f.mu.Unlock()
	return f.fail[mirrorDir]
}

func TestRunReportsPerTarget(t *testing.T) {
	fetcher := &fakeFetcher{fail: map[string]error{
		"/mirrors/web.git": errors.New("connection refused"),
	}}
	var buf bytes.Buffer
	coord := NewCoordinator(fetcher, &buf)

	targets := []Target{
		{Identity: "github.com/acme/api", ShortName: "api", MirrorDir: "/mirrors/api.git"},
		{Identity: "github.com/acme/web", ShortName: "web", MirrorDir: "/mirrors/web.git"},
	}
	results := coord.Run(targets, false)

	// Results come back in target order regardless of completion order.
	require.Len(t, results, 2)
	assert.Equal(t, "github.com/acme/api", results[0].Identity)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "github.com/acme/web", results[1].Identity)
	assert.Error(t, results[1].Err)

	out := buf.String()
	assert.Contains(t, out, "Fetching 2 repos...")
	assert.Contains(t, out, "  ok    api")
	assert.Contains(t, out, "  FAIL  web (connection refused)")

	// Progress lines must never interleave: every line is one of the
	// known forms, whole.
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		ok := strings.HasPrefix(line, "Fetching") ||
			strings.HasPrefix(line, "  ok    ") ||
			strings.HasPrefix(line, "  FAIL  ")
		assert.True(t, ok, "unexpected progress line %q", line)
	}
}

func TestRunSingleTargetMessage(t *testing.T) {
	var buf bytes.Buffer
	coord := NewCoordinator(&fakeFetcher{}, &buf)

	coord.Run([]Target{{Identity: "github.com/acme/api", ShortName: "api", MirrorDir: "/m"}}, false)

	assert.Contains(t, buf.String(), "Fetching api...")
}

func TestRunEmpty(t *testing.T) {
	var buf bytes.Buffer
	coord := NewCoordinator(&fakeFetcher{}, &buf)

	assert.Nil(t, coord.Run(nil, false))
	assert.Empty(t, buf.String())
}

func TestFailed(t *testing.T) {
	results := []Result{
		{ShortName: "api"},
		{ShortName: "web", Err: errors.New("boom")},
	}

	failed := Failed(results)
	require.Len(t, failed, 1)
	assert.Equal(t, "web", failed[0].ShortName)
}
