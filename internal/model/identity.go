package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Identity canonically addresses one remote repository across all
// workspaces. Its string form is "host/owner/repo", which is also the
// key used in the workspace metadata file and the repo registry.
type Identity struct {
	// Host is the git host, e.g. "github.com".
	Host string

	// Owner is the organization or user segment.
	Owner string

	// Repo is the repository's short name, without a ".git" suffix.
	// It doubles as the worktree directory name inside a workspace.
	Repo string
}

// IdentityParseError reports input that could not be parsed into an
// Identity. Bulk operations (fetch --all, removal cleanup) skip entries
// carrying this error with a warning; single-target operations treat it
// as fatal.
type IdentityParseError struct {
	// Input is the string that failed to parse.
	Input string

	// Reason is a short human-readable explanation.
	Reason string
}

func (e *IdentityParseError) Error() string {
	return fmt.Sprintf("invalid repo identity %q: %s", e.Input, e.Reason)
}

// ParseIdentity parses a canonical "host/owner/repo" string.
func ParseIdentity(s string) (Identity, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Identity{}, &IdentityParseError{Input: s, Reason: "want host/owner/repo"}
	}
	for _, p := range parts {
		if p == "" {
			return Identity{}, &IdentityParseError{Input: s, Reason: "empty path segment"}
		}
	}
	return Identity{Host: parts[0], Owner: parts[1], Repo: strings.TrimSuffix(parts[2], ".git")}, nil
}

// ParseGitURL derives an Identity from a clone URL. Supported forms:
//
//	git@host:owner/repo.git
//	ssh://git@host/owner/repo.git
//	https://host/owner/repo.git
//	host/owner/repo
func ParseGitURL(raw string) (Identity, error) {
	s := raw

	switch {
	case strings.HasPrefix(s, "ssh://"), strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "git://"):
		// Strip scheme and optional user@ prefix, leaving host/owner/repo.
		s = s[strings.Index(s, "://")+3:]
		if at := strings.Index(s, "@"); at >= 0 {
			s = s[at+1:]
		}
	case strings.Contains(s, "@") && strings.Contains(s, ":"):
		// scp-like syntax: git@host:owner/repo.git
		at := strings.Index(s, "@")
		colon := strings.Index(s, ":")
		if colon < at {
			return Identity{}, &IdentityParseError{Input: raw, Reason: "unrecognized URL form"}
		}
		s = s[at+1:colon] + "/" + s[colon+1:]
	}

	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")
	id, err := ParseIdentity(s)
	if err != nil {
		return Identity{}, &IdentityParseError{Input: raw, Reason: "cannot derive host/owner/repo"}
	}
	return id, nil
}

// String returns the canonical "host/owner/repo" form.
func (id Identity) String() string {
	return id.Host + "/" + id.Owner + "/" + id.Repo
}

// ShortName returns the repository short name, used as the worktree
// directory name and in progress output.
func (id Identity) ShortName() string {
	return id.Repo
}

// MirrorPath returns the path of this identity's bare mirror relative
// to the mirrors root, e.g. "github.com/user/repo.git".
func (id Identity) MirrorPath() string {
	return filepath.Join(id.Host, id.Owner, id.Repo+".git")
}

// SplitRefToken splits a repo argument of the form "name@ref" into its
// name and ref parts. A missing "@" yields an empty ref. Only the last
// "@" is significant, so scp-style URLs keep their user prefix intact.
func SplitRefToken(token string) (name, ref string) {
	i := strings.LastIndex(token, "@")
	if i < 0 {
		return token, ""
	}
	// An "@" inside the host portion (user@host) is not a ref separator.
	if strings.ContainsAny(token[i+1:], "/:") {
		return token, ""
	}
	return token[:i], token[i+1:]
}

// ResolveIdentity matches a user-supplied repo token against the known
// identities. It accepts a full identity, an "owner/repo" suffix, or a
// bare repo short name, and fails when the match is missing or ambiguous.
func ResolveIdentity(token string, known []string) (string, error) {
	var matches []string
	for _, id := range known {
		if id == token || strings.HasSuffix(id, "/"+token) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("unknown repo %q (register it with: ws repo add <url>)", token)
	default:
		return "", fmt.Errorf("ambiguous repo %q matches %s", token, strings.Join(matches, ", "))
	}
}

// ShortNames maps each identity to the shortest unambiguous display
// name: the repo short name when unique, otherwise "owner/repo", and
// the full identity as the last resort.
func ShortNames(identities []string) map[string]string {
	count := func(names map[string][]string, key, id string) {
		names[key] = append(names[key], id)
	}

	byRepo := make(map[string][]string)
	byOwnerRepo := make(map[string][]string)
	for _, id := range identities {
		parts := strings.Split(id, "/")
		if len(parts) != 3 {
			continue
		}
		count(byRepo, parts[2], id)
		count(byOwnerRepo, parts[1]+"/"+parts[2], id)
	}

	out := make(map[string]string, len(identities))
	for _, id := range identities {
		parts := strings.Split(id, "/")
		if len(parts) != 3 {
			out[id] = id
			continue
		}
		repo := parts[2]
		ownerRepo := parts[1] + "/" + parts[2]
		switch {
		case len(byRepo[repo]) == 1:
			out[id] = repo
		case len(byOwnerRepo[ownerRepo]) == 1:
			out[id] = ownerRepo
		default:
			out[id] = id
		}
	}
	return out
}
