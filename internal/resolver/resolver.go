// Package resolver turns tool parameters into the (owner, repo) pair a
// call operates on. Explicit parameters win; otherwise the configured
// remote of a local repository is parsed.
package resolver

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	git "github.com/go-git/go-git/v5"
)

// Kind classifies resolution failures.
type Kind int

const (
	// MissingTarget: no owner/repo, no directory, no default directory.
	MissingTarget Kind = iota
	// NoMetadata: the directory holds no git repository.
	NoMetadata
	// NoRemote: the repository exists but configures no remote.
	NoRemote
	// BadRemoteURL: the remote URL has no recognizable owner/repo path.
	BadRemoteURL
)

// ResolutionError is a local, pre-network failure to pick a repository.
type ResolutionError struct {
	Kind   Kind
	Detail string
}

func (e *ResolutionError) Error() string {
	switch e.Kind {
	case MissingTarget:
		return "no repository target: provide owner and repo, or a directory to auto-detect from"
	case NoMetadata:
		return "could not resolve repository: " + e.Detail
	case NoRemote:
		return "no remote configured: " + e.Detail
	default:
		return "unrecognized remote URL: " + e.Detail
	}
}

// RepoRef is the resolved repository target of one tool call.
type RepoRef struct {
	Owner string
	Name  string
}

func (r RepoRef) String() string { return r.Owner + "/" + r.Name }

// Resolver resolves repository targets, optionally falling back to a
// configured default directory.
type Resolver struct {
	defaultDir string
}

// New creates a Resolver. defaultDir may be empty.
func New(defaultDir string) *Resolver {
	return &Resolver{defaultDir: defaultDir}
}

// Resolve applies the precedence order: explicit owner+repo (both
// non-empty) verbatim with no filesystem access, then directory, then the
// default directory. When none applies the call fails with MissingTarget.
func (r *Resolver) Resolve(owner, repo, directory string) (RepoRef, error) {
	if owner != "" && repo != "" {
		return RepoRef{Owner: owner, Name: repo}, nil
	}
	dir := directory
	if dir == "" {
		dir = r.defaultDir
	}
	if dir == "" {
		return RepoRef{}, &ResolutionError{Kind: MissingTarget}
	}
	return FromDirectory(dir)
}

// FromDirectory reads the repository at dir and parses its configured
// remote URL. A remote named "origin" is preferred; otherwise the first
// remote in config-file order is used.
func FromDirectory(dir string) (RepoRef, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return RepoRef{}, &ResolutionError{Kind: NoMetadata, Detail: "no git repository found in " + dir}
		}
		return RepoRef{}, &ResolutionError{Kind: NoMetadata, Detail: fmt.Sprintf("failed to open %s: %v", dir, err)}
	}

	cfg, err := repo.Config()
	if err != nil {
		return RepoRef{}, &ResolutionError{Kind: NoMetadata, Detail: fmt.Sprintf("failed to read config of %s: %v", dir, err)}
	}

	// The raw config preserves file order, unlike the Remotes map.
	remotes := cfg.Raw.Section("remote").Subsections
	if len(remotes) == 0 {
		return RepoRef{}, &ResolutionError{Kind: NoRemote, Detail: "repository in " + dir + " defines no remote"}
	}

	selected := remotes[0]
	for _, sub := range remotes {
		if sub.Name == "origin" {
			selected = sub
			break
		}
	}

	remoteURL := selected.Option("url")
	if remoteURL == "" {
		return RepoRef{}, &ResolutionError{Kind: NoRemote, Detail: fmt.Sprintf("remote %q in %s has no url", selected.Name, dir)}
	}

	return ParseRemoteURL(remoteURL)
}

// ParseRemoteURL extracts owner/repo from a git remote URL. Accepted
// shapes: https://host[:port]/owner/repo[.git], ssh://user@host/owner/repo,
// user@host:owner/repo.git, and bare owner/repo paths. A trailing ".git"
// or "/" is ignored.
func ParseRemoteURL(remote string) (RepoRef, error) {
	s := strings.TrimSpace(remote)

	switch {
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		rest := s[strings.Index(s, "://")+3:]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return extractOwnerRepo(remote, rest[i+1:])
		}
		return RepoRef{}, &ResolutionError{Kind: BadRemoteURL, Detail: remote}
	case strings.HasPrefix(s, "ssh://"):
		rest := strings.TrimPrefix(s, "ssh://")
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return extractOwnerRepo(remote, rest[i+1:])
		}
		return RepoRef{}, &ResolutionError{Kind: BadRemoteURL, Detail: remote}
	case !strings.Contains(s, "://") && strings.Contains(s, "@"):
		// SCP-like: user@host:owner/repo.git
		rest := s[strings.Index(s, "@")+1:]
		if i := strings.IndexByte(rest, ':'); i >= 0 {
			return extractOwnerRepo(remote, rest[i+1:])
		}
		return RepoRef{}, &ResolutionError{Kind: BadRemoteURL, Detail: remote}
	}

	// Bare owner/repo path.
	return extractOwnerRepo(remote, s)
}

func extractOwnerRepo(remote, path string) (RepoRef, error) {
	p := strings.Trim(path, "/")
	p = strings.TrimSuffix(p, ".git")
	p = strings.Trim(p, "/")

	parts := strings.SplitN(p, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, &ResolutionError{Kind: BadRemoteURL, Detail: remote}
	}
	return RepoRef{Owner: parts[0], Name: parts[1]}, nil
}
