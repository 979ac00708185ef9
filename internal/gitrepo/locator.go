// Package gitrepo derives the target GitHub repository from the local
// Git working directory. It reads remote metadata via the git binary and
// never writes to the repository.
package gitrepo

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/robby/loose-end/internal/domain"
)

// Runner executes a git subcommand and returns its stdout. It exists so
// tests can substitute canned output for the git binary.
type Runner func(args ...string) (string, error)

// execGit is the default Runner backed by the real git binary.
func execGit(args ...string) (string, error) {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Locator resolves the GitHub repository for the current directory.
type Locator struct {
	run Runner
}

// NewLocator returns a Locator backed by the git binary.
func NewLocator() *Locator {
	return &Locator{run: execGit}
}

// NewLocatorWithRunner returns a Locator using a custom Runner.
func NewLocatorWithRunner(run Runner) *Locator {
	return &Locator{run: run}
}

// Resolve returns the owner/name pair for the origin remote.
// It fails with domain.ErrNotAGitRepository outside a working tree and
// with domain.ErrNoRemoteConfigured when no parseable remote URL exists.
func (l *Locator) Resolve() (domain.RepositoryRef, error) {
	if _, err := l.run("rev-parse", "--is-inside-work-tree"); err != nil {
		return domain.RepositoryRef{}, domain.ErrNotAGitRepository
	}

	remote, err := l.run("config", "--get", "remote.origin.url")
	if err != nil || remote == "" {
		return domain.RepositoryRef{}, domain.ErrNoRemoteConfigured
	}

	ref, err := ParseRemoteURL(remote)
	if err != nil {
		return domain.RepositoryRef{}, fmt.Errorf("%w: %v", domain.ErrNoRemoteConfigured, err)
	}
	return ref, nil
}

// ParseRemoteURL extracts the owner/name pair from a git remote URL.
// Both SSH-style (git@host:owner/repo.git, ssh://git@host/owner/repo)
// and HTTPS-style (https://host/owner/repo.git) shapes are supported;
// a trailing .git suffix is stripped.
func ParseRemoteURL(remote string) (domain.RepositoryRef, error) {
	remote = strings.TrimSpace(remote)

	var path string
	switch {
	case strings.HasPrefix(remote, "ssh://"):
		rest := strings.TrimPrefix(remote, "ssh://")
		if at := strings.Index(rest, "@"); at != -1 {
			rest = rest[at+1:]
		}
		slash := strings.Index(rest, "/")
		if slash == -1 {
			return domain.RepositoryRef{}, fmt.Errorf("unrecognized remote url %q", remote)
		}
		path = rest[slash+1:]
	case strings.HasPrefix(remote, "https://"), strings.HasPrefix(remote, "http://"):
		rest := strings.TrimPrefix(strings.TrimPrefix(remote, "https://"), "http://")
		slash := strings.Index(rest, "/")
		if slash == -1 {
			return domain.RepositoryRef{}, fmt.Errorf("unrecognized remote url %q", remote)
		}
		path = rest[slash+1:]
	case strings.Contains(remote, "@") && strings.Contains(remote, ":"):
		// scp-like syntax: git@host:owner/repo.git
		colon := strings.Index(remote, ":")
		path = remote[colon+1:]
	default:
		return domain.RepositoryRef{}, fmt.Errorf("unrecognized remote url %q", remote)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	segments := strings.Split(path, "/")
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return domain.RepositoryRef{}, fmt.Errorf("remote url %q does not name an owner/repo pair", remote)
	}

	return domain.RepositoryRef{Owner: segments[0], Name: segments[1]}, nil
}
