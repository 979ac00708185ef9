package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for failures that carry no extra data. Callers match
// them with errors.Is.
var (
	// ErrNotAGitRepository means the working directory is not inside a
	// Git working tree.
	ErrNotAGitRepository = errors.New("not a git repository")

	// ErrNoRemoteConfigured means no remote URL could be parsed into an
	// owner/name pair.
	ErrNoRemoteConfigured = errors.New("no git remote configured")

	// ErrMissingCredentials means no token was found and no terminal is
	// attached to prompt for one.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrAuthenticationFailed means the API rejected the token.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrRepositoryNotFound means the API could not find the repository
	// (or the token cannot see it).
	ErrRepositoryNotFound = errors.New("repository not found")
)

// RateLimitedError means the API refused the call due to rate limiting.
type RateLimitedError struct {
	// RetryAfter is the upstream hint for when to retry; zero when the
	// API gave none.
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// RemoteError is any other non-success upstream response, carrying the
// status and message reported by the API.
type RemoteError struct {
	Status  int    // HTTP status code, 0 for transport-level failures
	Message string // Upstream message or error body
}

func (e RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote error: %s", e.Message)
}

// ProjectNotFoundError means no board title matched the requested name.
type ProjectNotFoundError struct {
	Name string
}

func (e ProjectNotFoundError) Error() string {
	return fmt.Sprintf("no project matching %q", e.Name)
}

// AmbiguousProjectError means the intent matched more than one board and
// no prompt is possible. Candidates preserve the API return order.
type AmbiguousProjectError struct {
	Name       string   // Requested name, empty for Auto intent
	Candidates []string // Titles of all matching boards
}

func (e AmbiguousProjectError) Error() string {
	list := strings.Join(e.Candidates, ", ")
	if e.Name != "" {
		return fmt.Sprintf("project name %q is ambiguous, candidates: %s", e.Name, list)
	}
	return fmt.Sprintf("multiple projects found, candidates: %s", list)
}

// ValidationError reports invalid user input, e.g. an empty title in
// fast mode.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
