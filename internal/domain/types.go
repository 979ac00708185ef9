// Package domain defines the normalized domain types for the issue
// creation pipeline. These types represent the core concepts independent
// of the GitHub REST and GraphQL API structures.
package domain

import "strings"

// RepositoryRef identifies a GitHub repository by its owner and name.
// It is derived once per run from the local Git remote configuration
// and never changes afterwards.
type RepositoryRef struct {
	Owner string // Owner login (organization or user)
	Name  string // Repository name, without the .git suffix
}

// String returns the owner/name form used in messages and API paths.
func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

// Credentials holds an authentication token for the GitHub APIs.
// The token is an opaque secret: it lives for a single process run,
// is never persisted, and must never appear in output or logs.
type Credentials struct {
	Token string
	// Source records where the token came from ("environment", "gh CLI",
	// "prompt"). Safe to log; the token itself is not.
	Source string
}

// OwnerType distinguishes user-owned from organization-owned namespaces.
// Projects v2 discovery queries differ between the two.
type OwnerType string

const (
	OwnerTypeUser         OwnerType = "User"
	OwnerTypeOrganization OwnerType = "Organization"
)

// OwnerInfo describes the owner of a repository as reported by the API.
type OwnerInfo struct {
	Login string
	Type  OwnerType
}

// ProjectSummary represents one Projects v2 board visible to an owner.
// Summaries are fetched fresh every run; board membership can change
// between invocations, so they are never cached.
type ProjectSummary struct {
	ID     string // GraphQL node ID, the only handle the link mutation accepts
	Title  string // Board title
	Number int    // Board number within the owner's namespace
}

// IntentKind enumerates the project-linking intents.
type IntentKind int

const (
	// IntentNone means the issue is not linked to any board.
	IntentNone IntentKind = iota
	// IntentAuto links to the sole board, prompting or failing when
	// more than one exists.
	IntentAuto
	// IntentNamed links to the board whose title matches Name.
	IntentNamed
)

// ProjectIntent captures what the user asked for with the -p flag:
// nothing, "the obvious board", or a board by name.
type ProjectIntent struct {
	Kind IntentKind
	Name string // Set only for IntentNamed
}

// NoProject returns the intent that skips linking entirely.
func NoProject() ProjectIntent { return ProjectIntent{Kind: IntentNone} }

// AutoProject returns the intent that links to the sole board.
func AutoProject() ProjectIntent { return ProjectIntent{Kind: IntentAuto} }

// NamedProject returns the intent that links to the board titled name.
func NamedProject(name string) ProjectIntent {
	return ProjectIntent{Kind: IntentNamed, Name: name}
}

// IssueDraft is the issue content collected from arguments or prompts.
// It is mutable until the user confirms, then becomes the immutable
// input to issue creation.
type IssueDraft struct {
	Title       string // Non-empty after trimming
	Description string // May be empty
}

// Validate reports whether the draft can be submitted.
func (d IssueDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return nil
}

// CreatedIssue is the result of issue creation. It carries both the
// human-facing number and the opaque node ID: the graph API addresses
// issues by node ID in mutations, never by the numeric id, so the two
// must not be conflated.
type CreatedIssue struct {
	Number int    // Issue number within the repository
	URL    string // Web URL for the issue
	NodeID string // GraphQL node ID, required by the link mutation
}
