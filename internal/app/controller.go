// Package app orchestrates the issue creation pipeline. The Controller
// walks a linear state machine - resolve context, collect the draft,
// confirm, create, link, report - and owns all sequencing decisions; the
// clients and the resolver stay policy-free.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/robby/loose-end/internal/domain"
	"github.com/robby/loose-end/internal/resolver"
	"github.com/robby/loose-end/internal/ui"
)

// State names a step of the pipeline.
type State string

const (
	StateResolvingContext  State = "resolving-context"
	StateCollectingDraft   State = "collecting-draft"
	StateConfirmingSummary State = "confirming-summary"
	StateCreating          State = "creating"
	StateLinking           State = "linking"
	StateReporting         State = "reporting"
	StateAborted           State = "aborted"
	StateFailed            State = "failed"
)

// Outcome classifies how a run ended short of total failure.
type Outcome int

const (
	// OutcomeCreated means the issue was created and, if a board was
	// resolved, linked.
	OutcomeCreated Outcome = iota
	// OutcomeCreatedLinkFailed means the issue exists but linking it
	// failed. The issue is never rolled back; this is a valid,
	// recoverable end state.
	OutcomeCreatedLinkFailed
	// OutcomeAborted means the user declined before any mutating call.
	OutcomeAborted
)

// RepositoryLocator derives the target repository from the working
// directory.
type RepositoryLocator interface {
	Resolve() (domain.RepositoryRef, error)
}

// CredentialResolver supplies the API token.
type CredentialResolver interface {
	Resolve() (domain.Credentials, error)
}

// ObjectAPI is the REST-side contract the controller needs.
type ObjectAPI interface {
	CreateIssue(ctx context.Context, repo domain.RepositoryRef, draft domain.IssueDraft) (domain.CreatedIssue, error)
	OwnerInfo(ctx context.Context, repo domain.RepositoryRef) (domain.OwnerInfo, error)
}

// GraphAPI is the GraphQL-side contract the controller needs.
type GraphAPI interface {
	ListProjects(ctx context.Context, login string, ownerType domain.OwnerType) ([]domain.ProjectSummary, error)
	LinkIssue(ctx context.Context, projectID, issueNodeID string) error
}

// Request carries the per-run inputs parsed from the command line.
type Request struct {
	// Draft is complete in fast mode and empty in interactive mode.
	Draft domain.IssueDraft
	// Intent is what the -p flag asked for.
	Intent domain.ProjectIntent
	// Interactive selects prompting; fast mode never prompts.
	Interactive bool
}

// Result describes a finished run.
type Result struct {
	Outcome Outcome
	Issue   domain.CreatedIssue
	Project *domain.ProjectSummary
	// LinkErr holds the linking failure for OutcomeCreatedLinkFailed.
	LinkErr error
}

// Controller wires the collaborators into the pipeline. Clients are
// built through factories because credentials are only known once
// context resolution has run.
type Controller struct {
	Locator     RepositoryLocator
	Credentials CredentialResolver
	NewObject   func(domain.Credentials) ObjectAPI
	NewGraph    func(domain.Credentials) GraphAPI
	Prompter    ui.Prompter
	Printer     *ui.Printer
	Logger      *zap.Logger

	state State
}

// ErrAborted signals that the user declined; callers translate it into
// a distinct non-error exit.
var ErrAborted = errors.New("aborted by user")

func (c *Controller) transition(next State) {
	c.Logger.Debug("state transition", zap.String("from", string(c.state)), zap.String("to", string(next)))
	c.state = next
}

// Run executes the pipeline. It returns ErrAborted when the user
// declines, any other error for the Failed terminal state, and a Result
// otherwise. The issue-creation call is made at most once per run.
func (c *Controller) Run(ctx context.Context, req Request) (Result, error) {
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	// ResolvingContext: repository, credentials, owner info and, unless
	// the intent is None, project discovery and resolution. Everything
	// here happens before any mutating call.
	c.transition(StateResolvingContext)

	repo, err := c.Locator.Resolve()
	if err != nil {
		return c.fail(err)
	}
	c.Logger.Debug("resolved repository", zap.String("repo", repo.String()))

	creds, err := c.Credentials.Resolve()
	if err != nil {
		return c.fail(err)
	}
	c.Logger.Debug("resolved credentials", zap.String("source", creds.Source))

	object := c.NewObject(creds)
	graph := c.NewGraph(creds)

	project, err := c.resolveProject(ctx, req, repo, object, graph)
	if err != nil {
		if errors.Is(err, ErrAborted) {
			return c.abort()
		}
		return c.fail(err)
	}

	// CollectingDraft: fast mode arrives with a complete draft and
	// skips the prompts entirely.
	c.transition(StateCollectingDraft)
	draft := req.Draft
	if req.Interactive {
		draft, err = c.collectDraft()
		if err != nil {
			return c.fail(err)
		}
	}
	if err := draft.Validate(); err != nil {
		return c.fail(err)
	}

	// ConfirmingSummary: interactive only. A negative answer aborts
	// with no API mutation made.
	if req.Interactive {
		c.transition(StateConfirmingSummary)
		projectTitle := ""
		if project != nil {
			projectTitle = project.Title
		}
		c.Printer.Summary(repo.String(), draft.Title, draft.Description, projectTitle)

		ok, err := c.Prompter.Confirm("Create this issue?", true)
		if err != nil {
			return c.fail(err)
		}
		if !ok {
			return c.abort()
		}
	}

	// Creating: exactly one attempt, no internal retry.
	c.transition(StateCreating)
	issue, err := object.CreateIssue(ctx, repo, draft)
	if err != nil {
		return c.fail(err)
	}
	c.Logger.Debug("created issue",
		zap.Int("number", issue.Number),
		zap.String("nodeID", issue.NodeID))

	// Linking: only entered once the issue and its node id exist. A
	// failure here never rolls the issue back.
	var linkErr error
	if project != nil {
		c.transition(StateLinking)
		linkErr = graph.LinkIssue(ctx, project.ID, issue.NodeID)
	}

	c.transition(StateReporting)
	c.Printer.Success("Issue #%d created: %s", issue.Number, issue.URL)

	result := Result{Outcome: OutcomeCreated, Issue: issue, Project: project}
	if project != nil {
		if linkErr != nil {
			c.Printer.Warn("Issue created but linking to %q failed: %v", project.Title, linkErr)
			result.Outcome = OutcomeCreatedLinkFailed
			result.LinkErr = linkErr
		} else {
			c.Printer.Success("Linked to project %q", project.Title)
		}
	}
	return result, nil
}

// resolveProject discovers boards and applies the resolution policy.
// In interactive mode an unresolvable name re-prompts instead of
// failing; in fast mode any ambiguity is fatal.
func (c *Controller) resolveProject(ctx context.Context, req Request, repo domain.RepositoryRef, object ObjectAPI, graph GraphAPI) (*domain.ProjectSummary, error) {
	if req.Intent.Kind == domain.IntentNone {
		return nil, nil
	}

	owner, err := object.OwnerInfo(ctx, repo)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("resolved owner",
		zap.String("login", owner.Login),
		zap.String("type", string(owner.Type)))

	projects, err := graph.ListProjects(ctx, owner.Login, owner.Type)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("listed projects", zap.Int("count", len(projects)))

	intent := req.Intent
	for {
		res, err := resolver.Resolve(intent, projects, req.Interactive)
		if err != nil {
			if !req.Interactive {
				return nil, err
			}
			// Re-prompt rather than abort: the boards exist, the name
			// just didn't pin one down.
			c.Printer.Warn("%v", err)
			name, promptErr := c.Prompter.Input("Project name (empty to skip)")
			if promptErr != nil {
				return nil, promptErr
			}
			if name == "" {
				return nil, nil
			}
			intent = domain.NamedProject(name)
			continue
		}

		if res.Notice != "" {
			c.Printer.Notice(res.Notice)
		}
		if res.NeedsChoice {
			pick, err := c.Prompter.PickProject(res.Candidates)
			if err != nil {
				if errors.Is(err, ui.ErrPickerAborted) {
					return nil, ErrAborted
				}
				return nil, err
			}
			return pick, nil
		}
		return res.Project, nil
	}
}

// collectDraft prompts for the title (re-prompting while empty) and the
// description (empty allowed).
func (c *Controller) collectDraft() (domain.IssueDraft, error) {
	var title string
	for {
		var err error
		title, err = c.Prompter.Input("Issue title")
		if err != nil {
			return domain.IssueDraft{}, err
		}
		if title != "" {
			break
		}
		c.Printer.Warn("Title must not be empty")
	}

	description, err := c.Prompter.Input("Issue description (optional)")
	if err != nil {
		return domain.IssueDraft{}, err
	}

	return domain.IssueDraft{Title: title, Description: description}, nil
}

func (c *Controller) fail(err error) (Result, error) {
	c.transition(StateFailed)
	return Result{}, err
}

func (c *Controller) abort() (Result, error) {
	c.transition(StateAborted)
	c.Printer.Notice("Aborted, nothing created")
	return Result{Outcome: OutcomeAborted}, ErrAborted
}

// Describe returns a short human explanation for taxonomy errors, used
// by the CLI layer for the final message.
func Describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotAGitRepository):
		return "this is not a Git repository"
	case errors.Is(err, domain.ErrNoRemoteConfigured):
		return "no usable Git remote found; make sure the repo has a GitHub remote set"
	case errors.Is(err, domain.ErrMissingCredentials):
		return "no GitHub token available; set GITHUB_TOKEN or run 'gh auth login'"
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return "GitHub rejected the token; check its scopes and expiry"
	case errors.Is(err, domain.ErrRepositoryNotFound):
		return "repository not found on GitHub (or the token cannot see it)"
	default:
		return fmt.Sprintf("%v", err)
	}
}
