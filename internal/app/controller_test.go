package app

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robby/loose-end/internal/domain"
	"github.com/robby/loose-end/internal/ui"
)

// fakeLocator returns a fixed repository or error.
type fakeLocator struct {
	ref domain.RepositoryRef
	err error
}

func (f *fakeLocator) Resolve() (domain.RepositoryRef, error) { return f.ref, f.err }

// fakeCreds returns fixed credentials or an error.
type fakeCreds struct {
	creds domain.Credentials
	err   error
}

func (f *fakeCreds) Resolve() (domain.Credentials, error) { return f.creds, f.err }

// fakeObject records calls to the REST side.
type fakeObject struct {
	owner     domain.OwnerInfo
	ownerErr  error
	issue     domain.CreatedIssue
	createErr error

	createCalls int
	ownerCalls  int
	gotDraft    domain.IssueDraft
}

func (f *fakeObject) CreateIssue(_ context.Context, _ domain.RepositoryRef, draft domain.IssueDraft) (domain.CreatedIssue, error) {
	f.createCalls++
	f.gotDraft = draft
	return f.issue, f.createErr
}

func (f *fakeObject) OwnerInfo(_ context.Context, _ domain.RepositoryRef) (domain.OwnerInfo, error) {
	f.ownerCalls++
	return f.owner, f.ownerErr
}

// fakeGraph records calls to the GraphQL side.
type fakeGraph struct {
	projects []domain.ProjectSummary
	listErr  error
	linkErr  error

	listCalls     int
	linkCalls     int
	gotProjectID  string
	gotIssueNode  string
	createdBefore bool // set when LinkIssue observes a prior CreateIssue
	object        *fakeObject
}

func (f *fakeGraph) ListProjects(_ context.Context, _ string, _ domain.OwnerType) ([]domain.ProjectSummary, error) {
	f.listCalls++
	return f.projects, f.listErr
}

func (f *fakeGraph) LinkIssue(_ context.Context, projectID, issueNodeID string) error {
	f.linkCalls++
	f.gotProjectID = projectID
	f.gotIssueNode = issueNodeID
	if f.object != nil {
		f.createdBefore = f.object.createCalls > 0
	}
	return f.linkErr
}

// scriptedPrompter replays canned answers.
type scriptedPrompter struct {
	inputs     []string
	confirm    bool
	confirmErr error
	pick       *domain.ProjectSummary
	pickErr    error

	pickCalls    int
	confirmCalls int
}

func (s *scriptedPrompter) Input(string) (string, error) {
	if len(s.inputs) == 0 {
		return "", errors.New("scripted prompter ran out of inputs")
	}
	next := s.inputs[0]
	s.inputs = s.inputs[1:]
	return next, nil
}

func (s *scriptedPrompter) Confirm(string, bool) (bool, error) {
	s.confirmCalls++
	return s.confirm, s.confirmErr
}

func (s *scriptedPrompter) Secret(string) (string, error) { return "", errors.New("not scripted") }

func (s *scriptedPrompter) PickProject([]domain.ProjectSummary) (*domain.ProjectSummary, error) {
	s.pickCalls++
	return s.pick, s.pickErr
}

type fixture struct {
	controller *Controller
	object     *fakeObject
	graph      *fakeGraph
	prompter   *scriptedPrompter
	out        *bytes.Buffer
	errOut     *bytes.Buffer
}

func newFixture(projects []domain.ProjectSummary) *fixture {
	object := &fakeObject{
		owner: domain.OwnerInfo{Login: "acme", Type: domain.OwnerTypeOrganization},
		issue: domain.CreatedIssue{
			Number: 42,
			URL:    "https://github.com/acme/widgets/issues/42",
			NodeID: "I_node42",
		},
	}
	graph := &fakeGraph{projects: projects, object: object}
	prompter := &scriptedPrompter{confirm: true}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	return &fixture{
		controller: &Controller{
			Locator:     &fakeLocator{ref: domain.RepositoryRef{Owner: "acme", Name: "widgets"}},
			Credentials: &fakeCreds{creds: domain.Credentials{Token: "ghp_x", Source: "environment"}},
			NewObject:   func(domain.Credentials) ObjectAPI { return object },
			NewGraph:    func(domain.Credentials) GraphAPI { return graph },
			Prompter:    prompter,
			Printer:     &ui.Printer{Out: out, Err: errOut},
		},
		object:   object,
		graph:    graph,
		prompter: prompter,
		out:      out,
		errOut:   errOut,
	}
}

func TestRun_FastModeNoProject(t *testing.T) {
	f := newFixture(nil)

	result, err := f.controller.Run(context.Background(), Request{
		Draft:  domain.IssueDraft{Title: "Fix bug", Description: "desc"},
		Intent: domain.NoProject(),
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)
	assert.Equal(t, 42, result.Issue.Number)
	assert.Equal(t, 1, f.object.createCalls)
	// No project intent means no graph traffic at all.
	assert.Zero(t, f.object.ownerCalls)
	assert.Zero(t, f.graph.listCalls)
	assert.Zero(t, f.graph.linkCalls)
	assert.Contains(t, f.out.String(), "issues/42")
}

func TestRun_FastModeNamedProjectLinked(t *testing.T) {
	f := newFixture([]domain.ProjectSummary{
		{ID: "PVT_road", Title: "Roadmap", Number: 1},
	})

	result, err := f.controller.Run(context.Background(), Request{
		Draft:  domain.IssueDraft{Title: "Fix bug"},
		Intent: domain.NamedProject("Roadmap"),
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)
	assert.Equal(t, 1, f.graph.linkCalls)
	// The link mutation uses node ids, and only runs once the issue
	// exists.
	assert.Equal(t, "PVT_road", f.graph.gotProjectID)
	assert.Equal(t, "I_node42", f.graph.gotIssueNode)
	assert.True(t, f.graph.createdBefore)
	assert.Contains(t, f.out.String(), "Roadmap")
}

func TestRun_FastModeAutoSingleProject(t *testing.T) {
	f := newFixture([]domain.ProjectSummary{
		{ID: "PVT_only", Title: "Backlog", Number: 3},
	})

	result, err := f.controller.Run(context.Background(), Request{
		Draft:  domain.IssueDraft{Title: "Fix bug"},
		Intent: domain.AutoProject(),
	})

	require.NoError(t, err)
	require.NotNil(t, result.Project)
	assert.Equal(t, "Backlog", result.Project.Title)
	assert.Equal(t, 1, f.graph.linkCalls)
}

func TestRun_FastModeAutoAmbiguousFailsBeforeCreating(t *testing.T) {
	f := newFixture([]domain.ProjectSummary{
		{ID: "PVT_1", Title: "Roadmap"},
		{ID: "PVT_2", Title: "Bugs"},
	})

	_, err := f.controller.Run(context.Background(), Request{
		Draft:  domain.IssueDraft{Title: "Fix bug"},
		Intent: domain.AutoProject(),
	})

	var ambErr domain.AmbiguousProjectError
	require.ErrorAs(t, err, &ambErr)
	assert.Equal(t, []string{"Roadmap", "Bugs"}, ambErr.Candidates)
	// Resolution failures are fatal before any mutating call.
	assert.Zero(t, f.object.createCalls)
}

func TestRun_FastModeAutoZeroProjectsSkipsLinking(t *testing.T) {
	f := newFixture(nil)

	result, err := f.controller.Run(context.Background(), Request{
		Draft:  domain.IssueDraft{Title: "Fix bug"},
		Intent: domain.AutoProject(),
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)
	assert.Nil(t, result.Project)
	assert.Zero(t, f.graph.linkCalls)
	assert.Contains(t, f.out.String(), "no projects")
}

func TestRun_FastModeEmptyTitleFails(t *testing.T) {
	f := newFixture(nil)

	_, err := f.controller.Run(context.Background(), Request{
		Draft:  domain.IssueDraft{Title: "   "},
		Intent: domain.NoProject(),
	})

	var valErr domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Zero(t, f.object.createCalls)
}

func TestRun_InteractiveCollectsDraftAndConfirms(t *testing.T) {
	f := newFixture(nil)
	// First title answer is empty and must be re-prompted.
	f.prompter.inputs = []string{"", "Fix bug", "some description"}

	result, err := f.controller.Run(context.Background(), Request{
		Intent:      domain.NoProject(),
		Interactive: true,
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)
	assert.Equal(t, domain.IssueDraft{Title: "Fix bug", Description: "some description"}, f.object.gotDraft)
	assert.Equal(t, 1, f.prompter.confirmCalls)
	assert.Contains(t, f.errOut.String(), "must not be empty")
}

func TestRun_InteractiveDeclineAborts(t *testing.T) {
	f := newFixture(nil)
	f.prompter.inputs = []string{"Fix bug", ""}
	f.prompter.confirm = false

	result, err := f.controller.Run(context.Background(), Request{
		Intent:      domain.NoProject(),
		Interactive: true,
	})

	assert.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, OutcomeAborted, result.Outcome)
	// Declining means no network mutation happened.
	assert.Zero(t, f.object.createCalls)
	assert.Zero(t, f.graph.linkCalls)
}

func TestRun_InteractiveAutoMultipleUsesPicker(t *testing.T) {
	projects := []domain.ProjectSummary{
		{ID: "PVT_1", Title: "Roadmap"},
		{ID: "PVT_2", Title: "Bugs"},
	}
	f := newFixture(projects)
	f.prompter.inputs = []string{"Fix bug", ""}
	f.prompter.pick = &projects[1]

	result, err := f.controller.Run(context.Background(), Request{
		Intent:      domain.AutoProject(),
		Interactive: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, f.prompter.pickCalls)
	require.NotNil(t, result.Project)
	assert.Equal(t, "Bugs", result.Project.Title)
	assert.Equal(t, "PVT_2", f.graph.gotProjectID)
}

func TestRun_InteractivePickerSkipCreatesUnlinked(t *testing.T) {
	f := newFixture([]domain.ProjectSummary{
		{ID: "PVT_1", Title: "Roadmap"},
		{ID: "PVT_2", Title: "Bugs"},
	})
	f.prompter.inputs = []string{"Fix bug", ""}
	f.prompter.pick = nil

	result, err := f.controller.Run(context.Background(), Request{
		Intent:      domain.AutoProject(),
		Interactive: true,
	})

	require.NoError(t, err)
	assert.Nil(t, result.Project)
	assert.Zero(t, f.graph.linkCalls)
	assert.Equal(t, 1, f.object.createCalls)
}

func TestRun_InteractivePickerAbort(t *testing.T) {
	f := newFixture([]domain.ProjectSummary{
		{ID: "PVT_1", Title: "Roadmap"},
		{ID: "PVT_2", Title: "Bugs"},
	})
	f.prompter.pickErr = ui.ErrPickerAborted

	result, err := f.controller.Run(context.Background(), Request{
		Intent:      domain.AutoProject(),
		Interactive: true,
	})

	assert.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, OutcomeAborted, result.Outcome)
	assert.Zero(t, f.object.createCalls)
}

func TestRun_InteractiveUnknownNameRepromptsThenSkips(t *testing.T) {
	f := newFixture([]domain.ProjectSummary{
		{ID: "PVT_1", Title: "Roadmap"},
	})
	// Re-prompt answer is empty, which skips linking; then title and
	// description prompts follow.
	f.prompter.inputs = []string{"", "Fix bug", ""}

	result, err := f.controller.Run(context.Background(), Request{
		Intent:      domain.NamedProject("xyz"),
		Interactive: true,
	})

	require.NoError(t, err)
	assert.Nil(t, result.Project)
	assert.Zero(t, f.graph.linkCalls)
	assert.Contains(t, f.errOut.String(), "xyz")
}

func TestRun_InteractiveUnknownNameRepromptsThenResolves(t *testing.T) {
	f := newFixture([]domain.ProjectSummary{
		{ID: "PVT_1", Title: "Roadmap"},
	})
	f.prompter.inputs = []string{"roadmap", "Fix bug", ""}

	result, err := f.controller.Run(context.Background(), Request{
		Intent:      domain.NamedProject("xyz"),
		Interactive: true,
	})

	require.NoError(t, err)
	require.NotNil(t, result.Project)
	assert.Equal(t, "Roadmap", result.Project.Title)
}

func TestRun_LinkFailureIsPartialSuccess(t *testing.T) {
	f := newFixture([]domain.ProjectSummary{
		{ID: "PVT_1", Title: "Roadmap"},
	})
	f.graph.linkErr = domain.RemoteError{Status: 502, Message: "bad gateway"}

	result, err := f.controller.Run(context.Background(), Request{
		Draft:  domain.IssueDraft{Title: "Fix bug"},
		Intent: domain.NamedProject("Roadmap"),
	})

	// The issue exists, so the run is not a failure: both facts are
	// reported independently.
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreatedLinkFailed, result.Outcome)
	assert.Equal(t, 42, result.Issue.Number)
	assert.Error(t, result.LinkErr)
	assert.Contains(t, f.out.String(), "issues/42")
	assert.Contains(t, f.errOut.String(), "Roadmap")
}

func TestRun_CreateFailurePropagates(t *testing.T) {
	f := newFixture(nil)
	f.object.createErr = domain.ErrAuthenticationFailed

	_, err := f.controller.Run(context.Background(), Request{
		Draft:  domain.IssueDraft{Title: "Fix bug"},
		Intent: domain.NoProject(),
	})

	assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	assert.Equal(t, 1, f.object.createCalls)
	assert.Zero(t, f.graph.linkCalls)
}

func TestRun_LocatorFailurePropagates(t *testing.T) {
	f := newFixture(nil)
	f.controller.Locator = &fakeLocator{err: domain.ErrNotAGitRepository}

	_, err := f.controller.Run(context.Background(), Request{
		Draft:  domain.IssueDraft{Title: "Fix bug"},
		Intent: domain.NoProject(),
	})

	assert.ErrorIs(t, err, domain.ErrNotAGitRepository)
	assert.Zero(t, f.object.createCalls)
}

func TestRun_MissingCredentialsPropagates(t *testing.T) {
	f := newFixture(nil)
	f.controller.Credentials = &fakeCreds{err: domain.ErrMissingCredentials}

	_, err := f.controller.Run(context.Background(), Request{
		Draft:  domain.IssueDraft{Title: "Fix bug"},
		Intent: domain.NoProject(),
	})

	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
	assert.Zero(t, f.object.createCalls)
}

func TestRun_ListProjectsFailurePropagates(t *testing.T) {
	f := newFixture(nil)
	f.graph.listErr = domain.RateLimitedError{}

	_, err := f.controller.Run(context.Background(), Request{
		Draft:  domain.IssueDraft{Title: "Fix bug"},
		Intent: domain.AutoProject(),
	})

	var rateErr domain.RateLimitedError
	assert.ErrorAs(t, err, &rateErr)
	assert.Zero(t, f.object.createCalls)
}

func TestDescribe_TaxonomyMessages(t *testing.T) {
	assert.Contains(t, Describe(domain.ErrNotAGitRepository), "not a Git repository")
	assert.Contains(t, Describe(domain.ErrMissingCredentials), "GITHUB_TOKEN")
	assert.Contains(t, Describe(domain.ErrAuthenticationFailed), "token")
	assert.Contains(t, Describe(domain.ErrRepositoryNotFound), "not found")
	assert.Contains(t, Describe(domain.ProjectNotFoundError{Name: "xyz"}), "xyz")
}
