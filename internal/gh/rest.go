package gh

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/robby/loose-end/internal/domain"
)

// ObjectClient wraps the REST (object) API: issue creation and
// repository metadata. Issue creation lives here rather than in the
// graph client because the REST response carries the numeric id, the web
// URL, and the GraphQL node ID in a single round trip.
type ObjectClient struct {
	gh     *github.Client
	logger *zap.Logger
}

// NewObjectClient creates a REST client authenticated with creds.
func NewObjectClient(creds domain.Credentials, logger *zap.Logger) *ObjectClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = requestTimeout
	return &ObjectClient{
		gh:     github.NewClient(httpClient),
		logger: logger,
	}
}

// SetBaseURL points the client at a different API root. Used by tests.
func (c *ObjectClient) SetBaseURL(base string) error {
	u, err := url.Parse(base)
	if err != nil {
		return err
	}
	c.gh.BaseURL = u
	return nil
}

// CreateIssue creates an issue in repo from the confirmed draft. It
// makes exactly one attempt: a retry after an ambiguous failure could
// create a duplicate issue, so retrying is left to the caller.
func (c *ObjectClient) CreateIssue(ctx context.Context, repo domain.RepositoryRef, draft domain.IssueDraft) (domain.CreatedIssue, error) {
	if err := draft.Validate(); err != nil {
		return domain.CreatedIssue{}, err
	}

	c.logger.Debug("creating issue", zap.String("repo", repo.String()))

	req := &github.IssueRequest{
		Title: github.String(draft.Title),
	}
	if draft.Description != "" {
		req.Body = github.String(draft.Description)
	}

	issue, _, err := c.gh.Issues.Create(ctx, repo.Owner, repo.Name, req)
	if err != nil {
		return domain.CreatedIssue{}, fmt.Errorf("failed to create issue in %s: %w", repo, mapRESTError(err))
	}

	return domain.CreatedIssue{
		Number: issue.GetNumber(),
		URL:    issue.GetHTMLURL(),
		NodeID: issue.GetNodeID(),
	}, nil
}

// OwnerInfo reports the repository owner's login and whether it is a
// user or an organization. Projects v2 discovery needs the distinction
// because the two expose boards under different graph namespaces.
func (c *ObjectClient) OwnerInfo(ctx context.Context, repo domain.RepositoryRef) (domain.OwnerInfo, error) {
	r, _, err := c.gh.Repositories.Get(ctx, repo.Owner, repo.Name)
	if err != nil {
		return domain.OwnerInfo{}, fmt.Errorf("failed to look up %s: %w", repo, mapRESTError(err))
	}

	owner := r.GetOwner()
	info := domain.OwnerInfo{
		Login: owner.GetLogin(),
		Type:  domain.OwnerTypeUser,
	}
	if owner.GetType() == string(domain.OwnerTypeOrganization) {
		info.Type = domain.OwnerTypeOrganization
	}
	return info, nil
}

// mapRESTError converts go-github failures into the domain taxonomy.
func mapRESTError(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return domain.RateLimitedError{RetryAfter: time.Until(rateErr.Rate.Reset.Time)}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		hint := time.Duration(0)
		if abuseErr.RetryAfter != nil {
			hint = *abuseErr.RetryAfter
		}
		return domain.RateLimitedError{RetryAfter: hint}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return domain.ErrAuthenticationFailed
		case http.StatusNotFound:
			return domain.ErrRepositoryNotFound
		default:
			return domain.RemoteError{
				Status:  respErr.Response.StatusCode,
				Message: respErr.Message,
			}
		}
	}

	return domain.RemoteError{Message: err.Error()}
}
