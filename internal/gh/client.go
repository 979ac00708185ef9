// Package gh wraps the two GitHub APIs the tool needs: the REST
// (object) API for creating issues and reading repository metadata, and
// the GraphQL (graph) API for Projects v2 discovery and linking.
// It implements a deep module interface - simple methods hiding query
// plumbing, error classification and retries.
package gh

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/machinebox/graphql"
	"go.uber.org/zap"

	"github.com/robby/loose-end/internal/domain"
)

const (
	graphqlEndpoint = "https://api.github.com/graphql"

	// requestTimeout bounds every individual network call so a hung
	// upstream surfaces as an error instead of blocking forever.
	requestTimeout = 30 * time.Second

	// maxRetries bounds transient-failure retries on idempotent calls.
	maxRetries = 3
)

// GraphClient is a GitHub GraphQL API client for Projects v2.
// It provides high-level methods for listing boards and linking issues.
type GraphClient struct {
	gql    *graphql.Client
	logger *zap.Logger
}

// NewGraphClient creates a GraphQL client authenticated with creds.
func NewGraphClient(creds domain.Credentials, logger *zap.Logger) *GraphClient {
	return NewGraphClientWithEndpoint(creds, logger, graphqlEndpoint)
}

// NewGraphClientWithEndpoint creates a client against a custom endpoint.
// Used by tests to point at a local server.
func NewGraphClientWithEndpoint(creds domain.Credentials, logger *zap.Logger, endpoint string) *GraphClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := &http.Client{
		Timeout:   requestTimeout,
		Transport: &authTransport{token: creds.Token, base: http.DefaultTransport},
	}
	return &GraphClient{
		gql:    graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient)),
		logger: logger,
	}
}

// makeRequest executes a single GraphQL request and normalizes failures
// into the domain error taxonomy.
func (c *GraphClient) makeRequest(ctx context.Context, req *graphql.Request, resp interface{}) error {
	err := c.gql.Run(ctx, req, resp)
	if err == nil {
		return nil
	}

	// The transport reports non-success statuses as domain errors
	// wrapped in a *url.Error; surface those unchanged.
	if errors.Is(err, domain.ErrAuthenticationFailed) {
		return domain.ErrAuthenticationFailed
	}
	var rateErr domain.RateLimitedError
	if errors.As(err, &rateErr) {
		return rateErr
	}
	var remoteErr domain.RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	// Transport-level failures (timeouts, refused connections) keep a
	// zero status so the retry policy treats them as transient.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return domain.RemoteError{Message: err.Error()}
	}

	// GraphQL-level errors arrive on 200 responses with an errors
	// array; they describe the query, not the connection, and are
	// never retried.
	return domain.RemoteError{
		Status:  http.StatusOK,
		Message: strings.TrimPrefix(err.Error(), "graphql: "),
	}
}

// makeRequestWithRetry retries transient failures with exponential
// backoff. Only used for calls that are safe to repeat.
func (c *GraphClient) makeRequestWithRetry(ctx context.Context, req *graphql.Request, resp interface{}) error {
	attempt := 0
	op := func() error {
		attempt++
		err := c.makeRequest(ctx, req, resp)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return backoff.Permanent(err)
		}
		c.logger.Debug("transient graph failure, will retry",
			zap.Int("attempt", attempt),
			zap.Error(err))
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, maxRetries), ctx))
}

// isTransient reports whether a failure is worth retrying: rate limits
// and server-side or transport-level errors, never auth or validation.
func isTransient(err error) bool {
	var rateErr domain.RateLimitedError
	if errors.As(err, &rateErr) {
		return true
	}
	var remoteErr domain.RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Status == 0 || remoteErr.Status >= 500
	}
	return false
}

// authTransport injects the bearer token and converts non-success
// statuses into domain errors before the GraphQL layer sees them. The
// GraphQL endpoint reports auth and rate-limit failures at the HTTP
// level with bodies the query decoder would otherwise swallow.
type authTransport struct {
	token string
	base  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrAuthenticationFailed
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		return nil, domain.RateLimitedError{RetryAfter: retryAfterHint(resp)}
	default:
		return nil, domain.RemoteError{Status: resp.StatusCode, Message: string(body)}
	}
}

// retryAfterHint extracts the upstream retry hint, preferring the
// Retry-After header over the rate-limit reset timestamp.
func retryAfterHint(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if v := resp.Header.Get("X-RateLimit-Reset"); v != "" {
		if unix, err := strconv.ParseInt(v, 10, 64); err == nil {
			if d := time.Until(time.Unix(unix, 0)); d > 0 {
				return d
			}
		}
	}
	return 0
}
