package gh

import (
	"context"
	"fmt"
	"strings"

	"github.com/machinebox/graphql"
	"go.uber.org/zap"

	"github.com/robby/loose-end/internal/domain"
)

// projectsPageSize is the number of boards requested per page.
const projectsPageSize = 100

// projectsPage mirrors the projectsV2 connection shape shared by the
// organization and user namespaces.
type projectsPage struct {
	ProjectsV2 struct {
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
		Nodes []struct {
			ID     string `json:"id"`
			Number int    `json:"number"`
			Title  string `json:"title"`
		} `json:"nodes"`
	} `json:"projectsV2"`
}

// ListProjects returns every Projects v2 board owned by login, following
// pagination cursors until exhausted. Each run starts from page one;
// results are never cached because board membership changes between
// invocations. The query differs by owner type because organizations and
// users expose projects under different namespaces in the graph schema.
func (c *GraphClient) ListProjects(ctx context.Context, login string, ownerType domain.OwnerType) ([]domain.ProjectSummary, error) {
	var query string
	if ownerType == domain.OwnerTypeOrganization {
		query = `
			query($login: String!, $first: Int!, $after: String) {
				organization(login: $login) {
					projectsV2(first: $first, after: $after) {
						pageInfo {
							hasNextPage
							endCursor
						}
						nodes {
							id
							number
							title
						}
					}
				}
			}
		`
	} else {
		query = `
			query($login: String!, $first: Int!, $after: String) {
				user(login: $login) {
					projectsV2(first: $first, after: $after) {
						pageInfo {
							hasNextPage
							endCursor
						}
						nodes {
							id
							number
							title
						}
					}
				}
			}
		`
	}

	var projects []domain.ProjectSummary
	cursor := ""

	for {
		req := graphql.NewRequest(query)
		req.Var("login", login)
		req.Var("first", projectsPageSize)
		if cursor != "" {
			req.Var("after", cursor)
		} else {
			req.Var("after", nil)
		}

		var resp struct {
			Organization *projectsPage `json:"organization"`
			User         *projectsPage `json:"user"`
		}

		if err := c.makeRequestWithRetry(ctx, req, &resp); err != nil {
			return nil, fmt.Errorf("failed to list projects for %s: %w", login, err)
		}

		page := resp.Organization
		if page == nil {
			page = resp.User
		}
		if page == nil {
			return nil, domain.RemoteError{Message: fmt.Sprintf("owner %q not found in graph response", login)}
		}

		for _, node := range page.ProjectsV2.Nodes {
			projects = append(projects, domain.ProjectSummary{
				ID:     node.ID,
				Number: node.Number,
				Title:  node.Title,
			})
		}

		c.logger.Debug("fetched projects page",
			zap.String("owner", login),
			zap.Int("total", len(projects)),
			zap.Bool("hasNextPage", page.ProjectsV2.PageInfo.HasNextPage))

		if !page.ProjectsV2.PageInfo.HasNextPage {
			return projects, nil
		}
		cursor = page.ProjectsV2.PageInfo.EndCursor
	}
}

// LinkIssue adds an issue to a Projects v2 board. Both arguments are
// GraphQL node IDs; the numeric issue id is not accepted here. The call
// is idempotent from the caller's perspective: linking an issue that is
// already an item of the board is success, since the desired end state
// already holds.
func (c *GraphClient) LinkIssue(ctx context.Context, projectID, issueNodeID string) error {
	req := graphql.NewRequest(`
		mutation($projectId: ID!, $contentId: ID!) {
			addProjectV2ItemById(input: {projectId: $projectId, contentId: $contentId}) {
				item {
					id
				}
			}
		}
	`)
	req.Var("projectId", projectID)
	req.Var("contentId", issueNodeID)

	var resp struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID string `json:"id"`
			} `json:"item"`
		} `json:"addProjectV2ItemById"`
	}

	if err := c.makeRequestWithRetry(ctx, req, &resp); err != nil {
		if isAlreadyLinked(err) {
			return nil
		}
		return fmt.Errorf("failed to link issue to project: %w", err)
	}

	return nil
}

// isAlreadyLinked recognizes the duplicate-item failure the mutation
// returns when the issue is already on the board.
func isAlreadyLinked(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists")
}
