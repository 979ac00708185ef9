// Package resolver turns a project intent plus the set of discoverable
// boards into a single resolved board or a no-op. It performs no network
// I/O: it is a pure function over already-fetched summaries, so the
// whole policy is testable without mocking.
package resolver

import (
	"strings"

	"github.com/robby/loose-end/internal/domain"
)

// Resolution is the outcome of resolving a project intent.
type Resolution struct {
	// Project is the resolved board, nil when no linking should happen.
	Project *domain.ProjectSummary
	// NeedsChoice is set when several boards qualify and the caller is
	// interactive: the user must pick from Candidates (or skip).
	NeedsChoice bool
	// Candidates holds the qualifying boards in API return order.
	// Populated only when NeedsChoice is set.
	Candidates []domain.ProjectSummary
	// Notice is an informational message for the user, e.g. that the
	// owner has no boards at all. Never an error.
	Notice string
}

// Resolve applies the linking policy. interactive reports whether the
// caller can prompt; it changes how ambiguity is handled, never which
// boards qualify.
func Resolve(intent domain.ProjectIntent, projects []domain.ProjectSummary, interactive bool) (Resolution, error) {
	switch intent.Kind {
	case domain.IntentNone:
		return Resolution{}, nil
	case domain.IntentAuto:
		return resolveAuto(projects, interactive)
	case domain.IntentNamed:
		return resolveNamed(intent.Name, projects)
	default:
		return Resolution{}, nil
	}
}

func resolveAuto(projects []domain.ProjectSummary, interactive bool) (Resolution, error) {
	switch len(projects) {
	case 0:
		// Not an error: the user asked for "the obvious board" and
		// there is none, so there is nothing to link.
		return Resolution{Notice: "no projects found for this owner, skipping link"}, nil
	case 1:
		return Resolution{Project: &projects[0]}, nil
	default:
		if interactive {
			return Resolution{NeedsChoice: true, Candidates: projects}, nil
		}
		return Resolution{}, domain.AmbiguousProjectError{Candidates: titles(projects)}
	}
}

func resolveNamed(name string, projects []domain.ProjectSummary) (Resolution, error) {
	var exact []domain.ProjectSummary
	var partial []domain.ProjectSummary

	needle := strings.ToLower(name)
	for _, p := range projects {
		title := strings.ToLower(p.Title)
		switch {
		case title == needle:
			exact = append(exact, p)
		case strings.Contains(title, needle):
			partial = append(partial, p)
		}
	}

	// An exact title match beats any substring match.
	if len(exact) == 1 {
		return Resolution{Project: &exact[0]}, nil
	}
	if len(exact) > 1 {
		return Resolution{}, domain.AmbiguousProjectError{Name: name, Candidates: titles(exact)}
	}

	if len(partial) == 1 {
		return Resolution{Project: &partial[0]}, nil
	}
	if len(partial) > 1 {
		return Resolution{}, domain.AmbiguousProjectError{Name: name, Candidates: titles(partial)}
	}

	return Resolution{}, domain.ProjectNotFoundError{Name: name}
}

func titles(projects []domain.ProjectSummary) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.Title
	}
	return out
}
