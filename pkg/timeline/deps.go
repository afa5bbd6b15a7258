package timeline

import (
	"strings"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

// DependencyLookup maps a lowercased issue id to the ids of the issues
// that block it. It is the single internal adjacency representation;
// both external edge shapes are adapted into it at the boundary so the
// graph algorithms exist only once.
type DependencyLookup map[string][]string

// Blockers returns the ids blocking the given issue. Matching is
// case-insensitive on the issue id; the returned ids keep the casing
// they were supplied with.
func (d DependencyLookup) Blockers(issueID string) []string {
	return d[strings.ToLower(issueID)]
}

// LookupFromEdges builds a DependencyLookup from an explicit edge
// list. Only blocking edges are considered; other edge kinds are
// ignored. Duplicate blockers (case-insensitively) are dropped.
func LookupFromEdges(edges []model.DependencyEdge) DependencyLookup {
	lookup := make(DependencyLookup)
	seen := make(map[string]map[string]bool)
	for _, e := range edges {
		if !e.Type.IsBlocking() || e.FromIssueID == "" || e.ToIssueID == "" {
			continue
		}
		key := strings.ToLower(e.ToIssueID)
		blocker := strings.ToLower(e.FromIssueID)
		if seen[key] == nil {
			seen[key] = make(map[string]bool)
		}
		if seen[key][blocker] {
			continue
		}
		seen[key][blocker] = true
		lookup[key] = append(lookup[key], e.FromIssueID)
	}
	return lookup
}

// LookupFromIssues builds a DependencyLookup from the ParentIssues
// field carried on the issues themselves.
func LookupFromIssues(issues []model.Issue) DependencyLookup {
	lookup := make(DependencyLookup)
	for _, issue := range issues {
		if len(issue.ParentIssues) == 0 {
			continue
		}
		key := strings.ToLower(issue.ID)
		seen := make(map[string]bool)
		for _, blocker := range issue.ParentIssues {
			if blocker == "" {
				continue
			}
			lb := strings.ToLower(blocker)
			if seen[lb] {
				continue
			}
			seen[lb] = true
			lookup[key] = append(lookup[key], blocker)
		}
	}
	return lookup
}
