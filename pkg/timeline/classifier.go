package timeline

import (
	"strings"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

// Classification partitions an issue set by its dependency role.
// The three lists are disjoint and cover every input issue exactly once.
type Classification struct {
	// Roots block at least one in-set issue and have no in-set blocker.
	Roots []model.Issue
	// Dependents have at least one in-set blocker.
	Dependents []model.Issue
	// Orphans have no dependency relationship to any in-set issue.
	Orphans []model.Issue
}

// Classify assigns each issue to exactly one of root, dependent, or
// orphan based on the blocking relationships in deps. Blocker
// references pointing outside the issue set are ignored, so issues
// with dangling references degrade to root or orphan depending on
// whether they block anything in-set. Never fails.
func Classify(issues []model.Issue, deps DependencyLookup) Classification {
	issueIDs := make(map[string]bool, len(issues))
	for _, issue := range issues {
		issueIDs[strings.ToLower(issue.ID)] = true
	}

	// Reverse lookup restricted to blockers present in the set:
	// blocks[x] = true when x blocks at least one in-set issue.
	blocks := make(map[string]bool)
	for _, issue := range issues {
		for _, blocker := range deps.Blockers(issue.ID) {
			lb := strings.ToLower(blocker)
			if issueIDs[lb] {
				blocks[lb] = true
			}
		}
	}

	var c Classification
	for _, issue := range issues {
		lid := strings.ToLower(issue.ID)
		blocksOthers := blocks[lid]

		hasInSetParent := false
		for _, blocker := range deps.Blockers(issue.ID) {
			if issueIDs[strings.ToLower(blocker)] {
				hasInSetParent = true
				break
			}
		}

		switch {
		case !blocksOthers && !hasInSetParent:
			c.Orphans = append(c.Orphans, issue)
		case blocksOthers && !hasInSetParent:
			c.Roots = append(c.Roots, issue)
		default:
			c.Dependents = append(c.Dependents, issue)
		}
	}
	return c
}
