package timeline

import (
	"testing"
	"time"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

func mkIssue(id string, opts ...func(*model.Issue)) model.Issue {
	issue := model.Issue{
		ID:        id,
		Title:     "Issue " + id,
		Type:      model.TypeTask,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&issue)
	}
	return issue
}

func withParents(parents ...string) func(*model.Issue) {
	return func(i *model.Issue) { i.ParentIssues = parents }
}

func withPriority(p int) func(*model.Issue) {
	return func(i *model.Issue) { i.Priority = &p }
}

func withGroup(g string) func(*model.Issue) {
	return func(i *model.Issue) { i.Group = g }
}

func withCreated(t time.Time) func(*model.Issue) {
	return func(i *model.Issue) { i.CreatedAt = t }
}

func TestClassify_RootDependentOrphan(t *testing.T) {
	issues := []model.Issue{
		mkIssue("A"),
		mkIssue("B", withParents("A")),
		mkIssue("C"),
	}
	c := Classify(issues, LookupFromIssues(issues))

	if len(c.Roots) != 1 || c.Roots[0].ID != "A" {
		t.Errorf("expected A as sole root, got %+v", c.Roots)
	}
	if len(c.Dependents) != 1 || c.Dependents[0].ID != "B" {
		t.Errorf("expected B as sole dependent, got %+v", c.Dependents)
	}
	if len(c.Orphans) != 1 || c.Orphans[0].ID != "C" {
		t.Errorf("expected C as sole orphan, got %+v", c.Orphans)
	}
}

func TestClassify_CaseInsensitiveMatching(t *testing.T) {
	issues := []model.Issue{
		mkIssue("ISSUE-1"),
		mkIssue("issue-2", withParents("Issue-1")),
	}
	c := Classify(issues, LookupFromIssues(issues))

	if len(c.Roots) != 1 || c.Roots[0].ID != "ISSUE-1" {
		t.Errorf("case-insensitive blocker reference not resolved: roots=%+v", c.Roots)
	}
	if len(c.Dependents) != 1 {
		t.Errorf("expected 1 dependent, got %d", len(c.Dependents))
	}
}

func TestClassify_DanglingBlockerDegradesGracefully(t *testing.T) {
	issues := []model.Issue{
		// Blocker outside the set: no in-set parent, blocks nothing -> orphan.
		mkIssue("A", withParents("ghost")),
		// Dangling blocker but also blocks B -> root.
		mkIssue("R", withParents("ghost")),
		mkIssue("B", withParents("R")),
	}
	c := Classify(issues, LookupFromIssues(issues))

	if len(c.Orphans) != 1 || c.Orphans[0].ID != "A" {
		t.Errorf("expected A orphan, got %+v", c.Orphans)
	}
	if len(c.Roots) != 1 || c.Roots[0].ID != "R" {
		t.Errorf("expected R root, got %+v", c.Roots)
	}
}

func TestClassify_EdgeListRepresentation(t *testing.T) {
	issues := []model.Issue{mkIssue("A"), mkIssue("B")}
	edges := []model.DependencyEdge{
		{FromIssueID: "A", ToIssueID: "B", Type: model.DepBlocks},
		// Non-blocking edge kinds are ignored.
		{FromIssueID: "B", ToIssueID: "A", Type: model.DepRelated},
	}
	c := Classify(issues, LookupFromEdges(edges))

	if len(c.Roots) != 1 || c.Roots[0].ID != "A" {
		t.Errorf("expected A root via edge list, got %+v", c.Roots)
	}
	if len(c.Dependents) != 1 || c.Dependents[0].ID != "B" {
		t.Errorf("expected B dependent via edge list, got %+v", c.Dependents)
	}
}

func TestClassify_CoversEveryIssueExactlyOnce(t *testing.T) {
	issues := []model.Issue{
		mkIssue("A"),
		mkIssue("B", withParents("A")),
		mkIssue("C", withParents("A", "B")),
		mkIssue("D"),
		mkIssue("E", withParents("missing")),
	}
	c := Classify(issues, LookupFromIssues(issues))

	seen := make(map[string]int)
	for _, list := range [][]model.Issue{c.Roots, c.Dependents, c.Orphans} {
		for _, issue := range list {
			seen[issue.ID]++
		}
	}
	if len(seen) != len(issues) {
		t.Fatalf("classification covers %d issues, want %d", len(seen), len(issues))
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("issue %s classified %d times", id, count)
		}
	}
}
