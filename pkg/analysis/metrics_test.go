package analysis

import (
	"testing"
	"time"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

func issue(id string, parents ...string) model.Issue {
	return model.Issue{
		ID:           id,
		Title:        "Issue " + id,
		Type:         model.TypeTask,
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ParentIssues: parents,
	}
}

func TestComputeMetrics_Chain(t *testing.T) {
	issues := []model.Issue{
		issue("A"),
		issue("B", "A"),
		issue("C", "B"),
	}
	m := ComputeMetrics(issues, timeline.LookupFromIssues(issues))

	if m["A"].CriticalPathDepth != 2 {
		t.Errorf("A critical path depth = %d, want 2", m["A"].CriticalPathDepth)
	}
	if m["C"].CriticalPathDepth != 0 {
		t.Errorf("C critical path depth = %d, want 0", m["C"].CriticalPathDepth)
	}
	if m["A"].BlocksCount != 1 || m["A"].BlockedByCount != 0 {
		t.Errorf("A degrees = %d/%d, want 1/0", m["A"].BlocksCount, m["A"].BlockedByCount)
	}
	if m["B"].BlockedByCount != 1 {
		t.Errorf("B blocked-by = %d, want 1", m["B"].BlockedByCount)
	}
	// A sink accumulates rank from its blockers.
	if m["C"].PageRank <= m["A"].PageRank {
		t.Errorf("expected C (most blocked) to outrank A: %v vs %v", m["C"].PageRank, m["A"].PageRank)
	}
}

func TestComputeMetrics_CycleTerminates(t *testing.T) {
	issues := []model.Issue{
		issue("A", "B"),
		issue("B", "A"),
	}
	m := ComputeMetrics(issues, timeline.LookupFromIssues(issues))

	if len(m) != 2 {
		t.Fatalf("got %d metric entries, want 2", len(m))
	}
	for id, im := range m {
		if im.CriticalPathDepth > 1 {
			t.Errorf("%s depth = %d through a cycle", id, im.CriticalPathDepth)
		}
	}
}

func TestComputeMetrics_EmptyAndDangling(t *testing.T) {
	if m := ComputeMetrics(nil, nil); len(m) != 0 {
		t.Errorf("empty input produced %d entries", len(m))
	}

	issues := []model.Issue{issue("A", "ghost")}
	m := ComputeMetrics(issues, timeline.LookupFromIssues(issues))
	if m["A"].BlockedByCount != 0 {
		t.Error("dangling blocker must not count")
	}
}

func TestComputeDataHash_Stable(t *testing.T) {
	issues := []model.Issue{issue("A")}
	h1 := ComputeDataHash(nil, issues, nil)
	h2 := ComputeDataHash(nil, issues, nil)
	if h1 != h2 {
		t.Error("hash not stable for identical input")
	}
	if h1 == ComputeDataHash(nil, nil, nil) {
		t.Error("hash ignores input")
	}
}
