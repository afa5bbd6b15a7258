package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/analysis"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/render"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

func builtFixture(t *testing.T) (*timeline.Graph, timeline.TimelineLaneLayout, map[string]analysis.IssueMetrics, string) {
	t.Helper()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	prs := []model.PullRequest{
		{Number: 1, Title: "Open PR", Status: model.PRStatusInProgress, BranchName: "feat/x", CreatedAt: created, UpdatedAt: created},
	}
	issues := []model.Issue{
		{ID: "A", Title: "Root", Type: model.TypeFeature, CreatedAt: created},
		{ID: "B", Title: "Blocked", Type: model.TypeBug, CreatedAt: created, ParentIssues: []string{"A"}},
	}
	deps := timeline.LookupFromIssues(issues)
	g := timeline.NewBuilder().Build(prs, issues, deps)
	layout := timeline.CalculateLanes(g.Nodes, g.MainBranchName)
	metrics := analysis.ComputeMetrics(issues, deps)
	hash := analysis.ComputeDataHash(prs, issues, nil)
	return g, layout, metrics, hash
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	g, layout, metrics, hash := builtFixture(t)
	e := New(g, layout, metrics, hash)

	var buf bytes.Buffer
	if err := e.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}

	var decoded TimelineExport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if len(decoded.Nodes) != len(g.Nodes) {
		t.Errorf("nodes = %d, want %d", len(decoded.Nodes), len(g.Nodes))
	}
	if decoded.DataHash != hash {
		t.Errorf("data hash lost in round trip")
	}
	if decoded.Layout.MaxLanes != layout.MaxLanes {
		t.Errorf("layout max lanes = %d, want %d", decoded.Layout.MaxLanes, layout.MaxLanes)
	}
}

func TestNew_FlattensVariants(t *testing.T) {
	g, layout, _, _ := builtFixture(t)
	e := New(g, layout, nil, "")

	byID := make(map[string]Node)
	for _, n := range e.Nodes {
		byID[n.ID] = n
	}

	pr := byID["pr-1"]
	if pr.Kind != KindPullRequest || pr.Number != 1 || pr.Status == "" {
		t.Errorf("PR node not flattened: %+v", pr)
	}
	issue := byID["issue-B"]
	if issue.Kind != KindIssue || issue.IssueID != "B" || issue.Type != "bug" {
		t.Errorf("issue node not flattened: %+v", issue)
	}
	if len(issue.ParentIDs) != 1 || issue.ParentIDs[0] != "issue-A" {
		t.Errorf("issue parents = %v", issue.ParentIDs)
	}
}

func TestWriteBundle(t *testing.T) {
	g, layout, metrics, hash := builtFixture(t)
	e := New(g, layout, metrics, hash)

	dir := filepath.Join(t.TempDir(), "bundle")
	if err := WriteBundle(dir, e, g, layout, render.DefaultConfig()); err != nil {
		t.Fatalf("WriteBundle error: %v", err)
	}

	for _, name := range []string{"timeline.json", "timeline.svg", "index.html"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s not created: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestNewPreviewServer_RequiresIndex(t *testing.T) {
	if _, err := NewPreviewServer(t.TempDir(), PreviewPortRangeStart, nil); err == nil {
		t.Error("expected error for bundle without index.html")
	}
}
