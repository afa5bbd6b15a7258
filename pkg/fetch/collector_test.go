package fetch

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/loader"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

type fakeSource struct {
	open, closed []model.PullRequest
	issues       []model.Issue
	edges        []model.DependencyEdge

	failOpen, failIssues bool
}

func (f *fakeSource) OpenPullRequests(ctx context.Context) ([]model.PullRequest, error) {
	if f.failOpen {
		return nil, errors.New("api unavailable")
	}
	return f.open, nil
}

func (f *fakeSource) ClosedPullRequests(ctx context.Context) ([]model.PullRequest, error) {
	return f.closed, nil
}

func (f *fakeSource) Issues(ctx context.Context) ([]model.Issue, error) {
	if f.failIssues {
		return nil, errors.New("tracker unavailable")
	}
	return f.issues, nil
}

func (f *fakeSource) Dependencies(ctx context.Context) ([]model.DependencyEdge, error) {
	return f.edges, nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestCollect_MergesAllFetches(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{
		open:   []model.PullRequest{{Number: 2, Status: model.PRStatusInProgress, CreatedAt: created, UpdatedAt: created}},
		closed: []model.PullRequest{{Number: 1, Status: model.PRStatusMerged, CreatedAt: created, UpdatedAt: created}},
		issues: []model.Issue{{ID: "A", Title: "Issue", Type: model.TypeTask, CreatedAt: created}},
		edges:  []model.DependencyEdge{{FromIssueID: "A", ToIssueID: "B", Type: model.DepBlocks}},
	}

	snap := Collect(context.Background(), src, quietLogger())

	if len(snap.PullRequests) != 2 {
		t.Errorf("got %d PRs, want 2", len(snap.PullRequests))
	}
	if len(snap.Issues) != 1 || len(snap.Dependencies) != 1 {
		t.Errorf("issues/deps = %d/%d, want 1/1", len(snap.Issues), len(snap.Dependencies))
	}
}

func TestCollect_PartialFailureDegradesToEmpty(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	src := &fakeSource{
		closed:     []model.PullRequest{{Number: 1, Status: model.PRStatusMerged, CreatedAt: created, UpdatedAt: created}},
		failOpen:   true,
		failIssues: true,
	}

	snap := Collect(context.Background(), src, quietLogger())

	if len(snap.PullRequests) != 1 {
		t.Errorf("surviving fetch lost: got %d PRs, want 1", len(snap.PullRequests))
	}
	if len(snap.Issues) != 0 {
		t.Errorf("failed fetch must yield empty issues, got %d", len(snap.Issues))
	}
}

func TestSnapshot_DependencyLookupPrefersEdges(t *testing.T) {
	snap := Snapshot{
		Issues: []model.Issue{
			{ID: "A", ParentIssues: []string{"C"}},
		},
		Dependencies: []model.DependencyEdge{
			{FromIssueID: "B", ToIssueID: "A", Type: model.DepBlocks},
		},
	}

	lookup := snap.DependencyLookup()
	blockers := lookup.Blockers("A")
	if len(blockers) != 1 || blockers[0] != "B" {
		t.Errorf("blockers = %v, want [B] from edge list", blockers)
	}
}

func TestSnapshot_DependencyLookupFallsBackToIssues(t *testing.T) {
	snap := Snapshot{
		Issues: []model.Issue{{ID: "A", ParentIssues: []string{"C"}}},
	}
	blockers := snap.DependencyLookup().Blockers("A")
	if len(blockers) != 1 || blockers[0] != "C" {
		t.Errorf("blockers = %v, want [C] from parent issues", blockers)
	}
}

func TestFileSource_RoundTrip(t *testing.T) {
	repo := t.TempDir()
	dir := filepath.Join(repo, loader.SnapshotDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	prsJSONL := `{"number":1,"title":"Merged","status":"merged","created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-02T00:00:00Z"}
{"number":2,"title":"Open","status":"in_progress","created_at":"2026-01-03T00:00:00Z","updated_at":"2026-01-03T00:00:00Z"}
`
	if err := os.WriteFile(filepath.Join(dir, loader.PullRequestsFile), []byte(prsJSONL), 0644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(repo)
	snap := Collect(context.Background(), src, quietLogger())

	// Issue and dependency files are absent: their fetches fail in
	// isolation and the PR data still comes through.
	if len(snap.PullRequests) != 2 {
		t.Errorf("got %d PRs, want 2", len(snap.PullRequests))
	}
	if len(snap.Issues) != 0 || len(snap.Dependencies) != 0 {
		t.Errorf("missing files must degrade to empty results")
	}
}
