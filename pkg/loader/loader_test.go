package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPullRequests(t *testing.T) {
	path := writeFile(t, t.TempDir(), "prs.jsonl",
		`{"number":1,"title":"First","status":"merged","created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-02T00:00:00Z"}
{"number":2,"title":"Second","status":"in_progress","branch_name":"feat/x","created_at":"2026-01-03T00:00:00Z","updated_at":"2026-01-03T00:00:00Z"}
`)

	prs, err := LoadPullRequests(path)
	if err != nil {
		t.Fatalf("LoadPullRequests error: %v", err)
	}
	if len(prs) != 2 {
		t.Fatalf("got %d PRs, want 2", len(prs))
	}
	if prs[1].BranchName != "feat/x" {
		t.Errorf("branch = %q, want feat/x", prs[1].BranchName)
	}
}

func TestLoadIssues_SkipsMalformedLines(t *testing.T) {
	path := writeFile(t, t.TempDir(), "issues.jsonl",
		`{"id":"A","title":"Good","type":"task","created_at":"2026-01-01T00:00:00Z"}
this is not json
{"title":"missing id","type":"bug"}
{"id":"B","title":"Also good","type":"bug","parent_issues":["A"],"created_at":"2026-01-01T00:00:00Z"}
`)

	issues, err := LoadIssues(path)
	if err != nil {
		t.Fatalf("LoadIssues error: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2 (malformed lines skipped)", len(issues))
	}
	if len(issues[1].ParentIssues) != 1 || issues[1].ParentIssues[0] != "A" {
		t.Errorf("parent issues = %v, want [A]", issues[1].ParentIssues)
	}
}

func TestLoadDependencies(t *testing.T) {
	path := writeFile(t, t.TempDir(), "deps.jsonl",
		`{"from_issue_id":"A","to_issue_id":"B","type":"blocks"}
{"from_issue_id":"","to_issue_id":"B","type":"blocks"}
`)

	edges, err := LoadDependencies(path)
	if err != nil {
		t.Fatalf("LoadDependencies error: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(edges))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := LoadIssues(filepath.Join(t.TempDir(), "missing.jsonl")); err == nil {
		t.Error("expected error for missing snapshot file")
	}
}
