// Package loader reads timeline snapshot files in JSONL form.
package loader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

// SnapshotDir is the per-repository directory holding snapshot files.
const SnapshotDir = ".timeline"

// Snapshot file names inside SnapshotDir.
const (
	PullRequestsFile = "pull_requests.jsonl"
	IssuesFile       = "issues.jsonl"
	DependenciesFile = "dependencies.jsonl"
)

// PullRequestsPath returns the pull request snapshot path for a repo.
func PullRequestsPath(repoPath string) string {
	return filepath.Join(repoPath, SnapshotDir, PullRequestsFile)
}

// IssuesPath returns the issue snapshot path for a repo.
func IssuesPath(repoPath string) string {
	return filepath.Join(repoPath, SnapshotDir, IssuesFile)
}

// DependenciesPath returns the dependency snapshot path for a repo.
func DependenciesPath(repoPath string) string {
	return filepath.Join(repoPath, SnapshotDir, DependenciesFile)
}

// LoadPullRequests reads pull requests from a JSONL file.
func LoadPullRequests(path string) ([]model.PullRequest, error) {
	var prs []model.PullRequest
	err := readJSONL(path, func(line []byte) {
		var pr model.PullRequest
		if json.Unmarshal(line, &pr) == nil && pr.Number > 0 {
			prs = append(prs, pr)
		}
	})
	return prs, err
}

// LoadIssues reads issues from a JSONL file.
func LoadIssues(path string) ([]model.Issue, error) {
	var issues []model.Issue
	err := readJSONL(path, func(line []byte) {
		var issue model.Issue
		if json.Unmarshal(line, &issue) == nil && issue.ID != "" {
			issues = append(issues, issue)
		}
	})
	return issues, err
}

// LoadDependencies reads dependency edges from a JSONL file.
func LoadDependencies(path string) ([]model.DependencyEdge, error) {
	var edges []model.DependencyEdge
	err := readJSONL(path, func(line []byte) {
		var edge model.DependencyEdge
		if json.Unmarshal(line, &edge) == nil && edge.FromIssueID != "" && edge.ToIssueID != "" {
			edges = append(edges, edge)
		}
	})
	return edges, err
}

// readJSONL scans a JSONL file line by line. Malformed lines are
// skipped so one bad record cannot take down the whole snapshot.
func readJSONL(path string, handle func(line []byte)) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("no snapshot found at %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	// Increase buffer size for large lines (records can be large)
	const maxCapacity = 1024 * 1024 * 10 // 10MB
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		handle(line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading snapshot file: %w", err)
	}
	return nil
}
