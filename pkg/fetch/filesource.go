package fetch

import (
	"context"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/loader"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

// FileSource reads snapshot data from the .timeline directory of a
// repository. It is the default source for offline use and tests.
type FileSource struct {
	RepoPath string
}

// NewFileSource creates a FileSource rooted at repoPath.
func NewFileSource(repoPath string) *FileSource {
	return &FileSource{RepoPath: repoPath}
}

func (f *FileSource) OpenPullRequests(ctx context.Context) ([]model.PullRequest, error) {
	prs, err := loader.LoadPullRequests(loader.PullRequestsPath(f.RepoPath))
	if err != nil {
		return nil, err
	}
	var open []model.PullRequest
	for _, pr := range prs {
		if !pr.Status.IsClosed() {
			open = append(open, pr)
		}
	}
	return open, nil
}

func (f *FileSource) ClosedPullRequests(ctx context.Context) ([]model.PullRequest, error) {
	prs, err := loader.LoadPullRequests(loader.PullRequestsPath(f.RepoPath))
	if err != nil {
		return nil, err
	}
	var closed []model.PullRequest
	for _, pr := range prs {
		if pr.Status.IsClosed() {
			closed = append(closed, pr)
		}
	}
	return closed, nil
}

func (f *FileSource) Issues(ctx context.Context) ([]model.Issue, error) {
	return loader.LoadIssues(loader.IssuesPath(f.RepoPath))
}

func (f *FileSource) Dependencies(ctx context.Context) ([]model.DependencyEdge, error) {
	return loader.LoadDependencies(loader.DependenciesPath(f.RepoPath))
}
