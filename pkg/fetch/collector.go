// Package fetch acquires timeline snapshots from a data source.
//
// The graph core must be able to operate on any subset of the data,
// so each fetch runs in isolation: a failure is logged and replaced
// with an empty result, never propagated.
package fetch

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

// Snapshot is the immutable input to graph construction.
type Snapshot struct {
	PullRequests []model.PullRequest   `json:"pull_requests"`
	Issues       []model.Issue         `json:"issues"`
	Dependencies []model.DependencyEdge `json:"dependencies"`
}

// DependencyLookup adapts whichever dependency representation the
// snapshot carries into the internal adjacency map. The explicit edge
// list wins when both are present.
func (s Snapshot) DependencyLookup() timeline.DependencyLookup {
	if len(s.Dependencies) > 0 {
		return timeline.LookupFromEdges(s.Dependencies)
	}
	return timeline.LookupFromIssues(s.Issues)
}

// Source supplies the four independent fetches.
type Source interface {
	OpenPullRequests(ctx context.Context) ([]model.PullRequest, error)
	ClosedPullRequests(ctx context.Context) ([]model.PullRequest, error)
	Issues(ctx context.Context) ([]model.Issue, error)
	Dependencies(ctx context.Context) ([]model.DependencyEdge, error)
}

// Collect runs all four fetches concurrently and merges the results.
// Individual failures degrade to empty results; Collect itself never
// fails.
func Collect(ctx context.Context, src Source, logger *log.Logger) Snapshot {
	if logger == nil {
		logger = log.Default()
	}

	var (
		open, closed []model.PullRequest
		issues       []model.Issue
		edges        []model.DependencyEdge
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if open, err = src.OpenPullRequests(ctx); err != nil {
			logger.Warn("fetching open pull requests failed", "err", err)
			open = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if closed, err = src.ClosedPullRequests(ctx); err != nil {
			logger.Warn("fetching closed pull requests failed", "err", err)
			closed = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if issues, err = src.Issues(ctx); err != nil {
			logger.Warn("fetching issues failed", "err", err)
			issues = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if edges, err = src.Dependencies(ctx); err != nil {
			logger.Warn("fetching dependencies failed", "err", err)
			edges = nil
		}
		return nil
	})
	// The goroutines never return errors; Wait is only a barrier.
	_ = g.Wait()

	snap := Snapshot{
		PullRequests: append(closed, open...),
		Issues:       issues,
		Dependencies: edges,
	}
	return snap
}
