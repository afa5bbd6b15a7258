package model

import (
	"fmt"
	"time"
)

// PullRequest represents a point-in-time snapshot of a pull request
// as supplied by the data acquisition layer.
type PullRequest struct {
	Number     int        `json:"number"`
	Title      string     `json:"title"`
	BranchName string     `json:"branch_name,omitempty"`
	Status     PRStatus   `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	MergedAt   *time.Time `json:"merged_at,omitempty"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
}

// Clone creates a deep copy of the pull request
func (p PullRequest) Clone() PullRequest {
	clone := p
	if p.MergedAt != nil {
		v := *p.MergedAt
		clone.MergedAt = &v
	}
	if p.ClosedAt != nil {
		v := *p.ClosedAt
		clone.ClosedAt = &v
	}
	return clone
}

// Validate checks if the pull request data is logically valid
func (p *PullRequest) Validate() error {
	if p.Number <= 0 {
		return fmt.Errorf("pull request number must be positive, got %d", p.Number)
	}
	if !p.Status.IsValid() {
		return fmt.Errorf("invalid pull request status: %s", p.Status)
	}
	if !p.UpdatedAt.IsZero() && !p.CreatedAt.IsZero() && p.UpdatedAt.Before(p.CreatedAt) {
		return fmt.Errorf("updated_at (%v) cannot be before created_at (%v)", p.UpdatedAt, p.CreatedAt)
	}
	return nil
}

// CloseTime returns the best-known time at which the PR left the open
// set: merge time for merged PRs, close time for closed ones, and the
// last update as a fallback when neither is recorded.
func (p *PullRequest) CloseTime() time.Time {
	if p.Status == PRStatusMerged && p.MergedAt != nil {
		return *p.MergedAt
	}
	if p.ClosedAt != nil {
		return *p.ClosedAt
	}
	return p.UpdatedAt
}

// PRStatus represents the current state of a pull request
type PRStatus string

const (
	PRStatusInProgress      PRStatus = "in_progress"
	PRStatusReadyForReview  PRStatus = "ready_for_review"
	PRStatusReadyForMerging PRStatus = "ready_for_merging"
	PRStatusChecksFailing   PRStatus = "checks_failing"
	PRStatusConflict        PRStatus = "conflict"
	PRStatusMerged          PRStatus = "merged"
	PRStatusClosed          PRStatus = "closed"
)

// IsValid returns true if the status is a recognized value
func (s PRStatus) IsValid() bool {
	switch s {
	case PRStatusInProgress, PRStatusReadyForReview, PRStatusReadyForMerging,
		PRStatusChecksFailing, PRStatusConflict, PRStatusMerged, PRStatusClosed:
		return true
	}
	return false
}

// IsClosed returns true if the status represents a merged or closed state
func (s PRStatus) IsClosed() bool {
	return s == PRStatusMerged || s == PRStatusClosed
}

// Issue represents a trackable work item with optional blocking
// relationships to other issues.
type Issue struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Type         IssueType `json:"type"`
	Priority     *int      `json:"priority,omitempty"`
	Group        string    `json:"group,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ParentIssues []string  `json:"parent_issues,omitempty"`
}

// Clone creates a deep copy of the issue
func (i Issue) Clone() Issue {
	clone := i
	if i.Priority != nil {
		v := *i.Priority
		clone.Priority = &v
	}
	if i.ParentIssues != nil {
		clone.ParentIssues = make([]string, len(i.ParentIssues))
		copy(clone.ParentIssues, i.ParentIssues)
	}
	return clone
}

// Validate checks if the issue data is logically valid
func (i *Issue) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("issue ID cannot be empty")
	}
	if i.Title == "" {
		return fmt.Errorf("issue title cannot be empty")
	}
	if !i.Type.IsValid() {
		return fmt.Errorf("invalid issue type: %s", i.Type)
	}
	return nil
}

// PriorityOrInf returns the priority, or a very large value when the
// issue has none. Unprioritized issues sort after prioritized ones.
func (i *Issue) PriorityOrInf() int {
	if i.Priority == nil {
		return int(^uint(0) >> 1)
	}
	return *i.Priority
}

// IssueType categorizes the kind of work
type IssueType string

const (
	TypeBug     IssueType = "bug"
	TypeFeature IssueType = "feature"
	TypeTask    IssueType = "task"
	TypeEpic    IssueType = "epic"
	TypeChore   IssueType = "chore"
)

// IsValid returns true if the issue type is a recognized value
func (t IssueType) IsValid() bool {
	switch t {
	case TypeBug, TypeFeature, TypeTask, TypeEpic, TypeChore:
		return true
	}
	return false
}

// DependencyEdge represents a directed relationship between two issues:
// FromIssueID blocks ToIssueID when the type is blocking.
type DependencyEdge struct {
	FromIssueID string         `json:"from_issue_id"`
	ToIssueID   string         `json:"to_issue_id"`
	Type        DependencyType `json:"type"`
}

// DependencyType categorizes the relationship
type DependencyType string

const (
	DepBlocks         DependencyType = "blocks"
	DepRelated        DependencyType = "related"
	DepDiscoveredFrom DependencyType = "discovered-from"
)

// IsValid returns true if the dependency type is a recognized value
func (d DependencyType) IsValid() bool {
	switch d {
	case DepBlocks, DepRelated, DepDiscoveredFrom:
		return true
	}
	return false
}

// IsBlocking returns true if this dependency type represents a blocking relationship
func (d DependencyType) IsBlocking() bool {
	return d == "" || d == DepBlocks
}
