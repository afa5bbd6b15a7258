// Package timeline builds a commit-graph style timeline from pull
// request and issue snapshots: dependency classification, ordered
// graph construction, and vertical lane allocation.
package timeline

import (
	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

// DefaultMainBranch is the branch registered first in every graph.
const DefaultMainBranch = "main"

// DefaultMaxPastPRs caps how many historical merged/closed PRs are shown.
const DefaultMaxPastPRs = 5

// GraphNode is the shared contract between the two node variants.
// Downstream consumers (lane allocation, rendering) depend only on
// this interface; variant-specific coloring and shape go through an
// explicit type check on *PullRequestNode / *IssueNode.
type GraphNode interface {
	// ID is globally unique within one graph.
	ID() string
	// BranchName is never empty.
	BranchName() string
	// ParentIDs reference nodes appearing strictly earlier in the
	// emission order, never forward.
	ParentIDs() []string
	// TimeDimension places the node on the time axis: negative =
	// historical, 0 = most recent close/merge, 1 = open PRs, >=2 =
	// issues at increasing dependency depth.
	TimeDimension() int
}

// PullRequestNode is a graph node backed by a pull request.
type PullRequestNode struct {
	NodeID       string
	Branch       string
	Parents      []string
	Dim          int
	Number       int
	Title        string
	SourceStatus model.PRStatus
}

func (n *PullRequestNode) ID() string         { return n.NodeID }
func (n *PullRequestNode) BranchName() string { return n.Branch }
func (n *PullRequestNode) ParentIDs() []string {
	return n.Parents
}
func (n *PullRequestNode) TimeDimension() int { return n.Dim }

// IssueNode is a graph node backed by an issue.
type IssueNode struct {
	NodeID  string
	Branch  string
	Parents []string
	Dim     int

	IssueID  string
	Title    string
	Type     model.IssueType
	Priority *int
	Group    string
	IsOrphan bool

	// LinkedPRStatus overrides the type-derived color when the issue
	// is already associated with a pull request.
	LinkedPRStatus *model.PRStatus
}

func (n *IssueNode) ID() string         { return n.NodeID }
func (n *IssueNode) BranchName() string { return n.Branch }
func (n *IssueNode) ParentIDs() []string {
	return n.Parents
}
func (n *IssueNode) TimeDimension() int { return n.Dim }

// Color returns the display color for the issue node: the linked PR
// status color when one exists, the issue type color otherwise.
func (n *IssueNode) Color() string {
	if n.LinkedPRStatus != nil {
		return StatusColor(*n.LinkedPRStatus)
	}
	return TypeColor(n.Type)
}

// Branch describes one vertical line of work in the timeline.
type Branch struct {
	Name           string `json:"name"`
	Color          string `json:"color"`
	ParentBranch   string `json:"parent_branch,omitempty"`
	ParentCommitID string `json:"parent_commit_id,omitempty"`
}

// Graph is the ordered node list plus the branch registry produced by
// one Build invocation. Emission order is significant: lane allocation
// walks it as a DFS order. The registry always contains exactly one
// branch named MainBranchName, created first, with no parent.
type Graph struct {
	Nodes          []GraphNode
	Branches       map[string]Branch
	MainBranchName string

	HasMorePastPRs   bool
	ShownPastPRCount int
	TotalPastPRs     int
}

// NodeByID returns the node with the given id, or nil.
func (g *Graph) NodeByID(id string) GraphNode {
	for _, n := range g.Nodes {
		if n.ID() == id {
			return n
		}
	}
	return nil
}

// NodeColor returns the display color for any node variant.
func (g *Graph) NodeColor(n GraphNode) string {
	switch v := n.(type) {
	case *PullRequestNode:
		return StatusColor(v.SourceStatus)
	case *IssueNode:
		return v.Color()
	}
	return DefaultColor
}
