package render

import (
	"fmt"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/geometry"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

// LoadMoreNodeID identifies the synthetic "load more history" row.
const LoadMoreNodeID = "load-more"

// Row is one drawable timeline row, shared by all renderers.
type Row struct {
	NodeID            string
	Kind              geometry.RowKind
	Lane              int
	ActiveLanes       []int
	ConnectorFromLane *int
	Color             string
	Label             string
}

// BuildRows flattens a graph and its lane layout into drawable rows.
// When the graph was truncated, a badge row for the hidden history is
// prepended.
func BuildRows(g *timeline.Graph, layout timeline.TimelineLaneLayout) []Row {
	rows := make([]Row, 0, len(layout.Rows)+1)

	if g.HasMorePastPRs {
		hidden := g.TotalPastPRs - g.ShownPastPRCount
		rows = append(rows, Row{
			NodeID:      LoadMoreNodeID,
			Kind:        geometry.RowLoadMore,
			Lane:        0,
			ActiveLanes: []int{0},
			Color:       timeline.DefaultColor,
			Label:       fmt.Sprintf("%d earlier pull requests", hidden),
		})
	}

	for _, info := range layout.Rows {
		node := g.NodeByID(info.NodeID)
		if node == nil {
			continue
		}
		row := Row{
			NodeID:            info.NodeID,
			Lane:              info.Lane,
			ActiveLanes:       info.ActiveLanes,
			ConnectorFromLane: info.ConnectorFromLane,
			Color:             g.NodeColor(node),
		}
		switch v := node.(type) {
		case *timeline.PullRequestNode:
			row.Kind = geometry.RowPullRequest
			row.Label = fmt.Sprintf("#%d %s", v.Number, v.Title)
		case *timeline.IssueNode:
			row.Kind = geometry.RowIssue
			row.Label = fmt.Sprintf("%s %s", v.IssueID, v.Title)
		}
		rows = append(rows, row)
	}
	return rows
}
