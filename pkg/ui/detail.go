package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

// renderDetail builds a markdown card for a node and renders it with
// glamour. On render failure the raw markdown is shown instead.
func (m Model) renderDetail(nodeID string) string {
	node := m.graph.NodeByID(nodeID)
	if node == nil {
		return mutedStyle.Render("node not found: " + nodeID)
	}

	md := m.detailMarkdown(node)
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func (m Model) detailMarkdown(node timeline.GraphNode) string {
	var sb strings.Builder

	switch v := node.(type) {
	case *timeline.PullRequestNode:
		fmt.Fprintf(&sb, "# #%d %s\n\n", v.Number, v.Title)
		fmt.Fprintf(&sb, "- **Status:** %s\n", v.SourceStatus)
	case *timeline.IssueNode:
		fmt.Fprintf(&sb, "# %s %s\n\n", v.IssueID, v.Title)
		fmt.Fprintf(&sb, "- **Type:** %s\n", v.Type)
		if v.Priority != nil {
			fmt.Fprintf(&sb, "- **Priority:** P%d\n", *v.Priority)
		}
		if v.Group != "" {
			fmt.Fprintf(&sb, "- **Group:** %s\n", v.Group)
		}
		if v.IsOrphan {
			sb.WriteString("- **Orphan:** no dependency links\n")
		}
		if met, ok := m.metrics[v.IssueID]; ok {
			fmt.Fprintf(&sb, "- **Blocks:** %d, **blocked by:** %d\n", met.BlocksCount, met.BlockedByCount)
			fmt.Fprintf(&sb, "- **Critical path depth:** %d\n", met.CriticalPathDepth)
			fmt.Fprintf(&sb, "- **PageRank:** %.4f\n", met.PageRank)
		}
	}

	fmt.Fprintf(&sb, "- **Branch:** `%s`\n", node.BranchName())
	if parents := node.ParentIDs(); len(parents) > 0 {
		fmt.Fprintf(&sb, "- **Parents:** `%s`\n", strings.Join(parents, "`, `"))
	}
	return sb.String()
}
