// Package export serializes built timelines for external renderers
// and serves exported bundles for local previewing.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/analysis"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/render"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

// Node kinds in the export payload.
const (
	KindPullRequest = "pull_request"
	KindIssue       = "issue"
)

// Node is the flattened wire form of a graph node.
type Node struct {
	ID            string   `json:"id"`
	Kind          string   `json:"kind"`
	BranchName    string   `json:"branch_name"`
	ParentIDs     []string `json:"parent_ids,omitempty"`
	TimeDimension int      `json:"time_dimension"`
	Color         string   `json:"color"`
	Title         string   `json:"title"`

	Number int    `json:"number,omitempty"`
	Status string `json:"status,omitempty"`

	IssueID  string `json:"issue_id,omitempty"`
	Type     string `json:"type,omitempty"`
	Priority *int   `json:"priority,omitempty"`
	Group    string `json:"group,omitempty"`
	IsOrphan bool   `json:"is_orphan,omitempty"`
}

// TimelineExport is the complete payload consumed by a browser-side
// graph widget.
type TimelineExport struct {
	GeneratedAt time.Time `json:"generated_at"`
	DataHash    string    `json:"data_hash,omitempty"`

	MainBranch       string `json:"main_branch"`
	HasMorePastPRs   bool   `json:"has_more_past_prs"`
	ShownPastPRCount int    `json:"shown_past_pr_count"`
	TotalPastPRs     int    `json:"total_past_prs"`

	Nodes    []Node                           `json:"nodes"`
	Branches map[string]timeline.Branch       `json:"branches"`
	Layout   timeline.TimelineLaneLayout      `json:"layout"`
	Metrics  map[string]analysis.IssueMetrics `json:"metrics,omitempty"`
}

// New assembles the export payload from a built graph and its layout.
func New(g *timeline.Graph, layout timeline.TimelineLaneLayout, metrics map[string]analysis.IssueMetrics, dataHash string) TimelineExport {
	e := TimelineExport{
		GeneratedAt:      time.Now().UTC(),
		DataHash:         dataHash,
		MainBranch:       g.MainBranchName,
		HasMorePastPRs:   g.HasMorePastPRs,
		ShownPastPRCount: g.ShownPastPRCount,
		TotalPastPRs:     g.TotalPastPRs,
		Nodes:            make([]Node, 0, len(g.Nodes)),
		Branches:         g.Branches,
		Layout:           layout,
		Metrics:          metrics,
	}

	for _, n := range g.Nodes {
		node := Node{
			ID:            n.ID(),
			BranchName:    n.BranchName(),
			ParentIDs:     n.ParentIDs(),
			TimeDimension: n.TimeDimension(),
			Color:         g.NodeColor(n),
		}
		switch v := n.(type) {
		case *timeline.PullRequestNode:
			node.Kind = KindPullRequest
			node.Title = v.Title
			node.Number = v.Number
			node.Status = string(v.SourceStatus)
		case *timeline.IssueNode:
			node.Kind = KindIssue
			node.Title = v.Title
			node.IssueID = v.IssueID
			node.Type = string(v.Type)
			node.Priority = v.Priority
			node.Group = v.Group
			node.IsOrphan = v.IsOrphan
		}
		e.Nodes = append(e.Nodes, node)
	}
	return e
}

// WriteJSON writes the payload as indented JSON.
func (e TimelineExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("encode timeline export: %w", err)
	}
	return nil
}

// WriteBundle writes a static site bundle: timeline.json, timeline.svg
// and a minimal index.html that embeds both.
func WriteBundle(dir string, e TimelineExport, g *timeline.Graph, layout timeline.TimelineLaneLayout, cfg render.Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create bundle directory: %w", err)
	}

	jsonFile, err := os.Create(filepath.Join(dir, "timeline.json"))
	if err != nil {
		return fmt.Errorf("create timeline.json: %w", err)
	}
	defer jsonFile.Close()
	if err := e.WriteJSON(jsonFile); err != nil {
		return err
	}

	svgFile, err := os.Create(filepath.Join(dir, "timeline.svg"))
	if err != nil {
		return fmt.Errorf("create timeline.svg: %w", err)
	}
	defer svgFile.Close()
	if err := render.WriteSVG(svgFile, g, layout, cfg); err != nil {
		return fmt.Errorf("render timeline.svg: %w", err)
	}

	index := fmt.Sprintf(indexTemplate, e.DataHash, e.GeneratedAt.Format(time.RFC3339))
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(index), 0644); err != nil {
		return fmt.Errorf("write index.html: %w", err)
	}
	return nil
}

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Timeline</title>
<style>
body { font-family: monospace; background: #ffffff; margin: 2rem; }
footer { color: #6b7280; font-size: 12px; margin-top: 1rem; }
</style>
</head>
<body>
<img src="timeline.svg" alt="timeline graph">
<footer>data %s generated %s &middot; raw data: <a href="timeline.json">timeline.json</a></footer>
</body>
</html>
`
