// Package analysis computes dependency-graph metrics for export
// consumers.
package analysis

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

// PageRank parameters for the blocking graph.
const (
	pageRankDamping   = 0.85
	pageRankTolerance = 1e-6
)

// IssueMetrics holds computed metrics for export/robot consumers.
type IssueMetrics struct {
	PageRank          float64 `json:"pagerank,omitempty"`
	CriticalPathDepth int     `json:"critical_path_depth,omitempty"`
	BlocksCount       int     `json:"blocks_count,omitempty"`
	BlockedByCount    int     `json:"blocked_by_count,omitempty"`
}

// ComputeMetrics derives per-issue metrics from the blocking graph:
// PageRank centrality, the length of the longest chain of issues
// unblocked downstream, and plain degree counts. Edges referencing
// issues outside the set are ignored. Keys are the original issue ids.
func ComputeMetrics(issues []model.Issue, deps timeline.DependencyLookup) map[string]IssueMetrics {
	if len(issues) == 0 {
		return map[string]IssueMetrics{}
	}

	// Deterministic node numbering.
	ids := make([]string, 0, len(issues))
	index := make(map[string]int64, len(issues))
	for _, issue := range issues {
		lid := strings.ToLower(issue.ID)
		if _, ok := index[lid]; ok {
			continue
		}
		index[lid] = int64(len(ids))
		ids = append(ids, issue.ID)
	}
	sort.Strings(ids)
	for i, id := range ids {
		index[strings.ToLower(id)] = int64(i)
	}

	g := simple.NewDirectedGraph()
	for i := range ids {
		g.AddNode(simple.Node(int64(i)))
	}

	// blocks[x] = in-set issues unblocked by x.
	blocks := make(map[string][]string)
	blockedBy := make(map[string]int)
	for _, id := range ids {
		lid := strings.ToLower(id)
		for _, blocker := range deps.Blockers(id) {
			lb := strings.ToLower(blocker)
			if _, ok := index[lb]; !ok || lb == lid {
				continue
			}
			blocks[lb] = append(blocks[lb], lid)
			blockedBy[lid]++
			g.SetEdge(g.NewEdge(simple.Node(index[lb]), simple.Node(index[lid])))
		}
	}

	ranks := network.PageRank(g, pageRankDamping, pageRankTolerance)

	depthMemo := make(map[string]int)
	onPath := make(map[string]bool)
	var depth func(lid string) int
	depth = func(lid string) int {
		if d, ok := depthMemo[lid]; ok {
			return d
		}
		if onPath[lid] {
			// Cycle: stop the chain here.
			return 0
		}
		onPath[lid] = true
		best := 0
		for _, child := range blocks[lid] {
			if d := depth(child) + 1; d > best {
				best = d
			}
		}
		onPath[lid] = false
		depthMemo[lid] = best
		return best
	}

	metrics := make(map[string]IssueMetrics, len(ids))
	for _, id := range ids {
		lid := strings.ToLower(id)
		metrics[id] = IssueMetrics{
			PageRank:          ranks[index[lid]],
			CriticalPathDepth: depth(lid),
			BlocksCount:       len(blocks[lid]),
			BlockedByCount:    blockedBy[lid],
		}
	}
	return metrics
}
