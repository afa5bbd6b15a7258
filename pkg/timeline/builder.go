package timeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

// Builder assembles the timeline graph from point-in-time snapshots.
// Build is deterministic given identical inputs and never fails on
// malformed domain data; missing fields fall back to defaults.
type Builder struct {
	// MainBranch is the name of the branch registered first.
	// Defaults to "main".
	MainBranch string

	// MaxPastPRs caps how many historical merged/closed PRs are
	// included. nil means unlimited.
	MaxPastPRs *int

	// LinkedPRStatus overrides the color of issues already associated
	// with a pull request, keyed by issue id (case-insensitive).
	LinkedPRStatus map[string]model.PRStatus
}

// NewBuilder returns a Builder with the default main branch name and
// past-PR cap.
func NewBuilder() *Builder {
	maxPast := DefaultMaxPastPRs
	return &Builder{
		MainBranch: DefaultMainBranch,
		MaxPastPRs: &maxPast,
	}
}

// PRNodeID derives the node id for a pull request.
func PRNodeID(number int) string {
	return fmt.Sprintf("pr-%d", number)
}

// IssueNodeID derives the node id for an issue.
func IssueNodeID(issueID string) string {
	return "issue-" + issueID
}

// Build runs the four insertion phases: merged/closed PRs, open PRs,
// dependency-ordered issues, and orphan issue groups.
func (b *Builder) Build(prs []model.PullRequest, issues []model.Issue, deps DependencyLookup) *Graph {
	main := b.MainBranch
	if main == "" {
		main = DefaultMainBranch
	}
	g := &Graph{
		Branches:       map[string]Branch{main: {Name: main, Color: DefaultColor}},
		MainBranchName: main,
	}

	st := &buildState{builder: b, graph: g, main: main, nodeByID: make(map[string]GraphNode)}
	st.addClosedPRs(prs)
	st.addOpenPRs(prs)
	st.addDependencyIssues(issues, deps)
	st.addOrphanIssues(st.classification.Orphans)
	return g
}

// buildState carries the accumulators threaded through the phases; no
// build state survives a Build call.
type buildState struct {
	builder *Builder
	graph   *Graph
	main    string

	nodeByID     map[string]GraphNode
	lastClosedID string

	classification Classification
	// maxIssueDim is the highest time dimension used by phase 3.
	// Starts at 1 so the first orphan group lands at 2 when no
	// dependency-ordered issues exist.
	maxIssueDim int
}

func (st *buildState) emit(n GraphNode) {
	st.graph.Nodes = append(st.graph.Nodes, n)
	st.nodeByID[n.ID()] = n
}

// addClosedPRs emits merged and closed PRs on the main branch, in
// ascending close order, ending at time dimension 0. When a cap is
// set, only the most recent suffix is kept.
func (st *buildState) addClosedPRs(prs []model.PullRequest) {
	var closed []model.PullRequest
	for _, pr := range prs {
		if pr.Status.IsClosed() {
			closed = append(closed, pr)
		}
	}
	sort.SliceStable(closed, func(i, j int) bool {
		ti, tj := closed[i].CloseTime(), closed[j].CloseTime()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return closed[i].Number < closed[j].Number
	})

	st.graph.TotalPastPRs = len(closed)
	if limit := st.builder.MaxPastPRs; limit != nil && *limit < len(closed) {
		if *limit < 0 {
			closed = nil
		} else {
			closed = closed[len(closed)-*limit:]
		}
		st.graph.HasMorePastPRs = true
	}
	st.graph.ShownPastPRCount = len(closed)

	for i, pr := range closed {
		node := &PullRequestNode{
			NodeID:       PRNodeID(pr.Number),
			Branch:       st.main,
			Dim:          i - (len(closed) - 1),
			Number:       pr.Number,
			Title:        pr.Title,
			SourceStatus: pr.Status,
		}
		if st.lastClosedID != "" {
			node.Parents = []string{st.lastClosedID}
		}
		st.emit(node)
		st.lastClosedID = node.NodeID
	}
}

// addOpenPRs emits every PR that is not merged or closed, ordered by
// creation date, all at time dimension 1, each on its own branch
// forked from main.
func (st *buildState) addOpenPRs(prs []model.PullRequest) {
	var open []model.PullRequest
	for _, pr := range prs {
		if !pr.Status.IsClosed() {
			open = append(open, pr)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		if !open[i].CreatedAt.Equal(open[j].CreatedAt) {
			return open[i].CreatedAt.Before(open[j].CreatedAt)
		}
		return open[i].Number < open[j].Number
	})

	for _, pr := range open {
		branch := pr.BranchName
		if branch == "" {
			branch = PRNodeID(pr.Number)
		}
		if _, ok := st.graph.Branches[branch]; !ok {
			st.graph.Branches[branch] = Branch{
				Name:           branch,
				Color:          StatusColor(pr.Status),
				ParentBranch:   st.main,
				ParentCommitID: st.lastClosedID,
			}
		}
		node := &PullRequestNode{
			NodeID:       PRNodeID(pr.Number),
			Branch:       branch,
			Dim:          1,
			Number:       pr.Number,
			Title:        pr.Title,
			SourceStatus: pr.Status,
		}
		if st.lastClosedID != "" {
			node.Parents = []string{st.lastClosedID}
		}
		st.emit(node)
	}
}

// addDependencyIssues classifies the issue set and emits roots and
// dependents in topological DFS order. A child is only entered once
// all of its in-set blockers have been emitted; that guard also keeps
// cyclic pairs out of the primary walk, so a fallback sweep afterwards
// force-visits anything still unvisited to guarantee total coverage.
func (st *buildState) addDependencyIssues(issues []model.Issue, deps DependencyLookup) {
	st.maxIssueDim = 1
	st.classification = Classify(issues, deps)

	inSet := make(map[string]model.Issue)
	for _, issue := range st.classification.Roots {
		inSet[strings.ToLower(issue.ID)] = issue
	}
	for _, issue := range st.classification.Dependents {
		inSet[strings.ToLower(issue.ID)] = issue
	}

	// Forward map restricted to the root+dependent set.
	blocks := make(map[string][]string)
	for lid, issue := range inSet {
		for _, blocker := range deps.Blockers(issue.ID) {
			lb := strings.ToLower(blocker)
			if _, ok := inSet[lb]; ok {
				blocks[lb] = append(blocks[lb], lid)
			}
		}
	}
	for _, children := range blocks {
		sortIssueIDs(children, inSet)
	}

	visited := make(map[string]bool)

	allBlockersVisited := func(lid string) bool {
		for _, blocker := range deps.Blockers(inSet[lid].ID) {
			lb := strings.ToLower(blocker)
			if _, ok := inSet[lb]; ok && !visited[lb] {
				return false
			}
		}
		return true
	}

	var visit func(lid string, depth int)
	visit = func(lid string, depth int) {
		if visited[lid] {
			return
		}
		visited[lid] = true
		issue := inSet[lid]

		// Parents are the in-set blockers already present in the
		// graph; the emission guard makes the visited filter a no-op
		// outside of force-visited cycles, where it preserves the
		// no-forward-reference invariant.
		var parents []string
		for _, blocker := range deps.Blockers(issue.ID) {
			lb := strings.ToLower(blocker)
			if bi, ok := inSet[lb]; ok && visited[lb] && lb != lid {
				parents = append(parents, IssueNodeID(bi.ID))
			}
		}
		if len(parents) == 0 && st.lastClosedID != "" {
			parents = []string{st.lastClosedID}
		}

		branch := IssueNodeID(issue.ID)
		color := TypeColor(issue.Type)
		var linked *model.PRStatus
		if status, ok := st.linkedStatus(issue.ID); ok {
			color = StatusColor(status)
			s := status
			linked = &s
		}
		parentBranch := st.main
		parentCommit := ""
		if len(parents) > 0 {
			parentCommit = parents[0]
			if parent, ok := st.nodeByID[parents[0]].(*IssueNode); ok {
				parentBranch = parent.Branch
			}
		}
		st.graph.Branches[branch] = Branch{
			Name:           branch,
			Color:          color,
			ParentBranch:   parentBranch,
			ParentCommitID: parentCommit,
		}

		dim := 2 + depth
		if dim > st.maxIssueDim {
			st.maxIssueDim = dim
		}
		st.emit(&IssueNode{
			NodeID:         IssueNodeID(issue.ID),
			Branch:         branch,
			Parents:        parents,
			Dim:            dim,
			IssueID:        issue.ID,
			Title:          issue.Title,
			Type:           issue.Type,
			Priority:       issue.Priority,
			Group:          issue.Group,
			LinkedPRStatus: linked,
		})

		for _, child := range blocks[lid] {
			if !visited[child] && allBlockersVisited(child) {
				visit(child, depth+1)
			}
		}
	}

	roots := append([]model.Issue(nil), st.classification.Roots...)
	sortIssues(roots)
	for _, root := range roots {
		visit(strings.ToLower(root.ID), 0)
	}

	// Fallback sweep for complex or cyclic graphs: every eligible
	// issue is still emitted exactly once. Depth placement here is
	// best-effort, not semantically meaningful.
	dependents := append([]model.Issue(nil), st.classification.Dependents...)
	sortIssues(dependents)
	for _, dep := range dependents {
		if lid := strings.ToLower(dep.ID); !visited[lid] {
			visit(lid, 0)
		}
	}
}

// addOrphanIssues groups issues without dependency relationships by
// their free-text group (case-insensitive), one branch and one time
// dimension per group, chained linearly within each group. Issues
// without a group share a single trailing bucket.
func (st *buildState) addOrphanIssues(orphans []model.Issue) {
	if len(orphans) == 0 {
		return
	}

	groups := make(map[string][]model.Issue)
	for _, issue := range orphans {
		groups[strings.ToLower(issue.Group)] = append(groups[strings.ToLower(issue.Group)], issue)
	}

	var names []string
	for name := range groups {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	dim := st.maxIssueDim + 1
	for _, name := range names {
		st.emitOrphanGroup("orphan-issues-"+name, groups[name], dim)
		dim++
	}
	if ungrouped := groups[""]; len(ungrouped) > 0 {
		st.emitOrphanGroup("orphan-issues", ungrouped, dim)
	}
}

func (st *buildState) emitOrphanGroup(branch string, members []model.Issue, dim int) {
	sortIssues(members)
	st.graph.Branches[branch] = Branch{
		Name:           branch,
		Color:          DefaultColor,
		ParentBranch:   st.main,
		ParentCommitID: st.lastClosedID,
	}

	prev := st.lastClosedID
	for _, issue := range members {
		var parents []string
		if prev != "" {
			parents = []string{prev}
		}
		var linked *model.PRStatus
		if status, ok := st.linkedStatus(issue.ID); ok {
			s := status
			linked = &s
		}
		node := &IssueNode{
			NodeID:         IssueNodeID(issue.ID),
			Branch:         branch,
			Parents:        parents,
			Dim:            dim,
			IssueID:        issue.ID,
			Title:          issue.Title,
			Type:           issue.Type,
			Priority:       issue.Priority,
			Group:          issue.Group,
			IsOrphan:       true,
			LinkedPRStatus: linked,
		}
		st.emit(node)
		prev = node.NodeID
	}
}

func (st *buildState) linkedStatus(issueID string) (model.PRStatus, bool) {
	if st.builder.LinkedPRStatus == nil {
		return "", false
	}
	if status, ok := st.builder.LinkedPRStatus[issueID]; ok {
		return status, true
	}
	status, ok := st.builder.LinkedPRStatus[strings.ToLower(issueID)]
	return status, ok
}

// sortIssues orders by priority ascending (missing priorities last),
// then creation date, then id for a stable total order.
func sortIssues(issues []model.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		pi, pj := issues[i].PriorityOrInf(), issues[j].PriorityOrInf()
		if pi != pj {
			return pi < pj
		}
		if !issues[i].CreatedAt.Equal(issues[j].CreatedAt) {
			return issues[i].CreatedAt.Before(issues[j].CreatedAt)
		}
		return issues[i].ID < issues[j].ID
	})
}

func sortIssueIDs(ids []string, byID map[string]model.Issue) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := byID[ids[i]], byID[ids[j]]
		pa, pb := a.PriorityOrInf(), b.PriorityOrInf()
		if pa != pb {
			return pa < pb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return ids[i] < ids[j]
	})
}
