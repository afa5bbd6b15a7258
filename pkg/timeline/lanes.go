package timeline

import (
	"sort"
)

// RowLaneInfo is the per-row rendering metadata emitted by lane
// allocation.
type RowLaneInfo struct {
	NodeID string `json:"node_id"`
	Lane   int    `json:"lane"`
	// ActiveLanes is a snapshot of the lanes carrying a live branch at
	// this row, sorted ascending.
	ActiveLanes []int `json:"active_lanes"`
	// ConnectorFromLane is set only on the row where a branch is first
	// introduced: the lane of the node's first parent (0 when the node
	// has no parents, i.e. branching from main).
	ConnectorFromLane *int `json:"connector_from_lane,omitempty"`
}

// TimelineLaneLayout assigns every node's branch to a vertical lane.
// It references nodes and branches by value only, so it can be freely
// discarded and recomputed from the graph.
type TimelineLaneLayout struct {
	Assignments map[string]int `json:"assignments"`
	MaxLanes    int            `json:"max_lanes"`
	Rows        []RowLaneInfo  `json:"rows"`
}

// CalculateLanes walks the emission order once and assigns each branch
// the lowest free lane at the moment it first appears, releasing the
// lane after the branch's last node. Main is pinned to lane 0, which
// is never released; lowest-free allocation keeps the rendered width
// minimal, and releasing only at a branch's last occurrence avoids
// lane flicker for branches with gaps.
func CalculateLanes(nodes []GraphNode, mainBranch string) TimelineLaneLayout {
	if mainBranch == "" {
		mainBranch = DefaultMainBranch
	}

	// Last node per branch, for release timing.
	lastOf := make(map[string]string)
	for _, n := range nodes {
		lastOf[n.BranchName()] = n.ID()
	}

	layout := TimelineLaneLayout{
		Assignments: make(map[string]int, len(nodes)),
		Rows:        make([]RowLaneInfo, 0, len(nodes)),
	}

	active := map[int]bool{0: true}
	branchLane := map[string]int{mainBranch: 0}
	maxLane := 0

	for _, n := range nodes {
		branch := n.BranchName()
		var lane int
		var connector *int

		switch {
		case branch == mainBranch:
			lane = 0
		default:
			if existing, ok := branchLane[branch]; ok {
				lane = existing
				break
			}
			lane = 1
			for active[lane] {
				lane++
			}
			branchLane[branch] = lane
			active[lane] = true
			if lane > maxLane {
				maxLane = lane
			}

			from := 0
			if parents := n.ParentIDs(); len(parents) > 0 {
				if parentLane, ok := layout.Assignments[parents[0]]; ok {
					from = parentLane
				}
			}
			connector = &from
		}

		layout.Assignments[n.ID()] = lane
		layout.Rows = append(layout.Rows, RowLaneInfo{
			NodeID:            n.ID(),
			Lane:              lane,
			ActiveLanes:       snapshotLanes(active),
			ConnectorFromLane: connector,
		})

		if branch != mainBranch && lastOf[branch] == n.ID() {
			delete(active, lane)
		}
	}

	layout.MaxLanes = maxLane + 1
	return layout
}

func snapshotLanes(active map[int]bool) []int {
	lanes := make([]int, 0, len(active))
	for lane := range active {
		lanes = append(lanes, lane)
	}
	sort.Ints(lanes)
	return lanes
}
