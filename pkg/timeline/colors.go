package timeline

import (
	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

// DefaultColor is used for unknown statuses and types, and for the
// main and orphan-group branches.
const DefaultColor = "#6b7280"

// StatusColor maps a pull request status to its display color.
func StatusColor(s model.PRStatus) string {
	switch s {
	case model.PRStatusInProgress:
		return "#3b82f6" // blue
	case model.PRStatusReadyForReview:
		return "#eab308" // yellow
	case model.PRStatusReadyForMerging, model.PRStatusMerged:
		return "#22c55e" // green
	case model.PRStatusChecksFailing:
		return "#ef4444" // red
	case model.PRStatusConflict:
		return "#f97316" // orange
	}
	return DefaultColor
}

// TypeColor maps an issue type to its display color.
func TypeColor(t model.IssueType) string {
	switch t {
	case model.TypeBug:
		return "#ef4444" // red
	case model.TypeFeature:
		return "#a855f7" // purple
	case model.TypeTask:
		return "#3b82f6" // blue
	case model.TypeEpic:
		return "#f97316" // orange
	case model.TypeChore:
		return DefaultColor
	}
	return DefaultColor
}
