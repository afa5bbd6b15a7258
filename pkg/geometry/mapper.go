// Package geometry maps lane/row coordinates to vector-drawing
// primitives. It is pure presentation math: same lane always yields
// the same horizontal position, and a lane carrying a node this row
// has its vertical line broken around the glyph.
package geometry

// Default drawing constants, in pixels.
const (
	DefaultLaneWidth       = 24.0
	DefaultRowHeight       = 40.0
	DefaultNodeRadius      = 6.0
	DefaultDiamondHalfSize = 7.0
	DefaultStrokeWidth     = 2.0
)

// RowKind selects the glyph drawn for a row.
type RowKind int

const (
	// RowPullRequest draws a circle.
	RowPullRequest RowKind = iota
	// RowIssue draws a diamond.
	RowIssue
	// RowLoadMore draws the "load more history" badge.
	RowLoadMore
)

// Point is a 2D coordinate in row-local space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is a straight line between two points.
type Segment struct {
	From Point `json:"from"`
	To   Point `json:"to"`
	Lane int   `json:"lane"`
}

// Glyph is the node marker for a row.
type Glyph struct {
	Kind   RowKind `json:"kind"`
	Center Point   `json:"center"`
	// Size is the circle radius or the diamond half-size.
	Size  float64 `json:"size"`
	Color string  `json:"color"`
}

// RowGeometry holds everything needed to draw one timeline row.
type RowGeometry struct {
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Glyph     Glyph     `json:"glyph"`
	LaneLines []Segment `json:"lane_lines"`
	// Connector is the L-shaped line from the source lane into the
	// node, present only when the node's lane differs from its
	// connector source lane.
	Connector []Segment `json:"connector,omitempty"`
}

// Mapper computes row geometry from configurable constants.
type Mapper struct {
	LaneWidth       float64
	RowHeight       float64
	NodeRadius      float64
	DiamondHalfSize float64
	StrokeWidth     float64
}

// DefaultMapper returns a Mapper with the reference constants.
func DefaultMapper() Mapper {
	return Mapper{
		LaneWidth:       DefaultLaneWidth,
		RowHeight:       DefaultRowHeight,
		NodeRadius:      DefaultNodeRadius,
		DiamondHalfSize: DefaultDiamondHalfSize,
		StrokeWidth:     DefaultStrokeWidth,
	}
}

// LaneCenterX returns the horizontal center of a lane.
func (m Mapper) LaneCenterX(lane int) float64 {
	return m.LaneWidth/2 + float64(lane)*m.LaneWidth
}

// GlyphSize returns the glyph half-extent for a row kind.
func (m Mapper) GlyphSize(kind RowKind) float64 {
	switch kind {
	case RowIssue:
		return m.DiamondHalfSize
	case RowLoadMore:
		return m.NodeRadius + m.StrokeWidth
	}
	return m.NodeRadius
}

// MapRow computes the drawing primitives for one row: the glyph at the
// node's lane, a vertical line for every active lane (split around the
// glyph on the node's own lane), and the connector when the node joins
// from a different lane.
func (m Mapper) MapRow(nodeLane int, kind RowKind, color string, activeLanes []int, connectorFromLane *int) RowGeometry {
	cy := m.RowHeight / 2
	nodeX := m.LaneCenterX(nodeLane)
	size := m.GlyphSize(kind)

	row := RowGeometry{
		Height: m.RowHeight,
		Glyph: Glyph{
			Kind:   kind,
			Center: Point{X: nodeX, Y: cy},
			Size:   size,
			Color:  color,
		},
	}

	maxLane := nodeLane
	for _, lane := range activeLanes {
		if lane > maxLane {
			maxLane = lane
		}
		x := m.LaneCenterX(lane)
		if lane == nodeLane {
			gap := size + m.StrokeWidth
			row.LaneLines = append(row.LaneLines,
				Segment{From: Point{X: x, Y: 0}, To: Point{X: x, Y: cy - gap}, Lane: lane},
				Segment{From: Point{X: x, Y: cy + gap}, To: Point{X: x, Y: m.RowHeight}, Lane: lane},
			)
			continue
		}
		row.LaneLines = append(row.LaneLines,
			Segment{From: Point{X: x, Y: 0}, To: Point{X: x, Y: m.RowHeight}, Lane: lane})
	}
	row.Width = m.LaneWidth * float64(maxLane+1)

	if connectorFromLane != nil && *connectorFromLane != nodeLane {
		srcX := m.LaneCenterX(*connectorFromLane)
		endX := nodeX - (size + m.StrokeWidth)
		if srcX > nodeX {
			endX = nodeX + (size + m.StrokeWidth)
		}
		row.Connector = []Segment{
			{From: Point{X: srcX, Y: 0}, To: Point{X: srcX, Y: cy}, Lane: *connectorFromLane},
			{From: Point{X: srcX, Y: cy}, To: Point{X: endX, Y: cy}, Lane: nodeLane},
		}
	}

	return row
}
