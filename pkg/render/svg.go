package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo/float"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/geometry"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

// WriteSVG renders the timeline as an SVG document.
func WriteSVG(w io.Writer, g *timeline.Graph, layout timeline.TimelineLaneLayout, cfg Config) error {
	rows := BuildRows(g, layout)
	mapper := cfg.Mapper()

	graphWidth := float64(layout.MaxLanes) * cfg.LaneWidth
	width := graphWidth + cfg.LabelWidth
	height := float64(len(rows)) * cfg.RowHeight

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+cfg.Background)

	lineStyle := func(color string) string {
		return fmt.Sprintf("stroke:%s;stroke-width:%v;fill:none", color, cfg.StrokeWidth)
	}

	for i, row := range rows {
		offsetY := float64(i) * cfg.RowHeight
		geo := mapper.MapRow(row.Lane, row.Kind, row.Color, row.ActiveLanes, row.ConnectorFromLane)

		for _, seg := range geo.LaneLines {
			canvas.Line(seg.From.X, seg.From.Y+offsetY, seg.To.X, seg.To.Y+offsetY, lineStyle(cfg.LaneColor))
		}
		for _, seg := range geo.Connector {
			canvas.Line(seg.From.X, seg.From.Y+offsetY, seg.To.X, seg.To.Y+offsetY, lineStyle(row.Color))
		}

		cx, cy := geo.Glyph.Center.X, geo.Glyph.Center.Y+offsetY
		switch row.Kind {
		case geometry.RowIssue:
			s := geo.Glyph.Size
			canvas.Polygon(
				[]float64{cx, cx + s, cx, cx - s},
				[]float64{cy - s, cy, cy + s, cy},
				"fill:"+row.Color)
		case geometry.RowLoadMore:
			s := geo.Glyph.Size
			canvas.Roundrect(cx-s, cy-s/2, 2*s, s, 2, 2, "fill:"+row.Color)
		default:
			canvas.Circle(cx, cy, geo.Glyph.Size, "fill:"+row.Color)
		}

		textStyle := fmt.Sprintf("fill:%s;font-family:monospace;font-size:12px;dominant-baseline:middle", cfg.TextColor)
		canvas.Text(graphWidth+8, cy, row.Label, textStyle)
	}

	canvas.End()
	return nil
}
