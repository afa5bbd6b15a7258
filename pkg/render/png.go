package render

import (
	"fmt"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/geometry"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

// WritePNG renders the timeline as a PNG image with the same geometry
// as the SVG output.
func WritePNG(w io.Writer, g *timeline.Graph, layout timeline.TimelineLaneLayout, cfg Config) error {
	rows := BuildRows(g, layout)
	mapper := cfg.Mapper()

	graphWidth := float64(layout.MaxLanes) * cfg.LaneWidth
	width := int(graphWidth + cfg.LabelWidth)
	height := int(float64(len(rows)) * cfg.RowHeight)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dc := gg.NewContext(width, height)
	dc.SetHexColor(cfg.Background)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetLineWidth(cfg.StrokeWidth)

	stroke := func(seg geometry.Segment, offsetY float64, color string) {
		dc.SetHexColor(color)
		dc.DrawLine(seg.From.X, seg.From.Y+offsetY, seg.To.X, seg.To.Y+offsetY)
		dc.Stroke()
	}

	for i, row := range rows {
		offsetY := float64(i) * cfg.RowHeight
		geo := mapper.MapRow(row.Lane, row.Kind, row.Color, row.ActiveLanes, row.ConnectorFromLane)

		for _, seg := range geo.LaneLines {
			stroke(seg, offsetY, cfg.LaneColor)
		}
		for _, seg := range geo.Connector {
			stroke(seg, offsetY, row.Color)
		}

		cx, cy := geo.Glyph.Center.X, geo.Glyph.Center.Y+offsetY
		dc.SetHexColor(row.Color)
		switch row.Kind {
		case geometry.RowIssue:
			s := geo.Glyph.Size
			dc.MoveTo(cx, cy-s)
			dc.LineTo(cx+s, cy)
			dc.LineTo(cx, cy+s)
			dc.LineTo(cx-s, cy)
			dc.ClosePath()
			dc.Fill()
		case geometry.RowLoadMore:
			s := geo.Glyph.Size
			dc.DrawRoundedRectangle(cx-s, cy-s/2, 2*s, s, 2)
			dc.Fill()
		default:
			dc.DrawCircle(cx, cy, geo.Glyph.Size)
			dc.Fill()
		}

		dc.SetHexColor(cfg.TextColor)
		dc.DrawStringAnchored(row.Label, graphWidth+8, cy, 0, 0.35)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
