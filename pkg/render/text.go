package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/geometry"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

// Glyph runes for text output.
const (
	textGlyphPR       = '●'
	textGlyphIssue    = '◆'
	textGlyphLoadMore = '┄'
	textGlyphLine     = '│'
)

// WriteText renders the timeline in the manner of git log --graph,
// one row per line, truncating labels to the given total width.
// A width of 0 disables truncation.
func WriteText(w io.Writer, g *timeline.Graph, layout timeline.TimelineLaneLayout, width int) error {
	rows := BuildRows(g, layout)

	for _, row := range rows {
		active := make(map[int]bool, len(row.ActiveLanes))
		for _, lane := range row.ActiveLanes {
			active[lane] = true
		}

		var sb strings.Builder
		for lane := 0; lane < layout.MaxLanes; lane++ {
			switch {
			case lane == row.Lane:
				sb.WriteRune(rowGlyph(row.Kind))
			case active[lane]:
				sb.WriteRune(textGlyphLine)
			default:
				sb.WriteRune(' ')
			}
			sb.WriteRune(' ')
		}

		line := sb.String() + row.Label
		if width > 0 {
			line = runewidth.Truncate(line, width, "…")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func rowGlyph(kind geometry.RowKind) rune {
	switch kind {
	case geometry.RowIssue:
		return textGlyphIssue
	case geometry.RowLoadMore:
		return textGlyphLoadMore
	}
	return textGlyphPR
}
