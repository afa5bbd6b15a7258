package ui

import "github.com/charmbracelet/lipgloss"

// Color palette. Base tones follow Dracula, node colors mirror the
// hex values used by the SVG and PNG renderers so the terminal view
// and the exported graphics agree.
var (
	ColorBg        = lipgloss.Color("#282A36")
	ColorBgSubtle  = lipgloss.Color("#363949")
	ColorHighlight = lipgloss.Color("#44475A")
	ColorText      = lipgloss.Color("#F8F8F2")
	ColorMuted     = lipgloss.Color("#6272A4")
	ColorPrimary   = lipgloss.Color("#BD93F9")
	ColorWarning   = lipgloss.Color("#FFB86C")
)

var (
	selectedRowStyle = lipgloss.NewStyle().
				Background(ColorHighlight).
				Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorBgSubtle).
			Padding(0, 1)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	filterPromptStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	detailBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)

	flashStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)
)

// glyphStyle colors a lane glyph with the node's own hex color.
func glyphStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
