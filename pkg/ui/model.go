// Package ui is the interactive terminal timeline browser.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/analysis"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/geometry"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/render"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

// Lane glyphs, matching the plain-text renderer.
const (
	glyphPR       = "●"
	glyphIssue    = "◆"
	glyphLoadMore = "┄"
	glyphLine     = "│"
)

const flashDuration = 2 * time.Second

type flashClearMsg struct{ seq int }

// Model is the bubbletea model for the timeline browser.
type Model struct {
	graph   *timeline.Graph
	layout  timeline.TimelineLaneLayout
	metrics map[string]analysis.IssueMetrics

	rows    []render.Row
	visible []int // indexes into rows, after filtering

	cursor int // index into visible
	offset int
	width  int
	height int

	filtering   bool
	filterInput textinput.Model
	filterQuery string

	showDetail bool
	detail     string

	flash    string
	flashSeq int
}

// New builds the browser model from a built graph and its layout.
func New(g *timeline.Graph, layout timeline.TimelineLaneLayout, metrics map[string]analysis.IssueMetrics) Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.CharLimit = 80

	m := Model{
		graph:       g,
		layout:      layout,
		metrics:     metrics,
		rows:        render.BuildRows(g, layout),
		filterInput: ti,
	}
	m.applyFilter("")
	return m
}

// Run starts the browser in the alternate screen and blocks until the
// user quits.
func Run(g *timeline.Graph, layout timeline.TimelineLaneLayout, metrics map[string]analysis.IssueMetrics) error {
	p := tea.NewProgram(New(g, layout, metrics), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run timeline browser: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil

	case flashClearMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFiltering(msg)
		}
		if m.showDetail {
			switch msg.String() {
			case "esc", "enter", "q":
				m.showDetail = false
			}
			return m, nil
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m Model) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.applyFilter("")
		return m, nil
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.applyFilter(m.filterInput.Value())
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-m.listHeight())
	case "pgdown":
		m.moveCursor(m.listHeight())
	case "g", "home":
		m.cursor = 0
		m.clampScroll()
	case "G", "end":
		m.cursor = len(m.visible) - 1
		m.clampScroll()

	case "/":
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case "esc":
		if m.filterQuery != "" {
			m.filterInput.SetValue("")
			m.applyFilter("")
		}

	case "y":
		if row, ok := m.selectedRow(); ok {
			return m.yank(row.NodeID)
		}

	case "enter":
		if row, ok := m.selectedRow(); ok && row.Kind != geometry.RowLoadMore {
			m.detail = m.renderDetail(row.NodeID)
			m.showDetail = true
		}
	}
	return m, nil
}

func (m Model) yank(nodeID string) (tea.Model, tea.Cmd) {
	m.flashSeq++
	if err := clipboard.WriteAll(nodeID); err != nil {
		m.flash = fmt.Sprintf("clipboard unavailable: %v", err)
	} else {
		m.flash = fmt.Sprintf("yanked %s", nodeID)
	}
	seq := m.flashSeq
	return m, tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{seq: seq}
	})
}

// applyFilter recomputes the visible row set. An empty query shows all
// rows in timeline order; otherwise rows are ranked by fuzzy match
// quality against their labels.
func (m *Model) applyFilter(query string) {
	m.filterQuery = query

	if strings.TrimSpace(query) == "" {
		m.visible = make([]int, len(m.rows))
		for i := range m.rows {
			m.visible[i] = i
		}
	} else {
		labels := make([]string, len(m.rows))
		for i, row := range m.rows {
			labels[i] = row.Label
		}
		matches := fuzzy.Find(query, labels)
		m.visible = make([]int, len(matches))
		for i, match := range matches {
			m.visible[i] = match.Index
		}
	}

	m.cursor = 0
	m.offset = 0
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampScroll()
}

func (m *Model) clampScroll() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	h := m.listHeight()
	if h <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

// listHeight is the number of rows that fit above the status bar.
func (m Model) listHeight() int {
	h := m.height - 1
	if m.filtering || m.filterQuery != "" {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) selectedRow() (render.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return render.Row{}, false
	}
	return m.rows[m.visible[m.cursor]], true
}

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.showDetail {
		return m.viewDetail()
	}

	var sb strings.Builder
	h := m.listHeight()
	for i := m.offset; i < m.offset+h && i < len(m.visible); i++ {
		sb.WriteString(m.renderRow(m.rows[m.visible[i]], i == m.cursor))
		sb.WriteByte('\n')
	}
	for drawn := len(m.visible) - m.offset; drawn < h; drawn++ {
		sb.WriteByte('\n')
	}

	if m.filtering {
		sb.WriteString(filterPromptStyle.Render(m.filterInput.View()))
		sb.WriteByte('\n')
	} else if m.filterQuery != "" {
		sb.WriteString(filterPromptStyle.Render(fmt.Sprintf("/%s (%d matches, esc to clear)", m.filterQuery, len(m.visible))))
		sb.WriteByte('\n')
	}

	sb.WriteString(m.statusBar())
	return sb.String()
}

// renderRow draws one timeline row: lane glyphs in node colors, then
// the label, truncated to the window width.
func (m Model) renderRow(row render.Row, selected bool) string {
	active := make(map[int]bool, len(row.ActiveLanes))
	for _, lane := range row.ActiveLanes {
		active[lane] = true
	}

	var lanes strings.Builder
	for lane := 0; lane < m.layout.MaxLanes; lane++ {
		switch {
		case lane == row.Lane:
			lanes.WriteString(glyphStyle(row.Color).Render(kindGlyph(row.Kind)))
		case active[lane]:
			lanes.WriteString(mutedStyle.Render(glyphLine))
		default:
			lanes.WriteByte(' ')
		}
		lanes.WriteByte(' ')
	}

	labelWidth := m.width - m.layout.MaxLanes*2 - 1
	if labelWidth < 10 {
		labelWidth = 10
	}
	label := runewidth.Truncate(row.Label, labelWidth, "…")

	line := lanes.String() + labelStyle.Render(label)
	if selected {
		return selectedRowStyle.Render("▸ ") + line
	}
	return "  " + line
}

func (m Model) statusBar() string {
	pos := mutedStyle.Render(fmt.Sprintf("%d/%d", m.cursor+1, len(m.visible)))
	help := strings.Join([]string{
		statusKeyStyle.Render("↑↓") + " move",
		statusKeyStyle.Render("/") + " filter",
		statusKeyStyle.Render("enter") + " detail",
		statusKeyStyle.Render("y") + " yank id",
		statusKeyStyle.Render("q") + " quit",
	}, "  ")

	left := pos + "  " + help
	if m.flash != "" {
		left += "  " + flashStyle.Render(m.flash)
	}
	return statusBarStyle.Width(m.width).Render(left)
}

func (m Model) viewDetail() string {
	body := detailBorderStyle.Width(min(m.width-4, 80)).Render(m.detail)
	hint := mutedStyle.Render("esc to close")
	return lipgloss.JoinVertical(lipgloss.Left, body, hint)
}

func kindGlyph(kind geometry.RowKind) string {
	switch kind {
	case geometry.RowIssue:
		return glyphIssue
	case geometry.RowLoadMore:
		return glyphLoadMore
	}
	return glyphPR
}
