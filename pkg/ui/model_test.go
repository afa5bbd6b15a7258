package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

func browserFixture(t *testing.T) Model {
	t.Helper()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	prs := []model.PullRequest{
		{Number: 1, Title: "Add parser", Status: model.PRStatusInProgress, CreatedAt: created, UpdatedAt: created},
	}
	issues := []model.Issue{
		{ID: "A", Title: "Wire storage", Type: model.TypeFeature, CreatedAt: created},
		{ID: "B", Title: "Fix crash on resize", Type: model.TypeBug, CreatedAt: created, ParentIssues: []string{"A"}},
	}
	deps := timeline.LookupFromIssues(issues)
	g := timeline.NewBuilder().Build(prs, issues, deps)
	layout := timeline.CalculateLanes(g.Nodes, g.MainBranchName)
	m := New(g, layout, nil)
	m.width = 80
	m.height = 24
	return m
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{}
}

func TestNew_ShowsAllRows(t *testing.T) {
	m := browserFixture(t)
	if len(m.visible) != len(m.rows) {
		t.Errorf("visible = %d, want all %d rows", len(m.visible), len(m.rows))
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestCursorMovement_Clamps(t *testing.T) {
	m := browserFixture(t)

	m.moveCursor(-5)
	if m.cursor != 0 {
		t.Errorf("cursor below zero: %d", m.cursor)
	}

	m.moveCursor(100)
	if m.cursor != len(m.visible)-1 {
		t.Errorf("cursor = %d, want %d", m.cursor, len(m.visible)-1)
	}
}

func TestFilter_NarrowsAndClears(t *testing.T) {
	m := browserFixture(t)

	m.applyFilter("crash")
	if len(m.visible) != 1 {
		t.Fatalf("filtered visible = %d, want 1", len(m.visible))
	}
	row, ok := m.selectedRow()
	if !ok || !strings.Contains(row.Label, "Fix crash") {
		t.Errorf("selected after filter = %+v", row)
	}

	m.applyFilter("")
	if len(m.visible) != len(m.rows) {
		t.Errorf("visible after clear = %d, want %d", len(m.visible), len(m.rows))
	}
}

func TestFilter_NoMatches(t *testing.T) {
	m := browserFixture(t)
	m.applyFilter("zzzzzz")
	if len(m.visible) != 0 {
		t.Errorf("visible = %d, want 0", len(m.visible))
	}
	if _, ok := m.selectedRow(); ok {
		t.Error("selectedRow should report no selection")
	}
}

func TestUpdate_QuitKey(t *testing.T) {
	m := browserFixture(t)
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should produce tea.Quit")
	}
}

func TestUpdate_EnterOpensDetail(t *testing.T) {
	m := browserFixture(t)
	updated, _ := m.Update(keyMsg("enter"))
	got := updated.(Model)
	if !got.showDetail {
		t.Fatal("enter should open the detail overlay")
	}
	if got.detail == "" {
		t.Error("detail content is empty")
	}

	updated, _ = got.Update(keyMsg("esc"))
	if updated.(Model).showDetail {
		t.Error("esc should close the detail overlay")
	}
}

func TestView_RendersRowsAndStatusBar(t *testing.T) {
	m := browserFixture(t)
	out := m.View()

	if !strings.Contains(out, "Add parser") {
		t.Error("view missing PR row")
	}
	if !strings.Contains(out, "Wire storage") {
		t.Error("view missing issue row")
	}
	if !strings.Contains(out, "quit") {
		t.Error("view missing status bar help")
	}
}

func TestDetailMarkdown_Issue(t *testing.T) {
	m := browserFixture(t)
	node := m.graph.NodeByID("issue-B")
	if node == nil {
		t.Fatal("fixture missing issue-B")
	}
	md := m.detailMarkdown(node)

	if !strings.Contains(md, "Fix crash on resize") {
		t.Error("markdown missing title")
	}
	if !strings.Contains(md, "bug") {
		t.Error("markdown missing type")
	}
	if !strings.Contains(md, "issue-A") {
		t.Error("markdown missing parent reference")
	}
}
