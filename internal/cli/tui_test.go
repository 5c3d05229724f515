package cli

import (
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/plmgraph/pkg/pipeline"
	"github.com/matzehuels/plmgraph/pkg/plm"
)

func exploreFixture(t *testing.T) ExploreModel {
	t.Helper()
	data, err := os.ReadFile("testdata/assembly.xml")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := pipeline.ParseDocument(data, true)
	if err != nil {
		t.Fatal(err)
	}
	return NewExploreModel("assembly.xml", doc)
}

func press(m ExploreModel, keys ...tea.KeyMsg) ExploreModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(ExploreModel)
	}
	return m
}

func TestLineID(t *testing.T) {
	tests := map[string]string{
		"Part: id=p1, instanceRefs=i1 i2":  "p1",
		"    Part: id=p2":                  "p2",
		"Relation: id=rel1, relatedRefs=a": "rel1",
		"Header: author=alice":             "",
		"InstanceGraph: rootRefs=p1":       "",
	}
	for line, want := range tests {
		if got := lineID(line); got != want {
			t.Errorf("lineID(%q) = %q, want %q", line, got, want)
		}
	}
}

func TestExploreNavigation(t *testing.T) {
	m := exploreFixture(t)
	if len(m.Lines) == 0 || m.Lines[0] != "Header: author=alice" {
		t.Fatalf("lines = %v", m.Lines)
	}

	down := tea.KeyMsg{Type: tea.KeyDown}
	up := tea.KeyMsg{Type: tea.KeyUp}

	m = press(m, up)
	if m.Cursor != 0 {
		t.Errorf("cursor should clamp at 0, got %d", m.Cursor)
	}
	m = press(m, down, down)
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.Cursor)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEnd})
	if m.Cursor != len(m.Lines)-1 {
		t.Errorf("end: cursor = %d, want %d", m.Cursor, len(m.Lines)-1)
	}
	m = press(m, down)
	if m.Cursor != len(m.Lines)-1 {
		t.Errorf("cursor should clamp at the last line, got %d", m.Cursor)
	}
}

func TestExploreScrolls(t *testing.T) {
	m := exploreFixture(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	m = next.(ExploreModel)
	if m.Height != 5 {
		t.Fatalf("height = %d, want minimum 5", m.Height)
	}
	for range 7 {
		m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.Offset != 3 {
		t.Errorf("offset = %d, want 3", m.Offset)
	}
	if strings.Contains(m.View(), "Header: author=alice") {
		t.Error("scrolled view should not show the first line")
	}
}

func TestExploreDetail(t *testing.T) {
	m := exploreFixture(t)
	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Detail {
		t.Fatal("enter should toggle details")
	}
	view := m.View()
	for _, want := range []string{"Assembly", "Bracket-7", "i1 i2"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q:\n%s", want, view)
		}
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyHome})
	if !strings.Contains(m.View(), "no identifier on this line") {
		t.Error("header line has no record to show")
	}
}

func TestExploreQuit(t *testing.T) {
	m := exploreFixture(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestRecordRows(t *testing.T) {
	inst := &plm.Instance{
		Base:     plm.Base{ID: "i1"},
		PartRef:  "p2",
		Quantity: 2,
		Transform: &plm.Transform{Matrix: plm.Matrix{
			{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1},
		}},
	}
	rows := recordRows(inst)
	want := [][]string{
		{"kind", "Instance"},
		{"id", "i1"},
		{"partRef", "p2"},
		{"quantity", "2"},
		{"transform", "Identity"},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %v, want %v", rows, want)
	}
	for i := range want {
		if rows[i][0] != want[i][0] || rows[i][1] != want[i][1] {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}
