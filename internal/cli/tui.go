package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plmgraph/pkg/pipeline"
	"github.com/matzehuels/plmgraph/pkg/plm"
	"github.com/matzehuels/plmgraph/pkg/render"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreCommand opens the brief view in an interactive browser.
func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore FILE",
		Short: "Browse the instance graph interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			opts := c.pipelineOptions(pipeline.ModeBrief, args[0])
			doc, _, err := pipeline.Parse(cmd.Context(), data, opts)
			if err != nil {
				return err
			}
			model := NewExploreModel(args[0], doc)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			return err
		},
	}
}

// =============================================================================
// ExploreModel - Interactive brief view
// =============================================================================

// ExploreModel is the bubbletea model for browsing a linked document.
type ExploreModel struct {
	Title  string
	Lines  []string
	Cursor int
	Height int
	Offset int
	Detail bool

	registry *plm.Registry
}

// NewExploreModel creates a model over the brief lines of doc.
func NewExploreModel(title string, doc *plm.Document) ExploreModel {
	return ExploreModel{
		Title:    title,
		Lines:    render.BriefLines(doc),
		Height:   20,
		registry: doc.Registry(),
	}
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown", " ":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Lines))
		case "end", "G":
			m.move(len(m.Lines))
		case "enter":
			m.Detail = !m.Detail
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 14
		if m.Height < 5 {
			m.Height = 5
		}
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped to the lines, and scrolls the
// window to keep it visible.
func (m *ExploreModel) move(delta int) {
	if len(m.Lines) == 0 {
		return
	}
	m.Cursor = max(0, min(len(m.Lines)-1, m.Cursor+delta))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Lines) == 0 {
		b.WriteString(listDimStyle.Render("  (empty document)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Lines))
	for i := m.Offset; i < end; i++ {
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + m.Lines[i]))
		} else {
			b.WriteString(listNormalStyle.Render("  " + m.Lines[i]))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Lines))))

	if m.Detail {
		b.WriteString("\n\n")
		b.WriteString(m.detailView())
	}
	return b.String()
}

func (m ExploreModel) detailView() string {
	id := lineID(m.Lines[m.Cursor])
	if id == "" {
		return listDimStyle.Render("  no identifier on this line")
	}
	rec, ok := m.registry.Lookup(id)
	if !ok {
		return listDimStyle.Render(fmt.Sprintf("  %s is not a registered record", id))
	}

	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(recordRows(rec)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}

// =============================================================================
// Helpers
// =============================================================================

// lineID extracts the identifier from a brief line such as
// "  Instance: id=i1, partRef=p2".
func lineID(line string) string {
	_, rest, ok := strings.Cut(line, "id=")
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(rest, ",")
	return strings.TrimSpace(id)
}

// recordRows lists the attributes of rec as key/value rows.
func recordRows(rec plm.Record) [][]string {
	rows := [][]string{
		{"kind", rec.Kind().String()},
		{"id", rec.Identifier()},
	}
	add := func(k, v string) {
		if v != "" {
			rows = append(rows, []string{k, v})
		}
	}

	switch r := rec.(type) {
	case *plm.Part:
		add("name", r.Name)
		add("nomenclature", r.Nomenclature)
		add("instanceRefs", r.InstanceRefs)
		add("representationRefs", r.RepresentationRefs)
		add("children", strings.Join(plm.IDs(r.ChildObjects), " "))
	case *plm.Instance:
		add("partRef", r.PartRef)
		add("quantity", strconv.Itoa(r.Quantity))
		add("nomenclature", r.Nomenclature)
		if r.Transform != nil {
			add("transform", r.Transform.Matrix.String())
		}
	case *plm.GeneralObject:
		add("class", r.ClassName)
	case *plm.Relation:
		add("subType", r.SubType)
		add("relatedRefs", r.RelatedRefs)
		add("resolved", strings.Join(plm.IDs(r.RelatedObjects), " "))
	case *plm.Representation:
		add("format", r.Format)
	case *plm.CompoundRep:
		add("name", r.Name)
		add("format", r.Format)
		add("location", r.Location)
	}
	return rows
}
