package summary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	ledgerdto "timeledger/internal/modules/ledger/dto"
	"timeledger/internal/ui/theme"
)

// Model shows the ledger summary rendered from markdown.
type Model struct {
	viewport viewport.Model
	renderer *glamour.TermRenderer
	summary  ledgerdto.SummaryOutput
	loaded   bool
	width    int
}

func New() Model {
	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)
	return Model{viewport: viewport.New(0, 0), renderer: r}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.viewport.Width = width
	m.viewport.Height = height
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	); err == nil {
		m.renderer = r
	}
	if m.loaded {
		m.viewport.SetContent(m.render())
	}
}

func (m *Model) SetSummary(s ledgerdto.SummaryOutput) {
	m.summary = s
	m.loaded = true
	m.viewport.SetContent(m.render())
}

func (m Model) render() string {
	md := Markdown(m.summary)
	if m.renderer != nil {
		if out, err := m.renderer.Render(md); err == nil {
			return out
		}
	}
	return theme.Muted.Render(md)
}

// Markdown lays the summary out as a markdown document.
func Markdown(s ledgerdto.SummaryOutput) string {
	var sb strings.Builder
	sb.WriteString("# Assessment time\n\n")
	fmt.Fprintf(&sb, "Student **%s**, started %s\n\n", s.StudentID, s.AssignmentStart.Local().Format("2006-01-02 15:04"))
	sb.WriteString("| Category | Minutes |\n|---|---:|\n")
	for _, c := range s.Categories {
		fmt.Fprintf(&sb, "| %s | %.1f |\n", c.Label, c.Minutes)
	}
	fmt.Fprintf(&sb, "| **Total** | **%.1f** (%.1f h) |\n\n", s.TotalMinutes, s.TotalHours)
	fmt.Fprintf(&sb, "- Sessions: %d\n", s.Sessions)
	fmt.Fprintf(&sb, "- Submissions: %d\n", s.Submissions)
	fmt.Fprintf(&sb, "- Per question: %.1f min\n", s.AvgPerQuestion)
	fmt.Fprintf(&sb, "- Per point: %.1f min\n", s.MinutesPerPoint)
	fmt.Fprintf(&sb, "- Completion: %s\n", s.Completion)
	fmt.Fprintf(&sb, "- Efficiency: %.1f/100\n", s.Efficiency)
	return sb.String()
}
