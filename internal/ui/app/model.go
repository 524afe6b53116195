package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	analyticsdto "timeledger/internal/modules/analytics/dto"
	ledgerdto "timeledger/internal/modules/ledger/dto"
	"timeledger/internal/platform/clock"
	apperrors "timeledger/internal/platform/errors"
	"timeledger/internal/ui/theme"
	categoriesview "timeledger/internal/ui/views/categories"
	summaryview "timeledger/internal/ui/views/summary"
)

type ledgerPort interface {
	Start(ctx context.Context, category string) (ledgerdto.StartOutput, error)
	End(ctx context.Context) (ledgerdto.EndOutput, error)
	Submit(ctx context.Context) (ledgerdto.SubmitOutput, error)
	Summary(ctx context.Context) (ledgerdto.SummaryOutput, error)
	Active(ctx context.Context) (ledgerdto.ActiveSessionOutput, error)
}

type exportPort interface {
	Export(ctx context.Context, dir string) (analyticsdto.ExportOutput, error)
}

type summaryLoadedMsg struct {
	summary ledgerdto.SummaryOutput
	err     error
}

type activeLoadedMsg struct {
	active ledgerdto.ActiveSessionOutput
	err    error
}

type startedMsg struct {
	out ledgerdto.StartOutput
	err error
}

type endedMsg struct {
	out ledgerdto.EndOutput
	err error
}

type submittedMsg struct {
	out ledgerdto.SubmitOutput
	err error
}

type exportedMsg struct {
	out analyticsdto.ExportOutput
	err error
}

type tickMsg time.Time

type keyMap struct {
	Start  key.Binding
	End    key.Binding
	Submit key.Binding
	Export key.Binding
	Up     key.Binding
	Down   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Start:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start category")),
		End:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end session")),
		Submit: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "log submission")),
		Export: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export analytics")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.End, k.Submit, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.End, k.Submit, k.Export},
		{k.Up, k.Down},
		{k.Help, k.Quit},
	}
}

// Model is the dashboard root. It owns the open-session state and the status
// line; the category list and the summary pane are sub-views.
type Model struct {
	ledger  ledgerPort
	export  exportPort
	clock   clock.Clock
	list    categoriesview.Model
	summary summaryview.Model

	keys      keyMap
	help      help.Model
	showHelp  bool
	active    ledgerdto.ActiveSessionOutput
	hasActive bool
	now       time.Time
	status    string
	width     int
	height    int
}

func NewModel(ledger ledgerPort, export exportPort, clk clock.Clock) Model {
	h := help.New()
	h.ShowAll = true
	return Model{
		ledger:  ledger,
		export:  export,
		clock:   clk,
		list:    categoriesview.New(),
		summary: summaryview.New(),
		keys:    defaultKeys(),
		help:    h,
		now:     clk.Now(),
		status:  "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSummaryCmd(), m.loadActiveCmd(), m.tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.width
		m.resize()
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, m.tickCmd()

	case summaryLoadedMsg:
		if msg.err != nil {
			m.status = "summary: " + msg.err.Error()
			return m, nil
		}
		m.summary.SetSummary(msg.summary)
		return m, m.list.SetEntries(msg.summary.Categories)

	case activeLoadedMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, apperrors.ErrNoActiveSession) {
				m.status = "active session check: " + msg.err.Error()
			}
			m.hasActive = false
			m.active = ledgerdto.ActiveSessionOutput{}
			return m, m.list.SetActive("")
		}
		m.hasActive = true
		m.active = msg.active
		m.status = "session resumed: " + msg.active.CategoryLabel
		return m, m.list.SetActive(msg.active.Category)

	case startedMsg:
		if msg.err != nil {
			m.status = "start failed: " + msg.err.Error()
			return m, nil
		}
		m.hasActive = true
		m.active = ledgerdto.ActiveSessionOutput{
			SessionID:     msg.out.SessionID,
			Category:      msg.out.Category,
			CategoryLabel: msg.out.CategoryLabel,
			StartedAt:     msg.out.StartedAt,
		}
		m.status = "started " + msg.out.CategoryLabel
		if msg.out.Previous != nil {
			m.status += fmt.Sprintf(" (closed %s after %.1f min)", msg.out.Previous.Category, msg.out.Previous.DurationMin)
		}
		return m, tea.Batch(m.list.SetActive(msg.out.Category), m.loadSummaryCmd())

	case endedMsg:
		if msg.err != nil {
			m.status = "end failed: " + msg.err.Error()
			return m, nil
		}
		if !msg.out.Ended {
			m.status = "no active session"
			return m, nil
		}
		m.hasActive = false
		m.active = ledgerdto.ActiveSessionOutput{}
		m.status = fmt.Sprintf("ended %s: %.1f min (total %.1f)", msg.out.Session.Category, msg.out.Session.DurationMin, msg.out.TotalMinutes)
		return m, tea.Batch(m.list.SetActive(""), m.loadSummaryCmd())

	case submittedMsg:
		if msg.err != nil {
			m.status = "submission failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("submission #%d logged", msg.out.Count)
		return m, m.loadSummaryCmd()

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "exported " + msg.out.Path

	case tea.KeyMsg:
		if m.showHelp {
			if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Start):
			if category, ok := m.list.Selected(); ok {
				return m, m.startCmd(category)
			}
			return m, nil
		case key.Matches(msg, m.keys.End):
			return m, m.endCmd()
		case key.Matches(msg, m.keys.Submit):
			return m, m.submitCmd()
		case key.Matches(msg, m.keys.Export):
			return m, m.exportCmd()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	m.summary, cmd = m.summary.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := lipgloss.NewStyle().Width(m.width).Inherit(theme.Bar).Render(theme.Title.Render("timeledger"))
	status := m.renderStatusBar()
	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(status)
	if bodyH < 1 {
		bodyH = 1
	}

	var body string
	if m.showHelp {
		body = lipgloss.NewStyle().Width(m.width).Height(bodyH).Render(m.help.View(m.keys))
	} else {
		listW := m.listWidth()
		listPane := lipgloss.NewStyle().Width(listW).Height(bodyH).Render(m.list.View())
		summaryPane := theme.Pane.Width(m.width - listW - 2).Height(bodyH - 2).Render(m.summary.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, listPane, summaryPane)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (m Model) renderStatusBar() string {
	left := theme.Muted.Render("idle")
	if m.hasActive {
		left = theme.Running.Render(fmt.Sprintf("● %s %s", m.active.CategoryLabel, formatElapsed(m.elapsed())))
	}
	left += "  " + m.status
	right := theme.Muted.Render("enter:start  e:end  s:submit  x:export  ?:help  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().Width(m.width).Inherit(theme.Bar).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) elapsed() time.Duration {
	d := m.now.Sub(m.active.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d.Hours())
	mm := int(d.Minutes()) % 60
	ss := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, mm, ss)
}

func (m Model) listWidth() int {
	return m.width * 4 / 10
}

func (m *Model) resize() {
	bodyH := m.height - 2
	if bodyH < 1 {
		bodyH = 1
	}
	listW := m.listWidth()
	m.list.SetSize(listW, bodyH)
	m.summary.SetSize(m.width-listW-4, bodyH-2)
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg(m.clock.Now())
	})
}

func (m Model) loadSummaryCmd() tea.Cmd {
	return func() tea.Msg {
		summary, err := m.ledger.Summary(context.Background())
		return summaryLoadedMsg{summary: summary, err: err}
	}
}

func (m Model) loadActiveCmd() tea.Cmd {
	return func() tea.Msg {
		active, err := m.ledger.Active(context.Background())
		return activeLoadedMsg{active: active, err: err}
	}
}

func (m Model) startCmd(category string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.ledger.Start(context.Background(), category)
		return startedMsg{out: out, err: err}
	}
}

func (m Model) endCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.ledger.End(context.Background())
		return endedMsg{out: out, err: err}
	}
}

func (m Model) submitCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.ledger.Submit(context.Background())
		return submittedMsg{out: out, err: err}
	}
}

func (m Model) exportCmd() tea.Cmd {
	return func() tea.Msg {
		if m.export == nil {
			return exportedMsg{err: fmt.Errorf("export is not configured")}
		}
		out, err := m.export.Export(context.Background(), "")
		return exportedMsg{out: out, err: err}
	}
}
