package categories

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	ledgerdto "timeledger/internal/modules/ledger/dto"
	"timeledger/internal/ui/theme"
)

type categoryItem struct {
	entry  ledgerdto.CategoryMinutes
	active bool
}

func (i categoryItem) Title() string {
	if i.active {
		return "● " + i.entry.Label
	}
	return i.entry.Label
}

func (i categoryItem) Description() string {
	return fmt.Sprintf("%s  %.1f min", i.entry.Category, i.entry.Minutes)
}

func (i categoryItem) FilterValue() string { return i.entry.Category }

// Model lists the assessment categories with their running totals.
type Model struct {
	list    list.Model
	entries []ledgerdto.CategoryMinutes
	active  string
}

func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Categories"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return Model{list: l}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// SetEntries replaces the per-category totals, keeping the cursor.
func (m *Model) SetEntries(entries []ledgerdto.CategoryMinutes) tea.Cmd {
	m.entries = entries
	return m.refresh()
}

// SetActive marks the category of the open session; empty clears it.
func (m *Model) SetActive(category string) tea.Cmd {
	m.active = category
	return m.refresh()
}

func (m Model) Selected() (string, bool) {
	if item, ok := m.list.SelectedItem().(categoryItem); ok {
		return item.entry.Category, true
	}
	return "", false
}

func (m *Model) refresh() tea.Cmd {
	items := make([]list.Item, len(m.entries))
	for i, e := range m.entries {
		items[i] = categoryItem{entry: e, active: e.Category == m.active}
	}
	return m.list.SetItems(items)
}
