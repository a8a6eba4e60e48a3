package main

import (
	"fmt"

	"schema-tools/cmd/schemactl/extends"
	"schema-tools/cmd/schemactl/schemafile"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type browseFocus int

const (
	focusTable browseFocus = iota
	focusDetail
)

var (
	styleBase = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	styleFocused = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("99"))

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	styleErr = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)
)

const (
	tableWidth   = 48
	detailWidth  = 72
	browseHeight = 20
)

type browseModel struct {
	table  table.Model
	detail viewport.Model
	defs   []*extends.Definition
	format schemafile.Format
	focus  browseFocus

	// reload re-reads the sources; nil disables the r key.
	reload  func() ([]*extends.Definition, error)
	lastErr error
}

func newBrowseModel(defs []*extends.Definition, format schemafile.Format, reload func() ([]*extends.Definition, error)) browseModel {
	columns := []table.Column{
		{Title: "NAME", Width: 20},
		{Title: "TYPE", Width: 12},
		{Title: "FIELDS", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(toRows(defs)),
		table.WithFocused(true),
		table.WithHeight(browseHeight),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("99"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := browseModel{
		table:  t,
		detail: viewport.New(detailWidth, browseHeight),
		defs:   defs,
		format: format,
		reload: reload,
	}
	m.refreshDetail()
	return m
}

func toRows(defs []*extends.Definition) []table.Row {
	rows := make([]table.Row, len(defs))
	for i, d := range defs {
		rows[i] = table.Row{d.Name, kindLabel(d), fmt.Sprintf("%d", len(d.Fields))}
	}
	return rows
}

// selected returns the definition under the table cursor, or nil.
func (m browseModel) selected() *extends.Definition {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.defs) {
		return nil
	}
	return m.defs[idx]
}

func (m *browseModel) refreshDetail() {
	d := m.selected()
	if d == nil {
		m.detail.SetContent("no definitions")
		return
	}
	text, err := describe(d, m.format)
	if err != nil {
		text = err.Error()
	}
	m.detail.SetContent(text)
	m.detail.GotoTop()
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			if m.focus == focusTable {
				m.focus = focusDetail
			} else {
				m.focus = focusTable
			}
			return m, nil
		case "r":
			if m.reload != nil {
				defs, err := m.reload()
				m.lastErr = err
				if err == nil {
					m.defs = defs
					m.table.SetRows(toRows(defs))
					if m.table.Cursor() >= len(defs) {
						m.table.SetCursor(max(len(defs)-1, 0))
					}
					m.refreshDetail()
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == focusDetail {
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	before := m.table.Cursor()
	m.table, cmd = m.table.Update(msg)
	if m.table.Cursor() != before {
		m.refreshDetail()
	}
	return m, cmd
}

func (m browseModel) View() string {
	title := styleTitle.Padding(0, 1).Render(fmt.Sprintf("%s  %d definitions", appName, len(m.defs)))

	tableStyle, detailStyle := styleFocused, styleBase
	if m.focus == focusDetail {
		tableStyle, detailStyle = styleBase, styleFocused
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		tableStyle.Width(tableWidth).Render(m.table.View()),
		detailStyle.Render(m.detail.View()),
	)

	help := styleHelp.Render("↑/↓  navigate    tab  switch pane    r  reload    q  quit")
	if m.lastErr != nil {
		help = styleErr.Render("reload failed: "+m.lastErr.Error()) + "\n" + help
	}
	return title + "\n" + body + "\n" + help
}
