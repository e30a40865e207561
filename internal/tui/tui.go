// Package tui is an interactive browser over the templates stored in a
// ReportingCloud account.
package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/r9s-ai/reportingcloud/pkg/reportingcloud"
)

// Source is the part of the client the browser needs.
type Source interface {
	GetTemplateList(ctx context.Context) ([]reportingcloud.TemplateInfo, error)
	GetTemplatePageCount(ctx context.Context, templateName string) (int, error)
	DeleteTemplate(ctx context.Context, templateName string) (bool, error)
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, src Source, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(
		newModel(ctx, src),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui run failed: %w", err)
	}
	return nil
}

type keyMap struct {
	Refresh key.Binding
	Details key.Binding
	Delete  key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Details: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "page count")),
	Delete:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle    = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("8"))
)

type (
	templatesMsg struct {
		list []reportingcloud.TemplateInfo
		err  error
	}
	pageCountMsg struct {
		name  string
		pages int
		err   error
	}
	deletedMsg struct {
		name    string
		deleted bool
		err     error
	}
)

type model struct {
	ctx     context.Context
	src     Source
	table   table.Model
	spinner spinner.Model
	help    help.Model

	loading bool
	status  string
	err     error
}

func newModel(ctx context.Context, src Source) model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Template", Width: 32},
			{Title: "Modified", Width: 20},
			{Title: "Size", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	st.Selected = st.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(st)

	return model{
		ctx:     ctx,
		src:     src,
		table:   t,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		loading: true,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadTemplates())
}

func (m model) loadTemplates() tea.Cmd {
	return func() tea.Msg {
		list, err := m.src.GetTemplateList(m.ctx)
		return templatesMsg{list: list, err: err}
	}
}

func (m model) loadPageCount(name string) tea.Cmd {
	return func() tea.Msg {
		n, err := m.src.GetTemplatePageCount(m.ctx, name)
		return pageCountMsg{name: name, pages: n, err: err}
	}
}

func (m model) deleteTemplate(name string) tea.Cmd {
	return func() tea.Msg {
		ok, err := m.src.DeleteTemplate(m.ctx, name)
		return deletedMsg{name: name, deleted: ok, err: err}
	}
}

func (m model) selected() string {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			m.loading, m.err, m.status = true, nil, ""
			return m, tea.Batch(m.spinner.Tick, m.loadTemplates())
		case key.Matches(msg, keys.Details):
			if name := m.selected(); name != "" {
				return m, m.loadPageCount(name)
			}
			return m, nil
		case key.Matches(msg, keys.Delete):
			if name := m.selected(); name != "" {
				m.status = "deleting " + name + "..."
				return m, m.deleteTemplate(name)
			}
			return m, nil
		}
	case templatesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.table.SetRows(templateRows(msg.list))
		m.status = fmt.Sprintf("%d templates", len(msg.list))
		return m, nil
	case pageCountMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("%s: %d page(s)", msg.name, msg.pages)
		return m, nil
	case deletedMsg:
		switch {
		case msg.err != nil:
			m.err = msg.err
			return m, nil
		case !msg.deleted:
			m.status = msg.name + " was already gone"
		default:
			m.status = "deleted " + msg.name
		}
		m.err = nil
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadTemplates())
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ReportingCloud templates"))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(m.table.View()))
	b.WriteString("\n")
	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " loading")
	case m.err != nil:
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
	default:
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{keys.Refresh, keys.Details, keys.Delete, keys.Quit}))
	b.WriteString("\n")
	return b.String()
}

func templateRows(list []reportingcloud.TemplateInfo) []table.Row {
	rows := make([]table.Row, 0, len(list))
	for _, t := range list {
		name, modified, size := "-", "-", "-"
		if t.TemplateName != nil {
			name = *t.TemplateName
		}
		if t.Modified != nil {
			modified = t.Modified.UTC().Format(time.DateTime)
		}
		if t.Size != nil {
			size = strconv.FormatInt(*t.Size, 10)
		}
		rows = append(rows, table.Row{name, modified, size})
	}
	return rows
}
