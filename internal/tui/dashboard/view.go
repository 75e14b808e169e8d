package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ozgurozkan01/pyLog/internal/model"
	"github.com/ozgurozkan01/pyLog/internal/render"
	"github.com/ozgurozkan01/pyLog/internal/tui/events"
	"github.com/ozgurozkan01/pyLog/internal/ui"
	"github.com/ozgurozkan01/pyLog/internal/widgets"
)

// Deep link targets and the priority the error card filters on.
const (
	LinkEvents    = "events"
	ErrorPriority = "err"
)

type Model struct {
	agg      *widgets.Aggregator
	data     *model.DashboardData
	recent   []model.LogRecord
	err      error
	viewport viewport.Model
	width    int
	height   int
	loading  bool
	ready    bool
}

func New(agg *widgets.Aggregator) Model {
	if agg == nil {
		agg = widgets.NewAggregator()
	}
	return Model{agg: agg, loading: true}
}

func (m *Model) SetLoading() {
	m.loading = true
}

// SetData shows a new summary. The aggregator rebuilds its charts, which
// disposes of the ones drawn for the previous summary.
func (m *Model) SetData(data model.DashboardData, recent []model.LogRecord) {
	m.agg.Update(data)
	m.data = &data
	if len(recent) > render.CondensedRows {
		recent = recent[:render.CondensedRows]
	}
	m.recent = recent
	m.err = nil
	m.loading = false
	m.refresh()
}

func (m *Model) SetError(err error) {
	m.err = err
	m.loading = false
	m.refresh()
}

func (m Model) Data() *model.DashboardData { return m.data }

// Dispose releases every chart. The dashboard is not drawn again afterwards.
func (m Model) Dispose() { m.agg.Charts().DisposeAll() }

func (m *Model) refresh() {
	if m.ready {
		m.viewport.SetContent(m.render())
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{
		ui.Keys.ViewErrs,
		ui.Keys.ViewAll,
		ui.Keys.Filter,
		ui.Keys.Refresh,
		ui.Keys.Help,
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ui.Keys.ViewErrs):
			return m, navigate(ui.NavigateMsg{Target: LinkEvents, Priority: ErrorPriority})
		case key.Matches(msg, ui.Keys.ViewAll):
			return m, navigate(ui.NavigateMsg{Target: LinkEvents, ClearFilters: true})
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height
		}
		m.viewport.SetContent(m.render())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func navigate(msg ui.NavigateMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m Model) render() string {
	if m.err != nil {
		return ui.StyleFailure.Render(fmt.Sprintf("\n  Error loading dashboard: %v", m.err))
	}
	if m.data == nil {
		return "  No data"
	}
	bold := lipgloss.NewStyle().Bold(true)
	muted := ui.StyleMuted
	chartW := m.width - 4
	if chartW < 20 {
		chartW = 20
	}

	var b strings.Builder

	b.WriteString(bold.Render("  Errors (last hour)") + "\n\n")
	b.WriteString("  " + ui.StyleFailure.Bold(true).Render(fmt.Sprintf("%d", m.data.ErrorLogCount)) +
		muted.Render("  [e] view errors") + "\n\n")

	b.WriteString(bold.Render("  Top Identifiers") + "\n\n")
	b.WriteString(chart(m.agg.Charts(), widgets.ChartIdentifiers, chartW) + "\n\n")

	b.WriteString(bold.Render("  Logs by Priority") + "\n\n")
	b.WriteString(chart(m.agg.Charts(), widgets.ChartPriorities, chartW) + "\n\n")

	b.WriteString(bold.Render("  Recent Boots") + "\n\n")
	for _, line := range widgets.BootLines(m.data.RecentBoots) {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")

	b.WriteString(bold.Render("  Recent Logs") + muted.Render("  [v] view all") + "\n\n")
	if len(m.recent) == 0 {
		b.WriteString(muted.Render("  No logs found.") + "\n")
	}
	for _, rec := range m.recent {
		b.WriteString("  " + events.FormatRow(render.RenderRow(rec, true)) + "\n")
	}

	return b.String()
}

func chart(r *widgets.Registry, id string, width int) string {
	if out := r.Render(id, width); out != "" {
		return out
	}
	return ui.StyleMuted.Render("  No data")
}

func (m Model) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}
	if !m.ready {
		return m.render()
	}
	return m.viewport.View()
}
