package events

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ozgurozkan01/pyLog/internal/model"
	"github.com/ozgurozkan01/pyLog/internal/render"
	"github.com/ozgurozkan01/pyLog/internal/ui"
)

const (
	colTime       = 19
	colHost       = 14
	colIdentifier = 18
	colPID        = 7

	// Header and pagination footer.
	chromeLines = 2
)

// --- Custom delegate ---

type recordDelegate struct{}

func (d recordDelegate) Height() int                              { return 1 }
func (d recordDelegate) Spacing() int                             { return 0 }
func (d recordDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d recordDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(recordItem)
	if !ok {
		return
	}
	line := FormatRow(render.RenderRow(ri.rec, false))

	style := lipgloss.NewStyle().MaxWidth(m.Width())
	if index == m.Index() {
		style = style.Background(ui.ColorHighlight).Width(m.Width())
	}
	fmt.Fprint(w, style.Render(line))
}

// FormatRow lays out a table row in fixed columns. The message column is
// last and kept whole.
func FormatRow(r render.Row) string {
	return fmt.Sprintf("%s %s %s %s %s %s",
		pad(r.Time, colTime),
		ui.StyleInfo.Render(pad(r.Host, colHost)),
		ui.PriorityBadge(r.Priority),
		pad(r.Identifier, colIdentifier),
		ui.StyleMuted.Render(pad(r.PID, colPID)),
		r.Message,
	)
}

func headerLine() string {
	return lipgloss.NewStyle().Bold(true).Foreground(ui.ColorMuted).Render(
		fmt.Sprintf("%s %s %-7s %s %s %s",
			pad("TIME", colTime), pad("HOST", colHost), "PRIO",
			pad("IDENTIFIER", colIdentifier), pad("PID", colPID), "MESSAGE"))
}

func pad(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s + strings.Repeat(" ", n-len(r))
}

// --- Item ---

type recordItem struct {
	rec model.LogRecord
}

func (r recordItem) FilterValue() string { return r.rec.Message }

// --- Model ---

type Model struct {
	list    list.Model
	page    model.LogsPage
	pages   model.PageState
	width   int
	height  int
	loading bool
	err     error
}

func New() Model {
	l := list.New(nil, recordDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowFilter(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	// Left/right belong to server-side paging.
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next page"))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "prev page"))
	l.DisableQuitKeybindings()

	return Model{list: l, pages: model.NewPageState(), loading: true}
}

func (m *Model) SetLoading() {
	m.loading = true
}

// SetPage shows a freshly loaded page and moves the cursor to the top.
func (m *Model) SetPage(p model.LogsPage) tea.Cmd {
	m.loading = false
	m.err = nil
	m.page = p
	m.pages = model.PageState{Page: p.Page, TotalPages: p.TotalPages}
	items := make([]list.Item, len(p.Records))
	for i, r := range p.Records {
		items[i] = recordItem{rec: r}
	}
	cmd := m.list.SetItems(items)
	m.list.Select(0)
	return cmd
}

// SetError replaces the table with an error placeholder.
func (m *Model) SetError(err error) {
	m.loading = false
	m.err = err
	m.page = model.LogsPage{}
	m.list.SetItems(nil)
}

func (m Model) Pages() model.PageState { return m.pages }

func (m Model) Records() []model.LogRecord { return m.page.Records }

func (m Model) Selected() *model.LogRecord {
	if item, ok := m.list.SelectedItem().(recordItem); ok {
		return &item.rec
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, ui.Keys.Enter) {
			if rec := m.Selected(); rec != nil {
				r := *rec
				return m, func() tea.Msg { return ui.OpenDetailMsg{Record: r} }
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := msg.Height - chromeLines
		if h < 1 {
			h = 1
		}
		m.list.SetSize(msg.Width, h)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// Footer renders the pagination controls. A control is dimmed when the
// page it leads to does not exist.
func (m Model) Footer() string {
	prev, next := ui.StyleInfo, ui.StyleInfo
	if !m.pages.CanPrev() {
		prev = ui.StyleDisabled
	}
	if !m.pages.CanNext() {
		next = ui.StyleDisabled
	}
	info := fmt.Sprintf("Page %d of %d", m.pages.Page, m.pages.TotalPages)
	if m.page.TotalLogs > 0 {
		info += fmt.Sprintf(" (%d logs)", m.page.TotalLogs)
	}
	return prev.Render("<- Prev") + "  " + ui.StyleMuted.Render(info) + "  " + next.Render("Next ->")
}

func (m Model) View() string {
	if m.loading {
		return "\n  Loading logs..."
	}
	var body string
	switch {
	case m.err != nil:
		body = ui.StyleFailure.Render(fmt.Sprintf("  Error loading logs: %v", m.err))
	case len(m.page.Records) == 0:
		body = ui.StyleMuted.Render("  No logs found.")
	default:
		body = m.list.View()
	}
	return headerLine() + "\n" + body + "\n" + m.Footer()
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{
		ui.Keys.Enter,
		ui.Keys.Filter,
		ui.Keys.PrevPage,
		ui.Keys.NextPage,
		ui.Keys.Refresh,
		ui.Keys.Help,
	}
}
