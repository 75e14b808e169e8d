package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ozgurozkan01/pyLog/internal/model"
	"github.com/ozgurozkan01/pyLog/internal/render"
	"github.com/ozgurozkan01/pyLog/internal/tui/dashboard"
	"github.com/ozgurozkan01/pyLog/internal/tui/detail"
	"github.com/ozgurozkan01/pyLog/internal/tui/events"
	"github.com/ozgurozkan01/pyLog/internal/tui/filteroverlay"
	"github.com/ozgurozkan01/pyLog/internal/ui"
	"github.com/ozgurozkan01/pyLog/internal/widgets"
)

// Source is where the dashboard reads logs from: the API server or the
// embedded sample.
type Source interface {
	Name() string
	ListLogs(ctx context.Context, q model.LogsQuery) (model.LogsPage, error)
	Dashboard(ctx context.Context) (model.DashboardData, error)
	Recent(ctx context.Context, n int) ([]model.LogRecord, error)
}

type Options struct {
	// Target is shown in the header, e.g. the server URL.
	Target  string
	Section Section
	Context context.Context
}

type App struct {
	source Source
	logger *zap.Logger
	target string

	// Views
	dashboardView dashboard.Model
	eventsView    events.Model
	detailView    detail.Model
	filterOverlay filteroverlay.Model

	// State
	view     ViewState
	section  Section
	width    int
	height   int
	status   string
	showHelp bool
	initCmd  tea.Cmd
}

func NewApp(source Source, opts Options, logger *zap.Logger) App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := App{
		source:        source,
		logger:        logger,
		target:        opts.Target,
		dashboardView: dashboard.New(widgets.NewAggregator()),
		eventsView:    events.New(),
		detailView:    detail.New(),
		view:          NewViewState(opts.Context),
	}
	a.initCmd = a.activate(opts.Section)
	return a
}

func (a App) Init() tea.Cmd {
	return a.initCmd
}

// --- Data fetching commands ---

func (a App) fetch(req Request) tea.Cmd {
	if req.Section == SectionEvents {
		return fetchLogs(a.source, req)
	}
	return fetchDashboard(a.source, req)
}

func fetchLogs(src Source, req Request) tea.Cmd {
	return func() tea.Msg {
		page, err := src.ListLogs(req.Context(), req.Query)
		return ui.LogsLoadedMsg{Seq: req.Seq, Page: page, Err: err}
	}
}

func fetchDashboard(src Source, req Request) tea.Cmd {
	return func() tea.Msg {
		var (
			data   model.DashboardData
			recent []model.LogRecord
		)
		g, ctx := errgroup.WithContext(req.Context())
		g.Go(func() error {
			var err error
			data, err = src.Dashboard(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			recent, err = src.Recent(ctx, render.CondensedRows)
			return err
		})
		err := g.Wait()
		return ui.DashboardLoadedMsg{Seq: req.Seq, Data: data, Recent: recent, Err: err}
	}
}

// activate shows section s and refreshes it.
func (a *App) activate(s Section) tea.Cmd {
	a.section = s
	req := a.view.RefreshForSection(s)
	a.startLoading(req)
	return a.fetch(req)
}

func (a *App) startLoading(req Request) {
	if req.Section == SectionEvents {
		a.eventsView.SetLoading()
		a.status = fmt.Sprintf("Loading page %d...", req.Query.Page)
		return
	}
	a.dashboardView.SetLoading()
	a.status = "Loading dashboard..."
}

// --- Dispatcher ---

// dispatch applies one user action. Every state change triggered by the
// user goes through here.
func (a App) dispatch(act ui.Action) (tea.Model, tea.Cmd) {
	switch act := act.(type) {
	case ui.ApplyFiltersMsg:
		a.section = SectionEvents
		req := a.view.ApplyFilters(act.Filter)
		a.startLoading(req)
		return &a, a.fetch(req)

	case ui.PaginateMsg:
		if a.section != SectionEvents {
			return &a, nil
		}
		req, ok := a.view.GoToPage(act.Delta)
		if !ok {
			return &a, nil
		}
		a.startLoading(req)
		return &a, a.fetch(req)

	case ui.NavigateMsg:
		s, ok := ParseSection(act.Target)
		if !ok {
			a.status = fmt.Sprintf("Error: unknown section %q", act.Target)
			return &a, nil
		}
		a.detailView.Close()
		if s == SectionEvents && act.Priority != "" {
			p, ok := resolvePriority(act.Priority)
			if !ok {
				a.status = fmt.Sprintf("Error: unknown priority %q", act.Priority)
				return &a, nil
			}
			return a.dispatch(ui.ApplyFiltersMsg{Filter: model.FilterCriteria{Priority: p}})
		}
		if s == SectionEvents && act.ClearFilters {
			return a.dispatch(ui.ApplyFiltersMsg{})
		}
		return &a, a.activate(s)

	case ui.OpenDetailMsg:
		a.detailView.Open(act.Record)
		a.status = "Log details"
		return &a, nil

	case ui.CloseDetailMsg:
		a.detailView.Close()
		if a.section == SectionEvents {
			a.status = a.eventsStatus()
		}
		return &a, nil
	}
	return &a, nil
}

// resolvePriority accepts a priority number or a name such as "err".
func resolvePriority(s string) (string, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(n), true
	}
	n, ok := model.PriorityByName(s)
	if !ok {
		return "", false
	}
	return strconv.Itoa(n), true
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if act, ok := msg.(ui.Action); ok {
		return a.dispatch(act)
	}

	switch msg := msg.(type) {
	case filteroverlay.ResultMsg:
		if msg.Applied {
			return a.dispatch(ui.ApplyFiltersMsg{Filter: msg.Filter})
		}
		return &a, nil

	case ui.LogsLoadedMsg:
		if !a.view.Accept(msg.Seq) {
			a.logger.Debug("Dropped stale logs response", zap.Uint64("seq", msg.Seq))
			return &a, nil
		}
		if msg.Err != nil {
			a.logger.Warn("Failed to load logs", zap.Error(msg.Err))
			a.eventsView.SetError(msg.Err)
			a.status = fmt.Sprintf("Error: %v", msg.Err)
			return &a, nil
		}
		a.view.PageLoaded(msg.Page)
		cmd := a.eventsView.SetPage(msg.Page)
		a.status = a.eventsStatus()
		return &a, cmd

	case ui.DashboardLoadedMsg:
		if !a.view.Accept(msg.Seq) {
			a.logger.Debug("Dropped stale dashboard response", zap.Uint64("seq", msg.Seq))
			return &a, nil
		}
		if msg.Err != nil {
			a.logger.Warn("Failed to load dashboard", zap.Error(msg.Err))
			a.dashboardView.SetError(msg.Err)
			a.status = fmt.Sprintf("Error: %v", msg.Err)
			return &a, nil
		}
		a.dashboardView.SetData(msg.Data, msg.Recent)
		a.status = fmt.Sprintf("Dashboard (%s)", a.source.Name())
		return &a, nil

	case ui.StatusMsg:
		a.status = msg.Text
		return &a, nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()
		return &a, nil
	}

	// The detail modal captures all input while open.
	if a.detailView.IsOpen() {
		var cmd tea.Cmd
		a.detailView, cmd = a.detailView.Update(msg)
		return &a, cmd
	}

	if a.filterOverlay.IsActive() {
		var cmd tea.Cmd
		a.filterOverlay, cmd = a.filterOverlay.Update(msg)
		return &a, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		// Help overlay dismisses on any key
		if a.showHelp {
			a.showHelp = false
			return &a, nil
		}

		switch {
		case key.Matches(msg, ui.Keys.Quit):
			a.view.Close()
			a.dashboardView.Dispose()
			return &a, tea.Quit

		case key.Matches(msg, ui.Keys.Help):
			a.showHelp = true
			return &a, nil

		case key.Matches(msg, ui.Keys.Dashboard):
			return a.dispatch(ui.NavigateMsg{Target: SectionDashboard.String()})

		case key.Matches(msg, ui.Keys.Events):
			return a.dispatch(ui.NavigateMsg{Target: SectionEvents.String()})

		case key.Matches(msg, ui.Keys.Filter):
			a.filterOverlay = filteroverlay.New(a.view.Filter)
			a.filterOverlay.SetSize(a.width, a.contentHeight())
			return &a, a.filterOverlay.Init()

		case key.Matches(msg, ui.Keys.PrevPage):
			return a.dispatch(ui.PaginateMsg{Delta: -1})

		case key.Matches(msg, ui.Keys.NextPage):
			return a.dispatch(ui.PaginateMsg{Delta: 1})

		case key.Matches(msg, ui.Keys.Refresh):
			return &a, a.activate(a.section)
		}
	}

	var cmd tea.Cmd
	switch a.section {
	case SectionEvents:
		a.eventsView, cmd = a.eventsView.Update(msg)
	default:
		a.dashboardView, cmd = a.dashboardView.Update(msg)
	}
	return &a, cmd
}

func (a App) eventsStatus() string {
	p := a.view.Pages
	parts := []string{fmt.Sprintf("Page %d/%d", p.Page, p.TotalPages)}
	if n := len(a.eventsView.Records()); a.source.Name() == "local" {
		parts = append(parts, fmt.Sprintf("%d logs (local sample, unpaged)", n))
	}
	if summary := a.view.Filter.Summary(); summary != "" {
		parts = append(parts, summary)
	}
	if p.TotalPages > 1 {
		parts = append(parts, "<-/->: page")
	}
	return strings.Join(parts, "  |  ")
}

// contentHeight is the terminal height minus header, tabs and status bar.
func (a App) contentHeight() int {
	h := a.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

func (a *App) propagateSize() {
	// pane border top(1) + bottom(1)
	contentH := a.contentHeight() - 2
	if contentH < 1 {
		contentH = 1
	}
	a.eventsView, _ = a.eventsView.Update(
		tea.WindowSizeMsg{Width: a.width - 4, Height: contentH})
	a.dashboardView, _ = a.dashboardView.Update(
		tea.WindowSizeMsg{Width: a.width - 4, Height: contentH})
	// Overlays are centred in the area below the header and tabs.
	a.detailView.SetArea(0, 2, a.width, a.contentHeight())
	a.filterOverlay.SetSize(a.width, a.contentHeight())
}

// --- View ---

func (a App) View() string {
	header := RenderHeader(a.target, a.source.Name(), a.width)
	tabs := a.renderTabs()

	contentH := a.contentHeight() - 2
	if contentH < 1 {
		contentH = 1
	}
	style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)

	var content string
	switch a.section {
	case SectionEvents:
		content = style.Render(a.eventsView.View())
	default:
		content = style.Render(a.dashboardView.View())
	}

	if a.showHelp {
		content = a.renderHelp()
	} else if a.detailView.IsOpen() {
		content = a.detailView.View()
	} else if a.filterOverlay.IsActive() {
		content = a.filterOverlay.View()
	}

	statusBar := RenderStatusBar(a.status, a.contextHints(), a.view.Loading, a.width)

	maxContentLines := a.height - 3
	if maxContentLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxContentLines {
			lines = lines[:maxContentLines]
			content = strings.Join(lines, "\n")
		}
	}

	return header + "\n" + tabs + "\n" + content + "\n" + statusBar
}

func (a App) renderTabs() string {
	tabStyle := lipgloss.NewStyle().Padding(0, 2)
	activeTab := tabStyle.Bold(true).Foreground(ui.ColorPrimary)
	inactiveTab := tabStyle.Foreground(ui.ColorMuted)

	dashLabel := "[1] Dashboard"
	eventsLabel := "[2] Events"
	if summary := a.view.Filter.Summary(); summary != "" {
		eventsLabel = fmt.Sprintf("[2] Events (%s)", summary)
	}

	dashTab := inactiveTab.Render(dashLabel)
	eventsTab := inactiveTab.Render(eventsLabel)
	switch a.section {
	case SectionEvents:
		eventsTab = activeTab.Render(eventsLabel)
	default:
		dashTab = activeTab.Render(dashLabel)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, dashTab, eventsTab)
}

func (a App) contextHints() string {
	switch {
	case a.detailView.IsOpen():
		return formatHints(a.detailView.ShortHelp())
	case a.filterOverlay.IsActive():
		return "tab:next field  enter:apply  esc:cancel"
	case a.section == SectionEvents:
		return formatHints(a.eventsView.ShortHelp())
	}
	return formatHints(a.dashboardView.ShortHelp())
}

func formatHints(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+":"+h.Desc)
	}
	return strings.Join(parts, "  ")
}

func (a App) renderHelp() string {
	contentH := a.contentHeight() - 2
	if contentH < 1 {
		contentH = 1
	}

	bold := lipgloss.NewStyle().Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Width(14)
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))

	row := func(k, d string) string {
		return "  " + keyStyle.Render(k) + desc.Render(d) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n" + bold.Render("  Navigation") + "\n\n")
	b.WriteString(row("1 / 2", "Switch section: Dashboard, Events"))
	b.WriteString(row("r", "Refresh current section"))
	b.WriteString(row("S or /", "Filter logs"))
	b.WriteString(row("q", "Quit"))

	b.WriteString("\n" + bold.Render("  Dashboard") + "\n\n")
	b.WriteString(row("e", "View error logs (priority err)"))
	b.WriteString(row("v", "View all logs"))
	b.WriteString(row("j / k", "Scroll"))

	b.WriteString("\n" + bold.Render("  Events") + "\n\n")
	b.WriteString(row("j / k", "Move down / up"))
	b.WriteString(row("<- / ->", "Previous / next page"))
	b.WriteString(row("h / l", "Previous / next page"))
	b.WriteString(row("enter", "Log details"))

	b.WriteString("\n" + bold.Render("  Log Details") + "\n\n")
	b.WriteString(row("f", "Show full / truncated values"))
	b.WriteString(row("esc / q / x", "Close"))
	b.WriteString(row("click", "Close when outside the box"))

	b.WriteString("\n" + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  Press any key to close") + "\n")

	style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
	return style.Render(b.String())
}
