package filteroverlay

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ozgurozkan01/pyLog/internal/model"
	"github.com/ozgurozkan01/pyLog/internal/ui"
)

// ---------------------------------------------------------------------------
// Result message
// ---------------------------------------------------------------------------

// ResultMsg is emitted when the user applies or cancels the filter.
type ResultMsg struct {
	Applied bool
	Filter  model.FilterCriteria
}

// ---------------------------------------------------------------------------
// Field enum
// ---------------------------------------------------------------------------

type field int

const (
	fieldMessage field = iota
	fieldPriority
	fieldIdentifier
	fieldHostname
	fieldGlobal
	fieldCount
)

// priorityCount is the number of selectable priorities (0..7).
const priorityCount = 8

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model is the Bubble Tea model for the log filter form.
type Model struct {
	active      bool
	focused     field
	priorityIdx int // -1 = all
	message     textinput.Model
	identifier  textinput.Model
	hostname    textinput.Model
	global      textinput.Model
	width       int
	height      int
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 30
	ti.SetValue(value)
	return ti
}

// New creates a filter form pre-populated with the current filters. The
// form starts active with the message field focused.
func New(current model.FilterCriteria) Model {
	m := Model{
		active:      true,
		priorityIdx: -1,
		message:     newInput("e.g. failed", current.Message),
		identifier:  newInput("e.g. sshd", current.Identifier),
		hostname:    newInput("e.g. web-01", current.Hostname),
		global:      newInput("any field; overrides the rest", current.GlobalSearch),
	}
	if p, err := strconv.Atoi(strings.TrimSpace(current.Priority)); err == nil && p >= 0 && p < priorityCount {
		m.priorityIdx = p
	}
	m.focusCurrent()
	return m
}

// IsActive reports whether the overlay is currently visible.
func (m Model) IsActive() bool { return m.active }

// SetSize stores terminal dimensions so the overlay can centre itself.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.active = false
		return m, emitResult(false, model.FilterCriteria{})
	case "enter":
		m.active = false
		return m, emitResult(true, m.Filter())
	case "ctrl+r":
		m.priorityIdx = -1
		for _, ti := range m.inputs() {
			ti.SetValue("")
		}
		return m, nil
	case "tab", "down":
		m.moveFocus(1)
		return m, textinput.Blink
	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, textinput.Blink
	}

	if m.focused == fieldPriority {
		switch keyMsg.String() {
		case "right", "l", " ":
			m.priorityIdx = cycleForward(m.priorityIdx, priorityCount)
		case "left", "h":
			m.priorityIdx = cycleBackward(m.priorityIdx, priorityCount)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focused {
	case fieldMessage:
		m.message, cmd = m.message.Update(msg)
	case fieldIdentifier:
		m.identifier, cmd = m.identifier.Update(msg)
	case fieldHostname:
		m.hostname, cmd = m.hostname.Update(msg)
	case fieldGlobal:
		m.global, cmd = m.global.Update(msg)
	}
	return m, cmd
}

// Filter returns the criteria currently entered in the form.
func (m Model) Filter() model.FilterCriteria {
	f := model.FilterCriteria{
		Message:      strings.TrimSpace(m.message.Value()),
		Identifier:   strings.TrimSpace(m.identifier.Value()),
		Hostname:     strings.TrimSpace(m.hostname.Value()),
		GlobalSearch: strings.TrimSpace(m.global.Value()),
	}
	if m.priorityIdx >= 0 {
		f.Priority = strconv.Itoa(m.priorityIdx)
	}
	return f
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m Model) View() string {
	if !m.active {
		return ""
	}

	labelStyle := lipgloss.NewStyle().Width(15).Foreground(ui.ColorMuted)
	focusedLabelStyle := lipgloss.NewStyle().Width(15).Bold(true).Foreground(ui.ColorPrimary)
	allStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true)

	rows := make([]string, 0, int(fieldCount))
	for f := field(0); f < fieldCount; f++ {
		ls := labelStyle
		if f == m.focused {
			ls = focusedLabelStyle
		}

		var label, value string
		switch f {
		case fieldMessage:
			label, value = "Message:", m.message.View()
		case fieldPriority:
			label = "Priority:"
			if m.priorityIdx < 0 {
				value = allStyle.Render("All priorities")
			} else {
				d := model.Describe(m.priorityIdx)
				value = ui.PriorityStyle(d).Render(fmt.Sprintf("%d %s", d.Value, d.Label))
			}
		case fieldIdentifier:
			label, value = "Identifier:", m.identifier.View()
		case fieldHostname:
			label, value = "Hostname:", m.hostname.View()
		case fieldGlobal:
			label, value = "Global search:", m.global.View()
		}

		cursor := "  "
		if f == m.focused {
			cursor = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Render("> ")
		}
		rows = append(rows, fmt.Sprintf("%s%s %s", cursor, ls.Render(label), value))
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		MarginBottom(1).
		Render("Filter Logs")

	help := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		MarginTop(1).
		Render("enter: apply  ctrl+r: clear  esc: cancel")

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		strings.Join(rows, "\n"),
		help,
	)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Padding(1, 2).
		Width(60).
		Render(body)

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (m *Model) inputs() []*textinput.Model {
	return []*textinput.Model{&m.message, &m.identifier, &m.hostname, &m.global}
}

func (m *Model) moveFocus(delta int) {
	next := int(m.focused) + delta
	if next < 0 {
		next = int(fieldCount) - 1
	}
	if next >= int(fieldCount) {
		next = 0
	}
	m.focused = field(next)
	m.focusCurrent()
}

func (m *Model) focusCurrent() {
	for _, ti := range m.inputs() {
		ti.Blur()
	}
	switch m.focused {
	case fieldMessage:
		m.message.Focus()
	case fieldIdentifier:
		m.identifier.Focus()
	case fieldHostname:
		m.hostname.Focus()
	case fieldGlobal:
		m.global.Focus()
	}
}

// cycleForward advances the index by one. -1 means "all" and going past
// the last entry wraps back to -1.
func cycleForward(idx, count int) int {
	idx++
	if idx >= count {
		idx = -1
	}
	return idx
}

func cycleBackward(idx, count int) int {
	idx--
	if idx < -1 {
		idx = count - 1
	}
	return idx
}

func emitResult(applied bool, f model.FilterCriteria) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Applied: applied, Filter: f}
	}
}
