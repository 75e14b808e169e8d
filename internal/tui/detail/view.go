// Package detail shows every field of one log record in a modal box.
package detail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ozgurozkan01/pyLog/internal/journal"
	"github.com/ozgurozkan01/pyLog/internal/model"
	"github.com/ozgurozkan01/pyLog/internal/render"
	"github.com/ozgurozkan01/pyLog/internal/ui"
)

// TruncateLimit is the number of runes shown of a long value until the
// user asks for the full text.
const TruncateLimit = 300

// Entry is one label/value line of the modal.
type Entry struct {
	Label     string
	Value     string
	Truncated bool
}

// Entries lists the record's fields in source order. The timestamp is
// shown formatted followed by its raw value.
func Entries(rec model.LogRecord, full bool) []Entry {
	fields := journal.FieldsOf(rec)
	out := make([]Entry, 0, len(fields))
	for _, f := range fields {
		e := Entry{Label: f.Name}
		switch {
		case f.Name == model.KeyTimestamp:
			e.Value = fmt.Sprintf("%s (%s)", render.FormatTimestamp(rec), f.Value)
		case f.Kind == model.KindNested:
			e.Value = indentJSON(f.Value)
		case f.Value == "":
			e.Value = render.Placeholder
		default:
			e.Value = f.Value
		}
		if !full {
			if r := []rune(e.Value); len(r) > TruncateLimit {
				e.Value = string(r[:TruncateLimit]) + "..."
				e.Truncated = true
			}
		}
		e.Value = Escape(e.Value)
		out = append(out, e)
	}
	return out
}

func indentJSON(s string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		return s
	}
	return buf.String()
}

// Escape replaces control characters other than newline and tab with
// their escaped form so that record text cannot drive the terminal.
func Escape(s string) string {
	if strings.IndexFunc(s, isUnsafe) < 0 {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if isUnsafe(r) {
			if r < 0x100 {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				fmt.Fprintf(&b, `\u%04x`, r)
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUnsafe(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t'
}

type Model struct {
	rec      *model.LogRecord
	full     bool
	viewport viewport.Model
	// area the modal is centred in, in terminal coordinates
	x, y          int
	width, height int
	ready         bool
}

func New() Model {
	return Model{}
}

// Open shows rec, truncated.
func (m *Model) Open(rec model.LogRecord) {
	m.rec = &rec
	m.full = false
	m.refresh()
	m.viewport.GotoTop()
}

func (m *Model) Close() {
	m.rec = nil
	m.full = false
}

func (m Model) IsOpen() bool { return m.rec != nil }

func (m Model) ShowingFull() bool { return m.full }

// SetArea sets the screen region the modal is centred in.
func (m *Model) SetArea(x, y, width, height int) {
	m.x, m.y = x, y
	m.width, m.height = width, height
	w, h := m.innerSize()
	if !m.ready {
		m.viewport = viewport.New(w, h)
		m.ready = true
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	m.refresh()
}

func (m Model) innerSize() (int, int) {
	// border(2) + padding(2)
	w := m.width*80/100 - 4
	if w > 120 {
		w = 120
	}
	if w < 20 {
		w = 20
	}
	// border(2) + title(1) + hints(1)
	h := m.height - 6
	if h < 3 {
		h = 3
	}
	return w, h
}

func (m *Model) refresh() {
	if !m.ready || m.rec == nil {
		return
	}
	m.viewport.SetContent(m.render())
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{ui.Keys.ShowFull, ui.Keys.Up, ui.Keys.Down, ui.Keys.Close}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.rec == nil {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ui.Keys.Close):
			return m, closeCmd
		case key.Matches(msg, ui.Keys.ShowFull):
			m.full = !m.full
			m.refresh()
			return m, nil
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if !m.Contains(msg.X, msg.Y) {
				return m, closeCmd
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func closeCmd() tea.Msg { return ui.CloseDetailMsg{} }

// Contains reports whether the terminal cell (x, y) lies on the modal box.
func (m Model) Contains(x, y int) bool {
	box := m.box()
	bw, bh := lipgloss.Width(box), lipgloss.Height(box)
	left := m.x + (m.width-bw)/2
	top := m.y + (m.height-bh)/2
	if m.width < bw {
		left = m.x
	}
	if m.height < bh {
		top = m.y
	}
	return x >= left && x < left+bw && y >= top && y < top+bh
}

func (m Model) render() string {
	if m.rec == nil {
		return ""
	}
	label := lipgloss.NewStyle().Foreground(ui.ColorMuted).Width(24)
	value := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB"))
	w, _ := m.innerSize()
	valueW := w - 24
	if valueW < 10 {
		valueW = 10
	}

	var b strings.Builder
	for _, e := range Entries(*m.rec, m.full) {
		v := value.Width(valueW).Render(e.Value)
		if e.Label == model.KeyPriority {
			d := model.Describe(m.rec.Priority)
			v = ui.PriorityStyle(d).Render(fmt.Sprintf("%s (%s)", e.Value, d.Label))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label.Render(e.Label), v) + "\n")
		if e.Truncated {
			b.WriteString(label.Render("") + ui.StyleInfo.Render("[f] show full") + "\n")
		}
	}
	return b.String()
}

func (m Model) box() string {
	title := "Log Details"
	if m.rec != nil && m.rec.Cursor != "" {
		cursor := m.rec.Cursor
		if len(cursor) > 24 {
			cursor = cursor[:24] + "..."
		}
		title += "  " + ui.StyleMuted.Render(cursor)
	}
	hints := "f: show full  j/k: scroll  esc: close"
	if m.full {
		hints = "f: truncate  j/k: scroll  esc: close"
	}
	w, _ := m.innerSize()

	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Render(title),
		m.viewport.View(),
		ui.StyleMuted.Render(hints),
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Padding(0, 1).
		Width(w + 2).
		Render(body)
}

func (m Model) View() string {
	if m.rec == nil {
		return ""
	}
	box := m.box()
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
