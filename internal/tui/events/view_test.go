package events

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ozgurozkan01/pyLog/internal/model"
	"github.com/ozgurozkan01/pyLog/internal/ui"
)

func records(n int) []model.LogRecord {
	recs := make([]model.LogRecord, n)
	for i := range recs {
		recs[i] = model.LogRecord{
			Cursor:     string(rune('a' + i)),
			Hostname:   "host",
			Priority:   6,
			Identifier: "sshd",
			Message:    "message",
		}
	}
	return recs
}

func TestSetPageShowsRowsAndFooter(t *testing.T) {
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 20})
	m.SetPage(model.LogsPage{Records: records(3), Page: 1, TotalPages: 4, TotalLogs: 70})

	view := m.View()
	if !strings.Contains(view, "sshd") {
		t.Errorf("view should contain the identifier column:\n%s", view)
	}
	if !strings.Contains(view, "Page 1 of 4") {
		t.Errorf("view should contain the page indicator:\n%s", view)
	}
	if m.Pages().CanPrev() {
		t.Error("prev should be disabled on page 1")
	}
	if !m.Pages().CanNext() {
		t.Error("next should be enabled on page 1 of 4")
	}
}

func TestLastPageDisablesNext(t *testing.T) {
	m := New()
	m.SetPage(model.LogsPage{Records: records(1), Page: 4, TotalPages: 4})
	if m.Pages().CanNext() {
		t.Error("next should be disabled on the last page")
	}
	if !m.Pages().CanPrev() {
		t.Error("prev should be enabled on page 4")
	}
}

func TestEnterOpensDetail(t *testing.T) {
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 20})
	m.SetPage(model.LogsPage{Records: records(3), Page: 1, TotalPages: 1})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command after enter")
	}
	msg, ok := cmd().(ui.OpenDetailMsg)
	if !ok {
		t.Fatalf("expected OpenDetailMsg, got %T", cmd())
	}
	if msg.Record.Cursor != "b" {
		t.Errorf("opened cursor %q, want b", msg.Record.Cursor)
	}
}

func TestErrorAndEmptyPlaceholders(t *testing.T) {
	m := New()
	m.SetError(errors.New("HTTP 500"))
	if !strings.Contains(m.View(), "Error loading logs: HTTP 500") {
		t.Errorf("error placeholder missing:\n%s", m.View())
	}

	m.SetPage(model.LogsPage{Page: 1, TotalPages: 1})
	if !strings.Contains(m.View(), "No logs found.") {
		t.Errorf("empty placeholder missing:\n%s", m.View())
	}
}

func TestLKeyDoesNotPageList(t *testing.T) {
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 6})
	m.SetPage(model.LogsPage{Records: records(12), Page: 1, TotalPages: 3})

	initial := m.list.Paginator.Page
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	if m.list.Paginator.Page != initial {
		t.Errorf("pressing 'l' should not change the list page: was %d, now %d", initial, m.list.Paginator.Page)
	}
}
