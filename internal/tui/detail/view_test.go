package detail

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ozgurozkan01/pyLog/internal/journal"
	"github.com/ozgurozkan01/pyLog/internal/model"
	"github.com/ozgurozkan01/pyLog/internal/render"
	"github.com/ozgurozkan01/pyLog/internal/ui"
)

func parse(t *testing.T, line string) model.LogRecord {
	t.Helper()
	rec, err := journal.ParseLine([]byte(line))
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	return rec
}

func entry(entries []Entry, label string) (Entry, bool) {
	for _, e := range entries {
		if e.Label == label {
			return e, true
		}
	}
	return Entry{}, false
}

func TestEntriesTimestampShownTwice(t *testing.T) {
	prev := render.Location
	render.Location = time.UTC
	defer func() { render.Location = prev }()

	rec := parse(t, `{"__CURSOR":"c1","__REALTIME_TIMESTAMP":"1678886412123456","MESSAGE":"hi","_HOSTNAME":""}`)
	entries := Entries(rec, false)

	ts, ok := entry(entries, model.KeyTimestamp)
	if !ok {
		t.Fatal("timestamp entry missing")
	}
	if want := "2023-03-15 13:20:12 (1678886412123456)"; ts.Value != want {
		t.Errorf("timestamp = %q, want %q", ts.Value, want)
	}
	if host, _ := entry(entries, model.KeyHostname); host.Value != "-" {
		t.Errorf("empty hostname = %q, want -", host.Value)
	}
	if entries[0].Label != model.KeyCursor {
		t.Errorf("first entry = %q, want fields in source order", entries[0].Label)
	}
}

func TestEntriesTruncateLongValues(t *testing.T) {
	long := strings.Repeat("x", TruncateLimit+50)
	rec := model.LogRecord{Message: long}

	msg, _ := entry(Entries(rec, false), model.KeyMessage)
	if !msg.Truncated {
		t.Error("long message should be truncated")
	}
	if want := strings.Repeat("x", TruncateLimit) + "..."; msg.Value != want {
		t.Errorf("truncated length = %d, want %d", len(msg.Value), len(want))
	}

	msg, _ = entry(Entries(rec, true), model.KeyMessage)
	if msg.Truncated || msg.Value != long {
		t.Error("full mode should show the whole message")
	}
}

func TestEntriesNestedAndEscaped(t *testing.T) {
	rec := parse(t, `{"MESSAGE":"bell\u0007 and \u001b[31mred","EXTRA":{"a":1,"b":[true]}}`)
	entries := Entries(rec, true)

	msg, _ := entry(entries, model.KeyMessage)
	if want := `bell\x07 and \x1b[31mred`; msg.Value != want {
		t.Errorf("message = %q, want %q", msg.Value, want)
	}

	extra, _ := entry(entries, "EXTRA")
	want := "{\n  \"a\": 1,\n  \"b\": [\n    true\n  ]\n}"
	if extra.Value != want {
		t.Errorf("nested = %q, want %q", extra.Value, want)
	}
}

func TestEscapeKeepsNewlinesAndTabs(t *testing.T) {
	if got := Escape("a\tb\nc"); got != "a\tb\nc" {
		t.Errorf("Escape() = %q", got)
	}
}

func openModel(t *testing.T) Model {
	t.Helper()
	m := New()
	m.SetArea(0, 2, 100, 30)
	m.Open(model.LogRecord{Cursor: "c1", Message: strings.Repeat("y", 400)})
	return m
}

func TestShowFullToggles(t *testing.T) {
	m := openModel(t)
	if m.ShowingFull() {
		t.Fatal("modal should open truncated")
	}
	if !strings.Contains(m.View(), "[f] show full") {
		t.Error("truncated view should offer show full")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	if !m.ShowingFull() {
		t.Error("f should switch to the full text")
	}
}

func TestCloseKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyEscape},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyRunes, Runes: []rune{'x'}},
	} {
		m := openModel(t)
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s: expected close command", k.String())
		}
		if _, ok := cmd().(ui.CloseDetailMsg); !ok {
			t.Errorf("%s: expected CloseDetailMsg", k.String())
		}
	}
}

func TestClickOutsideCloses(t *testing.T) {
	m := openModel(t)

	_, cmd := m.Update(tea.MouseMsg{X: 1, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if cmd == nil {
		t.Fatal("click outside should close")
	}
	if _, ok := cmd().(ui.CloseDetailMsg); !ok {
		t.Error("expected CloseDetailMsg for click outside")
	}
}

func TestClickInsideKeepsOpen(t *testing.T) {
	m := openModel(t)
	if !m.Contains(50, 17) {
		t.Fatal("centre of the area should be inside the box")
	}
	_, cmd := m.Update(tea.MouseMsg{X: 50, Y: 17, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if cmd != nil {
		if _, ok := cmd().(ui.CloseDetailMsg); ok {
			t.Error("click inside must not close the modal")
		}
	}
}
