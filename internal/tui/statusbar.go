package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ozgurozkan01/pyLog/internal/ui"
)

// RenderStatusBar draws the status text, prefixed with a spinner glyph
// while a request is in flight, and the key hints on the right.
func RenderStatusBar(status, hints string, loading bool, width int) string {
	statusStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	if strings.HasPrefix(status, "Error") {
		statusStyle = statusStyle.Foreground(ui.ColorFailure)
	}
	prefix := "  "
	if loading {
		prefix = ui.StyleInfo.Render(" ~")
	}
	left := prefix + " " + statusStyle.Render(status)

	help := lipgloss.NewStyle().Foreground(ui.ColorMuted).Render(hints + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(help)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#111827")).
		Width(width).
		Render(left + padding + help)
}
