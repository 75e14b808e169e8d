package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ozgurozkan01/pyLog/internal/ui"
)

// RenderHeader shows the data source on the left and its mode on the right.
func RenderHeader(target, mode string, width int) string {
	left := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(fmt.Sprintf(" pyLog | %s", target))

	color := ui.ColorSuccess
	if mode == "local" {
		color = ui.ColorWarning
	}
	right := lipgloss.NewStyle().Foreground(color).Render(mode + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#1F2937")).
		Width(width).
		Render(left + padding + right)
}
