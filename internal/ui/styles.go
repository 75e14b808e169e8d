package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ozgurozkan01/pyLog/internal/model"
)

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
	ColorHighlight = lipgloss.Color("#1F2937")

	StylePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StylePaneFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleDisabled = lipgloss.NewStyle().Foreground(ColorBorder)
)

// PriorityStyle colors text with the descriptor's color.
func PriorityStyle(d model.PriorityDescriptor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(d.Color))
}

// PriorityBadge renders the descriptor label padded to a fixed width.
func PriorityBadge(d model.PriorityDescriptor) string {
	return PriorityStyle(d).Bold(true).Width(7).Render(d.Label)
}
