package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ozgurozkan01/pyLog/internal/model"
	"github.com/ozgurozkan01/pyLog/internal/render"
)

const (
	ChartIdentifiers = "identifiers"
	ChartPriorities  = "priorities"

	barMaxLen  = 20
	ringMaxLen = 40
	nameMaxLen = 24
)

// Chart is a rendered summary widget. Dispose releases it; a disposed
// chart renders nothing.
type Chart interface {
	Render(width int) string
	Dispose()
}

type Slice struct {
	Label string
	Value int
	Color string
}

// BarChart draws one horizontal bar per slice, scaled to the largest value.
type BarChart struct {
	Slices   []Slice
	disposed bool
}

func NewBarChart(slices []Slice) *BarChart {
	return &BarChart{Slices: slices}
}

func (c *BarChart) Dispose() { c.disposed = true }

func (c *BarChart) Disposed() bool { return c.disposed }

func (c *BarChart) Render(width int) string {
	if c.disposed {
		return ""
	}
	if len(c.Slices) == 0 {
		return "  No data"
	}
	maxVal := 0
	for _, s := range c.Slices {
		if s.Value > maxVal {
			maxVal = s.Value
		}
	}
	barLen := barMaxLen
	if width > 0 && width-nameMaxLen-12 < barLen {
		barLen = max(width-nameMaxLen-12, 5)
	}

	var b strings.Builder
	for _, s := range c.Slices {
		name := fitLabel(s.Label, nameMaxLen)
		n := 1
		if maxVal > 0 {
			n = max(s.Value*barLen/maxVal, 1)
		}
		bar := strings.Repeat("█", n) + strings.Repeat("░", barLen-n)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color))
		fmt.Fprintf(&b, "  %s %s %d\n", name, style.Render(bar), s.Value)
	}
	return strings.TrimRight(b.String(), "\n")
}

// fitLabel cuts s to n display cells, ending in "..." when shortened, and
// pads it to exactly n cells.
func fitLabel(s string, n int) string {
	if lipgloss.Width(s) > n {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+3 > n {
			r = r[:len(r)-1]
		}
		s = string(r) + "..."
	}
	return s + strings.Repeat(" ", max(n-lipgloss.Width(s), 0))
}

// RingChart is a doughnut chart flattened into one proportional strip with
// a legend of "LABEL (count)" entries.
type RingChart struct {
	Slices   []Slice
	disposed bool
}

func NewRingChart(slices []Slice) *RingChart {
	return &RingChart{Slices: slices}
}

func (c *RingChart) Dispose() { c.disposed = true }

func (c *RingChart) Disposed() bool { return c.disposed }

func (c *RingChart) Render(width int) string {
	if c.disposed {
		return ""
	}
	total := 0
	for _, s := range c.Slices {
		total += s.Value
	}
	if total == 0 {
		return "  No data"
	}
	ringLen := ringMaxLen
	if width > 0 && width-4 < ringLen {
		ringLen = max(width-4, len(c.Slices))
	}

	var strip strings.Builder
	var legend []string
	used := 0
	for i, s := range c.Slices {
		n := s.Value * ringLen / total
		if s.Value > 0 && n == 0 {
			n = 1
		}
		if i == len(c.Slices)-1 {
			n = max(ringLen-used, 0)
		}
		used += n
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color))
		strip.WriteString(style.Render(strings.Repeat("█", n)))
		legend = append(legend, style.Render("●")+" "+LegendLabel(s))
	}
	return "  " + strip.String() + "\n  " + strings.Join(legend, "  ")
}

// LegendLabel formats a slice for a chart legend.
func LegendLabel(s Slice) string {
	return fmt.Sprintf("%s (%d)", s.Label, s.Value)
}

func IdentifierSlices(counts []model.IdentifierCount) []Slice {
	out := make([]Slice, 0, len(counts))
	for _, c := range counts {
		out = append(out, Slice{Label: c.Identifier, Value: c.Count, Color: "#7C3AED"})
	}
	return out
}

func PrioritySlices(counts []model.PriorityCount) []Slice {
	out := make([]Slice, 0, len(counts))
	for _, c := range counts {
		d := model.Describe(c.Priority)
		out = append(out, Slice{Label: d.Label, Value: c.Count, Color: d.Color})
	}
	return out
}

const NoBootData = "No boot data with _BOOT_ID found."

// BootLines renders the recent boots list.
func BootLines(boots []model.BootInfo) []string {
	if len(boots) == 0 {
		return []string{NoBootData}
	}
	lines := make([]string, 0, len(boots))
	for _, b := range boots {
		id := b.BootID
		if len(id) > 8 {
			id = id[:8]
		}
		since := render.Placeholder
		if b.Timestamp != 0 {
			since = render.FormatMicros(b.Timestamp)
		}
		lines = append(lines, fmt.Sprintf("Boot ID: %s... (since %s)", id, since))
	}
	return lines
}
