package model

import (
	"fmt"
	"strings"
)

type PriorityDescriptor struct {
	Value int
	Label string
	Class string
	Color string
}

const FallbackPriorityColor = "#cccccc"

var priorities = [...]PriorityDescriptor{
	{0, "EMERG", "priority-emerg", "#B91C1C"},
	{1, "ALERT", "priority-alert", "#DC2626"},
	{2, "CRIT", "priority-crit", "#EF4444"},
	{3, "ERR", "priority-err", "#F97316"},
	{4, "WARNING", "priority-warning", "#F59E0B"},
	{5, "NOTICE", "priority-notice", "#3B82F6"},
	{6, "INFO", "priority-info", "#10B981"},
	{7, "DEBUG", "priority-debug", "#6B7280"},
}

// Describe maps a syslog priority to its label and colors. Values outside
// 0..7 get a generic "P<n>" label.
func Describe(p int) PriorityDescriptor {
	if p >= 0 && p < len(priorities) {
		return priorities[p]
	}
	return PriorityDescriptor{
		Value: p,
		Label: fmt.Sprintf("P%d", p),
		Color: FallbackPriorityColor,
	}
}

// PriorityByName resolves a lowercase journal priority name such as "err"
// or "warning" to its numeric value.
func PriorityByName(name string) (int, bool) {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "priority-")
	for _, d := range priorities {
		if strings.TrimPrefix(d.Class, "priority-") == name {
			return d.Value, true
		}
	}
	return 0, false
}
