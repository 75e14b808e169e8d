package tui

import (
	"net/url"
	"strings"
)

type Section int

const (
	SectionDashboard Section = iota
	SectionEvents
)

func (s Section) String() string {
	switch s {
	case SectionEvents:
		return "events"
	default:
		return "dashboard"
	}
}

// ParseSection maps a section name to a Section. Unknown names report false.
func ParseSection(name string) (Section, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dashboard":
		return SectionDashboard, true
	case "events":
		return SectionEvents, true
	}
	return SectionDashboard, false
}

// InitialSection picks the section to open with. An explicit flag value
// wins over the section query parameter of rawURL; anything unknown opens
// the dashboard.
func InitialSection(flagValue, rawURL string) Section {
	if s, ok := ParseSection(flagValue); ok {
		return s
	}
	if rawURL == "" {
		return SectionDashboard
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return SectionDashboard
	}
	s, _ := ParseSection(u.Query().Get("section"))
	return s
}
