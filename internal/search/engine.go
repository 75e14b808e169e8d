// Package search matches log records against filter criteria in memory.
package search

import (
	"strconv"
	"strings"

	"github.com/ozgurozkan01/pyLog/internal/model"
)

// Filter returns the records matching criteria, keeping their order.
// Criteria are reduced to their effective form first, so a global search
// ignores the field filters.
func Filter(records []model.LogRecord, criteria model.FilterCriteria) []model.LogRecord {
	m := NewMatcher(criteria)
	matched := make([]model.LogRecord, 0, len(records))
	for _, r := range records {
		if m.Match(r) {
			matched = append(matched, r)
		}
	}
	return matched
}

type Matcher struct {
	criteria model.FilterCriteria
	message  func(string) bool
	ident    func(string) bool
	host     func(string) bool
	global   func(string) bool
}

func NewMatcher(criteria model.FilterCriteria) *Matcher {
	c := criteria.Effective()
	return &Matcher{
		criteria: c,
		message:  buildMatcher(c.Message),
		ident:    buildMatcher(c.Identifier),
		host:     buildMatcher(c.Hostname),
		global:   buildMatcher(c.GlobalSearch),
	}
}

func (m *Matcher) Match(r model.LogRecord) bool {
	c := m.criteria
	if c.GlobalSearch != "" {
		return m.matchAny(r)
	}
	if c.Message != "" && !m.message(r.Message) {
		return false
	}
	if c.Priority != "" && strings.TrimSpace(c.Priority) != strconv.Itoa(r.Priority) {
		return false
	}
	if c.Identifier != "" && !m.ident(r.Identifier) && !m.ident(r.Comm) && !m.ident(r.Unit) {
		return false
	}
	if c.Hostname != "" && !m.host(r.Hostname) {
		return false
	}
	return true
}

func (m *Matcher) matchAny(r model.LogRecord) bool {
	if len(r.Fields) == 0 {
		for _, v := range []string{r.Message, r.Identifier, r.Comm, r.Unit, r.Hostname, r.Cursor, r.Transport, r.BootID} {
			if m.global(v) {
				return true
			}
		}
		return false
	}
	for _, f := range r.Fields {
		if m.global(f.Value) {
			return true
		}
	}
	return false
}

// buildMatcher returns a case-insensitive substring matcher. The pattern
// is always literal, as in the store's LIKE filters.
func buildMatcher(pattern string) func(string) bool {
	pattern = strings.ToLower(pattern)
	return func(s string) bool {
		return strings.Contains(strings.ToLower(s), pattern)
	}
}
