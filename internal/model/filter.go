package model

import "strings"

// FilterCriteria are the user-supplied log filters. Priority is kept as
// text because it is matched exactly against the stored value.
type FilterCriteria struct {
	Message      string
	Priority     string
	Identifier   string
	Hostname     string
	GlobalSearch string
}

func (f FilterCriteria) IsEmpty() bool {
	return f.Message == "" && f.Priority == "" && f.Identifier == "" &&
		f.Hostname == "" && f.GlobalSearch == ""
}

// Effective returns the criteria that are actually sent to a source.
// A global search replaces the field filters instead of combining with them.
func (f FilterCriteria) Effective() FilterCriteria {
	if f.GlobalSearch != "" {
		return FilterCriteria{GlobalSearch: f.GlobalSearch}
	}
	return f
}

func (f FilterCriteria) Summary() string {
	f = f.Effective()
	var parts []string
	if f.GlobalSearch != "" {
		parts = append(parts, "search:"+f.GlobalSearch)
	}
	if f.Priority != "" {
		parts = append(parts, "priority:"+f.Priority)
	}
	if f.Identifier != "" {
		parts = append(parts, "ident:"+f.Identifier)
	}
	if f.Hostname != "" {
		parts = append(parts, "host:"+f.Hostname)
	}
	if f.Message != "" {
		parts = append(parts, "msg:"+f.Message)
	}
	return strings.Join(parts, " ")
}
