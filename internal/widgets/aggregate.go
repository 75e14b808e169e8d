// Package widgets computes the dashboard summaries from a set of log
// records and keeps the rendered charts.
package widgets

import (
	"sort"
	"time"

	"github.com/ozgurozkan01/pyLog/internal/model"
)

const (
	ErrorWindow        = time.Hour
	ErrorPriorityMax   = 3
	TopIdentifierCount = 5
	RecentBootCount    = 3
	UnknownIdentifier  = "unknown"
)

// ErrorCount counts records with priority ERR or worse whose timestamp is
// within ErrorWindow of now.
func ErrorCount(records []model.LogRecord, now time.Time) int {
	cutoff := now.Add(-ErrorWindow).UnixMicro()
	n := 0
	for _, r := range records {
		if r.Priority <= ErrorPriorityMax && r.Timestamp > 0 && r.Timestamp >= cutoff {
			n++
		}
	}
	return n
}

// CountIdentifiers groups records by derived identifier. Groups appear in
// the order their identifier was first seen.
func CountIdentifiers(records []model.LogRecord) []model.IdentifierCount {
	idx := make(map[string]int)
	var out []model.IdentifierCount
	for _, r := range records {
		id := r.DerivedIdentifier()
		if id == "" {
			id = UnknownIdentifier
		}
		i, ok := idx[id]
		if !ok {
			i = len(out)
			idx[id] = i
			out = append(out, model.IdentifierCount{Identifier: id})
		}
		out[i].Count++
	}
	return out
}

// TopIdentifiers returns the n most frequent identifiers. Equal counts keep
// first-seen order.
func TopIdentifiers(records []model.LogRecord, n int) []model.IdentifierCount {
	counts := CountIdentifiers(records)
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// PriorityHistogram counts records per priority, ascending by priority.
func PriorityHistogram(records []model.LogRecord) []model.PriorityCount {
	m := make(map[int]int)
	for _, r := range records {
		m[r.Priority]++
	}
	out := make([]model.PriorityCount, 0, len(m))
	for p, c := range m {
		out = append(out, model.PriorityCount{Priority: p, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// RecentBoots returns the last n distinct boot ids by first appearance,
// most recent first. Each carries the timestamp of its first record.
func RecentBoots(records []model.LogRecord, n int) []model.BootInfo {
	seen := make(map[string]bool)
	var boots []model.BootInfo
	for _, r := range records {
		if r.BootID == "" || seen[r.BootID] {
			continue
		}
		seen[r.BootID] = true
		boots = append(boots, model.BootInfo{BootID: r.BootID, Timestamp: r.Timestamp})
	}
	if len(boots) > n {
		boots = boots[len(boots)-n:]
	}
	for i, j := 0, len(boots)-1; i < j; i, j = i+1, j-1 {
		boots[i], boots[j] = boots[j], boots[i]
	}
	return boots
}

// Compute builds the whole dashboard summary from records.
func Compute(records []model.LogRecord, now time.Time) model.DashboardData {
	return model.DashboardData{
		ErrorLogCount:  ErrorCount(records, now),
		LogIdentifiers: TopIdentifiers(records, TopIdentifierCount),
		LogsByPriority: PriorityHistogram(records),
		RecentBoots:    RecentBoots(records, RecentBootCount),
	}
}
