// Package render turns log records into display rows.
package render

import (
	"time"

	"github.com/ozgurozkan01/pyLog/internal/model"
)

const (
	Placeholder      = "-"
	InvalidTimestamp = "invalid"
	TimeLayout       = "2006-01-02 15:04:05"

	// Condensed rows cut messages longer than SnippetLimit runes down to
	// SnippetKeep runes plus an ellipsis.
	SnippetLimit = 70
	SnippetKeep  = 67

	// CondensedRows is how many records the dashboard table shows.
	CondensedRows = 5
)

// Location used for timestamp formatting. Tests pin it to UTC.
var Location = time.Local

type Row struct {
	Time       string
	Host       string
	Priority   model.PriorityDescriptor
	Identifier string
	PID        string
	Message    string
	Transport  string
	Cursor     string
}

// RenderRow builds the table row for rec. Condensed rows are used on the
// dashboard and shorten the message.
func RenderRow(rec model.LogRecord, condensed bool) Row {
	msg := rec.Message
	if condensed {
		msg = Snippet(msg)
	}
	return Row{
		Time:       FormatTimestamp(rec),
		Host:       orPlaceholder(rec.Hostname),
		Priority:   model.Describe(rec.Priority),
		Identifier: orPlaceholder(rec.DerivedIdentifier()),
		PID:        orPlaceholder(rec.PID),
		Message:    orPlaceholder(msg),
		Transport:  orPlaceholder(rec.Transport),
		Cursor:     rec.Cursor,
	}
}

// FormatTimestamp renders the record's microsecond timestamp. A missing
// timestamp gives Placeholder and one that cannot be interpreted gives
// InvalidTimestamp.
func FormatTimestamp(rec model.LogRecord) string {
	if rec.Timestamp == 0 {
		if rec.TimestampRaw == "" {
			return Placeholder
		}
		return InvalidTimestamp
	}
	return FormatMicros(rec.Timestamp)
}

func FormatMicros(us int64) string {
	if us <= 0 {
		return InvalidTimestamp
	}
	t := time.UnixMicro(us).In(Location)
	if t.Year() > 9999 {
		return InvalidTimestamp
	}
	return t.Format(TimeLayout)
}

// Snippet shortens s for condensed rows.
func Snippet(s string) string {
	r := []rune(s)
	if len(r) <= SnippetLimit {
		return s
	}
	return string(r[:SnippetKeep]) + "..."
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
