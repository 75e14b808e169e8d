// Package sample is the local data source: an in-memory set of journal
// entries that is filtered client side and returned as one unpaged page.
package sample

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"time"

	"github.com/ozgurozkan01/pyLog/internal/journal"
	"github.com/ozgurozkan01/pyLog/internal/model"
	"github.com/ozgurozkan01/pyLog/internal/search"
	"github.com/ozgurozkan01/pyLog/internal/widgets"
)

//go:embed sample.jsonl
var embedded []byte

type Source struct {
	records []model.LogRecord
	now     func() time.Time
}

// New returns a source over the bundled sample entries.
func New(now func() time.Time) (*Source, error) {
	return FromReader(bytes.NewReader(embedded), now)
}

// FromReader loads JSON lines from r. Blank lines are skipped; any other
// unparsable line is an error.
func FromReader(r io.Reader, now func() time.Time) (*Source, error) {
	if now == nil {
		now = time.Now
	}
	s := &Source{now: now}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		rec, err := journal.ParseLine(b)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		s.records = append(s.records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read sample: %w", err)
	}
	return s, nil
}

func (s *Source) Name() string { return "local" }

func (s *Source) Len() int { return len(s.records) }

// ListLogs filters every record and returns the matches as a single page.
// The requested page and page size are ignored.
func (s *Source) ListLogs(ctx context.Context, q model.LogsQuery) (model.LogsPage, error) {
	if err := ctx.Err(); err != nil {
		return model.LogsPage{}, err
	}
	matched := search.Filter(s.records, q.Filter)
	return model.LogsPage{
		Records:    matched,
		Page:       1,
		PerPage:    len(matched),
		TotalPages: 1,
		TotalLogs:  len(matched),
	}, nil
}

func (s *Source) Dashboard(ctx context.Context) (model.DashboardData, error) {
	if err := ctx.Err(); err != nil {
		return model.DashboardData{}, err
	}
	return widgets.Compute(s.records, s.now()), nil
}

// Recent returns the first n records in dataset order.
func (s *Source) Recent(ctx context.Context, n int) ([]model.LogRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n > len(s.records) {
		n = len(s.records)
	}
	return s.records[:n], nil
}
