package sample

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ozgurozkan01/pyLog/internal/model"
)

func newSource(t *testing.T) *Source {
	t.Helper()
	s, err := New(func() time.Time { return time.UnixMicro(1678886540000000).Add(10 * time.Minute) })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestEmbeddedSample(t *testing.T) {
	s := newSource(t)
	if s.Len() != 9 {
		t.Fatalf("sample has %d records, want 9", s.Len())
	}
}

func TestListLogsSinglePage(t *testing.T) {
	s := newSource(t)
	tests := []struct {
		name   string
		filter model.FilterCriteria
		want   int
	}{
		{"no filter", model.FilterCriteria{}, 9},
		{"priority 3", model.FilterCriteria{Priority: "3"}, 2},
		{"identifier kernel", model.FilterCriteria{Identifier: "KERNEL"}, 3},
		{"hostname", model.FilterCriteria{Hostname: "server02"}, 2},
		{"message", model.FilterCriteria{Message: "ssh"}, 2},
		{"global search overrides fields", model.FilterCriteria{Priority: "7", GlobalSearch: "apache2"}, 1},
		{"no match", model.FilterCriteria{Hostname: "nowhere"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.ListLogs(context.Background(), model.LogsQuery{Page: 4, PerPage: 2, Filter: tt.filter})
			if err != nil {
				t.Fatalf("ListLogs: %v", err)
			}
			if len(page.Records) != tt.want {
				t.Errorf("got %d records, want %d", len(page.Records), tt.want)
			}
			if page.Page != 1 || page.TotalPages != 1 {
				t.Errorf("page = %d/%d, want 1/1", page.Page, page.TotalPages)
			}
		})
	}
}

func TestDashboard(t *testing.T) {
	s := newSource(t)
	data, err := s.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	// Priorities 3, 2 and 3 fall within the hour before the clock.
	if data.ErrorLogCount != 3 {
		t.Errorf("ErrorLogCount = %d, want 3", data.ErrorLogCount)
	}
	if len(data.LogIdentifiers) != 5 || data.LogIdentifiers[0].Identifier != "kernel" {
		t.Errorf("LogIdentifiers = %+v", data.LogIdentifiers)
	}
	if data.LogIdentifiers[1].Identifier != "sshd" {
		t.Errorf("second identifier = %s, want sshd", data.LogIdentifiers[1].Identifier)
	}
	if len(data.RecentBoots) != 2 || data.RecentBoots[0].BootID != "boot2" {
		t.Errorf("RecentBoots = %+v", data.RecentBoots)
	}
	if data.RecentBoots[1].Timestamp != 1678886460987654 {
		t.Errorf("boot1 first seen = %d", data.RecentBoots[1].Timestamp)
	}
}

func TestRecent(t *testing.T) {
	s := newSource(t)
	recs, err := s.Recent(context.Background(), 5)
	if err != nil || len(recs) != 5 {
		t.Fatalf("Recent = %d, %v", len(recs), err)
	}
	if recs[0].Identifier != "sshd" {
		t.Errorf("first recent record = %s", recs[0].Identifier)
	}
}

func TestFromReaderRejectsBadLine(t *testing.T) {
	_, err := FromReader(strings.NewReader("{\"MESSAGE\":\"ok\"}\n\nnope\n"), nil)
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("FromReader error = %v, want line 3 failure", err)
	}
}
