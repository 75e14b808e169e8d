package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozgurozkan01/pyLog/internal/model"
	"github.com/ozgurozkan01/pyLog/internal/sample"
)

func sampleRecords(t *testing.T) []model.LogRecord {
	t.Helper()
	src, err := sample.New(nil)
	require.NoError(t, err)
	recs, err := src.Recent(context.Background(), src.Len())
	require.NoError(t, err)
	return recs
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertDedupesOnCursor(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	recs := sampleRecords(t)

	n, err := s.Insert(ctx, recs)
	require.NoError(t, err)
	assert.Equal(t, 9, n)

	n, err = s.Insert(ctx, recs[:3])
	require.NoError(t, err)
	assert.Zero(t, n)

	total, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, total)

	last, err := s.LastCursor(ctx)
	require.NoError(t, err)
	assert.Equal(t, recs[8].Cursor, last)
}

func TestListLogs(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, sampleRecords(t)))

	t.Run("newest first with pagination", func(t *testing.T) {
		page, err := s.ListLogs(ctx, model.LogsQuery{Page: 1, PerPage: 4})
		require.NoError(t, err)
		assert.Equal(t, 9, page.TotalLogs)
		assert.Equal(t, 3, page.TotalPages)
		require.Len(t, page.Records, 4)
		assert.Equal(t, "apache2", page.Records[0].Identifier)
		assert.NotZero(t, page.Records[0].ID)

		last, err := s.ListLogs(ctx, model.LogsQuery{Page: 3, PerPage: 4})
		require.NoError(t, err)
		require.Len(t, last.Records, 1)
		assert.Equal(t, int64(1678886412123456), last.Records[0].Timestamp)
	})

	tests := []struct {
		name   string
		filter model.FilterCriteria
		want   int
	}{
		{"priority", model.FilterCriteria{Priority: "3"}, 2},
		{"identifier", model.FilterCriteria{Identifier: "kern"}, 3},
		{"identifier matches unit", model.FilterCriteria{Identifier: "user@1000"}, 1},
		{"hostname", model.FilterCriteria{Hostname: "server02"}, 2},
		{"message", model.FilterCriteria{Message: "ssh"}, 2},
		{"global search alone", model.FilterCriteria{Priority: "0", GlobalSearch: "server03"}, 1},
		{"like wildcards are literal", model.FilterCriteria{Message: "%"}, 0},
		{"combined", model.FilterCriteria{Hostname: "server01", Priority: "6"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.ListLogs(ctx, model.LogsQuery{Page: 1, PerPage: 20, Filter: tt.filter})
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.TotalLogs)
			assert.Len(t, page.Records, tt.want)
			assert.Equal(t, 1, page.TotalPages)
		})
	}

	t.Run("invalid priority", func(t *testing.T) {
		_, err := s.ListLogs(ctx, model.LogsQuery{Page: 1, Filter: model.FilterCriteria{Priority: "err"}})
		assert.ErrorIs(t, err, ErrInvalidQuery)
	})

	t.Run("per page is capped", func(t *testing.T) {
		page, err := s.ListLogs(ctx, model.LogsQuery{Page: 1, PerPage: 5000})
		require.NoError(t, err)
		assert.Equal(t, MaxPerPage, page.PerPage)
	})
}

func TestDashboard(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, sampleRecords(t)))

	now := time.UnixMicro(1678886540000000).Add(30 * time.Minute)
	data, err := s.Dashboard(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 3, data.ErrorLogCount)
	require.Len(t, data.LogIdentifiers, 5)
	assert.Equal(t, model.IdentifierCount{Identifier: "kernel", Count: 3}, data.LogIdentifiers[0])
	assert.Equal(t, model.IdentifierCount{Identifier: "sshd", Count: 2}, data.LogIdentifiers[1])
	assert.Equal(t, "systemd", data.LogIdentifiers[2].Identifier)

	require.NotEmpty(t, data.LogsByPriority)
	assert.Equal(t, 2, data.LogsByPriority[0].Priority)
	assert.Equal(t, 7, data.LogsByPriority[len(data.LogsByPriority)-1].Priority)

	require.Len(t, data.RecentBoots, 2)
	assert.Equal(t, "boot2", data.RecentBoots[0].BootID)
	assert.Equal(t, int64(1678886460987654), data.RecentBoots[1].Timestamp)

	later, err := s.Dashboard(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, later.ErrorLogCount)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "logs.sqlite3")
	s, err := Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	var recs []model.LogRecord
	for i := 0; i < 3; i++ {
		recs = append(recs, model.LogRecord{Cursor: fmt.Sprintf("c%d", i), Timestamp: int64(i + 1), Priority: 4, Comm: "bash"})
	}
	require.NoError(t, s.Write(context.Background(), recs))

	page, err := s.ListLogs(context.Background(), model.LogsQuery{Page: 1, Filter: model.FilterCriteria{Identifier: "bash"}})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalLogs)
	assert.Equal(t, "bash", page.Records[0].Comm)
}
