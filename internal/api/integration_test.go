package api

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ozgurozkan01/pyLog/internal/model"
)

// Runs against a live pylog-server at $PYLOG_URL (default http://127.0.0.1:5000).
func integrationClient(t *testing.T) *Client {
	t.Helper()
	if os.Getenv("PYLOG_INTEGRATION") == "" {
		t.Skip("Set PYLOG_INTEGRATION=1 to run integration tests")
	}
	base := os.Getenv("PYLOG_URL")
	if base == "" {
		base = "http://127.0.0.1:5000"
	}
	client, err := NewClient(base, os.Getenv("PYLOG_TOKEN"), 10*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	return client
}

func TestIntegrationListLogs(t *testing.T) {
	client := integrationClient(t)

	page, err := client.ListLogs(context.Background(), model.LogsQuery{Page: 1, PerPage: 5})
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if page.TotalPages < 1 {
		t.Errorf("total pages = %d, want >= 1", page.TotalPages)
	}

	t.Logf("Found %d total logs, got %d in page", page.TotalLogs, len(page.Records))
	for _, r := range page.Records {
		t.Logf("  [%d] %s: %s", r.Priority, r.Identifier, r.Message)
	}
}

func TestIntegrationDashboard(t *testing.T) {
	client := integrationClient(t)

	data, err := client.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	t.Logf("errors last hour: %d, identifiers: %d, boots: %d",
		data.ErrorLogCount, len(data.LogIdentifiers), len(data.RecentBoots))
}
