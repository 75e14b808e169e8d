package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ozgurozkan01/pyLog/internal/journal"
	"github.com/ozgurozkan01/pyLog/internal/model"
)

// QueryString encodes q for GET /api/logs. Only the effective filters are
// sent, so a global search travels without the field filters.
func QueryString(q model.LogsQuery) string {
	v := url.Values{}
	f := q.Filter.Effective()
	if f.GlobalSearch != "" {
		v.Set("global_search", f.GlobalSearch)
	}
	if f.Message != "" {
		v.Set("message", f.Message)
	}
	if f.Priority != "" {
		v.Set("priority", f.Priority)
	}
	if f.Identifier != "" {
		v.Set("identifier", f.Identifier)
	}
	if f.Hostname != "" {
		v.Set("hostname", f.Hostname)
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	} else {
		v.Set("per_page", strconv.Itoa(model.PerPage))
	}
	return "?" + v.Encode()
}

type logsResponse struct {
	Logs       []json.RawMessage `json:"logs"`
	TotalLogs  int               `json:"total_logs"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	TotalPages int               `json:"total_pages"`
}

func (c *Client) ListLogs(ctx context.Context, q model.LogsQuery) (model.LogsPage, error) {
	var resp logsResponse
	if err := c.Get(ctx, "api/logs"+QueryString(q), &resp); err != nil {
		return model.LogsPage{}, fmt.Errorf("list logs: %w", err)
	}

	page := model.LogsPage{
		Page:       resp.Page,
		PerPage:    resp.PerPage,
		TotalLogs:  resp.TotalLogs,
		TotalPages: resp.TotalPages,
		Records:    make([]model.LogRecord, 0, len(resp.Logs)),
	}
	if page.Page < 1 {
		page.Page = 1
	}
	if page.TotalPages < 1 {
		page.TotalPages = 1
	}
	for i, raw := range resp.Logs {
		rec, err := journal.ParseLine(raw)
		if err != nil {
			return model.LogsPage{}, fmt.Errorf("list logs: entry %d: %w", i, err)
		}
		page.Records = append(page.Records, rec)
	}
	return page, nil
}

// Recent returns the n newest entries.
func (c *Client) Recent(ctx context.Context, n int) ([]model.LogRecord, error) {
	page, err := c.ListLogs(ctx, model.LogsQuery{Page: 1, PerPage: n})
	if err != nil {
		return nil, err
	}
	return page.Records, nil
}

func (c *Client) Dashboard(ctx context.Context) (model.DashboardData, error) {
	var data model.DashboardData
	if err := c.Get(ctx, "api/dashboard-data", &data); err != nil {
		return model.DashboardData{}, fmt.Errorf("dashboard data: %w", err)
	}
	return data, nil
}
