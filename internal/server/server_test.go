package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ozgurozkan01/pyLog/internal/config"
	"github.com/ozgurozkan01/pyLog/internal/model"
	"github.com/ozgurozkan01/pyLog/internal/sample"
	"github.com/ozgurozkan01/pyLog/internal/store"
)

func newTestServer(t *testing.T, tokenHash string) http.Handler {
	t.Helper()
	st, err := store.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	src, err := sample.New(nil)
	require.NoError(t, err)
	recs, err := src.Recent(context.Background(), src.Len())
	require.NoError(t, err)
	require.NoError(t, st.Write(context.Background(), recs))

	srv, err := New(config.ServerConfig{
		Addr:              ":0",
		APITokenHash:      tokenHash,
		RequestTimeout:    5 * time.Second,
		DashboardCacheTTL: time.Minute,
	}, st, nil)
	require.NoError(t, err)
	return srv.Handler()
}

func get(t *testing.T, h http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListLogs(t *testing.T) {
	h := newTestServer(t, "")

	rec := get(t, h, "/api/logs?page=2&per_page=4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var body struct {
		Logs       []map[string]any `json:"logs"`
		TotalLogs  int              `json:"total_logs"`
		Page       int              `json:"page"`
		PerPage    int              `json:"per_page"`
		TotalPages int              `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 9, body.TotalLogs)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 4, body.PerPage)
	assert.Equal(t, 3, body.TotalPages)
	require.Len(t, body.Logs, 4)
	assert.Contains(t, body.Logs[0], "id")
	assert.Contains(t, body.Logs[0], "category")
	assert.Contains(t, body.Logs[0], model.KeyCursor)
}

func TestListLogsFilters(t *testing.T) {
	h := newTestServer(t, "")

	tests := []struct {
		name   string
		target string
		code   int
		total  int
	}{
		{"priority", "/api/logs?priority=3", http.StatusOK, 2},
		{"global search wins", "/api/logs?priority=0&global_search=apache2", http.StatusOK, 1},
		{"identifier", "/api/logs?identifier=sshd", http.StatusOK, 2},
		{"bad page", "/api/logs?page=zero", http.StatusBadRequest, 0},
		{"bad per_page", "/api/logs?per_page=-3", http.StatusBadRequest, 0},
		{"bad priority", "/api/logs?priority=loud", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target, nil)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.code != http.StatusOK {
				var e ErrorMessage
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
				assert.NotEmpty(t, e.Error)
				return
			}
			var body LogsResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.total, body.TotalLogs)
		})
	}
}

func TestDashboardData(t *testing.T) {
	h := newTestServer(t, "")

	rec := get(t, h, "/api/dashboard-data", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data model.DashboardData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	require.Len(t, data.LogIdentifiers, 5)
	assert.Equal(t, "kernel", data.LogIdentifiers[0].Identifier)
	require.Len(t, data.RecentBoots, 2)
	assert.Equal(t, "boot2", data.RecentBoots[0].BootID)
}

type countingService struct {
	calls int
}

func (c *countingService) ListLogs(context.Context, model.LogsQuery) (model.LogsPage, error) {
	return model.LogsPage{Page: 1, TotalPages: 1}, nil
}

func (c *countingService) Dashboard(context.Context, time.Time) (model.DashboardData, error) {
	c.calls++
	return model.DashboardData{ErrorLogCount: c.calls}, nil
}

func TestDashboardHandlerCaches(t *testing.T) {
	cache, err := NewCache()
	require.NoError(t, err)
	defer cache.Close()

	svc := &countingService{}
	h := DashboardHandler(svc, cache, time.Minute, time.Now, nopLogger())

	get(t, h, "/api/dashboard-data", nil)
	cache.Wait()
	rec := get(t, h, "/api/dashboard-data", nil)

	var data model.DashboardData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, 1, data.ErrorLogCount)
}

func TestAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	h := newTestServer(t, string(hash))

	tests := []struct {
		name   string
		target string
		header http.Header
		code   int
	}{
		{"missing", "/api/logs", nil, http.StatusUnauthorized},
		{"wrong", "/api/logs", http.Header{"Authorization": {"Bearer nope"}}, http.StatusUnauthorized},
		{"bearer", "/api/logs", http.Header{"Authorization": {"Bearer s3cret"}}, http.StatusOK},
		{"token scheme", "/api/dashboard-data", http.Header{"Authorization": {"token s3cret"}}, http.StatusOK},
		{"query", "/api/logs?token=s3cret", nil, http.StatusOK},
		{"health is open", "/health", nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target, tt.header)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestHashToken(t *testing.T) {
	hash, err := HashToken("abc")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("abc")))
}

func nopLogger() *zap.Logger { return zap.NewNop() }
