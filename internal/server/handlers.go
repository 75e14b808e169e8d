package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dgraph-io/ristretto"
	"go.uber.org/zap"

	"github.com/ozgurozkan01/pyLog/internal/journal"
	"github.com/ozgurozkan01/pyLog/internal/model"
	"github.com/ozgurozkan01/pyLog/internal/store"
)

// LogService is the storage the handlers read from.
type LogService interface {
	ListLogs(ctx context.Context, q model.LogsQuery) (model.LogsPage, error)
	Dashboard(ctx context.Context, now time.Time) (model.DashboardData, error)
}

type ErrorMessage struct {
	Error string `json:"error"`
}

func HttpError(w http.ResponseWriter, message string, statusCode int, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorMessage{Error: message}); err != nil {
		logger.Error("Failed to encode error message", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, v any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

type LogsResponse struct {
	Logs       []json.RawMessage `json:"logs"`
	TotalLogs  int               `json:"total_logs"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	TotalPages int               `json:"total_pages"`
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return n, nil
}

// ParseLogsQuery reads page, per_page and the filter parameters.
func ParseLogsQuery(r *http.Request) (model.LogsQuery, error) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		return model.LogsQuery{}, err
	}
	perPage, err := intParam(r, "per_page", model.PerPage)
	if err != nil {
		return model.LogsQuery{}, err
	}
	q := r.URL.Query()
	return model.LogsQuery{
		Page:    page,
		PerPage: perPage,
		Filter: model.FilterCriteria{
			Message:      q.Get("message"),
			Priority:     q.Get("priority"),
			Identifier:   q.Get("identifier"),
			Hostname:     q.Get("hostname"),
			GlobalSearch: q.Get("global_search"),
		},
	}, nil
}

func ListLogsHandler(svc LogService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := ParseLogsQuery(r)
		if err != nil {
			HttpError(w, err.Error(), http.StatusBadRequest, logger)
			return
		}

		page, err := svc.ListLogs(r.Context(), query)
		if err != nil {
			if errors.Is(err, store.ErrInvalidQuery) {
				HttpError(w, err.Error(), http.StatusBadRequest, logger)
				return
			}
			logger.Error("Failed to list logs", zap.Error(err), zap.String("request_id", RequestIDFrom(r.Context())))
			HttpError(w, "failed to list logs", http.StatusInternalServerError, logger)
			return
		}

		resp := LogsResponse{
			Logs:       make([]json.RawMessage, 0, len(page.Records)),
			TotalLogs:  page.TotalLogs,
			Page:       page.Page,
			PerPage:    page.PerPage,
			TotalPages: page.TotalPages,
		}
		for _, rec := range page.Records {
			extra := []model.Field{
				{Name: "id", Value: strconv.FormatInt(rec.ID, 10), Kind: model.KindNumber},
				{Name: "category", Value: rec.Category(), Kind: model.KindString},
			}
			if rec.SourceIP != "" {
				extra = append(extra, model.Field{Name: "source_ip", Value: rec.SourceIP, Kind: model.KindString})
			}
			resp.Logs = append(resp.Logs, journal.Marshal(rec, extra...))
		}
		writeJSON(w, resp, logger)
	}
}

const dashboardCacheKey = "dashboard"

// DashboardHandler serves the dashboard summary, caching it for ttl when
// a cache is given.
func DashboardHandler(svc LogService, cache *ristretto.Cache, ttl time.Duration, now func() time.Time, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cache != nil {
			if v, ok := cache.Get(dashboardCacheKey); ok {
				if data, ok := v.(model.DashboardData); ok {
					writeJSON(w, data, logger)
					return
				}
			}
		}

		data, err := svc.Dashboard(r.Context(), now())
		if err != nil {
			logger.Error("Failed to build dashboard data", zap.Error(err), zap.String("request_id", RequestIDFrom(r.Context())))
			HttpError(w, "failed to build dashboard data", http.StatusInternalServerError, logger)
			return
		}
		if cache != nil && ttl > 0 {
			cache.SetWithTTL(dashboardCacheKey, data, 1, ttl)
		}
		writeJSON(w, data, logger)
	}
}

func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}
