package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ozgurozkan01/pyLog/internal/journal"
	"github.com/ozgurozkan01/pyLog/internal/model"
)

// MaxPerPage caps the page size a caller may request.
const MaxPerPage = 100

const identExpr = `COALESCE(NULLIF(syslog_identifier, ''), NULLIF(comm, ''), NULLIF(systemd_unit, ''), 'unknown')`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func like(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// whereClause builds the shared WHERE clause for listing and counting.
func whereClause(f model.FilterCriteria) (string, []any, error) {
	f = f.Effective()
	var conds []string
	var args []any

	if f.GlobalSearch != "" {
		p := like(f.GlobalSearch)
		conds = append(conds, `(message LIKE ? ESCAPE '\' OR syslog_identifier LIKE ? ESCAPE '\' OR comm LIKE ? ESCAPE '\' OR systemd_unit LIKE ? ESCAPE '\' OR hostname LIKE ? ESCAPE '\' OR raw_log LIKE ? ESCAPE '\')`)
		args = append(args, p, p, p, p, p, p)
	}
	if f.Message != "" {
		conds = append(conds, `message LIKE ? ESCAPE '\'`)
		args = append(args, like(f.Message))
	}
	if f.Priority != "" {
		p, err := strconv.Atoi(strings.TrimSpace(f.Priority))
		if err != nil {
			return "", nil, fmt.Errorf("%w: priority %q is not a number", ErrInvalidQuery, f.Priority)
		}
		conds = append(conds, `priority = ?`)
		args = append(args, p)
	}
	if f.Identifier != "" {
		p := like(f.Identifier)
		conds = append(conds, `(syslog_identifier LIKE ? ESCAPE '\' OR comm LIKE ? ESCAPE '\' OR systemd_unit LIKE ? ESCAPE '\')`)
		args = append(args, p, p, p)
	}
	if f.Hostname != "" {
		conds = append(conds, `hostname LIKE ? ESCAPE '\'`)
		args = append(args, like(f.Hostname))
	}

	if len(conds) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

// ListLogs returns one page of entries matching q, newest first.
func (s *Store) ListLogs(ctx context.Context, q model.LogsQuery) (model.LogsPage, error) {
	if q.Page < 1 {
		return model.LogsPage{}, fmt.Errorf("%w: page must be at least 1", ErrInvalidQuery)
	}
	perPage := q.PerPage
	switch {
	case perPage < 1:
		perPage = model.PerPage
	case perPage > MaxPerPage:
		perPage = MaxPerPage
	}

	where, args, err := whereClause(q.Filter)
	if err != nil {
		return model.LogsPage{}, err
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM logs`+where, args...).Scan(&total); err != nil {
		return model.LogsPage{}, fmt.Errorf("count logs: %w", err)
	}

	query := `SELECT id, raw_log, source_ip FROM logs` + where + ` ORDER BY timestamp DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, perPage, (q.Page-1)*perPage)...)
	if err != nil {
		return model.LogsPage{}, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	page := model.LogsPage{
		Page:       q.Page,
		PerPage:    perPage,
		TotalLogs:  total,
		TotalPages: model.TotalPagesFor(total, perPage),
	}
	for rows.Next() {
		var (
			id       int64
			raw      string
			sourceIP string
		)
		if err := rows.Scan(&id, &raw, &sourceIP); err != nil {
			return model.LogsPage{}, fmt.Errorf("scan log: %w", err)
		}
		rec, err := journal.ParseLine([]byte(raw))
		if err != nil {
			s.logger.Warn("Stored entry has unreadable raw_log", zap.Int64("id", id), zap.Error(err))
			rec = model.LogRecord{Priority: model.DefaultPriority, Raw: raw}
		}
		rec.ID = id
		rec.SourceIP = sourceIP
		page.Records = append(page.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return model.LogsPage{}, fmt.Errorf("iterate logs: %w", err)
	}
	return page, nil
}

// Dashboard computes the dashboard summary relative to now.
func (s *Store) Dashboard(ctx context.Context, now time.Time) (model.DashboardData, error) {
	data := model.DashboardData{
		LogIdentifiers: []model.IdentifierCount{},
		LogsByPriority: []model.PriorityCount{},
		RecentBoots:    []model.BootInfo{},
	}

	cutoff := now.Add(-time.Hour).UnixMicro()
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM logs WHERE priority <= 3 AND timestamp >= ?`, cutoff,
	).Scan(&data.ErrorLogCount); err != nil {
		return data, fmt.Errorf("error count: %w", err)
	}

	err := s.each(ctx, func(rows *sql.Rows) error {
		var c model.IdentifierCount
		var first int64
		if err := rows.Scan(&c.Identifier, &c.Count, &first); err != nil {
			return err
		}
		data.LogIdentifiers = append(data.LogIdentifiers, c)
		return nil
	}, `SELECT `+identExpr+` AS ident, COUNT(*) AS n, MIN(id) AS first FROM logs
		GROUP BY ident ORDER BY n DESC, first ASC LIMIT 5`)
	if err != nil {
		return data, fmt.Errorf("top identifiers: %w", err)
	}

	err = s.each(ctx, func(rows *sql.Rows) error {
		var c model.PriorityCount
		if err := rows.Scan(&c.Priority, &c.Count); err != nil {
			return err
		}
		data.LogsByPriority = append(data.LogsByPriority, c)
		return nil
	}, `SELECT priority, COUNT(*) FROM logs GROUP BY priority ORDER BY priority ASC`)
	if err != nil {
		return data, fmt.Errorf("priority histogram: %w", err)
	}

	err = s.each(ctx, func(rows *sql.Rows) error {
		var b model.BootInfo
		if err := rows.Scan(&b.BootID, &b.Timestamp); err != nil {
			return err
		}
		data.RecentBoots = append(data.RecentBoots, b)
		return nil
	}, `SELECT boot_id, MIN(timestamp) AS first_seen FROM logs WHERE boot_id != ''
		GROUP BY boot_id ORDER BY first_seen DESC LIMIT 3`)
	if err != nil {
		return data, fmt.Errorf("recent boots: %w", err)
	}
	return data, nil
}

func (s *Store) each(ctx context.Context, scan func(*sql.Rows) error, query string, args ...any) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
