// Package store persists journal entries in SQLite and answers the
// queries behind the API server.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/ozgurozkan01/pyLog/internal/journal"
	"github.com/ozgurozkan01/pyLog/internal/model"
)

var ErrInvalidQuery = errors.New("invalid query")

const schema = `
CREATE TABLE IF NOT EXISTS logs (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	cursor            TEXT UNIQUE,
	timestamp         INTEGER NOT NULL DEFAULT 0,
	hostname          TEXT NOT NULL DEFAULT '',
	syslog_identifier TEXT NOT NULL DEFAULT '',
	comm              TEXT NOT NULL DEFAULT '',
	systemd_unit      TEXT NOT NULL DEFAULT '',
	pid               TEXT NOT NULL DEFAULT '',
	uid               INTEGER,
	gid               INTEGER,
	message           TEXT NOT NULL DEFAULT '',
	facility          INTEGER,
	priority          INTEGER NOT NULL DEFAULT 6,
	transport         TEXT NOT NULL DEFAULT '',
	boot_id           TEXT NOT NULL DEFAULT '',
	source_ip         TEXT NOT NULL DEFAULT '',
	raw_log           TEXT NOT NULL DEFAULT '',
	category          TEXT NOT NULL DEFAULT 'INFO'
);
CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON logs(timestamp);
CREATE INDEX IF NOT EXISTS idx_logs_priority ON logs(priority);
CREATE INDEX IF NOT EXISTS idx_logs_boot_id ON logs(boot_id);
`

const insertSQL = `INSERT OR IGNORE INTO logs (
	cursor, timestamp, hostname, syslog_identifier, comm, systemd_unit, pid, uid, gid,
	message, facility, priority, transport, boot_id, source_ip, raw_log, category
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection serializes writers and keeps :memory: databases
	// shared across queries.
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			logger.Warn("Failed to enable WAL mode", zap.Error(err))
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	logger.Info("Log store ready", zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Write stores records, skipping any whose cursor is already present.
func (s *Store) Write(ctx context.Context, records []model.LogRecord) error {
	_, err := s.Insert(ctx, records)
	return err
}

// Insert stores records in one transaction and returns how many were new.
func (s *Store) Insert(ctx context.Context, records []model.LogRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		raw := r.Raw
		if raw == "" {
			raw = string(journal.Marshal(r))
		}
		res, err := stmt.ExecContext(ctx,
			nullString(r.Cursor), r.Timestamp, r.Hostname, r.Identifier, r.Comm, r.Unit, r.PID,
			intField(r, model.KeyUID), intField(r, model.KeyGID), r.Message,
			intField(r, model.KeyFacility), r.Priority, r.Transport, r.BootID, r.SourceIP,
			raw, r.Category(),
		)
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", r.Cursor, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}
	return inserted, nil
}

// LastCursor returns the cursor of the newest stored entry, or "".
func (s *Store) LastCursor(ctx context.Context) (string, error) {
	var cursor sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT cursor FROM logs WHERE cursor IS NOT NULL ORDER BY timestamp DESC, id DESC LIMIT 1`,
	).Scan(&cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("last cursor: %w", err)
	}
	return cursor.String, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM logs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count logs: %w", err)
	}
	return n, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func intField(r model.LogRecord, key string) any {
	f, ok := r.Field(key)
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(f.Value, 10, 64)
	if err != nil {
		return nil
	}
	return n
}
