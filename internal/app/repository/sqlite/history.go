package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"adaptive-reader/internal/app/model"
	"adaptive-reader/internal/app/repository"
)

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS relay_invocations (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	endpoint     TEXT     NOT NULL,
	outcome      TEXT     NOT NULL,
	status       INTEGER  NOT NULL,
	exit_code    INTEGER  NOT NULL DEFAULT 0,
	duration_ms  INTEGER  NOT NULL DEFAULT 0,
	error_detail TEXT     NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_relay_invocations_endpoint_created
	ON relay_invocations (endpoint, created_at);`

// HistoryDB is a sqlite backed repository.HistoryStore.
type HistoryDB struct {
	db *sql.DB
}

var _ repository.HistoryStore = (*HistoryDB)(nil)

// NewHistoryDB opens (creating if needed) the database file at path and
// makes sure the schema exists.
func NewHistoryDB(path string) (*HistoryDB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	dsn, err := historyDSN(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; sqlite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createHistoryTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &HistoryDB{db: db}, nil
}

// historyDSN builds a sqlite URI for path; characters such as ? and # in the
// path are escaped so they stay part of the file name.
func historyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve database path: %w", err)
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: "mode=rwc&_busy_timeout=5000",
	}
	return u.String(), nil
}

func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) Record(ctx context.Context, rec *model.InvocationRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	insertSQL := `INSERT INTO relay_invocations (endpoint, outcome, status, exit_code, duration_ms, error_detail, created_at) VALUES (?, ?, ?, ?, ?, ?, ?);`
	res, err := h.db.ExecContext(ctx, insertSQL,
		rec.Endpoint, rec.Outcome, rec.Status, rec.ExitCode, rec.DurationMs, rec.ErrorDetail, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert invocation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read invocation id: %w", err)
	}
	rec.ID = id
	return nil
}

func (h *HistoryDB) List(ctx context.Context, endpoint string, limit int) ([]model.InvocationRecord, error) {
	if limit <= 0 {
		limit = repository.DefaultListLimit
	}
	query := `
		SELECT id, endpoint, outcome, status, exit_code, duration_ms, error_detail, created_at
		FROM relay_invocations
		WHERE (? = '' OR endpoint = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ?;`
	rows, err := h.db.QueryContext(ctx, query, endpoint, endpoint, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	records := make([]model.InvocationRecord, 0)
	for rows.Next() {
		var r model.InvocationRecord
		if err := rows.Scan(&r.ID, &r.Endpoint, &r.Outcome, &r.Status, &r.ExitCode, &r.DurationMs, &r.ErrorDetail, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return records, nil
}
