package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"adaptive-reader/internal/app/model"
	"adaptive-reader/internal/app/repository"
)

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS relay_invocations (
	id           BIGSERIAL PRIMARY KEY,
	endpoint     TEXT        NOT NULL,
	outcome      TEXT        NOT NULL,
	status       INTEGER     NOT NULL,
	exit_code    INTEGER     NOT NULL DEFAULT 0,
	duration_ms  BIGINT      NOT NULL DEFAULT 0,
	error_detail TEXT        NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_relay_invocations_endpoint_created
	ON relay_invocations (endpoint, created_at DESC);`

// HistoryDB is a postgres backed repository.HistoryStore.
type HistoryDB struct {
	db *sql.DB
}

var _ repository.HistoryStore = (*HistoryDB)(nil)

// NewHistoryDB opens a postgres connection pool. The schema is not touched
// until Migrate is called.
func NewHistoryDB(connectionString string) (*HistoryDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, err
	}
	return &HistoryDB{db: db}, nil
}

// Migrate creates the history table when missing.
func (h *HistoryDB) Migrate(ctx context.Context) error {
	if _, err := h.db.ExecContext(ctx, createHistoryTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) Record(ctx context.Context, rec *model.InvocationRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	insertSQL := `INSERT INTO relay_invocations (endpoint, outcome, status, exit_code, duration_ms, error_detail, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id;`
	err := h.db.QueryRowContext(ctx, insertSQL,
		rec.Endpoint, rec.Outcome, rec.Status, rec.ExitCode, rec.DurationMs, rec.ErrorDetail, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("insert invocation: %w", err)
	}
	return nil
}

func (h *HistoryDB) List(ctx context.Context, endpoint string, limit int) ([]model.InvocationRecord, error) {
	if limit <= 0 {
		limit = repository.DefaultListLimit
	}
	query := `
		SELECT id, endpoint, outcome, status, exit_code, duration_ms, error_detail, created_at
		FROM relay_invocations
		WHERE ($1 = '' OR endpoint = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := h.db.QueryContext(ctx, query, endpoint, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var records []model.InvocationRecord
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
	if records == nil {
		records = []model.InvocationRecord{}
	}
	return records, nil
}
