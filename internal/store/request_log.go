package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// RequestLogEntry is one recorded HTTP request.
type RequestLogEntry struct {
	ID            string `json:"id"`
	Method        string `json:"method"`
	Path          string `json:"path"`
	StatusCode    int    `json:"statusCode"`
	DurationMs    int64  `json:"durationMs"`
	CorrelationID string `json:"correlationId,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// RequestLogStore records served requests for the admin endpoints.
type RequestLogStore interface {
	Record(ctx context.Context, method, path string, status int, d time.Duration, correlationID string) error
	List(ctx context.Context, limit int) ([]RequestLogEntry, error)
}

// SQLiteRequestLogStore implements RequestLogStore backed by SQLite.
type SQLiteRequestLogStore struct {
	db *sql.DB
}

// NewSQLiteRequestLogStore creates a new SQLiteRequestLogStore.
func NewSQLiteRequestLogStore(db *sql.DB) *SQLiteRequestLogStore {
	return &SQLiteRequestLogStore{db: db}
}

// Record appends a request to the log.
func (s *SQLiteRequestLogStore) Record(ctx context.Context, method, path string, status int, d time.Duration, correlationID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO request_log (method, path, status_code, duration_ms, correlation_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		method, path, status, d.Milliseconds(), correlationID, now(),
	)
	if err != nil {
		return fmt.Errorf("record request: %w", err)
	}
	return nil
}

// List returns the most recent requests, newest first.
func (s *SQLiteRequestLogStore) List(ctx context.Context, limit int) ([]RequestLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, method, path, status_code, COALESCE(duration_ms, 0), COALESCE(correlation_id, ''), created_at
		 FROM request_log ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []RequestLogEntry{}
	for rows.Next() {
		var e RequestLogEntry
		var id int64
		if err := rows.Scan(&id, &e.Method, &e.Path, &e.StatusCode, &e.DurationMs, &e.CorrelationID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		e.ID = strconv.FormatInt(id, 10)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
