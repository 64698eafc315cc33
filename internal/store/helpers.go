package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// TimeLayout is the timestamp format used for every stored time.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// now returns the current UTC time in the stored timestamp format.
func now() string {
	return FormatTime(time.Now())
}

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// Querier is satisfied by both *sql.DB and *sql.Tx, so read helpers can run
// inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
