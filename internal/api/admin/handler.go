package admin

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/johnwards/niyog/internal/api"
	"github.com/johnwards/niyog/internal/seed"
	"github.com/johnwards/niyog/internal/store"
)

// Handler serves the admin API at /_niyog/.
type Handler struct {
	db       *sql.DB
	requests store.RequestLogStore
}

// dataTableNames lists all data tables in foreign-key-safe deletion order.
var dataTableNames = []string{
	"application_events",
	"timeline_entries",
	"applications",
	"settings",
	"request_log",
}

// Reset drops all data from all tables and re-runs seeds.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := ResetData(r.Context(), h.db); err != nil {
		api.WriteError(w, http.StatusInternalServerError, &api.Error{
			Status:        "error",
			Message:       fmt.Sprintf("failed to reset: %s", err),
			CorrelationID: api.CorrelationID(r.Context()),
			Category:      api.CategoryInternalError,
		})
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SeedData runs seed data without dropping existing data first.
func (h *Handler) SeedData(w http.ResponseWriter, r *http.Request) {
	if err := seed.Seed(r.Context(), h.db); err != nil {
		api.WriteError(w, http.StatusInternalServerError, &api.Error{
			Status:        "error",
			Message:       fmt.Sprintf("failed to seed: %s", err),
			CorrelationID: api.CorrelationID(r.Context()),
			Category:      api.CategoryInternalError,
		})
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Requests returns request log entries, newest first.
func (h *Handler) Requests(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	entries, err := h.requests.List(r.Context(), limit)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	results := make([]any, len(entries))
	for i := range entries {
		results[i] = entries[i]
	}
	api.WriteJSON(w, http.StatusOK, api.CollectionResponse{Results: results})
}

// ResetData clears all data tables and their ID sequences within a
// transaction, then re-seeds.
func ResetData(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range dataTableNames {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil { //nolint:gosec // table names are hardcoded constants
			return fmt.Errorf("clear table %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = ?", table); err != nil {
			return fmt.Errorf("reset sequence %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return seed.Seed(ctx, db)
}
