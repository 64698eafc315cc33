package applications

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/johnwards/niyog/internal/api"
	"github.com/johnwards/niyog/internal/store"
	"github.com/johnwards/niyog/pkg/domain"
	"github.com/johnwards/niyog/pkg/pipeline"
)

// Handler handles application HTTP requests.
type Handler struct {
	store store.ApplicationStore
}

// List handles GET /api/v1/applications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())
	q := r.URL.Query()

	opts := domain.ApplicationListOpts{Limit: 10, After: q.Get("after")}
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			opts.Limit = parsed
		}
	}
	if v := q.Get("status"); v != "" {
		st, err := pipeline.ParseStatus(v)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
				fmt.Sprintf("Unknown status %q", v), corrID, nil))
			return
		}
		opts.Status = st
	}

	page, err := h.store.List(r.Context(), opts)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	results := make([]any, len(page.Results))
	for i, a := range page.Results {
		results[i] = a
	}

	resp := api.CollectionResponse{Results: results}
	if page.HasMore {
		resp.Paging = &api.Paging{
			Next: &api.PagingNext{After: page.After},
		}
	}
	api.WriteJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/v1/applications.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateApplicationInput
	if !api.Decode(w, r, &in) {
		return
	}

	app, err := h.store.Create(r.Context(), in)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, app)
}

// Get handles GET /api/v1/applications/{applicationId}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	app, err := h.store.Get(r.Context(), r.PathValue("applicationId"))
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, app)
}

// Advance handles POST /api/v1/applications/{applicationId}/advance.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	app, err := h.store.Advance(r.Context(), r.PathValue("applicationId"))
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, app)
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// Reject handles POST /api/v1/applications/{applicationId}/reject. The body
// is optional.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid JSON body", corrID, nil))
		return
	}
	if details := api.ValidationDetails(&req); len(details) > 0 {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError("Invalid rejection reason", corrID, details))
		return
	}

	app, err := h.store.Reject(r.Context(), r.PathValue("applicationId"), req.Reason)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, app)
}

// Events handles GET /api/v1/applications/{applicationId}/events.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.Events(r.Context(), r.PathValue("applicationId"))
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}

	results := make([]any, len(events))
	for i := range events {
		results[i] = events[i]
	}
	api.WriteJSON(w, http.StatusOK, api.CollectionResponse{Results: results})
}

// Stats handles GET /api/v1/applications/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, stats)
}
