package sessions

import (
	"errors"
	"net/http"

	"github.com/johnwards/niyog/internal/api"
	"github.com/johnwards/niyog/internal/session"
	"github.com/johnwards/niyog/internal/store"
)

// Handler handles session HTTP requests. Sign-in only records the chosen
// role and name; no credentials are checked.
type Handler struct {
	settings store.SettingsStore
}

type signInRequest struct {
	Role string `json:"role" validate:"required,oneof=jobseeker employer"`
	Name string `json:"name" validate:"max=100"`
}

type navigateRequest struct {
	Page  string `json:"page" validate:"required"`
	JobID string `json:"jobId"`
}

// Get handles GET /api/v1/session.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := session.Load(r.Context(), h.settings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, st)
}

// SignIn handles PUT /api/v1/session.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !api.Decode(w, r, &req) {
		return
	}

	view, err := session.Resolve(req.Role, req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	st := session.Reduce(session.Initial(), session.SignedIn{View: view})
	if err := session.Save(r.Context(), h.settings, st); err != nil {
		h.writeError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, st)
}

// SignOut handles DELETE /api/v1/session.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := session.Clear(r.Context(), h.settings); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Navigate handles POST /api/v1/session/navigate.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if !api.Decode(w, r, &req) {
		return
	}

	st, err := session.Load(r.Context(), h.settings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !st.SignedIn() {
		api.WriteError(w, http.StatusConflict, api.NewConflictError("Not signed in", api.CorrelationID(r.Context())))
		return
	}

	st = session.Reduce(st, session.Navigated{Page: session.Page(req.Page), JobID: req.JobID})
	if err := session.Save(r.Context(), h.settings, st); err != nil {
		h.writeError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, session.ErrUnknownRole) {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(err.Error(), api.CorrelationID(r.Context()), nil))
		return
	}
	api.WriteStoreError(w, r, err)
}
