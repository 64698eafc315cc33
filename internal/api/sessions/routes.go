package sessions

import (
	"net/http"

	"github.com/johnwards/niyog/internal/store"
)

// RegisterRoutes adds the session endpoints to the given mux.
func RegisterRoutes(mux *http.ServeMux, s *store.Store) {
	h := &Handler{settings: s.Settings}

	mux.HandleFunc("GET /api/v1/session", h.Get)
	mux.HandleFunc("PUT /api/v1/session", h.SignIn)
	mux.HandleFunc("DELETE /api/v1/session", h.SignOut)
	mux.HandleFunc("POST /api/v1/session/navigate", h.Navigate)
}
