package admin

import (
	"net/http"

	"github.com/johnwards/niyog/internal/store"
)

// RegisterRoutes registers all admin API endpoints on the mux.
func RegisterRoutes(mux *http.ServeMux, s *store.Store) {
	h := &Handler{db: s.DB, requests: s.Requests}

	mux.HandleFunc("POST /_niyog/reset", h.Reset)
	mux.HandleFunc("GET /_niyog/requests", h.Requests)
	mux.HandleFunc("POST /_niyog/seed", h.SeedData)
}
