package applications

import (
	"net/http"

	"github.com/johnwards/niyog/internal/store"
)

// RegisterRoutes adds all application endpoints to the given mux.
func RegisterRoutes(mux *http.ServeMux, s *store.Store) {
	h := &Handler{store: s.Applications}

	mux.HandleFunc("GET /api/v1/applications", h.List)
	mux.HandleFunc("POST /api/v1/applications", h.Create)
	mux.HandleFunc("GET /api/v1/applications/stats", h.Stats)
	mux.HandleFunc("GET /api/v1/applications/{applicationId}", h.Get)
	mux.HandleFunc("POST /api/v1/applications/{applicationId}/advance", h.Advance)
	mux.HandleFunc("POST /api/v1/applications/{applicationId}/reject", h.Reject)
	mux.HandleFunc("GET /api/v1/applications/{applicationId}/events", h.Events)
}
