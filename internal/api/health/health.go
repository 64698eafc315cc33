package health

import (
	"net/http"

	"github.com/johnwards/niyog/internal/api"
)

// RegisterRoutes adds the liveness endpoint to the mux.
func RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
