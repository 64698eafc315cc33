package classify

import "net/http"

// RegisterRoutes adds the stateless pipeline evaluator endpoint to the mux.
func RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/pipeline/classify", Classify)
}
