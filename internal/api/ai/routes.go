package ai

import (
	"net/http"

	"github.com/johnwards/niyog/internal/insights"
)

// RegisterRoutes adds the insight endpoints to the given mux.
func RegisterRoutes(mux *http.ServeMux, p insights.Provider, c insights.Completer) {
	h := &Handler{provider: p, completer: c}

	mux.HandleFunc("POST /ai/echo", h.Echo)
	mux.HandleFunc("POST /ai/complete", h.Complete)
	mux.HandleFunc("POST /ai/match", h.Match)
	mux.HandleFunc("POST /ai/blind-spots", h.BlindSpots)
	mux.HandleFunc("POST /ai/growth-insights", h.Growth)
	mux.HandleFunc("POST /ai/interview-simulator", h.Interview)
	mux.HandleFunc("POST /ai/analyse-profile", h.Profile)
	mux.HandleFunc("POST /ai/cv-analysis", h.AnalyseCV)
	mux.HandleFunc("GET /ai/cv-analysis", h.LatestCV)
}
