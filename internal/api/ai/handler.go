package ai

import (
	"errors"
	"net/http"

	"github.com/johnwards/niyog/internal/api"
	"github.com/johnwards/niyog/internal/insights"
)

// Handler handles the /ai endpoints.
type Handler struct {
	provider  insights.Provider
	completer insights.Completer
}

type echoRequest struct {
	Message string `json:"message" validate:"required"`
}

type completeRequest struct {
	Prompt    string `json:"prompt" validate:"required"`
	MaxTokens int    `json:"max_tokens" validate:"gte=0,lte=4096"`
	Model     string `json:"model"`
}

type matchRequest struct {
	CandidateSkills []string `json:"candidate_skills" validate:"required"`
	JobSkills       []string `json:"job_skills" validate:"required"`
}

type blindSpotsRequest struct {
	Skills     []string `json:"skills" validate:"required"`
	TargetRole string   `json:"target_role" validate:"required"`
}

type growthRequest struct {
	CurrentLevel string   `json:"current_level" validate:"required"`
	Goals        []string `json:"goals" validate:"required"`
}

type interviewRequest struct {
	Role       string `json:"role" validate:"required"`
	Difficulty string `json:"difficulty"`
	Questions  *int   `json:"questions" validate:"omitnil,gte=0"`
}

type profileRequest struct {
	ProfileSummary string `json:"profile_summary" validate:"required"`
}

type cvRequest struct {
	CVText string `json:"cv_text" validate:"required"`
}

// Echo handles POST /ai/echo.
func (h *Handler) Echo(w http.ResponseWriter, r *http.Request) {
	var req echoRequest
	if !api.Decode(w, r, &req) {
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"echo": req.Message})
}

// Complete handles POST /ai/complete.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var req completeRequest
	if !api.Decode(w, r, &req) {
		return
	}

	out, err := h.completer.Complete(r.Context(), req.Prompt, req.Model, req.MaxTokens)
	if err != nil {
		if errors.Is(err, insights.ErrNotConfigured) {
			api.WriteError(w, http.StatusInternalServerError, &api.Error{
				Status:        "error",
				Message:       err.Error(),
				CorrelationID: corrID,
				Category:      api.CategoryInternalError,
			})
			return
		}
		status := insights.UpstreamStatus(err)
		if status == 0 {
			status = http.StatusBadGateway
		}
		api.WriteError(w, status, &api.Error{
			Status:        "error",
			Message:       err.Error(),
			CorrelationID: corrID,
			Category:      "UPSTREAM_ERROR",
		})
		return
	}
	api.WriteJSON(w, http.StatusOK, out)
}

// Match handles POST /ai/match.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if !api.Decode(w, r, &req) {
		return
	}
	api.WriteJSON(w, http.StatusOK, h.provider.Match(req.CandidateSkills, req.JobSkills))
}

// BlindSpots handles POST /ai/blind-spots.
func (h *Handler) BlindSpots(w http.ResponseWriter, r *http.Request) {
	var req blindSpotsRequest
	if !api.Decode(w, r, &req) {
		return
	}
	api.WriteJSON(w, http.StatusOK, h.provider.BlindSpots(req.Skills, req.TargetRole))
}

// Growth handles POST /ai/growth-insights.
func (h *Handler) Growth(w http.ResponseWriter, r *http.Request) {
	var req growthRequest
	if !api.Decode(w, r, &req) {
		return
	}
	api.WriteJSON(w, http.StatusOK, h.provider.Growth(req.CurrentLevel, req.Goals))
}

// Interview handles POST /ai/interview-simulator.
func (h *Handler) Interview(w http.ResponseWriter, r *http.Request) {
	var req interviewRequest
	if !api.Decode(w, r, &req) {
		return
	}
	n := insights.MaxQuestions
	if req.Questions != nil {
		n = *req.Questions
	}
	api.WriteJSON(w, http.StatusOK, h.provider.SimulateInterview(req.Role, req.Difficulty, n))
}

// Profile handles POST /ai/analyse-profile.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !api.Decode(w, r, &req) {
		return
	}
	api.WriteJSON(w, http.StatusOK, h.provider.AnalyseProfile(req.ProfileSummary))
}

// AnalyseCV handles POST /ai/cv-analysis.
func (h *Handler) AnalyseCV(w http.ResponseWriter, r *http.Request) {
	var req cvRequest
	if !api.Decode(w, r, &req) {
		return
	}
	api.WriteJSON(w, http.StatusOK, h.provider.AnalyseCV(req.CVText))
}

// LatestCV handles GET /ai/cv-analysis.
func (h *Handler) LatestCV(w http.ResponseWriter, r *http.Request) {
	res, err := h.provider.LatestCV()
	if err != nil {
		if errors.Is(err, insights.ErrNoAnalysis) {
			api.WriteError(w, http.StatusNotFound, api.NewNotFoundError("No CV analysis yet", api.CorrelationID(r.Context())))
			return
		}
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}
