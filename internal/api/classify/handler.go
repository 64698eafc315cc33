package classify

import (
	"fmt"
	"net/http"

	"github.com/johnwards/niyog/internal/api"
	"github.com/johnwards/niyog/pkg/pipeline"
)

type request struct {
	Timeline []pipeline.TimelineEntry `json:"timeline"`
	Status   string                   `json:"status" validate:"required"`
}

type response struct {
	pipeline.State
	Stages []pipeline.StageView `json:"stages"`
}

// Classify handles POST /api/v1/pipeline/classify. It evaluates the posted
// timeline without touching storage.
func Classify(w http.ResponseWriter, r *http.Request) {
	corrID := api.CorrelationID(r.Context())

	var req request
	if !api.Decode(w, r, &req) {
		return
	}
	status, err := pipeline.ParseStatus(req.Status)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
			fmt.Sprintf("Unknown status %q", req.Status), corrID,
			[]api.ErrorDetail{{Message: err.Error(), Code: "INVALID_STATUS", In: "status"}}))
		return
	}

	var details []api.ErrorDetail
	for i, e := range req.Timeline {
		if _, err := pipeline.ParseStage(string(e.Stage)); err != nil {
			details = append(details, api.ErrorDetail{
				Message: err.Error(),
				Code:    "INVALID_STAGE",
				In:      fmt.Sprintf("timeline[%d].stage", i),
			})
		}
	}
	if len(details) > 0 {
		api.WriteError(w, http.StatusBadRequest, api.NewValidationError(
			fmt.Sprintf("Timeline has %d unknown stage(s)", len(details)), corrID, details))
		return
	}

	st, err := pipeline.Classify(req.Timeline, status)
	if err != nil {
		api.WriteStoreError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, response{State: st, Stages: pipeline.StageStates(req.Timeline)})
}
