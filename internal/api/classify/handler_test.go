package classify_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johnwards/niyog/internal/api"
	"github.com/johnwards/niyog/internal/api/classify"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	classify.RegisterRoutes(mux)
	srv := httptest.NewServer(api.Chain(mux, api.RequestID()))
	t.Cleanup(srv.Close)
	return srv
}

func timelineJSON(completed int) string {
	stages := []string{"applied", "viewed", "shortlisted", "interview", "decision"}
	parts := make([]string, len(stages))
	for i, s := range stages {
		done := "false"
		if i < completed {
			done = "true"
		}
		parts[i] = `{"stage":"` + s + `","completed":` + done + `}`
	}
	return "[" + strings.Join(parts, ",") + "]"
}

type classifyResult struct {
	StatusBadge      string  `json:"statusBadge"`
	CompletedCount   int     `json:"completedCount"`
	TotalStages      int     `json:"totalStages"`
	ProgressFraction float64 `json:"progressFraction"`
	Stages           []struct {
		Stage   string `json:"stage"`
		Display string `json:"display"`
	} `json:"stages"`
}

func classifyRequest(t *testing.T, srv *httptest.Server, body string) (*http.Response, classifyResult) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/v1/pipeline/classify", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result classifyResult
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp, result
}

func TestClassifyScenarios(t *testing.T) {
	srv := setupServer(t)

	tests := []struct {
		completed int
		status    string
		badge     string
		progress  float64
	}{
		{1, "applied", "STALLED", 0.2},
		{2, "viewed", "VIEWED", 0.4},
		{3, "shortlisted", "ACTIVE", 0.6},
		{4, "interview", "INTERVIEW", 0.8},
		{4, "rejected", "REJECTED", 0.8},
	}

	for _, tt := range tests {
		body := `{"status":"` + tt.status + `","timeline":` + timelineJSON(tt.completed) + `}`
		resp, result := classifyRequest(t, srv, body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tt.status, resp.StatusCode)
		}
		if result.StatusBadge != tt.badge {
			t.Errorf("%s: badge = %q, want %q", tt.status, result.StatusBadge, tt.badge)
		}
		if result.CompletedCount != tt.completed || result.TotalStages != 5 {
			t.Errorf("%s: counts = %d/%d", tt.status, result.CompletedCount, result.TotalStages)
		}
		if result.ProgressFraction != tt.progress {
			t.Errorf("%s: progress = %v, want %v", tt.status, result.ProgressFraction, tt.progress)
		}
		if len(result.Stages) != 5 {
			t.Errorf("%s: stages = %d, want 5", tt.status, len(result.Stages))
		}
	}
}

func TestClassifyEmptyTimeline(t *testing.T) {
	srv := setupServer(t)

	resp, _ := classifyRequest(t, srv, `{"status":"applied","timeline":[]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestClassifyUnknownStatus(t *testing.T) {
	srv := setupServer(t)

	resp, _ := classifyRequest(t, srv, `{"status":"hired","timeline":`+timelineJSON(2)+`}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}

	resp, _ = classifyRequest(t, srv, `{"timeline":`+timelineJSON(2)+`}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing status: expected 400, got %d", resp.StatusCode)
	}
}

func TestClassifyUnknownStage(t *testing.T) {
	srv := setupServer(t)

	body := `{"status":"applied","timeline":[
		{"stage":"applied","completed":true},
		{"stage":"hired","completed":false},
		{"stage":"shortlisted","completed":false},
		{"stage":"","completed":false},
		{"stage":"decision","completed":false}]}`
	resp, err := http.Post(srv.URL+"/api/v1/pipeline/classify", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var apiErr api.Error
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if apiErr.Category != api.CategoryValidationError {
		t.Errorf("category = %q, want %q", apiErr.Category, api.CategoryValidationError)
	}
	if len(apiErr.Errors) != 2 {
		t.Fatalf("errors = %d, want 2", len(apiErr.Errors))
	}
	for i, want := range []string{"timeline[1].stage", "timeline[3].stage"} {
		if apiErr.Errors[i].In != want || apiErr.Errors[i].Code != "INVALID_STAGE" {
			t.Errorf("errors[%d] = %+v, want INVALID_STAGE in %s", i, apiErr.Errors[i], want)
		}
	}
}

func TestClassifyOutOfOrderStagesAccepted(t *testing.T) {
	srv := setupServer(t)

	body := `{"status":"applied","timeline":[
		{"stage":"viewed","completed":true},
		{"stage":"applied","completed":true},
		{"stage":"shortlisted","completed":false},
		{"stage":"interview","completed":true},
		{"stage":"decision","completed":false}]}`
	resp, result := classifyRequest(t, srv, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if result.StatusBadge != "ACTIVE" || result.CompletedCount != 3 {
		t.Errorf("result = %s/%d, want ACTIVE/3", result.StatusBadge, result.CompletedCount)
	}
}
