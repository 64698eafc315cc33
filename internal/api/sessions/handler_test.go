package sessions_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johnwards/niyog/internal/api"
	"github.com/johnwards/niyog/internal/api/sessions"
	"github.com/johnwards/niyog/internal/database"
	"github.com/johnwards/niyog/internal/store"
	"github.com/johnwards/niyog/internal/testhelpers"
)

type sessionBody struct {
	SignedIn    bool     `json:"signedIn"`
	Role        string   `json:"role"`
	Name        string   `json:"name"`
	Page        string   `json:"page"`
	Pages       []string `json:"pages"`
	SelectedJob string   `json:"selectedJob"`
}

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	db := testhelpers.NewTestDB(t)
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	mux := http.NewServeMux()
	sessions.RegisterRoutes(mux, store.New(db))
	srv := httptest.NewServer(api.Chain(mux, api.RequestID()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, sessionBody) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var sb sessionBody
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&sb); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp, sb
}

func TestSessionLifecycle(t *testing.T) {
	srv := setupServer(t)
	url := srv.URL + "/api/v1/session"

	resp, sb := do(t, http.MethodGet, url, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if sb.SignedIn {
		t.Error("expected signed-out session")
	}

	resp, sb = do(t, http.MethodPut, url, `{"role":"jobseeker","name":"Asha"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sign in: expected 200, got %d", resp.StatusCode)
	}
	if !sb.SignedIn || sb.Role != "jobseeker" || sb.Name != "Asha" {
		t.Errorf("session = %+v", sb)
	}
	if len(sb.Pages) != 4 {
		t.Errorf("pages = %v, want 4", sb.Pages)
	}

	resp, sb = do(t, http.MethodPost, url+"/navigate", `{"page":"interview","jobId":"4"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("navigate: expected 200, got %d", resp.StatusCode)
	}
	if sb.Page != "interview" || sb.SelectedJob != "4" {
		t.Errorf("session = %+v", sb)
	}

	_, sb = do(t, http.MethodGet, url, "")
	if sb.Page != "interview" || sb.Name != "Asha" {
		t.Errorf("reloaded session = %+v", sb)
	}

	resp, _ = do(t, http.MethodDelete, url, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("sign out: expected 204, got %d", resp.StatusCode)
	}
	_, sb = do(t, http.MethodGet, url, "")
	if sb.SignedIn {
		t.Error("expected signed-out session after delete")
	}
}

func TestSignInUnknownRole(t *testing.T) {
	srv := setupServer(t)

	resp, _ := do(t, http.MethodPut, srv.URL+"/api/v1/session", `{"role":"admin","name":"root"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNavigateSignedOut(t *testing.T) {
	srv := setupServer(t)

	resp, _ := do(t, http.MethodPost, srv.URL+"/api/v1/session/navigate", `{"page":"profile"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409, got %d", resp.StatusCode)
	}
}
