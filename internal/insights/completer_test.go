package insights_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/niyog/internal/insights"
)

func fakeOpenAI(t *testing.T, status int, body any, seen *openai.CompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newCompleter(srv *httptest.Server) *insights.OpenAICompleter {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return insights.NewOpenAICompleterWithConfig(cfg, "")
}

func TestOpenAICompleter(t *testing.T) {
	var seen openai.CompletionRequest
	srv := fakeOpenAI(t, http.StatusOK, map[string]any{
		"id":      "cmpl-1",
		"object":  "text_completion",
		"model":   "gpt-3.5-turbo-instruct",
		"choices": []map[string]any{{"text": "  Tailor your CV.\n", "index": 0}},
	}, &seen)

	got, err := newCompleter(srv).Complete(context.Background(), "Give me one CV tip", "", 0)
	require.NoError(t, err)
	require.Equal(t, "Tailor your CV.", got.Text)
	require.Equal(t, "gpt-3.5-turbo-instruct", got.Model)

	require.Equal(t, "gpt-3.5-turbo-instruct", seen.Model)
	require.Equal(t, "Give me one CV tip", seen.Prompt)
	require.Equal(t, insights.DefaultMaxTokens, seen.MaxTokens)
	require.InDelta(t, 0.7, seen.Temperature, 1e-6)
}

func TestOpenAICompleterUpstreamError(t *testing.T) {
	srv := fakeOpenAI(t, http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{"message": "rate limited", "type": "requests"},
	}, nil)

	_, err := newCompleter(srv).Complete(context.Background(), "hi", "", 8)
	require.Error(t, err)
	require.Equal(t, http.StatusTooManyRequests, insights.UpstreamStatus(err))
}

func TestOpenAICompleterNotConfigured(t *testing.T) {
	_, err := insights.NewOpenAICompleter("", "").Complete(context.Background(), "hi", "", 0)
	require.ErrorIs(t, err, insights.ErrNotConfigured)
	require.Zero(t, insights.UpstreamStatus(err))
}
