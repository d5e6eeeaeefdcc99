package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"rfp-intake/internal/apperr"
)

func chatServer(t *testing.T, status int, content string, capture *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(baseURL, apiKey string) *Service {
	return NewService(Options{Provider: "openai", APIKey: apiKey, Model: "gpt-4o", BaseURL: baseURL}, nil)
}

func TestAnalyzeSuccess(t *testing.T) {
	var captured chatRequest
	srv := chatServer(t, http.StatusOK,
		`{"title":"Parliamentary Chatbot","agency":"Council of Representatives – Kingdom of Bahrain","opportunityScore":140}`,
		&captured)

	text := strings.Repeat("a", MaxPromptChars) + "TAIL-NOT-SENT"
	got, err := newTestService(srv.URL, "test-key").Analyze(context.Background(), text)
	require.NoError(t, err)

	require.Equal(t, "Parliamentary Chatbot", got.Title)
	require.Contains(t, got.Agency, "Council of Representatives")
	require.Equal(t, 100, got.OpportunityScore)
	require.NotEmpty(t, got.KeyDates)

	require.Equal(t, "gpt-4o", captured.Model)
	require.Equal(t, 2000, captured.MaxTokens)
	require.InDelta(t, 0.4, captured.Temperature, 1e-9)
	require.Equal(t, "json_object", captured.ResponseFormat["type"])
	require.Len(t, captured.Messages, 2)
	require.Equal(t, "system", captured.Messages[0].Role)
	require.Equal(t, "user", captured.Messages[1].Role)
	require.NotContains(t, captured.Messages[1].Content, "TAIL-NOT-SENT")
}

func TestAnalyzeFailures(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		_, err := newTestService("http://127.0.0.1:0", "").Analyze(context.Background(), "text")
		require.True(t, apperr.IsKind(err, apperr.Analysis))
	})

	t.Run("non-2xx status", func(t *testing.T) {
		srv := chatServer(t, http.StatusTooManyRequests, "", nil)
		_, err := newTestService(srv.URL, "test-key").Analyze(context.Background(), "text")
		require.True(t, apperr.IsKind(err, apperr.Analysis))
		require.Contains(t, err.Error(), "429")
	})

	t.Run("empty content", func(t *testing.T) {
		srv := chatServer(t, http.StatusOK, "  ", nil)
		_, err := newTestService(srv.URL, "test-key").Analyze(context.Background(), "text")
		require.True(t, apperr.IsKind(err, apperr.Analysis))
		require.Contains(t, err.Error(), "no content")
	})

	t.Run("unparseable content", func(t *testing.T) {
		srv := chatServer(t, http.StatusOK, "not json", nil)
		_, err := newTestService(srv.URL, "test-key").Analyze(context.Background(), "text")
		require.True(t, apperr.IsKind(err, apperr.Analysis))
	})

	t.Run("no choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()
		_, err := newTestService(srv.URL, "test-key").Analyze(context.Background(), "text")
		require.True(t, apperr.IsKind(err, apperr.Analysis))
	})
}

func TestNewServiceDefaults(t *testing.T) {
	s := NewService(Options{Provider: "groq", APIKey: "k"}, nil)
	require.Equal(t, ProviderGroq, s.provider)
	require.Equal(t, groqBaseURL, s.baseURL)
	require.Equal(t, "gpt-4o", s.model)

	s = NewService(Options{BaseURL: "http://proxy.local/v1/"}, nil)
	require.Equal(t, ProviderOpenAI, s.provider)
	require.Equal(t, "http://proxy.local/v1", s.baseURL)
}
