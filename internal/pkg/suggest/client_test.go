package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fakeGemini(t *testing.T, candidateText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected api key in query, got %q", r.URL.RawQuery)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("invalid request body: %v", err)
		}

		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]string{{"text": candidateText}},
				},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestAnalyzeImage(t *testing.T) {
	payload := `{"title":"Quiet Lake","description":"A still lake at dawn","keywords":["lake","dawn"],"suggestedSlug":"Quiet Lake"}`
	server := fakeGemini(t, payload)
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gemini-3-flash-preview", 5*time.Second)

	suggestion, err := client.AnalyzeImage(context.Background(), "image/jpeg", "aGVsbG8=")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if suggestion.Title != "Quiet Lake" {
		t.Errorf("unexpected title %q", suggestion.Title)
	}
	if suggestion.SuggestedSlug != "quiet-lake" {
		t.Errorf("expected normalized slug, got %q", suggestion.SuggestedSlug)
	}
	if len(suggestion.Keywords) != 2 {
		t.Errorf("expected 2 keywords, got %v", suggestion.Keywords)
	}
}

func TestAnalyzeImage_MalformedCandidate(t *testing.T) {
	server := fakeGemini(t, "this is not json")
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gemini-3-flash-preview", 5*time.Second)

	if _, err := client.AnalyzeImage(context.Background(), "image/jpeg", "aGVsbG8="); !errors.Is(err, ErrInvalidSuggestion) {
		t.Errorf("expected ErrInvalidSuggestion, got %v", err)
	}
}

func TestAnalyzeImage_MissingFields(t *testing.T) {
	server := fakeGemini(t, `{"title":"Only a title"}`)
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gemini-3-flash-preview", 5*time.Second)

	if _, err := client.AnalyzeImage(context.Background(), "image/jpeg", "aGVsbG8="); !errors.Is(err, ErrInvalidSuggestion) {
		t.Errorf("expected ErrInvalidSuggestion, got %v", err)
	}
}

func TestAnalyzeImage_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "gemini-3-flash-preview", 5*time.Second)

	if _, err := client.AnalyzeImage(context.Background(), "image/jpeg", "aGVsbG8="); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}

func TestAnalyzeImage_NoAPIKey(t *testing.T) {
	client := NewClient("http://localhost:1", "", "gemini-3-flash-preview", time.Second)

	if _, err := client.AnalyzeImage(context.Background(), "image/jpeg", "aGVsbG8="); err == nil {
		t.Fatal("expected error when api key is missing")
	}
}
