package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smarttask/backend/domain"
)

var testReference = time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)

func newTestClient(url string) *Client {
	return NewClient(Config{BaseURL: url, APIKey: "test-key", Timeout: 2 * time.Second}, nil)
}

func completionBody(content string) string {
	payload := map[string]any{
		"choices": []any{
			map[string]any{"message": map[string]any{"content": content}},
		},
	}
	out, _ := json.Marshal(payload)
	return string(out)
}

func TestExtract_ParsesCandidate(t *testing.T) {
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("request body did not decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody(`{"title":"Call Rajeev","assignee":"Rajeev","dueDate":"2026-03-21T17:00:00Z","priority":"P2"}`)))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	candidate, err := client.Extract(context.Background(), "Call client Rajeev tomorrow 5pm P2", testReference)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	title, _, _ := candidate.StringField("title")
	if title != "Call Rajeev" {
		t.Errorf("title = %q, want Call Rajeev", title)
	}

	// The reference date must be injected into the prompt, never the
	// client's own clock.
	if len(gotBody.Messages) != 2 {
		t.Fatalf("request carried %d messages, want 2", len(gotBody.Messages))
	}
	if !strings.Contains(gotBody.Messages[0].Content, "2026-03-20") {
		t.Error("system prompt does not carry the reference date")
	}
	if gotBody.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %q, want json_object", gotBody.ResponseFormat.Type)
	}
}

func TestExtract_NonSuccessStatusIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Extract(context.Background(), "anything", testReference)
	if !domain.IsDomainError(err, domain.ErrCodeUpstreamUnavailable) {
		t.Fatalf("error = %v, want upstream unavailable", err)
	}
	if !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Errorf("error does not carry the upstream diagnostic: %v", err)
	}
}

func TestExtract_UnreachableHostIsUnavailable(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, err := client.Extract(context.Background(), "anything", testReference)
	if !domain.IsDomainError(err, domain.ErrCodeUpstreamUnavailable) {
		t.Fatalf("error = %v, want upstream unavailable", err)
	}
}

func TestExtract_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"envelope is not json", `not-json`},
		{"no choices", `{"choices":[]}`},
		{"content is not an object", completionBody(`"just a string"`)},
		{"content is broken json", completionBody(`{"title": `)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := newTestClient(srv.URL)
			_, err := client.Extract(context.Background(), "anything", testReference)
			if !domain.IsDomainError(err, domain.ErrCodeUpstreamFormat) {
				t.Fatalf("error = %v, want upstream format error", err)
			}
		})
	}
}
