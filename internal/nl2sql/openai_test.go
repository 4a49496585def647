package nl2sql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAICompleterSendsSingleUserMessage(t *testing.T) {
	var got struct {
		Model       string              `json:"model"`
		Temperature float64             `json:"temperature"`
		Messages    []map[string]string `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Fatalf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"` + "```sql\\nSELECT 1```" + `"}}]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAICompleter(OpenAIConfig{BaseURL: srv.URL + "/", APIKey: "secret", Model: "deepseek/deepseek-chat", Temperature: 0.1})
	if err != nil {
		t.Fatalf("NewOpenAICompleter() error = %v", err)
	}
	text, err := c.Complete(context.Background(), "PROMPT")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != "```sql\nSELECT 1```" {
		t.Fatalf("Complete() = %q, want raw completion", text)
	}
	if got.Model != "deepseek/deepseek-chat" || got.Temperature != 0.1 {
		t.Fatalf("payload = %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0]["role"] != "user" || got.Messages[0]["content"] != "PROMPT" {
		t.Fatalf("messages = %+v", got.Messages)
	}
}

func TestOpenAICompleterUpstreamErrors(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		body      string
		retryable bool
		empty     bool
	}{
		{name: "server error", status: http.StatusBadGateway, body: `{"error":"down"}`, retryable: true},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, retryable: true},
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":"bad"}`},
		{name: "garbage body", status: http.StatusOK, body: `not json`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, empty: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c, err := NewOpenAICompleter(OpenAIConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"})
			if err != nil {
				t.Fatalf("NewOpenAICompleter() error = %v", err)
			}
			_, err = c.Complete(context.Background(), "p")
			var upstream *UpstreamError
			if !errors.As(err, &upstream) {
				t.Fatalf("Complete() error = %v, want UpstreamError", err)
			}
			if upstream.Retryable != tc.retryable {
				t.Fatalf("Retryable = %v, want %v", upstream.Retryable, tc.retryable)
			}
			if tc.empty != errors.Is(err, ErrEmptyCompletion) {
				t.Fatalf("errors.Is(ErrEmptyCompletion) = %v", errors.Is(err, ErrEmptyCompletion))
			}
		})
	}
}

func TestOpenAICompleterUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewOpenAICompleter(OpenAIConfig{BaseURL: url, APIKey: "k", Model: "m"})
	if err != nil {
		t.Fatalf("NewOpenAICompleter() error = %v", err)
	}
	_, err = c.Complete(context.Background(), "p")
	var upstream *UpstreamError
	if !errors.As(err, &upstream) || !upstream.Retryable {
		t.Fatalf("Complete() error = %v, want retryable UpstreamError", err)
	}
}

func TestNewOpenAICompleterValidates(t *testing.T) {
	bad := []OpenAIConfig{
		{APIKey: "k", Model: "m"},
		{BaseURL: "http://x", Model: "m"},
		{BaseURL: "http://x", APIKey: "k"},
		{BaseURL: "http://x", APIKey: "k", Model: "m", Temperature: 3},
	}
	for _, cfg := range bad {
		if _, err := NewOpenAICompleter(cfg); err == nil {
			t.Fatalf("NewOpenAICompleter(%+v) expected error", cfg)
		}
	}
}
