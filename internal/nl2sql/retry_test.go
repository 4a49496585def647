package nl2sql

import (
	"context"
	"errors"
	"testing"
)

type scriptedCompleter struct {
	results []scriptedResult
	calls   int
	prompts []string
}

type scriptedResult struct {
	text string
	err  error
}

func (s *scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	result := s.results[s.calls]
	if s.calls < len(s.results)-1 {
		s.calls++
	}
	return result.text, result.err
}

func TestRetryingCompleterRetriesOnce(t *testing.T) {
	next := &scriptedCompleter{results: []scriptedResult{
		{err: &UpstreamError{Op: "chat completion", StatusCode: 503, Retryable: true, Err: errors.New("busy")}},
		{text: "SELECT 1"},
	}}
	var retries int
	c := NewRetryingCompleter(next, RetryConfig{MaxRetries: 1, OnRetry: func(int, error) { retries++ }})
	text, err := c.Complete(context.Background(), "p")
	if err != nil || text != "SELECT 1" {
		t.Fatalf("Complete() = %q, %v", text, err)
	}
	if retries != 1 || len(next.prompts) != 2 {
		t.Fatalf("retries=%d calls=%d", retries, len(next.prompts))
	}
}

func TestRetryingCompleterIsBounded(t *testing.T) {
	failure := &UpstreamError{Op: "chat completion", StatusCode: 502, Retryable: true, Err: errors.New("down")}
	next := &scriptedCompleter{results: []scriptedResult{{err: failure}}}
	c := NewRetryingCompleter(next, RetryConfig{MaxRetries: 1})
	_, err := c.Complete(context.Background(), "p")
	if !errors.Is(err, failure) {
		t.Fatalf("Complete() error = %v", err)
	}
	if len(next.prompts) != 2 {
		t.Fatalf("calls = %d, want 2", len(next.prompts))
	}
}

func TestRetryingCompleterSkipsPermanentErrors(t *testing.T) {
	next := &scriptedCompleter{results: []scriptedResult{
		{err: &UpstreamError{Op: "chat completion", StatusCode: 401, Err: errors.New("unauthorized")}},
	}}
	c := NewRetryingCompleter(next, RetryConfig{MaxRetries: 3})
	if _, err := c.Complete(context.Background(), "p"); err == nil {
		t.Fatal("Complete() expected error")
	}
	if len(next.prompts) != 1 {
		t.Fatalf("calls = %d, want 1", len(next.prompts))
	}
}

func TestRetryingCompleterStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	next := &scriptedCompleter{results: []scriptedResult{
		{err: &UpstreamError{Op: "chat completion", Retryable: true, Err: errors.New("reset")}},
	}}
	c := NewRetryingCompleter(next, RetryConfig{MaxRetries: 2, OnRetry: func(int, error) { cancel() }})
	if _, err := c.Complete(ctx, "p"); err == nil {
		t.Fatal("Complete() expected error")
	}
	if len(next.prompts) != 1 {
		t.Fatalf("calls = %d, want 1", len(next.prompts))
	}
}
