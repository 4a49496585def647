// Package history is the audit trail of answered questions.
package history

import (
	"context"
	"time"
)

// Entry is one Ask or Run, successful or not.
type Entry struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id,omitempty"`
	Dataset    string    `json:"dataset"`
	Question   string    `json:"question,omitempty"`
	SQL        string    `json:"sql,omitempty"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	RowCount   int       `json:"row_count"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Pruner removes entries older than a cutoff.
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

type Repository interface {
	Recorder
	List(ctx context.Context, limit int) ([]Entry, error)
	HealthCheck(ctx context.Context) error
}
