package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/askdata/askdata/internal/history"
)

const defaultListLimit = 50

const maxListLimit = 500

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping history db: %w", err)
	}
	return nil
}

func (r *Repository) Record(ctx context.Context, entry history.Entry) error {
	query := `
INSERT INTO ask_history (session_id, dataset, question, sql_text, outcome, error_text, row_count, duration_ms, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))`
	var createdAt any
	if !entry.CreatedAt.IsZero() {
		createdAt = entry.CreatedAt
	}
	if _, err := r.db.ExecContext(ctx, query,
		nullString(entry.SessionID),
		entry.Dataset,
		nullString(entry.Question),
		nullString(entry.SQL),
		entry.Outcome,
		nullString(entry.Error),
		entry.RowCount,
		entry.DurationMS,
		createdAt,
	); err != nil {
		return fmt.Errorf("record ask history: %w", err)
	}
	return nil
}

// List returns the newest entries first. limit <= 0 uses the default; it is capped at maxListLimit.
func (r *Repository) List(ctx context.Context, limit int) ([]history.Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT history_id, COALESCE(session_id, ''), dataset, COALESCE(question, ''), COALESCE(sql_text, ''),
       outcome, COALESCE(error_text, ''), row_count, duration_ms, created_at
FROM ask_history
ORDER BY created_at DESC, history_id DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list ask history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []history.Entry{}
	for rows.Next() {
		var entry history.Entry
		if err := rows.Scan(
			&entry.ID,
			&entry.SessionID,
			&entry.Dataset,
			&entry.Question,
			&entry.SQL,
			&entry.Outcome,
			&entry.Error,
			&entry.RowCount,
			&entry.DurationMS,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ask history: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return entries, nil
}

// Prune deletes entries created before cutoff and returns how many were removed.
func (r *Repository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ask_history WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune ask history: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune ask history rows affected: %w", err)
	}
	return deleted, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
