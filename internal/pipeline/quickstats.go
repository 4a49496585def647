package pipeline

import (
	"context"
	"errors"
	"log/slog"
)

// Stat is the first cell of one quick-stat query, or the failure text.
type Stat struct {
	Label string `json:"label"`
	SQL   string `json:"sql"`
	Value any    `json:"value"`
	Error string `json:"error,omitempty"`
}

// QuickStats runs the dataset's fixed headline queries. A failing stat does not stop the others.
func (s *Service) QuickStats(ctx context.Context) ([]Stat, error) {
	if s.Schema == nil {
		return nil, errors.New("schema is required")
	}
	stats := make([]Stat, 0, len(s.Schema.QuickStats()))
	for _, qs := range s.Schema.QuickStats() {
		stat := Stat{Label: qs.Label, SQL: qs.SQL}
		answer := Answer{SQL: qs.SQL}
		if err := s.execute(ctx, &answer, options{readOnly: true}); err != nil {
			stat.Error = err.Error()
			s.logger().WarnContext(ctx, "quick stat failed", slog.String("label", qs.Label), slog.Any("error", err))
		} else if answer.Table.Len() > 0 && len(answer.Table.Rows[0]) > 0 {
			stat.Value = answer.Table.Rows[0][0]
		}
		stats = append(stats, stat)
		if err := ctx.Err(); err != nil {
			return stats, err
		}
	}
	return stats, nil
}
