// Package pipeline answers a question end to end: compose, complete, sanitize, guard,
// execute, classify and chart.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/askdata/askdata/internal/chart"
	"github.com/askdata/askdata/internal/history"
	"github.com/askdata/askdata/internal/interpret"
	"github.com/askdata/askdata/internal/knowledge"
	"github.com/askdata/askdata/internal/nl2sql"
	"github.com/askdata/askdata/internal/observability"
	"github.com/askdata/askdata/internal/query"
	"github.com/askdata/askdata/internal/sqlguard"
)

type Outcome string

const (
	OutcomeOK                 Outcome = "ok"
	OutcomeEmpty              Outcome = "empty"
	OutcomeMutationOK         Outcome = "mutation_ok"
	OutcomeGenerationFailed   Outcome = "generation_failed"
	OutcomeRejected           Outcome = "rejected"
	OutcomeQueryFailed        Outcome = "query_failed"
	OutcomeConnectivityFailed Outcome = "connectivity_failed"
)

// Failed reports whether the outcome carries an error.
func (o Outcome) Failed() bool {
	switch o {
	case OutcomeOK, OutcomeEmpty, OutcomeMutationOK:
		return false
	default:
		return true
	}
}

var (
	ErrQuestionRequired     = nl2sql.ErrQuestionRequired
	ErrSQLRequired          = errors.New("sql is required")
	ErrTranslatorNotEnabled = errors.New("completion service is not configured")
)

type Translator interface {
	Translate(ctx context.Context, question string) (nl2sql.Result, error)
}

type Gate interface {
	Check(sql string) (sqlguard.Statement, error)
}

// Answer is everything the presentation layer needs for one question. On failure SQL still
// holds the generated text, if any, and Error the failure text verbatim.
type Answer struct {
	Question       string                    `json:"question,omitempty"`
	SQL            string                    `json:"sql,omitempty"`
	Outcome        Outcome                   `json:"outcome"`
	Statement      *sqlguard.Statement       `json:"statement,omitempty"`
	Table          *query.Table              `json:"table,omitempty"`
	Truncated      bool                      `json:"truncated,omitempty"`
	RowsAffected   int64                     `json:"rows_affected,omitempty"`
	Message        string                    `json:"message,omitempty"`
	Classification *interpret.Classification `json:"classification,omitempty"`
	Charts         []chart.Spec              `json:"charts,omitempty"`
	Summary        []interpret.ColumnSummary `json:"summary,omitempty"`
	Error          string                    `json:"error,omitempty"`
	Model          string                    `json:"model,omitempty"`
	GenerationMS   int64                     `json:"generation_ms"`
	ExecutionMS    int64                     `json:"execution_ms"`
	TotalMS        int64                     `json:"total_ms"`
}

// Service is shared by concurrent requests. Unset Rules, Clock and Logger resolve to defaults
// per call and are never written back.
type Service struct {
	Schema     *knowledge.Schema
	Translator Translator
	Gate       Gate
	Executor   query.Executor
	Rules      *interpret.RuleSet
	History    history.Recorder
	Logger     *slog.Logger
	Clock      func() time.Time
}

type options struct {
	readOnly  bool
	sessionID string
}

type Option func(*options)

// ReadOnly rejects mutations for this call even when the gate admits them.
func ReadOnly() Option {
	return func(o *options) { o.readOnly = true }
}

func WithSession(sessionID string) Option {
	return func(o *options) { o.sessionID = sessionID }
}

// Resolve applies opts and reports the read-only flag and session id they set.
func Resolve(opts ...Option) (readOnly bool, sessionID string) {
	o := collect(opts)
	return o.readOnly, o.sessionID
}

var (
	defaultRules  = interpret.NewRuleSet(interpret.DefaultRules()...)
	discardLogger = slog.New(slog.DiscardHandler)
)

func (s *Service) rules() *interpret.RuleSet {
	if s.Rules == nil {
		return defaultRules
	}
	return s.Rules
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return discardLogger
	}
	return s.Logger
}

// Ask translates question into SQL and runs it. The returned error is non-nil exactly when the
// answer's outcome is a failure; a blank question fails with ErrQuestionRequired before any call.
func (s *Service) Ask(ctx context.Context, question string, opts ...Option) (Answer, error) {
	o := collect(opts)
	start := s.now()
	answer := Answer{Question: strings.TrimSpace(question)}
	if answer.Question == "" {
		return answer, ErrQuestionRequired
	}

	var err error
	if s.Translator == nil {
		err = ErrTranslatorNotEnabled
	} else {
		var translated nl2sql.Result
		translated, err = s.Translator.Translate(ctx, answer.Question)
		answer.SQL = translated.SQL
		answer.Model = translated.Model
		answer.GenerationMS = translated.Duration.Milliseconds()
	}
	if err != nil {
		answer.Outcome = OutcomeGenerationFailed
		answer.Error = err.Error()
	} else {
		err = s.execute(ctx, &answer, o)
	}
	s.finish(ctx, &answer, o, start)
	return answer, err
}

// Run sends caller-supplied SQL through the same gate, executor and interpretation as Ask.
func (s *Service) Run(ctx context.Context, sqlText string, opts ...Option) (Answer, error) {
	o := collect(opts)
	start := s.now()
	answer := Answer{SQL: nl2sql.Sanitize(sqlText)}
	if answer.SQL == "" {
		return answer, ErrSQLRequired
	}
	err := s.execute(ctx, &answer, o)
	s.finish(ctx, &answer, o, start)
	return answer, err
}

// Translate returns generated SQL together with the gate's verdict, without executing it.
func (s *Service) Translate(ctx context.Context, question string) (nl2sql.Result, *sqlguard.Statement, error) {
	if strings.TrimSpace(question) == "" {
		return nl2sql.Result{}, nil, ErrQuestionRequired
	}
	if s.Translator == nil {
		return nl2sql.Result{}, nil, ErrTranslatorNotEnabled
	}
	result, err := s.Translator.Translate(ctx, question)
	if err != nil {
		return result, nil, err
	}
	if s.Gate == nil {
		return result, nil, nil
	}
	stmt, err := s.Gate.Check(result.SQL)
	if err != nil {
		return result, nil, err
	}
	return result, &stmt, nil
}

func (s *Service) execute(ctx context.Context, answer *Answer, o options) error {
	if s.Gate != nil {
		stmt, err := s.Gate.Check(answer.SQL)
		if err == nil && o.readOnly && stmt.Kind == query.KindMutation {
			err = &sqlguard.RejectionError{Reason: sqlguard.ReasonMutation, Detail: fmt.Sprintf("%s requires the operator role", stmt.Verb)}
			observability.IncrementGuardRejection(string(sqlguard.ReasonMutation))
		}
		if err != nil {
			answer.Outcome = OutcomeRejected
			answer.Error = err.Error()
			return err
		}
		answer.Statement = &stmt
	} else if o.readOnly && query.Classify(answer.SQL) == query.KindMutation {
		err := &sqlguard.RejectionError{Reason: sqlguard.ReasonMutation, Detail: "mutations require the operator role"}
		answer.Outcome = OutcomeRejected
		answer.Error = err.Error()
		return err
	}
	if s.Executor == nil {
		err := &query.ExecutionError{Kind: query.ErrorConnectivity, Err: errors.New("database is not configured")}
		answer.Outcome = OutcomeConnectivityFailed
		answer.Error = err.Error()
		return err
	}

	result, err := s.Executor.Execute(ctx, answer.SQL)
	answer.ExecutionMS = result.Duration.Milliseconds()
	if err != nil {
		answer.Outcome = OutcomeQueryFailed
		var execErr *query.ExecutionError
		if errors.As(err, &execErr) && execErr.Kind == query.ErrorConnectivity {
			answer.Outcome = OutcomeConnectivityFailed
		}
		answer.Error = err.Error()
		return err
	}

	if result.Kind == query.KindMutation {
		answer.Outcome = OutcomeMutationOK
		answer.Message = result.Message
		answer.RowsAffected = result.RowsAffected
		return nil
	}

	answer.Table = result.Table
	answer.Truncated = result.Truncated
	classes := s.rules().Classify(result.Table)
	answer.Classification = &classes
	if result.Table.Len() == 0 {
		answer.Outcome = OutcomeEmpty
		return nil
	}
	answer.Outcome = OutcomeOK
	answer.Charts = chart.Select(result.Table, classes)
	answer.Summary = interpret.Describe(result.Table)
	return nil
}

func (s *Service) finish(ctx context.Context, answer *Answer, o options, start time.Time) {
	elapsed := s.now().Sub(start)
	answer.TotalMS = elapsed.Milliseconds()
	observability.ObserveAsk(string(answer.Outcome), elapsed)

	attrs := []any{
		slog.String("outcome", string(answer.Outcome)),
		slog.String("dataset", s.datasetName()),
		slog.Int64("generation_ms", answer.GenerationMS),
		slog.Int64("execution_ms", answer.ExecutionMS),
		slog.Int64("total_ms", answer.TotalMS),
		slog.Int("rows", answer.Table.Len()),
	}
	if answer.Outcome.Failed() {
		s.logger().WarnContext(ctx, "ask_failed", append(attrs, slog.String("error", answer.Error))...)
	} else {
		s.logger().InfoContext(ctx, "ask_completed", attrs...)
	}
	s.logger().DebugContext(ctx, "ask_sql", slog.String("sql", answer.SQL))

	if s.History == nil {
		return
	}
	entry := history.Entry{
		SessionID:  o.sessionID,
		Dataset:    s.datasetName(),
		Question:   answer.Question,
		SQL:        answer.SQL,
		Outcome:    string(answer.Outcome),
		Error:      answer.Error,
		RowCount:   answer.Table.Len(),
		DurationMS: answer.TotalMS,
		CreatedAt:  start.UTC(),
	}
	// history must not turn an answer into a failure
	if err := s.History.Record(context.WithoutCancel(ctx), entry); err != nil {
		s.logger().WarnContext(ctx, "history record failed", slog.Any("error", err))
	}
}

func (s *Service) datasetName() string {
	if s.Schema == nil {
		return ""
	}
	return s.Schema.Name()
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
