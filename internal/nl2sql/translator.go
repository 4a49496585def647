package nl2sql

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/askdata/askdata/internal/knowledge"
	"github.com/askdata/askdata/internal/observability"
)

var ErrQuestionRequired = errors.New("question is required")

type Result struct {
	SQL      string        `json:"sql"`
	Raw      string        `json:"-"`
	Model    string        `json:"model,omitempty"`
	Duration time.Duration `json:"-"`
}

// Translator turns a question into candidate query text: compose, complete, sanitize.
type Translator struct {
	schema    *knowledge.Schema
	completer Completer
	model     string
	timeout   time.Duration
}

type TranslatorConfig struct {
	Model   string
	Timeout time.Duration
}

func NewTranslator(schema *knowledge.Schema, completer Completer, cfg TranslatorConfig) (*Translator, error) {
	if schema == nil {
		return nil, errors.New("schema is required")
	}
	if completer == nil {
		return nil, errors.New("completer is required")
	}
	return &Translator{schema: schema, completer: completer, model: cfg.Model, timeout: cfg.Timeout}, nil
}

func (t *Translator) Schema() *knowledge.Schema { return t.schema }

// Prompt returns the exact prompt Translate would send for question.
func (t *Translator) Prompt(question string) string {
	return Compose(question, t.schema)
}

func (t *Translator) Translate(ctx context.Context, question string) (Result, error) {
	if strings.TrimSpace(question) == "" {
		return Result{}, ErrQuestionRequired
	}
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := t.completer.Complete(ctx, t.Prompt(question))
	elapsed := time.Since(start)
	if err == nil && Sanitize(raw) == "" {
		err = &UpstreamError{Op: "chat completion", Err: ErrEmptyCompletion}
	}
	observability.ObserveCompletion(err, elapsed)
	if err != nil {
		var upstream *UpstreamError
		if !errors.As(err, &upstream) {
			err = &UpstreamError{Op: "chat completion", Err: err}
		}
		return Result{Raw: raw, Model: t.model, Duration: elapsed}, err
	}
	return Result{SQL: Sanitize(raw), Raw: raw, Model: t.model, Duration: elapsed}, nil
}
