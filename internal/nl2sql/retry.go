package nl2sql

import (
	"context"
	"errors"
	"time"
)

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type RetryConfig struct {
	MaxRetries int
	Delay      time.Duration
	// OnRetry is called before each retry attempt.
	OnRetry func(attempt int, err error)
}

// RetryingCompleter retries retryable upstream failures a bounded number of times.
type RetryingCompleter struct {
	next Completer
	cfg  RetryConfig
}

func NewRetryingCompleter(next Completer, cfg RetryConfig) *RetryingCompleter {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &RetryingCompleter{next: next, cfg: cfg}
}

func (c *RetryingCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if c.cfg.OnRetry != nil {
				c.cfg.OnRetry(attempt, lastErr)
			}
			if err := sleepContext(ctx, c.cfg.Delay*time.Duration(attempt)); err != nil {
				return "", lastErr
			}
		}
		text, err := c.next.Complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		var upstream *UpstreamError
		if !errors.As(err, &upstream) || !upstream.Retryable || ctx.Err() != nil {
			return "", err
		}
	}
	return "", lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
