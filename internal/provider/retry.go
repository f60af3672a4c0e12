package provider

import (
	"context"
	"time"
)

// RetryCompleter wraps a Completer with bounded retries. The original system
// performed zero retries and treated any failure as terminal; one retry on
// transient conditions is the documented extent of the change.
type RetryCompleter struct {
	inner      Completer
	maxRetries int
	baseDelay  time.Duration
}

// WithRetry wraps c. maxRetries is the number of additional attempts after
// the first, normally 1.
func WithRetry(c Completer, maxRetries int) *RetryCompleter {
	if maxRetries < 0 {
		maxRetries = 1
	}
	return &RetryCompleter{inner: c, maxRetries: maxRetries, baseDelay: 500 * time.Millisecond}
}

func (r *RetryCompleter) Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		reply, err := r.inner.Complete(ctx, system, prompt, maxTokens)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if !isRetryable(err) || attempt == r.maxRetries {
			break
		}
		delay := r.baseDelay << attempt
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", lastErr
		}
	}
	return "", lastErr
}
