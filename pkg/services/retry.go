package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
	"github.com/dskvich/chatgpt-web-chat/pkg/logger"
)

type retryState int

const (
	stateAttempting retryState = iota
	stateWaiting
	stateExhausted
)

type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type retrier struct {
	policy domain.RetryPolicy
	sleep  sleepFunc
}

// backoff is the wait after the failed attempt with 0-based index attempt.
func (r retrier) backoff(attempt int) time.Duration {
	return r.policy.Delay * time.Duration(1<<attempt)
}

func (r retrier) maxAttempts() int {
	return max(r.policy.MaxRetries, 1)
}

// retry runs call until it succeeds or the policy is exhausted. It returns the
// number of attempts made and, on exhaustion, the last error seen. A cancelled
// context during a wait ends the loop early.
func retry[T any](ctx context.Context, r retrier, call func(context.Context) (T, error)) (T, int, error) {
	var (
		zero    T
		attempt int
		lastErr error
		state   = stateAttempting
	)

	for {
		switch state {
		case stateAttempting:
			res, err := call(ctx)
			if err == nil {
				return res, attempt + 1, nil
			}
			lastErr = err
			state = stateWaiting
			if attempt+1 >= r.maxAttempts() {
				state = stateExhausted
			}

		case stateWaiting:
			wait := r.backoff(attempt)
			slog.WarnContext(ctx, "Retrying provider call",
				"attempt", attempt+1,
				"maxAttempts", r.maxAttempts(),
				"wait", wait,
				logger.Err(lastErr),
			)
			if err := r.sleep(ctx, wait); err != nil {
				lastErr = fmt.Errorf("waiting for retry: %w", err)
				state = stateExhausted
				continue
			}
			attempt++
			state = stateAttempting

		case stateExhausted:
			return zero, attempt + 1, lastErr
		}
	}
}
