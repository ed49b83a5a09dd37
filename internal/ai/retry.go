package ai

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/planwise/planwise/internal/constants"
	pwerrors "github.com/planwise/planwise/internal/errors"
)

// timeSleep is a wrapper for time.After that can be overridden in tests.
// It returns a channel that receives after the given duration.
//
//nolint:gochecknoglobals // Required for test mocking
var timeSleep = func(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// isRetryable determines whether a provider error should be retried.
// Returns false for terminal errors (context errors, auth failures,
// structural validation failures). Returns true for transient errors
// (network failures, rate limits, server errors).
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context errors are not retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Authentication failures (401/403) are terminal
	if errors.Is(err, pwerrors.ErrProviderAuth) {
		return false
	}

	// Structural validation failures are terminal: retrying the same
	// malformed reply parse cannot help without a new completion, and the
	// orchestrator sits below response validation anyway.
	if errors.Is(err, pwerrors.ErrInvalidResponse) {
		return false
	}

	// Everything else (timeouts, 429, network errors, 5xx) is transient
	return true
}

// Retrier wraps provider calls with bounded exponential backoff.
// Up to MaxAttempts total attempts; the delay before retry n (0-based) is
// Base * 2^n. Terminal errors are surfaced immediately.
type Retrier struct {
	// MaxAttempts is the total attempt count including the first.
	MaxAttempts int

	// Base is the initial backoff delay.
	Base time.Duration

	// Logger records retry diagnostics. Zero value logs nowhere.
	Logger zerolog.Logger
}

// NewRetrier returns a Retrier with the default attempt budget.
func NewRetrier(logger zerolog.Logger) *Retrier {
	return &Retrier{
		MaxAttempts: constants.MaxRetryAttempts,
		Base:        constants.InitialBackoff,
		Logger:      logger,
	}
}

// Complete calls the client with retry. The last error propagates when
// attempts exhaust.
func (r *Retrier) Complete(ctx context.Context, client Client, messages []Message) (*Completion, error) {
	return r.do(ctx, func(ctx context.Context) (*Completion, error) {
		return client.Complete(ctx, messages)
	})
}

func (r *Retrier) do(ctx context.Context, call func(context.Context) (*Completion, error)) (*Completion, error) {
	maxAttempts := r.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = constants.MaxRetryAttempts
	}
	base := r.Base
	if base <= 0 {
		base = constants.InitialBackoff
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := call(ctx)
		if err == nil {
			if attempt > 0 {
				r.Logger.Info().
					Int("attempt", attempt+1).
					Msg("provider request succeeded after retry")
			}
			return result, nil
		}

		if !isRetryable(err) {
			r.Logger.Debug().
				Err(err).
				Int("attempt", attempt+1).
				Msg("provider request failed with terminal error")
			return nil, err
		}

		lastErr = err
		if attempt == maxAttempts-1 {
			break
		}

		delay := base * (1 << attempt)
		r.Logger.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_attempts", maxAttempts).
			Dur("backoff", delay).
			Msg("provider request failed, will retry after backoff")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeSleep(delay):
		}
	}

	r.Logger.Error().
		Err(lastErr).
		Int("max_attempts", maxAttempts).
		Msg("provider request failed after max retries")

	return nil, lastErr
}
