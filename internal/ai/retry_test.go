package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pwerrors "github.com/planwise/planwise/internal/errors"
)

// instantSleep replaces the backoff timer for the duration of a test and
// records the requested delays.
func instantSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	orig := timeSleep
	timeSleep = func(d time.Duration) <-chan time.Time {
		delays = append(delays, d)
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}
	t.Cleanup(func() { timeSleep = orig })
	return &delays
}

type scriptedClient struct {
	errs  []error
	calls int
}

func (s *scriptedClient) Complete(_ context.Context, _ []Message) (*Completion, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}
	return &Completion{Content: `{}`, Model: "test"}, nil
}

func (s *scriptedClient) Provider() string { return "scripted" }

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "auth error", err: NewProviderError("openai", 401, "unauthorized"), want: false},
		{name: "forbidden", err: NewProviderError("openai", 403, "forbidden"), want: false},
		{name: "validation error", err: pwerrors.Wrap(pwerrors.ErrInvalidResponse, "bad shape"), want: false},
		{name: "context canceled", err: context.Canceled, want: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: false},
		{name: "rate limited", err: NewProviderError("openai", 429, "slow down"), want: true},
		{name: "server error", err: NewProviderError("anthropic", 500, "oops"), want: true},
		{name: "transport failure", err: WrapTransportError("custom", errors.New("connection reset")), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}

func TestRetrierSucceedsAfterTransientFailures(t *testing.T) {
	delays := instantSleep(t)
	client := &scriptedClient{errs: []error{
		NewProviderError("openai", 429, "limit"),
		WrapTransportError("openai", errors.New("timeout")),
		nil,
	}}

	r := NewRetrier(zerolog.Nop())
	result, err := r.Complete(context.Background(), client, nil)

	require.NoError(t, err)
	assert.Equal(t, "test", result.Model)
	assert.Equal(t, 3, client.calls)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *delays)
}

func TestRetrierExhaustsAttempts(t *testing.T) {
	instantSleep(t)
	limit := NewProviderError("openai", 429, "limit")
	client := &scriptedClient{errs: []error{limit, limit, limit, limit}}

	r := NewRetrier(zerolog.Nop())
	_, err := r.Complete(context.Background(), client, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, pwerrors.ErrProviderRateLimited)
	assert.Equal(t, 3, client.calls, "exactly MaxRetryAttempts total attempts")
}

func TestRetrierTerminalErrorsAreImmediate(t *testing.T) {
	instantSleep(t)

	t.Run("auth failure", func(t *testing.T) {
		client := &scriptedClient{errs: []error{NewProviderError("openai", 401, "bad key")}}
		_, err := NewRetrier(zerolog.Nop()).Complete(context.Background(), client, nil)
		require.ErrorIs(t, err, pwerrors.ErrProviderAuth)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("validation failure", func(t *testing.T) {
		client := &scriptedClient{errs: []error{pwerrors.Wrap(pwerrors.ErrInvalidResponse, "bad")}}
		_, err := NewRetrier(zerolog.Nop()).Complete(context.Background(), client, nil)
		require.ErrorIs(t, err, pwerrors.ErrInvalidResponse)
		assert.Equal(t, 1, client.calls)
	})
}

func TestRetrierHonorsContextDuringBackoff(t *testing.T) {
	orig := timeSleep
	timeSleep = func(_ time.Duration) <-chan time.Time {
		return make(chan time.Time) // never fires
	}
	t.Cleanup(func() { timeSleep = orig })

	ctx, cancel := context.WithCancel(context.Background())
	client := &scriptedClient{errs: []error{NewProviderError("openai", 500, "down"), nil}}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := NewRetrier(zerolog.Nop()).Complete(ctx, client, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
