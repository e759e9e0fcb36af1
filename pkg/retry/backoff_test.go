package retry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twomatetechnologies/moneyflow-prices/pkg/retry"
)

func fastConfig(maxRetries int) retry.Config {
	return retry.Config{
		MaxRetries:     maxRetries,
		InitialBackoff: 5 * time.Millisecond,
		MaxBackoff:     20 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestDo(t *testing.T) {
	permanent := errors.New("permanent")

	tests := []struct {
		name      string
		cfg       retry.Config
		failUntil int
		errFn     func() error
		wantCalls int
		wantErr   error
	}{
		{
			name:      "succeeds first try",
			cfg:       fastConfig(3),
			wantCalls: 1,
		},
		{
			name:      "retries retryable errors",
			cfg:       fastConfig(3),
			failUntil: 3,
			errFn:     func() error { return retry.NewRetryableError(errors.New("temporary")) },
			wantCalls: 3,
		},
		{
			name:      "stops on permanent error",
			cfg:       fastConfig(3),
			failUntil: 10,
			errFn:     func() error { return permanent },
			wantCalls: 1,
			wantErr:   permanent,
		},
		{
			name:      "no retry config makes one call",
			cfg:       retry.NoRetry(),
			failUntil: 10,
			errFn:     func() error { return retry.NewRetryableError(permanent) },
			wantCalls: 1,
			wantErr:   permanent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := retry.Do(context.Background(), tt.cfg, func(ctx context.Context) error {
				calls++
				if calls < tt.failUntil || (tt.failUntil > 0 && tt.wantErr != nil) {
					return tt.errFn()
				}
				return nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDo_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), fastConfig(2), func(ctx context.Context) error {
		calls++
		return retry.NewRetryableError(errors.New("always fails"))
	})

	assert.Error(t, err)
	assert.Equal(t, 3, calls) // Initial + 2 retries
}

func TestDo_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	cfg := retry.Config{MaxRetries: 10, InitialBackoff: 100 * time.Millisecond, Multiplier: 2.0}

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := retry.Do(ctx, cfg, func(ctx context.Context) error {
		calls++
		return retry.NewRetryableError(errors.New("temporary"))
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, calls, 2)
}

func TestDoWithResult_RetryAndSucceed(t *testing.T) {
	calls := 0
	result, err := retry.DoWithResult(context.Background(), fastConfig(3), func(ctx context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", retry.NewRetryableError(errors.New("temporary"))
		}
		return "success", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 2, calls)
}

func TestIsRetryable(t *testing.T) {
	inner := retry.NewRetryableError(errors.New("temporary"))

	assert.True(t, retry.IsRetryable(inner))
	assert.True(t, retry.IsRetryable(fmt.Errorf("wrapped: %w", inner)))
	assert.False(t, retry.IsRetryable(errors.New("permanent")))
}

func TestBackoff(t *testing.T) {
	cfg := retry.Config{InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, Multiplier: 2.0}

	assert.Equal(t, 100*time.Millisecond, retry.Backoff(cfg, 1))
	assert.Equal(t, 200*time.Millisecond, retry.Backoff(cfg, 2))
	assert.Equal(t, 400*time.Millisecond, retry.Backoff(cfg, 3))
	assert.Equal(t, time.Second, retry.Backoff(cfg, 10))
}

func TestSleep(t *testing.T) {
	t.Run("zero duration returns immediately", func(t *testing.T) {
		assert.NoError(t, retry.Sleep(context.Background(), 0))
	})

	t.Run("cancelled context interrupts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		err := retry.Sleep(ctx, time.Minute)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := retry.DefaultConfig()
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.InitialBackoff)
	assert.Equal(t, 5*time.Second, cfg.MaxBackoff)
	assert.Equal(t, 2.0, cfg.Multiplier)
}
