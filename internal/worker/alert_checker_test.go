package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
)

type countingCheck struct {
	calls atomic.Int32
}

func (c *countingCheck) Check() []domain.Alert {
	c.calls.Add(1)
	return nil
}

func TestAlertChecker(t *testing.T) {
	check := &countingCheck{}
	checker := NewAlertChecker(check, 10*time.Millisecond, testLogger())

	errCh := make(chan error, 1)
	go func() { errCh <- checker.Start(context.Background()) }()

	assert.Eventually(t, func() bool { return check.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, checker.IsRunning())

	require.NoError(t, checker.Stop())
	require.NoError(t, <-errCh)
	assert.False(t, checker.IsRunning())
}

func TestAlertChecker_ContextCancel(t *testing.T) {
	checker := NewAlertChecker(&countingCheck{}, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- checker.Start(ctx) }()

	assert.Eventually(t, checker.IsRunning, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}
