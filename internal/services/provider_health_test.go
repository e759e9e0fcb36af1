package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twomatetechnologies/moneyflow-prices/internal/services"
)

func TestProviderHealth_FailureThreshold(t *testing.T) {
	h := services.NewProviderHealth(2, time.Minute)

	assert.False(t, h.RecordFailure("yahoo"))
	assert.True(t, h.RecordFailure("yahoo"), "second failure trips the threshold")
	assert.False(t, h.RecordFailure("yahoo"), "counter cycles back to zero after tripping")

	h.RecordSuccess("yahoo")
	assert.False(t, h.RecordFailure("yahoo"))
}

func TestProviderHealth_RateLimitCooldown(t *testing.T) {
	clock := newFakeClock()
	h := services.NewProviderHealth(0, 0).WithClock(clock.Now)

	until := h.MarkRateLimited("twelvedata")
	assert.Equal(t, clock.Now().Add(services.DefaultRateLimitCooldown), until)
	assert.False(t, h.Available("twelvedata"))
	assert.Equal(t, []string{"yahoo", "alphavantage"}, h.Filter([]string{"yahoo", "twelvedata", "alphavantage"}))

	clock.Advance(services.DefaultRateLimitCooldown)
	assert.True(t, h.Available("twelvedata"), "cooldown expires")
	assert.Len(t, h.Filter([]string{"yahoo", "twelvedata"}), 2)
}

func TestProviderHealth_Snapshot(t *testing.T) {
	clock := newFakeClock()
	h := services.NewProviderHealth(3, 5*time.Minute).WithClock(clock.Now)
	h.Register("yahoo", "twelvedata", "alphavantage")

	h.MarkUsed("yahoo")
	h.RecordFailure("alphavantage")
	h.MarkRateLimited("twelvedata")

	snap := h.Snapshot()
	require.Len(t, snap, 3)

	assert.Equal(t, "alphavantage", snap[0].Name)
	assert.Equal(t, 1, snap[0].FailureCount)
	assert.True(t, snap[0].Available)
	assert.Nil(t, snap[0].LastUsed)

	assert.Equal(t, "twelvedata", snap[1].Name)
	assert.False(t, snap[1].Available)
	require.NotNil(t, snap[1].RateLimitedUntil)
	assert.Equal(t, clock.Now().Add(5*time.Minute), *snap[1].RateLimitedUntil)

	assert.Equal(t, "yahoo", snap[2].Name)
	require.NotNil(t, snap[2].LastUsed)
}
