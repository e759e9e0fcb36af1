package services

import (
	"sort"
	"sync"
	"time"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
)

const (
	// DefaultFailureThreshold is how many all-nil chunks abandon a provider
	DefaultFailureThreshold = 2

	// DefaultRateLimitCooldown benches a rate-limited provider
	DefaultRateLimitCooldown = 10 * time.Minute
)

type providerState struct {
	failureCount     int
	rateLimitedUntil time.Time
	lastUsed         time.Time
}

// ProviderHealth is the single in-memory health model for price providers.
// The orchestrator counts chunk failures in it and benches rate-limited
// providers; region routing reads availability from it. State is never
// persisted.
type ProviderHealth struct {
	failureThreshold int
	cooldown         time.Duration
	now              func() time.Time

	mu     sync.Mutex
	states map[string]*providerState
}

// NewProviderHealth creates a health registry. Non-positive arguments fall
// back to the defaults.
func NewProviderHealth(failureThreshold int, cooldown time.Duration) *ProviderHealth {
	if failureThreshold <= 0 {
		failureThreshold = DefaultFailureThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultRateLimitCooldown
	}
	return &ProviderHealth{
		failureThreshold: failureThreshold,
		cooldown:         cooldown,
		now:              time.Now,
		states:           make(map[string]*providerState),
	}
}

// WithClock replaces the time source, for tests
func (h *ProviderHealth) WithClock(now func() time.Time) *ProviderHealth {
	h.now = now
	return h
}

// state must be called with h.mu held
func (h *ProviderHealth) state(name string) *providerState {
	s, ok := h.states[name]
	if !ok {
		s = &providerState{}
		h.states[name] = s
	}
	return s
}

// Available reports whether name is outside a rate-limit cooldown.
// An expired cooldown is cleared.
func (h *ProviderHealth) Available(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.state(name)
	if s.rateLimitedUntil.IsZero() {
		return true
	}
	if h.now().Before(s.rateLimitedUntil) {
		return false
	}
	s.rateLimitedUntil = time.Time{}
	s.failureCount = 0
	return true
}

// MarkUsed stamps the provider's last use
func (h *ProviderHealth) MarkUsed(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state(name).lastUsed = h.now()
}

// MarkRateLimited benches the provider for the cooldown window
func (h *ProviderHealth) MarkRateLimited(name string) time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()

	until := h.now().Add(h.cooldown)
	h.state(name).rateLimitedUntil = until
	return until
}

// RecordFailure counts a failed chunk and reports whether the provider
// should be abandoned. The counter cycles back to zero when it trips.
func (h *ProviderHealth) RecordFailure(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.state(name)
	s.failureCount++
	if s.failureCount >= h.failureThreshold {
		s.failureCount = 0
		return true
	}
	return false
}

// RecordSuccess clears the failure counter
func (h *ProviderHealth) RecordSuccess(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state(name).failureCount = 0
}

// Filter returns the names that are currently available, preserving order
func (h *ProviderHealth) Filter(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if h.Available(n) {
			out = append(out, n)
		}
	}
	return out
}

// Snapshot returns the state of every known provider, sorted by name
func (h *ProviderHealth) Snapshot() []domain.ProviderState {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	out := make([]domain.ProviderState, 0, len(h.states))
	for name, s := range h.states {
		ps := domain.ProviderState{
			Name:         name,
			FailureCount: s.failureCount,
			Available:    s.rateLimitedUntil.IsZero() || !now.Before(s.rateLimitedUntil),
		}
		if !s.rateLimitedUntil.IsZero() && now.Before(s.rateLimitedUntil) {
			until := s.rateLimitedUntil
			ps.RateLimitedUntil = &until
		}
		if !s.lastUsed.IsZero() {
			used := s.lastUsed
			ps.LastUsed = &used
		}
		out = append(out, ps)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Register makes name visible in snapshots before its first use
func (h *ProviderHealth) Register(names ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, n := range names {
		h.state(n)
	}
}
