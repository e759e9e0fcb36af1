package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
	"github.com/twomatetechnologies/moneyflow-prices/internal/ports"
)

// DefaultAlertHistory is how many alerts the monitor retains
const DefaultAlertHistory = 100

// MonitorThresholds configures when the monitor raises alerts
type MonitorThresholds struct {
	ConsecutiveFailures       int
	NoUpdateWindow            time.Duration
	NoSuccessWindow           time.Duration
	MinSuccessRate            float64
	MinUpdatesForRate         int64
	SlowUpdate                time.Duration
	ProviderMinSuccessRate    float64
	ProviderMinRequests       int64
	ProviderMaxRateLimitRatio float64
}

// DefaultMonitorThresholds returns the standard alerting thresholds
func DefaultMonitorThresholds() MonitorThresholds {
	return MonitorThresholds{
		ConsecutiveFailures:       3,
		NoUpdateWindow:            24 * time.Hour,
		NoSuccessWindow:           12 * time.Hour,
		MinSuccessRate:            0.8,
		MinUpdatesForRate:         10,
		SlowUpdate:                5 * time.Minute,
		ProviderMinSuccessRate:    0.5,
		ProviderMinRequests:       5,
		ProviderMaxRateLimitRatio: 0.3,
	}
}

type providerAggregate struct {
	stats        domain.ProviderStats
	totalLatency time.Duration
}

// Monitor records update outcomes and provider requests, and raises
// threshold alerts to the registered notifiers.
type Monitor struct {
	thresholds    MonitorThresholds
	notifiers     []ports.AlertNotifier
	notifyTimeout time.Duration
	historySize   int
	now           func() time.Time
	startTime     time.Time
	logger        *slog.Logger

	mu            sync.RWMutex
	stats         domain.MonitorStats
	totalDuration time.Duration
	providers     map[string]*providerAggregate
	symbols       map[string]*domain.SymbolStats
	alerts        []domain.Alert
}

// MonitorOption configures the monitor
type MonitorOption func(*Monitor)

// WithThresholds overrides the alerting thresholds
func WithThresholds(t MonitorThresholds) MonitorOption {
	return func(m *Monitor) {
		m.thresholds = t
	}
}

// WithNotifiers registers alert notifiers
func WithNotifiers(notifiers ...ports.AlertNotifier) MonitorOption {
	return func(m *Monitor) {
		m.notifiers = append(m.notifiers, notifiers...)
	}
}

// WithAlertHistory sets how many alerts are retained
func WithAlertHistory(size int) MonitorOption {
	return func(m *Monitor) {
		if size > 0 {
			m.historySize = size
		}
	}
}

// WithMonitorClock replaces the time source, for tests
func WithMonitorClock(now func() time.Time) MonitorOption {
	return func(m *Monitor) {
		m.now = now
	}
}

// NewMonitor creates a new monitor
func NewMonitor(logger *slog.Logger, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		thresholds:    DefaultMonitorThresholds(),
		notifyTimeout: 10 * time.Second,
		historySize:   DefaultAlertHistory,
		now:           time.Now,
		logger:        logger.With("component", "monitor"),
		providers:     make(map[string]*providerAggregate),
		symbols:       make(map[string]*domain.SymbolStats),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.startTime = m.now()
	return m
}

// RecordUpdate books an update run and returns the alerts it raised
func (m *Monitor) RecordUpdate(result *domain.UpdateResult) []domain.Alert {
	if result == nil {
		return nil
	}

	m.mu.Lock()
	now := m.now()
	s := &m.stats

	s.TotalUpdates++
	s.LastUpdate = timePtr(now)
	if result.Success {
		s.SuccessfulUpdates++
		s.ConsecutiveFailures = 0
		s.LastSuccess = timePtr(now)
	} else {
		s.FailedUpdates++
		s.ConsecutiveFailures++
	}
	m.totalDuration += result.Duration
	s.AverageDurationMs = float64(m.totalDuration.Milliseconds()) / float64(s.TotalUpdates)
	s.SuccessRate = float64(s.SuccessfulUpdates) / float64(s.TotalUpdates)

	for _, sym := range result.UpdatedSymbols {
		st := m.symbol(sym)
		st.Attempts++
		st.Successes++
		st.ConsecutiveFailures = 0
		st.LastSuccess = timePtr(now)
	}
	for _, sym := range result.FailedSymbols {
		st := m.symbol(sym)
		st.Attempts++
		st.ConsecutiveFailures++
	}

	consecutive := s.ConsecutiveFailures
	raised := m.evaluate(now)
	m.remember(raised)
	m.mu.Unlock()

	if !result.Success {
		m.logger.Warn("update failed",
			"trigger", result.Trigger,
			"consecutive_failures", consecutive,
			"errors", len(result.Errors))
	}

	m.dispatch(raised)
	return raised
}

// RecordProviderRequest books the outcome of one provider request
func (m *Monitor) RecordProviderRequest(provider string, success, rateLimited bool, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	agg, ok := m.providers[provider]
	if !ok {
		agg = &providerAggregate{}
		m.providers[provider] = agg
	}

	st := &agg.stats
	st.Requests++
	if success {
		st.Successes++
	} else {
		st.Failures++
	}
	if rateLimited {
		st.RateLimitErrors++
	}
	agg.totalLatency += latency
	st.AverageLatencyMs = float64(agg.totalLatency.Milliseconds()) / float64(st.Requests)
	st.LastUsed = timePtr(m.now())
}

// Check evaluates every threshold without recording an update. Staleness
// alerts can only fire from here once updates stop arriving.
func (m *Monitor) Check() []domain.Alert {
	m.mu.Lock()
	raised := m.evaluate(m.now())
	m.remember(raised)
	m.mu.Unlock()

	m.dispatch(raised)
	return raised
}

// Report returns a snapshot of every counter and the retained alerts
func (m *Monitor) Report() domain.MonitorReport {
	m.mu.RLock()
	defer m.mu.RUnlock()

	providers := make(map[string]domain.ProviderStats, len(m.providers))
	for name, agg := range m.providers {
		providers[name] = agg.stats
	}
	symbols := make(map[string]domain.SymbolStats, len(m.symbols))
	for name, st := range m.symbols {
		symbols[name] = *st
	}

	return domain.MonitorReport{
		Uptime:       m.now().Sub(m.startTime).Seconds(),
		Stats:        m.stats,
		Providers:    providers,
		Symbols:      symbols,
		RecentAlerts: m.recent(10),
	}
}

// Alerts returns up to limit most recent alerts, newest first.
// A non-positive limit returns the whole history.
func (m *Monitor) Alerts(limit int) []domain.Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.recent(limit)
}

// recent must be called with m.mu held
func (m *Monitor) recent(limit int) []domain.Alert {
	n := len(m.alerts)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]domain.Alert, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, m.alerts[i])
	}
	return out
}

// symbol must be called with m.mu held
func (m *Monitor) symbol(name string) *domain.SymbolStats {
	st, ok := m.symbols[name]
	if !ok {
		st = &domain.SymbolStats{}
		m.symbols[name] = st
	}
	return st
}

// remember must be called with m.mu held
func (m *Monitor) remember(alerts []domain.Alert) {
	m.alerts = append(m.alerts, alerts...)
	if over := len(m.alerts) - m.historySize; over > 0 {
		m.alerts = append([]domain.Alert(nil), m.alerts[over:]...)
	}
}

// evaluate must be called with m.mu held
func (m *Monitor) evaluate(now time.Time) []domain.Alert {
	t := m.thresholds
	s := m.stats
	var alerts []domain.Alert

	if t.ConsecutiveFailures > 0 && s.ConsecutiveFailures >= t.ConsecutiveFailures {
		alerts = append(alerts, domain.NewAlert(domain.AlertConsecutiveFailures, domain.SeverityHigh,
			fmt.Sprintf("%d consecutive update failures", s.ConsecutiveFailures), now,
			map[string]any{"consecutiveFailures": s.ConsecutiveFailures}))
	}

	lastUpdate := m.startTime
	if s.LastUpdate != nil {
		lastUpdate = *s.LastUpdate
	}
	if since := now.Sub(lastUpdate); since > t.NoUpdateWindow {
		alerts = append(alerts, domain.NewAlert(domain.AlertNoRecentUpdates, domain.SeverityHigh,
			fmt.Sprintf("no price update for %s", since.Round(time.Minute)), now,
			map[string]any{"lastUpdate": s.LastUpdate, "hoursSince": since.Hours()}))
	}

	lastSuccess := m.startTime
	if s.LastSuccess != nil {
		lastSuccess = *s.LastSuccess
	}
	if since := now.Sub(lastSuccess); since > t.NoSuccessWindow {
		alerts = append(alerts, domain.NewAlert(domain.AlertNoSuccessfulUpdates, domain.SeverityCritical,
			fmt.Sprintf("no successful price update for %s", since.Round(time.Minute)), now,
			map[string]any{"lastSuccess": s.LastSuccess, "hoursSince": since.Hours()}))
	}

	if s.TotalUpdates >= t.MinUpdatesForRate && s.SuccessRate < t.MinSuccessRate {
		alerts = append(alerts, domain.NewAlert(domain.AlertLowSuccessRate, domain.SeverityMedium,
			fmt.Sprintf("update success rate %.1f%% below %.0f%%", s.SuccessRate*100, t.MinSuccessRate*100), now,
			map[string]any{"successRate": s.SuccessRate, "totalUpdates": s.TotalUpdates}))
	}

	if s.TotalUpdates > 0 && s.AverageDurationMs > float64(t.SlowUpdate.Milliseconds()) {
		alerts = append(alerts, domain.NewAlert(domain.AlertSlowUpdates, domain.SeverityLow,
			fmt.Sprintf("average update duration %.0fms exceeds %s", s.AverageDurationMs, t.SlowUpdate), now,
			map[string]any{"averageDurationMs": s.AverageDurationMs}))
	}

	for name, agg := range m.providers {
		ps := agg.stats
		if ps.Requests >= t.ProviderMinRequests && ps.SuccessRate() < t.ProviderMinSuccessRate {
			alerts = append(alerts, domain.NewAlert(domain.AlertProviderLowSuccess, domain.SeverityMedium,
				fmt.Sprintf("provider %s success rate %.1f%%", name, ps.SuccessRate()*100), now,
				map[string]any{"provider": name, "successRate": ps.SuccessRate(), "requests": ps.Requests}))
		}
		if ps.RateLimitRatio() > t.ProviderMaxRateLimitRatio {
			alerts = append(alerts, domain.NewAlert(domain.AlertProviderRateLimiting, domain.SeverityMedium,
				fmt.Sprintf("provider %s rate limited on %.1f%% of requests", name, ps.RateLimitRatio()*100), now,
				map[string]any{"provider": name, "rateLimitRatio": ps.RateLimitRatio(), "requests": ps.Requests}))
		}
	}

	return alerts
}

// dispatch hands each alert to every notifier without blocking the caller
func (m *Monitor) dispatch(alerts []domain.Alert) {
	for _, alert := range alerts {
		m.logger.Warn("alert raised",
			"alert_id", alert.ID,
			"type", alert.Type,
			"severity", alert.Severity,
			"message", alert.Message)

		for _, n := range m.notifiers {
			go m.notify(n, alert)
		}
	}
}

func (m *Monitor) notify(n ports.AlertNotifier, alert domain.Alert) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("alert notifier panicked", "notifier", n.Name(), "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), m.notifyTimeout)
	defer cancel()

	if err := n.Notify(ctx, alert); err != nil {
		m.logger.Error("alert notifier failed", "notifier", n.Name(), "alert_id", alert.ID, "error", err)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// Ensure Monitor implements the monitor ports
var (
	_ ports.UpdateMonitor    = (*Monitor)(nil)
	_ ports.ProviderObserver = (*Monitor)(nil)
)
