package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
)

// HealthCheck evaluates alert thresholds on demand
type HealthCheck interface {
	Check() []domain.Alert
}

// AlertChecker runs the monitor's threshold checks at regular intervals so
// staleness alerts fire even when no updates arrive
type AlertChecker struct {
	monitor  HealthCheck
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewAlertChecker creates a new alert checker
func NewAlertChecker(monitor HealthCheck, interval time.Duration, logger *slog.Logger) *AlertChecker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &AlertChecker{
		monitor:  monitor,
		interval: interval,
		logger:   logger.With("component", "alert_checker"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start blocks, checking thresholds every interval until ctx is cancelled
// or Stop is called
func (c *AlertChecker) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = true
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	c.mu.Unlock()

	c.logger.Info("starting alert checker", "interval", c.interval.String())

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("alert checker context cancelled")
			c.finish()
			return ctx.Err()

		case <-c.stopCh:
			c.logger.Info("alert checker stopped")
			c.finish()
			return nil

		case <-ticker.C:
			c.check()
		}
	}
}

func (c *AlertChecker) finish() {
	close(c.doneCh)
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

func (c *AlertChecker) check() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("alert check panicked", "panic", r)
		}
	}()

	if alerts := c.monitor.Check(); len(alerts) > 0 {
		c.logger.Debug("periodic check raised alerts", "count", len(alerts))
	}
}

// Stop gracefully stops the checker
func (c *AlertChecker) Stop() error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	stopCh, doneCh := c.stopCh, c.doneCh
	c.mu.Unlock()

	c.logger.Info("stopping alert checker")
	close(stopCh)

	select {
	case <-doneCh:
		return nil
	case <-time.After(10 * time.Second):
		return context.DeadlineExceeded
	}
}

// IsRunning returns whether the checker loop is active
func (c *AlertChecker) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
