package notify

import (
	"context"
	"log/slog"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
	"github.com/twomatetechnologies/moneyflow-prices/internal/ports"
)

// LogNotifier writes alerts to the structured log
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a new log notifier
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "alert_log")}
}

func (n *LogNotifier) Name() string { return "log" }

// Notify logs the alert at a level matching its severity
func (n *LogNotifier) Notify(ctx context.Context, alert domain.Alert) error {
	level := slog.LevelWarn
	switch alert.Severity {
	case domain.SeverityLow:
		level = slog.LevelInfo
	case domain.SeverityHigh, domain.SeverityCritical:
		level = slog.LevelError
	}

	n.logger.Log(ctx, level, alert.Message,
		"alert_id", alert.ID,
		"type", alert.Type,
		"severity", alert.Severity,
		"data", alert.Data,
	)
	return nil
}

// Ensure LogNotifier implements ports.AlertNotifier
var _ ports.AlertNotifier = (*LogNotifier)(nil)
