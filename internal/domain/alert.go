package domain

import (
	"time"

	"github.com/google/uuid"
)

// AlertType identifies which health check raised an alert
type AlertType string

const (
	AlertConsecutiveFailures  AlertType = "consecutive_failures"
	AlertNoRecentUpdates      AlertType = "no_recent_updates"
	AlertNoSuccessfulUpdates  AlertType = "no_successful_updates"
	AlertLowSuccessRate       AlertType = "low_success_rate"
	AlertSlowUpdates          AlertType = "slow_updates"
	AlertProviderLowSuccess   AlertType = "provider_low_success_rate"
	AlertProviderRateLimiting AlertType = "provider_rate_limiting"
)

// Severity ranks alerts
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Alert is a threshold violation raised by the monitor
type Alert struct {
	ID        string         `json:"id"`
	Type      AlertType      `json:"type"`
	Severity  Severity       `json:"severity"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewAlert creates an alert stamped with at
func NewAlert(t AlertType, sev Severity, msg string, at time.Time, data map[string]any) Alert {
	return Alert{
		ID:        uuid.NewString(),
		Type:      t,
		Severity:  sev,
		Message:   msg,
		Timestamp: at.UTC(),
		Data:      data,
	}
}
