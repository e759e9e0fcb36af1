package domain

import "time"

// ProviderState is the in-process health of a price provider
type ProviderState struct {
	Name             string     `json:"name"`
	FailureCount     int        `json:"failureCount"`
	RateLimitedUntil *time.Time `json:"rateLimitedUntil,omitempty"`
	LastUsed         *time.Time `json:"lastUsed,omitempty"`
	Available        bool       `json:"available"`
}

// SchedulerStats are the counters maintained across update runs
type SchedulerStats struct {
	TotalRuns           int64         `json:"totalRuns"`
	SuccessfulRuns      int64         `json:"successfulRuns"`
	FailedRuns          int64         `json:"failedRuns"`
	SkippedRuns         int64         `json:"skippedRuns"`
	AverageDurationMs   float64       `json:"averageDurationMs"`
	ConsecutiveFailures int           `json:"consecutiveFailures"`
	LastRun             *time.Time    `json:"lastRun,omitempty"`
	LastSuccess         *time.Time    `json:"lastSuccess,omitempty"`
	LastResult          *UpdateResult `json:"lastResult,omitempty"`
}

// JobStatus describes one registered trigger
type JobStatus struct {
	Name            string     `json:"name"`
	Spec            string     `json:"spec"`
	RespectCalendar bool       `json:"respectCalendar"`
	NextRun         *time.Time `json:"nextRun,omitempty"`
}

// SchedulerStatus is the snapshot served by the scheduler status endpoint
type SchedulerStatus struct {
	Running   bool            `json:"running"`
	Updating  bool            `json:"updating"`
	Stats     SchedulerStats  `json:"stats"`
	Jobs      []JobStatus     `json:"jobs"`
	Providers []ProviderState `json:"providers"`
}

// ProviderStats are the monitor's per-provider request counters
type ProviderStats struct {
	Requests         int64      `json:"requests"`
	Successes        int64      `json:"successes"`
	Failures         int64      `json:"failures"`
	RateLimitErrors  int64      `json:"rateLimitErrors"`
	AverageLatencyMs float64    `json:"averageLatencyMs"`
	LastUsed         *time.Time `json:"lastUsed,omitempty"`
}

// SuccessRate returns successes over requests, or 1 when there were none
func (s ProviderStats) SuccessRate() float64 {
	if s.Requests == 0 {
		return 1
	}
	return float64(s.Successes) / float64(s.Requests)
}

// RateLimitRatio returns rate limit errors over requests
func (s ProviderStats) RateLimitRatio() float64 {
	if s.Requests == 0 {
		return 0
	}
	return float64(s.RateLimitErrors) / float64(s.Requests)
}

// SymbolStats are the monitor's per-symbol counters
type SymbolStats struct {
	Attempts            int64      `json:"attempts"`
	Successes           int64      `json:"successes"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
	LastSuccess         *time.Time `json:"lastSuccess,omitempty"`
}

// MonitorStats are the monitor's global counters
type MonitorStats struct {
	TotalUpdates        int64      `json:"totalUpdates"`
	SuccessfulUpdates   int64      `json:"successfulUpdates"`
	FailedUpdates       int64      `json:"failedUpdates"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
	AverageDurationMs   float64    `json:"averageDurationMs"`
	SuccessRate         float64    `json:"successRate"`
	LastUpdate          *time.Time `json:"lastUpdate,omitempty"`
	LastSuccess         *time.Time `json:"lastSuccess,omitempty"`
}

// MonitorReport is the snapshot served by the monitor endpoint
type MonitorReport struct {
	Uptime       float64                  `json:"uptimeSeconds"`
	Stats        MonitorStats             `json:"stats"`
	Providers    map[string]ProviderStats `json:"providers"`
	Symbols      map[string]SymbolStats   `json:"symbols"`
	RecentAlerts []Alert                  `json:"recentAlerts"`
}
