package domain

import "time"

// UpdateResult summarizes one scheduled or manual price update run
type UpdateResult struct {
	Success        bool          `json:"success"`
	Reason         string        `json:"reason,omitempty"`
	Trigger        string        `json:"trigger"`
	UpdatedCount   int           `json:"updatedCount"`
	FailedCount    int           `json:"failedCount"`
	Errors         []string      `json:"errors"`
	UpdatedSymbols []string      `json:"updatedSymbols,omitempty"`
	FailedSymbols  []string      `json:"failedSymbols,omitempty"`
	Duration       time.Duration `json:"-"`
	DurationMs     int64         `json:"durationMs"`
	StartedAt      time.Time     `json:"startedAt"`
}

// Finish stamps the duration up to end and derives Success. end must come
// from the same clock as StartedAt. A run succeeds when it produced no fatal
// error and either updated something or had nothing to do.
func (r *UpdateResult) Finish(end time.Time, fatal error) {
	r.Duration = end.Sub(r.StartedAt)
	if r.Duration < 0 {
		r.Duration = 0
	}
	r.DurationMs = r.Duration.Milliseconds()
	if fatal != nil {
		r.Success = false
		r.Reason = fatal.Error()
		r.Errors = append(r.Errors, fatal.Error())
		return
	}
	r.Success = r.UpdatedCount > 0 || r.FailedCount == 0
}

// RefreshOutcome is the result of refreshing an explicit list of symbols
type RefreshOutcome struct {
	Prices        Prices
	Updated       int
	Total         int
	FailedSymbols []string
	Providers     []string
}
