package domain

import "errors"

var (
	// Symbol errors
	ErrInvalidSymbol = errors.New("invalid symbol format")
	ErrNoSymbols     = errors.New("no symbols provided")

	// Stock errors
	ErrStockNotFound = errors.New("stock not found")
	ErrInvalidPrice  = errors.New("invalid price")

	// Provider errors
	ErrProviderUnavailable = errors.New("price provider unavailable")
	ErrRateLimited         = errors.New("rate limited by provider")
	ErrInvalidResponse     = errors.New("invalid response from provider")

	// Scheduler errors
	ErrUpdateInProgress = errors.New("update already in progress")

	// Database errors
	ErrDatabaseConnection = errors.New("database connection error")
	ErrDatabaseQuery      = errors.New("database query error")

	// General errors
	ErrInternal = errors.New("internal server error")
)

// ProviderError attributes a failure to a named price provider
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err with the provider name
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

// IsRateLimited reports whether err carries a rate limit signal
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
