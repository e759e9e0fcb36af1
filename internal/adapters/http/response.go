package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
)

// Response helpers for consistent JSON responses

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondErrorWithCode sends an error response with an error code
func respondErrorWithCode(w http.ResponseWriter, status int, message, code string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondErrorWithDetails sends an error response carrying the cause
func respondErrorWithDetails(w http.ResponseWriter, status int, message, code string, err error) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code, Details: err.Error()})
}

// handleDomainError maps domain errors to HTTP responses
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidSymbol):
		respondErrorWithDetails(w, http.StatusBadRequest, "invalid symbol format", "INVALID_SYMBOL", err)

	case errors.Is(err, domain.ErrNoSymbols):
		respondErrorWithCode(w, http.StatusBadRequest, "no symbols provided", "NO_SYMBOLS")

	case errors.Is(err, domain.ErrInvalidPrice):
		respondErrorWithCode(w, http.StatusBadRequest, "price must be a positive number up to 1000000", "INVALID_PRICE")

	case errors.Is(err, domain.ErrStockNotFound):
		respondErrorWithCode(w, http.StatusNotFound, "stock not found", "STOCK_NOT_FOUND")

	case errors.Is(err, domain.ErrUpdateInProgress):
		respondErrorWithCode(w, http.StatusConflict, "update already in progress", "UPDATE_IN_PROGRESS")

	case errors.Is(err, domain.ErrRateLimited):
		respondErrorWithCode(w, http.StatusTooManyRequests, "rate limited by provider", "RATE_LIMITED")

	case errors.Is(err, domain.ErrProviderUnavailable):
		respondErrorWithCode(w, http.StatusServiceUnavailable, "price provider unavailable", "PROVIDER_UNAVAILABLE")

	case errors.Is(err, domain.ErrDatabaseConnection):
		respondErrorWithCode(w, http.StatusServiceUnavailable, "database connection error", "DATABASE_ERROR")

	default:
		respondErrorWithCode(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
