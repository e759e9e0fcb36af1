package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
	"github.com/twomatetechnologies/moneyflow-prices/internal/ports"
)

const defaultAlertLimit = 20

// Pinger checks a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains all HTTP handlers
type Handler struct {
	updater   ports.PriceUpdater
	scheduler ports.UpdateScheduler
	monitor   ports.UpdateMonitor
	stocks    ports.StockService
	db        Pinger
	logger    *slog.Logger
}

// NewHandler creates a new handler
func NewHandler(
	updater ports.PriceUpdater,
	scheduler ports.UpdateScheduler,
	monitor ports.UpdateMonitor,
	stocks ports.StockService,
	db Pinger,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		updater:   updater,
		scheduler: scheduler,
		monitor:   monitor,
		stocks:    stocks,
		db:        db,
		logger:    logger.With("component", "http_handler"),
	}
}

// Health returns service health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	checkCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "healthy"
	dbStatus := "healthy"
	code := http.StatusOK

	if err := h.db.Ping(checkCtx); err != nil {
		h.logger.Warn("health check failed", "error", err)
		status = "unhealthy"
		dbStatus = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	sched := h.scheduler.Status()
	respondJSON(w, code, map[string]interface{}{
		"status":    status,
		"database":  dbStatus,
		"scheduler": map[string]bool{"running": sched.Running, "updating": sched.Updating},
	})
}

// RefreshPricesRequest represents the request body for a manual refresh
type RefreshPricesRequest struct {
	Symbols []string `json:"symbols"`
}

// RefreshPricesResponse reports a manual refresh
type RefreshPricesResponse struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message"`
	Updated       int           `json:"updated"`
	Total         int           `json:"total"`
	Prices        domain.Prices `json:"prices"`
	FailedSymbols []string      `json:"failedSymbols,omitempty"`
	Providers     []string      `json:"providers"`
}

// RefreshPrices fetches and stores prices for the given symbols. Fetch
// failures are reported as 207 or 503, never as 500.
func (h *Handler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	var req RefreshPricesRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Symbols) == 0 {
		respondErrorWithCode(w, http.StatusBadRequest, "symbols array is required", "NO_SYMBOLS")
		return
	}

	outcome, err := h.updater.RefreshSymbols(r.Context(), req.Symbols)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSymbol) || errors.Is(err, domain.ErrNoSymbols) {
			handleDomainError(w, err)
			return
		}
		h.logger.Error("price refresh failed", "error", err)
		respondErrorWithCode(w, http.StatusInternalServerError, "failed to store refreshed prices", "STORAGE_ERROR")
		return
	}

	resp := RefreshPricesResponse{
		Success:       outcome.Updated > 0,
		Updated:       outcome.Updated,
		Total:         outcome.Total,
		Prices:        outcome.Prices,
		FailedSymbols: outcome.FailedSymbols,
		Providers:     outcome.Providers,
	}

	status := http.StatusOK
	switch {
	case outcome.Updated == outcome.Total:
		resp.Message = fmt.Sprintf("Updated prices for all %d symbols", outcome.Total)
	case outcome.Updated > 0:
		status = http.StatusMultiStatus
		resp.Message = fmt.Sprintf("Updated prices for %d of %d symbols", outcome.Updated, outcome.Total)
	default:
		status = http.StatusServiceUnavailable
		resp.Message = "Unable to fetch prices from any provider"
	}

	respondJSON(w, status, resp)
}

// SchedulerStatus returns the scheduler state and run statistics
func (h *Handler) SchedulerStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.scheduler.Status())
}

// ForceUpdate runs a full update now. A concurrent update yields 409.
func (h *Handler) ForceUpdate(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduler.ForceUpdate(r.Context())
	if errors.Is(err, domain.ErrUpdateInProgress) {
		respondJSON(w, http.StatusConflict, map[string]interface{}{
			"success": false,
			"reason":  result.Reason,
		})
		return
	}
	if err != nil {
		handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, result)
}

// MonitorReport returns monitor statistics and recent alerts
func (h *Handler) MonitorReport(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.monitor.Report())
}

// MonitorAlerts returns the alert history, newest first
func (h *Handler) MonitorAlerts(w http.ResponseWriter, r *http.Request) {
	limit := defaultAlertLimit
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		l, err := strconv.Atoi(limitParam)
		if err != nil || l < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = l
	}

	alerts := h.monitor.Alerts(limit)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// ListStocks returns every holding
func (h *Handler) ListStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.stocks.ListStocks(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"stocks": stocks,
	})
}

// GetStock returns a single holding
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	stock, err := h.stocks.GetStock(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stock)
}

// UpdatePriceRequest represents the request body for a price patch
type UpdatePriceRequest struct {
	CurrentPrice *float64 `json:"currentPrice"`
}

// UpdateStockPrice sets a holding's current price by id
func (h *Handler) UpdateStockPrice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CurrentPrice == nil {
		respondError(w, http.StatusBadRequest, "currentPrice is required")
		return
	}

	stock, err := h.stocks.UpdateStockPrice(r.Context(), id, *req.CurrentPrice)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stock)
}

// HistoryItem represents a history item in the API response
type HistoryItem struct {
	Price     string `json:"price"`
	Source    string `json:"source"`
	Timestamp string `json:"ts"`
}

// GetHistory returns recorded prices for a symbol
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol parameter is required")
		return
	}

	// Parse limit
	limit := 100
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	history, err := h.stocks.GetPriceHistory(r.Context(), symbol, limit)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	items := make([]HistoryItem, len(history))
	for i, s := range history {
		items[i] = HistoryItem{
			Price:     s.Price.String(),
			Source:    s.Source,
			Timestamp: s.FetchedAt.Format(time.RFC3339),
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": strings.ToUpper(strings.TrimSpace(symbol)),
		"items":  items,
	})
}

// pathID parses the {id} path segment, writing a 400 when it is invalid
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "invalid stock id")
		return 0, false
	}
	return id, true
}
