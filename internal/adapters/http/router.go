package http

import (
	"log/slog"
	"net/http"
)

// NewRouter creates the HTTP router with all routes
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", h.Health)

	// Price refresh
	mux.HandleFunc("POST /api/stocks/refresh-prices", h.RefreshPrices)

	// Scheduler
	mux.HandleFunc("GET /api/stocks/scheduler/status", h.SchedulerStatus)
	mux.HandleFunc("POST /api/stocks/scheduler/force-update", h.ForceUpdate)

	// Monitor
	mux.HandleFunc("GET /api/stocks/monitor", h.MonitorReport)
	mux.HandleFunc("GET /api/stocks/monitor/alerts", h.MonitorAlerts)

	// Holdings
	mux.HandleFunc("GET /api/stocks", h.ListStocks)
	mux.HandleFunc("GET /api/stocks/history", h.GetHistory)
	mux.HandleFunc("GET /api/stocks/{id}", h.GetStock)
	mux.HandleFunc("PATCH /api/stocks/{id}/price", h.UpdateStockPrice)

	// Apply middleware chain (order matters: outer -> inner)
	var handler http.Handler = mux
	handler = ContentTypeMiddleware(handler)
	handler = CORSMiddleware(handler)
	handler = RecoveryMiddleware(logger)(handler)
	handler = LoggingMiddleware(logger)(handler)

	return handler
}
