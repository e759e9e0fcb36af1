package ports

//go:generate mockgen -source=services.go -destination=../mocks/mock_services.go -package=mocks

import (
	"context"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
)

// PriceFetcher orchestrates batched, fail-over price fetching
type PriceFetcher interface {
	// FetchBatchPrices resolves symbols starting from the round-robin provider
	FetchBatchPrices(ctx context.Context, symbols []string) domain.Prices

	// FetchWithPreference resolves symbols trying providers in the given order
	FetchWithPreference(ctx context.Context, symbols []string, order []string) domain.Prices

	// ProviderNames lists the configured providers in rotation order
	ProviderNames() []string
}

// PriceUpdater runs the fetch-and-store pipelines
type PriceUpdater interface {
	// UpdateAll refreshes every held symbol, limited to regions when non-empty
	UpdateAll(ctx context.Context, regions []domain.Region) *domain.UpdateResult

	// RefreshSymbols refreshes an explicit symbol list
	RefreshSymbols(ctx context.Context, symbols []string) (*domain.RefreshOutcome, error)
}

// StockService defines the contract for holding queries
type StockService interface {
	ListStocks(ctx context.Context) ([]*domain.Stock, error)
	GetStock(ctx context.Context, id int64) (*domain.Stock, error)
	UpdateStockPrice(ctx context.Context, id int64, price float64) (*domain.Stock, error)
	GetPriceHistory(ctx context.Context, symbol string, limit int) ([]*domain.PriceSnapshot, error)
}

// UpdateScheduler is the scheduler surface used by the HTTP layer
type UpdateScheduler interface {
	ForceUpdate(ctx context.Context) (*domain.UpdateResult, error)
	Status() domain.SchedulerStatus
}

// UpdateMonitor is the monitor surface used by the scheduler and HTTP layer
type UpdateMonitor interface {
	RecordUpdate(result *domain.UpdateResult) []domain.Alert
	Report() domain.MonitorReport
	Alerts(limit int) []domain.Alert
}
