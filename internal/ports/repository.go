package ports

//go:generate mockgen -source=repository.go -destination=../mocks/mock_repository.go -package=mocks

import (
	"context"
	"time"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
)

// StockRepository defines the contract for stock holding persistence
type StockRepository interface {
	// DistinctSymbols returns every symbol held at least once
	DistinctSymbols(ctx context.Context) ([]string, error)

	// List returns all holdings
	List(ctx context.Context) ([]*domain.Stock, error)

	// GetByID retrieves a holding by its ID
	GetByID(ctx context.Context, id int64) (*domain.Stock, error)

	// UpdatePrice applies a price patch to a single holding
	UpdatePrice(ctx context.Context, id int64, patch domain.PricePatch) error

	// UpdatePricesBySymbol applies prices to every holding of each symbol
	// atomically and returns how many holdings changed per symbol
	UpdatePricesBySymbol(ctx context.Context, prices map[string]float64, at time.Time) (map[string]int64, error)

	// Ping checks storage reachability
	Ping(ctx context.Context) error
}

// HistoryRepository defines the contract for price history persistence
type HistoryRepository interface {
	// CreateBatch stores multiple snapshots atomically
	CreateBatch(ctx context.Context, snapshots []*domain.PriceSnapshot) error

	// GetHistory returns the newest snapshots for a symbol
	GetHistory(ctx context.Context, symbol string, limit int) ([]*domain.PriceSnapshot, error)

	// Prune removes snapshots older than the given time
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}
