package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
	"github.com/twomatetechnologies/moneyflow-prices/internal/ports"
)

// StockService implements the ports.StockService interface
type StockService struct {
	stocks  ports.StockRepository
	history ports.HistoryRepository
	logger  *slog.Logger
}

// NewStockService creates a new stock service
func NewStockService(
	stocks ports.StockRepository,
	history ports.HistoryRepository,
	logger *slog.Logger,
) *StockService {
	return &StockService{
		stocks:  stocks,
		history: history,
		logger:  logger.With("component", "stock_service"),
	}
}

// ListStocks returns every holding
func (s *StockService) ListStocks(ctx context.Context) ([]*domain.Stock, error) {
	stocks, err := s.stocks.List(ctx)
	if err != nil {
		s.logger.Error("failed to list stocks", "error", err)
		return nil, domain.ErrInternal
	}
	return stocks, nil
}

// GetStock retrieves a holding by ID
func (s *StockService) GetStock(ctx context.Context, id int64) (*domain.Stock, error) {
	stock, err := s.stocks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrStockNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get stock", "id", id, "error", err)
		return nil, domain.ErrInternal
	}
	return stock, nil
}

// UpdateStockPrice sets a holding's price by hand
func (s *StockService) UpdateStockPrice(ctx context.Context, id int64, price float64) (*domain.Stock, error) {
	patch, err := domain.NewPricePatch(price, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.stocks.UpdatePrice(ctx, id, patch); err != nil {
		if errors.Is(err, domain.ErrStockNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update stock price", "id", id, "error", err)
		return nil, domain.ErrInternal
	}

	s.logger.Info("stock price set manually", "id", id, "price", price)

	return s.GetStock(ctx, id)
}

// GetPriceHistory returns the newest recorded prices for a symbol
func (s *StockService) GetPriceHistory(ctx context.Context, symbol string, limit int) ([]*domain.PriceSnapshot, error) {
	symbol = domain.NormalizeSymbol(symbol)
	if err := domain.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	history, err := s.history.GetHistory(ctx, symbol, limit)
	if err != nil {
		s.logger.Error("failed to get price history", "symbol", symbol, "error", err)
		return nil, domain.ErrInternal
	}

	return history, nil
}

// Ensure StockService implements ports.StockService
var _ ports.StockService = (*StockService)(nil)
