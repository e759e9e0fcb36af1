package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
	"github.com/twomatetechnologies/moneyflow-prices/internal/ports"
)

// StockRepository implements the ports.StockRepository interface
type StockRepository struct {
	db *DB
}

// NewStockRepository creates a new PostgreSQL stock repository
func NewStockRepository(db *DB) ports.StockRepository {
	return &StockRepository{db: db}
}

const stockColumns = `id, symbol, name, quantity, purchase_price, current_price, last_updated`

// DistinctSymbols returns every symbol held at least once
func (r *StockRepository) DistinctSymbols(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT symbol FROM stocks ORDER BY symbol`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: distinct symbols: %v", domain.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating symbols: %w", err)
	}

	return symbols, nil
}

// List returns all holdings
func (r *StockRepository) List(ctx context.Context) ([]*domain.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks ORDER BY symbol, id`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list stocks: %v", domain.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	var stocks []*domain.Stock
	for rows.Next() {
		stock, err := scanStock(rows)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, stock)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stocks: %w", err)
	}

	return stocks, nil
}

// GetByID retrieves a holding by its ID
func (r *StockRepository) GetByID(ctx context.Context, id int64) (*domain.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE id = $1`

	stock, err := scanStock(r.db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStockNotFound
	}
	if err != nil {
		return nil, err
	}

	return stock, nil
}

// UpdatePrice applies a price patch to a single holding
func (r *StockRepository) UpdatePrice(ctx context.Context, id int64, patch domain.PricePatch) error {
	query := `
		UPDATE stocks
		SET current_price = $2, last_updated = $3
		WHERE id = $1
	`

	result, err := r.db.Pool.Exec(ctx, query, id, patch.CurrentPrice, patch.LastUpdated)
	if err != nil {
		return fmt.Errorf("%w: update price: %v", domain.ErrDatabaseQuery, err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrStockNotFound
	}

	return nil
}

// UpdatePricesBySymbol applies prices to every holding of each symbol in one
// transaction and returns how many holdings changed per symbol
func (r *StockRepository) UpdatePricesBySymbol(ctx context.Context, prices map[string]float64, at time.Time) (map[string]int64, error) {
	affected := make(map[string]int64, len(prices))
	if len(prices) == 0 {
		return affected, nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin transaction: %v", domain.ErrDatabaseConnection, err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE stocks
		SET current_price = $2, last_updated = $3
		WHERE symbol = $1
	`

	batch := &pgx.Batch{}
	symbols := make([]string, 0, len(prices))
	for symbol, price := range prices {
		batch.Queue(query, symbol, decimal.NewFromFloat(price), at.UTC())
		symbols = append(symbols, symbol)
	}

	results := tx.SendBatch(ctx, batch)
	for _, symbol := range symbols {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return nil, fmt.Errorf("%w: update %s: %v", domain.ErrDatabaseQuery, symbol, err)
		}
		affected[symbol] = tag.RowsAffected()
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return affected, nil
}

// Ping checks storage reachability
func (r *StockRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanStock(row pgx.Row) (*domain.Stock, error) {
	var (
		s             domain.Stock
		quantity      string
		purchasePrice string
		currentPrice  *string
	)

	if err := row.Scan(&s.ID, &s.Symbol, &s.Name, &quantity, &purchasePrice, &currentPrice, &s.LastUpdated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan stock: %w", err)
	}

	var err error
	if s.Quantity, err = decimal.NewFromString(quantity); err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	if s.PurchasePrice, err = decimal.NewFromString(purchasePrice); err != nil {
		return nil, fmt.Errorf("failed to parse purchase price: %w", err)
	}
	if currentPrice != nil {
		price, err := decimal.NewFromString(*currentPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to parse current price: %w", err)
		}
		s.CurrentPrice = &price
	}

	return &s, nil
}

// Ensure StockRepository implements ports.StockRepository
var _ ports.StockRepository = (*StockRepository)(nil)
