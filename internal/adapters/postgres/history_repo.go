package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
	"github.com/twomatetechnologies/moneyflow-prices/internal/ports"
)

// HistoryRepository implements the ports.HistoryRepository interface
type HistoryRepository struct {
	db *DB
}

// NewHistoryRepository creates a new PostgreSQL price history repository
func NewHistoryRepository(db *DB) ports.HistoryRepository {
	return &HistoryRepository{db: db}
}

// CreateBatch stores multiple snapshots atomically
func (r *HistoryRepository) CreateBatch(ctx context.Context, snapshots []*domain.PriceSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrDatabaseConnection, err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO stock_price_history (symbol, price, source, fetched_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	for _, snapshot := range snapshots {
		err := tx.QueryRow(ctx, query,
			snapshot.Symbol,
			snapshot.Price,
			snapshot.Source,
			snapshot.FetchedAt,
		).Scan(&snapshot.ID)

		if err != nil {
			return fmt.Errorf("failed to store snapshot for %s: %w", snapshot.Symbol, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetHistory returns the newest snapshots for a symbol
func (r *HistoryRepository) GetHistory(ctx context.Context, symbol string, limit int) ([]*domain.PriceSnapshot, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	query := `
		SELECT id, symbol, price, source, fetched_at
		FROM stock_price_history
		WHERE symbol = $1
		ORDER BY fetched_at DESC
		LIMIT $2
	`

	rows, err := r.db.Pool.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: get history: %v", domain.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	var snapshots []*domain.PriceSnapshot
	for rows.Next() {
		var s domain.PriceSnapshot
		var priceStr string

		if err := rows.Scan(&s.ID, &s.Symbol, &priceStr, &s.Source, &s.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		s.Price, err = decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price: %w", err)
		}

		snapshots = append(snapshots, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// Prune removes snapshots older than the given time
func (r *HistoryRepository) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `DELETE FROM stock_price_history WHERE fetched_at < $1`

	result, err := r.db.Pool.Exec(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}

	return result.RowsAffected(), nil
}

// Ensure HistoryRepository implements ports.HistoryRepository
var _ ports.HistoryRepository = (*HistoryRepository)(nil)
