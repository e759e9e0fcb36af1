package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/twomatetechnologies/moneyflow-prices/internal/config"
	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
)

// DB wraps the PostgreSQL connection pool
type DB struct {
	Pool           *pgxpool.Pool
	config         config.DatabaseConfig
	logger         *slog.Logger
	migrationsPath string
}

// NewDB creates a new PostgreSQL connection pool
func NewDB(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrDatabaseConnection, err)
	}

	logger.Info("database connection established",
		"max_conns", cfg.MaxOpenConns,
		"min_conns", cfg.MaxIdleConns,
	)

	return &DB{
		Pool:           pool,
		config:         cfg,
		logger:         logger.With("component", "postgres"),
		migrationsPath: cfg.MigrationsPath,
	}, nil
}

// Migrate applies every pending migration from the configured source
func (db *DB) Migrate() error {
	db.logger.Info("running database migrations", "path", db.migrationsPath)

	m, err := migrate.New(db.migrationsPath, db.config.URL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	before, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	after, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty", after)
	}

	db.logger.Info("migrations completed", "from_version", before, "version", after)
	return nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.logger.Info("closing database connection")
	db.Pool.Close()
}

// Ping checks if the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDatabaseConnection, err)
	}
	return nil
}

// LogStats writes the pool counters at debug level
func (db *DB) LogStats() {
	st := db.Pool.Stat()
	db.logger.Debug("pool stats",
		"total_conns", st.TotalConns(),
		"idle_conns", st.IdleConns(),
		"acquired_conns", st.AcquiredConns(),
		"acquire_count", st.AcquireCount(),
	)
}
