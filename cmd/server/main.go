package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/twomatetechnologies/moneyflow-prices/internal/adapters/alphavantage"
	httpAdapter "github.com/twomatetechnologies/moneyflow-prices/internal/adapters/http"
	"github.com/twomatetechnologies/moneyflow-prices/internal/adapters/notify"
	"github.com/twomatetechnologies/moneyflow-prices/internal/adapters/postgres"
	"github.com/twomatetechnologies/moneyflow-prices/internal/adapters/twelvedata"
	"github.com/twomatetechnologies/moneyflow-prices/internal/adapters/yahoo"
	"github.com/twomatetechnologies/moneyflow-prices/internal/config"
	"github.com/twomatetechnologies/moneyflow-prices/internal/ports"
	"github.com/twomatetechnologies/moneyflow-prices/internal/services"
	"github.com/twomatetechnologies/moneyflow-prices/internal/worker"
)

func main() {
	// A missing .env file is fine; the environment may already be set
	_ = godotenv.Load()

	// Initialize logger
	logger := initLogger()
	slog.SetDefault(logger)

	logger.Info("starting moneyflow price service")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Create root context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build and start application
	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	// Start application components
	if err := app.Start(ctx); err != nil {
		logger.Error("failed to start application", "error", err)
		app.Shutdown()
		os.Exit(1)
	}

	// Wait for shutdown signal
	waitForShutdown(ctx, cancel, app, logger)
}

func initLogger() *slog.Logger {
	logLevel := os.Getenv("LOG_LEVEL")
	logFormat := os.Getenv("LOG_FORMAT")

	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if logFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// Application holds all components
type Application struct {
	cfg          *config.Config
	db           *postgres.DB
	redis        *redis.Client
	httpServer   *httpAdapter.Server
	scheduler    *worker.Scheduler
	alertChecker *worker.AlertChecker
	logger       *slog.Logger
}

func buildApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.Info("building application")

	// 1. Infrastructure Layer - Database
	db, err := postgres.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	// 2. Infrastructure Layer - Repositories
	stockRepo := postgres.NewStockRepository(db)
	historyRepo := postgres.NewHistoryRepository(db)

	// 3. Infrastructure Layer - Price Providers
	providers := buildProviders(cfg.EnabledProviders(), logger)

	// 4. Infrastructure Layer - Alert Notifiers
	notifiers := []ports.AlertNotifier{notify.NewLogNotifier(logger)}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = notify.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			db.Close()
			return nil, err
		}
		notifiers = append(notifiers, notify.NewRedisPublisher(redisClient, cfg.Redis.Channel, cfg.Redis.AlertTTL, logger))
		logger.Info("publishing alerts to redis", "channel", cfg.Redis.Channel)
	}

	// 5. Service Layer
	health := services.NewProviderHealth(cfg.Fetcher.FailureThreshold, cfg.Fetcher.RateLimitCooldown)

	monitor := services.NewMonitor(logger,
		services.WithAlertHistory(cfg.Monitor.AlertHistory),
		services.WithNotifiers(notifiers...),
	)

	fetcher := services.NewFetcher(providers, health, monitor, logger)

	updater := services.NewPriceUpdater(stockRepo, fetcher, health, logger,
		services.WithHistory(historyRepo),
		services.WithGroupDelay(cfg.Scheduler.GroupDelay),
		services.WithRetention(cfg.Scheduler.HistoryRetention),
	)

	stockService := services.NewStockService(stockRepo, historyRepo, logger)

	// 6. Background Workers
	schedule := worker.DefaultSchedule()
	if cfg.Scheduler.ConfigFile != "" {
		schedule, err = worker.LoadSchedule(cfg.Scheduler.ConfigFile)
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	schedulerOpts := []worker.SchedulerOption{
		worker.WithSchedule(schedule),
		worker.WithRunTimeout(cfg.Scheduler.RunTimeout),
	}
	if cfg.Scheduler.RespectCalendar {
		schedulerOpts = append(schedulerOpts, worker.WithCalendar(worker.NewMarketCalendar(logger)))
	}

	scheduler := worker.NewScheduler(updater, monitor, health, logger, schedulerOpts...)

	alertChecker := worker.NewAlertChecker(monitor, cfg.Monitor.CheckInterval, logger)

	// 7. Transport Layer - HTTP Server
	handler := httpAdapter.NewHandler(updater, scheduler, monitor, stockService, stockRepo, logger)
	httpServer := httpAdapter.NewServer(cfg.Server, handler, logger)

	logger.Info("application built successfully",
		"providers", fetcher.ProviderNames(),
		"jobs", len(schedule.Jobs),
	)

	return &Application{
		cfg:          cfg,
		db:           db,
		redis:        redisClient,
		httpServer:   httpServer,
		scheduler:    scheduler,
		alertChecker: alertChecker,
		logger:       logger,
	}, nil
}

// buildProviders creates the enabled adapters in rotation order
func buildProviders(cfgs []config.ProviderConfig, logger *slog.Logger) []ports.PriceProvider {
	providers := make([]ports.PriceProvider, 0, len(cfgs))

	for _, pc := range cfgs {
		switch pc.Name {
		case config.ProviderYahoo:
			opts := []yahoo.ClientOption{
				yahoo.WithTimeout(pc.Timeout),
				yahoo.WithRetry(pc.MaxRetries, pc.RetryBackoff),
				yahoo.WithBatch(pc.BatchSize, pc.BatchDelay),
				yahoo.WithLogger(logger),
			}
			if pc.BaseURL != "" {
				opts = append(opts, yahoo.WithBaseURL(pc.BaseURL))
			}
			providers = append(providers, yahoo.NewClient(opts...))

		case config.ProviderTwelveData:
			opts := []twelvedata.ClientOption{
				twelvedata.WithAPIKey(pc.APIKey),
				twelvedata.WithTimeout(pc.Timeout),
				twelvedata.WithRetry(pc.MaxRetries, pc.RetryBackoff),
				twelvedata.WithBatch(pc.BatchSize, pc.BatchDelay),
				twelvedata.WithLogger(logger),
			}
			if pc.BaseURL != "" {
				opts = append(opts, twelvedata.WithBaseURL(pc.BaseURL))
			}
			providers = append(providers, twelvedata.NewClient(opts...))

		case config.ProviderAlphaVantage:
			opts := []alphavantage.ClientOption{
				alphavantage.WithAPIKey(pc.APIKey),
				alphavantage.WithTimeout(pc.Timeout),
				alphavantage.WithRetry(pc.MaxRetries, pc.RetryBackoff),
				alphavantage.WithBatch(pc.BatchSize, pc.BatchDelay),
				alphavantage.WithLogger(logger),
			}
			if pc.BaseURL != "" {
				opts = append(opts, alphavantage.WithBaseURL(pc.BaseURL))
			}
			providers = append(providers, alphavantage.NewClient(opts...))

		default:
			logger.Warn("unknown price provider in configuration", "provider", pc.Name)
		}
	}

	return providers
}

func (a *Application) Start(ctx context.Context) error {
	a.logger.Info("starting application components")
	a.db.LogStats()

	if a.cfg.Scheduler.Enabled {
		if err := a.scheduler.Start(); err != nil {
			return err
		}
	} else {
		a.logger.Info("scheduler disabled; manual triggers only")
	}

	// Start alert checker in background
	go func() {
		if err := a.alertChecker.Start(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("alert checker error", "error", err)
		}
	}()

	// Start HTTP server in background (will block until shutdown)
	go func() {
		if err := a.httpServer.Start(); err != nil {
			a.logger.Error("http server error", "error", err)
		}
	}()

	a.logger.Info("application started",
		"http_addr", a.httpServer.Addr(),
		"scheduler", a.scheduler.IsRunning(),
	)

	return nil
}

func (a *Application) Shutdown() {
	a.logger.Info("shutting down application")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop triggers first so no new update starts
	if err := a.scheduler.Stop(ctx); err != nil {
		a.logger.Error("failed to stop scheduler", "error", err)
	}

	if err := a.alertChecker.Stop(); err != nil {
		a.logger.Error("failed to stop alert checker", "error", err)
	}

	// Stop HTTP server
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("failed to shutdown http server", "error", err)
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("failed to close redis client", "error", err)
		}
	}

	// Close database connection
	a.db.Close()

	a.logger.Info("application shutdown complete")
}

func waitForShutdown(ctx context.Context, cancel context.CancelFunc, app *Application, logger *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
		app.Shutdown()
	case <-ctx.Done():
		app.Shutdown()
	}
}
