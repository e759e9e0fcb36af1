package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
	"github.com/twomatetechnologies/moneyflow-prices/internal/ports"
	"github.com/twomatetechnologies/moneyflow-prices/pkg/retry"
)

// History sources
const (
	SourceScheduled = "scheduled"
	SourceManual    = "manual"
)

// RegionRouting is the provider preference order per region. A region with
// no entry uses the fetcher's rotation order.
type RegionRouting map[domain.Region][]string

// DefaultRegionRouting prefers Yahoo for NSE listings and Twelve Data's bulk
// endpoint for US tickers
func DefaultRegionRouting() RegionRouting {
	return RegionRouting{
		domain.RegionIndian: {"yahoo", "twelvedata", "alphavantage"},
		domain.RegionUS:     {"twelvedata", "yahoo", "alphavantage"},
	}
}

// PriceUpdater pulls held symbols, fetches prices region by region and
// writes them back to storage
type PriceUpdater struct {
	stocks     ports.StockRepository
	history    ports.HistoryRepository
	fetcher    ports.PriceFetcher
	health     *ProviderHealth
	routing    RegionRouting
	groupDelay time.Duration
	retention  time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	now        func() time.Time
	logger     *slog.Logger
}

// UpdaterOption configures the updater
type UpdaterOption func(*PriceUpdater)

// WithHistory records a snapshot row for every stored price
func WithHistory(history ports.HistoryRepository) UpdaterOption {
	return func(u *PriceUpdater) {
		u.history = history
	}
}

// WithRouting replaces the region preference table
func WithRouting(routing RegionRouting) UpdaterOption {
	return func(u *PriceUpdater) {
		u.routing = routing
	}
}

// WithGroupDelay sets the pause between region groups
func WithGroupDelay(d time.Duration) UpdaterOption {
	return func(u *PriceUpdater) {
		u.groupDelay = d
	}
}

// WithRetention prunes history older than d after every scheduled run
func WithRetention(d time.Duration) UpdaterOption {
	return func(u *PriceUpdater) {
		u.retention = d
	}
}

// WithUpdaterSleeper replaces the group delay sleep, for tests
func WithUpdaterSleeper(sleep func(ctx context.Context, d time.Duration) error) UpdaterOption {
	return func(u *PriceUpdater) {
		u.sleep = sleep
	}
}

// WithUpdaterClock replaces the time source, for tests
func WithUpdaterClock(now func() time.Time) UpdaterOption {
	return func(u *PriceUpdater) {
		u.now = now
	}
}

// NewPriceUpdater creates a new price updater
func NewPriceUpdater(
	stocks ports.StockRepository,
	fetcher ports.PriceFetcher,
	health *ProviderHealth,
	logger *slog.Logger,
	opts ...UpdaterOption,
) *PriceUpdater {
	u := &PriceUpdater{
		stocks:     stocks,
		fetcher:    fetcher,
		health:     health,
		routing:    DefaultRegionRouting(),
		groupDelay: 2 * time.Second,
		sleep:      retry.Sleep,
		now:        time.Now,
		logger:     logger.With("component", "price_updater"),
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// UpdateAll refreshes every held symbol, limited to regions when non-empty.
// It never returns nil; failures are reported through the result.
func (u *PriceUpdater) UpdateAll(ctx context.Context, regions []domain.Region) *domain.UpdateResult {
	result := &domain.UpdateResult{StartedAt: u.now().UTC(), Errors: []string{}}

	symbols, err := u.stocks.DistinctSymbols(ctx)
	if err != nil {
		u.logger.Error("failed to list held symbols", "error", err)
		result.Finish(u.now(), err)
		return result
	}

	groups := domain.GroupByRegion(symbols)
	prices := make(domain.Prices, len(symbols))
	processed := 0

	for _, region := range domain.Regions {
		group := groups[region]
		if len(group) == 0 || !includes(regions, region) {
			continue
		}

		if processed > 0 && u.groupDelay > 0 {
			if err := u.sleep(ctx, u.groupDelay); err != nil {
				for _, s := range group {
					prices[s] = nil
				}
				continue
			}
		}
		processed++

		for s, v := range u.fetchGroup(ctx, region, group) {
			prices[s] = v
		}
	}

	if len(prices) == 0 {
		u.logger.Debug("no symbols to update")
		result.Finish(u.now(), nil)
		return result
	}

	fatal := u.store(ctx, prices, SourceScheduled, result)
	result.Finish(u.now(), fatal)
	u.prune(ctx)

	u.logger.Info("price update completed",
		"symbols", len(prices),
		"updated", result.UpdatedCount,
		"failed", result.FailedCount,
		"duration_ms", result.DurationMs,
	)

	return result
}

// RefreshSymbols refreshes an explicit symbol list through the round-robin
// fetch. Only invalid input and storage failures are returned as errors.
func (u *PriceUpdater) RefreshSymbols(ctx context.Context, symbols []string) (*domain.RefreshOutcome, error) {
	if len(symbols) == 0 {
		return nil, domain.ErrNoSymbols
	}

	normalized := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = domain.NormalizeSymbol(s)
		if err := domain.ValidateSymbol(s); err != nil {
			return nil, fmt.Errorf("%w: %q", err, s)
		}
		normalized = append(normalized, s)
	}

	prices := u.fetcher.FetchBatchPrices(ctx, normalized)

	result := &domain.UpdateResult{StartedAt: u.now().UTC()}
	if err := u.store(ctx, prices, SourceManual, result); err != nil {
		return nil, err
	}

	return &domain.RefreshOutcome{
		Prices:        prices,
		Updated:       len(prices.Resolved()),
		Total:         len(prices),
		FailedSymbols: prices.Unresolved(),
		Providers:     u.fetcher.ProviderNames(),
	}, nil
}

// fetchGroup resolves one region group with its preferred, available providers
func (u *PriceUpdater) fetchGroup(ctx context.Context, region domain.Region, group []string) domain.Prices {
	order := u.routing[region]
	if len(order) == 0 {
		order = u.fetcher.ProviderNames()
	}

	available := u.health.Filter(order)
	if len(available) == 0 {
		u.logger.Warn("no provider available for region", "region", region, "symbols", len(group))
		return domain.NewPrices(group)
	}

	u.logger.Debug("fetching region group", "region", region, "symbols", len(group), "providers", available)
	return u.fetcher.FetchWithPreference(ctx, group, available)
}

// store writes resolved prices and fills the counters of result. A storage
// failure counts every resolved symbol as failed and is returned.
func (u *PriceUpdater) store(ctx context.Context, prices domain.Prices, source string, result *domain.UpdateResult) error {
	now := u.now().UTC()

	resolved := make(map[string]float64, len(prices))
	for s, v := range prices {
		if v != nil {
			resolved[s] = *v
		}
	}

	for _, s := range prices.Unresolved() {
		result.FailedSymbols = append(result.FailedSymbols, s)
		result.Errors = append(result.Errors, fmt.Sprintf("%s: no valid price from any provider", s))
	}

	affected := map[string]int64{}
	if len(resolved) > 0 {
		var err error
		affected, err = u.stocks.UpdatePricesBySymbol(ctx, resolved, now)
		if err != nil {
			u.logger.Error("failed to store prices", "symbols", len(resolved), "error", err)
			result.FailedSymbols = append(result.FailedSymbols, prices.Resolved()...)
			result.FailedCount = len(result.FailedSymbols)
			return err
		}
	}

	snapshots := make([]*domain.PriceSnapshot, 0, len(resolved))
	for _, s := range prices.Resolved() {
		if affected[s] == 0 {
			result.FailedSymbols = append(result.FailedSymbols, s)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: no holdings updated", s))
			continue
		}
		result.UpdatedSymbols = append(result.UpdatedSymbols, s)
		snapshots = append(snapshots, &domain.PriceSnapshot{
			Symbol:    s,
			Price:     decimal.NewFromFloat(resolved[s]),
			Source:    source,
			FetchedAt: now,
		})
	}

	result.UpdatedCount = len(result.UpdatedSymbols)
	result.FailedCount = len(result.FailedSymbols)

	if u.history != nil && len(snapshots) > 0 {
		if err := u.history.CreateBatch(ctx, snapshots); err != nil {
			u.logger.Warn("failed to record price history", "snapshots", len(snapshots), "error", err)
		}
	}

	return nil
}

// prune drops expired history rows. Failures only warn.
func (u *PriceUpdater) prune(ctx context.Context) {
	if u.history == nil || u.retention <= 0 {
		return
	}

	removed, err := u.history.Prune(ctx, u.now().Add(-u.retention))
	if err != nil {
		u.logger.Warn("failed to prune price history", "error", err)
		return
	}
	if removed > 0 {
		u.logger.Info("pruned price history", "removed", removed)
	}
}

func includes(regions []domain.Region, r domain.Region) bool {
	if len(regions) == 0 {
		return true
	}
	for _, want := range regions {
		if want == r {
			return true
		}
	}
	return false
}

// Ensure PriceUpdater implements ports.PriceUpdater
var _ ports.PriceUpdater = (*PriceUpdater)(nil)
