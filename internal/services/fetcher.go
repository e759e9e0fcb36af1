package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
	"github.com/twomatetechnologies/moneyflow-prices/internal/ports"
	"github.com/twomatetechnologies/moneyflow-prices/pkg/retry"
)

// Fetcher partitions symbols into provider-sized chunks, validates prices,
// and fails over between providers. Chunks and providers run strictly one
// at a time to stay inside external rate limits. It never returns an error:
// unresolved symbols stay nil.
type Fetcher struct {
	providers []ports.PriceProvider
	byName    map[string]ports.PriceProvider
	health    *ProviderHealth
	observer  ports.ProviderObserver
	sleep     func(ctx context.Context, d time.Duration) error
	logger    *slog.Logger

	mu      sync.Mutex
	current int // round-robin pointer into providers
}

// NewFetcher creates a fetcher over providers in rotation order.
// observer may be nil.
func NewFetcher(
	providers []ports.PriceProvider,
	health *ProviderHealth,
	observer ports.ProviderObserver,
	logger *slog.Logger,
) *Fetcher {
	byName := make(map[string]ports.PriceProvider, len(providers))
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
		names = append(names, p.Name())
	}
	health.Register(names...)

	return &Fetcher{
		providers: providers,
		byName:    byName,
		health:    health,
		observer:  observer,
		sleep:     retry.Sleep,
		logger:    logger.With("component", "price_fetcher"),
	}
}

// WithSleeper replaces the inter-chunk sleep, for tests
func (f *Fetcher) WithSleeper(sleep func(ctx context.Context, d time.Duration) error) *Fetcher {
	f.sleep = sleep
	return f
}

// ProviderNames lists the configured providers in rotation order
func (f *Fetcher) ProviderNames() []string {
	names := make([]string, len(f.providers))
	for i, p := range f.providers {
		names[i] = p.Name()
	}
	return names
}

// Current returns the provider the next FetchBatchPrices call starts with
func (f *Fetcher) Current() string {
	if len(f.providers) == 0 {
		return ""
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.providers[f.current].Name()
}

// FetchBatchPrices resolves symbols starting from the round-robin provider.
// The returned map holds exactly one key per distinct input symbol.
func (f *Fetcher) FetchBatchPrices(ctx context.Context, symbols []string) domain.Prices {
	order := uniqueSymbols(symbols)
	result := domain.NewPrices(order)
	if len(order) == 0 || len(f.providers) == 0 {
		return result
	}

	f.mu.Lock()
	start := f.current
	f.mu.Unlock()

	f.resolve(ctx, order, result, f.providers, start, true)
	return result
}

// FetchWithPreference resolves symbols trying providers in the given order.
// Unknown names are ignored; an empty preference uses the rotation order.
// The round-robin pointer is left untouched.
func (f *Fetcher) FetchWithPreference(ctx context.Context, symbols []string, order []string) domain.Prices {
	syms := uniqueSymbols(symbols)
	result := domain.NewPrices(syms)
	if len(syms) == 0 {
		return result
	}

	rotation := make([]ports.PriceProvider, 0, len(order))
	for _, name := range order {
		if p, ok := f.byName[name]; ok {
			rotation = append(rotation, p)
		}
	}
	if len(rotation) == 0 {
		rotation = f.providers
	}
	if len(rotation) == 0 {
		return result
	}

	f.resolve(ctx, syms, result, rotation, 0, false)
	return result
}

// resolve visits each provider of rotation at most once, beginning at start.
// The walk ends when every symbol resolves or the index wraps to start.
func (f *Fetcher) resolve(
	ctx context.Context,
	order []string,
	result domain.Prices,
	rotation []ports.PriceProvider,
	start int,
	advance bool,
) {
	n := len(rotation)
	idx := start % n

	for tried := 0; tried < n; tried++ {
		pending := pendingSymbols(order, result)
		if len(pending) == 0 || ctx.Err() != nil {
			return
		}

		p := rotation[idx]
		if !f.health.Available(p.Name()) {
			f.logger.Info("skipping provider in cooldown", "provider", p.Name())
		} else {
			f.logger.Debug("fetching with provider", "provider", p.Name(), "symbols", len(pending))
			if abandoned := f.runProvider(ctx, p, pending, result); abandoned && advance {
				f.advancePast(idx)
			}
		}

		idx = (idx + 1) % n
	}

	if missing := pendingSymbols(order, result); len(missing) > 0 {
		f.logger.Warn("symbols unresolved after trying all providers", "count", len(missing), "symbols", missing)
	}
}

// advancePast moves the round-robin pointer off idx if it still points there
func (f *Fetcher) advancePast(idx int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == idx {
		f.current = (idx + 1) % len(f.providers)
		f.logger.Info("switched current provider", "provider", f.providers[f.current].Name())
	}
}

// runProvider fetches pending symbols chunk by chunk and reports whether the
// provider was abandoned mid-run.
func (f *Fetcher) runProvider(ctx context.Context, p ports.PriceProvider, pending []string, result domain.Prices) bool {
	name := p.Name()
	format := p.Format()
	f.health.MarkUsed(name)

	chunks := chunkSymbols(pending, p.BatchSize())
	for i, chunk := range chunks {
		if i > 0 {
			if err := f.sleep(ctx, p.BatchDelay()); err != nil {
				return false
			}
		}

		// Several stored symbols may share one provider spelling. Results are
		// mapped back to the stored spelling through this lookup rather than
		// by stripping suffixes.
		apiToStored := make(map[string][]string, len(chunk))
		apiSymbols := make([]string, 0, len(chunk))
		for _, s := range chunk {
			api := domain.MapSymbolForAPI(s, format)
			if _, seen := apiToStored[api]; !seen {
				apiSymbols = append(apiSymbols, api)
			}
			apiToStored[api] = append(apiToStored[api], s)
		}

		started := time.Now()
		prices, err := f.safeFetch(ctx, p, apiSymbols)
		latency := time.Since(started)

		resolved := 0
		for api, stored := range apiToStored {
			v := prices[api]
			if v == nil {
				continue
			}
			if !domain.ValidPrice(*v) {
				f.logger.Warn("discarding invalid price", "provider", name, "symbol", api, "price", *v)
				continue
			}
			for _, s := range stored {
				price := *v
				result[s] = &price
				resolved++
			}
		}

		rateLimited := domain.IsRateLimited(err)
		if f.observer != nil {
			f.observer.RecordProviderRequest(name, resolved > 0, rateLimited, latency)
		}

		if err != nil {
			f.logger.Warn("provider request failed",
				"provider", name,
				"chunk", i+1,
				"chunks", len(chunks),
				"error", err)
		}

		if rateLimited {
			until := f.health.MarkRateLimited(name)
			f.logger.Warn("provider rate limited, benching", "provider", name, "until", until)
			return true
		}

		if resolved == 0 {
			if f.health.RecordFailure(name) {
				f.logger.Warn("abandoning provider after repeated empty chunks", "provider", name)
				return true
			}
			continue
		}

		f.health.RecordSuccess(name)
	}

	return false
}

// safeFetch converts adapter panics into errors
func (f *Fetcher) safeFetch(ctx context.Context, p ports.PriceProvider, symbols []string) (prices domain.Prices, err error) {
	defer func() {
		if r := recover(); r != nil {
			prices = nil
			err = domain.NewProviderError(p.Name(), fmt.Errorf("%w: panic: %v", domain.ErrProviderUnavailable, r))
		}
	}()
	return p.FetchPrices(ctx, symbols)
}

func uniqueSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func pendingSymbols(order []string, result domain.Prices) []string {
	var out []string
	for _, s := range order {
		if result[s] == nil {
			out = append(out, s)
		}
	}
	return out
}

func chunkSymbols(symbols []string, size int) [][]string {
	if size <= 0 {
		size = 1
	}
	chunks := make([][]string, 0, (len(symbols)+size-1)/size)
	for size < len(symbols) {
		symbols, chunks = symbols[size:], append(chunks, symbols[:size])
	}
	return append(chunks, symbols)
}

// Ensure Fetcher implements ports.PriceFetcher
var _ ports.PriceFetcher = (*Fetcher)(nil)
