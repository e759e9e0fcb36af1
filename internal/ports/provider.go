package ports

//go:generate mockgen -source=provider.go -destination=../mocks/mock_provider.go -package=mocks

import (
	"context"
	"time"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
)

// PriceProvider defines the contract for an external quote API
type PriceProvider interface {
	// Name is the provider's stable identifier
	Name() string

	// BatchSize is the most symbols FetchPrices accepts per call
	BatchSize() int

	// BatchDelay is the pause the caller keeps between consecutive calls
	BatchDelay() time.Duration

	// Format is how the provider spells Indian exchange tickers
	Format() domain.SymbolFormat

	// FetchPrices returns a price (or nil) for every requested symbol, keyed
	// by the symbol as sent. A non-nil error means the request failed as a
	// whole; the returned map may still hold prices obtained before a rate
	// limit was hit.
	FetchPrices(ctx context.Context, symbols []string) (domain.Prices, error)
}

// ProviderObserver receives the outcome of every provider request
type ProviderObserver interface {
	RecordProviderRequest(provider string, success, rateLimited bool, latency time.Duration)
}

// AlertNotifier delivers raised alerts to an external channel
type AlertNotifier interface {
	Name() string
	Notify(ctx context.Context, alert domain.Alert) error
}
