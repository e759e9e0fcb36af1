package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
	"github.com/twomatetechnologies/moneyflow-prices/internal/ports"
	"github.com/twomatetechnologies/moneyflow-prices/internal/services"
)

// fakeProvider answers from a fixed price table through an optional hook
type fakeProvider struct {
	name   string
	batch  int
	delay  time.Duration
	format domain.SymbolFormat
	fetch  func(symbols []string) (domain.Prices, error)

	mu    sync.Mutex
	calls [][]string
}

func newFakeProvider(name string, batch int, table map[string]float64) *fakeProvider {
	p := &fakeProvider{
		name:   name,
		batch:  batch,
		delay:  time.Second,
		format: domain.SymbolFormat{NSESuffix: ".NS", BSESuffix: ".BO"},
	}
	p.fetch = func(symbols []string) (domain.Prices, error) {
		out := domain.NewPrices(symbols)
		for _, s := range symbols {
			if v, ok := table[s]; ok {
				out[s] = domain.Price(v)
			}
		}
		return out, nil
	}
	return p
}

func (p *fakeProvider) Name() string                { return p.name }
func (p *fakeProvider) BatchSize() int              { return p.batch }
func (p *fakeProvider) BatchDelay() time.Duration   { return p.delay }
func (p *fakeProvider) Format() domain.SymbolFormat { return p.format }

func (p *fakeProvider) FetchPrices(_ context.Context, symbols []string) (domain.Prices, error) {
	p.mu.Lock()
	p.calls = append(p.calls, append([]string(nil), symbols...))
	p.mu.Unlock()
	return p.fetch(symbols)
}

func (p *fakeProvider) Calls() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type recordingSleeper struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.sleeps = append(s.sleeps, d)
	s.mu.Unlock()
	return ctx.Err()
}

type observation struct {
	provider    string
	success     bool
	rateLimited bool
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *recordingObserver) RecordProviderRequest(provider string, success, rateLimited bool, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{provider, success, rateLimited})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestFetcher(observer *recordingObserver, providers ...*fakeProvider) (*services.Fetcher, *recordingSleeper) {
	list := make([]ports.PriceProvider, len(providers))
	for i, p := range providers {
		list[i] = p
	}

	var obs ports.ProviderObserver
	if observer != nil {
		obs = observer
	}

	sleeper := &recordingSleeper{}
	f := services.NewFetcher(list, services.NewProviderHealth(0, 0), obs, testLogger())
	f.WithSleeper(sleeper.Sleep)
	return f, sleeper
}

func TestFetcher_FetchBatchPrices(t *testing.T) {
	t.Run("partial resolution keeps null entries", func(t *testing.T) {
		p := newFakeProvider("p1", 5, map[string]float64{"AAPL": 190.5})
		f, _ := newTestFetcher(nil, p)

		prices := f.FetchBatchPrices(context.Background(), []string{"AAPL", "HDFCBANK"})

		require.Len(t, prices, 2)
		assert.Equal(t, 190.5, *prices["AAPL"])
		assert.Nil(t, prices["HDFCBANK"])
		assert.Equal(t, []string{"HDFCBANK"}, prices.Unresolved())
	})

	t.Run("invalid price is rejected", func(t *testing.T) {
		p := newFakeProvider("p1", 5, map[string]float64{"TSLA": -5})
		f, _ := newTestFetcher(nil, p)

		prices := f.FetchBatchPrices(context.Background(), []string{"TSLA"})

		require.Contains(t, prices, "TSLA")
		assert.Nil(t, prices["TSLA"])
	})

	t.Run("all providers failing leaves every symbol nil", func(t *testing.T) {
		p1 := newFakeProvider("p1", 5, nil)
		p2 := newFakeProvider("p2", 5, nil)
		f, _ := newTestFetcher(nil, p1, p2)

		prices := f.FetchBatchPrices(context.Background(), []string{"AAPL", "MSFT", "TSLA"})

		assert.Len(t, prices, 3)
		assert.Empty(t, prices.Resolved())
		assert.Len(t, p1.Calls(), 1)
		assert.Len(t, p2.Calls(), 1)
	})

	t.Run("key set equals input including duplicates and empty", func(t *testing.T) {
		p := newFakeProvider("p1", 2, map[string]float64{"A": 1, "C": 3})
		f, _ := newTestFetcher(nil, p)

		prices := f.FetchBatchPrices(context.Background(), []string{"A", "B", "A", "C"})
		assert.ElementsMatch(t, []string{"A", "B", "C"}, keys(prices))

		empty := f.FetchBatchPrices(context.Background(), nil)
		assert.Empty(t, empty)
		assert.Len(t, p.Calls(), 2)
	})

	t.Run("falls back to next provider for unresolved symbols only", func(t *testing.T) {
		p1 := newFakeProvider("p1", 5, map[string]float64{"AAPL": 190.5})
		p2 := newFakeProvider("p2", 5, map[string]float64{"MSFT": 410, "AAPL": 1})
		f, _ := newTestFetcher(nil, p1, p2)

		prices := f.FetchBatchPrices(context.Background(), []string{"AAPL", "MSFT"})

		assert.Equal(t, 190.5, *prices["AAPL"])
		assert.Equal(t, 410.0, *prices["MSFT"])
		require.Len(t, p2.Calls(), 1)
		assert.Equal(t, []string{"MSFT"}, p2.Calls()[0])
	})

	t.Run("chunks by batch size and sleeps between chunks only", func(t *testing.T) {
		p := newFakeProvider("p1", 2, map[string]float64{"A": 1, "B": 2, "C": 3, "D": 4, "E": 5})
		p.delay = 8 * time.Second
		f, sleeper := newTestFetcher(nil, p)

		prices := f.FetchBatchPrices(context.Background(), []string{"A", "B", "C", "D", "E"})

		assert.Len(t, prices.Resolved(), 5)
		assert.Equal(t, [][]string{{"A", "B"}, {"C", "D"}, {"E"}}, p.Calls())
		assert.Equal(t, []time.Duration{8 * time.Second, 8 * time.Second}, sleeper.sleeps)
	})

	t.Run("two empty chunks abandon the provider and advance the pointer", func(t *testing.T) {
		p1 := newFakeProvider("p1", 1, nil)
		p2 := newFakeProvider("p2", 5, map[string]float64{"A": 1, "B": 2, "C": 3})
		f, _ := newTestFetcher(nil, p1, p2)

		prices := f.FetchBatchPrices(context.Background(), []string{"A", "B", "C"})

		assert.Len(t, prices.Resolved(), 3)
		assert.Len(t, p1.Calls(), 2, "third chunk never sent after abandonment")
		assert.Equal(t, "p2", f.Current())
	})

	t.Run("rate limit benches provider for following calls", func(t *testing.T) {
		p1 := newFakeProvider("p1", 5, nil)
		p1.fetch = func(symbols []string) (domain.Prices, error) {
			return domain.NewPrices(symbols), domain.NewProviderError("p1", domain.ErrRateLimited)
		}
		p2 := newFakeProvider("p2", 5, map[string]float64{"AAPL": 190.5})
		observer := &recordingObserver{}
		f, _ := newTestFetcher(observer, p1, p2)

		prices := f.FetchBatchPrices(context.Background(), []string{"AAPL"})
		assert.Equal(t, 190.5, *prices["AAPL"])

		f.FetchWithPreference(context.Background(), []string{"AAPL"}, []string{"p1", "p2"})
		assert.Len(t, p1.Calls(), 1, "benched provider is skipped")

		require.NotEmpty(t, observer.seen)
		assert.Equal(t, observation{"p1", false, true}, observer.seen[0])
	})

	t.Run("maps Indian symbols both ways", func(t *testing.T) {
		p := newFakeProvider("p1", 5, map[string]float64{"RELIANCE.NS": 2950.15})
		f, _ := newTestFetcher(nil, p)

		prices := f.FetchBatchPrices(context.Background(), []string{"RELIANCE"})

		require.Len(t, p.Calls(), 1)
		assert.Equal(t, []string{"RELIANCE.NS"}, p.Calls()[0])
		assert.Equal(t, 2950.15, *prices["RELIANCE"])
	})

	t.Run("adapter panic is contained", func(t *testing.T) {
		p1 := newFakeProvider("p1", 5, nil)
		p1.fetch = func([]string) (domain.Prices, error) { panic("boom") }
		p2 := newFakeProvider("p2", 5, map[string]float64{"AAPL": 190.5})
		f, _ := newTestFetcher(nil, p1, p2)

		prices := f.FetchBatchPrices(context.Background(), []string{"AAPL"})
		assert.Equal(t, 190.5, *prices["AAPL"])
	})
}

func TestFetcher_FetchWithPreference(t *testing.T) {
	yahoo := newFakeProvider("yahoo", 5, map[string]float64{"AAPL": 1})
	twelve := newFakeProvider("twelvedata", 5, map[string]float64{"AAPL": 190.5})
	f, _ := newTestFetcher(nil, yahoo, twelve)

	prices := f.FetchWithPreference(context.Background(), []string{"AAPL"}, []string{"twelvedata", "unknown", "yahoo"})

	assert.Equal(t, 190.5, *prices["AAPL"])
	assert.Empty(t, yahoo.Calls())
	assert.Equal(t, "yahoo", f.Current(), "preference does not move the round-robin pointer")
}

func TestFetcher_ProviderNames(t *testing.T) {
	f, _ := newTestFetcher(nil, newFakeProvider("a", 1, nil), newFakeProvider("b", 1, nil))
	assert.Equal(t, []string{"a", "b"}, f.ProviderNames())
}

func keys(p domain.Prices) []string {
	out := make([]string, 0, len(p))
	for k := range p {
		out = append(out, k)
	}
	return out
}
