package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
	"github.com/twomatetechnologies/moneyflow-prices/internal/mocks"
	"github.com/twomatetechnologies/moneyflow-prices/internal/services"
)

type updaterFixture struct {
	stocks  *mocks.MockStockRepository
	history *mocks.MockHistoryRepository
	fetcher *mocks.MockPriceFetcher
	health  *services.ProviderHealth
	sleeper *recordingSleeper
	updater *services.PriceUpdater
}

func newUpdaterFixture(t *testing.T) *updaterFixture {
	ctrl := gomock.NewController(t)
	f := &updaterFixture{
		stocks:  mocks.NewMockStockRepository(ctrl),
		history: mocks.NewMockHistoryRepository(ctrl),
		fetcher: mocks.NewMockPriceFetcher(ctrl),
		health:  services.NewProviderHealth(0, 0),
		sleeper: &recordingSleeper{},
	}
	f.updater = services.NewPriceUpdater(f.stocks, f.fetcher, f.health, testLogger(),
		services.WithHistory(f.history),
		services.WithGroupDelay(2*time.Second),
		services.WithUpdaterSleeper(f.sleeper.Sleep),
	)
	return f
}

func TestPriceUpdater_UpdateAll(t *testing.T) {
	t.Run("routes region groups and stores resolved prices", func(t *testing.T) {
		f := newUpdaterFixture(t)

		f.stocks.EXPECT().DistinctSymbols(gomock.Any()).Return([]string{"AAPL", "RELIANCE", "SHEL.L"}, nil)
		f.fetcher.EXPECT().
			FetchWithPreference(gomock.Any(), []string{"RELIANCE"}, []string{"yahoo", "twelvedata", "alphavantage"}).
			Return(domain.Prices{"RELIANCE": domain.Price(2950.15)})
		f.fetcher.EXPECT().
			FetchWithPreference(gomock.Any(), []string{"AAPL"}, []string{"twelvedata", "yahoo", "alphavantage"}).
			Return(domain.Prices{"AAPL": domain.Price(190.5)})
		f.fetcher.EXPECT().ProviderNames().Return([]string{"yahoo", "twelvedata"})
		f.fetcher.EXPECT().
			FetchWithPreference(gomock.Any(), []string{"SHEL.L"}, []string{"yahoo", "twelvedata"}).
			Return(domain.Prices{"SHEL.L": nil})
		f.stocks.EXPECT().
			UpdatePricesBySymbol(gomock.Any(), map[string]float64{"RELIANCE": 2950.15, "AAPL": 190.5}, gomock.Any()).
			Return(map[string]int64{"RELIANCE": 2, "AAPL": 1}, nil)
		f.history.EXPECT().
			CreateBatch(gomock.Any(), gomock.Len(2)).
			DoAndReturn(func(_ context.Context, snapshots []*domain.PriceSnapshot) error {
				for _, s := range snapshots {
					assert.Equal(t, services.SourceScheduled, s.Source)
				}
				return nil
			})

		result := f.updater.UpdateAll(context.Background(), nil)

		assert.True(t, result.Success)
		assert.Equal(t, 2, result.UpdatedCount)
		assert.Equal(t, 1, result.FailedCount)
		assert.Equal(t, []string{"AAPL", "RELIANCE"}, result.UpdatedSymbols)
		assert.Equal(t, []string{"SHEL.L"}, result.FailedSymbols)
		assert.Len(t, result.Errors, 1)
		assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, f.sleeper.sleeps)
	})

	t.Run("rate limited provider is dropped from later groups", func(t *testing.T) {
		f := newUpdaterFixture(t)
		f.health.MarkRateLimited("twelvedata")

		f.stocks.EXPECT().DistinctSymbols(gomock.Any()).Return([]string{"AAPL"}, nil)
		f.fetcher.EXPECT().
			FetchWithPreference(gomock.Any(), []string{"AAPL"}, []string{"yahoo", "alphavantage"}).
			Return(domain.Prices{"AAPL": domain.Price(190.5)})
		f.stocks.EXPECT().UpdatePricesBySymbol(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(map[string]int64{"AAPL": 1}, nil)
		f.history.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(nil)

		result := f.updater.UpdateAll(context.Background(), nil)
		assert.True(t, result.Success)
	})

	t.Run("total exhaustion fails every symbol", func(t *testing.T) {
		f := newUpdaterFixture(t)

		f.stocks.EXPECT().DistinctSymbols(gomock.Any()).Return([]string{"AAPL", "MSFT", "TSLA"}, nil)
		f.fetcher.EXPECT().FetchWithPreference(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.NewPrices([]string{"AAPL", "MSFT", "TSLA"}))

		result := f.updater.UpdateAll(context.Background(), nil)

		assert.False(t, result.Success)
		assert.Equal(t, 0, result.UpdatedCount)
		assert.Equal(t, 3, result.FailedCount)
	})

	t.Run("storage write failure counts resolved symbols as failed", func(t *testing.T) {
		f := newUpdaterFixture(t)

		f.stocks.EXPECT().DistinctSymbols(gomock.Any()).Return([]string{"AAPL", "MSFT"}, nil)
		f.fetcher.EXPECT().FetchWithPreference(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.Prices{"AAPL": domain.Price(190.5), "MSFT": nil})
		f.stocks.EXPECT().UpdatePricesBySymbol(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, domain.ErrDatabaseConnection)

		result := f.updater.UpdateAll(context.Background(), nil)

		assert.False(t, result.Success)
		assert.Equal(t, 0, result.UpdatedCount)
		assert.Equal(t, 2, result.FailedCount)
		assert.Contains(t, result.Reason, domain.ErrDatabaseConnection.Error())
	})

	t.Run("symbol listing failure", func(t *testing.T) {
		f := newUpdaterFixture(t)
		f.stocks.EXPECT().DistinctSymbols(gomock.Any()).Return(nil, errors.New("connection refused"))

		result := f.updater.UpdateAll(context.Background(), nil)

		assert.False(t, result.Success)
		assert.Equal(t, "connection refused", result.Reason)
	})

	t.Run("no holdings is a successful no-op", func(t *testing.T) {
		f := newUpdaterFixture(t)
		f.stocks.EXPECT().DistinctSymbols(gomock.Any()).Return(nil, nil)

		result := f.updater.UpdateAll(context.Background(), nil)

		assert.True(t, result.Success)
		assert.Zero(t, result.UpdatedCount+result.FailedCount)
	})

	t.Run("duration is measured with the injected clock", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		stocks := mocks.NewMockStockRepository(ctrl)
		base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
		calls := 0
		clock := func() time.Time {
			calls++
			return base.Add(time.Duration(calls-1) * 7 * time.Minute)
		}

		updater := services.NewPriceUpdater(stocks, mocks.NewMockPriceFetcher(ctrl), services.NewProviderHealth(0, 0), testLogger(),
			services.WithUpdaterClock(clock),
		)
		stocks.EXPECT().DistinctSymbols(gomock.Any()).Return(nil, nil)

		result := updater.UpdateAll(context.Background(), nil)

		assert.Equal(t, base, result.StartedAt)
		assert.Equal(t, 7*time.Minute, result.Duration)
		assert.Equal(t, int64(420000), result.DurationMs)
	})

	t.Run("lowercase stored symbol resolves and keeps its stored spelling", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		stocks := mocks.NewMockStockRepository(ctrl)
		history := mocks.NewMockHistoryRepository(ctrl)
		provider := newFakeProvider("yahoo", 5, map[string]float64{"INFY.NS": 1510.4})
		fetcher, _ := newTestFetcher(nil, provider)

		updater := services.NewPriceUpdater(stocks, fetcher, services.NewProviderHealth(0, 0), testLogger(),
			services.WithHistory(history),
		)

		stocks.EXPECT().DistinctSymbols(gomock.Any()).Return([]string{"infy.ns"}, nil)
		stocks.EXPECT().
			UpdatePricesBySymbol(gomock.Any(), map[string]float64{"infy.ns": 1510.4}, gomock.Any()).
			Return(map[string]int64{"infy.ns": 1}, nil)
		history.EXPECT().CreateBatch(gomock.Any(), gomock.Len(1)).Return(nil)

		result := updater.UpdateAll(context.Background(), nil)

		require.Len(t, provider.Calls(), 1)
		assert.Equal(t, []string{"INFY.NS"}, provider.Calls()[0])
		assert.True(t, result.Success)
		assert.Equal(t, []string{"infy.ns"}, result.UpdatedSymbols)
	})

	t.Run("region filter skips other groups", func(t *testing.T) {
		f := newUpdaterFixture(t)

		f.stocks.EXPECT().DistinctSymbols(gomock.Any()).Return([]string{"AAPL", "TCS"}, nil)
		f.fetcher.EXPECT().
			FetchWithPreference(gomock.Any(), []string{"TCS"}, gomock.Any()).
			Return(domain.Prices{"TCS": domain.Price(4100)})
		f.stocks.EXPECT().UpdatePricesBySymbol(gomock.Any(), map[string]float64{"TCS": 4100}, gomock.Any()).
			Return(map[string]int64{"TCS": 1}, nil)
		f.history.EXPECT().CreateBatch(gomock.Any(), gomock.Len(1)).Return(nil)

		result := f.updater.UpdateAll(context.Background(), []domain.Region{domain.RegionIndian})

		assert.True(t, result.Success)
		assert.Equal(t, 1, result.UpdatedCount)
		assert.Empty(t, f.sleeper.sleeps)
	})

	t.Run("retention prunes expired history", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		stocks := mocks.NewMockStockRepository(ctrl)
		history := mocks.NewMockHistoryRepository(ctrl)
		fetcher := mocks.NewMockPriceFetcher(ctrl)
		now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

		updater := services.NewPriceUpdater(stocks, fetcher, services.NewProviderHealth(0, 0), testLogger(),
			services.WithHistory(history),
			services.WithRetention(30*24*time.Hour),
			services.WithUpdaterClock(func() time.Time { return now }),
		)

		stocks.EXPECT().DistinctSymbols(gomock.Any()).Return([]string{"AAPL"}, nil)
		fetcher.EXPECT().FetchWithPreference(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.Prices{"AAPL": domain.Price(190.5)})
		stocks.EXPECT().UpdatePricesBySymbol(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(map[string]int64{"AAPL": 1}, nil)
		history.EXPECT().CreateBatch(gomock.Any(), gomock.Any()).Return(nil)
		history.EXPECT().Prune(gomock.Any(), now.Add(-30*24*time.Hour)).Return(int64(12), nil)

		assert.True(t, updater.UpdateAll(context.Background(), nil).Success)
	})
}

func TestPriceUpdater_RefreshSymbols(t *testing.T) {
	t.Run("partial refresh", func(t *testing.T) {
		f := newUpdaterFixture(t)

		f.fetcher.EXPECT().FetchBatchPrices(gomock.Any(), []string{"AAPL", "HDFCBANK"}).
			Return(domain.Prices{"AAPL": domain.Price(190.5), "HDFCBANK": nil})
		f.stocks.EXPECT().UpdatePricesBySymbol(gomock.Any(), map[string]float64{"AAPL": 190.5}, gomock.Any()).
			Return(map[string]int64{"AAPL": 1}, nil)
		f.history.EXPECT().CreateBatch(gomock.Any(), gomock.Len(1)).Return(nil)
		f.fetcher.EXPECT().ProviderNames().Return([]string{"yahoo", "twelvedata"})

		outcome, err := f.updater.RefreshSymbols(context.Background(), []string{" aapl", "HDFCBANK"})
		require.NoError(t, err)

		assert.Equal(t, 1, outcome.Updated)
		assert.Equal(t, 2, outcome.Total)
		assert.Equal(t, []string{"HDFCBANK"}, outcome.FailedSymbols)
		assert.Equal(t, []string{"yahoo", "twelvedata"}, outcome.Providers)
		assert.Nil(t, outcome.Prices["HDFCBANK"])
	})

	t.Run("rejects empty and malformed input", func(t *testing.T) {
		f := newUpdaterFixture(t)

		_, err := f.updater.RefreshSymbols(context.Background(), nil)
		assert.ErrorIs(t, err, domain.ErrNoSymbols)

		_, err = f.updater.RefreshSymbols(context.Background(), []string{"AAPL", "BAD SYMBOL"})
		assert.ErrorIs(t, err, domain.ErrInvalidSymbol)
	})

	t.Run("storage failure is returned", func(t *testing.T) {
		f := newUpdaterFixture(t)

		f.fetcher.EXPECT().FetchBatchPrices(gomock.Any(), gomock.Any()).
			Return(domain.Prices{"AAPL": domain.Price(190.5)})
		f.stocks.EXPECT().UpdatePricesBySymbol(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, domain.ErrDatabaseQuery)

		_, err := f.updater.RefreshSymbols(context.Background(), []string{"AAPL"})
		assert.ErrorIs(t, err, domain.ErrDatabaseQuery)
	})
}
