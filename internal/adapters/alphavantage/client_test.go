package alphavantage_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twomatetechnologies/moneyflow-prices/internal/adapters/alphavantage"
	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
)

const rateLimitNote = `{"Note":"Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute and 500 calls per day."}`

func globalQuote(symbol, price string) string {
	return fmt.Sprintf(`{"Global Quote":{"01. symbol":%q,"05. price":%q}}`, symbol, price)
}

func newClient(url string) *alphavantage.Client {
	return alphavantage.NewClient(
		alphavantage.WithBaseURL(url),
		alphavantage.WithAPIKey("test-key"),
		alphavantage.WithRetry(0, 0),
	)
}

func TestClient_FetchPrices(t *testing.T) {
	t.Run("quotes each symbol", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "GLOBAL_QUOTE", q.Get("function"))
			assert.Equal(t, "test-key", q.Get("apikey"))

			switch q.Get("symbol") {
			case "AAPL":
				fmt.Fprint(w, globalQuote("AAPL", "190.5000"))
			case "RELIANCE.BSE":
				fmt.Fprint(w, globalQuote("RELIANCE.BSE", "2949.9000"))
			default:
				fmt.Fprint(w, `{"Global Quote":{}}`)
			}
		}))
		defer server.Close()

		prices, err := newClient(server.URL).FetchPrices(context.Background(), []string{"AAPL", "RELIANCE.BSE", "ZZZZ"})
		require.NoError(t, err)
		assert.Equal(t, 190.5, *prices["AAPL"])
		assert.Equal(t, 2949.9, *prices["RELIANCE.BSE"])
		assert.Nil(t, prices["ZZZZ"])
	})

	t.Run("frequency note stops the chunk", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				fmt.Fprint(w, globalQuote("AAPL", "190.5"))
				return
			}
			fmt.Fprint(w, rateLimitNote)
		}))
		defer server.Close()

		prices, err := newClient(server.URL).FetchPrices(context.Background(), []string{"AAPL", "MSFT", "IBM"})
		assert.ErrorIs(t, err, domain.ErrRateLimited)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 190.5, *prices["AAPL"])
		assert.Nil(t, prices["MSFT"])
		assert.Nil(t, prices["IBM"])
	})

	t.Run("error message yields nil price", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"Error Message":"Invalid API call."}`)
		}))
		defer server.Close()

		prices, err := newClient(server.URL).FetchPrices(context.Background(), []string{"BAD"})
		require.NoError(t, err)
		assert.Nil(t, prices["BAD"])
	})

	t.Run("unauthorized on every symbol fails the batch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := newClient(server.URL).FetchPrices(context.Background(), []string{"AAPL", "MSFT"})
		assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	})
}
