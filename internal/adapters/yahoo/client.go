package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
	"github.com/twomatetechnologies/moneyflow-prices/internal/ports"
	"github.com/twomatetechnologies/moneyflow-prices/pkg/retry"
)

const (
	// Name identifies this provider in logs, health and stats
	Name = "yahoo"

	defaultBaseURL = "https://query1.finance.yahoo.com"
	chartPath      = "/v8/finance/chart/"
	userAgent      = "Mozilla/5.0 (compatible; moneyflow-prices/1.0)"
)

// Client implements ports.PriceProvider against the Yahoo Finance chart API.
// Yahoo has no batch quote endpoint without a session crumb, so each symbol
// in a chunk is a separate request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	batchSize  int
	batchDelay time.Duration
	retryConf  retry.Config
	logger     *slog.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRetry configures retry behavior
func WithRetry(maxRetries int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.retryConf.MaxRetries = maxRetries
		c.retryConf.InitialBackoff = backoff
	}
}

// WithBatch sets chunk size and the delay callers keep between chunks
func WithBatch(size int, delay time.Duration) ClientOption {
	return func(c *Client) {
		if size > 0 {
			c.batchSize = size
		}
		c.batchDelay = delay
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger.With("component", "yahoo_client")
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:    defaultBaseURL,
		batchSize:  5,
		batchDelay: time.Second,
		retryConf:  retry.DefaultConfig(),
		logger:     slog.Default().With("component", "yahoo_client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Name() string              { return Name }
func (c *Client) BatchSize() int            { return c.batchSize }
func (c *Client) BatchDelay() time.Duration { return c.batchDelay }

// Format returns Yahoo's exchange suffixes, which match the stored ones
func (c *Client) Format() domain.SymbolFormat {
	return domain.SymbolFormat{NSESuffix: ".NS", BSESuffix: ".BO"}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				Currency           string   `json:"currency"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				ChartPreviousClose *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchPrices fetches the latest regular market price for each symbol
func (c *Client) FetchPrices(ctx context.Context, symbols []string) (domain.Prices, error) {
	prices := domain.NewPrices(symbols)
	if len(symbols) == 0 {
		return prices, nil
	}

	var lastErr error
	failed := 0

	for _, symbol := range symbols {
		price, err := c.fetchOne(ctx, symbol)
		if err != nil {
			if domain.IsRateLimited(err) {
				c.logger.Warn("rate limited, aborting chunk", "symbol", symbol)
				return prices, domain.NewProviderError(Name, err)
			}
			if ctx.Err() != nil {
				return prices, domain.NewProviderError(Name, ctx.Err())
			}
			c.logger.Debug("symbol fetch failed", "symbol", symbol, "error", err)
			lastErr = err
			failed++
			continue
		}
		prices[symbol] = price
	}

	if failed == len(symbols) {
		return prices, domain.NewProviderError(Name, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, lastErr))
	}

	return prices, nil
}

// fetchOne returns a nil price without error when the symbol is unknown or
// the payload carries no usable price
func (c *Client) fetchOne(ctx context.Context, symbol string) (*float64, error) {
	return retry.DoWithResult(ctx, c.retryConf, func(ctx context.Context) (*float64, error) {
		u, err := url.Parse(c.baseURL + chartPath + url.PathEscape(symbol))
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		q := u.Query()
		q.Set("interval", "1d")
		q.Set("range", "1d")
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, retry.NewRetryableError(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, domain.ErrRateLimited
		case resp.StatusCode == http.StatusNotFound:
			return nil, nil
		case resp.StatusCode >= 500:
			c.logger.Warn("provider server error", "status", resp.StatusCode, "symbol", symbol)
			return nil, retry.NewRetryableError(domain.ErrProviderUnavailable)
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("%w: status %d", domain.ErrInvalidResponse, resp.StatusCode)
		}

		var chart chartResponse
		if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
			c.logger.Error("failed to decode response", "symbol", symbol, "error", err)
			return nil, nil
		}

		if chart.Chart.Error != nil || len(chart.Chart.Result) == 0 {
			return nil, nil
		}

		meta := chart.Chart.Result[0].Meta
		price := meta.RegularMarketPrice
		if price == nil {
			price = meta.ChartPreviousClose
		}
		if price == nil || !domain.ValidPrice(*price) {
			return nil, nil
		}
		return price, nil
	})
}

// Ensure Client implements PriceProvider
var _ ports.PriceProvider = (*Client)(nil)
