package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
	"github.com/twomatetechnologies/moneyflow-prices/internal/ports"
	"github.com/twomatetechnologies/moneyflow-prices/pkg/retry"
)

const (
	// Name identifies this provider in logs, health and stats
	Name = "alphavantage"

	defaultBaseURL = "https://www.alphavantage.co"
	queryPath      = "/query"
)

// Client implements ports.PriceProvider against the Alpha Vantage
// GLOBAL_QUOTE function, one request per symbol.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
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

// WithAPIKey sets the API key
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
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
		c.logger = logger.With("component", "alphavantage_client")
	}
}

// NewClient creates a new Alpha Vantage client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:    defaultBaseURL,
		batchSize:  5,
		batchDelay: 15 * time.Second,
		retryConf:  retry.DefaultConfig(),
		logger:     slog.Default().With("component", "alphavantage_client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Name() string              { return Name }
func (c *Client) BatchSize() int            { return c.batchSize }
func (c *Client) BatchDelay() time.Duration { return c.batchDelay }

// Format returns Alpha Vantage's exchange suffixes. NSE listings are only
// reachable through their BSE line.
func (c *Client) Format() domain.SymbolFormat {
	return domain.SymbolFormat{NSESuffix: ".BSE", BSESuffix: ".BSE"}
}

type globalQuoteResponse struct {
	GlobalQuote  map[string]string `json:"Global Quote"`
	Note         string            `json:"Note"`
	Information  string            `json:"Information"`
	ErrorMessage string            `json:"Error Message"`
}

func (r globalQuoteResponse) rateLimited() bool {
	for _, msg := range []string{r.Note, r.Information} {
		msg = strings.ToLower(msg)
		if strings.Contains(msg, "call frequency") || strings.Contains(msg, "rate limit") {
			return true
		}
	}
	return false
}

// FetchPrices quotes each symbol in turn, stopping at the first rate limit
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

func (c *Client) fetchOne(ctx context.Context, symbol string) (*float64, error) {
	return retry.DoWithResult(ctx, c.retryConf, func(ctx context.Context) (*float64, error) {
		u, err := url.Parse(c.baseURL + queryPath)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}
		q := u.Query()
		q.Set("function", "GLOBAL_QUOTE")
		q.Set("symbol", symbol)
		q.Set("apikey", c.apiKey)
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, retry.NewRetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, domain.ErrRateLimited
		}

		if resp.StatusCode >= 500 {
			return nil, retry.NewRetryableError(domain.ErrProviderUnavailable)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", domain.ErrInvalidResponse, resp.StatusCode)
		}

		var quote globalQuoteResponse
		if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
			c.logger.Error("failed to decode response", "symbol", symbol, "error", err)
			return nil, nil
		}

		if quote.rateLimited() {
			return nil, domain.ErrRateLimited
		}

		if quote.ErrorMessage != "" {
			c.logger.Debug("provider rejected symbol", "symbol", symbol, "message", quote.ErrorMessage)
			return nil, nil
		}

		return domain.ParsePrice(quote.GlobalQuote["05. price"]), nil
	})
}

// Ensure Client implements PriceProvider
var _ ports.PriceProvider = (*Client)(nil)
