package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
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
	Name = "twelvedata"

	defaultBaseURL = "https://api.twelvedata.com"
	pricePath      = "/price"
)

// Client implements ports.PriceProvider against the Twelve Data /price
// endpoint, which quotes a whole comma-separated chunk in one request.
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
		c.logger = logger.With("component", "twelvedata_client")
	}
}

// NewClient creates a new Twelve Data client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:    defaultBaseURL,
		batchSize:  8,
		batchDelay: 8 * time.Second,
		retryConf:  retry.DefaultConfig(),
		logger:     slog.Default().With("component", "twelvedata_client"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Name() string              { return Name }
func (c *Client) BatchSize() int            { return c.batchSize }
func (c *Client) BatchDelay() time.Duration { return c.batchDelay }

// Format returns Twelve Data's exchange qualifiers
func (c *Client) Format() domain.SymbolFormat {
	return domain.SymbolFormat{NSESuffix: ":NSE", BSESuffix: ":BSE"}
}

// priceEntry is both the single-symbol reply and each value of the
// multi-symbol reply. Price may arrive as a string or a number.
type priceEntry struct {
	Price   json.RawMessage `json:"price"`
	Code    int             `json:"code"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
}

func (e priceEntry) isError() bool {
	return e.Status == "error" || e.Code >= 400
}

func (e priceEntry) isRateLimit() bool {
	if e.Code == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "api credits") || strings.Contains(msg, "rate limit")
}

// FetchPrices quotes the whole chunk in one request
func (c *Client) FetchPrices(ctx context.Context, symbols []string) (domain.Prices, error) {
	prices := domain.NewPrices(symbols)
	if len(symbols) == 0 {
		return prices, nil
	}

	err := retry.Do(ctx, c.retryConf, func(ctx context.Context) error {
		u, err := url.Parse(c.baseURL + pricePath)
		if err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
		q := u.Query()
		q.Set("symbol", strings.Join(symbols, ","))
		q.Set("apikey", c.apiKey)
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Debug("request failed, will retry", "error", err)
			return retry.NewRetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return domain.ErrRateLimited
		}

		if resp.StatusCode >= 500 {
			c.logger.Warn("provider server error", "status", resp.StatusCode)
			return retry.NewRetryableError(domain.ErrProviderUnavailable)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.NewRetryableError(err)
		}

		if resp.StatusCode != http.StatusOK {
			c.logger.Error("unexpected response", "status", resp.StatusCode, "body", string(body))
			return fmt.Errorf("%w: status %d", domain.ErrInvalidResponse, resp.StatusCode)
		}

		return c.decode(body, symbols, prices)
	})
	if err != nil {
		return prices, domain.NewProviderError(Name, err)
	}

	return prices, nil
}

func (c *Client) decode(body []byte, symbols []string, prices domain.Prices) error {
	// A top-level error applies to the whole request
	var top priceEntry
	if err := json.Unmarshal(body, &top); err != nil {
		c.logger.Error("failed to decode response", "error", err)
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if top.isError() {
		if top.isRateLimit() {
			c.logger.Warn("rate limited by provider", "message", top.Message)
			return domain.ErrRateLimited
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidResponse, top.Message)
	}

	if len(symbols) == 1 {
		prices[symbols[0]] = domain.ParsePrice(string(top.Price))
		return nil
	}

	var entries map[string]priceEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}

	for _, symbol := range symbols {
		entry, ok := entries[symbol]
		if !ok || entry.isError() {
			c.logger.Debug("no price for symbol", "symbol", symbol, "message", entry.Message)
			continue
		}
		prices[symbol] = domain.ParsePrice(string(entry.Price))
	}

	return nil
}

// Ensure Client implements PriceProvider
var _ ports.PriceProvider = (*Client)(nil)
