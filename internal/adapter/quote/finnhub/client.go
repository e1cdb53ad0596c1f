package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/assetpro/assetpro-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://finnhub.io/api/v1"

// Client is a QuoteSource backed by the Finnhub quote endpoint
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a Finnhub client. An empty baseURL uses the public API.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// quoteResponse is the subset of Finnhub's quote payload we read:
// "c" is the current price.
type quoteResponse struct {
	Current float64 `json:"c"`
}

// Quote returns the current per-unit price for the symbol.
// Finnhub answers 200 with a zero price for unknown symbols, so a
// non-positive price maps to ErrQuoteUnavailable as well.
func (c *Client) Quote(ctx context.Context, symbol, apiKey string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/quote?symbol=%s&token=%s",
		c.BaseURL, url.QueryEscape(symbol), url.QueryEscape(apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build quote request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("quote request for %s returned status %d: %w",
			symbol, resp.StatusCode, domain.ErrQuoteUnavailable)
	}

	var payload quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode quote response: %w", err)
	}

	if payload.Current <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrQuoteUnavailable, symbol)
	}

	return decimal.NewFromFloat(payload.Current), nil
}
