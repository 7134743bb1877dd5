// Package exchange implements the HTTP client for the upstream currency
// provider. The client is a value type holding only the base URL, the API
// key, and an http.Client with an explicit timeout; it is safe to share
// across concurrent requests.
package exchange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dpavlenko/curex/internal/common"
	"github.com/dpavlenko/curex/internal/server/config"
)

// Client talks to the upstream exchange provider. One GET per operation,
// no retries: a non-success status is reported immediately as
// *common.UpstreamError carrying the provider's body verbatim.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a Client from server config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.ExchangeAPIBaseURL,
		apiKey:     cfg.ExchangeAPIKey,
		httpClient: &http.Client{Timeout: cfg.ExchangeTimeout},
	}
}

// Latest fetches the current rate from the base currency to the target one.
func (c *Client) Latest(ctx context.Context, base, target string) ([]byte, error) {
	return c.get(ctx, "latest", url.Values{
		"base_currency": {base},
		"currencies":    {target},
	})
}

// History fetches rates for the base currency over the given date range.
// Dates are passed through to the provider as-is (YYYY-MM-DD).
func (c *Client) History(ctx context.Context, base, fromDate, toDate string) ([]byte, error) {
	return c.get(ctx, "historical", url.Values{
		"base_currency": {base},
		"date_from":     {fromDate},
		"date_to":       {toDate},
	})
}

// Info fetches the provider's metadata for a single currency.
func (c *Client) Info(ctx context.Context, currency string) ([]byte, error) {
	return c.get(ctx, "currencies", url.Values{
		"currencies": {currency},
	})
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &common.UpstreamError{StatusCode: resp.StatusCode, Body: body}
	}

	return body, nil
}
