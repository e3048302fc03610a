package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"trendflow/internal/core/domain"
	"trendflow/internal/core/port"
)

var _ port.QuotePort = (*Client)(nil)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the quote API base URL (useful for testing).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// Client fetches market quotes from the Yahoo Finance quote API.
type Client struct {
	httpClient HTTPClient
	baseURL    string
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    "https://query1.finance.yahoo.com",
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// Pointer fields keep "not reported" distinguishable from zero.
type quoteResult struct {
	Symbol                     string   `json:"symbol"`
	ShortName                  string   `json:"shortName"`
	LongName                   string   `json:"longName"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketChange        *float64 `json:"regularMarketChange"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
	MarketCap                  *float64 `json:"marketCap"`
}

// FetchQuote retrieves the current quote for one ticker.
func (c *Client) FetchQuote(ctx context.Context, ticker string) (domain.Quote, error) {
	endpoint := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, url.QueryEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Quote{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return domain.Quote{}, fmt.Errorf("yahoo returned HTTP %d for %s", resp.StatusCode, ticker)
	}

	var decoded quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Quote{}, fmt.Errorf("failed to decode quote: %w", err)
	}

	if apiErr := decoded.QuoteResponse.Error; apiErr != nil {
		return domain.Quote{}, fmt.Errorf("yahoo error for %s: %s", ticker, apiErr.Description)
	}
	if len(decoded.QuoteResponse.Result) == 0 {
		return domain.Quote{}, fmt.Errorf("no quote data for %s", ticker)
	}

	result := decoded.QuoteResponse.Result[0]
	name := result.ShortName
	if name == "" {
		name = result.LongName
	}

	return domain.Quote{
		Ticker:        result.Symbol,
		DisplayName:   name,
		Price:         result.RegularMarketPrice,
		Change:        result.RegularMarketChange,
		ChangePercent: result.RegularMarketChangePercent,
		MarketCap:     result.MarketCap,
	}, nil
}
