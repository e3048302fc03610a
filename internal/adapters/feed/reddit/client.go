package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"trendflow/internal/core/domain"
	"trendflow/internal/core/port"
)

var _ port.FeedPort = (*Client)(nil)

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

// WithBaseURL overrides the reddit base URL (useful for testing).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithUserAgent sets the User-Agent header. Reddit throttles generic agents
// hard, so deployments should set a descriptive one.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRateLimit replaces the client-side limiter.
func WithRateLimit(limiter *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// Client fetches hot posts from reddit's public JSON listings.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    "https://www.reddit.com",
		userAgent:  "trendflow/1.0",
		// Unauthenticated clients get ~60 requests/minute before 429s.
		limiter: rate.NewLimiter(rate.Every(1100*time.Millisecond), 2),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

type listingResponse struct {
	Data struct {
		Children []struct {
			Data listingPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type listingPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Ups         int     `json:"ups"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
	Stickied    bool    `json:"stickied"`
}

// FetchPosts retrieves up to limit hot posts from /r/<community>. Stickied
// posts (rules, megathread pins) are skipped.
func (c *Client) FetchPosts(ctx context.Context, community string, limit int) ([]domain.RawPost, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", c.baseURL, url.PathEscape(community), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned HTTP %d for r/%s", resp.StatusCode, community)
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}

	posts := make([]domain.RawPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		raw := child.Data
		if raw.Stickied {
			continue
		}
		posts = append(posts, domain.RawPost{
			ID:           raw.ID,
			Title:        raw.Title,
			Body:         raw.Selftext,
			Author:       raw.Author,
			Upvotes:      max(raw.Ups, 0),
			CommentCount: max(raw.NumComments, 0),
			CreatedAt:    time.Unix(int64(raw.CreatedUTC), 0).UTC(),
			Permalink:    "https://www.reddit.com" + raw.Permalink,
		})
	}

	return posts, nil
}
