package domain

import "time"

// Source tells where a trending entry's data came from.
type Source string

const (
	SourceRedditYahoo  Source = "reddit_yahoo"  // social mentions enriched with a live quote
	SourceRedditOnly   Source = "reddit_only"   // social mentions, quote fetch failed
	SourceYahooDefault Source = "yahoo_default" // default-list fallback, no social data
)

// RawPost is a social post as fetched from the feed source. Immutable once fetched.
type RawPost struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body,omitempty"`
	Author       string    `json:"author"`
	Upvotes      int       `json:"upvotes"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	Permalink    string    `json:"permalink"`
}

// TaggedPost is a RawPost annotated with the tickers extracted from its text.
type TaggedPost struct {
	RawPost
	Tickers []string `json:"tickers"`
}

// TickerAggregate collapses all mentions of one ticker across a batch of posts.
type TickerAggregate struct {
	Ticker        string      `json:"ticker"`
	MentionCount  int         `json:"mentions"`
	WeightedScore float64     `json:"weighted_score"`
	TopPost       *TaggedPost `json:"top_post,omitempty"`
}

// Quote is a market quote for one ticker. Fields the upstream did not report stay nil.
type Quote struct {
	Ticker        string   `json:"ticker"`
	DisplayName   string   `json:"display_name,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
	MarketCap     *float64 `json:"market_cap,omitempty"`
}

// TrendingEntry is a ticker enriched with both social metrics and quote data,
// as returned to the dashboard.
type TrendingEntry struct {
	Ticker        string   `json:"ticker"`
	DisplayName   string   `json:"display_name,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
	MarketCap     *float64 `json:"market_cap,omitempty"`
	SocialScore   float64  `json:"social_score"`
	Mentions      int      `json:"mentions"`
	Source        Source   `json:"source"`
}

// NewsItem is one market-news headline from an RSS source.
type NewsItem struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Source    string    `json:"source"`
	Published time.Time `json:"published"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
}
