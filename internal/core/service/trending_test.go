package service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendflow/internal/adapters/cache/memory"
	"trendflow/internal/core/domain"
)

type stubFeed struct {
	posts map[string][]domain.RawPost
	err   error
	calls atomic.Int64
}

func (f *stubFeed) FetchPosts(_ context.Context, community string, _ int) ([]domain.RawPost, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.posts[community], nil
}

type stubQuotes struct {
	quotes map[string]domain.Quote
	fail   map[string]bool
	calls  atomic.Int64
}

func (q *stubQuotes) FetchQuote(_ context.Context, ticker string) (domain.Quote, error) {
	q.calls.Add(1)
	if q.fail[ticker] {
		return domain.Quote{}, errors.New("quote upstream unavailable")
	}
	quote, ok := q.quotes[ticker]
	if !ok {
		return domain.Quote{}, errors.New("unknown ticker")
	}
	return quote, nil
}

type stubNews struct {
	items []domain.NewsItem
	err   error
}

func (n *stubNews) FetchNews(_ context.Context, _ int) ([]domain.NewsItem, error) {
	return n.items, n.err
}

func fptr(v float64) *float64 { return &v }

func quoteFor(ticker string, price float64) domain.Quote {
	return domain.Quote{
		Ticker:      ticker,
		DisplayName: ticker + " Inc.",
		Price:       fptr(price),
		Change:      fptr(1.5),
		MarketCap:   fptr(1e9),
	}
}

func newTestService(t *testing.T, feed *stubFeed, quotes *stubQuotes, settings Settings) *TrendingService {
	t.Helper()

	svc := NewTrendingService(
		feed,
		quotes,
		&stubNews{},
		memory.New(),
		NewExtractor(nil),
		slog.Default(),
		settings,
	)
	t.Cleanup(svc.Stop)

	return svc
}

func TestGetTrendingStocksFullPipeline(t *testing.T) {
	feed := &stubFeed{posts: map[string][]domain.RawPost{
		"wallstreetbets": {
			{ID: "1", Title: "$GME to the moon", Upvotes: 1000},
			{ID: "2", Title: "GME again", Upvotes: 50},
			{ID: "3", Title: "$AAPL earnings", Upvotes: 10},
		},
	}}
	quotes := &stubQuotes{quotes: map[string]domain.Quote{
		"GME":  quoteFor("GME", 25.0),
		"AAPL": quoteFor("AAPL", 180.0),
	}}

	svc := newTestService(t, feed, quotes, Settings{Communities: []string{"wallstreetbets"}})

	entries, err := svc.GetTrendingStocks(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "GME", entries[0].Ticker)
	assert.Equal(t, 2, entries[0].Mentions)
	assert.Equal(t, domain.SourceRedditYahoo, entries[0].Source)
	require.NotNil(t, entries[0].Price)
	assert.Equal(t, 25.0, *entries[0].Price)
	assert.Equal(t, "AAPL", entries[1].Ticker)
	assert.Greater(t, entries[0].SocialScore, entries[1].SocialScore)
}

func TestGetTrendingStocksPartialQuoteFailure(t *testing.T) {
	feed := &stubFeed{posts: map[string][]domain.RawPost{
		"stocks": {
			{ID: "1", Title: "$GME squeeze", Upvotes: 500},
			{ID: "2", Title: "$AAPL dip", Upvotes: 100},
		},
	}}
	quotes := &stubQuotes{
		quotes: map[string]domain.Quote{"AAPL": quoteFor("AAPL", 180.0)},
		fail:   map[string]bool{"GME": true},
	}

	svc := newTestService(t, feed, quotes, Settings{Communities: []string{"stocks"}})

	entries, err := svc.GetTrendingStocks(context.Background())

	require.NoError(t, err)
	// GME is retained internally as reddit_only but filtered from the
	// surfaced list because it has no price.
	require.Len(t, entries, 1)
	assert.Equal(t, "AAPL", entries[0].Ticker)
}

func TestGetTrendingStocksAllQuotesFail(t *testing.T) {
	feed := &stubFeed{posts: map[string][]domain.RawPost{
		"stocks": {{ID: "1", Title: "$GME and $AMC", Upvotes: 10}},
	}}
	quotes := &stubQuotes{fail: map[string]bool{"GME": true, "AMC": true}}

	svc := newTestService(t, feed, quotes, Settings{Communities: []string{"stocks"}})

	entries, err := svc.GetTrendingStocks(context.Background())

	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetTrendingStocksFallsBackToDefaults(t *testing.T) {
	feed := &stubFeed{err: errors.New("rate limited")}
	quotes := &stubQuotes{quotes: map[string]domain.Quote{
		"AAPL": quoteFor("AAPL", 180.0),
		"MSFT": quoteFor("MSFT", 410.0),
	}}

	svc := newTestService(t, feed, quotes, Settings{
		Communities:    []string{"stocks"},
		DefaultTickers: []string{"AAPL", "MSFT"},
	})

	entries, err := svc.GetTrendingStocks(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, domain.SourceYahooDefault, entry.Source)
		assert.Zero(t, entry.Mentions)
		assert.Zero(t, entry.SocialScore)
		require.NotNil(t, entry.Price)
	}
	// Zero scores keep the configured order.
	assert.Equal(t, "AAPL", entries[0].Ticker)
	assert.Equal(t, "MSFT", entries[1].Ticker)
}

func TestGetTrendingStocksRespectsTopN(t *testing.T) {
	posts := []domain.RawPost{
		{ID: "1", Title: "$GME big", Upvotes: 1000},
		{ID: "2", Title: "$AMC mid", Upvotes: 100},
		{ID: "3", Title: "$PLTR small", Upvotes: 10},
	}
	feed := &stubFeed{posts: map[string][]domain.RawPost{"stocks": posts}}
	quotes := &stubQuotes{quotes: map[string]domain.Quote{
		"GME": quoteFor("GME", 25.0),
		"AMC": quoteFor("AMC", 5.0),
	}}

	svc := newTestService(t, feed, quotes, Settings{
		Communities: []string{"stocks"},
		TopN:        2,
	})

	entries, err := svc.GetTrendingStocks(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "GME", entries[0].Ticker)
	assert.Equal(t, "AMC", entries[1].Ticker)
	assert.Equal(t, int64(2), quotes.calls.Load(), "PLTR should not be fetched")
}

func TestGetTrendingTickersUsesCache(t *testing.T) {
	feed := &stubFeed{posts: map[string][]domain.RawPost{
		"stocks": {{ID: "1", Title: "$GME", Upvotes: 10}},
	}}
	quotes := &stubQuotes{}

	svc := newTestService(t, feed, quotes, Settings{Communities: []string{"stocks"}})

	ctx := context.Background()
	first, err := svc.GetTrendingTickers(ctx, nil, 0)
	require.NoError(t, err)
	second, err := svc.GetTrendingTickers(ctx, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), feed.calls.Load(), "second call must be served from cache")
}

func TestGetTrendingTickersDifferentParamsDoNotCollide(t *testing.T) {
	feed := &stubFeed{posts: map[string][]domain.RawPost{
		"stocks":    {{ID: "1", Title: "$GME", Upvotes: 10}},
		"investing": {{ID: "2", Title: "$AAPL", Upvotes: 10}},
	}}
	quotes := &stubQuotes{}

	svc := newTestService(t, feed, quotes, Settings{Communities: []string{"stocks"}})

	ctx := context.Background()
	_, err := svc.GetTrendingTickers(ctx, []string{"stocks"}, 10)
	require.NoError(t, err)
	_, err = svc.GetTrendingTickers(ctx, []string{"investing"}, 10)
	require.NoError(t, err)
	_, err = svc.GetTrendingTickers(ctx, []string{"stocks"}, 25)
	require.NoError(t, err)

	assert.Equal(t, int64(3), feed.calls.Load())
}

func TestGetTrendingTickersMergesCommunities(t *testing.T) {
	feed := &stubFeed{posts: map[string][]domain.RawPost{
		"stocks":    {{ID: "1", Title: "$GME one", Upvotes: 10}},
		"investing": {{ID: "2", Title: "$GME two", Upvotes: 20}},
	}}
	quotes := &stubQuotes{}

	svc := newTestService(t, feed, quotes, Settings{
		Communities: []string{"stocks", "investing"},
	})

	aggs, err := svc.GetTrendingTickers(context.Background(), nil, 0)

	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, 2, aggs[0].MentionCount)
}

func TestGetNewsDegradesToEmpty(t *testing.T) {
	svc := NewTrendingService(
		&stubFeed{},
		&stubQuotes{},
		&stubNews{err: errors.New("feeds down")},
		memory.New(),
		NewExtractor(nil),
		slog.Default(),
		Settings{},
	)
	t.Cleanup(svc.Stop)

	items, err := svc.GetNews(context.Background())

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetNewsCached(t *testing.T) {
	news := &stubNews{items: []domain.NewsItem{
		{Title: "Markets rally", Link: "https://example.com/1", Published: time.Now().UTC().Truncate(time.Second)},
	}}
	svc := NewTrendingService(
		&stubFeed{},
		&stubQuotes{},
		news,
		memory.New(),
		NewExtractor(nil),
		slog.Default(),
		Settings{},
	)
	t.Cleanup(svc.Stop)

	ctx := context.Background()
	first, err := svc.GetNews(ctx)
	require.NoError(t, err)

	news.items = nil // a cached second call must not see this
	second, err := svc.GetNews(ctx)
	require.NoError(t, err)

	require.Len(t, second, 1)
	assert.Equal(t, first[0].Title, second[0].Title)
	assert.Equal(t, first[0].Link, second[0].Link)
	assert.True(t, first[0].Published.Equal(second[0].Published))
}
