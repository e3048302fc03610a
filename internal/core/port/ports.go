package port

import (
	"context"
	"time"

	"trendflow/internal/core/domain"
)

// FeedPort fetches raw social posts for one community. A failed fetch is an
// error here; the service degrades it to zero posts.
type FeedPort interface {
	FetchPosts(ctx context.Context, community string, limit int) ([]domain.RawPost, error)
}

// QuotePort fetches a market quote for one ticker.
type QuotePort interface {
	FetchQuote(ctx context.Context, ticker string) (domain.Quote, error)
}

// NewsPort fetches recent market-news headlines.
type NewsPort interface {
	FetchNews(ctx context.Context, limit int) ([]domain.NewsItem, error)
}

// CachePort is a time-windowed cache: Set stores a value with an absolute
// expiry computed from ttl at insertion time, Get never returns an expired
// entry. Backend errors on Get degrade to a miss.
type CachePort interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) string
}

type TrendingServicePort interface {
	GetTrendingTickers(ctx context.Context, communities []string, limitPerCommunity int) ([]domain.TickerAggregate, error)
	GetTrendingStocks(ctx context.Context) ([]domain.TrendingEntry, error)
	GetNews(ctx context.Context) ([]domain.NewsItem, error)
}
