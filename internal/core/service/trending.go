package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"trendflow/internal/core/domain"
	"trendflow/internal/core/port"
	"trendflow/internal/metrics"
	"trendflow/internal/pkg/workerpool"
)

var _ port.TrendingServicePort = (*TrendingService)(nil)

// DefaultTickers is the fallback list used when the social feed yields no
// usable mentions at all, so the dashboard never renders empty.
var DefaultTickers = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA",
	"TSLA", "META", "AMD", "NFLX", "INTC",
}

type Settings struct {
	Communities    []string
	PostLimit      int
	TopN           int
	QuoteWorkers   int
	NewsLimit      int
	FeedTTL        time.Duration
	QuoteTTL       time.Duration
	NewsTTL        time.Duration
	FeedTimeout    time.Duration
	QuoteTimeout   time.Duration
	DefaultTickers []string
}

func (s *Settings) applyDefaults() {
	if len(s.Communities) == 0 {
		s.Communities = []string{"wallstreetbets", "stocks", "investing"}
	}
	if s.PostLimit <= 0 {
		s.PostLimit = 50
	}
	if s.TopN <= 0 {
		s.TopN = 15
	}
	if s.QuoteWorkers <= 0 {
		s.QuoteWorkers = 5
	}
	if s.NewsLimit <= 0 {
		s.NewsLimit = 20
	}
	if s.FeedTTL <= 0 {
		s.FeedTTL = 10 * time.Minute
	}
	if s.QuoteTTL <= 0 {
		s.QuoteTTL = time.Minute
	}
	if s.NewsTTL <= 0 {
		s.NewsTTL = 10 * time.Minute
	}
	if s.FeedTimeout <= 0 {
		s.FeedTimeout = 10 * time.Second
	}
	if s.QuoteTimeout <= 0 {
		s.QuoteTimeout = 5 * time.Second
	}
	if len(s.DefaultTickers) == 0 {
		s.DefaultTickers = DefaultTickers
	}
}

// TrendingService runs the mention-aggregation pipeline: social posts in,
// ranked quote-enriched trending entries out. Upstream failures degrade to
// partial or default data; the operations only error on caller mistakes.
type TrendingService struct {
	feed      port.FeedPort
	quotes    port.QuotePort
	news      port.NewsPort
	cache     port.CachePort
	extractor *Extractor
	pool      *workerpool.WorkerPool
	logger    *slog.Logger
	settings  Settings
}

func NewTrendingService(
	feed port.FeedPort,
	quotes port.QuotePort,
	news port.NewsPort,
	cache port.CachePort,
	extractor *Extractor,
	logger *slog.Logger,
	settings Settings,
) *TrendingService {
	settings.applyDefaults()

	return &TrendingService{
		feed:      feed,
		quotes:    quotes,
		news:      news,
		cache:     cache,
		extractor: extractor,
		pool:      workerpool.NewWorkerPool(settings.QuoteWorkers),
		logger:    logger,
		settings:  settings,
	}
}

// Stop shuts down the fan-out pool. The service must not be used afterwards.
func (s *TrendingService) Stop() {
	s.pool.Stop()
}

// GetTrendingTickers fetches posts from every community concurrently, tags
// them, and returns the aggregated per-ticker statistics sorted by weighted
// score. Empty communities/limit fall back to the configured defaults.
func (s *TrendingService) GetTrendingTickers(ctx context.Context, communities []string, limitPerCommunity int) ([]domain.TickerAggregate, error) {
	if len(communities) == 0 {
		communities = s.settings.Communities
	}
	if limitPerCommunity <= 0 {
		limitPerCommunity = s.settings.PostLimit
	}

	posts := s.collectPosts(ctx, communities, limitPerCommunity)
	tagged := TagPosts(s.extractor, posts)

	return Aggregate(tagged), nil
}

// GetTrendingStocks applies the full pipeline: aggregate mentions, take the
// top N tickers, enrich each with a quote, and return the price-bearing
// entries sorted by social score. With zero social mentions it falls back to
// the default ticker list so the caller still gets a non-empty result
// whenever quote data is reachable.
func (s *TrendingService) GetTrendingStocks(ctx context.Context) ([]domain.TrendingEntry, error) {
	aggregates, err := s.GetTrendingTickers(ctx, nil, 0)
	if err != nil {
		return nil, err
	}

	if len(aggregates) > s.settings.TopN {
		aggregates = aggregates[:s.settings.TopN]
	}

	enriched := domain.SourceRedditYahoo
	if len(aggregates) == 0 {
		s.logger.Warn("no social mentions available, using default ticker list")
		for _, ticker := range s.settings.DefaultTickers {
			aggregates = append(aggregates, domain.TickerAggregate{Ticker: ticker})
		}
		enriched = domain.SourceYahooDefault
	}

	tickers := make([]string, len(aggregates))
	for i, agg := range aggregates {
		tickers[i] = agg.Ticker
	}

	outcomes := s.fetchQuotes(ctx, tickers)

	return s.mergeTrending(aggregates, outcomes, enriched), nil
}

// GetNews returns recent market headlines, cached. A failed fetch degrades
// to an empty list.
func (s *TrendingService) GetNews(ctx context.Context) ([]domain.NewsItem, error) {
	key := cacheKey("news", strconv.Itoa(s.settings.NewsLimit))

	if raw, ok := s.cache.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues("news").Inc()
		var items []domain.NewsItem
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
	}
	metrics.CacheMisses.WithLabelValues("news").Inc()

	items, err := s.news.FetchNews(ctx, s.settings.NewsLimit)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("news").Inc()
		s.logger.Warn("news fetch failed", slog.Any("error", err))
		return []domain.NewsItem{}, nil
	}

	s.storeCached(ctx, key, items, s.settings.NewsTTL)

	return items, nil
}

// collectPosts fans out one fetch per community and joins the batch. A failed
// community contributes zero posts. The concatenation order follows the input
// community order, not fetch completion order, keeping aggregation input
// deterministic.
func (s *TrendingService) collectPosts(ctx context.Context, communities []string, limit int) []domain.RawPost {
	results := make([][]domain.RawPost, len(communities))

	var wg sync.WaitGroup
	for i, community := range communities {
		wg.Add(1)
		s.pool.Submit(func() {
			defer wg.Done()
			results[i] = s.fetchPosts(ctx, community, limit)
		})
	}
	wg.Wait()

	var posts []domain.RawPost
	for _, r := range results {
		posts = append(posts, r...)
	}

	return posts
}

func (s *TrendingService) fetchPosts(ctx context.Context, community string, limit int) []domain.RawPost {
	key := cacheKey("posts", community, strconv.Itoa(limit))

	if raw, ok := s.cache.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues("posts").Inc()
		var posts []domain.RawPost
		if err := json.Unmarshal(raw, &posts); err == nil {
			return posts
		}
	}
	metrics.CacheMisses.WithLabelValues("posts").Inc()

	fetchCtx, cancel := context.WithTimeout(ctx, s.settings.FeedTimeout)
	defer cancel()

	posts, err := s.feed.FetchPosts(fetchCtx, community, limit)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("feed").Inc()
		s.logger.Warn("feed fetch failed, treating as zero posts",
			slog.String("community", community),
			slog.Any("error", err))
		return nil
	}

	s.storeCached(ctx, key, posts, s.settings.FeedTTL)

	return posts
}

// quoteOutcome is the settled result of one quote fetch, success or failure.
// Keeping both variants explicit lets a single merge step apply the
// partial-failure policy instead of scattered inline fallbacks.
type quoteOutcome struct {
	ticker string
	quote  domain.Quote
	err    error
}

// fetchQuotes issues one quote fetch per ticker through the worker pool and
// waits for the whole batch to settle. outcomes[i] corresponds to tickers[i].
func (s *TrendingService) fetchQuotes(ctx context.Context, tickers []string) []quoteOutcome {
	outcomes := make([]quoteOutcome, len(tickers))

	var wg sync.WaitGroup
	for i, ticker := range tickers {
		wg.Add(1)
		s.pool.Submit(func() {
			defer wg.Done()
			quote, err := s.fetchQuote(ctx, ticker)
			outcomes[i] = quoteOutcome{ticker: ticker, quote: quote, err: err}
		})
	}
	wg.Wait()

	return outcomes
}

func (s *TrendingService) fetchQuote(ctx context.Context, ticker string) (domain.Quote, error) {
	key := cacheKey("quote", ticker)

	if raw, ok := s.cache.Get(ctx, key); ok {
		metrics.CacheHits.WithLabelValues("quote").Inc()
		var quote domain.Quote
		if err := json.Unmarshal(raw, &quote); err == nil {
			return quote, nil
		}
	}
	metrics.CacheMisses.WithLabelValues("quote").Inc()

	fetchCtx, cancel := context.WithTimeout(ctx, s.settings.QuoteTimeout)
	defer cancel()

	start := time.Now()
	quote, err := s.quotes.FetchQuote(fetchCtx, ticker)
	metrics.QuoteLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("quotes").Inc()
		return domain.Quote{}, err
	}

	s.storeCached(ctx, key, quote, s.settings.QuoteTTL)

	return quote, nil
}

// mergeTrending applies the partial-failure policy in one place: a failed
// quote downgrades a social entry to reddit_only instead of dropping it,
// then price-less entries are filtered from the surfaced list and the rest
// sorted descending by social score.
func (s *TrendingService) mergeTrending(aggregates []domain.TickerAggregate, outcomes []quoteOutcome, enriched domain.Source) []domain.TrendingEntry {
	entries := make([]domain.TrendingEntry, 0, len(aggregates))

	for i, agg := range aggregates {
		entry := domain.TrendingEntry{
			Ticker:      agg.Ticker,
			SocialScore: agg.WeightedScore,
			Mentions:    agg.MentionCount,
			Source:      enriched,
		}

		outcome := outcomes[i]
		if outcome.err != nil {
			if enriched == domain.SourceRedditYahoo {
				entry.Source = domain.SourceRedditOnly
			}
			s.logger.Debug("quote unavailable",
				slog.String("ticker", agg.Ticker),
				slog.Any("error", outcome.err))
		} else {
			entry.DisplayName = outcome.quote.DisplayName
			entry.Price = outcome.quote.Price
			entry.Change = outcome.quote.Change
			entry.ChangePercent = outcome.quote.ChangePercent
			entry.MarketCap = outcome.quote.MarketCap
		}

		entries = append(entries, entry)
	}

	surfaced := make([]domain.TrendingEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Price == nil {
			s.logger.Debug("dropping price-less trending entry", slog.String("ticker", entry.Ticker))
			continue
		}
		surfaced = append(surfaced, entry)
	}

	sort.SliceStable(surfaced, func(i, j int) bool {
		return surfaced[i].SocialScore > surfaced[j].SocialScore
	})

	return surfaced
}

func (s *TrendingService) storeCached(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("failed to marshal cache value", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := s.cache.Set(ctx, key, raw, ttl); err != nil {
		s.logger.Warn("cache set failed", slog.String("key", key), slog.Any("error", err))
	}
}

func cacheKey(op string, params ...string) string {
	return op + ":" + strings.Join(params, ":")
}
