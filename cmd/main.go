package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"trendflow/config"
	"trendflow/internal/adapters/cache/memory"
	rediscache "trendflow/internal/adapters/cache/redis"
	"trendflow/internal/adapters/feed/reddit"
	httpserver "trendflow/internal/adapters/handlers/http"
	"trendflow/internal/adapters/handlers/http/handler"
	"trendflow/internal/adapters/news/rss"
	"trendflow/internal/adapters/quotes/yahoo"
	"trendflow/internal/core/port"
	"trendflow/internal/core/service"
	depconfig "trendflow/pkg/config"
)

func init() {
	initialLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(initialLogger)
}

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	opts := []depconfig.Option{
		depconfig.WithLogger(cfg.Server.LogLvl),
	}
	if cfg.Redis.Addr != "" {
		opts = append(opts, depconfig.WithRedis(cfg.Redis.Addr, cfg.Redis.DB))
	}

	deps, err := depconfig.NewDependencies(ctx, opts...)
	if err != nil {
		slog.Error("failed to load dependencies", slog.Any("error", err))
		os.Exit(1)
	}
	defer deps.Close()

	var cache port.CachePort
	if deps.Redis != nil {
		cache = rediscache.NewRedisCache(deps.Redis, deps.Logger)
		deps.Logger.Info("using redis cache", slog.String("addr", cfg.Redis.Addr))
	} else {
		cache = memory.New()
		deps.Logger.Info("using in-process cache")
	}

	var excludedWords, defaultTickers []string
	if cfg.Trending.SymbolsFile != "" {
		symbols, err := config.LoadSymbols(cfg.Trending.SymbolsFile)
		if err != nil {
			deps.Logger.Error("failed to load symbols file", slog.Any("error", err))
			os.Exit(1)
		}
		excludedWords = symbols.ExcludedWords
		defaultTickers = symbols.DefaultTickers
	}

	feed := reddit.NewClient(
		reddit.WithBaseURL(cfg.Reddit.BaseURL),
		reddit.WithUserAgent(cfg.Reddit.UserAgent),
	)
	quotes := yahoo.NewClient(
		yahoo.WithBaseURL(cfg.Yahoo.BaseURL),
	)
	news := rss.NewFetcher(cfg.News.FeedURLs, deps.Logger)

	trendingService := service.NewTrendingService(
		feed,
		quotes,
		news,
		cache,
		service.NewExtractor(excludedWords),
		deps.Logger,
		service.Settings{
			Communities:    cfg.Reddit.Communities,
			PostLimit:      cfg.Reddit.PostLimit,
			TopN:           cfg.Trending.TopN,
			QuoteWorkers:   cfg.Trending.QuoteWorkers,
			NewsLimit:      cfg.News.Limit,
			FeedTTL:        cfg.Trending.FeedTTL,
			QuoteTTL:       cfg.Trending.QuoteTTL,
			NewsTTL:        cfg.Trending.NewsTTL,
			FeedTimeout:    cfg.Reddit.Timeout,
			QuoteTimeout:   cfg.Yahoo.Timeout,
			DefaultTickers: defaultTickers,
		},
	)
	defer trendingService.Stop()

	srv := httpserver.NewServer(
		deps.Logger,
		handler.NewTrendingHandler(deps.Logger, trendingService, cache),
	)

	run(ctx, cfg, srv)
}

func run(ctx context.Context, cfg *config.Config, srv http.Handler) {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	httpServer := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: srv,
	}

	go func() {
		slog.Info("server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Info("error listening and serving", "error", err)
		}
	}()

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("Gracefully shutting down...")

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Info("error shutting down http server", "error", err)
		}
	}()
	wg.Wait()
}
