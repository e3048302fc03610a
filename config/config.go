package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type (
	Redis struct {
		Addr string // empty means the in-process cache is used instead
		DB   int
	}

	ServerConfig struct {
		Port   string
		Host   string
		LogLvl string
	}

	RedditConfig struct {
		BaseURL     string
		UserAgent   string
		Communities []string
		PostLimit   int
		Timeout     time.Duration
	}

	YahooConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	NewsConfig struct {
		FeedURLs []string
		Limit    int
	}

	TrendingConfig struct {
		TopN         int
		QuoteWorkers int
		FeedTTL      time.Duration
		QuoteTTL     time.Duration
		NewsTTL      time.Duration
		SymbolsFile  string // optional yaml override for exclusion words and default tickers
	}

	Config struct {
		Redis    Redis
		Server   ServerConfig
		Reddit   RedditConfig
		Yahoo    YahooConfig
		News     NewsConfig
		Trending TrendingConfig
	}
)

func LoadConfig() *Config {
	// Missing .env is fine, env vars may come from the environment itself.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.DB, _ = strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg.Server.LogLvl = getEnv("LOG_LVL", "dev")
	cfg.Server.Port = getEnv("PORT", "8080")
	cfg.Server.Host = getEnv("HOST", "0.0.0.0")

	cfg.Reddit.BaseURL = getEnv("REDDIT_BASE_URL", "https://www.reddit.com")
	cfg.Reddit.UserAgent = getEnv("REDDIT_USER_AGENT", "trendflow/1.0")
	cfg.Reddit.Communities = getEnvList("REDDIT_COMMUNITIES", "wallstreetbets,stocks,investing")
	cfg.Reddit.PostLimit = getEnvInt("REDDIT_POST_LIMIT", 50)
	cfg.Reddit.Timeout = getEnvDuration("FEED_TIMEOUT", 10*time.Second)

	cfg.Yahoo.BaseURL = getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com")
	cfg.Yahoo.Timeout = getEnvDuration("QUOTE_TIMEOUT", 5*time.Second)

	cfg.News.FeedURLs = getEnvList("NEWS_FEED_URLS", "https://feeds.content.dowjones.io/public/rss/mw_topstories")
	cfg.News.Limit = getEnvInt("NEWS_LIMIT", 20)

	cfg.Trending.TopN = getEnvInt("TRENDING_TOP_N", 15)
	cfg.Trending.QuoteWorkers = getEnvInt("QUOTE_WORKERS", 5)
	cfg.Trending.FeedTTL = getEnvDuration("FEED_CACHE_TTL", 10*time.Minute)
	cfg.Trending.QuoteTTL = getEnvDuration("QUOTE_CACHE_TTL", time.Minute)
	cfg.Trending.NewsTTL = getEnvDuration("NEWS_CACHE_TTL", 10*time.Minute)
	cfg.Trending.SymbolsFile = getEnv("SYMBOLS_FILE", "")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}

	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil && v > 0 {
		return v
	}

	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil && v > 0 {
		return v
	}

	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
