package rss

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"

	"trendflow/internal/core/domain"
	"trendflow/internal/core/port"
)

var _ port.NewsPort = (*Fetcher)(nil)

// Fetcher pulls market-news headlines from a set of RSS feeds. A feed that
// fails to parse is skipped; FetchNews only errors when every feed failed.
type Fetcher struct {
	parser   *gofeed.Parser
	feedURLs []string
	logger   *slog.Logger
}

func NewFetcher(feedURLs []string, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		parser:   gofeed.NewParser(),
		feedURLs: feedURLs,
		logger:   logger,
	}
}

// FetchNews returns up to limit headlines across all feeds, newest first.
func (f *Fetcher) FetchNews(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	var items []domain.NewsItem
	var failed int

	for _, feedURL := range f.feedURLs {
		feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			failed++
			f.logger.Warn("news feed fetch failed", slog.String("url", feedURL), slog.Any("error", err))
			continue
		}

		for _, item := range feed.Items {
			published := time.Time{}
			if item.PublishedParsed != nil {
				published = *item.PublishedParsed
			} else if item.UpdatedParsed != nil {
				published = *item.UpdatedParsed
			}

			items = append(items, domain.NewsItem{
				Title:     item.Title,
				Link:      item.Link,
				Source:    feed.Title,
				Published: published,
			})
		}
	}

	if len(f.feedURLs) > 0 && failed == len(f.feedURLs) {
		return nil, fmt.Errorf("all %d news feeds failed", failed)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Published.After(items[j].Published)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}
