package rss

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
	<channel>
		<title>Market Wire</title>
		<item>
			<title>Stocks slip on rate worries</title>
			<link>https://example.com/rates</link>
			<pubDate>Mon, 24 Aug 2026 09:00:00 GMT</pubDate>
		</item>
		<item>
			<title>Chipmakers rally after earnings</title>
			<link>https://example.com/chips</link>
			<pubDate>Mon, 24 Aug 2026 14:30:00 GMT</pubDate>
		</item>
	</channel>
</rss>`

func TestFetchNewsMapsAndSortsItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	fetcher := NewFetcher([]string{srv.URL}, slog.Default())

	items, err := fetcher.FetchNews(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Chipmakers rally after earnings", items[0].Title, "newest first")
	assert.Equal(t, "https://example.com/chips", items[0].Link)
	assert.Equal(t, "Market Wire", items[0].Source)
	assert.True(t, items[0].Published.After(items[1].Published))
}

func TestFetchNewsAppliesLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	fetcher := NewFetcher([]string{srv.URL}, slog.Default())

	items, err := fetcher.FetchNews(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Chipmakers rally after earnings", items[0].Title)
}

func TestFetchNewsSkipsFailedFeed(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer bad.Close()

	fetcher := NewFetcher([]string{bad.URL, good.URL}, slog.Default())

	items, err := fetcher.FetchNews(context.Background(), 0)

	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestFetchNewsAllFeedsFailed(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer bad.Close()

	fetcher := NewFetcher([]string{bad.URL}, slog.Default())

	_, err := fetcher.FetchNews(context.Background(), 0)

	require.Error(t, err)
}
