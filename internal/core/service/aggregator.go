package service

import (
	"math"
	"sort"

	"trendflow/internal/core/domain"
)

// Aggregate collapses per-post ticker mentions into one TickerAggregate per
// distinct ticker. Each (post, ticker) occurrence adds one mention and
// log10(max(upvotes,1)+1) weighted score; the log transform keeps one viral
// post from dominating the ranking. The result is sorted descending by
// weighted score, stable with respect to first-encounter order, with scores
// rounded to 2 decimals.
func Aggregate(posts []domain.TaggedPost) []domain.TickerAggregate {
	byTicker := make(map[string]*domain.TickerAggregate)
	var order []string

	for i := range posts {
		post := &posts[i]
		weight := math.Log10(math.Max(float64(post.Upvotes), 1) + 1)

		for _, ticker := range post.Tickers {
			agg, ok := byTicker[ticker]
			if !ok {
				agg = &domain.TickerAggregate{Ticker: ticker}
				byTicker[ticker] = agg
				order = append(order, ticker)
			}

			agg.MentionCount++
			agg.WeightedScore += weight

			if betterTopPost(post, agg.TopPost) {
				agg.TopPost = post
			}
		}
	}

	out := make([]domain.TickerAggregate, 0, len(order))
	for _, ticker := range order {
		agg := *byTicker[ticker]
		agg.WeightedScore = math.Round(agg.WeightedScore*100) / 100
		out = append(out, agg)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WeightedScore > out[j].WeightedScore
	})

	return out
}

// betterTopPost reports whether candidate should replace current as a
// ticker's top post: more upvotes wins, equal upvotes go to the earlier
// post, and a remaining tie keeps the one seen first.
func betterTopPost(candidate *domain.TaggedPost, current *domain.TaggedPost) bool {
	if current == nil {
		return true
	}
	if candidate.Upvotes != current.Upvotes {
		return candidate.Upvotes > current.Upvotes
	}

	return candidate.CreatedAt.Before(current.CreatedAt)
}
