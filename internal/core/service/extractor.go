package service

import (
	"regexp"

	"trendflow/internal/core/domain"
)

var (
	cashtagPattern   = regexp.MustCompile(`\$([A-Z]{1,5})\b`)
	bareTokenPattern = regexp.MustCompile(`\b[A-Z]{2,5}\b`)
)

// DefaultExcludedWords are common English words and forum jargon that look
// like tickers when written in caps. Bare tokens matching the list are
// suppressed; cashtags never are.
var DefaultExcludedWords = []string{
	"THE", "AND", "FOR", "ARE", "BUT", "NOT", "YOU", "ALL", "CAN", "HER",
	"WAS", "ONE", "OUR", "OUT", "HAS", "HAD", "HOW", "NOW", "NEW", "WHO",
	"WHY", "ANY", "GET", "GOT", "LET", "SAY", "SEE", "WAY", "TOO", "USE",
	"BUY", "SELL", "HOLD", "CALL", "PUT", "MOON", "YOLO", "HODL", "FOMO",
	"DD", "CEO", "CFO", "CTO", "IPO", "SEC", "FDA", "FED", "GDP", "USA",
	"USD", "EPS", "ATH", "EOD", "OTM", "ITM", "IMO", "TLDR", "EDIT", "WSB",
	"LOL", "LMAO", "THIS", "THAT", "WHAT", "WHEN", "WITH", "FROM", "HAVE",
	"WILL", "JUST", "LIKE", "ONLY", "EVER", "VERY", "MUCH", "MORE", "BEEN",
	"SOME", "THAN", "THEN", "THEM", "THEY", "WERE", "HUGE", "NEXT", "OPEN",
	"GO", "UP", "ON", "IN", "AT", "TO", "OF", "OR", "IF", "IT", "IS", "BE",
	"SO", "NO", "MY", "ME", "WE", "DO", "AM", "PM", "OK",
}

// Extractor scans free text for plausible stock ticker symbols. It is a pure
// lexical scanner: no I/O, deterministic for a given input and exclusion set.
type Extractor struct {
	excluded map[string]struct{}
}

// NewExtractor builds an extractor with the given bare-token exclusion set.
// A nil or empty list falls back to DefaultExcludedWords.
func NewExtractor(excludedWords []string) *Extractor {
	if len(excludedWords) == 0 {
		excludedWords = DefaultExcludedWords
	}

	excluded := make(map[string]struct{}, len(excludedWords))
	for _, w := range excludedWords {
		excluded[w] = struct{}{}
	}

	return &Extractor{excluded: excluded}
}

// Extract returns the unique ticker symbols found in text, in no guaranteed
// order. Two lexical forms are recognized: cashtags ($ followed by 1-5
// uppercase letters), which always count, and bare runs of 2-5 uppercase
// letters, which count unless excluded. Empty input yields an empty result.
func (e *Extractor) Extract(text string) []string {
	if text == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var tickers []string

	for _, m := range cashtagPattern.FindAllStringSubmatch(text, -1) {
		sym := m[1]
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		tickers = append(tickers, sym)
	}

	for _, sym := range bareTokenPattern.FindAllString(text, -1) {
		if _, ok := e.excluded[sym]; ok {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		tickers = append(tickers, sym)
	}

	return tickers
}

// TagPosts annotates each post with the tickers extracted from its title and
// body. The input order is preserved; posts without tickers are kept.
func TagPosts(extractor *Extractor, posts []domain.RawPost) []domain.TaggedPost {
	tagged := make([]domain.TaggedPost, 0, len(posts))
	for _, p := range posts {
		tagged = append(tagged, domain.TaggedPost{
			RawPost: p,
			Tickers: extractor.Extract(p.Title + " " + p.Body),
		})
	}

	return tagged
}
