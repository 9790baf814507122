// Package news aggregates financial headlines from RSS feeds and scraped
// pages into a single normalized stream. Failing sources are retried across
// passes and disabled after repeated errors so one dead feed cannot stall
// the pipeline.
package news

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ordonezjosue/stock-screener/internal/logger"
	"github.com/ordonezjosue/stock-screener/internal/types"
)

// Kind selects the fetch strategy for a source.
type Kind string

const (
	KindRSS    Kind = "rss"
	KindScrape Kind = "scrape"
)

// Source is one news provider. The aggregator owns all mutation of these
// records; callers only ever see copies.
type Source struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Kind       Kind      `json:"kind"`
	Enabled    bool      `json:"enabled"`
	LastFetch  time.Time `json:"lastFetch"`
	ErrorCount int       `json:"errorCount"`
}

// Fetcher retrieves items for one source.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) ([]types.NewsItem, error)
}

// DefaultSources returns the standard provider table.
func DefaultSources() []Source {
	return []Source{
		{Name: "CNBC", URL: "https://www.cnbc.com/id/100003114/device/rss/rss.html", Kind: KindRSS, Enabled: true},
		{Name: "MarketWatch", URL: "https://feeds.marketwatch.com/marketwatch/topstories/", Kind: KindRSS, Enabled: true},
		{Name: "Reuters Business", URL: "https://feeds.reuters.com/reuters/businessNews", Kind: KindRSS, Enabled: true},
		{Name: "Bloomberg", URL: "https://feeds.bloomberg.com/markets/news.rss", Kind: KindRSS, Enabled: true},
		{Name: "Yahoo Finance", URL: "https://finance.yahoo.com/news/", Kind: KindScrape, Enabled: true},
	}
}

// Config holds the aggregator's tunables.
type Config struct {
	Sources    []Source
	FetchDelay time.Duration // pause between sources, default 1s
	MaxErrors  int           // consecutive failures before a source is disabled, default 3
}

// Aggregator merges items from every enabled source.
type Aggregator struct {
	mu       sync.Mutex
	sources  []Source
	fetchers map[Kind]Fetcher

	fetchDelay time.Duration
	maxErrors  int

	now   func() time.Time
	sleep func(time.Duration)
}

// Option configures the aggregator.
type Option func(*Aggregator)

// WithFetcher overrides the fetcher for a source kind.
func WithFetcher(kind Kind, f Fetcher) Option {
	return func(a *Aggregator) {
		a.fetchers[kind] = f
	}
}

// NewAggregator creates an aggregator from config.
func NewAggregator(cfg Config, opts ...Option) *Aggregator {
	if len(cfg.Sources) == 0 {
		cfg.Sources = DefaultSources()
	}
	if cfg.FetchDelay <= 0 {
		cfg.FetchDelay = time.Second
	}
	if cfg.MaxErrors <= 0 {
		cfg.MaxErrors = 3
	}

	a := &Aggregator{
		sources: append([]Source(nil), cfg.Sources...),
		fetchers: map[Kind]Fetcher{
			KindRSS:    NewRSSFetcher(20),
			KindScrape: NewScrapeFetcher(15*time.Second, 20),
		},
		fetchDelay: cfg.FetchDelay,
		maxErrors:  cfg.MaxErrors,
		now:        time.Now,
		sleep:      time.Sleep,
	}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FetchAll visits every enabled source in order and returns the merged items
// sorted newest first. Per-source failures never abort the pass: they are
// joined into the returned error as diagnostics, and the items slice is
// valid either way. A source that fails maxErrors times in a row is disabled
// for the rest of the process lifetime.
func (a *Aggregator) FetchAll(ctx context.Context) ([]types.NewsItem, error) {
	timer := logger.StartOperation(ctx, "news.fetch_all")
	ctx = timer.Context()

	a.mu.Lock()
	defer a.mu.Unlock()

	var items []types.NewsItem
	var failures []error
	visited := 0

	for i := range a.sources {
		src := &a.sources[i]
		if !src.Enabled {
			continue
		}
		if visited > 0 {
			a.sleep(a.fetchDelay)
		}
		visited++

		fetcher, ok := a.fetchers[src.Kind]
		if !ok {
			failures = append(failures, fmt.Errorf("%s: no fetcher for kind %q", src.Name, src.Kind))
			continue
		}

		fetched, err := fetcher.Fetch(ctx, *src)
		src.LastFetch = a.now()
		if err != nil {
			src.ErrorCount++
			failures = append(failures, fmt.Errorf("%s: %w", src.Name, err))
			if src.ErrorCount >= a.maxErrors {
				src.Enabled = false
				logger.Warn(ctx, "News source disabled after repeated failures",
					"source", src.Name, "errors", src.ErrorCount)
			} else {
				logger.Warn(ctx, "News source fetch failed",
					"source", src.Name, "errors", src.ErrorCount, "error", err)
			}
			continue
		}

		src.ErrorCount = 0
		for j := range fetched {
			fetched[j].Tickers = ExtractTickers(fetched[j].Title + " " + fetched[j].Description)
			fetched[j].Summary = Summarize(fetched[j].Description)
		}
		items = append(items, fetched...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})

	timer.End("items", len(items), "failures", len(failures))
	return items, errors.Join(failures...)
}

// FetchByTicker returns the merged items mentioning ticker.
func (a *Aggregator) FetchByTicker(ctx context.Context, ticker string) ([]types.NewsItem, error) {
	items, err := a.FetchAll(ctx)

	ticker = strings.ToUpper(ticker)
	matched := []types.NewsItem{}
	for _, item := range items {
		for _, t := range item.Tickers {
			if t == ticker {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched, err
}

// SourceStatus returns a snapshot copy of the source table.
func (a *Aggregator) SourceStatus() []Source {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Source(nil), a.sources...)
}

var tickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// Common English words that match the ticker pattern but never are one.
var tickerStopwords = map[string]bool{
	"THE": true, "AND": true, "FOR": true, "ARE": true, "YOU": true,
	"ALL": true, "NEW": true, "TOP": true, "BIG": true, "LOW": true,
	"HIGH": true,
}

// ExtractTickers pulls candidate ticker symbols out of free text: runs of
// one to five capital letters, minus a stoplist of common words. Order of
// first appearance, no duplicates.
func ExtractTickers(text string) []string {
	matches := tickerPattern.FindAllString(text, -1)

	var tickers []string
	seen := map[string]bool{}
	for _, m := range matches {
		if tickerStopwords[m] || seen[m] {
			continue
		}
		seen[m] = true
		tickers = append(tickers, m)
	}
	return tickers
}

// Summarize strips HTML from a feed description and truncates the plain text
// to 200 characters.
func Summarize(description string) string {
	text := description
	if strings.Contains(description, "<") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
		if err == nil {
			text = doc.Text()
		}
	}
	text = strings.Join(strings.Fields(text), " ")

	if len(text) > 200 {
		return text[:200] + "..."
	}
	return text
}
