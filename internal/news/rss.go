package news

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ordonezjosue/stock-screener/internal/types"
)

// RSSFetcher pulls articles from an RSS or Atom feed.
type RSSFetcher struct {
	parser  *gofeed.Parser
	maxItem int
}

// NewRSSFetcher creates a feed fetcher capped at maxItems articles per source.
func NewRSSFetcher(maxItems int) *RSSFetcher {
	if maxItems <= 0 {
		maxItems = 20
	}
	parser := gofeed.NewParser()
	parser.UserAgent = "StockScreener/1.0 (https://github.com/ordonezjosue/stock-screener)"
	return &RSSFetcher{
		parser:  parser,
		maxItem: maxItems,
	}
}

// Fetch downloads and parses the source's feed.
func (f *RSSFetcher) Fetch(ctx context.Context, src Source) ([]types.NewsItem, error) {
	feed, err := f.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.URL, err)
	}

	items := make([]types.NewsItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if len(items) >= f.maxItem {
			break
		}
		if entry.Title == "" {
			continue
		}

		published := time.Now()
		if entry.PublishedParsed != nil {
			published = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			published = *entry.UpdatedParsed
		}

		id := entry.GUID
		if id == "" {
			id = entry.Link
		}

		items = append(items, types.NewsItem{
			ID:          id,
			Title:       entry.Title,
			Description: entry.Description,
			Link:        entry.Link,
			Source:      src.Name,
			PublishedAt: published,
		})
	}
	return items, nil
}
