package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/ordonezjosue/stock-screener/internal/logger"
	"github.com/ordonezjosue/stock-screener/internal/types"
)

// ScrapeFetcher collects headlines from sources that have no usable feed.
// It extracts anchor text from headline selectors and links them back to the
// article; scraped headlines carry no timestamps, so PublishedAt is the
// fetch time.
type ScrapeFetcher struct {
	timeout   time.Duration
	selectors string
	maxItems  int
}

// NewScrapeFetcher creates a headline scraper.
func NewScrapeFetcher(timeout time.Duration, maxItems int) *ScrapeFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if maxItems <= 0 {
		maxItems = 20
	}
	return &ScrapeFetcher{
		timeout:   timeout,
		selectors: "h3 a, h2 a",
		maxItems:  maxItems,
	}
}

// Fetch visits the source page and collects headline links.
func (f *ScrapeFetcher) Fetch(ctx context.Context, src Source) ([]types.NewsItem, error) {
	base, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL %s: %w", src.URL, err)
	}

	c := colly.NewCollector(
		colly.AllowedDomains(base.Hostname()),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(f.timeout)

	// Default Go user agents get blocked by most finance sites.
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	items := []types.NewsItem{}
	seen := map[string]bool{}
	fetchedAt := time.Now()

	c.OnHTML(f.selectors, func(e *colly.HTMLElement) {
		if len(items) >= f.maxItems {
			return
		}

		title := strings.TrimSpace(e.Text)
		if title == "" {
			return
		}

		link := e.Attr("href")
		if link == "" {
			return
		}
		if !strings.HasPrefix(link, "http") {
			link = base.Scheme + "://" + base.Hostname() + link
		}
		if seen[link] {
			return
		}
		seen[link] = true

		items = append(items, types.NewsItem{
			ID:          link,
			Title:       title,
			Link:        link,
			Source:      src.Name,
			PublishedAt: fetchedAt,
		})
	})

	c.OnError(func(r *colly.Response, scrapeErr error) {
		logger.ErrorWithErr(ctx, "Headline scrape failed", scrapeErr, "source", src.Name, "url", r.Request.URL.String())
	})

	if err := c.Visit(src.URL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", src.URL, err)
	}
	c.Wait()

	return items, nil
}
