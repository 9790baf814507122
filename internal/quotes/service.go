// Package quotes serves stock and index quotes from a rate-limited live
// source, degrading to deterministic fallback data on any failure.
package quotes

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ordonezjosue/stock-screener/internal/logger"
	"github.com/ordonezjosue/stock-screener/internal/ratelimit"
	"github.com/ordonezjosue/stock-screener/internal/types"
)

// Source is a live quote provider.
type Source interface {
	FetchQuote(ctx context.Context, symbol string) (*types.StockQuote, error)
}

// Config holds the service's tunables.
type Config struct {
	APIKey     string
	RateLimit  int           // requests per window, default 5
	RateWindow time.Duration // default 60s
	BatchDelay time.Duration // inter-request delay in GetQuotes, default 200ms
}

// Service answers quote lookups. Lookups never fail: when the live source is
// unavailable the service returns fallback data and logs the reason.
type Service struct {
	source     Source // nil when no API key is configured
	limiter    *ratelimit.Limiter
	batchDelay time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

// Option configures the service.
type Option func(*Service)

// WithSource overrides the live quote source. Passing nil forces fallback
// data for every lookup.
func WithSource(s Source) Option {
	return func(svc *Service) {
		svc.source = s
	}
}

// NewService creates a quote service from config. Without an API key the
// service runs entirely on fallback data.
func NewService(cfg Config, opts ...Option) *Service {
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}
	if cfg.BatchDelay <= 0 {
		cfg.BatchDelay = 200 * time.Millisecond
	}

	svc := &Service{
		limiter:    ratelimit.New(cfg.RateLimit, cfg.RateWindow),
		batchDelay: cfg.BatchDelay,
		now:        time.Now,
		sleep:      time.Sleep,
	}
	if cfg.APIKey != "" {
		svc.source = NewAlphaVantageSource(cfg.APIKey)
	}

	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// GetQuote returns a quote for symbol, serving fallback data when the live
// source is unconfigured, rate limited, or failing.
func (s *Service) GetQuote(ctx context.Context, symbol string) *types.StockQuote {
	quote, err := s.fetchLive(ctx, symbol)
	if err != nil {
		logger.Warn(ctx, "Serving fallback quote", "symbol", symbol, "reason", err)
		return FallbackQuote(symbol, s.now())
	}
	return quote
}

func (s *Service) fetchLive(ctx context.Context, symbol string) (*types.StockQuote, error) {
	if s.source == nil {
		return nil, fmt.Errorf("no live quote source configured")
	}
	// The limiter is checked only when a live call would actually happen, so
	// fallback lookups never burn window budget.
	if err := s.limiter.Allow(); err != nil {
		return nil, err
	}
	return s.source.FetchQuote(ctx, symbol)
}

// GetQuotes fetches quotes for each symbol sequentially, pausing between
// requests to stay friendly to the upstream.
func (s *Service) GetQuotes(ctx context.Context, symbols []string) []*types.StockQuote {
	timer := logger.StartOperation(ctx, "quotes.batch", "count", len(symbols))
	defer timer.End()
	ctx = timer.Context()

	out := make([]*types.StockQuote, 0, len(symbols))
	for i, symbol := range symbols {
		if i > 0 {
			s.sleep(s.batchDelay)
		}
		out = append(out, s.GetQuote(ctx, symbol))
	}
	return out
}

// GetMarketSnapshot returns the broad-market view: SPY, VIX, and breadth.
// SPY and VIX are fetched concurrently; any failure yields the fallback
// snapshot. Breadth always comes from the fallback table because the live
// source has no advance/decline endpoint.
func (s *Service) GetMarketSnapshot(ctx context.Context) *types.MarketSnapshot {
	if s.source == nil {
		logger.Debug(ctx, "Serving fallback market snapshot", "reason", "no live source")
		return FallbackSnapshot(s.now())
	}

	var spy, vix *types.StockQuote

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		spy, err = s.fetchLive(gctx, "SPY")
		return err
	})
	g.Go(func() error {
		var err error
		vix, err = s.fetchLive(gctx, "^VIX")
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Warn(ctx, "Serving fallback market snapshot", "reason", err)
		return FallbackSnapshot(s.now())
	}

	snapshot := FallbackSnapshot(s.now())
	snapshot.SPY = types.IndexQuote{
		Price:         spy.Price,
		Change:        spy.Change,
		ChangePercent: spy.ChangePercent,
	}
	snapshot.VIX = types.IndexQuote{
		Price:  vix.Price,
		Change: vix.Change,
	}
	return snapshot
}

// RateLimitStatus reports the remaining live-call budget.
func (s *Service) RateLimitStatus() ratelimit.Status {
	return s.limiter.Status()
}
