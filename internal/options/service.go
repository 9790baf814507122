// Package options serves option chains and runs the criteria-based put
// screener over them.
package options

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ordonezjosue/stock-screener/internal/logger"
	"github.com/ordonezjosue/stock-screener/internal/pricing"
	"github.com/ordonezjosue/stock-screener/internal/quotes"
	"github.com/ordonezjosue/stock-screener/internal/types"
)

// ChainSource provides option chains for one symbol and expiration.
type ChainSource interface {
	FetchChain(ctx context.Context, symbol, expiration string) (*types.OptionsChain, error)
}

// Config holds the service's tunables.
type Config struct {
	PolygonKey string
}

// Service composes the quote service with a chain source. Without a Polygon
// key the service runs entirely on synthetic chains; with one, live fetches
// fail over to synthetic data.
type Service struct {
	quotes *quotes.Service
	chains ChainSource

	now func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithChainSource overrides the chain source.
func WithChainSource(cs ChainSource) Option {
	return func(s *Service) {
		s.chains = cs
	}
}

// NewService wires an options service on top of the quote service.
func NewService(cfg Config, quoteSvc *quotes.Service, opts ...Option) *Service {
	svc := &Service{
		quotes: quoteSvc,
		now:    time.Now,
	}

	fallback := NewFallbackChain(func(ctx context.Context, symbol string) float64 {
		return quoteSvc.GetQuote(ctx, symbol).Price
	})
	if cfg.PolygonKey != "" {
		svc.chains = &failoverChain{primary: NewPolygonChainSource(cfg.PolygonKey), backup: fallback}
	} else {
		svc.chains = fallback
	}

	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// GetChain returns the option chain for symbol at expiration (YYYY-MM-DD).
func (s *Service) GetChain(ctx context.Context, symbol, expiration string) (*types.OptionsChain, error) {
	return s.chains.FetchChain(ctx, symbol, expiration)
}

// RunScreener evaluates every symbol against criteria and returns the
// surviving candidates ranked by score. Criteria are validated before any
// fetch work; per-symbol chain failures skip the symbol rather than abort
// the run.
func (s *Service) RunScreener(ctx context.Context, criteria types.ScreeningCriteria, symbols []string) ([]types.ScreeningResult, error) {
	if err := ValidateCriteria(criteria); err != nil {
		return nil, err
	}

	timer := logger.StartOperation(ctx, "screener.run", "symbols", len(symbols))
	ctx = timer.Context()

	// One shared expiration at the midpoint of the DTE window keeps every
	// candidate comparable.
	dte := (criteria.DTERange[0] + criteria.DTERange[1]) / 2
	expiration := s.now().AddDate(0, 0, dte).Format("2006-01-02")

	candidates := make([]types.ScreeningResult, 0, len(symbols))
	for _, symbol := range symbols {
		quote := s.quotes.GetQuote(ctx, symbol)

		chain, err := s.GetChain(ctx, symbol, expiration)
		if err != nil {
			logger.Warn(ctx, "Skipping symbol, chain unavailable", "symbol", symbol, "error", err)
			continue
		}

		puts := ScreenContracts(criteria, chain.Puts)
		if len(puts) == 0 {
			logger.Debug(ctx, "No liquid puts for symbol", "symbol", symbol)
			continue
		}
		best := closestByDelta(puts, criteria.TargetDelta)

		iv := best.ImpliedVolatility
		if iv <= 0 {
			solved, solveErr := pricing.PutIV(best.Mid(), quote.Price, best.Strike, pricing.DaysToYears(dte))
			if solveErr != nil {
				logger.Debug(ctx, "IV solve failed for best contract", "symbol", symbol, "error", solveErr)
			} else {
				iv = solved
			}
		}

		candidates = append(candidates, types.ScreeningResult{
			Symbol:        symbol,
			Price:         quote.Price,
			Change:        quote.Change,
			ChangePercent: quote.ChangePercent,
			Volume:        quote.Volume,
			MarketCap:     quote.MarketCap,
			IV:            iv * 100,
			TargetDelta:   best.Delta,
			DTE:           dte,
			Score:         Score(best),
			NewsSentiment: sentimentFor(quote.ChangePercent),
			BestOption:    &best,
		})
	}

	results := Screen(criteria, candidates)
	for _, r := range results {
		logger.Screened(ctx, r.Symbol, r.Score, r.DTE, "iv", r.IV, "delta", r.TargetDelta)
	}

	timer.End("candidates", len(candidates), "passed", len(results))
	return results, nil
}

// RecommendSpread suggests a put credit spread for symbol from its current
// price.
func (s *Service) RecommendSpread(ctx context.Context, symbol string) (pricing.SpreadRecommendation, error) {
	quote := s.quotes.GetQuote(ctx, symbol)
	if quote.Price <= 0 {
		return pricing.SpreadRecommendation{}, fmt.Errorf("no usable price for %s", symbol)
	}
	return pricing.RecommendPutCreditSpread(quote.Price), nil
}

// closestByDelta picks the contract whose |delta| is nearest the target.
func closestByDelta(contracts []types.OptionQuote, target float64) types.OptionQuote {
	best := contracts[0]
	bestDist := math.Abs(math.Abs(best.Delta) - target)
	for _, c := range contracts[1:] {
		if d := math.Abs(math.Abs(c.Delta) - target); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// sentimentFor tags a day move: beyond ±0.5% counts as directional.
func sentimentFor(changePercent float64) types.Sentiment {
	switch {
	case changePercent > 0.5:
		return types.SentimentPositive
	case changePercent < -0.5:
		return types.SentimentNegative
	default:
		return types.SentimentNeutral
	}
}
