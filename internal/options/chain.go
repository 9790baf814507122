package options

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ordonezjosue/stock-screener/internal/logger"
	"github.com/ordonezjosue/stock-screener/internal/pricing"
	"github.com/ordonezjosue/stock-screener/internal/types"
)

// FallbackChain synthesizes a deterministic option chain from the underlying
// price when no live chain source is available. Strikes bracket the spot in
// $5 increments; premiums and Greeks come from the pricing model at an
// assumed volatility with a mild put skew. No randomness: the same inputs
// always produce the same chain.
type FallbackChain struct {
	priceFor func(ctx context.Context, symbol string) float64
	now      func() time.Time
}

// NewFallbackChain creates a synthetic chain source. priceFor supplies the
// underlying price per symbol.
func NewFallbackChain(priceFor func(ctx context.Context, symbol string) float64) *FallbackChain {
	return &FallbackChain{
		priceFor: priceFor,
		now:      time.Now,
	}
}

// FetchChain builds the synthetic chain for symbol at expiration (YYYY-MM-DD).
func (f *FallbackChain) FetchChain(ctx context.Context, symbol, expiration string) (*types.OptionsChain, error) {
	exp, err := time.Parse("2006-01-02", expiration)
	if err != nil {
		return nil, fmt.Errorf("invalid expiration %q: %w", expiration, err)
	}

	price := f.priceFor(ctx, symbol)
	if price <= 0 {
		price = 100
	}

	now := f.now()
	dte := pricing.DaysToExpiry(exp, now)
	if dte < 1 {
		dte = 1
	}
	timeToExpiry := pricing.DaysToYears(dte)

	chain := &types.OptionsChain{
		Symbol:     symbol,
		Expiration: expiration,
		Timestamp:  now,
	}

	base := math.Round(price/5) * 5
	for i := -4; i <= 3; i++ {
		strike := base + float64(i)*5
		if strike <= 0 {
			continue
		}

		// Mild put skew: strikes below the money carry richer volatility.
		vol := 0.35 + 0.005*(price-strike)/5
		if vol < 0.15 {
			vol = 0.15
		}

		res, err := pricing.Price(pricing.Parameters{
			Spot:         price,
			Strike:       strike,
			TimeToExpiry: timeToExpiry,
			RiskFreeRate: 0.05,
			Volatility:   vol,
		})
		if err != nil {
			continue
		}

		distance := math.Abs(strike - price)
		volume := int64(3000 - 50*distance)
		if volume < 100 {
			volume = 100
		}
		openInterest := volume * 4

		common := types.OptionQuote{
			Expiration:        expiration,
			Strike:            strike,
			Volume:            volume,
			OpenInterest:      openInterest,
			Gamma:             res.Greeks.Gamma,
			Vega:              res.Greeks.Vega,
			ImpliedVolatility: vol,
			Timestamp:         now,
		}

		put := common
		put.Symbol = fmt.Sprintf("%s%sP%08d", symbol, exp.Format("060102"), int(strike*1000))
		put.Type = types.Put
		put.Bid = round2(res.PutPrice * 0.97)
		put.Ask = round2(res.PutPrice * 1.03)
		put.Last = round2(res.PutPrice)
		put.Delta = res.Greeks.DeltaPut
		put.Theta = res.Greeks.ThetaPut
		chain.Puts = append(chain.Puts, put)

		call := common
		call.Symbol = fmt.Sprintf("%s%sC%08d", symbol, exp.Format("060102"), int(strike*1000))
		call.Type = types.Call
		call.Bid = round2(res.CallPrice * 0.97)
		call.Ask = round2(res.CallPrice * 1.03)
		call.Last = round2(res.CallPrice)
		call.Delta = res.Greeks.DeltaCall
		call.Theta = res.Greeks.ThetaCall
		chain.Calls = append(chain.Calls, call)
	}

	return chain, nil
}

// failoverChain tries the live source first and degrades to the backup on
// any error.
type failoverChain struct {
	primary ChainSource
	backup  ChainSource
}

func (f *failoverChain) FetchChain(ctx context.Context, symbol, expiration string) (*types.OptionsChain, error) {
	chain, err := f.primary.FetchChain(ctx, symbol, expiration)
	if err == nil {
		return chain, nil
	}
	logger.Warn(ctx, "Live chain source failed, using synthetic chain", "symbol", symbol, "reason", err)
	return f.backup.FetchChain(ctx, symbol, expiration)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
