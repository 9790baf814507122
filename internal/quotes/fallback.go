package quotes

import (
	"time"

	"github.com/ordonezjosue/stock-screener/internal/types"
)

// Fallback data keeps the screener usable when the live source is missing a
// key, throttled, or failing. Values are fixed so downstream behavior is
// reproducible.

// FallbackQuote returns the canned quote for symbol.
func FallbackQuote(symbol string, now time.Time) *types.StockQuote {
	q := &types.StockQuote{
		Symbol:    symbol,
		Price:     100.00,
		Timestamp: now,
	}
	switch symbol {
	case "AAPL":
		q.Price = 175.43
		q.Change = 2.15
		q.ChangePercent = 1.24
		q.Volume = 52436789
	case "MSFT":
		q.Price = 378.85
		q.Change = -1.52
		q.ChangePercent = -0.40
		q.Volume = 23145678
	}
	return q
}

// FallbackSnapshot returns the canned market snapshot.
func FallbackSnapshot(now time.Time) *types.MarketSnapshot {
	return &types.MarketSnapshot{
		SPY: types.IndexQuote{
			Price:         456.78,
			Change:        3.45,
			ChangePercent: 0.76,
		},
		VIX: types.IndexQuote{
			Price:  18.45,
			Change: -0.23,
		},
		AdvanceDecline: types.AdvanceDecline{
			Advancing: 2456,
			Declining: 1890,
			Unchanged: 234,
		},
		Timestamp: now,
	}
}
