package options

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ordonezjosue/stock-screener/internal/types"
)

// ErrInvalidCriteria rejects a screener run before any fetch work happens.
var ErrInvalidCriteria = errors.New("invalid screening criteria")

// ValidateCriteria checks criteria bounds.
func ValidateCriteria(c types.ScreeningCriteria) error {
	switch {
	case c.MinPrice < 0:
		return fmt.Errorf("%w: min price %v is negative", ErrInvalidCriteria, c.MinPrice)
	case c.MaxPrice < c.MinPrice:
		return fmt.Errorf("%w: max price %v below min price %v", ErrInvalidCriteria, c.MaxPrice, c.MinPrice)
	case c.TargetDelta < 0 || c.TargetDelta > 1:
		return fmt.Errorf("%w: target delta %v outside [0, 1]", ErrInvalidCriteria, c.TargetDelta)
	case c.DTERange[0] < 0:
		return fmt.Errorf("%w: DTE lower bound %d is negative", ErrInvalidCriteria, c.DTERange[0])
	case c.DTERange[1] < c.DTERange[0]:
		return fmt.Errorf("%w: DTE range [%d, %d] inverted", ErrInvalidCriteria, c.DTERange[0], c.DTERange[1])
	}
	return nil
}

// Score ranks a contract by liquidity, richness of premium, and distance
// from the money:
//
//	(min(volume/1000 + openInterest/5000, 10) + iv*20 + |delta|*10) / 3
//
// The liquidity term saturates at 10 so huge volume cannot drown out the
// other components. IV enters as a fraction.
func Score(q types.OptionQuote) float64 {
	liquidity := float64(q.Volume)/1000 + float64(q.OpenInterest)/5000
	if liquidity > 10 {
		liquidity = 10
	}
	return (liquidity + q.ImpliedVolatility*20 + math.Abs(q.Delta)*10) / 3
}

// Screen filters candidate summaries by price band, minimum IV, and DTE
// window, then sorts by score descending. The sort is stable so equal scores
// keep their input order. Criteria MinIV and candidate IV are both percents.
func Screen(criteria types.ScreeningCriteria, candidates []types.ScreeningResult) []types.ScreeningResult {
	kept := make([]types.ScreeningResult, 0, len(candidates))
	for _, c := range candidates {
		if c.Price < criteria.MinPrice || c.Price > criteria.MaxPrice {
			continue
		}
		if c.IV < criteria.MinIV {
			continue
		}
		if c.DTE < criteria.DTERange[0] || c.DTE > criteria.DTERange[1] {
			continue
		}
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	return kept
}

// ScreenContracts filters full option quotes by open interest and bid/ask
// spread, the liquidity checks that summary-level Screen cannot apply, then
// sorts by score descending.
func ScreenContracts(criteria types.ScreeningCriteria, quotes []types.OptionQuote) []types.OptionQuote {
	kept := make([]types.OptionQuote, 0, len(quotes))
	for _, q := range quotes {
		if q.OpenInterest < criteria.MinOpenInterest {
			continue
		}
		if criteria.MaxSpreadPercent > 0 && q.SpreadPercent() > criteria.MaxSpreadPercent {
			continue
		}
		kept = append(kept, q)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return Score(kept[i]) > Score(kept[j])
	})
	return kept
}
