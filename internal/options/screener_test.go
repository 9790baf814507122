package options

import (
	"errors"
	"math"
	"testing"

	"github.com/ordonezjosue/stock-screener/internal/types"
)

func TestScoreComposite(t *testing.T) {
	q := types.OptionQuote{
		Volume:            2000,
		OpenInterest:      5000,
		ImpliedVolatility: 0.45,
		Delta:             -0.28,
	}

	// liquidity 2 + 1 = 3, IV 0.45*20 = 9, |delta|*10 = 2.8 → 14.8/3
	if got := Score(q); math.Abs(got-4.9333) > 1e-3 {
		t.Errorf("Score = %v, want ~4.9333", got)
	}
}

func TestScoreLiquiditySaturates(t *testing.T) {
	q := types.OptionQuote{Volume: 1_000_000, OpenInterest: 1_000_000}
	if got := Score(q); math.Abs(got-10.0/3) > 1e-9 {
		t.Errorf("Score = %v, want liquidity capped at 10", got)
	}
}

func TestValidateCriteria(t *testing.T) {
	valid := types.ScreeningCriteria{
		MinPrice:    10,
		MaxPrice:    200,
		TargetDelta: 0.3,
		MinIV:       30,
		DTERange:    [2]int{30, 45},
	}
	if err := ValidateCriteria(valid); err != nil {
		t.Fatalf("valid criteria rejected: %v", err)
	}

	invalid := map[string]func(*types.ScreeningCriteria){
		"negative min price": func(c *types.ScreeningCriteria) { c.MinPrice = -1 },
		"max below min":      func(c *types.ScreeningCriteria) { c.MaxPrice = 5 },
		"delta above one":    func(c *types.ScreeningCriteria) { c.TargetDelta = 1.5 },
		"negative delta":     func(c *types.ScreeningCriteria) { c.TargetDelta = -0.1 },
		"negative DTE":       func(c *types.ScreeningCriteria) { c.DTERange = [2]int{-1, 45} },
		"inverted DTE range": func(c *types.ScreeningCriteria) { c.DTERange = [2]int{45, 30} },
	}

	for name, mutate := range invalid {
		c := valid
		mutate(&c)
		if err := ValidateCriteria(c); !errors.Is(err, ErrInvalidCriteria) {
			t.Errorf("%s: got %v, want ErrInvalidCriteria", name, err)
		}
	}
}

func TestScreenFilters(t *testing.T) {
	criteria := types.ScreeningCriteria{
		MinPrice: 10,
		MaxPrice: 200,
		MinIV:    30,
		DTERange: [2]int{30, 45},
	}

	candidates := []types.ScreeningResult{
		{Symbol: "KEEP", Price: 175.43, IV: 45.2, DTE: 35},
		{Symbol: "FAR", Price: 175.43, IV: 45.2, DTE: 60},
		{Symbol: "RICH", Price: 250, IV: 45.2, DTE: 35},
		{Symbol: "QUIET", Price: 175.43, IV: 20, DTE: 35},
	}

	got := Screen(criteria, candidates)
	if len(got) != 1 || got[0].Symbol != "KEEP" {
		t.Errorf("Screen kept %v, want only KEEP", got)
	}
}

func TestScreenSortsByScoreStable(t *testing.T) {
	criteria := types.ScreeningCriteria{
		MaxPrice: 1000,
		DTERange: [2]int{0, 100},
	}

	candidates := []types.ScreeningResult{
		{Symbol: "A", Price: 100, DTE: 30, Score: 2.0},
		{Symbol: "B", Price: 100, DTE: 30, Score: 5.0},
		{Symbol: "C", Price: 100, DTE: 30, Score: 2.0},
	}

	got := Screen(criteria, candidates)
	if got[0].Symbol != "B" {
		t.Errorf("first = %s, want highest score B", got[0].Symbol)
	}
	// Equal scores keep input order.
	if got[1].Symbol != "A" || got[2].Symbol != "C" {
		t.Errorf("tie order = %s, %s; want A, C", got[1].Symbol, got[2].Symbol)
	}
}

func TestScreenContracts(t *testing.T) {
	criteria := types.ScreeningCriteria{
		MinOpenInterest:  1000,
		MaxSpreadPercent: 10,
	}

	quotes := []types.OptionQuote{
		{Symbol: "thin", OpenInterest: 50, Bid: 1.00, Ask: 1.05},
		{Symbol: "wide", OpenInterest: 5000, Bid: 1.00, Ask: 1.50},
		{Symbol: "good", OpenInterest: 5000, Bid: 1.00, Ask: 1.05},
	}

	got := ScreenContracts(criteria, quotes)
	if len(got) != 1 || got[0].Symbol != "good" {
		t.Errorf("ScreenContracts kept %v, want only the liquid tight contract", got)
	}
}

func TestScreenContractsZeroSpreadLimit(t *testing.T) {
	// A zero MaxSpreadPercent means the spread check is not applied.
	criteria := types.ScreeningCriteria{MinOpenInterest: 0}
	quotes := []types.OptionQuote{{Symbol: "any", Bid: 1.00, Ask: 2.00}}

	if got := ScreenContracts(criteria, quotes); len(got) != 1 {
		t.Errorf("kept %d contracts, want 1", len(got))
	}
}
