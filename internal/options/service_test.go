package options

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/ordonezjosue/stock-screener/internal/quotes"
	"github.com/ordonezjosue/stock-screener/internal/types"
)

type stubChainSource struct {
	chain *types.OptionsChain
	err   error
	calls int
}

func (s *stubChainSource) FetchChain(ctx context.Context, symbol, expiration string) (*types.OptionsChain, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.chain, nil
}

func newTestService(opts ...Option) *Service {
	return NewService(Config{}, quotes.NewService(quotes.Config{}), opts...)
}

func defaultCriteria() types.ScreeningCriteria {
	return types.ScreeningCriteria{
		MinPrice:         10,
		MaxPrice:         200,
		TargetDelta:      0.3,
		MinOpenInterest:  500,
		MaxSpreadPercent: 10,
		MinIV:            30,
		DTERange:         [2]int{30, 45},
	}
}

func TestRunScreenerInvalidCriteria(t *testing.T) {
	chains := &stubChainSource{}
	svc := newTestService(WithChainSource(chains))

	criteria := defaultCriteria()
	criteria.DTERange = [2]int{45, 30}

	_, err := svc.RunScreener(context.Background(), criteria, []string{"AAPL"})
	if !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("got %v, want ErrInvalidCriteria", err)
	}
	if chains.calls != 0 {
		t.Error("chain source called despite invalid criteria")
	}
}

func TestRunScreenerSyntheticChain(t *testing.T) {
	svc := newTestService()

	results, err := svc.RunScreener(context.Background(), defaultCriteria(), []string{"AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	r := results[0]
	if r.Symbol != "AAPL" {
		t.Errorf("symbol = %s, want AAPL", r.Symbol)
	}
	if r.Price != 175.43 {
		t.Errorf("price = %v, want fallback 175.43", r.Price)
	}
	if r.DTE < 30 || r.DTE > 45 {
		t.Errorf("DTE = %d, want inside [30, 45]", r.DTE)
	}
	if r.IV < 30 {
		t.Errorf("IV = %v%%, want at least the 30%% floor", r.IV)
	}
	if r.BestOption == nil {
		t.Fatal("best option not attached")
	}
	if r.BestOption.Type != types.Put {
		t.Errorf("best option type = %s, want put", r.BestOption.Type)
	}
	if r.BestOption.Delta >= 0 {
		t.Errorf("put delta = %v, want negative", r.BestOption.Delta)
	}
	if r.Score <= 0 {
		t.Errorf("score = %v, want positive", r.Score)
	}
}

func TestRunScreenerDeterministic(t *testing.T) {
	svc := newTestService()

	first, err := svc.RunScreener(context.Background(), defaultCriteria(), []string{"AAPL", "MSFT"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.RunScreener(context.Background(), defaultCriteria(), []string{"AAPL", "MSFT"})
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("result counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Symbol != second[i].Symbol || first[i].Score != second[i].Score {
			t.Errorf("run %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRunScreenerChainErrorSkipsSymbol(t *testing.T) {
	chains := &stubChainSource{err: fmt.Errorf("upstream down")}
	svc := newTestService(WithChainSource(chains))

	results, err := svc.RunScreener(context.Background(), defaultCriteria(), []string{"AAPL"})
	if err != nil {
		t.Fatalf("chain failure must not abort the run: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results from a failed chain, want 0", len(results))
	}
}

func TestRecommendSpread(t *testing.T) {
	svc := newTestService()

	rec, err := svc.RecommendSpread(context.Background(), "AAPL")
	if err != nil {
		t.Fatal(err)
	}

	// Fallback AAPL price 175.43: strikes at round(95%) and round(90%).
	if rec.ShortStrike != 167 {
		t.Errorf("short strike = %v, want 167", rec.ShortStrike)
	}
	if rec.LongStrike != 158 {
		t.Errorf("long strike = %v, want 158", rec.LongStrike)
	}
	if rec.Credit != 2.7 {
		t.Errorf("credit = %v, want 2.7 (30%% of width)", rec.Credit)
	}
	if rec.ProbabilityOfProfit != 0.75 {
		t.Errorf("POP = %v, want 0.75", rec.ProbabilityOfProfit)
	}
}

func TestClosestByDelta(t *testing.T) {
	contracts := []types.OptionQuote{
		{Symbol: "deep", Delta: -0.72},
		{Symbol: "near", Delta: -0.31},
		{Symbol: "far", Delta: -0.08},
	}

	if got := closestByDelta(contracts, 0.3); got.Symbol != "near" {
		t.Errorf("closestByDelta picked %s, want near", got.Symbol)
	}
}

func TestSentimentFor(t *testing.T) {
	tests := []struct {
		change float64
		want   types.Sentiment
	}{
		{1.2, types.SentimentPositive},
		{-0.9, types.SentimentNegative},
		{0.2, types.SentimentNeutral},
		{-0.5, types.SentimentNeutral},
	}
	for _, tt := range tests {
		if got := sentimentFor(tt.change); got != tt.want {
			t.Errorf("sentimentFor(%v) = %s, want %s", tt.change, got, tt.want)
		}
	}
}

func TestFallbackChainDeterministic(t *testing.T) {
	chain := NewFallbackChain(func(ctx context.Context, symbol string) float64 { return 175.43 })

	first, err := chain.FetchChain(context.Background(), "AAPL", "2024-02-16")
	if err != nil {
		t.Fatal(err)
	}
	second, err := chain.FetchChain(context.Background(), "AAPL", "2024-02-16")
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Puts) == 0 || len(first.Puts) != len(second.Puts) {
		t.Fatalf("put counts: %d vs %d", len(first.Puts), len(second.Puts))
	}
	for i := range first.Puts {
		if first.Puts[i].Bid != second.Puts[i].Bid || first.Puts[i].Delta != second.Puts[i].Delta {
			t.Errorf("put %d differs between fetches", i)
		}
	}

	// Strikes bracket the spot in $5 steps.
	for _, p := range first.Puts {
		if math.Mod(p.Strike, 5) != 0 {
			t.Errorf("strike %v not on a $5 increment", p.Strike)
		}
		if math.Abs(p.Strike-175.43) > 25 {
			t.Errorf("strike %v too far from spot", p.Strike)
		}
	}
}

func TestFallbackChainBadExpiration(t *testing.T) {
	chain := NewFallbackChain(func(ctx context.Context, symbol string) float64 { return 100 })
	if _, err := chain.FetchChain(context.Background(), "AAPL", "02/16/2024"); err == nil {
		t.Error("expected error for malformed expiration date")
	}
}
