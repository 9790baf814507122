package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/ordonezjosue/stock-screener/internal/types"
)

func TestImpliedVolatilityRoundTrip(t *testing.T) {
	params := Parameters{Spot: 100, Strike: 100, TimeToExpiry: 0.5, RiskFreeRate: 0.05}

	for i := 1; i <= 60; i++ {
		vol := float64(i) * 0.05
		p := params
		p.Volatility = vol
		res, err := Price(p)
		if err != nil {
			t.Fatalf("vol=%v: %v", vol, err)
		}

		solved, err := ImpliedVolatility(res.PutPrice, params, types.Put)
		if err != nil {
			t.Fatalf("vol=%v: solver failed: %v", vol, err)
		}
		if math.Abs(solved-vol) > 1e-3 {
			t.Errorf("round trip at vol=%v: solved %v", vol, solved)
		}
	}
}

func TestImpliedVolatilityDeterministic(t *testing.T) {
	params := Parameters{Spot: 175.43, Strike: 170, TimeToExpiry: DaysToYears(35), RiskFreeRate: 0.05}

	first, err := ImpliedVolatility(4.20, params, types.Put)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ImpliedVolatility(4.20, params, types.Put)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("solver not deterministic: %v vs %v", first, second)
	}
}

func TestImpliedVolatilityZeroIterations(t *testing.T) {
	params := Parameters{Spot: 100, Strike: 100, TimeToExpiry: 1, RiskFreeRate: 0.05}

	_, err := ImpliedVolatility(10.0, params, types.Call, WithMaxIterations(0))
	if !errors.Is(err, ErrConvergenceFailure) {
		t.Errorf("expected ErrConvergenceFailure, got %v", err)
	}
}

func TestImpliedVolatilityDegenerateVega(t *testing.T) {
	// A strike six orders of magnitude above spot puts d1 so far into the
	// left tail that N(d1), and with it the simplified vega, underflows.
	params := Parameters{Spot: 1, Strike: 1e6, TimeToExpiry: 0.01, RiskFreeRate: 0.05}

	_, err := ImpliedVolatility(0.5, params, types.Put)
	if !errors.Is(err, ErrDegenerateVega) {
		t.Errorf("expected ErrDegenerateVega, got %v", err)
	}
}

func TestImpliedVolatilityInvalidParams(t *testing.T) {
	params := Parameters{Spot: 100, Strike: 100, TimeToExpiry: 0, RiskFreeRate: 0.05}

	if _, err := ImpliedVolatility(10.0, params, types.Call); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero expiry, got %v", err)
	}
}

func TestPutIVAndCallIV(t *testing.T) {
	p := Parameters{Spot: 100, Strike: 95, TimeToExpiry: 0.25, RiskFreeRate: 0.05, Volatility: 0.4}
	res, err := Price(p)
	if err != nil {
		t.Fatal(err)
	}

	putVol, err := PutIV(res.PutPrice, p.Spot, p.Strike, p.TimeToExpiry)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(putVol-0.4) > 1e-3 {
		t.Errorf("PutIV = %v, want ~0.4", putVol)
	}

	callVol, err := CallIV(res.CallPrice, p.Spot, p.Strike, p.TimeToExpiry)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(callVol-0.4) > 1e-3 {
		t.Errorf("CallIV = %v, want ~0.4", callVol)
	}
}
