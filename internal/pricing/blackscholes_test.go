package pricing

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestPutCallParity(t *testing.T) {
	cases := []Parameters{
		{Spot: 100, Strike: 100, TimeToExpiry: 1, RiskFreeRate: 0.05, Volatility: 0.2},
		{Spot: 175.43, Strike: 170, TimeToExpiry: 35.0 / 365.25, RiskFreeRate: 0.05, Volatility: 0.45},
		{Spot: 50, Strike: 80, TimeToExpiry: 0.25, RiskFreeRate: 0.01, Volatility: 1.2},
		{Spot: 300, Strike: 150, TimeToExpiry: 2, RiskFreeRate: 0.08, Volatility: 0.05},
	}

	for _, p := range cases {
		res, err := Price(p)
		if err != nil {
			t.Fatalf("Price(%+v) returned error: %v", p, err)
		}

		parity := p.Spot - p.Strike*math.Exp(-p.RiskFreeRate*p.TimeToExpiry)
		if got := res.CallPrice - res.PutPrice; math.Abs(got-parity) > 1e-6 {
			t.Errorf("put-call parity violated for %+v: call-put=%v, want %v", p, got, parity)
		}
	}
}

func TestPriceATMKnownValue(t *testing.T) {
	res, err := Price(Parameters{Spot: 100, Strike: 100, TimeToExpiry: 1, RiskFreeRate: 0.05, Volatility: 0.2})
	if err != nil {
		t.Fatal(err)
	}

	// Reference values from the textbook formula; the CDF approximation is
	// accurate well past four significant digits.
	if math.Abs(res.CallPrice-10.4506) > 0.001 {
		t.Errorf("call price = %v, want 10.4506", res.CallPrice)
	}
	if math.Abs(res.PutPrice-5.5735) > 0.001 {
		t.Errorf("put price = %v, want 5.5735", res.PutPrice)
	}
	if math.Abs(res.Greeks.DeltaCall-0.6368) > 0.001 {
		t.Errorf("call delta = %v, want 0.6368", res.Greeks.DeltaCall)
	}
}

func TestPriceInvalidInput(t *testing.T) {
	valid := Parameters{Spot: 100, Strike: 100, TimeToExpiry: 1, RiskFreeRate: 0.05, Volatility: 0.2}

	cases := map[string]func(Parameters) Parameters{
		"zero time":           func(p Parameters) Parameters { p.TimeToExpiry = 0; return p },
		"negative time":       func(p Parameters) Parameters { p.TimeToExpiry = -0.1; return p },
		"zero spot":           func(p Parameters) Parameters { p.Spot = 0; return p },
		"zero strike":         func(p Parameters) Parameters { p.Strike = 0; return p },
		"zero volatility":     func(p Parameters) Parameters { p.Volatility = 0; return p },
		"negative volatility": func(p Parameters) Parameters { p.Volatility = -0.5; return p },
	}

	for name, mutate := range cases {
		if _, err := Price(mutate(valid)); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestGreeksSigns(t *testing.T) {
	res, err := Price(Parameters{Spot: 120, Strike: 100, TimeToExpiry: 0.5, RiskFreeRate: 0.05, Volatility: 0.3})
	if err != nil {
		t.Fatal(err)
	}
	g := res.Greeks

	if g.DeltaCall <= 0 || g.DeltaCall >= 1 {
		t.Errorf("call delta out of (0,1): %v", g.DeltaCall)
	}
	if math.Abs(g.DeltaPut-(g.DeltaCall-1)) > 1e-12 {
		t.Errorf("put delta %v != call delta - 1 (%v)", g.DeltaPut, g.DeltaCall-1)
	}
	if g.Gamma <= 0 {
		t.Errorf("gamma should be positive, got %v", g.Gamma)
	}
	if g.Vega <= 0 {
		t.Errorf("vega should be positive, got %v", g.Vega)
	}
	if g.ThetaCall >= 0 {
		t.Errorf("call theta should be negative, got %v", g.ThetaCall)
	}
	if g.RhoCall <= 0 {
		t.Errorf("call rho should be positive, got %v", g.RhoCall)
	}
	if g.RhoPut >= 0 {
		t.Errorf("put rho should be negative, got %v", g.RhoPut)
	}
}

func TestDaysToYears(t *testing.T) {
	if got := DaysToYears(365); math.Abs(got-365.0/365.25) > 1e-12 {
		t.Errorf("DaysToYears(365) = %v", got)
	}
}

func TestDaysToExpiry(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	exp := now.AddDate(0, 0, 35)
	if got := DaysToExpiry(exp, now); got != 35 {
		t.Errorf("DaysToExpiry 35 days out = %d, want 35", got)
	}

	past := now.AddDate(0, 0, -3)
	if got := DaysToExpiry(past, now); got != 0 {
		t.Errorf("DaysToExpiry in the past = %d, want 0", got)
	}
}
