package pricing

import (
	"fmt"

	"github.com/ordonezjosue/stock-screener/internal/types"
)

const (
	// DefaultTolerance is the absolute price tolerance for convergence.
	DefaultTolerance = 1e-4
	// DefaultMaxIterations caps the Newton-Raphson loop.
	DefaultMaxIterations = 100

	initialGuess  = 0.5
	minVolatility = 0.01
	maxVolatility = 5.0 // 500% annualized; anything beyond is divergence
	vegaFloor     = 1e-10
)

type solveConfig struct {
	tolerance     float64
	maxIterations int
}

// SolveOption overrides a solver default.
type SolveOption func(*solveConfig)

// WithTolerance sets the absolute price tolerance.
func WithTolerance(tol float64) SolveOption {
	return func(c *solveConfig) { c.tolerance = tol }
}

// WithMaxIterations sets the iteration budget.
func WithMaxIterations(n int) SolveOption {
	return func(c *solveConfig) { c.maxIterations = n }
}

// ImpliedVolatility recovers the volatility that reproduces an observed
// market price under the pricing model, via Newton-Raphson on the price
// difference. The Volatility field of p is ignored. The solver is
// deterministic for identical inputs.
func ImpliedVolatility(observed float64, p Parameters, typ types.OptionType, opts ...SolveOption) (float64, error) {
	cfg := solveConfig{tolerance: DefaultTolerance, maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		opt(&cfg)
	}

	vol := initialGuess
	for i := 0; i < cfg.maxIterations; i++ {
		p.Volatility = vol
		res, err := Price(p)
		if err != nil {
			return 0, err
		}

		diff := res.Premium(typ) - observed
		if abs(diff) < cfg.tolerance {
			return vol, nil
		}

		vega := res.Greeks.Vega
		if abs(vega) < vegaFloor {
			return 0, fmt.Errorf("%w: |vega|=%g at volatility %g", ErrDegenerateVega, vega, vol)
		}

		vol -= diff / vega

		// Guard rails: keep the guess strictly positive and bounded.
		if vol <= 0 {
			vol = minVolatility
		}
		if vol > maxVolatility {
			vol = maxVolatility
		}
	}

	return 0, fmt.Errorf("%w after %d iterations", ErrConvergenceFailure, cfg.maxIterations)
}

// PutIV solves implied volatility for a put at the default 5% risk-free rate.
func PutIV(observed, spot, strike, timeToExpiry float64) (float64, error) {
	return ImpliedVolatility(observed, Parameters{
		Spot:         spot,
		Strike:       strike,
		TimeToExpiry: timeToExpiry,
		RiskFreeRate: defaultRiskFreeRate,
	}, types.Put)
}

// CallIV solves implied volatility for a call at the default 5% risk-free rate.
func CallIV(observed, spot, strike, timeToExpiry float64) (float64, error) {
	return ImpliedVolatility(observed, Parameters{
		Spot:         spot,
		Strike:       strike,
		TimeToExpiry: timeToExpiry,
		RiskFreeRate: defaultRiskFreeRate,
	}, types.Call)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
