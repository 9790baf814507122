package pricing

import (
	"fmt"
	"math"
)

// defaultRiskFreeRate is the fixed rate used by spread analytics and the
// IV convenience wrappers.
const defaultRiskFreeRate = 0.05

// RiskReward summarizes the payoff bounds of a vertical credit spread.
type RiskReward struct {
	MaxRisk         float64 `json:"maxRisk"`
	MaxReward       float64 `json:"maxReward"`
	RiskRewardRatio float64 `json:"riskRewardRatio"`
}

// SpreadRecommendation is a heuristic put-credit-spread suggestion.
type SpreadRecommendation struct {
	ShortStrike         float64 `json:"shortStrike"`
	LongStrike          float64 `json:"longStrike"`
	Credit              float64 `json:"credit"`
	MaxRisk             float64 `json:"maxRisk"`
	ProbabilityOfProfit float64 `json:"probabilityOfProfit"`
}

// ProbabilityOfProfit approximates the chance the underlying finishes above
// the short strike at expiry for a put credit spread: N(d1) computed against
// the short strike at the fixed risk-free rate. The long strike does not
// enter the formula; it is part of the signature because callers evaluate
// spreads, not bare strikes.
func ProbabilityOfProfit(shortStrike, longStrike, currentPrice, volatility, timeToExpiry float64) float64 {
	_ = longStrike
	d1 := (math.Log(currentPrice/shortStrike) + (defaultRiskFreeRate+0.5*volatility*volatility)*timeToExpiry) /
		(volatility * math.Sqrt(timeToExpiry))
	return NormCDF(d1)
}

// SpreadRiskReward computes max risk, max reward, and their ratio for a
// vertical credit spread sold at shortStrike and hedged at longStrike.
func SpreadRiskReward(shortStrike, longStrike, credit float64) (RiskReward, error) {
	if shortStrike <= longStrike {
		return RiskReward{}, fmt.Errorf("%w: short strike %v must exceed long strike %v", ErrInvalidSpread, shortStrike, longStrike)
	}
	if credit <= 0 {
		return RiskReward{}, fmt.Errorf("%w: credit must be positive, got %v", ErrInvalidSpread, credit)
	}

	width := shortStrike - longStrike
	maxRisk := width - credit
	return RiskReward{
		MaxRisk:         maxRisk,
		MaxReward:       credit,
		RiskRewardRatio: maxRisk / credit,
	}, nil
}

// RecommendPutCreditSpread suggests strikes at 95% and 90% of the current
// price with the credit estimated as 30% of the strike width. The 0.75
// probability is a rough placeholder for a target delta near 0.25; callers
// needing precision should substitute an IV-based estimate.
func RecommendPutCreditSpread(currentPrice float64) SpreadRecommendation {
	shortStrike := math.Round(currentPrice * 0.95)
	longStrike := math.Round(currentPrice * 0.90)
	width := shortStrike - longStrike

	credit := roundCents(width * 0.3)
	return SpreadRecommendation{
		ShortStrike:         shortStrike,
		LongStrike:          longStrike,
		Credit:              credit,
		MaxRisk:             roundCents(width - credit),
		ProbabilityOfProfit: 0.75,
	}
}

func roundCents(x float64) float64 {
	return math.Round(x*100) / 100
}
