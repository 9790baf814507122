package options

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ordonezjosue/stock-screener/internal/api"
	"github.com/ordonezjosue/stock-screener/internal/types"
)

const polygonBaseURL = "https://api.polygon.io"

// PolygonChainSource fetches option chain snapshots from Polygon.
type PolygonChainSource struct {
	client *api.Client
	apiKey string
}

// NewPolygonChainSource creates a live chain source for the given API key.
func NewPolygonChainSource(apiKey string) *PolygonChainSource {
	return &PolygonChainSource{
		client: api.NewClient(
			api.WithBaseURL(polygonBaseURL),
			api.WithTimeout(20*time.Second),
			api.WithLogging(true),
		),
		apiKey: apiKey,
	}
}

type polygonChainResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Details struct {
			Ticker         string  `json:"ticker"`
			StrikePrice    float64 `json:"strike_price"`
			ContractType   string  `json:"contract_type"`
			ExpirationDate string  `json:"expiration_date"`
		} `json:"details"`
		Day struct {
			Volume int64 `json:"volume"`
		} `json:"day"`
		LastQuote struct {
			Bid float64 `json:"bid"`
			Ask float64 `json:"ask"`
		} `json:"last_quote"`
		LastTrade struct {
			Price float64 `json:"price"`
		} `json:"last_trade"`
		OpenInterest      int64   `json:"open_interest"`
		ImpliedVolatility float64 `json:"implied_volatility"`
		Greeks            struct {
			Delta float64 `json:"delta"`
			Gamma float64 `json:"gamma"`
			Theta float64 `json:"theta"`
			Vega  float64 `json:"vega"`
		} `json:"greeks"`
	} `json:"results"`
}

// FetchChain returns the chain for symbol at the given expiration (YYYY-MM-DD).
func (s *PolygonChainSource) FetchChain(ctx context.Context, symbol, expiration string) (*types.OptionsChain, error) {
	path := fmt.Sprintf("/v3/snapshot/options/%s?expiration_date=%s&limit=250&apiKey=%s",
		url.PathEscape(symbol), url.QueryEscape(expiration), url.QueryEscape(s.apiKey))

	resp, err := s.client.GETWithRetry(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("polygon chain request for %s: %w", symbol, err)
	}

	var parsed polygonChainResponse
	if err := resp.ParseJSON(&parsed); err != nil {
		return nil, fmt.Errorf("polygon chain response for %s: %w", symbol, err)
	}
	if parsed.Status != "OK" {
		return nil, fmt.Errorf("polygon chain for %s: status %q", symbol, parsed.Status)
	}
	if len(parsed.Results) == 0 {
		return nil, fmt.Errorf("polygon returned no contracts for %s at %s", symbol, expiration)
	}

	now := time.Now()
	chain := &types.OptionsChain{
		Symbol:     symbol,
		Expiration: expiration,
		Timestamp:  now,
	}

	for _, r := range parsed.Results {
		q := types.OptionQuote{
			Symbol:            r.Details.Ticker,
			Expiration:        r.Details.ExpirationDate,
			Strike:            r.Details.StrikePrice,
			Bid:               r.LastQuote.Bid,
			Ask:               r.LastQuote.Ask,
			Last:              r.LastTrade.Price,
			Volume:            r.Day.Volume,
			OpenInterest:      r.OpenInterest,
			Delta:             r.Greeks.Delta,
			Gamma:             r.Greeks.Gamma,
			Theta:             r.Greeks.Theta,
			Vega:              r.Greeks.Vega,
			ImpliedVolatility: r.ImpliedVolatility,
			Timestamp:         now,
		}

		switch r.Details.ContractType {
		case "call":
			q.Type = types.Call
			chain.Calls = append(chain.Calls, q)
		case "put":
			q.Type = types.Put
			chain.Puts = append(chain.Puts, q)
		}
	}
	return chain, nil
}
