package quotes

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ordonezjosue/stock-screener/internal/api"
	"github.com/ordonezjosue/stock-screener/internal/types"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageSource fetches live quotes from the Alpha Vantage GLOBAL_QUOTE
// endpoint. The free tier is heavily throttled, so callers are expected to
// gate every FetchQuote behind the service's rate limiter.
type AlphaVantageSource struct {
	client *api.Client
	apiKey string
}

// NewAlphaVantageSource creates a live quote source for the given API key.
func NewAlphaVantageSource(apiKey string) *AlphaVantageSource {
	return &AlphaVantageSource{
		client: api.NewClient(
			api.WithBaseURL(alphaVantageBaseURL),
			api.WithTimeout(15*time.Second),
			api.WithLogging(true),
		),
		apiKey: apiKey,
	}
}

// globalQuoteResponse mirrors Alpha Vantage's numbered-field JSON.
type globalQuoteResponse struct {
	GlobalQuote  map[string]string `json:"Global Quote"`
	ErrorMessage string            `json:"Error Message"`
	Note         string            `json:"Note"`
}

// FetchQuote returns the latest quote for symbol.
func (s *AlphaVantageSource) FetchQuote(ctx context.Context, symbol string) (*types.StockQuote, error) {
	path := fmt.Sprintf("/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		url.QueryEscape(symbol), url.QueryEscape(s.apiKey))

	resp, err := s.client.GET(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("alpha vantage request for %s: %w", symbol, err)
	}

	var parsed globalQuoteResponse
	if err := resp.ParseJSON(&parsed); err != nil {
		return nil, fmt.Errorf("alpha vantage response for %s: %w", symbol, err)
	}
	if parsed.ErrorMessage != "" {
		return nil, fmt.Errorf("alpha vantage rejected %s: %s", symbol, parsed.ErrorMessage)
	}
	if parsed.Note != "" {
		// The Note field carries the upstream throttle message.
		return nil, fmt.Errorf("alpha vantage throttled %s: %s", symbol, parsed.Note)
	}
	if len(parsed.GlobalQuote) == 0 {
		return nil, fmt.Errorf("alpha vantage returned empty quote for %s", symbol)
	}

	quote := &types.StockQuote{
		Symbol:    symbol,
		Timestamp: time.Now(),
	}
	quote.Price = parseQuoteFloat(parsed.GlobalQuote, "05. price")
	quote.Change = parseQuoteFloat(parsed.GlobalQuote, "09. change")
	quote.ChangePercent = parseQuotePercent(parsed.GlobalQuote, "10. change percent")
	quote.Volume = parseQuoteInt(parsed.GlobalQuote, "06. volume")

	if quote.Price <= 0 {
		return nil, fmt.Errorf("alpha vantage returned no price for %s", symbol)
	}
	return quote, nil
}

func parseQuoteFloat(fields map[string]string, key string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(fields[key]), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseQuotePercent(fields map[string]string, key string) float64 {
	raw := strings.TrimSuffix(strings.TrimSpace(fields[key]), "%")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseQuoteInt(fields map[string]string, key string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(fields[key]), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
