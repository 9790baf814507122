package types

import "time"

// OptionType distinguishes calls from puts.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// Sentiment is a qualitative tag attached to screening results.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// StockQuote is a point-in-time snapshot for one underlying.
type StockQuote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Volume        int64     `json:"volume"`
	MarketCap     float64   `json:"marketCap"`
	PE            float64   `json:"pe"`
	Dividend      float64   `json:"dividend"`
	DividendYield float64   `json:"dividendYield"`
	High52        float64   `json:"high52"`
	Low52         float64   `json:"low52"`
	AvgVolume     int64     `json:"avgVolume"`
	Timestamp     time.Time `json:"timestamp"`
}

// IndexQuote holds the index-level fields of a market snapshot.
type IndexQuote struct {
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent,omitempty"`
}

// AdvanceDecline is market breadth: issues advancing vs declining.
type AdvanceDecline struct {
	Advancing int `json:"advancing"`
	Declining int `json:"declining"`
	Unchanged int `json:"unchanged"`
}

// MarketSnapshot joins the broad-market index and the volatility index.
type MarketSnapshot struct {
	SPY            IndexQuote     `json:"spy"`
	VIX            IndexQuote     `json:"vix"`
	AdvanceDecline AdvanceDecline `json:"advanceDecline"`
	Timestamp      time.Time      `json:"timestamp"`
}

// OptionQuote is a market snapshot for a single contract. Immutable once fetched.
type OptionQuote struct {
	Symbol            string     `json:"symbol"`
	Expiration        string     `json:"expiration"`
	Strike            float64    `json:"strike"`
	Type              OptionType `json:"type"`
	Bid               float64    `json:"bid"`
	Ask               float64    `json:"ask"`
	Last              float64    `json:"last"`
	Volume            int64      `json:"volume"`
	OpenInterest      int64      `json:"openInterest"`
	Delta             float64    `json:"delta"`
	Gamma             float64    `json:"gamma"`
	Theta             float64    `json:"theta"`
	Vega              float64    `json:"vega"`
	ImpliedVolatility float64    `json:"impliedVolatility"`
	Timestamp         time.Time  `json:"timestamp"`
}

// Mid returns the bid/ask midpoint, falling back to last when the book is empty.
func (q OptionQuote) Mid() float64 {
	if q.Bid <= 0 && q.Ask <= 0 {
		return q.Last
	}
	return (q.Bid + q.Ask) / 2
}

// SpreadPercent returns the bid/ask spread as a percentage of the midpoint.
func (q OptionQuote) SpreadPercent() float64 {
	mid := q.Mid()
	if mid <= 0 {
		return 0
	}
	return (q.Ask - q.Bid) / mid * 100
}

// OptionsChain holds all quotes for one symbol and expiration.
type OptionsChain struct {
	Symbol     string        `json:"symbol"`
	Expiration string        `json:"expiration"`
	Calls      []OptionQuote `json:"calls"`
	Puts       []OptionQuote `json:"puts"`
	Timestamp  time.Time     `json:"timestamp"`
}

// ScreeningCriteria bounds the candidate set for one screener run.
// MinIV and the candidate IV are both expressed in percent.
type ScreeningCriteria struct {
	MinPrice         float64 `json:"minPrice" yaml:"min_price"`
	MaxPrice         float64 `json:"maxPrice" yaml:"max_price"`
	TargetDelta      float64 `json:"targetDelta" yaml:"target_delta"`
	MinOpenInterest  int64   `json:"minOI" yaml:"min_open_interest"`
	MaxSpreadPercent float64 `json:"maxSpread" yaml:"max_spread_percent"`
	MinIV            float64 `json:"minIV" yaml:"min_iv"`
	DTERange         [2]int  `json:"dteRange" yaml:"dte_range"`
}

// ScreeningResult is one ranked candidate. Created fresh per run, never mutated.
type ScreeningResult struct {
	Symbol        string       `json:"symbol"`
	Price         float64      `json:"price"`
	Change        float64      `json:"change"`
	ChangePercent float64      `json:"changePercent"`
	Volume        int64        `json:"volume"`
	MarketCap     float64      `json:"marketCap"`
	IV            float64      `json:"iv"`
	TargetDelta   float64      `json:"targetDelta"`
	DTE           int          `json:"dte"`
	Score         float64      `json:"score"`
	NewsSentiment Sentiment    `json:"newsSentiment"`
	BestOption    *OptionQuote `json:"bestOption,omitempty"`
}

// NewsItem is one normalized article from any source.
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	Tickers     []string  `json:"tickerSymbols"`
	Summary     string    `json:"summary"`
}
