package marketdata

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// MarketSnapshot is a point-in-time read of price data for one asset.
// All fields default to zero when the provider call fails or the symbol is
// unknown; callers must tolerate an all-zero snapshot.
type MarketSnapshot struct {
	Price     float64 `json:"usd"`
	Change24h float64 `json:"usd_24h_change"`
	Volume24h float64 `json:"usd_24h_vol"`
	MarketCap float64 `json:"usd_market_cap"`
}

// IsEmpty reports whether the snapshot carries no data
func (s MarketSnapshot) IsEmpty() bool {
	return s.Price == 0 && s.Change24h == 0 && s.Volume24h == 0 && s.MarketCap == 0
}

// SentimentSnapshot is a point-in-time read of market sentiment data
type SentimentSnapshot struct {
	FearGreedIndex  int     `json:"fear_greed_index"`
	SocialSentiment float64 `json:"social_sentiment"`
	NewsSentiment   float64 `json:"news_sentiment"`
	FundingRate     float64 `json:"funding_rate"`
}

// coinIDs maps known tickers to CoinGecko coin identifiers
var coinIDs = map[string]string{
	"BTC": "bitcoin",
	"ETH": "ethereum",
	"SOL": "solana",
}

// CoinID resolves a ticker to its CoinGecko identifier. Unknown tickers are
// passed through lower-cased as a best-effort identifier.
func CoinID(symbol string) string {
	if id, ok := coinIDs[strings.ToUpper(symbol)]; ok {
		return id
	}
	return strings.ToLower(symbol)
}

// Client fetches market data from the CoinGecko API
type Client struct {
	rc *resty.Client
}

// NewClient creates a new CoinGecko market data client
func NewClient(baseURL string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{rc: rc}
}

// GetPrice fetches the current price snapshot for a symbol. Provider failures
// degrade to an empty snapshot and are never propagated to the caller.
func (c *Client) GetPrice(ctx context.Context, symbol string) MarketSnapshot {
	coinID := CoinID(symbol)

	var payload map[string]MarketSnapshot
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":                 coinID,
			"vs_currencies":       "usd",
			"include_24hr_change": "true",
			"include_market_cap":  "true",
			"include_24hr_vol":    "true",
		}).
		SetResult(&payload).
		Get("/simple/price")

	if err != nil {
		log.Printf("Error fetching price data for %s: %v", symbol, err)
		return MarketSnapshot{}
	}
	if resp.IsError() {
		log.Printf("Price provider returned %d for %s", resp.StatusCode(), symbol)
		return MarketSnapshot{}
	}

	return payload[coinID]
}

// GetSentiment returns the current sentiment snapshot for a symbol.
// TODO: wire a real fear/greed and funding source; static values for now.
func (c *Client) GetSentiment(symbol string) SentimentSnapshot {
	return SentimentSnapshot{
		FearGreedIndex:  45,
		SocialSentiment: 0.2,
		NewsSentiment:   0.1,
		FundingRate:     0.01,
	}
}
