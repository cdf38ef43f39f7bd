package agents

import (
	"context"
	"fmt"
	"log"

	"juno-research/llm"
	"juno-research/marketdata"
	"juno-research/research"
)

// SentimentAgent scores market mood from social, news, and funding data via
// one completion request. The completion is parsed strictly; anything that
// fails the parse falls back to a deterministic price-change rule.
type SentimentAgent struct {
	llm       Completer
	sentiment SentimentSource
}

// NewSentimentAgent creates a new sentiment agent
func NewSentimentAgent(completer Completer, sentiment SentimentSource) *SentimentAgent {
	return &SentimentAgent{
		llm:       completer,
		sentiment: sentiment,
	}
}

// Name returns the agent name recorded in evidence
func (a *SentimentAgent) Name() string {
	return research.AgentSentiment
}

// Analyze produces sentiment evidence for the asset. Never fails outward.
func (a *SentimentAgent) Analyze(ctx context.Context, asset string, snap marketdata.MarketSnapshot) research.Evidence {
	if a.llm == nil {
		return a.fallback(snap)
	}

	senti := a.sentiment.GetSentiment(asset)
	prompt := llm.FormatSentimentPrompt(asset, snap, senti)

	raw, err := a.llm.Complete(ctx, llm.SentimentSystemPrompt, prompt)
	if err != nil {
		log.Printf("Sentiment analysis error: %v", err)
		return errorEvidence(research.AgentSentiment, "Error in sentiment analysis")
	}

	parsed, ok := parseEvidence(raw)
	if !ok {
		return a.fallback(snap)
	}

	highlights := parsed.Highlights
	if len(highlights) == 0 {
		highlights = []string{"Market sentiment analysis"}
	}
	sources := parsed.Sources
	if len(sources) == 0 {
		sources = []string{"CoinGecko", "Social Media"}
	}

	return research.Evidence{
		Agent:      research.AgentSentiment,
		Score:      *parsed.Score,
		Confidence: *parsed.Confidence,
		Highlights: highlights,
		Sources:    sources,
	}
}

// fallback is the deterministic rule applied when the completion is missing
// or unparseable: score follows the sign of the 24h change
func (a *SentimentAgent) fallback(snap marketdata.MarketSnapshot) research.Evidence {
	score := -0.5
	if snap.Change24h > 0 {
		score = 0.5
	}
	return research.Evidence{
		Agent:      research.AgentSentiment,
		Score:      score,
		Confidence: fallbackConfidence,
		Highlights: []string{fmt.Sprintf("24h change: %.2f%%", snap.Change24h)},
		Sources:    []string{"CoinGecko"},
	}
}
