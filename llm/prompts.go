package llm

import (
	"fmt"
	"strings"

	"juno-research/helpers"
	"juno-research/marketdata"
)

// System prompts for the research agents. Each agent keeps its own persona so
// completions can be tuned per signal source without touching the others.
const (
	SentimentSystemPrompt = "You are a crypto sentiment analysis expert. Analyze market sentiment across social media, news, and funding data. " +
		"Return a sentiment score from -2 (extremely bearish) to +2 (extremely bullish) with confidence 0-100. " +
		"Format your response as JSON with: score, confidence, highlights, sources."

	TechnicalSystemPrompt = "You are a crypto technical analysis expert. Analyze price action, support/resistance levels, and chart patterns. " +
		"Return a technical score from -2 (strong sell) to +2 (strong buy) with confidence 0-100. " +
		"Format your response as JSON with: score, confidence, levels (support/resistance), patterns."

	AdvisorSystemPrompt = "You are Juno, an AI crypto research advisor. Synthesize multi-agent analysis into clear, actionable insights. " +
		"Always emphasize risk management and uncertainty. Provide clear reasoning and alternatives."
)

const maxNarrativeWords = 200

// FormatSentimentPrompt builds the user prompt for the sentiment agent
func FormatSentimentPrompt(asset string, snap marketdata.MarketSnapshot, senti marketdata.SentimentSnapshot) string {
	var sb strings.Builder
	sb.Grow(512)

	sb.WriteString(fmt.Sprintf("Analyze sentiment for %s:\n", asset))
	sb.WriteString(fmt.Sprintf("Price: %s\n", helpers.FormatUSD(snap.Price)))
	sb.WriteString(fmt.Sprintf("24h Change: %.2f%%\n", snap.Change24h))
	sb.WriteString(fmt.Sprintf("Volume: %s\n", helpers.FormatUSD(snap.Volume24h)))
	sb.WriteString(fmt.Sprintf("Fear/Greed: %d\n", senti.FearGreedIndex))
	sb.WriteString(fmt.Sprintf("Funding Rate: %.4f\n\n", senti.FundingRate))
	sb.WriteString("Provide sentiment analysis.")

	return sb.String()
}

// FormatTechnicalPrompt builds the user prompt for the technical agent
func FormatTechnicalPrompt(asset string, snap marketdata.MarketSnapshot) string {
	var sb strings.Builder
	sb.Grow(512)

	sb.WriteString(fmt.Sprintf("Technical analysis for %s:\n", asset))
	sb.WriteString(fmt.Sprintf("Current Price: %s\n", helpers.FormatUSD(snap.Price)))
	sb.WriteString(fmt.Sprintf("24h Change: %.2f%%\n", snap.Change24h))
	sb.WriteString(fmt.Sprintf("Volume: %s\n\n", helpers.FormatUSD(snap.Volume24h)))
	sb.WriteString("Analyze technical levels and patterns.")

	return sb.String()
}

// FormatNarrativePrompt builds the user prompt for the streaming advisor narrative
func FormatNarrativePrompt(asset string, snap marketdata.MarketSnapshot) string {
	var sb strings.Builder
	sb.Grow(512)

	sb.WriteString(fmt.Sprintf("Write a concise research narrative for %s.\n\n", asset))
	sb.WriteString("Current market data:\n")
	sb.WriteString(fmt.Sprintf("- Price: %s\n", helpers.FormatUSD(snap.Price)))
	sb.WriteString(fmt.Sprintf("- 24h Change: %.2f%%\n", snap.Change24h))
	sb.WriteString(fmt.Sprintf("- 24h Volume: %s\n", helpers.FormatUSD(snap.Volume24h)))
	sb.WriteString(fmt.Sprintf("- Market Cap: %s\n\n", helpers.FormatUSD(snap.MarketCap)))
	sb.WriteString("Cover: current positioning, key risks, and what would change the view. ")
	sb.WriteString(fmt.Sprintf("Maximum %d words. This is research, not financial advice.", maxNarrativeWords))

	return sb.String()
}
