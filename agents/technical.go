package agents

import (
	"context"
	"fmt"
	"strings"

	"juno-research/helpers"
	"juno-research/llm"
	"juno-research/marketdata"
	"juno-research/research"
)

const technicalConfidence = 70

// maxNarrativeHighlight caps the completion excerpt carried as a highlight
const maxNarrativeHighlight = 160

// TechnicalAgent scores price action deterministically: the 24h change is
// rescaled into the [-2, 2] score domain. The completion request only
// contributes narrative highlight text, never the score.
type TechnicalAgent struct {
	llm Completer
}

// NewTechnicalAgent creates a new technical agent
func NewTechnicalAgent(completer Completer) *TechnicalAgent {
	return &TechnicalAgent{llm: completer}
}

// Name returns the agent name recorded in evidence
func (a *TechnicalAgent) Name() string {
	return research.AgentTechnical
}

// Analyze produces technical evidence for the asset. Never fails outward.
func (a *TechnicalAgent) Analyze(ctx context.Context, asset string, snap marketdata.MarketSnapshot) research.Evidence {
	highlights := []string{
		fmt.Sprintf("Price momentum: %.2f%%", snap.Change24h),
		fmt.Sprintf("Current level: %s", helpers.FormatUSD(snap.Price)),
	}

	if a.llm != nil {
		raw, err := a.llm.Complete(ctx, llm.TechnicalSystemPrompt, llm.FormatTechnicalPrompt(asset, snap))
		if err != nil {
			return errorEvidence(research.AgentTechnical, "Error in technical analysis")
		}
		if excerpt := narrativeExcerpt(raw); excerpt != "" {
			highlights = append(highlights, excerpt)
		}
	}

	return research.Evidence{
		Agent:      research.AgentTechnical,
		Score:      clampScore(snap.Change24h / 10),
		Confidence: technicalConfidence,
		Highlights: highlights,
		Sources:    []string{"Price Action", "Volume Analysis"},
	}
}

// narrativeExcerpt reduces a completion to a single short highlight line
func narrativeExcerpt(raw string) string {
	line := strings.TrimSpace(raw)
	if idx := strings.IndexByte(line, '\n'); idx != -1 {
		line = strings.TrimSpace(line[:idx])
	}
	// Structured output belongs to the parser, not the highlight list
	if line == "" || strings.HasPrefix(line, "{") || strings.HasPrefix(line, "```") {
		return ""
	}
	if len(line) > maxNarrativeHighlight {
		line = line[:maxNarrativeHighlight]
	}
	return line
}
