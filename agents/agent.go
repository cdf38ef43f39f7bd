// Package agents contains the evidence agents behind the research advisor.
//
// Every agent satisfies research.Agent and honors its no-fail contract:
// provider errors and malformed completions are absorbed inside the agent
// and converted into degraded evidence, never returned as errors.
package agents

import (
	"context"
	"encoding/json"
	"strings"

	"juno-research/marketdata"
	"juno-research/research"
)

// Confidence levels for degraded evidence
const (
	errorConfidence    = 30 // internal error, neutral opinion
	fallbackConfidence = 60 // deterministic fallback after a failed parse
)

// Completer issues one prompt to a completion provider. A nil Completer means
// the provider is disabled; agents then skip the call and use their
// deterministic fallback.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SentimentSource returns the current sentiment snapshot for a symbol
type SentimentSource interface {
	GetSentiment(symbol string) marketdata.SentimentSnapshot
}

// errorEvidence is the low-confidence neutral evidence returned when an
// agent hits an internal error
func errorEvidence(agent, diagnostic string) research.Evidence {
	return research.Evidence{
		Agent:      agent,
		Score:      0,
		Confidence: errorConfidence,
		Highlights: []string{diagnostic},
		Sources:    []string{},
	}
}

func clampScore(score float64) float64 {
	if score > 2 {
		return 2
	}
	if score < -2 {
		return -2
	}
	return score
}

// completionEvidence is the structured shape expected inside a completion.
// Score and confidence are pointers so a missing field fails the parse
// instead of silently reading as zero.
type completionEvidence struct {
	Score      *float64 `json:"score"`
	Confidence *int     `json:"confidence"`
	Highlights []string `json:"highlights"`
	Sources    []string `json:"sources"`
}

// parseEvidence attempts a strict structured parse of a completion. It
// returns false when the text carries no JSON object, required fields are
// missing, or values fall outside the evidence bounds.
func parseEvidence(raw string) (completionEvidence, bool) {
	payload, ok := extractJSONObject(raw)
	if !ok {
		return completionEvidence{}, false
	}

	var ce completionEvidence
	if err := json.Unmarshal([]byte(payload), &ce); err != nil {
		return completionEvidence{}, false
	}
	if ce.Score == nil || ce.Confidence == nil {
		return completionEvidence{}, false
	}
	if *ce.Score < -2 || *ce.Score > 2 {
		return completionEvidence{}, false
	}
	if *ce.Confidence < 0 || *ce.Confidence > 100 {
		return completionEvidence{}, false
	}
	return ce, true
}

// extractJSONObject pulls the outermost JSON object out of a completion,
// tolerating markdown fences and surrounding prose
func extractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return raw[start : end+1], true
}
