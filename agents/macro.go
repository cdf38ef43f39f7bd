package agents

import (
	"context"

	"juno-research/marketdata"
	"juno-research/research"
)

// MacroAgent returns a fixed slightly-positive macro outlook. A real macro
// model (DXY, rates, risk-on/off correlations) is intentionally out of scope.
type MacroAgent struct{}

// NewMacroAgent creates a new macro agent
func NewMacroAgent() *MacroAgent {
	return &MacroAgent{}
}

// Name returns the agent name recorded in evidence
func (a *MacroAgent) Name() string {
	return research.AgentMacro
}

// Analyze returns the static macro evidence
func (a *MacroAgent) Analyze(ctx context.Context, asset string, snap marketdata.MarketSnapshot) research.Evidence {
	return research.Evidence{
		Agent:      research.AgentMacro,
		Score:      0.3,
		Confidence: 50,
		Highlights: []string{"Global liquidity conditions", "Risk-on sentiment"},
		Sources:    []string{"Economic indicators", "Central bank policy"},
	}
}
