package agents

import (
	"context"

	"juno-research/marketdata"
	"juno-research/research"
)

// OnChainAgent returns a fixed mildly-positive on-chain reading. Real chain
// metrics (whale flows, network activity) are intentionally out of scope.
type OnChainAgent struct{}

// NewOnChainAgent creates a new on-chain agent
func NewOnChainAgent() *OnChainAgent {
	return &OnChainAgent{}
}

// Name returns the agent name recorded in evidence
func (a *OnChainAgent) Name() string {
	return research.AgentOnChain
}

// Analyze returns the static on-chain evidence
func (a *OnChainAgent) Analyze(ctx context.Context, asset string, snap marketdata.MarketSnapshot) research.Evidence {
	return research.Evidence{
		Agent:      research.AgentOnChain,
		Score:      0.1,
		Confidence: 60,
		Highlights: []string{"Network activity stable", "No major whale movements"},
		Sources:    []string{"Blockchain data", "Whale tracking"},
	}
}
