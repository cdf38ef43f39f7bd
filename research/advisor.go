package research

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"juno-research/helpers"
	"juno-research/marketdata"
)

// Defaults applied when a query omits asset or timeframe
const (
	DefaultAsset     = "BTC"
	DefaultTimeframe = "1d"
)

// Bias classification thresholds on the mean evidence score
const (
	bullishThreshold = 0.2
	bearishThreshold = -0.2
)

// ErrAnalysisFailed is the only failure the advisor surfaces to its caller
var ErrAnalysisFailed = errors.New("research analysis failed")

// Agent produces a bounded, confidence-scored opinion about an asset.
// Implementations must not fail outward: internal errors collapse into a
// low-confidence neutral evidence instead of an error return.
type Agent interface {
	Name() string
	Analyze(ctx context.Context, asset string, snap marketdata.MarketSnapshot) Evidence
}

// MarketData fetches the current price snapshot for a symbol
type MarketData interface {
	GetPrice(ctx context.Context, symbol string) marketdata.MarketSnapshot
}

// EventPublisher fans completed-research events out to listeners
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload any) error
}

// Advisor coordinates the evidence agents and merges their output into a
// structured research result
type Advisor struct {
	market MarketData
	agents []Agent
	events EventPublisher
}

// NewAdvisor creates a new research advisor
func NewAdvisor(market MarketData, agents []Agent, events EventPublisher) *Advisor {
	return &Advisor{
		market: market,
		agents: agents,
		events: events,
	}
}

// Research runs all agents against the queried asset and assembles the
// aggregate result. Individual agent and market-data failures are absorbed;
// only an unexpected internal error surfaces, as ErrAnalysisFailed.
func (a *Advisor) Research(ctx context.Context, q Query) (result *ResearchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Research query error: %v", r)
			result = nil
			err = ErrAnalysisFailed
		}
	}()

	asset := strings.ToUpper(strings.TrimSpace(q.Asset))
	if asset == "" {
		asset = DefaultAsset
	}
	timeframe := q.Timeframe
	if timeframe == "" {
		timeframe = DefaultTimeframe
	}

	snap := a.market.GetPrice(ctx, asset)

	evidence := a.gather(ctx, asset, snap)

	var totalScore float64
	if len(evidence) > 0 {
		var sum float64
		for _, e := range evidence {
			sum += e.Score
		}
		totalScore = sum / float64(len(evidence))
	}

	bias := classifyBias(totalScore)
	conviction := int(math.Round(math.Abs(totalScore) * 50))

	view := MarketView{
		Asset:      asset,
		Timeframe:  timeframe,
		Bias:       bias,
		Conviction: conviction,
		KeyLevels: map[string][]float64{
			"support":    {},
			"resistance": {},
		},
		Catalysts: []string{"Market sentiment", "Technical levels"},
		Risks:     []string{"High volatility", "Regulatory uncertainty"},
	}

	recommendations := []Recommendation{
		{
			Type:           "idea",
			EntryZone:      fmt.Sprintf("Around %s", helpers.FormatUSD(snap.Price)),
			Invalidation:   "Below recent support",
			Targets:        []string{"Next resistance level"},
			RiskReward:     2.0,
			ProbabilityWin: 0.6,
			TimeHorizon:    timeframe,
			SizingGuidance: "1-2% of portfolio",
			FitForUser:     fitForUser(q.UserProfile),
		},
	}

	result = &ResearchResult{
		ID: uuid.NewString(),
		Summary: fmt.Sprintf("Analysis for %s: %s bias with %d%% conviction based on multi-agent research.",
			asset, bias, conviction),
		MarketView:      view,
		Recommendations: recommendations,
		AgentEvidence:   evidence,
		Disclosures: []string{
			"This is research, not financial advice.",
			"Crypto markets are highly volatile and risky.",
			"Past performance does not guarantee future results.",
		},
		CreatedAt: time.Now().UTC(),
	}

	a.publish(ctx, result)

	return result, nil
}

// gather runs all agents concurrently against the same snapshot. Agents must
// not fail outward, but a panicking agent is dropped from the evidence set
// rather than failing the whole request.
func (a *Advisor) gather(ctx context.Context, asset string, snap marketdata.MarketSnapshot) []Evidence {
	collected := make([]*Evidence, len(a.agents))

	var wg sync.WaitGroup
	for i, agent := range a.agents {
		wg.Add(1)
		go func(i int, agent Agent) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Agent %s panicked, dropping its evidence: %v", agent.Name(), r)
				}
			}()
			ev := agent.Analyze(ctx, asset, snap)
			collected[i] = &ev
		}(i, agent)
	}
	wg.Wait()

	evidence := make([]Evidence, 0, len(a.agents))
	for _, ev := range collected {
		if ev != nil {
			evidence = append(evidence, *ev)
		}
	}
	return evidence
}

func (a *Advisor) publish(ctx context.Context, result *ResearchResult) {
	if a.events == nil {
		return
	}
	payload := map[string]any{
		"id":         result.ID,
		"asset":      result.MarketView.Asset,
		"bias":       result.MarketView.Bias,
		"conviction": result.MarketView.Conviction,
	}
	if err := a.events.Publish(ctx, "research.completed", payload); err != nil {
		log.Printf("Failed to publish research event: %v", err)
	}
}

func classifyBias(totalScore float64) string {
	switch {
	case totalScore > bullishThreshold:
		return BiasBullish
	case totalScore < bearishThreshold:
		return BiasBearish
	default:
		return BiasNeutral
	}
}

func fitForUser(profile *UserProfile) string {
	objective := "growth"
	if profile != nil && profile.Objective != "" {
		objective = profile.Objective
	}
	return fmt.Sprintf("Aligned with %s objective", objective)
}
