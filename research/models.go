package research

import "time"

// Bias classification for the aggregate market view
const (
	BiasBullish = "bullish"
	BiasBearish = "bearish"
	BiasNeutral = "neutral"
)

// Agent names used in evidence records
const (
	AgentSentiment = "Sentiment"
	AgentTechnical = "Technical"
	AgentMacro     = "Macro"
	AgentOnChain   = "On-Chain"
)

// Evidence is a single agent's bounded opinion about an asset.
// Score is constrained to [-2, +2], confidence to [0, 100].
type Evidence struct {
	Agent      string   `json:"agent"`
	Score      float64  `json:"score"`
	Confidence int      `json:"confidence"`
	Highlights []string `json:"highlights"`
	Sources    []string `json:"sources"`
}

// MarketView is the aggregate directional view derived from the evidence set
type MarketView struct {
	Asset      string               `json:"asset"`
	Timeframe  string               `json:"timeframe"`
	Bias       string               `json:"bias"`       // bullish|bearish|neutral
	Conviction int                  `json:"conviction"` // 0-100
	KeyLevels  map[string][]float64 `json:"key_levels"`
	Catalysts  []string             `json:"catalysts"`
	Risks      []string             `json:"risks"`
}

// Recommendation is a templated advisory attached to a research result
type Recommendation struct {
	Type           string   `json:"type"` // idea|hedge|rebalance|alert
	EntryZone      string   `json:"entry_zone"`
	Invalidation   string   `json:"invalidation"`
	Targets        []string `json:"targets"`
	RiskReward     float64  `json:"r_r"`
	ProbabilityWin float64  `json:"probability_win"`
	TimeHorizon    string   `json:"time_horizon"`
	SizingGuidance string   `json:"sizing_guidance"`
	FitForUser     string   `json:"fit_for_user"`
}

// ResearchResult is the full structured payload returned for one research
// request. Immutable once returned.
type ResearchResult struct {
	ID              string           `json:"id"`
	Summary         string           `json:"summary"`
	MarketView      MarketView       `json:"market_view"`
	Recommendations []Recommendation `json:"recommendations"`
	AgentEvidence   []Evidence       `json:"agent_evidence"`
	Disclosures     []string         `json:"disclosures"`
	CreatedAt       time.Time        `json:"created_at"`
}

// UserProfile describes the requesting user's objectives. Accepted on input;
// only the objective currently feeds the recommendation fit text.
type UserProfile struct {
	ID             string    `json:"id,omitempty"`
	Objective      string    `json:"objective"`      // income|growth|hedge
	Horizon        string    `json:"horizon"`        // intraday|swing|position|long_term
	RiskTolerance  string    `json:"risk_tolerance"` // low|med|high
	AssetsFollowed []string  `json:"assets_followed"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// Query is one research request
type Query struct {
	Query       string       `json:"query"`
	Asset       string       `json:"asset,omitempty"`
	Timeframe   string       `json:"timeframe,omitempty"`
	UserProfile *UserProfile `json:"user_profile,omitempty"`
}

// ChatRecord is one persisted chat turn. Created once, never mutated.
type ChatRecord struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	UserID    string          `json:"user_id"`
	Message   string          `json:"message"`
	Response  *ResearchResult `json:"response,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
