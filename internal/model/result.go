package model

import "time"

// CapBand is a market-capitalization peer band.
type CapBand string

const (
	CapBandMicro CapBand = "micro" // < 50M
	CapBandSmall CapBand = "small" // 50M - 250M
	CapBandMid   CapBand = "mid"   // 250M - 1000M
	CapBandLarge CapBand = "large" // > 1000M
)

// InsightType classifies a qualitative note.
type InsightType string

const (
	InsightStrength    InsightType = "strength"
	InsightWeakness    InsightType = "weakness"
	InsightOpportunity InsightType = "opportunity"
	InsightRisk        InsightType = "risk"
)

// ImpactLevel grades how much an insight matters.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// Insight is one qualitative note derived from a scoring breakdown.
type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Impact      ImpactLevel `json:"impact"`
	Metrics     []MetricKey `json:"metrics,omitempty"`
}

// PeerComparison situates one resolved value within its peer group.
type PeerComparison struct {
	PeerMedian float64 `json:"peer_median"`
	Percentile float64 `json:"percentile"`
	GroupSize  int     `json:"group_size"`
}

// MetricBreakdown records everything the engine knew about one metric
// when scoring one company.
type MetricBreakdown struct {
	RawValue         float64        `json:"raw_value"`
	NormalizedValue  float64        `json:"normalized_value"`
	Weight           int            `json:"weight"`
	Contribution     float64        `json:"contribution"`
	PercentileRank   float64        `json:"percentile_rank"`
	Peer             PeerComparison `json:"peer"`
	Imputed          bool           `json:"imputed"`
	ImputationMethod string         `json:"imputation_method,omitempty"`
}

// PeerRank holds ordinal positions assigned by the ranking pass. Fields
// are zero until the ranker runs.
type PeerRank struct {
	WithinType    int     `json:"within_type"`
	TypeGroupSize int     `json:"type_group_size"`
	WithinCapBand int     `json:"within_cap_band"`
	CapBandSize   int     `json:"cap_band_size"`
	CapBand       CapBand `json:"cap_band"`
}

// ScoringResult is the engine output for one company.
type ScoringResult struct {
	CompanyID        string                        `json:"company_id"`
	CompanyName      string                        `json:"company_name"`
	Type             CompanyType                   `json:"type"`
	FinalScore       float64                       `json:"final_score"`
	FCFScore         float64                       `json:"fcf_score"`
	Confidence       float64                       `json:"confidence"`
	DataCompleteness float64                       `json:"data_completeness"`
	MarketCap        float64                       `json:"market_cap"`
	Breakdown        map[MetricKey]MetricBreakdown `json:"breakdown"`
	Insights         []Insight                     `json:"insights"`
	PeerRank         PeerRank                      `json:"peer_rank"`
	Error            string                        `json:"error,omitempty"`
}

// ScoringRun is one persisted invocation of the engine.
type ScoringRun struct {
	ID           string          `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	CompanyCount int             `json:"company_count"`
	Results      []ScoringResult `json:"results"`
}
