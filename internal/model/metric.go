package model

// MetricKey identifies one scoreable metric by its canonical dotted path.
type MetricKey string

const (
	MetricCash               MetricKey = "financials.cash"
	MetricDebt               MetricKey = "financials.debt"
	MetricFreeCashFlow       MetricKey = "financials.free_cash_flow"
	MetricNetFinancialAssets MetricKey = "financials.net_financial_assets"
	MetricEnterpriseValue    MetricKey = "financials.enterprise_value"
	MetricMarketCap          MetricKey = "financials.market_cap"
	MetricRevenue            MetricKey = "financials.revenue"

	MetricFullyDilutedShares MetricKey = "capital_structure.fully_diluted_shares"

	MetricReservesTotal     MetricKey = "mineral_estimates.reserves_total_aueq_moz"
	MetricReservesPrecious  MetricKey = "mineral_estimates.reserves_precious_aueq_moz"
	MetricResourcesTotal    MetricKey = "mineral_estimates.resources_total_aueq_moz"
	MetricResourcesPrecious MetricKey = "mineral_estimates.resources_precious_aueq_moz"
	MetricMineableTotal     MetricKey = "mineral_estimates.mineable_total_aueq_moz"

	MetricCurrentProduction MetricKey = "production.current_production_total_aueq_koz"
	MetricFutureProduction  MetricKey = "production.future_production_total_aueq_koz"
	MetricReserveLife       MetricKey = "production.reserve_life_years"

	MetricAISCLastYear      MetricKey = "costs.aisc_last_year"
	MetricAISCFuture        MetricKey = "costs.aisc_future"
	MetricConstructionCosts MetricKey = "costs.construction_costs"

	MetricEVPerResourceOz       MetricKey = "valuation.ev_per_resource_oz_all"
	MetricEVPerReserveOz        MetricKey = "valuation.ev_per_reserve_oz_all"
	MetricMktCapPerProductionOz MetricKey = "valuation.mkt_cap_per_production_oz"
)

// AccessTier gates metric visibility by subscription level. The engine
// only ever sees the already-filtered accessible set; tiers exist so
// callers can build that set.
type AccessTier string

const (
	TierFree    AccessTier = "free"
	TierPro     AccessTier = "pro"
	TierPremium AccessTier = "premium"
)

// MetricDefinition describes one scoreable metric.
type MetricDefinition struct {
	Key            MetricKey  `json:"key"`
	Label          string     `json:"label"`
	HigherIsBetter bool       `json:"higher_is_better"`
	Tier           AccessTier `json:"tier"`
}

// MetricSet is the set of metric definitions a caller may score with.
// Metrics absent from the set are skipped entirely: not scored, not
// imputed, not counted against completeness.
type MetricSet map[MetricKey]MetricDefinition

// WeightConfig maps metric keys to integer weights for one company
// type. Weights are expected, not enforced, to sum to 100.
type WeightConfig map[MetricKey]int

// WeightConfigs maps each classification to its weight configuration.
type WeightConfigs map[CompanyType]WeightConfig

// ShareNormalization controls per-share normalization of absolute
// financial metrics, per company type.
type ShareNormalization map[CompanyType]bool

// AllMetrics is the canonical metric registry.
var AllMetrics = []MetricDefinition{
	{Key: MetricCash, Label: "Cash", HigherIsBetter: true, Tier: TierFree},
	{Key: MetricDebt, Label: "Debt", HigherIsBetter: false, Tier: TierFree},
	{Key: MetricFreeCashFlow, Label: "Free Cash Flow", HigherIsBetter: true, Tier: TierFree},
	{Key: MetricNetFinancialAssets, Label: "Net Financial Assets", HigherIsBetter: true, Tier: TierPro},
	{Key: MetricEnterpriseValue, Label: "Enterprise Value", HigherIsBetter: false, Tier: TierPro},
	{Key: MetricRevenue, Label: "Revenue", HigherIsBetter: true, Tier: TierFree},
	{Key: MetricReservesTotal, Label: "Total Reserves (AuEq Moz)", HigherIsBetter: true, Tier: TierPro},
	{Key: MetricReservesPrecious, Label: "Precious Reserves (AuEq Moz)", HigherIsBetter: true, Tier: TierPro},
	{Key: MetricResourcesTotal, Label: "Total Resources (AuEq Moz)", HigherIsBetter: true, Tier: TierPro},
	{Key: MetricResourcesPrecious, Label: "Precious Resources (AuEq Moz)", HigherIsBetter: true, Tier: TierPro},
	{Key: MetricMineableTotal, Label: "Mineable Total (AuEq Moz)", HigherIsBetter: true, Tier: TierPremium},
	{Key: MetricCurrentProduction, Label: "Current Production (AuEq koz)", HigherIsBetter: true, Tier: TierFree},
	{Key: MetricFutureProduction, Label: "Future Production (AuEq koz)", HigherIsBetter: true, Tier: TierPremium},
	{Key: MetricReserveLife, Label: "Reserve Life (years)", HigherIsBetter: true, Tier: TierPro},
	{Key: MetricAISCLastYear, Label: "AISC (last year)", HigherIsBetter: false, Tier: TierFree},
	{Key: MetricAISCFuture, Label: "AISC (future)", HigherIsBetter: false, Tier: TierPremium},
	{Key: MetricConstructionCosts, Label: "Construction Costs", HigherIsBetter: false, Tier: TierPremium},
	{Key: MetricEVPerResourceOz, Label: "EV / Resource oz", HigherIsBetter: false, Tier: TierPro},
	{Key: MetricEVPerReserveOz, Label: "EV / Reserve oz", HigherIsBetter: false, Tier: TierPro},
	{Key: MetricMktCapPerProductionOz, Label: "Mkt Cap / Production oz", HigherIsBetter: false, Tier: TierPro},
}

// MetricsForTiers returns the metric set available at the given tiers.
func MetricsForTiers(tiers ...AccessTier) MetricSet {
	allowed := make(map[AccessTier]bool, len(tiers))
	for _, t := range tiers {
		allowed[t] = true
	}
	set := make(MetricSet)
	for _, def := range AllMetrics {
		if allowed[def.Tier] {
			set[def.Key] = def
		}
	}
	return set
}

// AllMetricSet returns every registered metric, keyed.
func AllMetricSet() MetricSet {
	set := make(MetricSet, len(AllMetrics))
	for _, def := range AllMetrics {
		set[def.Key] = def
	}
	return set
}
