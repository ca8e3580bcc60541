package scoring

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/lodeline/orescore/internal/config"
	"github.com/lodeline/orescore/internal/model"
)

// Engine runs the full scoring pipeline. It holds only configuration
// and an observer; every invocation builds its own statistics context,
// so an Engine is safe to reuse and the output is deterministic for
// identical inputs.
type Engine struct {
	cfg config.EngineConfig
	obs Observer
}

// NewEngine creates an engine. A nil observer disables diagnostics.
func NewEngine(cfg config.EngineConfig, obs Observer) *Engine {
	if obs == nil {
		obs = NopObserver{}
	}
	return &Engine{cfg: cfg, obs: obs}
}

// ScoreAll scores every company against its peers and returns results
// sorted descending by final score, with peer ranks and insights
// attached. A failure scoring one company yields a zero-score fallback
// result for it and never aborts the batch.
func (e *Engine) ScoreAll(
	companies []model.Company,
	weights model.WeightConfigs,
	norm model.ShareNormalization,
	accessible model.MetricSet,
) []model.ScoringResult {
	if len(companies) == 0 {
		return []model.ScoringResult{}
	}

	metrics := configuredMetrics(weights)
	stats := BuildStats(companies, metrics, norm, e.cfg)

	results := make([]model.ScoringResult, 0, len(companies))
	for i := range companies {
		c := &companies[i]
		res, err := e.scoreCompany(c, weights[c.Type], norm[c.Type], accessible, stats)
		if err != nil {
			e.obs.CompanyFailed(c.ID, err)
			res = fallbackResult(c, err)
		}
		results = append(results, res)
	}

	// Post-hoc category adjustment, then re-clamp.
	for i := range results {
		if results[i].Error != "" {
			continue
		}
		results[i].FinalScore = clamp(results[i].FinalScore+e.cfg.TypeAdjustment(results[i].Type), 0, 100)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	rankPeers(results)

	for i := range results {
		if results[i].Error != "" {
			continue
		}
		results[i].Insights = generateInsights(&results[i])
	}

	return results
}

// scoreCompany produces one ScoringResult: resolve, impute when
// missing, normalize, and accumulate weighted contributions.
func (e *Engine) scoreCompany(
	c *model.Company,
	wc model.WeightConfig,
	perShare bool,
	accessible model.MetricSet,
	stats *StatsContext,
) (model.ScoringResult, error) {
	if !c.Type.Valid() {
		return model.ScoringResult{}, eris.Errorf("scoring: company %s has unknown type %q", c.ID, c.Type)
	}
	if len(wc) == 0 {
		return model.ScoringResult{}, eris.Errorf("scoring: no weight configuration for type %q", c.Type)
	}

	breakdown := make(map[model.MetricKey]model.MetricBreakdown, len(wc))
	var weightedSum, totalWeight float64
	var scored, imputed int
	fcfScore := 0.0

	// Accumulate in a fixed key order so the floating-point sum, and
	// with it the final score, is identical across invocations.
	keys := make([]model.MetricKey, 0, len(wc))
	for key := range wc {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, key := range keys {
		weight := wc[key]
		def, ok := accessible[key]
		if !ok {
			// Entitlement gate: skipped entirely, not scored as zero.
			continue
		}

		value, resolved := Resolve(c, key, perShare)
		best, fromPeer := stats.Best(c.Type, key, e.obs)

		bd := model.MetricBreakdown{Weight: weight}
		if !resolved {
			if hasNonFiniteValue(c, key) {
				e.obs.InvalidValue(c.ID, key)
			}
			imp := impute(def, best, fromPeer)
			value = imp.value
			bd.Imputed = true
			bd.ImputationMethod = imp.method
			e.obs.Imputed(c.ID, key, imp.method, imp.value)
			imputed++
		}
		bd.RawValue = value

		if best != nil {
			norm, rank := normalize(value, def, best, c.Type, e.cfg.SigmoidSteepness)
			bd.NormalizedValue = norm
			bd.PercentileRank = rank
			bd.Peer = model.PeerComparison{
				PeerMedian: best.Median,
				Percentile: rank,
				GroupSize:  best.ValidCount,
			}
		} else {
			// No distribution anywhere: neutral score.
			bd.NormalizedValue = 50
			bd.PercentileRank = 0.5
		}

		bd.Contribution = bd.NormalizedValue * float64(weight) / 100
		weightedSum += bd.Contribution
		totalWeight += float64(weight)
		scored++

		if key == model.MetricFreeCashFlow {
			fcfScore = bd.NormalizedValue
		}
		breakdown[key] = bd
	}

	final := 0.0
	if totalWeight > 0 {
		final = clamp(weightedSum/totalWeight*100, 0, 100)
	}

	completeness := 0.0
	if scored > 0 {
		completeness = float64(scored-imputed) / float64(scored)
	}

	marketCap := 0.0
	if mc, ok := Resolve(c, model.MetricMarketCap, false); ok {
		marketCap = mc
	}

	return model.ScoringResult{
		CompanyID:        c.ID,
		CompanyName:      c.Name,
		Type:             c.Type,
		FinalScore:       final,
		FCFScore:         fcfScore,
		Confidence:       clamp(completeness+e.cfg.ConfidenceBonus, 0, 1),
		DataCompleteness: completeness,
		MarketCap:        marketCap,
		Breakdown:        breakdown,
	}, nil
}

// fallbackResult is the zero-score result emitted when scoring one
// company fails.
func fallbackResult(c *model.Company, err error) model.ScoringResult {
	return model.ScoringResult{
		CompanyID:   c.ID,
		CompanyName: c.Name,
		Type:        c.Type,
		Breakdown:   map[model.MetricKey]model.MetricBreakdown{},
		Error:       err.Error(),
		Insights: []model.Insight{{
			Type:        model.InsightRisk,
			Title:       "Scoring Error",
			Description: "This company could not be scored and received a zero fallback score: " + err.Error(),
			Impact:      model.ImpactHigh,
		}},
	}
}

// configuredMetrics collects the union of metric keys referenced by any
// type's weight configuration, in a deterministic order.
func configuredMetrics(weights model.WeightConfigs) []model.MetricKey {
	seen := make(map[model.MetricKey]bool)
	var keys []model.MetricKey
	for _, wc := range weights {
		for key := range wc {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
