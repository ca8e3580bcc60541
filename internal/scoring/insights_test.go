package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodeline/orescore/internal/model"
)

func insightTitles(insights []model.Insight) []string {
	titles := make([]string, 0, len(insights))
	for _, ins := range insights {
		titles = append(titles, ins.Title)
	}
	return titles
}

func baseResult(ct model.CompanyType) *model.ScoringResult {
	return &model.ScoringResult{
		CompanyID:        "x",
		Type:             ct,
		DataCompleteness: 1.0,
		Breakdown:        map[model.MetricKey]model.MetricBreakdown{},
	}
}

func TestGenerateInsightsFCF(t *testing.T) {
	t.Run("strength above threshold", func(t *testing.T) {
		res := baseResult(model.TypeProducer)
		res.Breakdown[model.MetricFreeCashFlow] = model.MetricBreakdown{NormalizedValue: 92}

		insights := generateInsights(res)
		assert.Contains(t, insightTitles(insights), "Strong Cash Generation")
	})

	t.Run("weakness below threshold", func(t *testing.T) {
		res := baseResult(model.TypeProducer)
		res.Breakdown[model.MetricFreeCashFlow] = model.MetricBreakdown{NormalizedValue: 8}

		insights := generateInsights(res)
		assert.Contains(t, insightTitles(insights), "Weak Cash Generation")
	})

	t.Run("imputed values earn nothing", func(t *testing.T) {
		res := baseResult(model.TypeProducer)
		res.Breakdown[model.MetricFreeCashFlow] = model.MetricBreakdown{NormalizedValue: 92, Imputed: true}

		insights := generateInsights(res)
		assert.NotContains(t, insightTitles(insights), "Strong Cash Generation")
	})

	t.Run("mid-range earns nothing", func(t *testing.T) {
		res := baseResult(model.TypeProducer)
		res.Breakdown[model.MetricFreeCashFlow] = model.MetricBreakdown{NormalizedValue: 50}

		insights := generateInsights(res)
		titles := insightTitles(insights)
		assert.NotContains(t, titles, "Strong Cash Generation")
		assert.NotContains(t, titles, "Weak Cash Generation")
	})
}

func TestGenerateInsightsLowCostProducer(t *testing.T) {
	res := baseResult(model.TypeProducer)
	res.Breakdown[model.MetricAISCLastYear] = model.MetricBreakdown{RawValue: 850, NormalizedValue: 88}

	insights := generateInsights(res)
	assert.Contains(t, insightTitles(insights), "Low-Cost Producer")

	t.Run("explorers never earn it", func(t *testing.T) {
		res := baseResult(model.TypeExplorer)
		res.Breakdown[model.MetricAISCLastYear] = model.MetricBreakdown{RawValue: 850, NormalizedValue: 88}

		insights := generateInsights(res)
		assert.NotContains(t, insightTitles(insights), "Low-Cost Producer")
	})
}

func TestGenerateInsightsCashRunway(t *testing.T) {
	t.Run("short runway flagged", func(t *testing.T) {
		res := baseResult(model.TypeExplorer)
		// 10M cash burning 20M a year: six months of runway.
		res.Breakdown[model.MetricCash] = model.MetricBreakdown{RawValue: 10_000_000}
		res.Breakdown[model.MetricFreeCashFlow] = model.MetricBreakdown{RawValue: -20_000_000, NormalizedValue: 50}

		insights := generateInsights(res)
		require.Contains(t, insightTitles(insights), "Short Cash Runway")
		for _, ins := range insights {
			if ins.Title == "Short Cash Runway" {
				assert.Equal(t, model.ImpactHigh, ins.Impact)
			}
		}
	})

	t.Run("long runway not flagged", func(t *testing.T) {
		res := baseResult(model.TypeExplorer)
		// 100M cash burning 10M a year: ten years.
		res.Breakdown[model.MetricCash] = model.MetricBreakdown{RawValue: 100_000_000}
		res.Breakdown[model.MetricFreeCashFlow] = model.MetricBreakdown{RawValue: -10_000_000, NormalizedValue: 50}

		insights := generateInsights(res)
		assert.NotContains(t, insightTitles(insights), "Short Cash Runway")
	})

	t.Run("positive cash flow has no runway problem", func(t *testing.T) {
		res := baseResult(model.TypeExplorer)
		res.Breakdown[model.MetricCash] = model.MetricBreakdown{RawValue: 1_000_000}
		res.Breakdown[model.MetricFreeCashFlow] = model.MetricBreakdown{RawValue: 5_000_000, NormalizedValue: 50}

		insights := generateInsights(res)
		assert.NotContains(t, insightTitles(insights), "Short Cash Runway")
	})

	t.Run("imputed inputs disable the estimate", func(t *testing.T) {
		res := baseResult(model.TypeExplorer)
		res.Breakdown[model.MetricCash] = model.MetricBreakdown{RawValue: 10_000_000, Imputed: true}
		res.Breakdown[model.MetricFreeCashFlow] = model.MetricBreakdown{RawValue: -20_000_000, NormalizedValue: 50}

		insights := generateInsights(res)
		assert.NotContains(t, insightTitles(insights), "Short Cash Runway")
	})
}

func TestGenerateInsightsResourceDepth(t *testing.T) {
	res := baseResult(model.TypeDeveloper)
	res.Breakdown[model.MetricReservesTotal] = model.MetricBreakdown{NormalizedValue: 85}
	res.Breakdown[model.MetricResourcesTotal] = model.MetricBreakdown{NormalizedValue: 90}

	insights := generateInsights(res)

	count := 0
	for _, title := range insightTitles(insights) {
		if title == "Resource Depth" {
			count++
		}
	}
	assert.Equal(t, 1, count, "resource depth is reported at most once")
}

func TestGenerateInsightsLimitedData(t *testing.T) {
	res := baseResult(model.TypeRoyalty)
	res.DataCompleteness = 0.4
	res.Breakdown[model.MetricCash] = model.MetricBreakdown{Imputed: true}
	res.Breakdown[model.MetricDebt] = model.MetricBreakdown{Imputed: true}
	res.Breakdown[model.MetricRevenue] = model.MetricBreakdown{NormalizedValue: 50}

	insights := generateInsights(res)

	var found *model.Insight
	for i := range insights {
		if insights[i].Title == "Limited Data Availability" {
			found = &insights[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, model.InsightRisk, found.Type)
	assert.Equal(t, []model.MetricKey{model.MetricCash, model.MetricDebt}, found.Metrics)
}

func TestGenerateInsightsCleanResultHasNone(t *testing.T) {
	res := baseResult(model.TypeOther)
	res.Breakdown[model.MetricCash] = model.MetricBreakdown{NormalizedValue: 50}

	assert.Empty(t, generateInsights(res))
}
