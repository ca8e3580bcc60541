package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/lodeline/orescore/internal/model"
)

// Insight thresholds on normalized breakdown values.
const (
	fcfStrengthThreshold      = 85.0
	fcfWeaknessThreshold      = 15.0
	aiscStrengthThreshold     = 80.0
	resourceDepthThreshold    = 80.0
	completenessRiskThreshold = 0.7
	runwayRiskMonths          = 18.0
)

// generateInsights derives qualitative notes from one result's
// breakdown. Rules are threshold-based; a result may earn none.
func generateInsights(res *model.ScoringResult) []model.Insight {
	var insights []model.Insight

	if fcf, ok := res.Breakdown[model.MetricFreeCashFlow]; ok && !fcf.Imputed {
		switch {
		case fcf.NormalizedValue > fcfStrengthThreshold:
			insights = append(insights, model.Insight{
				Type:        model.InsightStrength,
				Title:       "Strong Cash Generation",
				Description: fmt.Sprintf("Free cash flow ranks in the top tier of its peer group (normalized %.0f/100).", fcf.NormalizedValue),
				Impact:      model.ImpactHigh,
				Metrics:     []model.MetricKey{model.MetricFreeCashFlow},
			})
		case fcf.NormalizedValue < fcfWeaknessThreshold:
			insights = append(insights, model.Insight{
				Type:        model.InsightWeakness,
				Title:       "Weak Cash Generation",
				Description: fmt.Sprintf("Free cash flow ranks near the bottom of its peer group (normalized %.0f/100).", fcf.NormalizedValue),
				Impact:      model.ImpactHigh,
				Metrics:     []model.MetricKey{model.MetricFreeCashFlow},
			})
		}
	}

	if res.Type == model.TypeProducer {
		if aisc, ok := res.Breakdown[model.MetricAISCLastYear]; ok && !aisc.Imputed && aisc.NormalizedValue > aiscStrengthThreshold {
			insights = append(insights, model.Insight{
				Type:        model.InsightStrength,
				Title:       "Low-Cost Producer",
				Description: fmt.Sprintf("All-in sustaining cost of %.0f/oz sits well below the producer peer group.", aisc.RawValue),
				Impact:      model.ImpactMedium,
				Metrics:     []model.MetricKey{model.MetricAISCLastYear},
			})
		}
	}

	if res.Type == model.TypeExplorer {
		if months, ok := cashRunwayMonths(res); ok && months < runwayRiskMonths {
			insights = append(insights, model.Insight{
				Type:        model.InsightRisk,
				Title:       "Short Cash Runway",
				Description: fmt.Sprintf("Estimated cash runway of %.0f months at the current burn rate; financing will likely be required.", months),
				Impact:      model.ImpactHigh,
				Metrics:     []model.MetricKey{model.MetricCash, model.MetricFreeCashFlow},
			})
		}
	}

	for _, key := range []model.MetricKey{model.MetricReservesTotal, model.MetricResourcesTotal} {
		if bd, ok := res.Breakdown[key]; ok && !bd.Imputed && bd.NormalizedValue > resourceDepthThreshold {
			insights = append(insights, model.Insight{
				Type:        model.InsightOpportunity,
				Title:       "Resource Depth",
				Description: "Reserve and resource base ranks among the largest in its peer group, supporting mine-life extension or expansion.",
				Impact:      model.ImpactMedium,
				Metrics:     []model.MetricKey{key},
			})
			break
		}
	}

	if res.DataCompleteness < completenessRiskThreshold {
		imputedKeys := imputedMetrics(res)
		insights = append(insights, model.Insight{
			Type:        model.InsightRisk,
			Title:       "Limited Data Availability",
			Description: fmt.Sprintf("%d of %d scored metrics were imputed; the score carries reduced confidence.", len(imputedKeys), len(res.Breakdown)),
			Impact:      model.ImpactMedium,
			Metrics:     imputedKeys,
		})
	}

	return insights
}

// cashRunwayMonths estimates months of cash left at the current burn
// rate: cash / |negative FCF| * 12. Only meaningful when FCF is
// negative; raw values may be per-share normalized, which cancels in
// the ratio.
func cashRunwayMonths(res *model.ScoringResult) (float64, bool) {
	cash, cok := res.Breakdown[model.MetricCash]
	fcf, fok := res.Breakdown[model.MetricFreeCashFlow]
	if !cok || !fok || cash.Imputed || fcf.Imputed {
		return 0, false
	}
	if fcf.RawValue >= 0 || cash.RawValue < 0 {
		return 0, false
	}
	return cash.RawValue / math.Abs(fcf.RawValue) * 12, true
}

func imputedMetrics(res *model.ScoringResult) []model.MetricKey {
	var keys []model.MetricKey
	for key, bd := range res.Breakdown {
		if bd.Imputed {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
