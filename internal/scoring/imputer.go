package scoring

import (
	"strings"

	"github.com/lodeline/orescore/internal/model"
)

// Imputation method labels recorded on the breakdown.
const (
	ImputePeerPercentile   = "peer_percentile"
	ImputeGlobalPercentile = "global_percentile"
	ImputeCategoryDefault  = "category_default"
)

// imputation is a conservative substitute for a missing metric value.
type imputation struct {
	value  float64
	method string
}

// impute supplies a substitute value for a missing metric. With
// statistics available it anchors pessimistically: the 20th percentile
// when higher is better, the 80th when lower is better. Without any
// statistics it falls back to fixed category heuristics. It never
// fails: missing data is a data-quality signal, not an error.
func impute(def model.MetricDefinition, stats *MetricStatistics, fromPeer bool) imputation {
	if stats != nil {
		p := 80.0
		if def.HigherIsBetter {
			p = 20.0
		}
		method := ImputeGlobalPercentile
		if fromPeer {
			method = ImputePeerPercentile
		}
		return imputation{value: stats.PercentilePoint(p), method: method}
	}
	return imputation{value: categoryDefault(def.Key), method: ImputeCategoryDefault}
}

// categoryDefault picks a neutral magnitude by metric-key substring.
func categoryDefault(key model.MetricKey) float64 {
	k := string(key)
	switch {
	case strings.Contains(k, "cash") || strings.Contains(k, "debt"):
		return 0
	case strings.Contains(k, "shares"):
		return 100_000_000
	case strings.Contains(k, "price") || strings.Contains(k, "_per_"):
		return 1.0
	case strings.Contains(k, "_moz") || strings.Contains(k, "_koz"):
		return 0.1
	default:
		return 0
	}
}
