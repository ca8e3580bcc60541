package scoring

import (
	"math"
	"sort"

	"github.com/lodeline/orescore/internal/model"
)

// fcfPositiveScore is the score for any non-negative free cash flow at
// a pre-revenue company; fcfBurnCeiling caps burn-efficiency scores so
// values above it are reserved for companies actually cash-flow
// positive.
const (
	fcfPositiveScore = 100.0
	fcfBurnCeiling   = 90.0
)

// normalize maps a resolved-or-imputed value to a 0-100 score against
// the given distribution. The returned rank is the raw percentile rank
// in [0,1] before direction adjustment.
func normalize(value float64, def model.MetricDefinition, stats *MetricStatistics, ct model.CompanyType, steepness float64) (score, rank float64) {
	if def.Key == model.MetricFreeCashFlow && (ct == model.TypeExplorer || ct == model.TypeDeveloper) {
		rank = percentileRank(stats.Values, value)
		return normalizePreRevenueFCF(value, stats), rank
	}

	rank = percentileRank(stats.Values, value)
	p := rank
	if !def.HigherIsBetter {
		p = 1 - p
	}
	return clamp(sigmoid01(p, steepness)*100, 0, 100), rank
}

// normalizePreRevenueFCF scores free cash flow for explorers and
// developers. Positive cash flow pre-production is exceptional and is
// not percentile-compared against a peer set dominated by negatives;
// negative values are scored by burn efficiency against the peer
// group's observed negative range.
func normalizePreRevenueFCF(value float64, stats *MetricStatistics) float64 {
	if value >= 0 {
		return fcfPositiveScore
	}

	mostNeg, leastNeg, ok := negativeRange(stats.Values)
	if !ok || mostNeg == leastNeg {
		return fcfBurnCeiling / 2
	}
	frac := (value - mostNeg) / (leastNeg - mostNeg)
	return clamp(frac*fcfBurnCeiling, 0, fcfBurnCeiling)
}

// negativeRange returns the most-negative and least-negative (closest
// to zero) observations among the negative values of a sorted slice.
func negativeRange(sorted []float64) (mostNeg, leastNeg float64, ok bool) {
	if len(sorted) == 0 || sorted[0] >= 0 {
		return 0, 0, false
	}
	mostNeg = sorted[0]
	// Index of the first non-negative value; the element before it is
	// the least-negative observation.
	i := sort.SearchFloat64s(sorted, 0)
	leastNeg = sorted[i-1]
	return mostNeg, leastNeg, true
}

// percentileRank locates v within a sorted distribution, in [0,1].
// Exact matches take the matched index's position; values between
// points interpolate linearly; values at or beyond the extremes clamp
// to 0 or 1. A singleton distribution ranks everything at 0.5.
func percentileRank(sorted []float64, v float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0.5
	}
	if n == 1 {
		return 0.5
	}
	if v <= sorted[0] {
		return 0
	}
	if v >= sorted[n-1] {
		return 1
	}

	i := sort.SearchFloat64s(sorted, v)
	if sorted[i] == v {
		return float64(i) / float64(n-1)
	}
	// v lies strictly between sorted[i-1] and sorted[i].
	lo, hi := sorted[i-1], sorted[i]
	frac := (v - lo) / (hi - lo)
	return (float64(i-1) + frac) / float64(n-1)
}

// sigmoid01 is the logistic transform 1 / (1 + e^(-k*(p-0.5))). It
// compresses near-median percentiles toward 0.5 and stretches the
// extremes, giving better separation at the tails than a raw
// percentile.
func sigmoid01(p, k float64) float64 {
	return 1 / (1 + math.Exp(-k*(p-0.5)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
