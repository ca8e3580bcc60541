package scoring

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/lodeline/orescore/internal/config"
	"github.com/lodeline/orescore/internal/model"
)

// percentileLadderSteps is the number of anchor points in the
// percentile ladder: 0, 12.5, 25, ..., 100.
const percentileLadderSteps = 9

// MetricStatistics is the distribution of one metric across one group
// of companies. Values is sorted ascending and may have had IQR
// outliers removed.
type MetricStatistics struct {
	Values      []float64                      `json:"-"`
	Mean        float64                        `json:"mean"`
	Median      float64                        `json:"median"`
	StdDev      float64                        `json:"std_dev"`
	Percentiles [percentileLadderSteps]float64 `json:"percentiles"`
	Min         float64                        `json:"min"`
	Max         float64                        `json:"max"`
	ValidCount  int                            `json:"valid_count"`
	TotalCount  int                            `json:"total_count"`
}

// PercentilePoint interpolates the ladder at an arbitrary percentile
// in [0,100].
func (s *MetricStatistics) PercentilePoint(p float64) float64 {
	if p <= 0 {
		return s.Percentiles[0]
	}
	if p >= 100 {
		return s.Percentiles[percentileLadderSteps-1]
	}
	pos := p / 12.5
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return s.Percentiles[lo]
	}
	frac := pos - float64(lo)
	return s.Percentiles[lo] + frac*(s.Percentiles[hi]-s.Percentiles[lo])
}

// StatsContext holds global and per-type statistics for every metric
// that had at least one valid observation. Built once per engine
// invocation and never mutated afterwards.
type StatsContext struct {
	global      map[model.MetricKey]*MetricStatistics
	peer        map[string]*MetricStatistics
	peerSizes   map[string]int
	minPeerSize int
}

func peerKey(ct model.CompanyType, key model.MetricKey) string {
	return fmt.Sprintf("%s_%s", ct, key)
}

// Global returns the dataset-wide statistics for a metric, or nil when
// the metric had no valid observations.
func (sc *StatsContext) Global(key model.MetricKey) *MetricStatistics {
	return sc.global[key]
}

// Peer returns the per-type statistics for a metric, or nil when the
// group was too small or had no valid observations.
func (sc *StatsContext) Peer(ct model.CompanyType, key model.MetricKey) *MetricStatistics {
	return sc.peer[peerKey(ct, key)]
}

// Best returns the preferred statistics for a metric: peer-group when
// the group met the minimum size, global otherwise. fromPeer reports
// which was chosen; nil means no statistics exist at all.
func (sc *StatsContext) Best(ct model.CompanyType, key model.MetricKey, obs Observer) (stats *MetricStatistics, fromPeer bool) {
	if s := sc.Peer(ct, key); s != nil {
		return s, true
	}
	g := sc.Global(key)
	if g != nil {
		obs.PeerGroupFallback(key, ct, sc.peerSizes[peerKey(ct, key)])
	}
	return g, false
}

// BuildStats computes the statistics context for one engine invocation:
// a global distribution per metric plus per-type distributions for
// peer groups meeting the minimum valid-value count.
func BuildStats(
	companies []model.Company,
	metrics []model.MetricKey,
	norm model.ShareNormalization,
	cfg config.EngineConfig,
) *StatsContext {
	sc := &StatsContext{
		global:      make(map[model.MetricKey]*MetricStatistics, len(metrics)),
		peer:        make(map[string]*MetricStatistics),
		peerSizes:   make(map[string]int),
		minPeerSize: cfg.PeerGroupMinSize,
	}

	for _, key := range metrics {
		var all []float64
		byType := make(map[model.CompanyType][]float64)
		total := 0
		totalByType := make(map[model.CompanyType]int)

		for i := range companies {
			c := &companies[i]
			total++
			totalByType[c.Type]++
			v, ok := Resolve(c, key, norm[c.Type])
			if !ok {
				continue
			}
			all = append(all, v)
			byType[c.Type] = append(byType[c.Type], v)
		}

		if len(all) == 0 {
			// Omitted entirely; consumers treat absence as "use defaults".
			continue
		}

		sc.global[key] = computeStatistics(all, total, cfg)

		for ct, vals := range byType {
			sc.peerSizes[peerKey(ct, key)] = len(vals)
			if len(vals) < cfg.PeerGroupMinSize {
				continue
			}
			sc.peer[peerKey(ct, key)] = computeStatistics(vals, totalByType[ct], cfg)
		}
	}

	return sc
}

// computeStatistics sorts values, trims IQR outliers when safe, and
// derives the summary measures. values is consumed.
func computeStatistics(values []float64, totalCount int, cfg config.EngineConfig) *MetricStatistics {
	sort.Float64s(values)
	trimmed := trimOutliers(values, cfg)

	s := &MetricStatistics{
		Values:     trimmed,
		Mean:       stat.Mean(trimmed, nil),
		StdDev:     0,
		Min:        trimmed[0],
		Max:        trimmed[len(trimmed)-1],
		ValidCount: len(trimmed),
		TotalCount: totalCount,
	}
	if len(trimmed) > 1 {
		s.StdDev = stat.StdDev(trimmed, nil)
	}
	for i := 0; i < percentileLadderSteps; i++ {
		s.Percentiles[i] = quantileSorted(trimmed, float64(i)*0.125)
	}
	s.Median = s.Percentiles[4]
	return s
}

// trimOutliers removes points outside [Q1 - f*IQR, Q3 + f*IQR], unless
// the sample is small or trimming would discard too much of it.
// Financial metrics legitimately have fat tails, and small samples make
// outlier rejection unreliable.
func trimOutliers(sorted []float64, cfg config.EngineConfig) []float64 {
	n := len(sorted)
	if n < cfg.SmallSampleExemption {
		return sorted
	}

	q1 := quantileSorted(sorted, 0.25)
	q3 := quantileSorted(sorted, 0.75)
	iqr := q3 - q1
	lo := q1 - cfg.IQRFactor*iqr
	hi := q3 + cfg.IQRFactor*iqr

	// sorted is ascending, so survivors form one contiguous run.
	start := sort.SearchFloat64s(sorted, lo)
	end := n
	for end > start && sorted[end-1] > hi {
		end--
	}

	kept := end - start
	if kept == n {
		return sorted
	}
	if float64(n-kept) > cfg.OutlierRetentionFloor*float64(n) {
		return sorted
	}
	return sorted[start:end]
}

// quantileSorted linearly interpolates the quantile q in [0,1] over a
// sorted slice, using rank position q*(n-1).
func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
