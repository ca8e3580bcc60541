package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lodeline/orescore/internal/model"
)

func TestImputeAnchorsPessimistically(t *testing.T) {
	stats := statsFor(0, 10, 20, 30, 40, 50, 60, 70, 80)

	t.Run("higher-is-better takes the 20th percentile", func(t *testing.T) {
		def := model.MetricDefinition{Key: model.MetricCash, HigherIsBetter: true}
		imp := impute(def, stats, false)
		assert.InDelta(t, stats.PercentilePoint(20), imp.value, 1e-9)
		assert.Equal(t, ImputeGlobalPercentile, imp.method)
	})

	t.Run("lower-is-better takes the 80th percentile", func(t *testing.T) {
		def := model.MetricDefinition{Key: model.MetricAISCLastYear, HigherIsBetter: false}
		imp := impute(def, stats, false)
		assert.InDelta(t, stats.PercentilePoint(80), imp.value, 1e-9)
	})

	t.Run("peer statistics labeled as such", func(t *testing.T) {
		def := model.MetricDefinition{Key: model.MetricCash, HigherIsBetter: true}
		imp := impute(def, stats, true)
		assert.Equal(t, ImputePeerPercentile, imp.method)
	})
}

func TestImputeCategoryDefaults(t *testing.T) {
	tests := []struct {
		name string
		key  model.MetricKey
		want float64
	}{
		{"cash defaults to zero", model.MetricCash, 0},
		{"debt defaults to zero", model.MetricDebt, 0},
		{"shares default to 100M", model.MetricFullyDilutedShares, 100_000_000},
		{"per-ounce ratios default to one", model.MetricEVPerResourceOz, 1.0},
		{"reserves default to a token deposit", model.MetricReservesTotal, 0.1},
		{"production defaults to a token output", model.MetricCurrentProduction, 0.1},
		{"unmatched keys default to zero", model.MetricRevenue, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := model.MetricDefinition{Key: tt.key, HigherIsBetter: true}
			imp := impute(def, nil, false)
			assert.Equal(t, tt.want, imp.value)
			assert.Equal(t, ImputeCategoryDefault, imp.method)
		})
	}
}
