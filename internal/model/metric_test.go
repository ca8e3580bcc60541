package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsForTiers(t *testing.T) {
	free := MetricsForTiers(TierFree)
	for key, def := range free {
		assert.Equal(t, TierFree, def.Tier, string(key))
	}
	assert.Contains(t, free, MetricCash)
	assert.NotContains(t, free, MetricReservesTotal)
	assert.NotContains(t, free, MetricMineableTotal)

	freePro := MetricsForTiers(TierFree, TierPro)
	assert.Contains(t, freePro, MetricReservesTotal)
	assert.NotContains(t, freePro, MetricMineableTotal)
	assert.Greater(t, len(freePro), len(free))
}

func TestAllMetricSet(t *testing.T) {
	set := AllMetricSet()
	assert.Len(t, set, len(AllMetrics))
	for _, def := range AllMetrics {
		got, ok := set[def.Key]
		assert.True(t, ok, string(def.Key))
		assert.Equal(t, def, got)
	}
}
