// Package scoring implements peer-relative cash-flow quality scoring
// for mining companies: statistics aggregation, value resolution,
// imputation, percentile normalization, composite scoring, peer
// ranking, and insight generation. The engine is a pure function of
// its inputs; diagnostics flow through the Observer side channel.
package scoring

import (
	"go.uber.org/zap"

	"github.com/lodeline/orescore/internal/model"
)

// Observer receives diagnostic events from the engine. Implementations
// must be cheap; the engine calls them inline.
type Observer interface {
	// PeerGroupFallback fires when a peer group is too small and the
	// engine falls back to global statistics for a metric.
	PeerGroupFallback(metric model.MetricKey, ct model.CompanyType, groupSize int)

	// InvalidValue fires when a resolved value is non-finite and is
	// treated as missing.
	InvalidValue(companyID string, metric model.MetricKey)

	// Imputed fires when a missing metric receives a substitute value.
	Imputed(companyID string, metric model.MetricKey, method string, value float64)

	// CompanyFailed fires when scoring one company fails and a
	// zero-score fallback result is emitted.
	CompanyFailed(companyID string, err error)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) PeerGroupFallback(model.MetricKey, model.CompanyType, int) {}
func (NopObserver) InvalidValue(string, model.MetricKey)                      {}
func (NopObserver) Imputed(string, model.MetricKey, string, float64)          {}
func (NopObserver) CompanyFailed(string, error)                               {}

// ZapObserver logs events through the global zap logger.
type ZapObserver struct{}

func (ZapObserver) PeerGroupFallback(metric model.MetricKey, ct model.CompanyType, groupSize int) {
	zap.L().Debug("scoring: peer group below minimum, using global statistics",
		zap.String("metric", string(metric)),
		zap.String("type", string(ct)),
		zap.Int("group_size", groupSize),
	)
}

func (ZapObserver) InvalidValue(companyID string, metric model.MetricKey) {
	zap.L().Warn("scoring: non-finite value treated as missing",
		zap.String("company", companyID),
		zap.String("metric", string(metric)),
	)
}

func (ZapObserver) Imputed(companyID string, metric model.MetricKey, method string, value float64) {
	zap.L().Debug("scoring: imputed missing metric",
		zap.String("company", companyID),
		zap.String("metric", string(metric)),
		zap.String("method", method),
		zap.Float64("value", value),
	)
}

func (ZapObserver) CompanyFailed(companyID string, err error) {
	zap.L().Warn("scoring: company failed, emitting fallback result",
		zap.String("company", companyID),
		zap.Error(err),
	)
}
