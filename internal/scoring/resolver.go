package scoring

import (
	"github.com/lodeline/orescore/internal/model"
)

// accessors maps every metric key to a typed field accessor, resolved
// once at package init instead of re-parsing dotted paths per lookup.
var accessors = map[model.MetricKey]func(*model.Company) model.Numeric{
	model.MetricCash:               func(c *model.Company) model.Numeric { return c.Financials.Cash },
	model.MetricDebt:               func(c *model.Company) model.Numeric { return c.Financials.Debt },
	model.MetricFreeCashFlow:       func(c *model.Company) model.Numeric { return c.Financials.FreeCashFlow },
	model.MetricNetFinancialAssets: func(c *model.Company) model.Numeric { return c.Financials.NetFinancialAssets },
	model.MetricEnterpriseValue:    func(c *model.Company) model.Numeric { return c.Financials.EnterpriseValue },
	model.MetricMarketCap:          func(c *model.Company) model.Numeric { return c.Financials.MarketCap },
	model.MetricRevenue:            func(c *model.Company) model.Numeric { return c.Financials.Revenue },

	model.MetricFullyDilutedShares: func(c *model.Company) model.Numeric { return c.CapitalStructure.FullyDilutedShares },

	model.MetricReservesTotal:     func(c *model.Company) model.Numeric { return c.MineralEstimates.ReservesTotalAuEqMoz },
	model.MetricReservesPrecious:  func(c *model.Company) model.Numeric { return c.MineralEstimates.ReservesPreciousAuEqMoz },
	model.MetricResourcesTotal:    func(c *model.Company) model.Numeric { return c.MineralEstimates.ResourcesTotalAuEqMoz },
	model.MetricResourcesPrecious: func(c *model.Company) model.Numeric { return c.MineralEstimates.ResourcesPreciousAuEqMoz },
	model.MetricMineableTotal:     func(c *model.Company) model.Numeric { return c.MineralEstimates.MineableTotalAuEqMoz },

	model.MetricCurrentProduction: func(c *model.Company) model.Numeric { return c.Production.CurrentTotalAuEqKoz },
	model.MetricFutureProduction:  func(c *model.Company) model.Numeric { return c.Production.FutureTotalAuEqKoz },
	model.MetricReserveLife:       func(c *model.Company) model.Numeric { return c.Production.ReserveLifeYears },

	model.MetricAISCLastYear:      func(c *model.Company) model.Numeric { return c.Costs.AISCLastYear },
	model.MetricAISCFuture:        func(c *model.Company) model.Numeric { return c.Costs.AISCFuture },
	model.MetricConstructionCosts: func(c *model.Company) model.Numeric { return c.Costs.ConstructionCosts },

	model.MetricEVPerResourceOz:       func(c *model.Company) model.Numeric { return c.Valuation.EVPerResourceOzAll },
	model.MetricEVPerReserveOz:        func(c *model.Company) model.Numeric { return c.Valuation.EVPerReserveOzAll },
	model.MetricMktCapPerProductionOz: func(c *model.Company) model.Numeric { return c.Valuation.MktCapPerProductionOz },
}

// aliases is the static fallback table for fragile metrics. When the
// primary field is absent, alternates are tried in order; the first
// finite value wins. Kept in one place rather than scattered through
// scoring logic.
var aliases = map[model.MetricKey][]model.MetricKey{
	model.MetricReservesPrecious: {
		model.MetricReservesTotal,
		model.MetricMineableTotal,
		model.MetricResourcesPrecious,
	},
	model.MetricReservesTotal: {
		model.MetricMineableTotal,
		model.MetricResourcesTotal,
	},
	model.MetricResourcesPrecious: {
		model.MetricResourcesTotal,
	},
	model.MetricAISCLastYear: {
		model.MetricAISCFuture,
	},
	model.MetricCurrentProduction: {
		model.MetricFutureProduction,
	},
	model.MetricEVPerReserveOz: {
		model.MetricEVPerResourceOz,
	},
}

// shareNormalized is the allow-list of absolute financial figures that
// per-share normalization applies to.
var shareNormalized = map[model.MetricKey]bool{
	model.MetricFreeCashFlow:       true,
	model.MetricCash:               true,
	model.MetricDebt:               true,
	model.MetricEnterpriseValue:    true,
	model.MetricNetFinancialAssets: true,
}

// Resolve extracts one metric's value from a company, applying alias
// fallback and, when requested for an allow-listed metric, per-share
// normalization by the fully diluted share count. The second return is
// false when no finite value could be resolved.
func Resolve(c *model.Company, key model.MetricKey, perShare bool) (float64, bool) {
	v, ok := resolveRaw(c, key)
	if !ok {
		return 0, false
	}

	if perShare && shareNormalized[key] {
		shares, sok := c.CapitalStructure.FullyDilutedShares.Float()
		if sok && shares > 0 {
			return v / shares, true
		}
	}
	return v, true
}

// hasNonFiniteValue reports whether the primary field holds a value
// that is present but NaN or infinite. Such values are treated as
// missing by Resolve; this exists so callers can surface a diagnostic.
func hasNonFiniteValue(c *model.Company, key model.MetricKey) bool {
	get, known := accessors[key]
	if !known {
		return false
	}
	n := get(c)
	_, finite := n.Float()
	return n.Valid && !finite
}

func resolveRaw(c *model.Company, key model.MetricKey) (float64, bool) {
	get, known := accessors[key]
	if !known {
		return 0, false
	}
	if v, ok := get(c).Float(); ok {
		return v, true
	}
	for _, alt := range aliases[key] {
		if get, known = accessors[alt]; !known {
			continue
		}
		if v, ok := get(c).Float(); ok {
			return v, true
		}
	}
	return 0, false
}
