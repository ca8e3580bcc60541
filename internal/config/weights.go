package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/lodeline/orescore/internal/model"
)

// WeightsFile is the on-disk shape of a scoring weight configuration:
// per-type metric weights plus per-type share-normalization flags.
type WeightsFile struct {
	Weights           model.WeightConfigs      `yaml:"weights"`
	NormalizeByShares model.ShareNormalization `yaml:"normalize_by_shares"`
}

// LoadWeights reads a weight configuration from a YAML file. Missing
// types fall back to the defaults; the engine itself never validates
// that weights sum to 100.
func LoadWeights(path string) (*WeightsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read weights file %s", path)
	}

	var wf WeightsFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, eris.Wrapf(err, "config: parse weights file %s", path)
	}

	def := DefaultWeights()
	if wf.Weights == nil {
		wf.Weights = def.Weights
	} else {
		for ct, wc := range def.Weights {
			if _, ok := wf.Weights[ct]; !ok {
				wf.Weights[ct] = wc
			}
		}
	}
	if wf.NormalizeByShares == nil {
		wf.NormalizeByShares = def.NormalizeByShares
	}

	return &wf, nil
}

// DefaultWeights returns the built-in weight configuration. Each type's
// weights sum to 100.
func DefaultWeights() *WeightsFile {
	return &WeightsFile{
		Weights: model.WeightConfigs{
			model.TypeExplorer: {
				model.MetricCash:              25,
				model.MetricFreeCashFlow:      20,
				model.MetricDebt:              10,
				model.MetricResourcesTotal:    20,
				model.MetricResourcesPrecious: 10,
				model.MetricEVPerResourceOz:   15,
			},
			model.TypeDeveloper: {
				model.MetricCash:              15,
				model.MetricFreeCashFlow:      15,
				model.MetricDebt:              10,
				model.MetricReservesTotal:     20,
				model.MetricMineableTotal:     10,
				model.MetricConstructionCosts: 15,
				model.MetricEVPerReserveOz:    15,
			},
			model.TypeProducer: {
				model.MetricFreeCashFlow:      30,
				model.MetricAISCLastYear:      20,
				model.MetricCurrentProduction: 15,
				model.MetricReserveLife:       15,
				model.MetricDebt:              10,
				model.MetricRevenue:           10,
			},
			model.TypeRoyalty: {
				model.MetricFreeCashFlow:     30,
				model.MetricRevenue:          20,
				model.MetricReservesPrecious: 20,
				model.MetricCash:             15,
				model.MetricDebt:             15,
			},
			model.TypeOther: {
				model.MetricFreeCashFlow:       30,
				model.MetricCash:               25,
				model.MetricDebt:               20,
				model.MetricNetFinancialAssets: 25,
			},
		},
		NormalizeByShares: model.ShareNormalization{
			model.TypeExplorer:  true,
			model.TypeDeveloper: true,
			model.TypeProducer:  false,
			model.TypeRoyalty:   false,
			model.TypeOther:     false,
		},
	}
}
