package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodeline/orescore/internal/model"
)

func TestDefaultWeightsSumToHundred(t *testing.T) {
	wf := DefaultWeights()

	for _, ct := range model.CompanyTypes {
		wc, ok := wf.Weights[ct]
		require.True(t, ok, "missing weights for %s", ct)

		total := 0
		for _, w := range wc {
			total += w
		}
		assert.Equal(t, 100, total, "weights for %s", ct)
	}

	assert.True(t, wf.NormalizeByShares[model.TypeExplorer])
	assert.True(t, wf.NormalizeByShares[model.TypeDeveloper])
	assert.False(t, wf.NormalizeByShares[model.TypeProducer])
}

func TestLoadWeightsPartialFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	content := `
weights:
  producer:
    financials.free_cash_flow: 70
    costs.aisc_last_year: 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	wf, err := LoadWeights(path)
	require.NoError(t, err)

	// The file's producer weights replace the defaults.
	assert.Equal(t, 70, wf.Weights[model.TypeProducer][model.MetricFreeCashFlow])
	assert.Equal(t, 30, wf.Weights[model.TypeProducer][model.MetricAISCLastYear])
	assert.Len(t, wf.Weights[model.TypeProducer], 2)

	// Types the file omits keep the built-in configuration.
	def := DefaultWeights()
	assert.Equal(t, def.Weights[model.TypeExplorer], wf.Weights[model.TypeExplorer])
	assert.Equal(t, def.NormalizeByShares, wf.NormalizeByShares)
}

func TestLoadWeightsMissingFile(t *testing.T) {
	_, err := LoadWeights(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read weights file")
}

func TestLoadWeightsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weights: [not a map"), 0o644))

	_, err := LoadWeights(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse weights file")
}
