package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodeline/orescore/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "orescore.db", cfg.Store.DatabaseURL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Engine.PeerGroupMinSize)
	assert.Equal(t, 1.5, cfg.Engine.IQRFactor)
	assert.Equal(t, 8.0, cfg.Engine.SigmoidSteepness)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ORESCORE_SERVER_PORT", "9999")
	t.Setenv("ORESCORE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestDefaultEngineConfigAdjustments(t *testing.T) {
	cfg := DefaultEngineConfig()

	assert.Equal(t, 12.0, cfg.TypeAdjustment(model.TypeExplorer))
	assert.Equal(t, 8.0, cfg.TypeAdjustment(model.TypeDeveloper))
	assert.Equal(t, 0.0, cfg.TypeAdjustment(model.TypeProducer))
	assert.Equal(t, -3.0, cfg.TypeAdjustment(model.TypeRoyalty))
	assert.Equal(t, 5.0, cfg.TypeAdjustment(model.TypeOther))
	assert.Equal(t, 0.0, cfg.TypeAdjustment(model.CompanyType("junior")), "unknown types adjust by zero")
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))

	err := InitLogger(LogConfig{Level: "shouty", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
