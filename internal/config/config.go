package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lodeline/orescore/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig  `yaml:"store" mapstructure:"store"`
	Server  ServerConfig `yaml:"server" mapstructure:"server"`
	Log     LogConfig    `yaml:"log" mapstructure:"log"`
	Engine  EngineConfig `yaml:"engine" mapstructure:"engine"`
	Weights string       `yaml:"weights_file" mapstructure:"weights_file"`
}

// StoreConfig configures the scoring-run store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the scoring API server.
type ServerConfig struct {
	Port      int     `yaml:"port" mapstructure:"port"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// EngineConfig holds the scoring engine's tunable thresholds. The
// defaults reproduce the reference behavior; the type adjustments are
// empirical constants with no statistical derivation and should be
// revisited rather than generalized from.
type EngineConfig struct {
	PeerGroupMinSize      int     `yaml:"peer_group_min_size" mapstructure:"peer_group_min_size"`
	IQRFactor             float64 `yaml:"iqr_factor" mapstructure:"iqr_factor"`
	OutlierRetentionFloor float64 `yaml:"outlier_retention_floor" mapstructure:"outlier_retention_floor"`
	SmallSampleExemption  int     `yaml:"small_sample_exemption" mapstructure:"small_sample_exemption"`
	SigmoidSteepness      float64 `yaml:"sigmoid_steepness" mapstructure:"sigmoid_steepness"`
	ConfidenceBonus       float64 `yaml:"confidence_bonus" mapstructure:"confidence_bonus"`

	// Additive post-hoc score adjustment per company type, applied
	// after composite scoring and re-clamped to [0,100].
	TypeAdjustments map[string]float64 `yaml:"type_adjustments" mapstructure:"type_adjustments"`
}

// TypeAdjustment returns the additive adjustment for a company type.
func (e EngineConfig) TypeAdjustment(ct model.CompanyType) float64 {
	return e.TypeAdjustments[string(ct)]
}

// DefaultEngineConfig returns the reference engine thresholds.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		PeerGroupMinSize:      5,
		IQRFactor:             1.5,
		OutlierRetentionFloor: 0.2,
		SmallSampleExemption:  10,
		SigmoidSteepness:      8,
		ConfidenceBonus:       0.2,
		TypeAdjustments: map[string]float64{
			string(model.TypeExplorer):  12,
			string(model.TypeDeveloper): 8,
			string(model.TypeProducer):  0,
			string(model.TypeRoyalty):   -3,
			string(model.TypeOther):     5,
		},
	}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ORESCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	def := DefaultEngineConfig()
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "orescore.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.rate_burst", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("engine.peer_group_min_size", def.PeerGroupMinSize)
	v.SetDefault("engine.iqr_factor", def.IQRFactor)
	v.SetDefault("engine.outlier_retention_floor", def.OutlierRetentionFloor)
	v.SetDefault("engine.small_sample_exemption", def.SmallSampleExemption)
	v.SetDefault("engine.sigmoid_steepness", def.SigmoidSteepness)
	v.SetDefault("engine.confidence_bonus", def.ConfidenceBonus)
	v.SetDefault("engine.type_adjustments", def.TypeAdjustments)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
