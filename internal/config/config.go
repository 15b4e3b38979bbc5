// Package config loads guru settings from defaults, an optional config
// file and GURU_ environment variables, in rising precedence.
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/aspera-non-spernit/guru/internal/errors"
)

// Config holds all settings of the guru CLI.
type Config struct {
	// Data is the match file (.json, .yaml or .yml).
	Data string `mapstructure:"data"`
	// Database is an optional postgres:// or sqlite:// DSN; when set,
	// matches are read from it instead of Data.
	Database string `mapstructure:"database"`

	// Error is the mean squared error training halts at.
	Error       float64 `mapstructure:"error" validate:"gt=0"`
	Train       bool    `mapstructure:"train"`
	Split       float64 `mapstructure:"split" validate:"gt=0,lte=1"`
	Momentum    float64 `mapstructure:"momentum" validate:"gte=0,lte=1"`
	Rate        float64 `mapstructure:"rate" validate:"gte=0,lte=1"`
	LogInterval int     `mapstructure:"log_interval" validate:"gte=0"`
	MaxEpochs   int     `mapstructure:"max_epochs" validate:"gte=0"`
	Hidden      []int   `mapstructure:"hidden" validate:"min=1,dive,gt=0"`
	Seed        uint64  `mapstructure:"seed"`

	AwayFactor float64 `mapstructure:"away_factor" validate:"gt=0"`
	SortClubs  bool    `mapstructure:"sort_clubs"`
	Generator  string  `mapstructure:"generator" validate:"oneof=default scan"`
	Folds      int     `mapstructure:"folds" validate:"gte=2"`

	Model  ModelConfig `mapstructure:"model"`
	Listen string      `mapstructure:"listen" validate:"required"`
	Log    LogConfig   `mapstructure:"log"`
}

// ModelConfig controls saving and loading the trained network.
type ModelConfig struct {
	Save bool   `mapstructure:"save"`
	Load bool   `mapstructure:"load"`
	Path string `mapstructure:"path" validate:"required"`
}

// LogConfig selects the log encoding and level.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// SetDefaults configures default values for every option.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data", "data.json")
	v.SetDefault("database", "")

	// Training defaults
	v.SetDefault("error", 0.01)
	v.SetDefault("train", true)
	v.SetDefault("split", 0.9)
	v.SetDefault("momentum", 0.3)
	v.SetDefault("rate", 0.2)
	v.SetDefault("log_interval", 1000)
	v.SetDefault("max_epochs", 100000)
	v.SetDefault("hidden", []int{12, 8, 5})
	v.SetDefault("seed", 1)

	// Feature defaults
	v.SetDefault("away_factor", 1.0)
	v.SetDefault("sort_clubs", true) // reproducible club indexes across runs
	v.SetDefault("generator", "default")
	v.SetDefault("folds", 5)

	v.SetDefault("model.save", false)
	v.SetDefault("model.load", false)
	v.SetDefault("model.path", "network.json")

	v.SetDefault("listen", ":8080")
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}

// New returns a viper instance with defaults and environment binding. A
// non-empty configFile is read on top of the defaults.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("GURU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}
	return v, nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "invalid configuration"),
			"momentum and rate lie in [0, 1], split in (0, 1], folds >= 2")
	}
	return &cfg, nil
}
