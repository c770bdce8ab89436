// Package config loads runtime configuration from environment variables.
package config

import (
	"fmt"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds the application configuration. Reconciliation tolerances are
// deliberately configurable rather than hard-coded.
type Config struct {
	// MasterFile is the path of the persisted merchant-rule file.
	// Environment variable: ANALYZER_MASTER_FILE
	MasterFile string `koanf:"ANALYZER_MASTER_FILE"`

	// Epsilon is the reconciliation tolerance in dollars below which
	// totals are considered matched.
	// Environment variable: ANALYZER_EPSILON
	Epsilon string `koanf:"ANALYZER_EPSILON"`

	// AdjustmentCeiling is the largest discrepancy in dollars that a
	// synthetic adjustment may absorb.
	// Environment variable: ANALYZER_ADJUSTMENT_CEILING
	AdjustmentCeiling string `koanf:"ANALYZER_ADJUSTMENT_CEILING"`

	// ListenAddr is the HTTP API listen address for serve mode.
	// Environment variable: ANALYZER_LISTEN_ADDR
	ListenAddr string `koanf:"ANALYZER_LISTEN_ADDR"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		MasterFile:        "categories.master",
		Epsilon:           "0.01",
		AdjustmentCeiling: "1.00",
		ListenAddr:        ":8080",
	}
}

// Load reads configuration from ANALYZER_-prefixed environment variables,
// falling back to defaults for anything unset.
func Load() (Config, error) {
	cfg := Defaults()

	k := koanf.New(".")
	if err := k.Load(env.Provider("ANALYZER_", ".", nil), nil); err != nil {
		return cfg, fmt.Errorf("load environment config: %w", err)
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
