package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "categories.master", cfg.MasterFile)
	assert.Equal(t, "0.01", cfg.Epsilon)
	assert.Equal(t, "1.00", cfg.AdjustmentCeiling)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ANALYZER_MASTER_FILE", "/var/lib/analyzer/rules.csv")
	t.Setenv("ANALYZER_EPSILON", "0.05")
	t.Setenv("ANALYZER_ADJUSTMENT_CEILING", "2.50")
	t.Setenv("ANALYZER_LISTEN_ADDR", ":9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/analyzer/rules.csv", cfg.MasterFile)
	assert.Equal(t, "0.05", cfg.Epsilon)
	assert.Equal(t, "2.50", cfg.AdjustmentCeiling)
	assert.Equal(t, ":9090", cfg.ListenAddr)
}

func TestLoadPartialEnvironmentKeepsDefaults(t *testing.T) {
	t.Setenv("ANALYZER_EPSILON", "0.10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.10", cfg.Epsilon)
	assert.Equal(t, "categories.master", cfg.MasterFile)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}
